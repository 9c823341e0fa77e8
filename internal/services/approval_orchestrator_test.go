package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

type orchestratorFixture struct {
	orchestrator  *ApprovalOrchestrator
	campaignStore *fakeCampaignStore
	approvalStore *fakeApprovalStore
	factory       *fakeAdapterFactory
	publisher     *recordingPublisher
}

const (
	testOwnerID    = "owner-1"
	testReviewerID = "reviewer-1"
)

func newOrchestratorFixture(t *testing.T) *orchestratorFixture {
	t.Helper()

	campaignStore := newFakeCampaignStore()
	approvalStore := newFakeApprovalStore()
	userStore := newFakeUserStore(
		&models.User{ID: testOwnerID, Username: "owner", IsActive: true},
		&models.User{ID: testReviewerID, Username: "reviewer", IsActive: true, IsReviewer: true},
	)
	factory := newFakeAdapterFactory()
	publisher := &recordingPublisher{}

	orchestrator, err := NewApprovalOrchestrator(campaignStore, approvalStore, userStore, factory, publisher)
	require.NoError(t, err)

	return &orchestratorFixture{
		orchestrator:  orchestrator,
		campaignStore: campaignStore,
		approvalStore: approvalStore,
		factory:       factory,
		publisher:     publisher,
	}
}

func (f *orchestratorFixture) seedCampaign(status models.CampaignStatus) *models.Campaign {
	campaign := &models.Campaign{
		ID:             "campaign-1",
		UserID:         testOwnerID,
		Name:           "Summer launch",
		Platform:       models.PlatformBoth,
		Budget:         2500,
		TargetAudience: "US homeowners aged 30-55",
		Objectives:     models.StringList{"brand_awareness"},
		Headlines:      models.StringList{"Save 20% this summer"},
		Status:         status,
	}
	if status != models.StatusDraft {
		submittedAt := time.Now().Add(-time.Hour)
		campaign.SubmittedAt = &submittedAt
	}
	f.campaignStore.put(campaign)
	return campaign
}

func (f *orchestratorFixture) openRecord(campaignID string) *models.ApprovalRecord {
	record := &models.ApprovalRecord{
		CampaignID:  campaignID,
		SubmittedAt: time.Now().Add(-time.Hour),
		Status:      models.ApprovalPending,
	}
	_ = f.approvalStore.Create(record)
	return record
}

func TestSubmitMovesCampaignToPendingReview(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusDraft)

	resp, err := f.orchestrator.Submit(context.Background(), campaign.ID, testOwnerID)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPendingReview), resp.Status)
	assert.NotEmpty(t, resp.ApprovalID)
	assert.Equal(t, "24h", resp.EstimatedReviewTime)

	stored, err := f.campaignStore.GetByID(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, stored.Status)
	require.NotNil(t, stored.SubmittedAt)

	record, err := f.approvalStore.GetOpenByCampaignID(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, record.Status)

	assert.Contains(t, f.publisher.captured(), "campaign.submitted")
}

func TestSubmitWhilePendingReturnsConflict(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusDraft)

	_, err := f.orchestrator.Submit(context.Background(), campaign.ID, testOwnerID)
	require.NoError(t, err)

	_, err = f.orchestrator.Submit(context.Background(), campaign.ID, testOwnerID)
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)

	records, err := f.approvalStore.GetByCampaignID(campaign.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1, "repeated submit must not open a second record")
}

func TestConcurrentSubmitSingleWinner(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusDraft)

	const workers = 8
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.orchestrator.Submit(context.Background(), campaign.ID, testOwnerID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		var conflict *models.ConflictError
		assert.ErrorAs(t, err, &conflict)
	}
	assert.Equal(t, 1, successes, "exactly one concurrent submit may win")

	openRecords := 0
	records, err := f.approvalStore.GetByCampaignID(campaign.ID)
	require.NoError(t, err)
	for _, r := range records {
		if r.Open() {
			openRecords++
		}
	}
	assert.Equal(t, 1, openRecords)
}

func TestSubmitInvalidCampaignLeavesDraftUntouched(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusDraft)
	campaign.Objectives = nil
	campaign.TargetAudience = ""
	f.campaignStore.put(campaign)

	_, err := f.orchestrator.Submit(context.Background(), campaign.ID, testOwnerID)
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.NotEmpty(t, validation.Errors)

	stored, err := f.campaignStore.GetByID(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status)

	_, err = f.approvalStore.GetOpenByCampaignID(campaign.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubmitAfterNeedsChanges(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusNeedsChanges)

	resp, err := f.orchestrator.Submit(context.Background(), campaign.ID, testOwnerID)
	require.NoError(t, err)
	assert.Equal(t, string(models.StatusPendingReview), resp.Status)
}

func TestSubmitTerminalCampaignRejected(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusCompleted)

	_, err := f.orchestrator.Submit(context.Background(), campaign.ID, testOwnerID)
	var stateErr *models.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, models.StatusCompleted, stateErr.Current)
}

func TestApproveActivatesOnAllPlatforms(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPendingReview)
	f.openRecord(campaign.ID)

	approved, results, err := f.orchestrator.Approve(context.Background(), campaign.ID, testReviewerID, models.ApprovalData{Notes: "looks good"})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, approved.Status)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Success)
		assert.NotEmpty(t, r.PlatformID)
	}

	stored, err := f.campaignStore.GetByID(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status)
	require.NotNil(t, stored.MetaCampaignID)
	require.NotNil(t, stored.GoogleCampaignID)

	_, err = f.approvalStore.GetOpenByCampaignID(campaign.ID)
	assert.ErrorIs(t, err, models.ErrNotFound, "record must be closed after approval")

	records, err := f.approvalStore.GetByCampaignID(campaign.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.ApprovalApproved, records[0].Status)
	assert.Equal(t, "looks good", records[0].Feedback)
}

func TestApprovePartialFailureRollsBackToDraft(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPendingReview)
	record := f.openRecord(campaign.ID)
	f.factory.adapters[models.PlatformGoogle].setCreateErr(errors.New("rate limited"))

	_, results, err := f.orchestrator.Approve(context.Background(), campaign.ID, testReviewerID, models.ApprovalData{})
	var partial *models.PartialFailureError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, "approve", partial.Operation)

	require.Len(t, results, 2)
	byPlatform := map[models.Platform]models.PlatformResult{}
	for _, r := range results {
		byPlatform[r.Platform] = r
	}
	assert.True(t, byPlatform[models.PlatformMeta].Success)
	assert.False(t, byPlatform[models.PlatformGoogle].Success)
	assert.Contains(t, byPlatform[models.PlatformGoogle].Error, "rate limited")

	stored, err := f.campaignStore.GetByID(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, stored.Status, "partial failure must roll back to draft")
	assert.Nil(t, stored.MetaCampaignID)

	open, err := f.approvalStore.GetOpenByCampaignID(campaign.ID)
	require.NoError(t, err, "record must stay open for the retry")
	assert.Equal(t, record.ID, open.ID)
	assert.Contains(t, open.ReasonCodes, "platform_meta_created:"+byPlatform[models.PlatformMeta].PlatformID)
	assert.Contains(t, open.ReasonCodes, "platform_google_failed")
}

func TestApproveRetryAfterPartialFailureReusesRemoteCampaign(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPendingReview)
	f.openRecord(campaign.ID)

	googleAdapter := f.factory.adapters[models.PlatformGoogle]
	googleAdapter.setCreateErr(errors.New("timeout"))

	_, results, err := f.orchestrator.Approve(context.Background(), campaign.ID, testReviewerID, models.ApprovalData{})
	require.Error(t, err)
	var firstMetaID string
	for _, r := range results {
		if r.Platform == models.PlatformMeta {
			firstMetaID = r.PlatformID
		}
	}
	require.NotEmpty(t, firstMetaID)

	// The retry runs from draft with the record still open; the meta
	// adapter must return the id it already assigned.
	googleAdapter.setCreateErr(nil)
	approved, _, err := f.orchestrator.Approve(context.Background(), campaign.ID, testReviewerID, models.ApprovalData{})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, approved.Status)
	require.NotNil(t, approved.MetaCampaignID)
	assert.Equal(t, firstMetaID, *approved.MetaCampaignID, "retry must not duplicate the remote campaign")
}

func TestApproveWithoutOpenRecordConflicts(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPendingReview)

	_, _, err := f.orchestrator.Approve(context.Background(), campaign.ID, testReviewerID, models.ApprovalData{})
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestApproveRequiresReviewAuthority(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPendingReview)
	f.openRecord(campaign.ID)

	_, _, err := f.orchestrator.Approve(context.Background(), campaign.ID, testOwnerID, models.ApprovalData{})
	var forbidden *models.ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	stored, err := f.campaignStore.GetByID(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, stored.Status)
}

func TestApproveDraftWithoutRecordIsInvalidState(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusDraft)

	_, _, err := f.orchestrator.Approve(context.Background(), campaign.ID, testReviewerID, models.ApprovalData{})
	var stateErr *models.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestRejectShortFeedbackTouchesNothing(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPendingReview)
	f.openRecord(campaign.ID)

	_, err := f.orchestrator.Reject(context.Background(), campaign.ID, testReviewerID, "too short", nil, false)
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)

	stored, err := f.campaignStore.GetByID(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, stored.Status)

	open, err := f.approvalStore.GetOpenByCampaignID(campaign.ID)
	require.NoError(t, err)
	assert.True(t, open.Open(), "record must remain open after refused feedback")
}

func TestRejectWithNeedsChanges(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPendingReview)
	f.openRecord(campaign.ID)

	rejected, err := f.orchestrator.Reject(context.Background(), campaign.ID, testReviewerID,
		"budget is inconsistent with the stated objectives", []string{"budget_mismatch"}, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNeedsChanges, rejected.Status)

	records, err := f.approvalStore.GetByCampaignID(campaign.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.ApprovalNeedsChanges, records[0].Status)
	assert.False(t, records[0].Open())
	assert.Contains(t, records[0].ReasonCodes, "budget_mismatch")
	require.NotNil(t, records[0].ReviewerID)
	assert.Equal(t, testReviewerID, *records[0].ReviewerID)
}

func TestRejectTerminally(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPendingReview)
	f.openRecord(campaign.ID)

	rejected, err := f.orchestrator.Reject(context.Background(), campaign.ID, testReviewerID,
		"landing page violates platform policy", nil, false)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)
}

func TestPausePlatformFailureStillPausesWithWarning(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusActive)
	metaID, googleID := "meta-1", "google-1"
	campaign.MetaCampaignID = &metaID
	campaign.GoogleCampaignID = &googleID
	f.campaignStore.put(campaign)
	f.factory.adapters[models.PlatformGoogle].setUpdateErr(errors.New("api unavailable"))

	paused, warnings, err := f.orchestrator.Pause(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, paused.Status)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "google")
	assert.Contains(t, warnings[0], "api unavailable")

	stored, err := f.campaignStore.GetByID(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, stored.Status, "local pause must proceed despite adapter failure")
}

func TestPauseNonActiveCampaign(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusDraft)

	_, _, err := f.orchestrator.Pause(context.Background(), campaign.ID)
	var stateErr *models.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestActivateResumesStoredPlatformCampaigns(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPaused)
	metaID, googleID := "meta-1", "google-1"
	campaign.MetaCampaignID = &metaID
	campaign.GoogleCampaignID = &googleID
	f.campaignStore.put(campaign)

	activated, results, err := f.orchestrator.Activate(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, activated.Status)
	require.Len(t, results, 2)

	metaCalls := f.factory.adapters[models.PlatformMeta].updateCalls
	require.Len(t, metaCalls, 1)
	assert.Equal(t, models.PlatformStatusEnabled, metaCalls[0])
}

func TestActivatePartialFailureStaysPaused(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPaused)
	metaID, googleID := "meta-1", "google-1"
	campaign.MetaCampaignID = &metaID
	campaign.GoogleCampaignID = &googleID
	f.campaignStore.put(campaign)
	f.factory.adapters[models.PlatformMeta].setUpdateErr(errors.New("forbidden"))

	_, _, err := f.orchestrator.Activate(context.Background(), campaign.ID)
	var partial *models.PartialFailureError
	require.ErrorAs(t, err, &partial)

	stored, err := f.campaignStore.GetByID(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, stored.Status)
}

func TestCompleteClearsPlatformIDs(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusActive)
	metaID, googleID := "meta-1", "google-1"
	campaign.MetaCampaignID = &metaID
	campaign.GoogleCampaignID = &googleID
	f.campaignStore.put(campaign)

	completed, _, err := f.orchestrator.Complete(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	stored, err := f.campaignStore.GetByID(campaign.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.MetaCampaignID)
	assert.Nil(t, stored.GoogleCampaignID)
}

func TestCancelFromPausedRedrivesRemotePause(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusPaused)
	metaID, googleID := "meta-1", "google-1"
	campaign.MetaCampaignID = &metaID
	campaign.GoogleCampaignID = &googleID
	f.campaignStore.put(campaign)

	cancelled, warnings, err := f.orchestrator.Cancel(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.Empty(t, warnings)

	// A paused campaign may still be delivering on a platform whose pause
	// failed earlier, so finishing must attempt the remote pause again.
	google := f.factory.adapters[models.PlatformGoogle]
	require.Len(t, google.updateCalls, 1)
	assert.Equal(t, models.PlatformStatusPaused, google.updateCalls[0])
}

func TestPauseRetriesFailedPlatformFromPaused(t *testing.T) {
	f := newOrchestratorFixture(t)
	campaign := f.seedCampaign(models.StatusActive)
	metaID, googleID := "meta-1", "google-1"
	campaign.MetaCampaignID = &metaID
	campaign.GoogleCampaignID = &googleID
	f.campaignStore.put(campaign)
	google := f.factory.adapters[models.PlatformGoogle]
	google.setUpdateErr(errors.New("api unavailable"))

	_, warnings, err := f.orchestrator.Pause(context.Background(), campaign.ID)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Empty(t, google.updateCalls)

	// The platform recovers; pausing again re-drives the remote pause
	// against the stored ids instead of rejecting the paused status.
	google.setUpdateErr(nil)
	paused, warnings, err := f.orchestrator.Pause(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, paused.Status)
	assert.Empty(t, warnings)

	require.Len(t, google.updateCalls, 1)
	assert.Equal(t, models.PlatformStatusPaused, google.updateCalls[0])
}
