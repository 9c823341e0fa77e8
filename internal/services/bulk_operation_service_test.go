package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

func seedPendingBatch(f *orchestratorFixture, n int) []string {
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("campaign-%d", i+1)
		submittedAt := time.Now().Add(-time.Hour)
		f.campaignStore.put(&models.Campaign{
			ID:             id,
			UserID:         testOwnerID,
			Name:           fmt.Sprintf("Campaign %d", i+1),
			Platform:       models.PlatformMeta,
			Budget:         500,
			TargetAudience: "US adults",
			Objectives:     models.StringList{"conversions"},
			Status:         models.StatusPendingReview,
			SubmittedAt:    &submittedAt,
		})
		f.openRecord(id)
		ids[i] = id
	}
	return ids
}

func TestBulkApproveCapEnforcedBeforeAnyWork(t *testing.T) {
	f := newOrchestratorFixture(t)
	bulk := NewBulkOperationService(f.orchestrator)

	ids := make([]string, MaxBulkApproveSize+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("campaign-%d", i+1)
	}

	_, err := bulk.BulkApprove(context.Background(), testReviewerID, ids, models.ApprovalData{})
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)

	assert.Zero(t, f.factory.adapters[models.PlatformMeta].createCalls, "no adapter may be called once the cap check fails")
	assert.Zero(t, f.factory.adapters[models.PlatformGoogle].createCalls)
}

func TestBulkApproveEmptyBatch(t *testing.T) {
	f := newOrchestratorFixture(t)
	bulk := NewBulkOperationService(f.orchestrator)

	_, err := bulk.BulkApprove(context.Background(), testReviewerID, nil, models.ApprovalData{})
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestBulkApproveIsolatesFailures(t *testing.T) {
	f := newOrchestratorFixture(t)
	bulk := NewBulkOperationService(f.orchestrator)

	ids := seedPendingBatch(f, 4)

	// The fifth campaign is still a draft with no approval request, so its
	// approval must fail without touching the other four.
	f.campaignStore.put(&models.Campaign{
		ID:             "campaign-draft",
		UserID:         testOwnerID,
		Name:           "Still a draft",
		Platform:       models.PlatformMeta,
		Budget:         500,
		TargetAudience: "US adults",
		Objectives:     models.StringList{"conversions"},
		Status:         models.StatusDraft,
	})
	ids = append(ids, "campaign-draft")

	resp, err := bulk.BulkApprove(context.Background(), testReviewerID, ids, models.ApprovalData{})
	require.NoError(t, err)

	assert.Equal(t, 5, resp.Summary.Total)
	assert.Equal(t, 4, resp.Summary.Successful)
	assert.Equal(t, 1, resp.Summary.Failed)
	require.Len(t, resp.Results, 5)

	for _, result := range resp.Results[:4] {
		assert.True(t, result.Success)
		assert.Equal(t, "approved", result.Message)
	}
	assert.False(t, resp.Results[4].Success)
	assert.NotEmpty(t, resp.Results[4].Error)

	for _, id := range ids[:4] {
		stored, err := f.campaignStore.GetByID(id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusActive, stored.Status)
	}
	draft, err := f.campaignStore.GetByID("campaign-draft")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, draft.Status)
}

func TestBulkPauseIsolatesFailures(t *testing.T) {
	f := newOrchestratorFixture(t)
	bulk := NewBulkOperationService(f.orchestrator)

	metaID := "meta-1"
	f.campaignStore.put(&models.Campaign{
		ID:             "active-1",
		UserID:         testOwnerID,
		Name:           "Running",
		Platform:       models.PlatformMeta,
		Budget:         500,
		TargetAudience: "US adults",
		Objectives:     models.StringList{"conversions"},
		Status:         models.StatusActive,
		MetaCampaignID: &metaID,
	})

	resp, err := bulk.BulkPause(context.Background(), []string{"active-1", "missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Summary.Successful)
	assert.Equal(t, 1, resp.Summary.Failed)

	stored, err := f.campaignStore.GetByID("active-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaused, stored.Status)
}

func TestBulkLifecycleCap(t *testing.T) {
	f := newOrchestratorFixture(t)
	bulk := NewBulkOperationService(f.orchestrator)

	ids := make([]string, MaxBulkLifecycleSize+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("campaign-%d", i+1)
	}

	_, err := bulk.BulkPause(context.Background(), ids)
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = bulk.BulkComplete(context.Background(), ids)
	require.ErrorAs(t, err, &validation)
}
