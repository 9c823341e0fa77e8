package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
	"github.com/adpilot/ad-campaign-services-backend/internal/services/service_platform"
	"github.com/adpilot/ad-campaign-services-backend/internal/utils"
)

// MinRejectionFeedbackLength is the minimum length of reviewer feedback on
// a rejection. Trivial feedback is refused before any state is touched.
const MinRejectionFeedbackLength = 10

// Review-time estimates returned on submission, sized by queue depth
const (
	reviewQueueBusyThreshold = 10
	estimatedReviewTimeShort = "24h"
	estimatedReviewTimeLong  = "48h"
)

// ApprovalOrchestrator owns the campaign lifecycle state machine: it is the
// only component that transitions campaign status and opens or closes
// approval records. Per-campaign serialization relies entirely on the
// store's conditional status updates; the orchestrator itself holds no
// locks and may be called from any number of request workers.
type ApprovalOrchestrator struct {
	campaignStore CampaignStore
	approvalStore ApprovalStore
	userStore     UserStore
	adapters      map[models.Platform]service_platform.PlatformAdapterInterface
	events        EventPublisher
}

// NewApprovalOrchestrator creates the orchestrator, resolving one adapter
// per supported platform from the factory. The event publisher may be nil
// when messaging is unavailable.
func NewApprovalOrchestrator(
	campaignStore CampaignStore,
	approvalStore ApprovalStore,
	userStore UserStore,
	factory service_platform.PlatformAdapterFactory,
	events EventPublisher,
) (*ApprovalOrchestrator, error) {
	adapters := make(map[models.Platform]service_platform.PlatformAdapterInterface)
	for _, platform := range factory.GetSupportedPlatforms() {
		adapter, err := factory.CreatePlatformAdapter(platform)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s adapter: %w", platform, err)
		}
		adapters[platform] = adapter
	}

	return &ApprovalOrchestrator{
		campaignStore: campaignStore,
		approvalStore: approvalStore,
		userStore:     userStore,
		adapters:      adapters,
		events:        events,
	}, nil
}

// Submit validates a campaign and moves it into pending review, opening an
// approval record. The record is created before the status flips so queue
// readers never see a pending campaign without its record.
func (o *ApprovalOrchestrator) Submit(ctx context.Context, campaignID, ownerID string) (*models.SubmitResponse, error) {
	campaign, err := o.campaignStore.GetByUserIDAndID(ownerID, campaignID)
	if err != nil {
		return nil, err
	}

	if campaign.Status == models.StatusPendingReview {
		return nil, &models.ConflictError{CampaignID: campaignID, Message: "campaign is already awaiting review"}
	}
	if !campaign.Status.Submittable() {
		return nil, &models.InvalidStateError{CampaignID: campaignID, Current: campaign.Status, Operation: "submit"}
	}

	if _, err := o.approvalStore.GetOpenByCampaignID(campaignID); err == nil {
		return nil, &models.ConflictError{CampaignID: campaignID, Message: "campaign already has an outstanding approval request"}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	result := ValidateCampaign(campaign)
	if !result.Valid {
		return nil, &models.ValidationError{Errors: result.Errors, Warnings: result.Warnings}
	}

	if err := guardTransition(campaign, models.StatusPendingReview, "submit"); err != nil {
		return nil, err
	}

	now := time.Now()
	record := &models.ApprovalRecord{
		ID:          uuid.NewString(),
		CampaignID:  campaignID,
		SubmittedAt: now,
		Status:      models.ApprovalPending,
	}
	if err := o.approvalStore.Create(record); err != nil {
		// The partial unique index rejects a second open record, which
		// means a concurrent submit won the race.
		return nil, &models.ConflictError{CampaignID: campaignID, Message: "campaign already has an outstanding approval request"}
	}

	ok, err := o.campaignStore.MarkSubmitted(campaignID, campaign.Status, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the status race after opening the record; close it as a
		// system action so the campaign is not blocked from resubmitting.
		if _, closeErr := o.approvalStore.CloseOpen(campaignID, models.ApprovalRejected, nil,
			"submission aborted: campaign state changed concurrently", nil); closeErr != nil {
			logrus.WithField("campaign_id", campaignID).Warnf("Failed to close aborted approval record: %v", closeErr)
		}
		return nil, &models.ConflictError{CampaignID: campaignID}
	}

	o.publishEvent("campaign.submitted", campaign)

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaignID,
		"approval_id": record.ID,
	}).Info("Campaign submitted for review")

	return &models.SubmitResponse{
		ApprovalID:          record.ID,
		Status:              string(models.StatusPendingReview),
		EstimatedReviewTime: o.estimateReviewTime(),
	}, nil
}

// Approve pushes an approved campaign to every selected platform and
// activates it. This is a best-effort two-phase apply: phase 1 creates the
// remote campaigns concurrently and collects per-platform outcomes; phase 2
// commits local state only when every platform succeeded. Any partial
// outcome rolls the campaign back to draft and surfaces exactly which
// platforms accepted the creation, so a retried approval reuses them.
func (o *ApprovalOrchestrator) Approve(ctx context.Context, campaignID, reviewerID string, data models.ApprovalData) (*models.Campaign, []models.PlatformResult, error) {
	if err := o.requireReviewer(reviewerID); err != nil {
		return nil, nil, err
	}

	campaign, err := o.campaignStore.GetByID(campaignID)
	if err != nil {
		return nil, nil, err
	}

	openRecord, recordErr := o.approvalStore.GetOpenByCampaignID(campaignID)
	switch campaign.Status {
	case models.StatusPendingReview:
		// normal path
	case models.StatusDraft:
		// A draft campaign is approvable only as a retry after a partial
		// failure, which leaves the approval record open.
		if recordErr != nil {
			return nil, nil, &models.InvalidStateError{CampaignID: campaignID, Current: campaign.Status, Operation: "approve"}
		}
	default:
		return nil, nil, &models.InvalidStateError{CampaignID: campaignID, Current: campaign.Status, Operation: "approve"}
	}
	if recordErr != nil {
		return nil, nil, &models.ConflictError{CampaignID: campaignID, Message: "no outstanding approval request for campaign"}
	}
	if err := guardTransition(campaign, models.StatusActive, "approve"); err != nil {
		return nil, nil, err
	}

	// Phase 1: create on each selected platform. Adapters dedupe by local
	// campaign id, so re-running after a partial failure is safe.
	results := o.applyToPlatforms(ctx, campaign, func(ctx context.Context, adapter service_platform.PlatformAdapterInterface) (string, error) {
		return adapter.CreateCampaign(ctx, campaign)
	})

	var metaID, googleID *string
	allSucceeded := true
	for i := range results {
		if !results[i].Success {
			allSucceeded = false
			continue
		}
		id := results[i].PlatformID
		switch results[i].Platform {
		case models.PlatformMeta:
			metaID = &id
		case models.PlatformGoogle:
			googleID = &id
		}
	}

	if !allSucceeded {
		o.recordPartialFailure(campaign, openRecord, results)
		return nil, results, &models.PartialFailureError{
			CampaignID: campaignID,
			Operation:  "approve",
			Results:    results,
		}
	}

	// Phase 2: commit local state in one conditional update
	ok, err := o.campaignStore.ActivateWithPlatformIDs(campaignID, campaign.Status, metaID, googleID)
	if err != nil {
		return nil, results, err
	}
	if !ok {
		return nil, results, &models.ConflictError{CampaignID: campaignID}
	}

	if _, err := o.approvalStore.CloseOpen(campaignID, models.ApprovalApproved, &reviewerID, data.Notes, nil); err != nil {
		logrus.WithField("campaign_id", campaignID).Warnf("Failed to close approval record: %v", err)
	}

	campaign.Status = models.StatusActive
	campaign.MetaCampaignID = metaID
	campaign.GoogleCampaignID = googleID

	o.publishEvent("campaign.approved", campaign)

	logrus.WithFields(logrus.Fields{
		"campaign_id": campaignID,
		"reviewer_id": reviewerID,
	}).Info("Campaign approved and activated")

	return campaign, results, nil
}

// Reject records a review rejection. Feedback is mandatory and must be
// substantive; nothing is touched when it is too short. needsChanges sends
// the campaign back for edits instead of terminally rejecting it.
func (o *ApprovalOrchestrator) Reject(ctx context.Context, campaignID, reviewerID, feedback string, reasonCodes []string, needsChanges bool) (*models.Campaign, error) {
	if err := o.requireReviewer(reviewerID); err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(feedback)) < MinRejectionFeedbackLength {
		return nil, models.NewValidationError(
			fmt.Sprintf("rejection feedback must be at least %d characters", MinRejectionFeedbackLength))
	}

	campaign, err := o.campaignStore.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != models.StatusPendingReview {
		return nil, &models.InvalidStateError{CampaignID: campaignID, Current: campaign.Status, Operation: "reject"}
	}

	target := models.StatusRejected
	recordStatus := models.ApprovalRejected
	if needsChanges {
		target = models.StatusNeedsChanges
		recordStatus = models.ApprovalNeedsChanges
	}

	if err := guardTransition(campaign, target, "reject"); err != nil {
		return nil, err
	}

	ok, err := o.campaignStore.CompareAndSwapStatus(campaignID, models.StatusPendingReview, target)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &models.ConflictError{CampaignID: campaignID}
	}

	if _, err := o.approvalStore.CloseOpen(campaignID, recordStatus, &reviewerID, feedback, reasonCodes); err != nil {
		logrus.WithField("campaign_id", campaignID).Warnf("Failed to close approval record: %v", err)
	}

	campaign.Status = target
	o.publishEvent("campaign."+string(recordStatus), campaign)

	logrus.WithFields(logrus.Fields{
		"campaign_id":   campaignID,
		"reviewer_id":   reviewerID,
		"needs_changes": needsChanges,
	}).Info("Campaign rejected")

	return campaign, nil
}

// Pause stops delivery. The local transition happens first and always
// proceeds: failing to pause remotely must never keep the campaign
// spending locally unaccounted, so adapter failures become warnings
// instead of blocking the transition. Calling Pause on an already paused
// campaign re-drives the remote pause against the stored platform ids, so
// a platform that failed the first attempt can be retried until the
// warnings clear.
func (o *ApprovalOrchestrator) Pause(ctx context.Context, campaignID string) (*models.Campaign, []string, error) {
	campaign, err := o.campaignStore.GetByID(campaignID)
	if err != nil {
		return nil, nil, err
	}

	if campaign.Status == models.StatusPaused {
		warnings := o.pausePlatforms(ctx, campaign)
		return campaign, warnings, nil
	}

	if err := guardTransition(campaign, models.StatusPaused, "pause"); err != nil {
		return nil, nil, err
	}

	ok, err := o.campaignStore.CompareAndSwapStatus(campaignID, models.StatusActive, models.StatusPaused)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, &models.ConflictError{CampaignID: campaignID}
	}
	campaign.Status = models.StatusPaused

	warnings := o.pausePlatforms(ctx, campaign)

	o.publishEvent("campaign.paused", campaign)
	return campaign, warnings, nil
}

// Activate resumes a paused campaign, re-enabling the previously stored
// platform campaigns. Like Approve it commits local state only when every
// platform call succeeded; on a partial outcome the campaign stays paused.
func (o *ApprovalOrchestrator) Activate(ctx context.Context, campaignID string) (*models.Campaign, []models.PlatformResult, error) {
	campaign, err := o.campaignStore.GetByID(campaignID)
	if err != nil {
		return nil, nil, err
	}
	if campaign.Status != models.StatusPaused {
		return nil, nil, &models.InvalidStateError{CampaignID: campaignID, Current: campaign.Status, Operation: "activate"}
	}

	results := o.applyToPlatforms(ctx, campaign, func(ctx context.Context, adapter service_platform.PlatformAdapterInterface) (string, error) {
		platformID := campaign.PlatformID(adapter.GetPlatformName())
		if platformID == nil {
			return "", fmt.Errorf("no stored %s campaign id", adapter.GetPlatformName())
		}
		return *platformID, adapter.UpdateCampaignStatus(ctx, *platformID, models.PlatformStatusEnabled)
	})

	for _, r := range results {
		if !r.Success {
			utils.CaptureError(&models.PartialFailureError{CampaignID: campaignID, Operation: "activate", Results: results}, "activate")
			return nil, results, &models.PartialFailureError{
				CampaignID: campaignID,
				Operation:  "activate",
				Results:    results,
			}
		}
	}

	ok, err := o.campaignStore.CompareAndSwapStatus(campaignID, models.StatusPaused, models.StatusActive)
	if err != nil {
		return nil, results, err
	}
	if !ok {
		return nil, results, &models.ConflictError{CampaignID: campaignID}
	}
	campaign.Status = models.StatusActive

	o.publishEvent("campaign.activated", campaign)
	return campaign, results, nil
}

// Complete ends a campaign terminally after a best-effort remote pause
func (o *ApprovalOrchestrator) Complete(ctx context.Context, campaignID string) (*models.Campaign, []string, error) {
	return o.finish(ctx, campaignID, models.StatusCompleted, "campaign.completed")
}

// Cancel abandons a campaign terminally after a best-effort remote pause
func (o *ApprovalOrchestrator) Cancel(ctx context.Context, campaignID string) (*models.Campaign, []string, error) {
	return o.finish(ctx, campaignID, models.StatusCancelled, "campaign.cancelled")
}

func (o *ApprovalOrchestrator) finish(ctx context.Context, campaignID string, target models.CampaignStatus, event string) (*models.Campaign, []string, error) {
	campaign, err := o.campaignStore.GetByID(campaignID)
	if err != nil {
		return nil, nil, err
	}
	if err := guardTransition(campaign, target, string(target)); err != nil {
		return nil, nil, err
	}

	// A paused campaign may still be delivering on a platform whose pause
	// failed earlier, so the remote pause is attempted from both states
	// before the platform ids are cleared.
	warnings := o.pausePlatforms(ctx, campaign)

	ok, err := o.campaignStore.FinishAndClearPlatformIDs(campaignID, campaign.Status, target)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, &models.ConflictError{CampaignID: campaignID}
	}

	campaign.Status = target
	campaign.MetaCampaignID = nil
	campaign.GoogleCampaignID = nil

	o.publishEvent(event, campaign)
	return campaign, warnings, nil
}

// platformOp is one adapter call applied per selected platform
type platformOp func(ctx context.Context, adapter service_platform.PlatformAdapterInterface) (string, error)

// applyToPlatforms fans one operation out to every platform in the
// campaign's selector. Calls run concurrently so a two-platform campaign
// waits for the slower platform, not the sum of both. Outcomes come back
// in selector order.
func (o *ApprovalOrchestrator) applyToPlatforms(ctx context.Context, campaign *models.Campaign, op platformOp) []models.PlatformResult {
	targets := campaign.Platform.Targets()
	results := make([]models.PlatformResult, len(targets))

	var wg sync.WaitGroup
	for i, platform := range targets {
		adapter, exists := o.adapters[platform]
		if !exists {
			results[i] = models.PlatformResult{Platform: platform, Success: false, Error: "no adapter configured"}
			continue
		}

		wg.Add(1)
		go func(i int, platform models.Platform, adapter service_platform.PlatformAdapterInterface) {
			defer wg.Done()
			platformID, err := op(ctx, adapter)
			if err != nil {
				results[i] = models.PlatformResult{Platform: platform, Success: false, Error: err.Error()}
				return
			}
			results[i] = models.PlatformResult{Platform: platform, Success: true, PlatformID: platformID}
		}(i, platform, adapter)
	}
	wg.Wait()

	return results
}

// pausePlatforms requests a remote pause on every platform the campaign is
// live on and converts failures into warnings. A failed pause is never
// swallowed silently.
func (o *ApprovalOrchestrator) pausePlatforms(ctx context.Context, campaign *models.Campaign) []string {
	results := o.applyToPlatforms(ctx, campaign, func(ctx context.Context, adapter service_platform.PlatformAdapterInterface) (string, error) {
		platformID := campaign.PlatformID(adapter.GetPlatformName())
		if platformID == nil {
			return "", fmt.Errorf("no stored %s campaign id", adapter.GetPlatformName())
		}
		return *platformID, adapter.UpdateCampaignStatus(ctx, *platformID, models.PlatformStatusPaused)
	})

	var warnings []string
	for _, r := range results {
		if !r.Success {
			warning := fmt.Sprintf("failed to pause campaign on %s: %s", r.Platform, r.Error)
			warnings = append(warnings, warning)
			logrus.WithFields(logrus.Fields{
				"campaign_id": campaign.ID,
				"platform":    r.Platform,
			}).Warn(warning)
		}
	}
	return warnings
}

// recordPartialFailure rolls the campaign back to draft and notes the
// platforms that did accept the creation on the still-open approval record,
// so a retried approval can reuse their ids.
func (o *ApprovalOrchestrator) recordPartialFailure(campaign *models.Campaign, record *models.ApprovalRecord, results []models.PlatformResult) {
	var codes []string
	for _, r := range results {
		if r.Success {
			codes = append(codes, fmt.Sprintf("platform_%s_created:%s", r.Platform, r.PlatformID))
		} else {
			codes = append(codes, fmt.Sprintf("platform_%s_failed", r.Platform))
		}
	}
	if err := o.approvalStore.AppendReasonCodes(record.ID, codes); err != nil {
		logrus.WithField("campaign_id", campaign.ID).Warnf("Failed to record partial outcome: %v", err)
	}

	if campaign.Status == models.StatusPendingReview {
		ok, err := o.campaignStore.CompareAndSwapStatus(campaign.ID, models.StatusPendingReview, models.StatusDraft)
		if err != nil {
			logrus.WithField("campaign_id", campaign.ID).Errorf("Failed to roll campaign back to draft: %v", err)
		} else if !ok {
			logrus.WithField("campaign_id", campaign.ID).Error("Campaign left pending review during partial-failure rollback, status changed concurrently")
		}
	}

	utils.CaptureError(&models.PartialFailureError{CampaignID: campaign.ID, Operation: "approve", Results: results}, "approve")
}

// guardTransition consults the lifecycle transition table before a
// conditional status update is attempted, so an illegal move fails here
// instead of surfacing as a spurious conflict.
func guardTransition(campaign *models.Campaign, to models.CampaignStatus, operation string) error {
	if !campaign.Status.CanTransitionTo(to) {
		return &models.InvalidStateError{CampaignID: campaign.ID, Current: campaign.Status, Operation: operation}
	}
	return nil
}

// requireReviewer checks the caller has review authority
func (o *ApprovalOrchestrator) requireReviewer(reviewerID string) error {
	reviewer, err := o.userStore.GetByID(reviewerID)
	if err != nil {
		return &models.ForbiddenError{Message: "reviewer not found"}
	}
	if !reviewer.IsActive || !reviewer.CanReview() {
		return &models.ForbiddenError{Message: "user does not have review authority"}
	}
	return nil
}

// estimateReviewTime sizes the review ETA by current queue depth
func (o *ApprovalOrchestrator) estimateReviewTime() string {
	pending, err := o.campaignStore.CountByStatus(models.StatusPendingReview)
	if err != nil || pending < reviewQueueBusyThreshold {
		return estimatedReviewTimeShort
	}
	return estimatedReviewTimeLong
}

// publishEvent forwards a lifecycle event when messaging is configured
func (o *ApprovalOrchestrator) publishEvent(event string, campaign *models.Campaign) {
	if o.events == nil {
		return
	}
	if err := o.events.PublishCampaignEvent(event, campaign); err != nil {
		logrus.WithFields(logrus.Fields{
			"campaign_id": campaign.ID,
			"event":       event,
		}).Warnf("Failed to publish campaign event: %v", err)
	}
}
