package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

// Batch size caps. Approvals fan out to external platforms per item, so
// their cap is much tighter than local-only lifecycle batches.
const (
	MaxBulkApproveSize   = 10
	MaxBulkLifecycleSize = 100
)

// BulkOperationService drives the orchestrator across a bounded batch of
// campaign ids. Items are applied sequentially and independently: one bad
// campaign never aborts the rest, and there is no rollback across items.
type BulkOperationService struct {
	orchestrator *ApprovalOrchestrator
}

// NewBulkOperationService creates a new bulk operation service
func NewBulkOperationService(orchestrator *ApprovalOrchestrator) *BulkOperationService {
	return &BulkOperationService{orchestrator: orchestrator}
}

// BulkApprove approves a batch of campaigns. The size cap is enforced
// before any platform work starts.
func (s *BulkOperationService) BulkApprove(ctx context.Context, reviewerID string, campaignIDs []string, data models.ApprovalData) (*models.BulkOperationResponse, error) {
	if err := checkBatch(campaignIDs, MaxBulkApproveSize); err != nil {
		return nil, err
	}

	return s.run(campaignIDs, "approved", func(id string) error {
		_, _, err := s.orchestrator.Approve(ctx, id, reviewerID, data)
		return err
	}), nil
}

// BulkPause pauses a batch of campaigns
func (s *BulkOperationService) BulkPause(ctx context.Context, campaignIDs []string) (*models.BulkOperationResponse, error) {
	if err := checkBatch(campaignIDs, MaxBulkLifecycleSize); err != nil {
		return nil, err
	}

	return s.run(campaignIDs, "paused", func(id string) error {
		_, _, err := s.orchestrator.Pause(ctx, id)
		return err
	}), nil
}

// BulkComplete completes a batch of campaigns
func (s *BulkOperationService) BulkComplete(ctx context.Context, campaignIDs []string) (*models.BulkOperationResponse, error) {
	if err := checkBatch(campaignIDs, MaxBulkLifecycleSize); err != nil {
		return nil, err
	}

	return s.run(campaignIDs, "completed", func(id string) error {
		_, _, err := s.orchestrator.Complete(ctx, id)
		return err
	}), nil
}

// run applies one operation per id, converting every failure into a
// per-item result entry instead of propagating it.
func (s *BulkOperationService) run(campaignIDs []string, successMessage string, op func(id string) error) *models.BulkOperationResponse {
	response := &models.BulkOperationResponse{
		Results: make([]models.BulkItemResult, 0, len(campaignIDs)),
		Summary: models.BulkSummary{Total: len(campaignIDs)},
	}

	for _, id := range campaignIDs {
		if err := op(id); err != nil {
			response.Results = append(response.Results, models.BulkItemResult{
				CampaignID: id,
				Success:    false,
				Error:      err.Error(),
			})
			response.Summary.Failed++
			continue
		}

		response.Results = append(response.Results, models.BulkItemResult{
			CampaignID: id,
			Success:    true,
			Message:    successMessage,
		})
		response.Summary.Successful++
	}

	logrus.WithFields(logrus.Fields{
		"total":      response.Summary.Total,
		"successful": response.Summary.Successful,
		"failed":     response.Summary.Failed,
	}).Info("Bulk operation finished")

	return response
}

// checkBatch validates batch bounds before any work starts
func checkBatch(campaignIDs []string, limit int) error {
	if len(campaignIDs) == 0 {
		return models.NewValidationError("campaign_ids must not be empty")
	}
	if len(campaignIDs) > limit {
		return models.NewValidationError(
			fmt.Sprintf("batch size %d exceeds maximum of %d", len(campaignIDs), limit))
	}
	return nil
}
