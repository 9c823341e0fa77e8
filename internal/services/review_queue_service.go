package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
	"github.com/adpilot/ad-campaign-services-backend/internal/utils"
)

// Urgency scoring weights. The score is a deliberately simple weighted sum
// so reviewers can predict the ranking; reproduce it exactly.
const (
	// HighPriorityThreshold marks queue entries reviewers should take first
	HighPriorityThreshold = 4

	urgencyHighBudgetThreshold = 5000.00
)

// UrgencyScore computes the review priority of a pending campaign at the
// given instant. Older submissions, larger budgets and dual-platform
// campaigns rank higher:
//
//	age:      >2 days = 3, >1 day = 2, else 1
//	budget:   >5000 adds 2
//	platform: both adds 1
func UrgencyScore(campaign *models.Campaign, now time.Time) int {
	score := 1
	if campaign.SubmittedAt != nil {
		days := now.Sub(*campaign.SubmittedAt).Hours() / 24
		if days > 2 {
			score = 3
		} else if days > 1 {
			score = 2
		}
	}

	if campaign.Budget > urgencyHighBudgetThreshold {
		score += 2
	}
	if campaign.Platform == models.PlatformBoth {
		score += 1
	}
	return score
}

// ComputeQueueStats derives aggregate statistics from a snapshot of pending
// campaigns. Pure function: no store access, unit-testable without a
// database.
func ComputeQueueStats(campaigns []*models.Campaign, now time.Time) models.ReviewQueueStats {
	stats := models.ReviewQueueStats{TotalPending: len(campaigns)}
	if len(campaigns) == 0 {
		return stats
	}

	var totalWaitHours float64
	for _, c := range campaigns {
		if UrgencyScore(c, now) >= HighPriorityThreshold {
			stats.HighPriority++
		}
		if c.SubmittedAt != nil {
			totalWaitHours += now.Sub(*c.SubmittedAt).Hours()
		}
	}
	stats.MeanWaitHours = totalWaitHours / float64(len(campaigns))
	return stats
}

// ReviewQueueService derives the prioritized reviewer queue from the
// campaign store. It only reads; every mutation goes through the
// orchestrator.
type ReviewQueueService struct {
	campaignStore CampaignStore
}

// NewReviewQueueService creates a new review queue service
func NewReviewQueueService(campaignStore CampaignStore) *ReviewQueueService {
	return &ReviewQueueService{campaignStore: campaignStore}
}

// PendingCampaigns returns a page of campaigns awaiting review in the
// requested ordering, with queue-wide statistics computed over the full
// snapshot rather than the page.
func (s *ReviewQueueService) PendingCampaigns(ordering models.ReviewQueueOrdering, page, pageSize int) (*models.ReviewQueueResponse, error) {
	if ordering == "" {
		ordering = models.OrderByUrgency
	}
	if !ordering.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("unknown queue ordering %q", ordering))
	}

	pending, err := s.campaignStore.GetByStatus(models.StatusPendingReview)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending campaigns: %w", err)
	}

	now := time.Now()
	sortPending(pending, ordering, now)

	page, pageSize = utils.ValidateAndNormalizePagination(page, pageSize)
	offset := utils.CalculateOffset(page, pageSize)

	items := make([]models.ReviewQueueItem, 0, pageSize)
	for i := offset; i < len(pending) && i < offset+pageSize; i++ {
		c := pending[i]
		item := models.ReviewQueueItem{
			Campaign:     c.ToResponse(),
			UrgencyScore: UrgencyScore(c, now),
		}
		if c.SubmittedAt != nil {
			item.WaitingSince = *c.SubmittedAt
			item.WaitingHours = now.Sub(*c.SubmittedAt).Hours()
		}
		items = append(items, item)
	}

	return &models.ReviewQueueResponse{
		Items:      items,
		Stats:      ComputeQueueStats(pending, now),
		Pagination: utils.CalculatePaginationInfo(len(pending), page, pageSize),
	}, nil
}

// sortPending orders the snapshot in place. Urgency ties break toward the
// older submission so no campaign starves behind equally urgent newer ones.
func sortPending(campaigns []*models.Campaign, ordering models.ReviewQueueOrdering, now time.Time) {
	submittedAt := func(c *models.Campaign) time.Time {
		if c.SubmittedAt != nil {
			return *c.SubmittedAt
		}
		return c.CreatedAt
	}

	switch ordering {
	case models.OrderByBudget:
		sort.SliceStable(campaigns, func(i, j int) bool {
			return campaigns[i].Budget > campaigns[j].Budget
		})
	case models.OrderByAge:
		sort.SliceStable(campaigns, func(i, j int) bool {
			return submittedAt(campaigns[i]).Before(submittedAt(campaigns[j]))
		})
	default: // urgency
		sort.SliceStable(campaigns, func(i, j int) bool {
			si, sj := UrgencyScore(campaigns[i], now), UrgencyScore(campaigns[j], now)
			if si != sj {
				return si > sj
			}
			return submittedAt(campaigns[i]).Before(submittedAt(campaigns[j]))
		})
	}
}
