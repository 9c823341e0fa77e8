package models

import (
	"time"

	"github.com/adpilot/ad-campaign-services-backend/internal/utils"
)

// ReviewQueueOrdering selects how the pending-review queue is sorted
type ReviewQueueOrdering string

const (
	OrderByUrgency ReviewQueueOrdering = "urgency" // default, weighted score descending
	OrderByBudget  ReviewQueueOrdering = "budget"  // high-budget first
	OrderByAge     ReviewQueueOrdering = "age"     // oldest first
)

// Valid reports whether the ordering is a known value
func (o ReviewQueueOrdering) Valid() bool {
	return o == OrderByUrgency || o == OrderByBudget || o == OrderByAge
}

// ReviewQueueItem is one pending campaign in the reviewer queue with its
// computed urgency score.
type ReviewQueueItem struct {
	Campaign     *CampaignResponse `json:"campaign"`
	UrgencyScore int               `json:"urgency_score" example:"6"`
	WaitingSince time.Time         `json:"waiting_since"`
	WaitingHours float64           `json:"waiting_hours" example:"36.5"`
}

// ReviewQueueStats holds aggregate numbers returned alongside a queue page
type ReviewQueueStats struct {
	TotalPending  int     `json:"total_pending" example:"42"`
	HighPriority  int     `json:"high_priority" example:"7"`
	MeanWaitHours float64 `json:"mean_wait_hours" example:"18.2"`
}

// ReviewQueueResponse is a paginated, ordered view of campaigns awaiting review
type ReviewQueueResponse struct {
	Items      []ReviewQueueItem        `json:"items"`
	Stats      ReviewQueueStats         `json:"stats"`
	Pagination utils.PaginationResponse `json:"pagination"`
}
