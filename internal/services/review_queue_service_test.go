package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

func pendingCampaign(id string, budget float64, platform models.Platform, submittedAgo time.Duration) *models.Campaign {
	submittedAt := time.Now().Add(-submittedAgo)
	return &models.Campaign{
		ID:          id,
		UserID:      testOwnerID,
		Name:        id,
		Platform:    platform,
		Budget:      budget,
		Status:      models.StatusPendingReview,
		SubmittedAt: &submittedAt,
	}
}

func TestUrgencyScoreIsDeterministic(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		budget   float64
		platform models.Platform
		age      time.Duration
		want     int
	}{
		{"old high-budget dual-platform", 6000, models.PlatformBoth, 72 * time.Hour, 6},
		{"fresh low-budget single-platform", 50, models.PlatformMeta, time.Hour, 1},
		{"day-old campaign", 500, models.PlatformMeta, 30 * time.Hour, 2},
		{"two-day-old campaign", 500, models.PlatformGoogle, 50 * time.Hour, 3},
		{"high budget only", 5001, models.PlatformMeta, time.Hour, 3},
		{"dual platform only", 100, models.PlatformBoth, time.Hour, 2},
		{"budget exactly at threshold", 5000, models.PlatformMeta, time.Hour, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := pendingCampaign("c", tt.budget, tt.platform, tt.age)
			got := UrgencyScore(c, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, UrgencyScore(c, now), "same inputs must give the same score")
		})
	}
}

func TestUrgencyScoreWithoutSubmissionTime(t *testing.T) {
	c := &models.Campaign{Budget: 100, Platform: models.PlatformMeta}
	assert.Equal(t, 1, UrgencyScore(c, time.Now()))
}

func TestComputeQueueStats(t *testing.T) {
	now := time.Now()
	campaigns := []*models.Campaign{
		pendingCampaign("urgent", 6000, models.PlatformBoth, 72*time.Hour), // score 6
		pendingCampaign("calm", 50, models.PlatformMeta, 12*time.Hour),     // score 1
	}

	stats := ComputeQueueStats(campaigns, now)
	assert.Equal(t, 2, stats.TotalPending)
	assert.Equal(t, 1, stats.HighPriority)
	assert.InDelta(t, 42.0, stats.MeanWaitHours, 0.1)
}

func TestComputeQueueStatsEmpty(t *testing.T) {
	stats := ComputeQueueStats(nil, time.Now())
	assert.Equal(t, 0, stats.TotalPending)
	assert.Equal(t, 0, stats.HighPriority)
	assert.Zero(t, stats.MeanWaitHours)
}

func TestPendingCampaignsOrderByUrgency(t *testing.T) {
	store := newFakeCampaignStore()
	store.put(pendingCampaign("low", 50, models.PlatformMeta, time.Hour))
	store.put(pendingCampaign("high", 6000, models.PlatformBoth, 72*time.Hour))
	store.put(pendingCampaign("mid", 500, models.PlatformMeta, 30*time.Hour))

	svc := NewReviewQueueService(store)
	resp, err := svc.PendingCampaigns(models.OrderByUrgency, 1, 20)
	require.NoError(t, err)
	require.Len(t, resp.Items, 3)

	assert.Equal(t, "high", resp.Items[0].Campaign.ID)
	assert.Equal(t, "mid", resp.Items[1].Campaign.ID)
	assert.Equal(t, "low", resp.Items[2].Campaign.ID)
	assert.Equal(t, 6, resp.Items[0].UrgencyScore)
}

func TestPendingCampaignsUrgencyTieBreaksByAge(t *testing.T) {
	store := newFakeCampaignStore()
	store.put(pendingCampaign("newer", 50, models.PlatformMeta, time.Hour))
	store.put(pendingCampaign("older", 50, models.PlatformMeta, 5*time.Hour))

	svc := NewReviewQueueService(store)
	resp, err := svc.PendingCampaigns(models.OrderByUrgency, 1, 20)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "older", resp.Items[0].Campaign.ID, "equal urgency must favor the older submission")
}

func TestPendingCampaignsOrderByBudget(t *testing.T) {
	store := newFakeCampaignStore()
	store.put(pendingCampaign("small", 100, models.PlatformMeta, time.Hour))
	store.put(pendingCampaign("big", 9000, models.PlatformMeta, time.Hour))

	svc := NewReviewQueueService(store)
	resp, err := svc.PendingCampaigns(models.OrderByBudget, 1, 20)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "big", resp.Items[0].Campaign.ID)
}

func TestPendingCampaignsOrderByAge(t *testing.T) {
	store := newFakeCampaignStore()
	store.put(pendingCampaign("recent", 100, models.PlatformMeta, time.Hour))
	store.put(pendingCampaign("stale", 100, models.PlatformMeta, 96*time.Hour))

	svc := NewReviewQueueService(store)
	resp, err := svc.PendingCampaigns(models.OrderByAge, 1, 20)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "stale", resp.Items[0].Campaign.ID)
}

func TestPendingCampaignsRejectsUnknownOrdering(t *testing.T) {
	svc := NewReviewQueueService(newFakeCampaignStore())

	_, err := svc.PendingCampaigns("alphabetical", 1, 20)
	var validation *models.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestPendingCampaignsDefaultsToUrgency(t *testing.T) {
	store := newFakeCampaignStore()
	store.put(pendingCampaign("only", 100, models.PlatformMeta, time.Hour))

	svc := NewReviewQueueService(store)
	resp, err := svc.PendingCampaigns("", 1, 20)
	require.NoError(t, err)
	assert.Len(t, resp.Items, 1)
}

func TestPendingCampaignsPaginationStatsCoverWholeQueue(t *testing.T) {
	store := newFakeCampaignStore()
	for i := 0; i < 25; i++ {
		store.put(pendingCampaign(fmt.Sprintf("c-%02d", i), 100, models.PlatformMeta, time.Duration(i)*time.Hour))
	}

	svc := NewReviewQueueService(store)
	resp, err := svc.PendingCampaigns(models.OrderByAge, 2, 10)
	require.NoError(t, err)

	assert.Len(t, resp.Items, 10)
	assert.Equal(t, 25, resp.Stats.TotalPending, "stats are computed over the full queue, not the page")
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrevious)
}
