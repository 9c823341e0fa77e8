package models

// CampaignStatus is the closed set of lifecycle states a campaign can hold.
// Transitions are validated through CanTransitionTo so an illegal move is a
// construction-time error instead of a silent overwrite.
type CampaignStatus string

const (
	StatusDraft         CampaignStatus = "draft"
	StatusPendingReview CampaignStatus = "pending_review"
	StatusActive        CampaignStatus = "active"
	StatusPaused        CampaignStatus = "paused"
	StatusNeedsChanges  CampaignStatus = "needs_changes"
	StatusRejected      CampaignStatus = "rejected"
	StatusCompleted     CampaignStatus = "completed"
	StatusCancelled     CampaignStatus = "cancelled"
)

// AllCampaignStatuses lists every valid status value
var AllCampaignStatuses = []CampaignStatus{
	StatusDraft,
	StatusPendingReview,
	StatusActive,
	StatusPaused,
	StatusNeedsChanges,
	StatusRejected,
	StatusCompleted,
	StatusCancelled,
}

// Valid reports whether the value is a known status
func (s CampaignStatus) Valid() bool {
	for _, known := range AllCampaignStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether the status permits no further transitions
func (s CampaignStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Submittable reports whether a campaign in this status may re-enter review.
// Rejected and needs_changes campaigns resubmit through the normal submit
// path rather than an explicit return-to-draft action.
func (s CampaignStatus) Submittable() bool {
	return s == StatusDraft || s == StatusNeedsChanges || s == StatusRejected
}

// campaignTransitions is the exhaustive transition table for the lifecycle
// state machine. Missing entries are illegal moves.
// Draft permits a direct move to Active: a partial approval failure rolls
// the campaign back to draft with its approval record still open, and the
// retried approval activates from there.
var campaignTransitions = map[CampaignStatus][]CampaignStatus{
	StatusDraft:         {StatusPendingReview, StatusActive},
	StatusPendingReview: {StatusActive, StatusRejected, StatusNeedsChanges, StatusDraft},
	StatusActive:        {StatusPaused, StatusCompleted, StatusCancelled},
	StatusPaused:        {StatusActive, StatusCompleted, StatusCancelled},
	StatusNeedsChanges:  {StatusPendingReview},
	StatusRejected:      {StatusPendingReview},
	StatusCompleted:     {},
	StatusCancelled:     {},
}

// CanTransitionTo reports whether moving from the receiver to next is a
// legal lifecycle transition.
func (s CampaignStatus) CanTransitionTo(next CampaignStatus) bool {
	for _, allowed := range campaignTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Platform selects which external advertising platforms a campaign targets
type Platform string

const (
	PlatformMeta   Platform = "meta"
	PlatformGoogle Platform = "google"
	PlatformBoth   Platform = "both"
)

// Valid reports whether the value is a known platform selector
func (p Platform) Valid() bool {
	return p == PlatformMeta || p == PlatformGoogle || p == PlatformBoth
}

// IncludesMeta reports whether the selector covers the Meta platform
func (p Platform) IncludesMeta() bool {
	return p == PlatformMeta || p == PlatformBoth
}

// IncludesGoogle reports whether the selector covers the Google platform
func (p Platform) IncludesGoogle() bool {
	return p == PlatformGoogle || p == PlatformBoth
}

// Targets returns the individual platforms covered by the selector
func (p Platform) Targets() []Platform {
	switch p {
	case PlatformBoth:
		return []Platform{PlatformMeta, PlatformGoogle}
	case PlatformMeta, PlatformGoogle:
		return []Platform{p}
	default:
		return nil
	}
}

// PlatformCampaignStatus is the desired remote state passed to platform
// adapters when toggling an externally hosted campaign.
type PlatformCampaignStatus string

const (
	PlatformStatusEnabled PlatformCampaignStatus = "enabled"
	PlatformStatusPaused  PlatformCampaignStatus = "paused"
)
