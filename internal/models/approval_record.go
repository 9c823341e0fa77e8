package models

import (
	"time"
)

// ApprovalStatus is the resulting decision recorded on an approval record
type ApprovalStatus string

const (
	ApprovalPending      ApprovalStatus = "pending"
	ApprovalApproved     ApprovalStatus = "approved"
	ApprovalRejected     ApprovalStatus = "rejected"
	ApprovalNeedsChanges ApprovalStatus = "needs_changes"
)

// ApprovalRecord is one submission-to-decision cycle for a campaign. Records
// are append-only: once ReviewedAt is set the row is never mutated again.
// At most one record per campaign may be open (ReviewedAt null) at a time.
type ApprovalRecord struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	CampaignID  string         `json:"campaign_id" gorm:"not null;index;type:uuid"`
	SubmittedAt time.Time      `json:"submitted_at" gorm:"not null;index"`
	ReviewedAt  *time.Time     `json:"reviewed_at"`
	Status      ApprovalStatus `json:"status" gorm:"type:varchar(30);not null;default:'pending'"`
	ReviewerID  *string        `json:"reviewer_id" gorm:"type:uuid"` // null for system actions
	Feedback    string         `json:"feedback" gorm:"type:text"`
	ReasonCodes StringList     `json:"reason_codes" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Campaign Campaign `json:"-" gorm:"foreignKey:CampaignID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the ApprovalRecord model
func (ApprovalRecord) TableName() string {
	return "approval_records"
}

// Open reports whether the record is still awaiting review
func (r *ApprovalRecord) Open() bool {
	return r.ReviewedAt == nil
}

// SubmitResponse represents the response to a campaign submission
type SubmitResponse struct {
	ApprovalID          string `json:"approval_id" example:"550e8400-e29b-41d4-a716-446655440002"`
	Status              string `json:"status" example:"pending_review"`
	EstimatedReviewTime string `json:"estimated_review_time" example:"24h"`
}

// RejectCampaignRequest represents a reviewer's rejection decision
type RejectCampaignRequest struct {
	Feedback     string   `json:"feedback" binding:"required" example:"Budget is inconsistent with the stated objectives"`
	ReasonCodes  []string `json:"reason_codes" example:"budget_mismatch,missing_creative"`
	NeedsChanges bool     `json:"needs_changes" example:"true"`
}

// ApproveCampaignRequest represents a reviewer's approval decision
type ApproveCampaignRequest struct {
	Data ApprovalData `json:"data"`
}

// ApproveCampaignResponse bundles the updated campaign with the per-platform
// synchronization outcomes.
type ApproveCampaignResponse struct {
	Campaign        *CampaignResponse `json:"campaign"`
	PlatformResults []PlatformResult  `json:"platform_results"`
}

// LifecycleResponse is returned by pause/complete/cancel style transitions
// that may carry best-effort platform warnings.
type LifecycleResponse struct {
	Campaign *CampaignResponse `json:"campaign"`
	Warnings []string          `json:"warnings,omitempty"`
}

// ApprovalRecordResponse represents an approval record in API responses
type ApprovalRecordResponse struct {
	ID          string     `json:"id"`
	CampaignID  string     `json:"campaign_id"`
	SubmittedAt time.Time  `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
	Status      string     `json:"status" example:"approved"`
	ReviewerID  *string    `json:"reviewer_id,omitempty"`
	Feedback    string     `json:"feedback,omitempty"`
	ReasonCodes []string   `json:"reason_codes,omitempty"`
}

// ToResponse converts an ApprovalRecord to its response DTO
func (r *ApprovalRecord) ToResponse() *ApprovalRecordResponse {
	return &ApprovalRecordResponse{
		ID:          r.ID,
		CampaignID:  r.CampaignID,
		SubmittedAt: r.SubmittedAt,
		ReviewedAt:  r.ReviewedAt,
		Status:      string(r.Status),
		ReviewerID:  r.ReviewerID,
		Feedback:    r.Feedback,
		ReasonCodes: r.ReasonCodes,
	}
}
