package models

import (
	"time"
)

// Campaign represents an advertising campaign that belongs to a user
type Campaign struct {
	ID     string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID string `json:"user_id" gorm:"not null;index;type:uuid"`
	Name   string `json:"name" gorm:"type:varchar(255);not null"`

	// Targeting and spend
	Platform       Platform   `json:"platform" gorm:"type:varchar(20);not null;index;default:'both'"` // meta, google, both
	Budget         float64    `json:"budget" gorm:"type:decimal(12,2);not null"`
	TargetAudience string     `json:"target_audience" gorm:"type:text"`
	Objectives     StringList `json:"objectives" gorm:"type:jsonb"`

	// Creative content
	Headlines    StringList `json:"headlines" gorm:"type:jsonb"`
	Descriptions StringList `json:"descriptions" gorm:"type:jsonb"`

	// Lifecycle state. Externally assigned platform ids are non-null only
	// while the campaign is active or paused on that platform.
	Status           CampaignStatus `json:"status" gorm:"type:varchar(30);not null;index;default:'draft'"`
	MetaCampaignID   *string        `json:"meta_campaign_id" gorm:"type:varchar(255)"`
	GoogleCampaignID *string        `json:"google_campaign_id" gorm:"type:varchar(255)"`
	SubmittedAt      *time.Time     `json:"submitted_at" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User            User             `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	ApprovalRecords []ApprovalRecord `json:"approval_records,omitempty" gorm:"foreignKey:CampaignID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the Campaign model
func (Campaign) TableName() string {
	return "campaigns"
}

// PlatformID returns the stored external id for the given platform
func (c *Campaign) PlatformID(platform Platform) *string {
	switch platform {
	case PlatformMeta:
		return c.MetaCampaignID
	case PlatformGoogle:
		return c.GoogleCampaignID
	default:
		return nil
	}
}

// CreateCampaignRequest represents the request to create a new campaign
type CreateCampaignRequest struct {
	Name           string   `json:"name" binding:"required" example:"Summer launch"`
	Platform       Platform `json:"platform" binding:"required" example:"both"`
	Budget         float64  `json:"budget" binding:"required,gt=0" example:"2500.00"`
	TargetAudience string   `json:"target_audience" example:"US homeowners aged 30-55"`
	Objectives     []string `json:"objectives" example:"brand_awareness,lead_generation"`
	Headlines      []string `json:"headlines" example:"Save 20% this summer"`
	Descriptions   []string `json:"descriptions" example:"Limited time offer on all plans"`
}

// UpdateCampaignRequest represents the request to update a campaign.
// Budget and targeting edits are refused while the campaign is active.
type UpdateCampaignRequest struct {
	Name           string   `json:"name" binding:"required" example:"Summer launch v2"`
	Budget         *float64 `json:"budget" example:"3000.00"`
	TargetAudience *string  `json:"target_audience" example:"US homeowners aged 25-60"`
	Objectives     []string `json:"objectives" example:"lead_generation"`
	Headlines      []string `json:"headlines" example:"Save 25% this summer"`
	Descriptions   []string `json:"descriptions" example:"Extended offer on all plans"`
}

// CampaignResponse represents the response for campaign operations
type CampaignResponse struct {
	ID               string     `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	UserID           string     `json:"user_id" example:"550e8400-e29b-41d4-a716-446655440001"`
	Name             string     `json:"name" example:"Summer launch"`
	Platform         Platform   `json:"platform" example:"both"`
	Budget           float64    `json:"budget" example:"2500.00"`
	TargetAudience   string     `json:"target_audience" example:"US homeowners aged 30-55"`
	Objectives       []string   `json:"objectives"`
	Headlines        []string   `json:"headlines"`
	Descriptions     []string   `json:"descriptions"`
	Status           string     `json:"status" example:"pending_review"`
	MetaCampaignID   *string    `json:"meta_campaign_id,omitempty"`
	GoogleCampaignID *string    `json:"google_campaign_id,omitempty"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	CreatedAt        string     `json:"created_at" example:"2025-01-09T10:30:00Z"`
	UpdatedAt        string     `json:"updated_at" example:"2025-01-09T10:30:00Z"`
}

// ToResponse converts a Campaign model to its response DTO
func (c *Campaign) ToResponse() *CampaignResponse {
	return &CampaignResponse{
		ID:               c.ID,
		UserID:           c.UserID,
		Name:             c.Name,
		Platform:         c.Platform,
		Budget:           c.Budget,
		TargetAudience:   c.TargetAudience,
		Objectives:       c.Objectives,
		Headlines:        c.Headlines,
		Descriptions:     c.Descriptions,
		Status:           string(c.Status),
		MetaCampaignID:   c.MetaCampaignID,
		GoogleCampaignID: c.GoogleCampaignID,
		SubmittedAt:      c.SubmittedAt,
		CreatedAt:        c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        c.UpdatedAt.Format(time.RFC3339),
	}
}

// PlatformResult is the per-platform outcome of one fan-out operation
// (create, enable or pause) against the external advertising platforms.
type PlatformResult struct {
	Platform   Platform `json:"platform" example:"meta"`
	Success    bool     `json:"success" example:"true"`
	PlatformID string   `json:"platform_id,omitempty" example:"23851234567890123"`
	Error      string   `json:"error,omitempty"`
}

// ApprovalData carries optional reviewer-provided settings applied on approval
type ApprovalData struct {
	Notes string `json:"notes" example:"Approved for Q3 push"`
}
