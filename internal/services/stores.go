package services

import (
	"time"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

// CampaignStore is the persistence contract the lifecycle services depend
// on. The gorm-backed repository satisfies it; tests substitute fakes.
// Conditional updates return false when the prior-status guard did not
// match, which is how concurrent transitions lose cleanly.
type CampaignStore interface {
	Create(campaign *models.Campaign) error
	GetByID(id string) (*models.Campaign, error)
	GetByUserIDAndID(userID, campaignID string) (*models.Campaign, error)
	GetByUserID(userID string) ([]*models.Campaign, error)
	GetAll() ([]*models.Campaign, error)
	GetByStatus(status models.CampaignStatus) ([]*models.Campaign, error)
	CountByStatus(status models.CampaignStatus) (int64, error)
	Update(campaign *models.Campaign) error
	DeleteByUserIDAndID(userID, campaignID string) error
	MarkSubmitted(id string, from models.CampaignStatus, submittedAt time.Time) (bool, error)
	CompareAndSwapStatus(id string, from, to models.CampaignStatus) (bool, error)
	ActivateWithPlatformIDs(id string, from models.CampaignStatus, metaID, googleID *string) (bool, error)
	FinishAndClearPlatformIDs(id string, from, to models.CampaignStatus) (bool, error)
}

// ApprovalStore persists the append-only approval history
type ApprovalStore interface {
	Create(record *models.ApprovalRecord) error
	GetOpenByCampaignID(campaignID string) (*models.ApprovalRecord, error)
	GetByCampaignID(campaignID string) ([]*models.ApprovalRecord, error)
	CloseOpen(campaignID string, status models.ApprovalStatus, reviewerID *string, feedback string, reasonCodes models.StringList) (bool, error)
	AppendReasonCodes(recordID string, codes []string) error
}

// UserStore resolves callers for ownership and review-authority checks
type UserStore interface {
	GetByID(id string) (*models.User, error)
}

// EventPublisher emits campaign lifecycle events to interested consumers.
// Publishing is best-effort and never fails an orchestration.
type EventPublisher interface {
	PublishCampaignEvent(event string, campaign *models.Campaign) error
}
