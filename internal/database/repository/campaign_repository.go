package repository

import (
	"errors"
	"time"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"

	"gorm.io/gorm"
)

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create creates a new campaign
func (r *CampaignRepository) Create(campaign *models.Campaign) error {
	return r.db.Create(campaign).Error
}

// GetByID retrieves a campaign by ID
func (r *CampaignRepository) GetByID(id string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.First(&campaign, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// GetByUserIDAndID retrieves a campaign by user ID and campaign ID
func (r *CampaignRepository) GetByUserIDAndID(userID, campaignID string) (*models.Campaign, error) {
	var campaign models.Campaign
	err := r.db.Where("user_id = ? AND id = ?", userID, campaignID).First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

// GetByUserID retrieves all campaigns for a specific user
func (r *CampaignRepository) GetByUserID(userID string) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&campaigns).Error
	return campaigns, err
}

// GetByStatus retrieves all campaigns in the given status
func (r *CampaignRepository) GetByStatus(status models.CampaignStatus) ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.Where("status = ?", status).Find(&campaigns).Error
	return campaigns, err
}

// CountByStatus counts campaigns in the given status
func (r *CampaignRepository) CountByStatus(status models.CampaignStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Campaign{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Update persists draft edits to a campaign
func (r *CampaignRepository) Update(campaign *models.Campaign) error {
	return r.db.Save(campaign).Error
}

// CompareAndSwapStatus conditionally moves a campaign from one status to
// another. The WHERE clause on the prior status is the sole per-campaign
// serialization mechanism: a concurrent caller that lost the race sees
// a false return, never a silent overwrite.
func (r *CampaignRepository) CompareAndSwapStatus(id string, from, to models.CampaignStatus) (bool, error) {
	res := r.db.Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkSubmitted conditionally moves a campaign into pending review and
// stamps the submission time in the same conditional update.
func (r *CampaignRepository) MarkSubmitted(id string, from models.CampaignStatus, submittedAt time.Time) (bool, error) {
	res := r.db.Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":       models.StatusPendingReview,
			"submitted_at": submittedAt,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ActivateWithPlatformIDs conditionally moves a campaign to active and
// persists the externally assigned platform ids in one conditional update,
// so queue readers never observe an active campaign without its ids.
func (r *CampaignRepository) ActivateWithPlatformIDs(id string, from models.CampaignStatus, metaID, googleID *string) (bool, error) {
	updates := map[string]interface{}{
		"status":     models.StatusActive,
		"updated_at": time.Now(),
	}
	if metaID != nil {
		updates["meta_campaign_id"] = *metaID
	}
	if googleID != nil {
		updates["google_campaign_id"] = *googleID
	}

	res := r.db.Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// FinishAndClearPlatformIDs conditionally moves a campaign to a terminal
// status and clears the platform ids, which are only meaningful while the
// campaign is active or paused.
func (r *CampaignRepository) FinishAndClearPlatformIDs(id string, from, to models.CampaignStatus) (bool, error) {
	res := r.db.Model(&models.Campaign{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":             to,
			"meta_campaign_id":   gorm.Expr("NULL"),
			"google_campaign_id": gorm.Expr("NULL"),
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteByUserIDAndID deletes a campaign by user ID and campaign ID
func (r *CampaignRepository) DeleteByUserIDAndID(userID, campaignID string) error {
	return r.db.Where("user_id = ? AND id = ?", userID, campaignID).Delete(&models.Campaign{}).Error
}

// GetAll retrieves all campaigns (admin only)
func (r *CampaignRepository) GetAll() ([]*models.Campaign, error) {
	var campaigns []*models.Campaign
	err := r.db.Order("created_at DESC").Find(&campaigns).Error
	return campaigns, err
}
