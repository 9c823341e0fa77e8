package repository

import (
	"errors"
	"time"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"

	"gorm.io/gorm"
)

type ApprovalRecordRepository struct {
	db *gorm.DB
}

func NewApprovalRecordRepository(db *gorm.DB) *ApprovalRecordRepository {
	return &ApprovalRecordRepository{db: db}
}

// Create appends a new approval record
func (r *ApprovalRecordRepository) Create(record *models.ApprovalRecord) error {
	return r.db.Create(record).Error
}

// GetOpenByCampaignID retrieves the campaign's open record (awaiting review),
// or models.ErrNotFound when none is outstanding.
func (r *ApprovalRecordRepository) GetOpenByCampaignID(campaignID string) (*models.ApprovalRecord, error) {
	var record models.ApprovalRecord
	err := r.db.Where("campaign_id = ? AND reviewed_at IS NULL", campaignID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// GetByCampaignID retrieves the full approval history for a campaign,
// newest first.
func (r *ApprovalRecordRepository) GetByCampaignID(campaignID string) ([]*models.ApprovalRecord, error) {
	var records []*models.ApprovalRecord
	err := r.db.Where("campaign_id = ?", campaignID).Order("submitted_at DESC").Find(&records).Error
	return records, err
}

// CloseOpen records the review decision on the campaign's open record. The
// reviewed_at IS NULL guard keeps closed records immutable: closing twice
// affects zero rows and returns false.
func (r *ApprovalRecordRepository) CloseOpen(campaignID string, status models.ApprovalStatus, reviewerID *string, feedback string, reasonCodes models.StringList) (bool, error) {
	res := r.db.Model(&models.ApprovalRecord{}).
		Where("campaign_id = ? AND reviewed_at IS NULL", campaignID).
		Updates(map[string]interface{}{
			"reviewed_at":  time.Now(),
			"status":       status,
			"reviewer_id":  reviewerID,
			"feedback":     feedback,
			"reason_codes": reasonCodes,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AppendReasonCodes adds structured reason codes to the open record. Used
// to note partially succeeded platform creations so a retried approval can
// reuse the external ids.
func (r *ApprovalRecordRepository) AppendReasonCodes(recordID string, codes []string) error {
	var record models.ApprovalRecord
	if err := r.db.Where("id = ? AND reviewed_at IS NULL", recordID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}

	merged := record.ReasonCodes
	for _, code := range codes {
		if !merged.Contains(code) {
			merged = append(merged, code)
		}
	}

	return r.db.Model(&models.ApprovalRecord{}).
		Where("id = ? AND reviewed_at IS NULL", recordID).
		Update("reason_codes", merged).Error
}
