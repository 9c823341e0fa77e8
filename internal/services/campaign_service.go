package services

import (
	"fmt"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

// CampaignService handles campaign CRUD around the lifecycle. All status
// transitions go through the orchestrator; this service only creates
// drafts, lists, and applies state-gated edits.
type CampaignService struct {
	campaignStore CampaignStore
	approvalStore ApprovalStore
	userStore     UserStore
}

// NewCampaignService creates a new campaign service
func NewCampaignService(campaignStore CampaignStore, approvalStore ApprovalStore, userStore UserStore) *CampaignService {
	return &CampaignService{
		campaignStore: campaignStore,
		approvalStore: approvalStore,
		userStore:     userStore,
	}
}

// CreateCampaign creates a new draft campaign for a user
func (s *CampaignService) CreateCampaign(userID string, req *models.CreateCampaignRequest) (*models.CampaignResponse, error) {
	if _, err := s.userStore.GetByID(userID); err != nil {
		return nil, models.ErrNotFound
	}

	if !req.Platform.Valid() {
		return nil, models.NewValidationError(fmt.Sprintf("unknown platform selector %q", req.Platform))
	}

	campaign := &models.Campaign{
		UserID:         userID,
		Name:           req.Name,
		Platform:       req.Platform,
		Budget:         req.Budget,
		TargetAudience: req.TargetAudience,
		Objectives:     models.StringList(req.Objectives),
		Headlines:      models.StringList(req.Headlines),
		Descriptions:   models.StringList(req.Descriptions),
		Status:         models.StatusDraft,
	}

	if err := s.campaignStore.Create(campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	return campaign.ToResponse(), nil
}

// GetCampaignsByUser retrieves all campaigns for a specific user
func (s *CampaignService) GetCampaignsByUser(userID string) ([]*models.CampaignResponse, error) {
	campaigns, err := s.campaignStore.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaigns: %w", err)
	}

	responses := make([]*models.CampaignResponse, len(campaigns))
	for i, campaign := range campaigns {
		responses[i] = campaign.ToResponse()
	}

	return responses, nil
}

// GetCampaignByID retrieves a campaign by ID (user must own it)
func (s *CampaignService) GetCampaignByID(userID, campaignID string) (*models.CampaignResponse, error) {
	campaign, err := s.campaignStore.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, err
	}

	return campaign.ToResponse(), nil
}

// GetApprovalHistory retrieves the approval trail for an owned campaign
func (s *CampaignService) GetApprovalHistory(userID, campaignID string) ([]*models.ApprovalRecordResponse, error) {
	if _, err := s.campaignStore.GetByUserIDAndID(userID, campaignID); err != nil {
		return nil, err
	}

	records, err := s.approvalStore.GetByCampaignID(campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to get approval history: %w", err)
	}

	responses := make([]*models.ApprovalRecordResponse, len(records))
	for i, record := range records {
		responses[i] = record.ToResponse()
	}
	return responses, nil
}

// UpdateCampaign updates a campaign (user must own it). Edits are gated by
// the lifecycle state: budget and targeting freeze once the campaign
// leaves draft and stay frozen until it returns.
func (s *CampaignService) UpdateCampaign(userID, campaignID string, req *models.UpdateCampaignRequest) (*models.CampaignResponse, error) {
	campaign, err := s.campaignStore.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return nil, err
	}

	if campaign.Status.Terminal() {
		return nil, &models.InvalidStateError{CampaignID: campaignID, Current: campaign.Status, Operation: "update"}
	}

	result := ValidateUpdate(campaign, req)
	if !result.Valid {
		return nil, &models.ValidationError{Errors: result.Errors}
	}

	campaign.Name = req.Name
	if req.Budget != nil {
		campaign.Budget = *req.Budget
	}
	if req.TargetAudience != nil {
		campaign.TargetAudience = *req.TargetAudience
	}
	if req.Objectives != nil {
		campaign.Objectives = models.StringList(req.Objectives)
	}
	if req.Headlines != nil {
		campaign.Headlines = models.StringList(req.Headlines)
	}
	if req.Descriptions != nil {
		campaign.Descriptions = models.StringList(req.Descriptions)
	}

	if err := s.campaignStore.Update(campaign); err != nil {
		return nil, fmt.Errorf("failed to update campaign: %w", err)
	}

	return campaign.ToResponse(), nil
}

// DeleteCampaign removes a campaign (user must own it). Only drafts and
// terminally finished campaigns may be deleted; anything in flight must be
// cancelled first so platform state is not orphaned.
func (s *CampaignService) DeleteCampaign(userID, campaignID string) error {
	campaign, err := s.campaignStore.GetByUserIDAndID(userID, campaignID)
	if err != nil {
		return err
	}

	if campaign.Status != models.StatusDraft && !campaign.Status.Terminal() {
		return &models.InvalidStateError{CampaignID: campaignID, Current: campaign.Status, Operation: "delete"}
	}

	return s.campaignStore.DeleteByUserIDAndID(userID, campaignID)
}

// GetAllCampaigns retrieves all campaigns (admin only)
func (s *CampaignService) GetAllCampaigns() ([]*models.CampaignResponse, error) {
	campaigns, err := s.campaignStore.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get all campaigns: %w", err)
	}

	responses := make([]*models.CampaignResponse, len(campaigns))
	for i, campaign := range campaigns {
		responses[i] = campaign.ToResponse()
	}
	return responses, nil
}
