package metaads

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/adpilot/ad-campaign-services-backend/internal/config"
	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

// CampaignService implements the platform adapter contract for Meta Ads
type CampaignService struct {
	cfg    *config.MetaAdsConfig
	client *http.Client
}

// NewCampaignService creates a new Meta Ads campaign service
func NewCampaignService(cfg *config.MetaAdsConfig) *CampaignService {
	return &CampaignService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// GetPlatformName returns the platform selector this adapter serves
func (s *CampaignService) GetPlatformName() models.Platform {
	return models.PlatformMeta
}

// CreateCampaign creates a remote campaign and returns its Meta-assigned id.
// The local campaign id travels as the external reference, and an existing
// remote campaign with the same reference is reused instead of duplicated.
func (s *CampaignService) CreateCampaign(ctx context.Context, campaign *models.Campaign) (string, error) {
	existing, err := s.FindCampaignByReference(ctx, campaign.ID)
	if err == nil && existing != "" {
		return existing, nil
	}

	objective := "OUTCOME_AWARENESS"
	if len(campaign.Objectives) > 0 {
		objective = strings.ToUpper(campaign.Objectives[0])
	}

	payload := map[string]interface{}{
		"name":               campaign.Name,
		"objective":          objective,
		"daily_budget":       int64(math.Round(campaign.Budget * 100)), // minor units
		"status":             "PAUSED",
		"external_reference": campaign.ID,
	}

	createURL := fmt.Sprintf("%s/act_%s/campaigns", strings.TrimSuffix(s.cfg.BaseURL, "/"), s.cfg.AccountID)

	var response struct {
		ID string `json:"id"`
	}
	if err := s.doJSON(ctx, http.MethodPost, createURL, payload, &response); err != nil {
		return "", err
	}
	if response.ID == "" {
		return "", &models.PlatformError{Platform: models.PlatformMeta, Message: "create response missing campaign id"}
	}

	return response.ID, nil
}

// UpdateCampaignStatus toggles the remote campaign between active and paused
func (s *CampaignService) UpdateCampaignStatus(ctx context.Context, platformID string, desired models.PlatformCampaignStatus) error {
	remoteStatus := "PAUSED"
	if desired == models.PlatformStatusEnabled {
		remoteStatus = "ACTIVE"
	}

	updateURL := fmt.Sprintf("%s/%s", strings.TrimSuffix(s.cfg.BaseURL, "/"), platformID)
	payload := map[string]interface{}{"status": remoteStatus}

	var response struct {
		Success bool `json:"success"`
	}
	if err := s.doJSON(ctx, http.MethodPost, updateURL, payload, &response); err != nil {
		return err
	}
	if !response.Success {
		return &models.PlatformError{Platform: models.PlatformMeta, Message: fmt.Sprintf("status update to %s not acknowledged", remoteStatus)}
	}
	return nil
}

// FindCampaignByReference looks up a remote campaign by the local campaign
// id previously sent as external reference. Empty string means none exists.
func (s *CampaignService) FindCampaignByReference(ctx context.Context, localCampaignID string) (string, error) {
	searchURL := fmt.Sprintf("%s/act_%s/campaigns?external_reference=%s",
		strings.TrimSuffix(s.cfg.BaseURL, "/"), s.cfg.AccountID, url.QueryEscape(localCampaignID))

	var response struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := s.doJSON(ctx, http.MethodGet, searchURL, nil, &response); err != nil {
		return "", err
	}
	if len(response.Data) == 0 {
		return "", nil
	}
	return response.Data[0].ID, nil
}

// doJSON performs one authenticated JSON request against the Meta Ads API
// and decodes the response into out.
func (s *CampaignService) doJSON(ctx context.Context, method, requestURL string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.AccessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &models.PlatformError{
			Platform:   models.PlatformMeta,
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode >= 500,
			Message:    strings.TrimSpace(string(raw)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode meta ads response: %w", err)
		}
	}
	return nil
}

// classifyTransportError maps network failures onto the platform error
// taxonomy. Timeouts count as retryable failures for the affected platform.
func classifyTransportError(err error) error {
	retryable := false
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		retryable = true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		retryable = true
	}
	return &models.PlatformError{
		Platform:  models.PlatformMeta,
		Retryable: retryable,
		Message:   err.Error(),
	}
}
