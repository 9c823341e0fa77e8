package googleads

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
	"strings"

	"github.com/adpilot/ad-campaign-services-backend/internal/config"
	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

// CampaignService implements the platform adapter contract for Google Ads
type CampaignService struct {
	cfg    *config.GoogleAdsConfig
	client *http.Client
}

// NewCampaignService creates a new Google Ads campaign service
func NewCampaignService(cfg *config.GoogleAdsConfig) *CampaignService {
	return &CampaignService{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// GetPlatformName returns the platform selector this adapter serves
func (s *CampaignService) GetPlatformName() models.Platform {
	return models.PlatformGoogle
}

// CreateCampaign creates a remote campaign and returns its resource id.
// The local campaign id is stored as a campaign label, and an existing
// remote campaign carrying the label is reused instead of duplicated.
func (s *CampaignService) CreateCampaign(ctx context.Context, campaign *models.Campaign) (string, error) {
	existing, err := s.FindCampaignByReference(ctx, campaign.ID)
	if err == nil && existing != "" {
		return existing, nil
	}

	mutateURL := fmt.Sprintf("%s/customers/%s/campaigns:mutate",
		strings.TrimSuffix(s.cfg.BaseURL, "/"), s.cfg.CustomerID)

	payload := map[string]interface{}{
		"operations": []map[string]interface{}{
			{
				"create": map[string]interface{}{
					"name":   campaign.Name,
					"status": "PAUSED",
					"campaignBudget": map[string]interface{}{
						"amountMicros": int64(math.Round(campaign.Budget * 1_000_000)),
					},
					"labels": []string{"local:" + campaign.ID},
				},
			},
		},
	}

	var response struct {
		Results []struct {
			ResourceName string `json:"resourceName"`
		} `json:"results"`
	}
	if err := s.doJSON(ctx, http.MethodPost, mutateURL, payload, &response); err != nil {
		return "", err
	}
	if len(response.Results) == 0 || response.Results[0].ResourceName == "" {
		return "", &models.PlatformError{Platform: models.PlatformGoogle, Message: "mutate response missing resource name"}
	}

	return response.Results[0].ResourceName, nil
}

// UpdateCampaignStatus toggles the remote campaign between enabled and paused
func (s *CampaignService) UpdateCampaignStatus(ctx context.Context, platformID string, desired models.PlatformCampaignStatus) error {
	remoteStatus := "PAUSED"
	if desired == models.PlatformStatusEnabled {
		remoteStatus = "ENABLED"
	}

	mutateURL := fmt.Sprintf("%s/customers/%s/campaigns:mutate",
		strings.TrimSuffix(s.cfg.BaseURL, "/"), s.cfg.CustomerID)

	payload := map[string]interface{}{
		"operations": []map[string]interface{}{
			{
				"update": map[string]interface{}{
					"resourceName": platformID,
					"status":       remoteStatus,
				},
				"updateMask": "status",
			},
		},
	}

	var response struct {
		Results []struct {
			ResourceName string `json:"resourceName"`
		} `json:"results"`
	}
	if err := s.doJSON(ctx, http.MethodPost, mutateURL, payload, &response); err != nil {
		return err
	}
	if len(response.Results) == 0 {
		return &models.PlatformError{Platform: models.PlatformGoogle, Message: fmt.Sprintf("status update to %s not acknowledged", remoteStatus)}
	}
	return nil
}

// FindCampaignByReference searches for a remote campaign labelled with the
// local campaign id. Empty string means none exists.
func (s *CampaignService) FindCampaignByReference(ctx context.Context, localCampaignID string) (string, error) {
	searchURL := fmt.Sprintf("%s/customers/%s/googleAds:search",
		strings.TrimSuffix(s.cfg.BaseURL, "/"), s.cfg.CustomerID)

	payload := map[string]interface{}{
		"query": fmt.Sprintf(
			"SELECT campaign.resource_name FROM campaign WHERE campaign.labels CONTAINS ANY ('local:%s')",
			localCampaignID),
	}

	var response struct {
		Results []struct {
			Campaign struct {
				ResourceName string `json:"resourceName"`
			} `json:"campaign"`
		} `json:"results"`
	}
	if err := s.doJSON(ctx, http.MethodPost, searchURL, payload, &response); err != nil {
		return "", err
	}
	if len(response.Results) == 0 {
		return "", nil
	}
	return response.Results[0].Campaign.ResourceName, nil
}

// doJSON performs one authenticated JSON request against the Google Ads API
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
	req.Header.Set("developer-token", s.cfg.DeveloperToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &models.PlatformError{
			Platform:   models.PlatformGoogle,
			StatusCode: resp.StatusCode,
			Retryable:  resp.StatusCode >= 500,
			Message:    strings.TrimSpace(string(raw)),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode google ads response: %w", err)
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
		Platform:  models.PlatformGoogle,
		Retryable: retryable,
		Message:   err.Error(),
	}
}
