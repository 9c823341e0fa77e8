package service_platform

import (
	"context"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

// PlatformAdapterInterface is the contract every external advertising
// platform integration implements. CreateCampaign must be idempotent with
// respect to the local campaign id: adapters look up an existing remote
// campaign carrying the same reference before creating a new one, so a
// retried approval after a partial failure never duplicates campaigns.
type PlatformAdapterInterface interface {
	// CreateCampaign creates (or finds) the remote campaign and returns
	// the platform-assigned identifier.
	CreateCampaign(ctx context.Context, campaign *models.Campaign) (string, error)

	// UpdateCampaignStatus toggles the remote campaign between enabled
	// and paused.
	UpdateCampaignStatus(ctx context.Context, platformID string, desired models.PlatformCampaignStatus) error

	// FindCampaignByReference returns the platform id of a remote campaign
	// previously created for the given local campaign id, or an empty
	// string when none exists.
	FindCampaignByReference(ctx context.Context, localCampaignID string) (string, error)

	// GetPlatformName returns the platform selector this adapter serves
	GetPlatformName() models.Platform
}

// PlatformAdapterFactory resolves an adapter for a single platform
type PlatformAdapterFactory interface {
	CreatePlatformAdapter(platform models.Platform) (PlatformAdapterInterface, error)
	GetSupportedPlatforms() []models.Platform
}
