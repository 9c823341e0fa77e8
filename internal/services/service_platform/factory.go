package service_platform

import (
	"fmt"

	"github.com/adpilot/ad-campaign-services-backend/internal/config"
	"github.com/adpilot/ad-campaign-services-backend/internal/models"
	"github.com/adpilot/ad-campaign-services-backend/internal/services/service_platform/googleads"
	"github.com/adpilot/ad-campaign-services-backend/internal/services/service_platform/metaads"
)

// PlatformAdapterFactoryImpl implements PlatformAdapterFactory
type PlatformAdapterFactoryImpl struct{}

// NewPlatformAdapterFactory creates a new platform adapter factory
func NewPlatformAdapterFactory() *PlatformAdapterFactoryImpl {
	return &PlatformAdapterFactoryImpl{}
}

// CreatePlatformAdapter creates an adapter instance for a single platform.
// The "both" selector is a fan-out concern of the orchestrator, not a
// platform of its own.
func (f *PlatformAdapterFactoryImpl) CreatePlatformAdapter(platform models.Platform) (PlatformAdapterInterface, error) {
	switch platform {
	case models.PlatformMeta:
		return metaads.NewCampaignService(config.GetMetaAdsConfig()), nil
	case models.PlatformGoogle:
		return googleads.NewCampaignService(config.GetGoogleAdsConfig()), nil
	default:
		return nil, fmt.Errorf("unsupported platform type: %s", platform)
	}
}

// GetSupportedPlatforms returns the list of supported platforms
func (f *PlatformAdapterFactoryImpl) GetSupportedPlatforms() []models.Platform {
	return []models.Platform{
		models.PlatformMeta,
		models.PlatformGoogle,
	}
}
