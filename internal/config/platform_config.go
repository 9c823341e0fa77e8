package config

import (
	"os"
	"strconv"
	"time"
)

// MetaAdsConfig contains Meta Ads API configuration
type MetaAdsConfig struct {
	BaseURL     string        `json:"base_url"`
	AccessToken string        `json:"-"`
	AccountID   string        `json:"account_id"`
	Timeout     time.Duration `json:"timeout"`
}

// GetMetaAdsConfig returns Meta Ads configuration from the environment
func GetMetaAdsConfig() *MetaAdsConfig {
	baseURL := os.Getenv("META_ADS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v19.0"
	}

	return &MetaAdsConfig{
		BaseURL:     baseURL,
		AccessToken: os.Getenv("META_ADS_ACCESS_TOKEN"),
		AccountID:   os.Getenv("META_ADS_ACCOUNT_ID"),
		Timeout:     timeoutFromEnv("META_ADS_TIMEOUT_SECONDS", 30),
	}
}

// GoogleAdsConfig contains Google Ads API configuration
type GoogleAdsConfig struct {
	BaseURL        string        `json:"base_url"`
	DeveloperToken string        `json:"-"`
	CustomerID     string        `json:"customer_id"`
	Timeout        time.Duration `json:"timeout"`
}

// GetGoogleAdsConfig returns Google Ads configuration from the environment
func GetGoogleAdsConfig() *GoogleAdsConfig {
	baseURL := os.Getenv("GOOGLE_ADS_BASE_URL")
	if baseURL == "" {
		baseURL = "https://googleads.googleapis.com/v17"
	}

	return &GoogleAdsConfig{
		BaseURL:        baseURL,
		DeveloperToken: os.Getenv("GOOGLE_ADS_DEVELOPER_TOKEN"),
		CustomerID:     os.Getenv("GOOGLE_ADS_CUSTOMER_ID"),
		Timeout:        timeoutFromEnv("GOOGLE_ADS_TIMEOUT_SECONDS", 30),
	}
}

// timeoutFromEnv reads a timeout in whole seconds, falling back when unset
// or unparseable. Adapter timeouts are the only deadline mechanism for
// external calls, so each platform gets its own knob.
func timeoutFromEnv(key string, defaultSeconds int) time.Duration {
	if raw := os.Getenv(key); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Duration(defaultSeconds) * time.Second
}
