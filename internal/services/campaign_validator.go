package services

import (
	"fmt"
	"strings"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
)

// Budget bounds accepted by both advertising platforms
const (
	MinCampaignBudget = 1.00
	MaxCampaignBudget = 1000000.00

	// LowBudgetWarningThreshold flags budgets unlikely to deliver results
	LowBudgetWarningThreshold = 100.00
)

// ValidationResult is the outcome of a campaign readiness check
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidateCampaign checks a campaign's readiness for submission. It is a
// pure function over the campaign snapshot: no I/O, deterministic output.
func ValidateCampaign(campaign *models.Campaign) ValidationResult {
	var errs, warnings []string

	if !campaign.Platform.Valid() {
		errs = append(errs, fmt.Sprintf("unknown platform selector %q", campaign.Platform))
	}

	if campaign.Budget < MinCampaignBudget {
		errs = append(errs, fmt.Sprintf("budget must be at least %.2f", MinCampaignBudget))
	} else if campaign.Budget > MaxCampaignBudget {
		errs = append(errs, fmt.Sprintf("budget must not exceed %.2f", MaxCampaignBudget))
	} else if campaign.Budget < LowBudgetWarningThreshold {
		warnings = append(warnings, fmt.Sprintf("budget below %.2f may deliver poor results", LowBudgetWarningThreshold))
	}

	if len(campaign.Objectives) == 0 {
		errs = append(errs, "at least one objective is required")
	}

	if strings.TrimSpace(campaign.TargetAudience) == "" {
		errs = append(errs, "target audience must not be empty")
	}

	// Paid search campaigns need creative copy before they can run
	if campaign.Platform.IncludesGoogle() && len(campaign.Headlines) == 0 && len(campaign.Descriptions) == 0 {
		errs = append(errs, "campaigns targeting google require at least one headline or description")
	}

	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	}
}

// ValidateUpdate guards campaign edits against the current lifecycle state.
// Budget and targeting are frozen from submission until the campaign
// returns to a submittable state, so a paused campaign is as immutable as
// an active one.
func ValidateUpdate(campaign *models.Campaign, req *models.UpdateCampaignRequest) ValidationResult {
	var errs []string

	if !campaign.Status.Submittable() {
		if req.Budget != nil && *req.Budget != campaign.Budget {
			errs = append(errs, fmt.Sprintf("budget cannot be changed while campaign is %s", campaign.Status))
		}
		if req.TargetAudience != nil && *req.TargetAudience != campaign.TargetAudience {
			errs = append(errs, fmt.Sprintf("target audience cannot be changed while campaign is %s", campaign.Status))
		}
	}

	if req.Budget != nil && *req.Budget <= 0 {
		errs = append(errs, "budget must be positive")
	}

	return ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}
