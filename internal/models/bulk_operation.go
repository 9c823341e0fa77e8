package models

// BulkApproveRequest applies an approval decision to a bounded batch of campaigns
type BulkApproveRequest struct {
	CampaignIDs []string     `json:"campaign_ids" binding:"required" example:"550e8400-e29b-41d4-a716-446655440000"`
	Data        ApprovalData `json:"data"`
}

// BulkLifecycleRequest drives pause/complete style operations over a batch
type BulkLifecycleRequest struct {
	CampaignIDs []string `json:"campaign_ids" binding:"required"`
}

// BulkItemResult is the per-item outcome of a bulk operation. One bad
// campaign never aborts the rest of the batch.
type BulkItemResult struct {
	CampaignID string `json:"campaign_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Success    bool   `json:"success" example:"true"`
	Message    string `json:"message,omitempty" example:"approved"`
	Error      string `json:"error,omitempty"`
}

// BulkSummary totals up a finished batch
type BulkSummary struct {
	Total      int `json:"total" example:"5"`
	Successful int `json:"successful" example:"4"`
	Failed     int `json:"failed" example:"1"`
}

// BulkOperationResponse is the full result of one bulk operation
type BulkOperationResponse struct {
	Results []BulkItemResult `json:"results"`
	Summary BulkSummary      `json:"summary"`
}
