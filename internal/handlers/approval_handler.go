package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
	"github.com/adpilot/ad-campaign-services-backend/internal/services"
)

// ApprovalHandler exposes the reviewer decisions and lifecycle transitions
type ApprovalHandler struct {
	orchestrator    *services.ApprovalOrchestrator
	bulkService     *services.BulkOperationService
	campaignService *services.CampaignService
}

func NewApprovalHandler(orchestrator *services.ApprovalOrchestrator, bulkService *services.BulkOperationService, campaignService *services.CampaignService) *ApprovalHandler {
	return &ApprovalHandler{
		orchestrator:    orchestrator,
		bulkService:     bulkService,
		campaignService: campaignService,
	}
}

// authorizeLifecycle allows reviewers to manage any campaign; everyone else
// must own it.
func (h *ApprovalHandler) authorizeLifecycle(c *gin.Context, campaignID string) bool {
	if c.GetBool("is_reviewer") {
		return true
	}
	userID := c.MustGet("user_id").(string)
	if _, err := h.campaignService.GetCampaignByID(userID, campaignID); err != nil {
		respondError(c, err)
		return false
	}
	return true
}

// ApproveCampaign godoc
// @Summary Approve a campaign
// @Description Approve a pending campaign, create it on the target platforms and activate it locally
// @Tags approvals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param request body models.ApproveCampaignRequest false "Approval data"
// @Success 200 {object} models.ApproveCampaignResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/approve [post]
func (h *ApprovalHandler) ApproveCampaign(c *gin.Context) {
	reviewerID := c.MustGet("user_id").(string)
	campaignID := c.Param("id")

	var req models.ApproveCampaignRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
			return
		}
	}

	campaign, results, err := h.orchestrator.Approve(c.Request.Context(), campaignID, reviewerID, req.Data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, &models.ApproveCampaignResponse{
		Campaign:        campaign.ToResponse(),
		PlatformResults: results,
	})
}

// RejectCampaign godoc
// @Summary Reject a campaign
// @Description Reject a pending campaign with mandatory feedback. Set needs_changes to route it back for revision.
// @Tags approvals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Param request body models.RejectCampaignRequest true "Rejection decision"
// @Success 200 {object} models.CampaignResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/reject [post]
func (h *ApprovalHandler) RejectCampaign(c *gin.Context) {
	reviewerID := c.MustGet("user_id").(string)
	campaignID := c.Param("id")

	var req models.RejectCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	campaign, err := h.orchestrator.Reject(c.Request.Context(), campaignID, reviewerID, req.Feedback, req.ReasonCodes, req.NeedsChanges)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign.ToResponse())
}

// PauseCampaign godoc
// @Summary Pause an active campaign
// @Description Pause a campaign locally, then best-effort pause it on the platforms. Platform failures surface as warnings.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.LifecycleResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/pause [post]
func (h *ApprovalHandler) PauseCampaign(c *gin.Context) {
	campaignID := c.Param("id")
	if !h.authorizeLifecycle(c, campaignID) {
		return
	}

	campaign, warnings, err := h.orchestrator.Pause(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, &models.LifecycleResponse{
		Campaign: campaign.ToResponse(),
		Warnings: warnings,
	})
}

// ActivateCampaign godoc
// @Summary Resume a paused campaign
// @Description Re-enable a paused campaign on all its platforms, then activate it locally
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.ApproveCampaignResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/activate [post]
func (h *ApprovalHandler) ActivateCampaign(c *gin.Context) {
	campaignID := c.Param("id")
	if !h.authorizeLifecycle(c, campaignID) {
		return
	}

	campaign, results, err := h.orchestrator.Activate(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, &models.ApproveCampaignResponse{
		Campaign:        campaign.ToResponse(),
		PlatformResults: results,
	})
}

// CompleteCampaign godoc
// @Summary Complete a campaign
// @Description Move a campaign to its completed terminal state, best-effort pausing platform delivery first
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.LifecycleResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/complete [post]
func (h *ApprovalHandler) CompleteCampaign(c *gin.Context) {
	campaignID := c.Param("id")
	if !h.authorizeLifecycle(c, campaignID) {
		return
	}

	campaign, warnings, err := h.orchestrator.Complete(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, &models.LifecycleResponse{
		Campaign: campaign.ToResponse(),
		Warnings: warnings,
	})
}

// CancelCampaign godoc
// @Summary Cancel a campaign
// @Description Move a campaign to its cancelled terminal state, best-effort pausing platform delivery first
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Campaign ID"
// @Success 200 {object} models.LifecycleResponse
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/v1/campaigns/{id}/cancel [post]
func (h *ApprovalHandler) CancelCampaign(c *gin.Context) {
	campaignID := c.Param("id")
	if !h.authorizeLifecycle(c, campaignID) {
		return
	}

	campaign, warnings, err := h.orchestrator.Cancel(c.Request.Context(), campaignID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, &models.LifecycleResponse{
		Campaign: campaign.ToResponse(),
		Warnings: warnings,
	})
}

// BulkApprove godoc
// @Summary Approve a batch of campaigns
// @Description Approve up to 10 campaigns in one call. Items fail or succeed independently.
// @Tags approvals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BulkApproveRequest true "Batch of campaign IDs"
// @Success 200 {object} models.BulkOperationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/campaigns/bulk-approve [post]
func (h *ApprovalHandler) BulkApprove(c *gin.Context) {
	reviewerID := c.MustGet("user_id").(string)

	var req models.BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.bulkService.BulkApprove(c.Request.Context(), reviewerID, req.CampaignIDs, req.Data)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// BulkPause godoc
// @Summary Pause a batch of campaigns
// @Description Pause up to 100 campaigns in one call. Items fail or succeed independently.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BulkLifecycleRequest true "Batch of campaign IDs"
// @Success 200 {object} models.BulkOperationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/campaigns/bulk-pause [post]
func (h *ApprovalHandler) BulkPause(c *gin.Context) {
	var req models.BulkLifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.bulkService.BulkPause(c.Request.Context(), req.CampaignIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// BulkComplete godoc
// @Summary Complete a batch of campaigns
// @Description Complete up to 100 campaigns in one call. Items fail or succeed independently.
// @Tags lifecycle
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BulkLifecycleRequest true "Batch of campaign IDs"
// @Success 200 {object} models.BulkOperationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/v1/campaigns/bulk-complete [post]
func (h *ApprovalHandler) BulkComplete(c *gin.Context) {
	var req models.BulkLifecycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	response, err := h.bulkService.BulkComplete(c.Request.Context(), req.CampaignIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
