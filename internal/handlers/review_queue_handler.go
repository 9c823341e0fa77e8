package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adpilot/ad-campaign-services-backend/internal/models"
	"github.com/adpilot/ad-campaign-services-backend/internal/services"
	"github.com/adpilot/ad-campaign-services-backend/internal/utils"
)

type ReviewQueueHandler struct {
	queueService *services.ReviewQueueService
}

func NewReviewQueueHandler(queueService *services.ReviewQueueService) *ReviewQueueHandler {
	return &ReviewQueueHandler{queueService: queueService}
}

// GetReviewQueue godoc
// @Summary Get the review queue
// @Description Get the paginated queue of campaigns awaiting review, ordered by urgency, budget or age
// @Tags review-queue
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order_by query string false "Ordering: urgency (default), budget, age"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} models.ReviewQueueResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /api/v1/admin/review-queue [get]
func (h *ReviewQueueHandler) GetReviewQueue(c *gin.Context) {
	ordering := models.ReviewQueueOrdering(c.DefaultQuery("order_by", string(models.OrderByUrgency)))
	page, pageSize := utils.ParsePaginationFromQuery(c.Query("page"), c.Query("page_size"))

	response, err := h.queueService.PendingCampaigns(ordering, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
