package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/adpilot/ad-campaign-services-backend/internal/database/repository"
	"github.com/adpilot/ad-campaign-services-backend/internal/handlers"
	"github.com/adpilot/ad-campaign-services-backend/internal/middleware"
	"github.com/adpilot/ad-campaign-services-backend/internal/services"
	"github.com/adpilot/ad-campaign-services-backend/internal/services/auth"
	"github.com/adpilot/ad-campaign-services-backend/internal/services/service_platform"
)

// SetupRouter configures the Gin router with all campaign lifecycle routes.
// The event service may be nil when messaging is unavailable; lifecycle
// operations still work, events are simply not emitted.
func SetupRouter(db *gorm.DB, eventService *services.CampaignEventService) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Repositories
	campaignRepo := repository.NewCampaignRepository(db)
	approvalRepo := repository.NewApprovalRecordRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	authService := auth.NewAuthService(db)
	campaignService := services.NewCampaignService(campaignRepo, approvalRepo, userRepo)
	queueService := services.NewReviewQueueService(campaignRepo)

	var events services.EventPublisher
	if eventService != nil {
		events = eventService
	}

	factory := service_platform.NewPlatformAdapterFactory()
	orchestrator, err := services.NewApprovalOrchestrator(campaignRepo, approvalRepo, userRepo, factory, events)
	if err != nil {
		return nil, err
	}
	bulkService := services.NewBulkOperationService(orchestrator)

	// Middleware and handlers
	bearerTokenMiddleware := middleware.NewBearerTokenMiddleware(authService, userRepo)

	authHandler := handlers.NewAuthHandler(authService)
	campaignHandler := handlers.NewCampaignHandler(campaignService, orchestrator)
	approvalHandler := handlers.NewApprovalHandler(orchestrator, bulkService, campaignService)
	reviewQueueHandler := handlers.NewReviewQueueHandler(queueService)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	logrus.Info("Swagger UI endpoint registered at /swagger/index.html")

	// API v1 routes
	api := r.Group("/api/v1")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
		})

		// Auth routes (public)
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(bearerTokenMiddleware.BearerTokenAuthMiddleware())
		{
			// Campaign routes (owner scoped)
			campaigns := protected.Group("/campaigns")
			{
				campaigns.POST("", campaignHandler.CreateCampaign)
				campaigns.GET("", campaignHandler.GetMyCampaigns)
				campaigns.GET("/:id", campaignHandler.GetCampaignByID)
				campaigns.PUT("/:id", campaignHandler.UpdateCampaign)
				campaigns.DELETE("/:id", campaignHandler.DeleteCampaign)
				campaigns.POST("/:id/submit", campaignHandler.SubmitCampaign)
				campaigns.GET("/:id/approvals", campaignHandler.GetApprovalHistory)

				// Lifecycle transitions (owner or reviewer)
				campaigns.POST("/:id/pause", approvalHandler.PauseCampaign)
				campaigns.POST("/:id/activate", approvalHandler.ActivateCampaign)
				campaigns.POST("/:id/complete", approvalHandler.CompleteCampaign)
				campaigns.POST("/:id/cancel", approvalHandler.CancelCampaign)
			}

			// Reviewer routes
			review := protected.Group("/campaigns")
			review.Use(middleware.RequireReviewer())
			{
				review.POST("/:id/approve", approvalHandler.ApproveCampaign)
				review.POST("/:id/reject", approvalHandler.RejectCampaign)
				review.POST("/bulk-approve", approvalHandler.BulkApprove)
				review.POST("/bulk-pause", approvalHandler.BulkPause)
				review.POST("/bulk-complete", approvalHandler.BulkComplete)
			}

			// Admin routes
			admin := protected.Group("/admin")
			{
				admin.GET("/review-queue", middleware.RequireReviewer(), reviewQueueHandler.GetReviewQueue)
				admin.GET("/campaigns", middleware.RequireAdmin(), campaignHandler.GetAllCampaigns)
			}
		}
	}

	return r, nil
}
