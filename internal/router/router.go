package router

import (
	"time"

	"nido/config"
	"nido/internal/auth"
	"nido/internal/handler"
	"nido/internal/middleware"
	"nido/internal/repository"
	"nido/internal/service"
	"nido/pkg/email"
	"nido/pkg/wompi"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and returns the engine plus
// the two periodic services so main can put them on a schedule.
func Setup(cfg *config.Config, db *gorm.DB, sender email.Sender) (*gin.Engine, *service.SweeperService, *service.DispatcherService) {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Services
	tokens := auth.NewManager(&cfg.JWT)
	authSvc := service.NewAuthService(tokens, userRepo)
	checkoutSvc := service.NewCheckoutService(listingRepo, paymentRepo, cfg)
	lifecycleSvc := service.NewLifecycleService(listingRepo, userRepo, verificationRepo, notificationRepo, paymentRepo, cfg)
	sweeperSvc := service.NewSweeperService(verificationRepo, listingRepo, notificationRepo)
	dispatcherSvc := service.NewDispatcherService(notificationRepo, userRepo, verificationRepo, sender, cfg.Verification.DispatchBatch)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	listingHandler := handler.NewListingHandler(listingRepo)
	checkoutHandler := handler.NewCheckoutHandler(checkoutSvc)
	verificationHandler := handler.NewVerificationHandler(verificationRepo)
	adminHandler := handler.NewAdminHandler(verificationRepo, listingRepo, auditRepo)

	// With no events secret configured the webhook falls back to confirming
	// approved transactions against the Wompi API.
	var verifier handler.TransactionVerifier
	if cfg.Wompi.EventsSecret == "" && cfg.Wompi.PublicKey != "" {
		verifier = wompi.NewClient(cfg.Wompi.BaseURL, cfg.Wompi.PublicKey)
	}
	webhookHandler := handler.NewWompiWebhookHandler(lifecycleSvc, auditRepo, verifier, cfg)
	jobsHandler := handler.NewJobsHandler(sweeperSvc, dispatcherSvc)

	authMw := middleware.AuthRequired(tokens)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/listings", listingHandler.ListPublished)
		api.GET("/listings/:id", listingHandler.Get)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/listings", listingHandler.ListMine)
			me.POST("/listings", listingHandler.Create)
			me.POST("/listings/:id/checkout", checkoutHandler.Create)
			me.GET("/verification", verificationHandler.GetStatus)
			me.POST("/verification/documents", verificationHandler.SubmitDocuments)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/verifications", adminHandler.ListPendingVerifications)
			admin.PATCH("/verifications", adminHandler.ReviewVerification)
			admin.GET("/listings", adminHandler.ListHeldListings)
			admin.PATCH("/listings/:id", adminHandler.ReviewListing)
		}

		api.POST("/webhooks/wompi", webhookHandler.Handle)

		// Scheduled jobs are also HTTP-invocable for external schedulers;
		// both verbs because cron services commonly only do GET.
		jobs := api.Group("/jobs")
		{
			jobs.GET("/sweep-verifications", jobsHandler.SweepVerifications)
			jobs.POST("/sweep-verifications", jobsHandler.SweepVerifications)
			jobs.GET("/dispatch-notifications", jobsHandler.DispatchNotifications)
			jobs.POST("/dispatch-notifications", jobsHandler.DispatchNotifications)
		}
	}

	return r, sweeperSvc, dispatcherSvc
}
