package router

import (
	"time"

	"plume/config"
	"plume/internal/audit"
	"plume/internal/handler"
	"plume/internal/middleware"
	"plume/internal/payments"
	"plume/internal/repository"
	"plume/internal/service"
	"plume/internal/ws"
	"plume/pkg/cloudinary"
	"plume/pkg/processor"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client, proc processor.Client, sink *audit.Sink) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	contentRepo := repository.NewContentRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	eventsHub := ws.NewHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, eventsHub)
	invoiceSvc := service.NewInvoiceService(invoiceRepo)

	// Payment engine
	initiator := payments.NewSessionInitiator(orderRepo, proc, sink, &cfg.Processor)
	dispatcher := payments.NewDispatcher(invoiceSvc, notifSvc, sink, cfg.Processor.EffectTimeout)
	reconciler := payments.NewReconciler(orderRepo, dispatcher, sink)
	verifier := payments.NewVerifier(cfg.Processor.WebhookSecret)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, sink)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc)
	meHandler := handler.NewMeHandler(userRepo, cloud)
	orderHandler := handler.NewOrderHandler(orderRepo, notifSvc)
	checkoutHandler := handler.NewCheckoutHandler(initiator, userRepo, sink)
	webhookHandler := handler.NewPaymentWebhookHandler(verifier, reconciler, sink)
	uploadHandler := handler.NewUploadHandler(cloud, orderRepo, attachmentRepo)
	invoiceHandler := handler.NewInvoiceHandler(invoiceRepo)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	contentHandler := handler.NewContentHandler(contentRepo)
	adminHandler := handler.NewAdminHandler(adminRepo, userRepo, orderRepo, auditRepo, eventsHub)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		api.GET("/content", contentHandler.List)
		api.GET("/content/:key", contentHandler.Get)

		// Raw body required; the signature covers the exact bytes.
		api.POST("/payments/webhook", webhookHandler.Handle)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.GetProfile)
			me.PATCH("/profile", meHandler.UpdateProfile)
			me.POST("/avatar", meHandler.UploadAvatar)
		}

		orders := api.Group("/orders")
		orders.Use(authMw)
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.POST("/:id/cancel", orderHandler.Cancel)
			orders.POST("/:id/checkout", checkoutHandler.Create)
			orders.POST("/:id/attachments", uploadHandler.UploadManuscript)
			orders.GET("/:id/attachments", uploadHandler.ListAttachments)
			orders.DELETE("/:id/attachments/:attachmentID", uploadHandler.DeleteAttachment)
		}

		invoices := api.Group("/invoices")
		invoices.Use(authMw)
		{
			invoices.GET("", invoiceHandler.List)
			invoices.GET("/:id", invoiceHandler.Get)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.POST("/read-all", notificationHandler.MarkAllRead)
		}

		staff := api.Group("/staff")
		staff.Use(authMw, middleware.StaffRequired())
		{
			staff.PATCH("/orders/:id/status", orderHandler.SetStatus)
			staff.POST("/orders/:id/attachments", uploadHandler.UploadCorrected)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.Dashboard)
			admin.GET("/users", adminHandler.ListUsers)
			admin.PATCH("/users/:id/active", adminHandler.SetUserActive)
			admin.GET("/orders", adminHandler.ListOrders)
			admin.PATCH("/orders/:id/editor", adminHandler.AssignEditor)
			admin.GET("/audit", adminHandler.ListAuditLog)
			admin.PUT("/content/:key", contentHandler.Upsert)
			admin.DELETE("/content/:key", contentHandler.Delete)
		}
	}

	r.GET("/ws/events", ws.UpgradeEventsWS(&cfg.JWT, eventsHub))

	return r
}
