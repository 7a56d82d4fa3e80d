package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hanbit-dev/showcase-backend/internal/handlers"
	"github.com/hanbit-dev/showcase-backend/internal/middleware"
)

type RouterConfig struct {
	AllowedOrigins []string
	UploadsDir     string

	AuthMiddleware *middleware.AuthMiddleware
	AuthHandler    *handlers.AuthHandler
	PublicHandler  *handlers.PublicHandler
	ContentHandler *handlers.ContentHandler
	InquiryHandler *handlers.InquiryHandler
	TenantHandler  *handlers.TenantHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.UploadsDir != "" {
		router.Static("/uploads", cfg.UploadsDir)
	}

	api := router.Group("/api")
	{
		api.POST("/auth/login", cfg.AuthHandler.Login)

		public := api.Group("/public/:tenantSlug")
		public.GET("/content/:type", cfg.PublicHandler.ListPublished)
		public.GET("/content/:type/:slug", cfg.PublicHandler.GetBySlug)
		public.GET("/privacy-policy", cfg.PublicHandler.PrivacyPolicy)
		public.POST("/inquiries", cfg.PublicHandler.SubmitInquiry)
	}

	// ===============
	// || Protected ||
	// ===============
	admin := router.Group("/api/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	admin.POST("/auth/change-password", cfg.AuthHandler.ChangePassword)
	admin.POST("/auth/2fa/setup", cfg.AuthHandler.SetupTwoFactor)
	admin.POST("/auth/2fa/enable", cfg.AuthHandler.EnableTwoFactor)
	admin.POST("/auth/2fa/disable", cfg.AuthHandler.DisableTwoFactor)
	// Content
	admin.GET("/content", cfg.ContentHandler.List)
	admin.POST("/content", cfg.ContentHandler.Create)
	admin.GET("/content/:id", cfg.ContentHandler.Get)
	admin.PUT("/content/:id", cfg.ContentHandler.Update)
	admin.DELETE("/content/:id", cfg.ContentHandler.Delete)
	admin.DELETE("/content/:id/media/:mediaId", cfg.ContentHandler.RemoveMedia)
	// Media library
	admin.GET("/media", cfg.ContentHandler.ListMedia)
	// Inquiries
	admin.GET("/inquiries", cfg.InquiryHandler.List)
	admin.GET("/inquiries/:id", cfg.InquiryHandler.Get)
	admin.GET("/inquiry-logs", cfg.InquiryHandler.ListLogs)
	admin.PATCH("/inquiries/:id/status", cfg.InquiryHandler.UpdateStatus)
	admin.POST("/inquiries/purge-expired", cfg.InquiryHandler.PurgeExpired)
	// Tenant
	admin.GET("/tenant/settings", cfg.TenantHandler.GetSettings)
	admin.PUT("/tenant/settings", cfg.TenantHandler.UpdateSettings)

	return router
}
