package app

import (
	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/notify"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/services"
	"github.com/hanbit-dev/showcase-backend/internal/storage"
)

type Services struct {
	Auth    services.AuthService
	Tenant  services.TenantService
	Content services.ContentService
	Inquiry services.InquiryService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, store storage.Provider, alerts *notify.AlertService) Services {
	log.Info("Wiring services...")
	authService := services.NewAuthService(db, log, services.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		Issuer:    cfg.JWTIssuer,
	}, reposet.Admin, reposet.Tenant, reposet.TwoFactorSetup)
	tenantService := services.NewTenantService(db, log, reposet.Tenant)
	contentService := services.NewContentService(db, log, reposet.Content, reposet.Media, store)
	inquiryService := services.NewInquiryService(db, log, reposet.Inquiry, reposet.Tenant, tenantService, alerts)

	return Services{
		Auth:    authService,
		Tenant:  tenantService,
		Content: contentService,
		Inquiry: inquiryService,
	}
}
