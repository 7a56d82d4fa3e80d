package app

import (
	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/repos"
)

type Repos struct {
	Tenant          repos.TenantRepo
	Admin           repos.AdminRepo
	TwoFactorSetup  repos.TwoFactorSetupRepo
	Content         repos.ContentRepo
	Media           repos.MediaRepo
	Inquiry         repos.InquiryRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Tenant:         repos.NewTenantRepo(db, log),
		Admin:          repos.NewAdminRepo(db, log),
		TwoFactorSetup: repos.NewTwoFactorSetupRepo(db, log),
		Content:        repos.NewContentRepo(db, log),
		Media:          repos.NewMediaRepo(db, log),
		Inquiry:        repos.NewInquiryRepo(db, log),
	}
}
