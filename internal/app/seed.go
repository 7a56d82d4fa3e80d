package app

import (
	"context"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/services"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

// seed bootstraps the first tenant and admin account on an empty database.
// Runs on every start and no-ops once the tenant exists.
func seed(ctx context.Context, log *logger.Logger, cfg Config, reposet Repos, serviceset Services) error {
	tenant, err := reposet.Tenant.FindBySlug(ctx, nil, cfg.SeedTenantSlug)
	if err != nil {
		return err
	}
	if tenant == nil {
		created, err := serviceset.Tenant.CreateTenant(ctx, services.TenantInput{
			Name: cfg.SeedTenantName,
			Slug: cfg.SeedTenantSlug,
		})
		if err != nil {
			return err
		}
		tenant = created.Tenant
		log.Info("Seeded default tenant", "tenant_id", tenant.ID, "slug", tenant.Slug)
	}

	count, err := reposet.Admin.CountByTenant(ctx, nil, tenant.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if cfg.SeedAdminPassword == "" {
		log.Warn("No admin accounts and SEED_ADMIN_PASSWORD not set, skipping admin seed", "tenant_id", tenant.ID)
		return nil
	}

	hash, err := serviceset.Auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	admin := &types.AdminUser{
		TenantID:           tenant.ID,
		Username:           cfg.SeedAdminUsername,
		DisplayName:        cfg.SeedAdminUsername,
		PasswordHash:       hash,
		MustChangePassword: true,
	}
	if err := reposet.Admin.Create(ctx, nil, admin); err != nil {
		return err
	}
	log.Info("Seeded admin account", "tenant_id", tenant.ID, "username", admin.Username)
	return nil
}
