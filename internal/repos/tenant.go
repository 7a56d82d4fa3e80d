package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

type TenantRepo interface {
	FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Tenant, error)
	FindByID(ctx context.Context, tx *gorm.DB, tenantID uint) (*types.Tenant, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Tenant, error)
	CreateTenant(ctx context.Context, tx *gorm.DB, tenant *types.Tenant) error
	UpdateTenant(ctx context.Context, tx *gorm.DB, tenantID uint, name, slug string) error
	GetSettings(ctx context.Context, tx *gorm.DB, tenantID uint) (*types.TenantSettings, error)
	UpsertSettings(ctx context.Context, tx *gorm.DB, settings *types.TenantSettings) error
}

type tenantRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTenantRepo(db *gorm.DB, baseLog *logger.Logger) TenantRepo {
	return &tenantRepo{db: db, log: baseLog.With("repo", "TenantRepo")}
}

func (r *tenantRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *tenantRepo) FindBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Tenant, error) {
	var tenant types.Tenant
	err := r.conn(tx).WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepo) FindByID(ctx context.Context, tx *gorm.DB, tenantID uint) (*types.Tenant, error) {
	var tenant types.Tenant
	err := r.conn(tx).WithContext(ctx).Where("id = ?", tenantID).First(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Tenant, error) {
	var tenants []*types.Tenant
	if err := r.conn(tx).WithContext(ctx).Order("id ASC").Find(&tenants).Error; err != nil {
		return nil, err
	}
	return tenants, nil
}

func (r *tenantRepo) CreateTenant(ctx context.Context, tx *gorm.DB, tenant *types.Tenant) error {
	return r.conn(tx).WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepo) UpdateTenant(ctx context.Context, tx *gorm.DB, tenantID uint, name, slug string) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Tenant{}).
		Where("id = ?", tenantID).
		Updates(map[string]interface{}{"name": name, "slug": slug}).Error
}

func (r *tenantRepo) GetSettings(ctx context.Context, tx *gorm.DB, tenantID uint) (*types.TenantSettings, error) {
	var settings types.TenantSettings
	err := r.conn(tx).WithContext(ctx).Where("tenant_id = ?", tenantID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *tenantRepo) UpsertSettings(ctx context.Context, tx *gorm.DB, settings *types.TenantSettings) error {
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"inquiry_retention_days", "privacy_policy_text", "updated_at"}),
		}).
		Create(settings).Error
}
