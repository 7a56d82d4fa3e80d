package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

type AdminRepo interface {
	Create(ctx context.Context, tx *gorm.DB, admin *types.AdminUser) error
	FindByUsername(ctx context.Context, tx *gorm.DB, tenantID uint, username string) (*types.AdminUser, error)
	FindByID(ctx context.Context, tx *gorm.DB, tenantID, adminID uint) (*types.AdminUser, error)
	CountByTenant(ctx context.Context, tx *gorm.DB, tenantID uint) (int64, error)
	MarkFailedLogin(ctx context.Context, tx *gorm.DB, tenantID, adminID uint, failedCount int, lockUntil *time.Time) error
	ResetLoginFailures(ctx context.Context, tx *gorm.DB, tenantID, adminID uint) error
	UpdatePassword(ctx context.Context, tx *gorm.DB, tenantID, adminID uint, passwordHash string) error
	UpdateTwoFactor(ctx context.Context, tx *gorm.DB, tenantID, adminID uint, enabled bool, secret string) error
}

type adminRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAdminRepo(db *gorm.DB, baseLog *logger.Logger) AdminRepo {
	return &adminRepo{db: db, log: baseLog.With("repo", "AdminRepo")}
}

func (r *adminRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *adminRepo) Create(ctx context.Context, tx *gorm.DB, admin *types.AdminUser) error {
	return r.conn(tx).WithContext(ctx).Create(admin).Error
}

func (r *adminRepo) FindByUsername(ctx context.Context, tx *gorm.DB, tenantID uint, username string) (*types.AdminUser, error) {
	var admin types.AdminUser
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND username = ?", tenantID, username).
		First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) FindByID(ctx context.Context, tx *gorm.DB, tenantID, adminID uint) (*types.AdminUser, error) {
	var admin types.AdminUser
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, adminID).
		First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepo) CountByTenant(ctx context.Context, tx *gorm.DB, tenantID uint) (int64, error) {
	var count int64
	err := r.conn(tx).WithContext(ctx).
		Model(&types.AdminUser{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error
	return count, err
}

func (r *adminRepo) MarkFailedLogin(ctx context.Context, tx *gorm.DB, tenantID, adminID uint, failedCount int, lockUntil *time.Time) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.AdminUser{}).
		Where("tenant_id = ? AND id = ?", tenantID, adminID).
		Updates(map[string]interface{}{
			"failed_login_count": failedCount,
			"locked_until":       lockUntil,
		}).Error
}

func (r *adminRepo) ResetLoginFailures(ctx context.Context, tx *gorm.DB, tenantID, adminID uint) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.AdminUser{}).
		Where("tenant_id = ? AND id = ?", tenantID, adminID).
		Updates(map[string]interface{}{
			"failed_login_count": 0,
			"locked_until":       nil,
		}).Error
}

func (r *adminRepo) UpdatePassword(ctx context.Context, tx *gorm.DB, tenantID, adminID uint, passwordHash string) error {
	now := time.Now()
	return r.conn(tx).WithContext(ctx).
		Model(&types.AdminUser{}).
		Where("tenant_id = ? AND id = ?", tenantID, adminID).
		Updates(map[string]interface{}{
			"password_hash":        passwordHash,
			"password_updated_at":  now,
			"must_change_password": false,
		}).Error
}

func (r *adminRepo) UpdateTwoFactor(ctx context.Context, tx *gorm.DB, tenantID, adminID uint, enabled bool, secret string) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.AdminUser{}).
		Where("tenant_id = ? AND id = ?", tenantID, adminID).
		Updates(map[string]interface{}{
			"twofa_enabled": enabled,
			"twofa_secret":  secret,
		}).Error
}
