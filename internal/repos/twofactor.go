package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

type TwoFactorSetupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, setup *types.TwoFactorSetup) error
	GetPending(ctx context.Context, tx *gorm.DB, tenantID, adminID uint) (*types.TwoFactorSetup, error)
	DeleteForAdmin(ctx context.Context, tx *gorm.DB, tenantID, adminID uint) error
}

type twoFactorSetupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTwoFactorSetupRepo(db *gorm.DB, baseLog *logger.Logger) TwoFactorSetupRepo {
	return &twoFactorSetupRepo{db: db, log: baseLog.With("repo", "TwoFactorSetupRepo")}
}

func (r *twoFactorSetupRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *twoFactorSetupRepo) Create(ctx context.Context, tx *gorm.DB, setup *types.TwoFactorSetup) error {
	conn := r.conn(tx).WithContext(ctx)
	// one pending setup per admin
	if err := conn.
		Where("tenant_id = ? AND admin_id = ?", setup.TenantID, setup.AdminID).
		Delete(&types.TwoFactorSetup{}).Error; err != nil {
		return err
	}
	return conn.Create(setup).Error
}

// GetPending returns the newest unexpired setup record, or nil.
func (r *twoFactorSetupRepo) GetPending(ctx context.Context, tx *gorm.DB, tenantID, adminID uint) (*types.TwoFactorSetup, error) {
	var setup types.TwoFactorSetup
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND admin_id = ? AND expires_at > ?", tenantID, adminID, time.Now()).
		Order("id DESC").
		First(&setup).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setup, nil
}

func (r *twoFactorSetupRepo) DeleteForAdmin(ctx context.Context, tx *gorm.DB, tenantID, adminID uint) error {
	return r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND admin_id = ?", tenantID, adminID).
		Delete(&types.TwoFactorSetup{}).Error
}
