package repos

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

type InquiryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, inquiry *types.Inquiry) error
	ListAll(ctx context.Context, tx *gorm.DB, tenantID uint) ([]*types.Inquiry, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uint) (*types.Inquiry, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, tenantID, id uint, status string) error
	ListExpiredForPurge(ctx context.Context, tx *gorm.DB, tenantID uint, now time.Time) ([]*types.Inquiry, error)
	HardDelete(ctx context.Context, tx *gorm.DB, tenantID, id uint) error
	AddAuditLog(ctx context.Context, tx *gorm.DB, entry *types.InquiryAuditLog) error
	ListAuditLogs(ctx context.Context, tx *gorm.DB, tenantID uint, limit int) ([]*types.InquiryAuditLog, error)
}

type inquiryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInquiryRepo(db *gorm.DB, baseLog *logger.Logger) InquiryRepo {
	return &inquiryRepo{db: db, log: baseLog.With("repo", "InquiryRepo")}
}

func (r *inquiryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *inquiryRepo) Create(ctx context.Context, tx *gorm.DB, inquiry *types.Inquiry) error {
	return r.conn(tx).WithContext(ctx).Create(inquiry).Error
}

func (r *inquiryRepo) ListAll(ctx context.Context, tx *gorm.DB, tenantID uint) ([]*types.Inquiry, error) {
	var inquiries []*types.Inquiry
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Find(&inquiries).Error
	if err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (r *inquiryRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uint) (*types.Inquiry, error) {
	var inquiry types.Inquiry
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&inquiry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, tenantID, id uint, status string) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.Inquiry{}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Update("status", status).Error
}

func (r *inquiryRepo) ListExpiredForPurge(ctx context.Context, tx *gorm.DB, tenantID uint, now time.Time) ([]*types.Inquiry, error) {
	var inquiries []*types.Inquiry
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND retention_until IS NOT NULL AND retention_until < ?", tenantID, now).
		Order("id ASC").
		Find(&inquiries).Error
	if err != nil {
		return nil, err
	}
	return inquiries, nil
}

func (r *inquiryRepo) HardDelete(ctx context.Context, tx *gorm.DB, tenantID, id uint) error {
	return r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&types.Inquiry{}).Error
}

func (r *inquiryRepo) AddAuditLog(ctx context.Context, tx *gorm.DB, entry *types.InquiryAuditLog) error {
	return r.conn(tx).WithContext(ctx).Create(entry).Error
}

func (r *inquiryRepo) ListAuditLogs(ctx context.Context, tx *gorm.DB, tenantID uint, limit int) ([]*types.InquiryAuditLog, error) {
	if limit <= 0 {
		limit = 200
	}
	var logs []*types.InquiryAuditLog
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
