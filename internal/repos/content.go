package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

type ContentRepo interface {
	ListPublishedByType(ctx context.Context, tx *gorm.DB, tenantID uint, contentType string) ([]*types.ContentItem, error)
	ListByTypeForAdmin(ctx context.Context, tx *gorm.DB, tenantID uint, contentType string) ([]*types.ContentItem, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, tenantID uint, contentType, slug string) (*types.ContentItem, error)
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uint) (*types.ContentItem, error)
	IsSlugTaken(ctx context.Context, tx *gorm.DB, tenantID uint, contentType, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, item *types.ContentItem) error
	Update(ctx context.Context, tx *gorm.DB, item *types.ContentItem) error
	Delete(ctx context.Context, tx *gorm.DB, tenantID, id uint) error
	ReplaceBlocks(ctx context.Context, tx *gorm.DB, tenantID, contentID uint, blocks []types.ContentBlock) error
	ListBlocks(ctx context.Context, tx *gorm.DB, tenantID, contentID uint) ([]*types.ContentBlock, error)
	ClearMediaAssetFromBlocks(ctx context.Context, tx *gorm.DB, tenantID, contentID, assetID uint) error
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	return &contentRepo{db: db, log: baseLog.With("repo", "ContentRepo")}
}

func (r *contentRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *contentRepo) ListPublishedByType(ctx context.Context, tx *gorm.DB, tenantID uint, contentType string) ([]*types.ContentItem, error) {
	var items []*types.ContentItem
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND type = ? AND status = ?", tenantID, contentType, types.ContentStatusPublished).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *contentRepo) ListByTypeForAdmin(ctx context.Context, tx *gorm.DB, tenantID uint, contentType string) ([]*types.ContentItem, error) {
	var items []*types.ContentItem
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND type = ?", tenantID, contentType).
		Order("updated_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *contentRepo) GetBySlug(ctx context.Context, tx *gorm.DB, tenantID uint, contentType, slug string) (*types.ContentItem, error) {
	var item types.ContentItem
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND type = ? AND slug = ?", tenantID, contentType, slug).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, id uint) (*types.ContentItem, error) {
	var item types.ContentItem
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentRepo) IsSlugTaken(ctx context.Context, tx *gorm.DB, tenantID uint, contentType, slug string, excludeID uint) (bool, error) {
	q := r.conn(tx).WithContext(ctx).
		Model(&types.ContentItem{}).
		Where("tenant_id = ? AND type = ? AND slug = ?", tenantID, contentType, slug)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *contentRepo) Create(ctx context.Context, tx *gorm.DB, item *types.ContentItem) error {
	return r.conn(tx).WithContext(ctx).Create(item).Error
}

func (r *contentRepo) Update(ctx context.Context, tx *gorm.DB, item *types.ContentItem) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.ContentItem{}).
		Where("tenant_id = ? AND id = ?", item.TenantID, item.ID).
		Updates(map[string]interface{}{
			"title":          item.Title,
			"slug":           item.Slug,
			"summary":        item.Summary,
			"body":           item.Body,
			"status":         item.Status,
			"thumbnail_path": item.ThumbnailPath,
		}).Error
}

// Delete removes the row together with its blocks and attachment links.
// The cascade is explicit rather than left to driver FK behavior so both
// backends behave identically.
func (r *contentRepo) Delete(ctx context.Context, tx *gorm.DB, tenantID, id uint) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.
		Where("tenant_id = ? AND content_item_id = ?", tenantID, id).
		Delete(&types.ContentBlock{}).Error; err != nil {
		return err
	}
	if err := conn.
		Where("content_item_id = ?", id).
		Delete(&types.ContentMediaLink{}).Error; err != nil {
		return err
	}
	return conn.
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&types.ContentItem{}).Error
}

// ReplaceBlocks drops the current block set and inserts the given one.
// Sort order is assigned here from list position.
func (r *contentRepo) ReplaceBlocks(ctx context.Context, tx *gorm.DB, tenantID, contentID uint, blocks []types.ContentBlock) error {
	conn := r.conn(tx).WithContext(ctx)
	if err := conn.
		Where("tenant_id = ? AND content_item_id = ?", tenantID, contentID).
		Delete(&types.ContentBlock{}).Error; err != nil {
		return err
	}
	if len(blocks) == 0 {
		return nil
	}
	rows := make([]types.ContentBlock, len(blocks))
	for i, b := range blocks {
		b.ID = 0
		b.TenantID = tenantID
		b.ContentItemID = contentID
		b.SortOrder = i
		rows[i] = b
	}
	return conn.Create(&rows).Error
}

func (r *contentRepo) ListBlocks(ctx context.Context, tx *gorm.DB, tenantID, contentID uint) ([]*types.ContentBlock, error) {
	var blocks []*types.ContentBlock
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND content_item_id = ?", tenantID, contentID).
		Order("sort_order ASC, id ASC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *contentRepo) ClearMediaAssetFromBlocks(ctx context.Context, tx *gorm.DB, tenantID, contentID, assetID uint) error {
	return r.conn(tx).WithContext(ctx).
		Model(&types.ContentBlock{}).
		Where("tenant_id = ? AND content_item_id = ? AND media_asset_id = ?", tenantID, contentID, assetID).
		Update("media_asset_id", nil).Error
}
