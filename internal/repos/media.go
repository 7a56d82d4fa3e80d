package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

type MediaRepo interface {
	CreateAsset(ctx context.Context, tx *gorm.DB, asset *types.MediaAsset) error
	GetByID(ctx context.Context, tx *gorm.DB, tenantID, assetID uint) (*types.MediaAsset, error)
	ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uint) ([]*types.MediaAsset, error)
	AddLink(ctx context.Context, tx *gorm.DB, contentID, assetID uint, sortOrder int) error
	ListByContent(ctx context.Context, tx *gorm.DB, contentID uint) ([]*types.MediaAsset, error)
	ListByContentOrBlocks(ctx context.Context, tx *gorm.DB, contentID uint) ([]*types.MediaAsset, error)
	HasAnyReference(ctx context.Context, tx *gorm.DB, assetID uint) (bool, error)
	PruneOrphanAsset(ctx context.Context, tx *gorm.DB, assetID uint) (*types.MediaAsset, error)
	RemoveLink(ctx context.Context, tx *gorm.DB, contentID, assetID uint) (*types.MediaAsset, error)
}

type mediaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMediaRepo(db *gorm.DB, baseLog *logger.Logger) MediaRepo {
	return &mediaRepo{db: db, log: baseLog.With("repo", "MediaRepo")}
}

func (r *mediaRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *mediaRepo) CreateAsset(ctx context.Context, tx *gorm.DB, asset *types.MediaAsset) error {
	return r.conn(tx).WithContext(ctx).Create(asset).Error
}

func (r *mediaRepo) GetByID(ctx context.Context, tx *gorm.DB, tenantID, assetID uint) (*types.MediaAsset, error) {
	var asset types.MediaAsset
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, assetID).
		First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *mediaRepo) ListByTenant(ctx context.Context, tx *gorm.DB, tenantID uint) ([]*types.MediaAsset, error) {
	var assets []*types.MediaAsset
	err := r.conn(tx).WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC, id DESC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// AddLink is insert-if-absent on the (content, asset) unique key, which
// is what makes link syncing idempotent.
func (r *mediaRepo) AddLink(ctx context.Context, tx *gorm.DB, contentID, assetID uint, sortOrder int) error {
	link := types.ContentMediaLink{
		ContentItemID: contentID,
		MediaAssetID:  assetID,
		SortOrder:     sortOrder,
	}
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
}

func (r *mediaRepo) ListByContent(ctx context.Context, tx *gorm.DB, contentID uint) ([]*types.MediaAsset, error) {
	var assets []*types.MediaAsset
	err := r.conn(tx).WithContext(ctx).
		Model(&types.MediaAsset{}).
		Joins("INNER JOIN content_media_links cml ON cml.media_asset_id = media_assets.id").
		Where("cml.content_item_id = ?", contentID).
		Order("cml.sort_order ASC, media_assets.id ASC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

// ListByContentOrBlocks returns the deduplicated union of assets reachable
// from a content item through the link table or inline block references.
func (r *mediaRepo) ListByContentOrBlocks(ctx context.Context, tx *gorm.DB, contentID uint) ([]*types.MediaAsset, error) {
	var assets []*types.MediaAsset
	err := r.conn(tx).WithContext(ctx).
		Model(&types.MediaAsset{}).
		Where(`media_assets.id IN (
			SELECT media_asset_id FROM content_media_links WHERE content_item_id = ?
			UNION
			SELECT media_asset_id FROM content_blocks WHERE content_item_id = ? AND media_asset_id IS NOT NULL
		)`, contentID, contentID).
		Order("media_assets.id ASC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *mediaRepo) HasAnyReference(ctx context.Context, tx *gorm.DB, assetID uint) (bool, error) {
	conn := r.conn(tx).WithContext(ctx)

	var count int64
	if err := conn.Model(&types.ContentMediaLink{}).
		Where("media_asset_id = ?", assetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := conn.Model(&types.ContentBlock{}).
		Where("media_asset_id = ?", assetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PruneOrphanAsset deletes the metadata row only when nothing references
// the asset anymore. It returns the deleted record so the caller can take
// care of the storage object, or nil when the asset was kept (or gone).
func (r *mediaRepo) PruneOrphanAsset(ctx context.Context, tx *gorm.DB, assetID uint) (*types.MediaAsset, error) {
	conn := r.conn(tx).WithContext(ctx)

	var asset types.MediaAsset
	err := conn.Where("id = ?", assetID).First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	referenced, err := r.HasAnyReference(ctx, tx, assetID)
	if err != nil {
		return nil, err
	}
	if referenced {
		return nil, nil
	}

	if err := conn.Where("id = ?", assetID).Delete(&types.MediaAsset{}).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// RemoveLink drops the (content, asset) link row and then attempts the
// prune. Removing an already-removed link is a no-op.
func (r *mediaRepo) RemoveLink(ctx context.Context, tx *gorm.DB, contentID, assetID uint) (*types.MediaAsset, error) {
	err := r.conn(tx).WithContext(ctx).
		Where("content_item_id = ? AND media_asset_id = ?", contentID, assetID).
		Delete(&types.ContentMediaLink{}).Error
	if err != nil {
		return nil, err
	}
	return r.PruneOrphanAsset(ctx, tx, assetID)
}
