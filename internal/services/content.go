package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/repos"
	"github.com/hanbit-dev/showcase-backend/internal/storage"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

// ContentInput is an admin submission for a content item. BlocksJSON is
// the raw JSON-encoded block list as posted by the editor.
type ContentInput struct {
	Type       string
	Title      string
	Summary    string
	Body       string
	Status     string
	BlocksJSON string
}

type ContentFiles struct {
	Thumbnail   *storage.FileUpload
	Attachments []storage.FileUpload
}

// ContentDetail is a content item together with its ordered blocks and
// the attachment gallery.
type ContentDetail struct {
	Item        *types.ContentItem    `json:"item"`
	Blocks      []*types.ContentBlock `json:"blocks"`
	MediaAssets []*types.MediaAsset   `json:"media_assets"`
}

type ContentService interface {
	ListPublished(ctx context.Context, tenantID uint, contentType string) ([]*types.ContentItem, error)
	ListAdmin(ctx context.Context, tenantID uint, contentType string) ([]*types.ContentItem, error)
	ListMediaLibrary(ctx context.Context, tenantID uint) ([]*types.MediaAsset, error)
	GetBySlug(ctx context.Context, tenantID uint, contentType, slug string) (*ContentDetail, error)
	GetByID(ctx context.Context, tenantID, id uint) (*ContentDetail, error)
	Create(ctx context.Context, tenantID uint, input ContentInput, files ContentFiles) (*ContentDetail, error)
	Update(ctx context.Context, tenantID, id uint, input ContentInput, files ContentFiles) (*ContentDetail, error)
	Delete(ctx context.Context, tenantID, id uint) error
	RemoveMedia(ctx context.Context, tenantID, contentID, mediaID uint) error
}

type contentService struct {
	db          *gorm.DB
	log         *logger.Logger
	contentRepo repos.ContentRepo
	mediaRepo   repos.MediaRepo
	store       storage.Provider
}

func NewContentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	contentRepo repos.ContentRepo,
	mediaRepo repos.MediaRepo,
	store storage.Provider,
) ContentService {
	return &contentService{
		db:          db,
		log:         baseLog.With("service", "ContentService"),
		contentRepo: contentRepo,
		mediaRepo:   mediaRepo,
		store:       store,
	}
}

func (s *contentService) ListPublished(ctx context.Context, tenantID uint, contentType string) ([]*types.ContentItem, error) {
	return s.contentRepo.ListPublishedByType(ctx, nil, tenantID, contentType)
}

func (s *contentService) ListAdmin(ctx context.Context, tenantID uint, contentType string) ([]*types.ContentItem, error) {
	return s.contentRepo.ListByTypeForAdmin(ctx, nil, tenantID, contentType)
}

func (s *contentService) ListMediaLibrary(ctx context.Context, tenantID uint) ([]*types.MediaAsset, error) {
	return s.mediaRepo.ListByTenant(ctx, nil, tenantID)
}

func (s *contentService) GetBySlug(ctx context.Context, tenantID uint, contentType, slug string) (*ContentDetail, error) {
	item, err := s.contentRepo.GetBySlug(ctx, nil, tenantID, contentType, slug)
	if err != nil || item == nil {
		return nil, err
	}
	return s.loadDetail(ctx, item)
}

func (s *contentService) GetByID(ctx context.Context, tenantID, id uint) (*ContentDetail, error) {
	item, err := s.contentRepo.GetByID(ctx, nil, tenantID, id)
	if err != nil || item == nil {
		return nil, err
	}
	return s.loadDetail(ctx, item)
}

func (s *contentService) loadDetail(ctx context.Context, item *types.ContentItem) (*ContentDetail, error) {
	blocks, err := s.contentRepo.ListBlocks(ctx, nil, item.TenantID, item.ID)
	if err != nil {
		return nil, err
	}
	assets, err := s.mediaRepo.ListByContent(ctx, nil, item.ID)
	if err != nil {
		return nil, err
	}
	return &ContentDetail{Item: item, Blocks: blocks, MediaAssets: assets}, nil
}

func (s *contentService) validateInput(input *ContentInput, requireType bool) error {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return apierr.Validation("title is required")
	}
	if requireType && !types.IsValidContentType(input.Type) {
		return apierr.Validation("unknown content type %q", input.Type)
	}
	if input.Status == "" {
		input.Status = types.ContentStatusDraft
	}
	if !types.IsValidContentStatus(input.Status) {
		return apierr.Validation("unknown content status %q", input.Status)
	}
	return nil
}

func (s *contentService) Create(ctx context.Context, tenantID uint, input ContentInput, files ContentFiles) (*ContentDetail, error) {
	if err := s.validateInput(&input, true); err != nil {
		return nil, err
	}

	thumbnailPath := ""
	if files.Thumbnail != nil {
		stored, err := s.store.Upload(ctx, tenantID, storage.CategoryThumbnails, *files.Thumbnail)
		if err != nil {
			return nil, err
		}
		thumbnailPath = stored.StoragePath
	}

	var created *types.ContentItem
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blocks, err := s.normalizeBlocks(ctx, tx, tenantID, input.BlocksJSON)
		if err != nil {
			return err
		}
		itemSlug, err := s.ensureUniqueSlug(ctx, tx, tenantID, input.Type, input.Title, 0)
		if err != nil {
			return err
		}

		item := &types.ContentItem{
			TenantID:      tenantID,
			Type:          input.Type,
			Title:         input.Title,
			Slug:          itemSlug,
			Summary:       input.Summary,
			Body:          composeBodyFallback(blocks, input.Body),
			Status:        input.Status,
			ThumbnailPath: thumbnailPath,
		}
		if err := s.contentRepo.Create(ctx, tx, item); err != nil {
			return err
		}
		if err := s.attachFiles(ctx, tx, tenantID, item.ID, files.Attachments); err != nil {
			return err
		}
		if err := s.contentRepo.ReplaceBlocks(ctx, tx, tenantID, item.ID, blocks); err != nil {
			return err
		}
		if err := s.syncBlockAssetLinks(ctx, tx, item.ID, blocks); err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Content created", "tenant_id", tenantID, "content_id", created.ID, "slug", created.Slug)
	return s.GetByID(ctx, tenantID, created.ID)
}

func (s *contentService) Update(ctx context.Context, tenantID, id uint, input ContentInput, files ContentFiles) (*ContentDetail, error) {
	existing, err := s.contentRepo.GetByID(ctx, nil, tenantID, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.NotFound("content %d not found", id)
	}
	// type is immutable across updates
	input.Type = existing.Type
	if err := s.validateInput(&input, false); err != nil {
		return nil, err
	}

	newThumbnailPath := existing.ThumbnailPath
	thumbnailReplaced := false
	if files.Thumbnail != nil {
		stored, err := s.store.Upload(ctx, tenantID, storage.CategoryThumbnails, *files.Thumbnail)
		if err != nil {
			return nil, err
		}
		newThumbnailPath = stored.StoragePath
		thumbnailReplaced = true
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blocks, err := s.normalizeBlocks(ctx, tx, tenantID, input.BlocksJSON)
		if err != nil {
			return err
		}
		itemSlug, err := s.ensureUniqueSlug(ctx, tx, tenantID, existing.Type, input.Title, id)
		if err != nil {
			return err
		}

		item := &types.ContentItem{
			ID:            id,
			TenantID:      tenantID,
			Type:          existing.Type,
			Title:         input.Title,
			Slug:          itemSlug,
			Summary:       input.Summary,
			Body:          composeBodyFallback(blocks, input.Body),
			Status:        input.Status,
			ThumbnailPath: newThumbnailPath,
		}
		if err := s.contentRepo.Update(ctx, tx, item); err != nil {
			return err
		}
		if err := s.attachFiles(ctx, tx, tenantID, id, files.Attachments); err != nil {
			return err
		}
		if err := s.contentRepo.ReplaceBlocks(ctx, tx, tenantID, id, blocks); err != nil {
			return err
		}
		return s.syncBlockAssetLinks(ctx, tx, id, blocks)
	})
	if err != nil {
		return nil, err
	}

	// The old thumbnail file goes away only after the row update stuck.
	if thumbnailReplaced && existing.ThumbnailPath != "" && existing.ThumbnailPath != newThumbnailPath {
		s.deleteManagedFile(ctx, existing.ThumbnailPath)
	}

	s.log.Info("Content updated", "tenant_id", tenantID, "content_id", id)
	return s.GetByID(ctx, tenantID, id)
}

// Delete removes the content row (blocks and links cascade with it),
// then prunes every asset the item was the last holder of. Storage
// objects are cleaned up after the transaction, each path once.
func (s *contentService) Delete(ctx context.Context, tenantID, id uint) error {
	existing, err := s.contentRepo.GetByID(ctx, nil, tenantID, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	var pruned []*types.MediaAsset
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removable, err := s.mediaRepo.ListByContentOrBlocks(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.contentRepo.Delete(ctx, tx, tenantID, id); err != nil {
			return err
		}
		for _, asset := range removable {
			deleted, err := s.mediaRepo.PruneOrphanAsset(ctx, tx, asset.ID)
			if err != nil {
				return err
			}
			if deleted != nil {
				pruned = append(pruned, deleted)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	cleaned := map[string]bool{}
	if existing.ThumbnailPath != "" {
		s.deleteManagedFile(ctx, existing.ThumbnailPath)
		cleaned[existing.ThumbnailPath] = true
	}
	for _, asset := range pruned {
		if cleaned[asset.StoragePath] {
			continue
		}
		s.deleteManagedFile(ctx, asset.StoragePath)
		cleaned[asset.StoragePath] = true
	}

	s.log.Info("Content deleted", "tenant_id", tenantID, "content_id", id, "pruned_assets", len(pruned))
	return nil
}

// RemoveMedia detaches an asset from one content item: inline block
// references are nulled, the link row dropped, and the asset pruned if
// this was its last reference.
func (s *contentService) RemoveMedia(ctx context.Context, tenantID, contentID, mediaID uint) error {
	var deleted *types.MediaAsset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.contentRepo.ClearMediaAssetFromBlocks(ctx, tx, tenantID, contentID, mediaID); err != nil {
			return err
		}
		var err error
		deleted, err = s.mediaRepo.RemoveLink(ctx, tx, contentID, mediaID)
		return err
	})
	if err != nil {
		return err
	}
	if deleted != nil {
		s.deleteManagedFile(ctx, deleted.StoragePath)
	}
	return nil
}

// attachFiles uploads each attachment, records it as a media asset and
// links it to the content item, continuing sort order from the current
// attachment count.
func (s *contentService) attachFiles(ctx context.Context, tx *gorm.DB, tenantID, contentID uint, files []storage.FileUpload) error {
	if len(files) == 0 {
		return nil
	}
	current, err := s.mediaRepo.ListByContent(ctx, tx, contentID)
	if err != nil {
		return err
	}
	sortOrder := len(current)
	for _, f := range files {
		stored, err := s.store.Upload(ctx, tenantID, storage.CategoryAttachments, f)
		if err != nil {
			return err
		}
		asset := &types.MediaAsset{
			TenantID:     tenantID,
			FileName:     stored.FileName,
			OriginalName: f.OriginalName,
			MimeType:     f.MimeType,
			FileSize:     f.Size,
			StoragePath:  stored.StoragePath,
		}
		if err := s.mediaRepo.CreateAsset(ctx, tx, asset); err != nil {
			return err
		}
		if err := s.mediaRepo.AddLink(ctx, tx, contentID, asset.ID, sortOrder); err != nil {
			return err
		}
		sortOrder++
	}
	return nil
}

// syncBlockAssetLinks makes sure every asset referenced by a block also
// has an attachment link, appended after the existing ones. Runs on every
// save; link creation is insert-if-absent so repeats are harmless.
func (s *contentService) syncBlockAssetLinks(ctx context.Context, tx *gorm.DB, contentID uint, blocks []types.ContentBlock) error {
	seen := map[uint]bool{}
	var ids []uint
	for _, b := range blocks {
		if b.MediaAssetID == nil || *b.MediaAssetID == 0 || seen[*b.MediaAssetID] {
			continue
		}
		seen[*b.MediaAssetID] = true
		ids = append(ids, *b.MediaAssetID)
	}
	if len(ids) == 0 {
		return nil
	}

	current, err := s.mediaRepo.ListByContent(ctx, tx, contentID)
	if err != nil {
		return err
	}
	linked := map[uint]bool{}
	for _, asset := range current {
		linked[asset.ID] = true
	}

	sortOrder := len(current)
	for _, assetID := range ids {
		if linked[assetID] {
			continue
		}
		if err := s.mediaRepo.AddLink(ctx, tx, contentID, assetID, sortOrder); err != nil {
			return err
		}
		sortOrder++
	}
	return nil
}

// deleteManagedFile is best-effort storage cleanup. Failures are logged
// and swallowed; the database change they follow has already committed.
func (s *contentService) deleteManagedFile(ctx context.Context, storagePath string) {
	if storagePath == "" {
		return
	}
	if err := s.store.DeleteByStoragePath(ctx, storagePath); err != nil {
		s.log.Warn("Storage cleanup failed", "path", storagePath, "error", err)
	}
}
