package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/storage"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

func upload(name string) *storage.FileUpload {
	return &storage.FileUpload{
		OriginalName: name,
		MimeType:     "image/png",
		Size:         64,
		Reader:       strings.NewReader("not really a png"),
	}
}

func TestCreatePersistsNormalizedBlocksInOrder(t *testing.T) {
	f := newContentFixture(t)
	asset := f.seedAsset(t, "/uploads/1/attachments/hero.png")

	blocksJSON := fmt.Sprintf(`[
		{"blockType":"text","contentText":"intro"},
		{"blockType":"shiny","contentText":"dropped"},
		{"blockType":"image","mediaAssetId":%d},
		{"blockType":"text","contentText":"outro"}
	]`, asset.ID)
	detail, err := f.content.Create(context.Background(), f.tenant.ID, ContentInput{
		Type:       types.ContentTypePortfolio,
		Title:      "Launch",
		Status:     types.ContentStatusPublished,
		BlocksJSON: blocksJSON,
	}, ContentFiles{})
	require.NoError(t, err)

	require.Len(t, detail.Blocks, 3)
	for i, b := range detail.Blocks {
		require.Equal(t, i, b.SortOrder)
	}
	require.Equal(t, "intro", detail.Blocks[0].ContentText)
	require.Equal(t, asset.ID, *detail.Blocks[1].MediaAssetID)
	require.Equal(t, "outro", detail.Blocks[2].ContentText)

	// text blocks override the client body
	require.Equal(t, "intro\n\noutro", detail.Item.Body)

	// the block-referenced asset got a gallery link
	require.Len(t, detail.MediaAssets, 1)
	require.Equal(t, asset.ID, detail.MediaAssets[0].ID)
}

func TestCreateWithDanglingAssetPersistsNothing(t *testing.T) {
	f := newContentFixture(t)

	_, err := f.content.Create(context.Background(), f.tenant.ID, ContentInput{
		Type:       types.ContentTypeService,
		Title:      "Broken",
		BlocksJSON: `[{"blockType":"image","mediaAssetId":999}]`,
	}, ContentFiles{})
	require.Error(t, err)
	require.True(t, apierr.IsNotFound(err))

	var itemCount, blockCount int64
	require.NoError(t, f.db.Model(&types.ContentItem{}).Count(&itemCount).Error)
	require.NoError(t, f.db.Model(&types.ContentBlock{}).Count(&blockCount).Error)
	require.Zero(t, itemCount)
	require.Zero(t, blockCount)
}

func TestSlugCollisionsResolveWithSuffix(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	input := ContentInput{Type: types.ContentTypePortfolio, Title: "A/B Test!!"}
	first, err := f.content.Create(ctx, f.tenant.ID, input, ContentFiles{})
	require.NoError(t, err)
	second, err := f.content.Create(ctx, f.tenant.ID, input, ContentFiles{})
	require.NoError(t, err)
	third, err := f.content.Create(ctx, f.tenant.ID, input, ContentFiles{})
	require.NoError(t, err)

	require.Equal(t, "a-b-test", first.Item.Slug)
	require.Equal(t, "a-b-test-1", second.Item.Slug)
	require.Equal(t, "a-b-test-2", third.Item.Slug)

	// same title under a different type starts fresh
	other, err := f.content.Create(ctx, f.tenant.ID, ContentInput{
		Type: types.ContentTypeService, Title: "A/B Test!!",
	}, ContentFiles{})
	require.NoError(t, err)
	require.Equal(t, "a-b-test", other.Item.Slug)
}

func TestUpdateKeepsSlugAndReplacesThumbnail(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	created, err := f.content.Create(ctx, f.tenant.ID, ContentInput{
		Type: types.ContentTypePortfolio, Title: "Brand Site",
	}, ContentFiles{Thumbnail: upload("old.png")})
	require.NoError(t, err)
	oldThumb := created.Item.ThumbnailPath
	require.NotEmpty(t, oldThumb)

	updated, err := f.content.Update(ctx, f.tenant.ID, created.Item.ID, ContentInput{
		Title: "Brand Site", Status: types.ContentStatusPublished,
	}, ContentFiles{Thumbnail: upload("new.png")})
	require.NoError(t, err)

	require.Equal(t, created.Item.Slug, updated.Item.Slug)
	require.NotEqual(t, oldThumb, updated.Item.ThumbnailPath)
	require.Equal(t, 1, f.store.deleteCount(oldThumb))
}

func TestDeletePrunesOrphansAndCleansStorageOnce(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	detail, err := f.content.Create(ctx, f.tenant.ID, ContentInput{
		Type: types.ContentTypePortfolio, Title: "Gallery",
	}, ContentFiles{
		Thumbnail:   upload("thumb.png"),
		Attachments: []storage.FileUpload{*upload("one.png"), *upload("two.png")},
	})
	require.NoError(t, err)
	require.Len(t, detail.MediaAssets, 2)

	require.NoError(t, f.content.Delete(ctx, f.tenant.ID, detail.Item.ID))

	var itemCount, assetCount, linkCount int64
	require.NoError(t, f.db.Model(&types.ContentItem{}).Count(&itemCount).Error)
	require.NoError(t, f.db.Model(&types.MediaAsset{}).Count(&assetCount).Error)
	require.NoError(t, f.db.Model(&types.ContentMediaLink{}).Count(&linkCount).Error)
	require.Zero(t, itemCount)
	require.Zero(t, assetCount)
	require.Zero(t, linkCount)

	require.Equal(t, 1, f.store.deleteCount(detail.Item.ThumbnailPath))
	for _, asset := range detail.MediaAssets {
		require.Equal(t, 1, f.store.deleteCount(asset.StoragePath))
	}
}

func TestDeleteSharedThumbnailAndAssetPathCleanedOnce(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	sharedPath := "/uploads/1/attachments/cover.png"
	asset := f.seedAsset(t, sharedPath)

	detail, err := f.content.Create(ctx, f.tenant.ID, ContentInput{
		Type:       types.ContentTypePortfolio,
		Title:      "Cover Story",
		BlocksJSON: fmt.Sprintf(`[{"blockType":"image","mediaAssetId":%d}]`, asset.ID),
	}, ContentFiles{})
	require.NoError(t, err)

	// the item's thumbnail points at the very same stored object
	require.NoError(t, f.db.Model(&types.ContentItem{}).
		Where("id = ?", detail.Item.ID).
		Update("thumbnail_path", sharedPath).Error)

	require.NoError(t, f.content.Delete(ctx, f.tenant.ID, detail.Item.ID))

	var assetCount int64
	require.NoError(t, f.db.Model(&types.MediaAsset{}).Where("id = ?", asset.ID).Count(&assetCount).Error)
	require.Zero(t, assetCount)

	require.Equal(t, 1, f.store.deleteCount(sharedPath))
	require.Len(t, f.store.deletes, 1)
}

func TestDeleteKeepsAssetsStillReferencedElsewhere(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	shared := f.seedAsset(t, "/uploads/1/attachments/shared.png")

	blocksJSON := fmt.Sprintf(`[{"blockType":"image","mediaAssetId":%d}]`, shared.ID)
	a, err := f.content.Create(ctx, f.tenant.ID, ContentInput{
		Type: types.ContentTypePortfolio, Title: "First", BlocksJSON: blocksJSON,
	}, ContentFiles{})
	require.NoError(t, err)
	_, err = f.content.Create(ctx, f.tenant.ID, ContentInput{
		Type: types.ContentTypePortfolio, Title: "Second", BlocksJSON: blocksJSON,
	}, ContentFiles{})
	require.NoError(t, err)

	require.NoError(t, f.content.Delete(ctx, f.tenant.ID, a.Item.ID))

	var assetCount int64
	require.NoError(t, f.db.Model(&types.MediaAsset{}).Where("id = ?", shared.ID).Count(&assetCount).Error)
	require.EqualValues(t, 1, assetCount)
	require.Equal(t, 0, f.store.deleteCount(shared.StoragePath))
}

func TestRemoveMediaClearsBlocksAndPrunes(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()
	asset := f.seedAsset(t, "/uploads/1/attachments/solo.png")

	detail, err := f.content.Create(ctx, f.tenant.ID, ContentInput{
		Type:       types.ContentTypeService,
		Title:      "Consulting",
		BlocksJSON: fmt.Sprintf(`[{"blockType":"image","mediaAssetId":%d}]`, asset.ID),
	}, ContentFiles{})
	require.NoError(t, err)

	require.NoError(t, f.content.RemoveMedia(ctx, f.tenant.ID, detail.Item.ID, asset.ID))

	after, err := f.content.GetByID(ctx, f.tenant.ID, detail.Item.ID)
	require.NoError(t, err)
	require.Len(t, after.Blocks, 1)
	require.Nil(t, after.Blocks[0].MediaAssetID)
	require.Empty(t, after.MediaAssets)

	var assetCount int64
	require.NoError(t, f.db.Model(&types.MediaAsset{}).Where("id = ?", asset.ID).Count(&assetCount).Error)
	require.Zero(t, assetCount)
	require.Equal(t, 1, f.store.deleteCount(asset.StoragePath))

	// removing again is a no-op
	require.NoError(t, f.content.RemoveMedia(ctx, f.tenant.ID, detail.Item.ID, asset.ID))
	require.Equal(t, 1, f.store.deleteCount(asset.StoragePath))
}

func TestDeleteMissingContentIsNoOp(t *testing.T) {
	f := newContentFixture(t)
	require.NoError(t, f.content.Delete(context.Background(), f.tenant.ID, 4242))
	require.Empty(t, f.store.deletes)
}

func TestContentTypeIsImmutable(t *testing.T) {
	f := newContentFixture(t)
	ctx := context.Background()

	created, err := f.content.Create(ctx, f.tenant.ID, ContentInput{
		Type: types.ContentTypePortfolio, Title: "Fixed Type",
	}, ContentFiles{})
	require.NoError(t, err)

	updated, err := f.content.Update(ctx, f.tenant.ID, created.Item.ID, ContentInput{
		Type: types.ContentTypeService, Title: "Fixed Type",
	}, ContentFiles{})
	require.NoError(t, err)
	require.Equal(t, types.ContentTypePortfolio, updated.Item.Type)
}
