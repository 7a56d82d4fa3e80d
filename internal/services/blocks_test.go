package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

func (f *contentFixture) normalize(t *testing.T, blocksJSON string) ([]types.ContentBlock, error) {
	t.Helper()
	svc := f.content.(*contentService)
	return svc.normalizeBlocks(context.Background(), nil, f.tenant.ID, blocksJSON)
}

func TestNormalizeBlocksEmptyPayload(t *testing.T) {
	f := newContentFixture(t)

	for _, payload := range []string{"", "   ", "[]"} {
		blocks, err := f.normalize(t, payload)
		require.NoError(t, err)
		require.Empty(t, blocks)
	}
}

func TestNormalizeBlocksRejectsNonArray(t *testing.T) {
	f := newContentFixture(t)

	_, err := f.normalize(t, `{"blockType":"text"}`)
	require.Error(t, err)
	require.True(t, apierr.IsValidation(err))
}

func TestNormalizeBlocksDropsNoise(t *testing.T) {
	f := newContentFixture(t)

	payload := `[
		{"blockType":"marquee","contentText":"old browsers"},
		{"blockType":"text","contentText":"   "},
		{"blockType":"image"},
		{"blockType":"video","contentText":"caption"},
		{"blockType":"text","contentText":"  kept  "}
	]`
	blocks, err := f.normalize(t, payload)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Equal(t, types.BlockTypeText, blocks[0].BlockType)
	require.Equal(t, "kept", blocks[0].ContentText)
}

func TestNormalizeBlocksKeepsInputOrder(t *testing.T) {
	f := newContentFixture(t)
	asset := f.seedAsset(t, "/uploads/1/attachments/a.png")

	payload := fmt.Sprintf(`[
		{"blockType":"text","contentText":"first"},
		{"blockType":"image","mediaAssetId":%d},
		{"blockType":"bogus"},
		{"blockType":"video","mediaUrl":"https://cdn.example.com/v.mp4"},
		{"blockType":"text","contentText":"last"}
	]`, asset.ID)
	blocks, err := f.normalize(t, payload)
	require.NoError(t, err)
	require.Len(t, blocks, 4)
	require.Equal(t, "first", blocks[0].ContentText)
	require.NotNil(t, blocks[1].MediaAssetID)
	require.Equal(t, asset.ID, *blocks[1].MediaAssetID)
	require.Equal(t, "https://cdn.example.com/v.mp4", blocks[2].MediaURL)
	require.Equal(t, "last", blocks[3].ContentText)
}

func TestNormalizeBlocksDanglingAssetIsHardFailure(t *testing.T) {
	f := newContentFixture(t)

	_, err := f.normalize(t, `[{"blockType":"image","mediaAssetId":999}]`)
	require.Error(t, err)
	require.True(t, apierr.IsNotFound(err))
}

func TestNormalizeBlocksAssetReferenceWinsOverURL(t *testing.T) {
	f := newContentFixture(t)
	asset := f.seedAsset(t, "/uploads/1/attachments/b.png")

	payload := fmt.Sprintf(
		`[{"blockType":"image","mediaAssetId":%d,"mediaUrl":"https://elsewhere.example.com/x.png"}]`,
		asset.ID)
	blocks, err := f.normalize(t, payload)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.NotNil(t, blocks[0].MediaAssetID)
	require.Equal(t, asset.ID, *blocks[0].MediaAssetID)
	require.Empty(t, blocks[0].MediaURL)
}

func TestNormalizeBlocksAcceptsStringAssetID(t *testing.T) {
	f := newContentFixture(t)
	asset := f.seedAsset(t, "/uploads/1/attachments/c.png")

	payload := fmt.Sprintf(`[{"blockType":"image","mediaAssetId":"%d"}]`, asset.ID)
	blocks, err := f.normalize(t, payload)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Equal(t, asset.ID, *blocks[0].MediaAssetID)
}

func TestCoerceAssetID(t *testing.T) {
	cases := []struct {
		in       interface{}
		want     uint
		supplied bool
	}{
		{float64(7), 7, true},
		{float64(0), 0, false},
		{float64(-3), 0, true},
		{float64(2.5), 0, true},
		{"12", 12, true},
		{" 12 ", 12, true},
		{"abc", 0, true},
		{"0", 0, true},
		{"", 0, false},
		{"   ", 0, false},
		{nil, 0, false},
		{true, 0, true},
	}
	for _, tc := range cases {
		id, supplied := coerceAssetID(tc.in)
		require.Equal(t, tc.want, id, "input %v", tc.in)
		require.Equal(t, tc.supplied, supplied, "input %v", tc.in)
	}
}

func TestNormalizeBlocksInvalidSuppliedAssetIDIsHardFailure(t *testing.T) {
	f := newContentFixture(t)

	for _, payload := range []string{
		`[{"blockType":"image","mediaAssetId":-3}]`,
		`[{"blockType":"image","mediaAssetId":2.5}]`,
		`[{"blockType":"image","mediaAssetId":"abc"}]`,
		`[{"blockType":"image","mediaAssetId":true}]`,
	} {
		_, err := f.normalize(t, payload)
		require.Error(t, err, "payload %s", payload)
		require.True(t, apierr.IsNotFound(err), "payload %s", payload)
	}

	// a null or zero id is no reference at all, so the block falls back
	// to its URL or is dropped
	blocks, err := f.normalize(t, `[
		{"blockType":"image","mediaAssetId":null,"mediaUrl":"https://cdn.example.com/a.png"},
		{"blockType":"image","mediaAssetId":0}
	]`)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	require.Equal(t, "https://cdn.example.com/a.png", blocks[0].MediaURL)
}

func TestComposeBodyFallback(t *testing.T) {
	textBlock := func(s string) types.ContentBlock {
		return types.ContentBlock{BlockType: types.BlockTypeText, ContentText: s}
	}
	imageBlock := types.ContentBlock{BlockType: types.BlockTypeImage, MediaURL: "https://x/y.png"}

	require.Equal(t, "client body", composeBodyFallback(nil, "client body"))
	require.Equal(t, "client body", composeBodyFallback([]types.ContentBlock{imageBlock}, "client body"))
	require.Equal(t, "a\n\nb", composeBodyFallback(
		[]types.ContentBlock{textBlock("a"), imageBlock, textBlock("b")}, "ignored"))
}
