package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/hanbit-dev/showcase-backend/internal/platform/apierr"
	"github.com/hanbit-dev/showcase-backend/internal/types"
)

// rawBlock is one untrusted block record from the editor. MediaAssetID
// is left loose because clients send it both as a number and a string.
type rawBlock struct {
	BlockType    string      `json:"blockType"`
	ContentText  string      `json:"contentText"`
	MediaAssetID interface{} `json:"mediaAssetId"`
	MediaURL     string      `json:"mediaUrl"`
}

// coerceAssetID maps a raw mediaAssetId value to an asset id. The second
// result reports whether a reference was supplied at all: null, zero and
// blank values are no reference, while a supplied value that cannot name
// a positive integer id still counts as one — the caller must fail the
// lookup rather than drop it.
func coerceAssetID(v interface{}) (uint, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		if n == 0 {
			return 0, false
		}
		if n > 0 && n == float64(uint(n)) {
			return uint(n), true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil || id == 0 {
			return 0, true
		}
		return uint(id), true
	}
	return 0, true
}

// normalizeBlocks validates and canonicalizes a submitted block list.
//
// Authoring noise is tolerated: unknown block types, text blocks that are
// empty after trimming, and media blocks with neither an asset nor a URL
// are dropped without error. A block referencing a media asset that does
// not exist for the tenant is a hard failure — dangling references must
// never be persisted. When a block carries both an asset id and a URL,
// the asset reference wins and the URL is discarded.
//
// Output order is input order of the surviving blocks.
func (s *contentService) normalizeBlocks(ctx context.Context, tx *gorm.DB, tenantID uint, blocksJSON string) ([]types.ContentBlock, error) {
	raw := strings.TrimSpace(blocksJSON)
	if raw == "" {
		return nil, nil
	}

	var rows []rawBlock
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, apierr.Validation("block payload must be an array")
	}

	normalized := make([]types.ContentBlock, 0, len(rows))
	for _, row := range rows {
		blockType := strings.TrimSpace(row.BlockType)
		if !types.IsValidBlockType(blockType) {
			continue
		}

		contentText := strings.TrimSpace(row.ContentText)
		mediaURL := strings.TrimSpace(row.MediaURL)

		if blockType == types.BlockTypeText {
			if contentText == "" {
				continue
			}
			normalized = append(normalized, types.ContentBlock{
				BlockType:   blockType,
				ContentText: contentText,
			})
			continue
		}

		var safeAssetID *uint
		if assetID, supplied := coerceAssetID(row.MediaAssetID); supplied {
			if assetID == 0 {
				return nil, apierr.NotFound("media asset %v referenced by a block does not exist", row.MediaAssetID)
			}
			asset, err := s.mediaRepo.GetByID(ctx, tx, tenantID, assetID)
			if err != nil {
				return nil, err
			}
			if asset == nil {
				return nil, apierr.NotFound("media asset %d referenced by a block does not exist", assetID)
			}
			safeAssetID = &assetID
		}

		if safeAssetID == nil && mediaURL == "" {
			continue
		}

		block := types.ContentBlock{
			BlockType:    blockType,
			ContentText:  contentText,
			MediaAssetID: safeAssetID,
		}
		if safeAssetID == nil {
			block.MediaURL = mediaURL
		}
		normalized = append(normalized, block)
	}

	return normalized, nil
}

// composeBodyFallback keeps the plain-text body in sync with the block
// list: when any text blocks survive normalization their content replaces
// the client-supplied body, joined by blank lines in block order.
func composeBodyFallback(blocks []types.ContentBlock, bodyText string) string {
	var parts []string
	for _, b := range blocks {
		if b.BlockType != types.BlockTypeText {
			continue
		}
		text := strings.TrimSpace(b.ContentText)
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, "\n\n")
	}
	return bodyText
}
