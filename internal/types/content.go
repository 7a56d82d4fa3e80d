package types

import "time"

const (
	ContentTypePortfolio = "portfolio"
	ContentTypeService   = "service"

	ContentStatusDraft     = "draft"
	ContentStatusPublished = "published"

	BlockTypeText  = "text"
	BlockTypeImage = "image"
	BlockTypeVideo = "video"
)

func IsValidContentType(t string) bool {
	return t == ContentTypePortfolio || t == ContentTypeService
}

func IsValidContentStatus(s string) bool {
	return s == ContentStatusDraft || s == ContentStatusPublished
}

func IsValidBlockType(t string) bool {
	return t == BlockTypeText || t == BlockTypeImage || t == BlockTypeVideo
}

type ContentItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TenantID      uint      `gorm:"uniqueIndex:idx_content_tenant_type_slug;not null" json:"tenant_id"`
	Type          string    `gorm:"uniqueIndex:idx_content_tenant_type_slug;not null" json:"type"`
	Title         string    `gorm:"not null" json:"title"`
	Slug          string    `gorm:"uniqueIndex:idx_content_tenant_type_slug;not null" json:"slug"`
	Summary       string    `json:"summary"`
	Body          string    `json:"body"`
	Status        string    `gorm:"not null;default:draft" json:"status"`
	ThumbnailPath string    `json:"thumbnail_path"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ContentItem) TableName() string { return "content_items" }

// ContentBlock is one ordered unit of a content item's body. Blocks have
// no stable identity across edits: every save replaces the full set.
type ContentBlock struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TenantID      uint      `gorm:"not null" json:"tenant_id"`
	ContentItemID uint      `gorm:"index:idx_blocks_content;not null" json:"content_item_id"`
	BlockType     string    `gorm:"not null" json:"block_type"`
	ContentText   string    `json:"content_text"`
	MediaAssetID  *uint     `gorm:"index" json:"media_asset_id"`
	MediaURL      string    `gorm:"column:media_url" json:"media_url"`
	SortOrder     int       `gorm:"index:idx_blocks_content;not null;default:0" json:"sort_order"`
	CreatedAt     time.Time `json:"created_at"`
}

func (ContentBlock) TableName() string { return "content_blocks" }
