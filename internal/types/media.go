package types

import "time"

type MediaAsset struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TenantID     uint      `gorm:"index;not null" json:"tenant_id"`
	FileName     string    `gorm:"not null" json:"file_name"`
	OriginalName string    `gorm:"not null" json:"original_name"`
	MimeType     string    `gorm:"not null" json:"mime_type"`
	FileSize     int64     `gorm:"not null" json:"file_size"`
	StoragePath  string    `gorm:"not null" json:"storage_path"`
	CreatedAt    time.Time `json:"created_at"`
}

func (MediaAsset) TableName() string { return "media_assets" }

// ContentMediaLink is the explicit attachment relation between a content
// item and a media asset. One row per (content, asset) pair.
type ContentMediaLink struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	ContentItemID uint `gorm:"uniqueIndex:idx_link_content_asset;not null" json:"content_item_id"`
	MediaAssetID  uint `gorm:"uniqueIndex:idx_link_content_asset;not null" json:"media_asset_id"`
	SortOrder     int  `gorm:"not null;default:0" json:"sort_order"`
}

func (ContentMediaLink) TableName() string { return "content_media_links" }
