package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

const (
	CategoryThumbnails  = "thumbnails"
	CategoryAttachments = "attachments"
)

// FileUpload is one incoming multipart file, already open for reading.
type FileUpload struct {
	OriginalName string
	MimeType     string
	Size         int64
	Reader       io.Reader
}

// Stored describes where an uploaded file ended up. StoragePath is the
// value persisted on content rows and media assets; it is either a local
// /uploads/... path or a public object URL.
type Stored struct {
	FileName    string
	StoragePath string
}

// Provider abstracts the two file backends: a local uploads directory and
// bucket object storage. Deletion at call sites is always best-effort.
type Provider interface {
	Upload(ctx context.Context, tenantID uint, category string, file FileUpload) (Stored, error)
	DeleteByStoragePath(ctx context.Context, storagePath string) error
}

// SafeFileName slugifies the base name and keeps the extension, so object
// keys and local file names never carry user-controlled path characters.
func SafeFileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	safe := slug.Make(base)
	if safe == "" {
		safe = "asset"
	}
	return safe + ext
}
