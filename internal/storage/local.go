package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
)

const localPublicPrefix = "/uploads/"

// LocalProvider writes uploads under a root directory and hands out
// /uploads/... paths. Used when no bucket is configured.
type LocalProvider struct {
	log  *logger.Logger
	root string
}

func NewLocalProvider(baseLog *logger.Logger, root string) (*LocalProvider, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve upload root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}
	return &LocalProvider{
		log:  baseLog.With("service", "LocalStorage"),
		root: abs,
	}, nil
}

func (p *LocalProvider) Upload(ctx context.Context, tenantID uint, category string, file FileUpload) (Stored, error) {
	if file.Reader == nil {
		return Stored{}, fmt.Errorf("upload file has no content")
	}

	fileName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), SafeFileName(file.OriginalName))
	dir := filepath.Join(p.root, fmt.Sprintf("%d", tenantID), category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Stored{}, fmt.Errorf("create upload dir: %w", err)
	}

	dst := filepath.Join(dir, fileName)
	out, err := os.Create(dst)
	if err != nil {
		return Stored{}, fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	if _, err := out.ReadFrom(file.Reader); err != nil {
		return Stored{}, fmt.Errorf("write upload file: %w", err)
	}

	storagePath := localPublicPrefix + fmt.Sprintf("%d/%s/%s", tenantID, category, fileName)
	p.log.Debug("Stored local upload", "path", storagePath, "size", file.Size)
	return Stored{FileName: fileName, StoragePath: storagePath}, nil
}

// DeleteByStoragePath removes the file behind a /uploads/... path. Paths
// outside the upload root are ignored, as are missing files.
func (p *LocalProvider) DeleteByStoragePath(ctx context.Context, storagePath string) error {
	if !strings.HasPrefix(storagePath, localPublicPrefix) {
		return nil
	}
	rel := strings.TrimPrefix(storagePath, localPublicPrefix)
	abs := filepath.Join(p.root, filepath.FromSlash(rel))
	abs = filepath.Clean(abs)
	if !strings.HasPrefix(abs, p.root+string(filepath.Separator)) {
		return nil
	}
	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Root returns the absolute uploads directory, for static file serving.
func (p *LocalProvider) Root() string { return p.root }
