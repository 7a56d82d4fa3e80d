package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
)

type BucketConfig struct {
	BucketName      string
	CredentialsFile string
	// PublicBaseURL overrides the default storage.googleapis.com base,
	// e.g. for a CDN domain or an emulator.
	PublicBaseURL string
}

// BucketProvider stores uploads as objects in a GCS bucket and persists
// their public URLs as storage paths.
type BucketProvider struct {
	log     *logger.Logger
	client  *gcs.Client
	bucket  string
	baseURL string
}

func NewBucketProvider(ctx context.Context, baseLog *logger.Logger, cfg BucketConfig) (*BucketProvider, error) {
	if strings.TrimSpace(cfg.BucketName) == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	baseURL := strings.TrimRight(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = "https://storage.googleapis.com"
	}

	log := baseLog.With("service", "BucketStorage")
	log.Info("Object storage initialized", "bucket", cfg.BucketName, "public_base_url", baseURL)

	return &BucketProvider{
		log:     log,
		client:  client,
		bucket:  cfg.BucketName,
		baseURL: baseURL,
	}, nil
}

func (p *BucketProvider) objectKey(tenantID uint, category, originalName string) string {
	return fmt.Sprintf("%d/%s/%s-%s", tenantID, category, uuid.NewString(), SafeFileName(originalName))
}

func (p *BucketProvider) publicURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", p.baseURL, p.bucket, key)
}

func (p *BucketProvider) keyFromStoragePath(storagePath string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", p.baseURL, p.bucket)
	if !strings.HasPrefix(storagePath, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(storagePath, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

func (p *BucketProvider) Upload(ctx context.Context, tenantID uint, category string, file FileUpload) (Stored, error) {
	if file.Reader == nil {
		return Stored{}, fmt.Errorf("upload file has no content")
	}

	key := p.objectKey(tenantID, category, file.OriginalName)
	w := p.client.Bucket(p.bucket).Object(key).NewWriter(ctx)
	if file.MimeType != "" {
		w.ContentType = file.MimeType
	}
	if _, err := io.Copy(w, file.Reader); err != nil {
		_ = w.Close()
		return Stored{}, fmt.Errorf("write object %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return Stored{}, fmt.Errorf("finalize object %s: %w", key, err)
	}

	p.log.Debug("Stored bucket object", "key", key, "size", file.Size)
	parts := strings.Split(key, "/")
	return Stored{
		FileName:    parts[len(parts)-1],
		StoragePath: p.publicURL(key),
	}, nil
}

// DeleteByStoragePath removes the object behind a public URL issued by
// this provider. Foreign paths and already-deleted objects are ignored.
func (p *BucketProvider) DeleteByStoragePath(ctx context.Context, storagePath string) error {
	key, ok := p.keyFromStoragePath(storagePath)
	if !ok {
		return nil
	}
	err := p.client.Bucket(p.bucket).Object(key).Delete(ctx)
	if err != nil && err != gcs.ErrObjectNotExist {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
