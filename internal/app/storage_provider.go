package app

import (
	"context"

	"github.com/hanbit-dev/showcase-backend/internal/platform/logger"
	"github.com/hanbit-dev/showcase-backend/internal/storage"
)

// wireStorageProvider picks the file backend: bucket storage when a bucket
// name is configured, otherwise the local uploads directory.
func wireStorageProvider(ctx context.Context, log *logger.Logger, cfg Config) (storage.Provider, string, error) {
	if cfg.GCSBucketName != "" {
		log.Info("Using bucket storage", "bucket", cfg.GCSBucketName)
		provider, err := storage.NewBucketProvider(ctx, log, storage.BucketConfig{
			BucketName:      cfg.GCSBucketName,
			CredentialsFile: cfg.GCSCredentials,
			PublicBaseURL:   cfg.GCSPublicBase,
		})
		if err != nil {
			return nil, "", err
		}
		return provider, "", nil
	}

	log.Info("Using local storage", "root", cfg.UploadRoot)
	provider, err := storage.NewLocalProvider(log, cfg.UploadRoot)
	if err != nil {
		return nil, "", err
	}
	return provider, provider.Root(), nil
}
