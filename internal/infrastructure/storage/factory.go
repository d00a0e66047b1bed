package storage

import (
	"context"
	"fmt"

	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewFileStore builds the configured file store. S3 buckets are created on
// first start.
func NewFileStore(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (appdeal.FileStore, error) {
	switch cfg.Driver {
	case config.StorageS3:
		store, err := NewS3FileStore(cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("using S3 file store", zap.String("bucket", store.Bucket()))
		return store, nil
	case config.StorageLocal, "":
		store, err := NewLocalFileStore(cfg.LocalRoot)
		if err != nil {
			return nil, err
		}
		logger.Info("using local file store", zap.String("root", store.Root()))
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
