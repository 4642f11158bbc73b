package app

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/plantdx-backend/internal/platform/gcp"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
	"github.com/yungbote/plantdx-backend/internal/services"
)

var newBucketService = gcp.NewBucketService

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingBucket       StorageProviderBootstrapErrorCode = "missing_bucket"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorInvalidConfig       StorageProviderBootstrapErrorCode = "invalid_config"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf(
		"object storage bootstrap failed (code=%s mode=%q emulator_host=%q): %v",
		e.Code,
		e.Mode,
		e.EmulatorHost,
		e.Cause,
	)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// resolveImageStore builds the configured image store. The returned closer
// releases any client the store holds.
func resolveImageStore(log *logger.Logger, cfg Config) (services.ImageStore, io.Closer, error) {
	switch cfg.ImageStore {
	case services.ImageStoreGCS:
		bucket, err := resolveBucketService(log, cfg)
		if err != nil {
			return nil, nil, err
		}
		return services.NewBucketImageStore(log, bucket), bucket, nil
	default:
		store, err := services.NewLocalImageStore(log, cfg.UploadDir)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Selecting local image store", "dir", cfg.UploadDir)
		return store, nopCloser{}, nil
	}
}

func resolveBucketService(log *logger.Logger, cfg Config) (gcp.BucketService, error) {
	storageCfg := cfg.ObjectStorage
	if strings.TrimSpace(storageCfg.Credentials) == "" {
		storageCfg.Credentials = cfg.GCPCredentials
	}
	normalized, err := storageCfg.Normalize()
	if err != nil {
		classified := classifyStorageProviderBootstrapError(normalized, err)
		log.Error(
			"Object storage provider selection failed",
			"mode", normalized.Mode,
			"emulator_host", normalized.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}

	log.Info(
		"Selecting object storage provider",
		"mode", normalized.Mode,
		"mode_source", normalized.ModeSource(),
		"compatibility_fallback", normalized.CompatibilityFallback,
		"emulator_host", normalized.EmulatorHost,
		"bucket", normalized.Bucket,
	)

	bucket, err := newBucketService(log, normalized)
	if err != nil {
		classified := classifyStorageProviderBootstrapError(normalized, err)
		log.Error(
			"Object storage provider bootstrap failed",
			"mode", normalized.Mode,
			"mode_source", normalized.ModeSource(),
			"emulator_host", normalized.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", classified,
		)
		return nil, classified
	}
	return bucket, nil
}

func classifyStorageProviderBootstrapError(storageCfg gcp.ObjectStorageConfig, err error) error {
	wrap := func(code StorageProviderBootstrapErrorCode) error {
		return &StorageProviderBootstrapError{
			Code:         code,
			Mode:         string(storageCfg.Mode),
			EmulatorHost: storageCfg.EmulatorHost,
			Cause:        err,
		}
	}
	var cfgErr *gcp.ObjectStorageConfigError
	if errors.As(err, &cfgErr) {
		switch cfgErr.Code {
		case gcp.ObjectStorageConfigErrorInvalidMode:
			return wrap(StorageProviderBootstrapErrorInvalidMode)
		case gcp.ObjectStorageConfigErrorMissingBucket:
			return wrap(StorageProviderBootstrapErrorMissingBucket)
		case gcp.ObjectStorageConfigErrorMissingEmulatorHost:
			return wrap(StorageProviderBootstrapErrorMissingEmulatorHost)
		case gcp.ObjectStorageConfigErrorInvalidEmulatorHost:
			return wrap(StorageProviderBootstrapErrorInvalidEmulatorHost)
		default:
			return wrap(StorageProviderBootstrapErrorInvalidConfig)
		}
	}
	return wrap(StorageProviderBootstrapErrorConnectFailed)
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) {
		if bootstrapErr.Code != "" {
			return bootstrapErr.Code
		}
	}
	return StorageProviderBootstrapErrorConnectFailed
}
