package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/yungbote/plantdx-backend/internal/platform/gcp"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
	"github.com/yungbote/plantdx-backend/internal/services"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		src  error
		want StorageProviderBootstrapErrorCode
	}{
		{&gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidMode, Value: "bad-mode"}, StorageProviderBootstrapErrorInvalidMode},
		{&gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingBucket}, StorageProviderBootstrapErrorMissingBucket},
		{&gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorMissingEmulatorHost}, StorageProviderBootstrapErrorMissingEmulatorHost},
		{&gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidEmulatorHost, Value: "fake-gcs:4443"}, StorageProviderBootstrapErrorInvalidEmulatorHost},
		{&gcp.ObjectStorageConfigError{Code: gcp.ObjectStorageConfigErrorInvalidPublicBase}, StorageProviderBootstrapErrorInvalidConfig},
		{errors.New("dial tcp: connection refused"), StorageProviderBootstrapErrorConnectFailed},
	}
	for _, tc := range cases {
		err := classifyStorageProviderBootstrapError(gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCS}, tc.src)
		var got *StorageProviderBootstrapError
		if !errors.As(err, &got) {
			t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
		}
		if got.Code != tc.want {
			t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
		}
		if !errors.Is(err, tc.src) {
			t.Fatalf("cause not preserved for %v", tc.src)
		}
	}
}

func TestResolveBucketServiceInvalidMode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ObjectStorage = gcp.ObjectStorageConfig{Mode: "invalid", Bucket: "leaf-uploads"}

	_, err := resolveBucketService(logger.NewNop(), cfg)
	if storageProviderBootstrapErrorCode(err) != StorageProviderBootstrapErrorInvalidMode {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestResolveBucketServiceMissingEmulatorHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ObjectStorage = gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCSEmulator, Bucket: "leaf-uploads"}

	_, err := resolveBucketService(logger.NewNop(), cfg)
	if storageProviderBootstrapErrorCode(err) != StorageProviderBootstrapErrorMissingEmulatorHost {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestResolveBucketServiceEmulatorMode(t *testing.T) {
	orig := newBucketService
	t.Cleanup(func() { newBucketService = orig })

	var captured gcp.ObjectStorageConfig
	expected := &testBucketService{}
	newBucketService = func(_ *logger.Logger, cfg gcp.ObjectStorageConfig) (gcp.BucketService, error) {
		captured = cfg
		return expected, nil
	}

	cfg := DefaultConfig()
	cfg.GCPCredentials = `{"type":"service_account"}`
	cfg.ObjectStorage = gcp.ObjectStorageConfig{Bucket: "leaf-uploads", EmulatorHost: "http://fake-gcs:4443/"}

	got, err := resolveBucketService(logger.NewNop(), cfg)
	if err != nil {
		t.Fatalf("resolveBucketService: %v", err)
	}
	if got != expected {
		t.Fatalf("bucket: expected stub bucket instance")
	}
	if captured.Mode != gcp.ObjectStorageModeGCSEmulator || !captured.CompatibilityFallback {
		t.Fatalf("mode: got=%q fallback=%v", captured.Mode, captured.CompatibilityFallback)
	}
	if captured.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("emulator host: got=%q", captured.EmulatorHost)
	}
	if captured.Credentials != cfg.GCPCredentials {
		t.Fatalf("credentials not inherited")
	}
}

func TestResolveImageStore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UploadDir = t.TempDir()
	store, closer, err := resolveImageStore(logger.NewNop(), cfg)
	if err != nil {
		t.Fatalf("local: %v", err)
	}
	defer closer.Close()
	img, err := store.Save(context.Background(), "a.png", "image/png", bytes.NewReader([]byte("x")))
	if err != nil || img.URL == "" {
		t.Fatalf("save: %+v %v", img, err)
	}

	orig := newBucketService
	t.Cleanup(func() { newBucketService = orig })
	newBucketService = func(*logger.Logger, gcp.ObjectStorageConfig) (gcp.BucketService, error) {
		return &testBucketService{}, nil
	}
	cfg.ImageStore = services.ImageStoreGCS
	cfg.ObjectStorage.Bucket = "leaf-uploads"
	store, closer, err = resolveImageStore(logger.NewNop(), cfg)
	if err != nil {
		t.Fatalf("gcs: %v", err)
	}
	defer closer.Close()
	img, err = store.Save(context.Background(), "a.png", "image/png", bytes.NewReader([]byte("x")))
	if err != nil || img.URL != "https://cdn.test/"+img.Key {
		t.Fatalf("gcs save: %+v %v", img, err)
	}
}

type testBucketService struct{}

func (t *testBucketService) Upload(context.Context, string, string, io.Reader) error { return nil }

func (t *testBucketService) Open(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(nil)), nil
}

func (t *testBucketService) Delete(context.Context, string) error { return nil }

func (t *testBucketService) PublicURL(key string) string { return "https://cdn.test/" + key }

func (t *testBucketService) Close() error { return nil }
