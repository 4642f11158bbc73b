package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/plantdx-backend/internal/platform/gcp"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

const (
	ImageStoreLocal = "local"
	ImageStoreGCS   = "gcs"

	UploadsURLPrefix = "/uploads/"
)

// StoredImage identifies a saved upload. Key is store-relative; URL is what
// gets persisted on the diagnosis.
type StoredImage struct {
	Key string
	URL string
}

type ImageStore interface {
	Save(ctx context.Context, originalName, contentType string, r io.Reader) (StoredImage, error)
	Delete(ctx context.Context, key string) error
}

// imageKey names an upload "<unix-nanos>-<uuid><ext>". The extension follows
// the sniffed content type; the client filename only counts when the type is
// unknown.
func imageKey(originalName, contentType string, now time.Time) string {
	return fmt.Sprintf("%d-%s%s", now.UnixNano(), uuid.NewString(), imageExt(originalName, contentType))
}

func imageExt(originalName, contentType string) string {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	}
	switch strings.ToLower(filepath.Ext(originalName)) {
	case ".jpg", ".jpeg":
		return ".jpg"
	case ".png":
		return ".png"
	}
	return ""
}

type localImageStore struct {
	log *logger.Logger
	dir string
	now func() time.Time
}

// NewLocalImageStore writes uploads under dir; they are served back from
// UploadsURLPrefix.
func NewLocalImageStore(log *logger.Logger, dir string) (ImageStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localImageStore{
		log: log.With("service", "LocalImageStore"),
		dir: dir,
		now: time.Now,
	}, nil
}

func (s *localImageStore) Save(ctx context.Context, originalName, contentType string, r io.Reader) (StoredImage, error) {
	if err := ctx.Err(); err != nil {
		return StoredImage{}, err
	}
	key := imageKey(originalName, contentType, s.now())
	full := filepath.Join(s.dir, key)
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return StoredImage{}, fmt.Errorf("create temp upload: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return StoredImage{}, fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return StoredImage{}, fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmpName, full); err != nil {
		_ = os.Remove(tmpName)
		return StoredImage{}, fmt.Errorf("finalize upload: %w", err)
	}
	s.log.Debug("Stored upload", "key", key)
	return StoredImage{Key: key, URL: UploadsURLPrefix + key}, nil
}

func (s *localImageStore) Delete(ctx context.Context, key string) error {
	name := path.Base(strings.TrimSpace(key))
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("invalid upload key %q", key)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

type bucketImageStore struct {
	log    *logger.Logger
	bucket gcp.BucketService
	now    func() time.Time
}

// NewBucketImageStore writes uploads to object storage and records their
// public URL. Key prefixing is left to the bucket config.
func NewBucketImageStore(log *logger.Logger, bucket gcp.BucketService) ImageStore {
	return &bucketImageStore{
		log:    log.With("service", "BucketImageStore"),
		bucket: bucket,
		now:    time.Now,
	}
}

func (s *bucketImageStore) Save(ctx context.Context, originalName, contentType string, r io.Reader) (StoredImage, error) {
	key := imageKey(originalName, contentType, s.now())
	if err := s.bucket.Upload(ctx, key, contentType, r); err != nil {
		return StoredImage{}, fmt.Errorf("upload image: %w", err)
	}
	s.log.Debug("Stored upload", "key", key)
	return StoredImage{Key: key, URL: s.bucket.PublicURL(key)}, nil
}

func (s *bucketImageStore) Delete(ctx context.Context, key string) error {
	return s.bucket.Delete(ctx, key)
}
