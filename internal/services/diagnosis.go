package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/yungbote/plantdx-backend/internal/data/repos"
	types "github.com/yungbote/plantdx-backend/internal/domain"
	"github.com/yungbote/plantdx-backend/internal/domain/diagnosis"
	"github.com/yungbote/plantdx-backend/internal/observability"
	"github.com/yungbote/plantdx-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/plantdx-backend/internal/pkg/errors"
	"github.com/yungbote/plantdx-backend/internal/platform/apierr"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
	"github.com/yungbote/plantdx-backend/internal/services/classifier"
)

const DefaultMaxUploadBytes int64 = 5 << 20

// Upload rejection codes.
const (
	CodeInvalidImage         = "invalid_image"
	CodeImageTooLarge        = "image_too_large"
	CodeUnsupportedImageType = "unsupported_image_type"
	CodeInvalidDiagnosis     = "invalid_diagnosis"
	CodeNotFound             = "not_found"
)

var allowedImageTypes = []string{"image/jpeg", "image/png"}

// ImageUpload is an incoming photo. Size is the declared length, or -1 when
// unknown; the body is still read with a hard limit.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageClassifier turns image bytes into a disease identification. It never
// fails; total failure yields the fallback entry.
type ImageClassifier interface {
	Classify(ctx context.Context, img classifier.Image) classifier.Result
}

type DiagnosisService interface {
	Diagnose(ctx context.Context, up ImageUpload) (*types.Diagnosis, error)
	List(ctx context.Context) ([]*types.Diagnosis, error)
	Get(ctx context.Context, id int64) (*types.Diagnosis, error)
}

type DiagnosisServiceOptions struct {
	MaxUploadBytes int64
}

type diagnosisService struct {
	log        *logger.Logger
	repo       repos.DiagnosisRepo
	images     ImageStore
	classifier ImageClassifier
	metrics    *observability.Metrics
	maxBytes   int64
}

func NewDiagnosisService(
	log *logger.Logger,
	repo repos.DiagnosisRepo,
	images ImageStore,
	imageClassifier ImageClassifier,
	metrics *observability.Metrics,
	opts DiagnosisServiceOptions,
) DiagnosisService {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &diagnosisService{
		log:        log.With("service", "DiagnosisService"),
		repo:       repo,
		images:     images,
		classifier: imageClassifier,
		metrics:    metrics,
		maxBytes:   opts.MaxUploadBytes,
	}
}

func (s *diagnosisService) Diagnose(ctx context.Context, up ImageUpload) (*types.Diagnosis, error) {
	data, contentType, err := s.readImage(up)
	if err != nil {
		if ae := apierr.As(err); ae.Status < 500 {
			s.metrics.IncUploadRejected(ae.Code)
		}
		return nil, err
	}

	stored, err := s.images.Save(ctx, up.Filename, contentType, bytes.NewReader(data))
	if err != nil {
		s.log.Error("Failed to store upload", "error", err)
		return nil, apierr.Internal(fmt.Errorf("store image: %w", err))
	}

	res := s.classifier.Classify(ctx, classifier.Image{
		Data:        data,
		ContentType: contentType,
		Filename:    up.Filename,
	})

	created, err := s.repo.Create(dbctx.Context{Ctx: ctx}, res.Input(stored.URL))
	if err != nil {
		s.discard(ctx, stored)
		var verr *diagnosis.ValidationError
		if errors.As(err, &verr) {
			return nil, apierr.New(http.StatusBadRequest, CodeInvalidDiagnosis, err)
		}
		s.log.Error("Failed to persist diagnosis", "error", err, "image_url", stored.URL)
		return nil, apierr.Internal(fmt.Errorf("persist diagnosis: %w", err))
	}

	s.metrics.IncDiagnosisCreated(created.Classifier, string(created.Severity))
	s.log.Info("Diagnosis created",
		"id", created.ID,
		"classifier", created.Classifier,
		"label", created.Label,
		"severity", string(created.Severity),
	)
	return created, nil
}

// discard removes an upload whose diagnosis could not be saved.
func (s *diagnosisService) discard(ctx context.Context, img StoredImage) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.images.Delete(ctx, img.Key); err != nil {
		s.log.Warn("Failed to remove orphaned upload", "key", img.Key, "error", err)
	}
}

// readImage enforces the size limit and sniffs the content; the declared
// content type is never trusted on its own.
func (s *diagnosisService) readImage(up ImageUpload) ([]byte, string, error) {
	if up.Body == nil {
		return nil, "", apierr.BadRequest(CodeInvalidImage, "no image uploaded")
	}
	if up.Size > s.maxBytes {
		return nil, "", apierr.BadRequest(CodeImageTooLarge, "image exceeds %d bytes", s.maxBytes)
	}
	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxBytes+1))
	if err != nil {
		return nil, "", apierr.BadRequest(CodeInvalidImage, "read image: %v", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, "", apierr.BadRequest(CodeImageTooLarge, "image exceeds %d bytes", s.maxBytes)
	}
	if len(data) == 0 {
		return nil, "", apierr.BadRequest(CodeInvalidImage, "image is empty")
	}
	mt := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if mt.Is(allowed) {
			return data, allowed, nil
		}
	}
	return nil, "", apierr.BadRequest(CodeUnsupportedImageType, "unsupported image type %q", mt.String())
}

func (s *diagnosisService) List(ctx context.Context) ([]*types.Diagnosis, error) {
	out, err := s.repo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list diagnoses: %w", err))
	}
	return out, nil
}

func (s *diagnosisService) Get(ctx context.Context, id int64) (*types.Diagnosis, error) {
	d, err := s.repo.Get(dbctx.Context{Ctx: ctx}, id)
	if errors.Is(err, pkgerrors.ErrNotFound) {
		return nil, apierr.NotFound(CodeNotFound, fmt.Errorf("diagnosis %d not found", id))
	}
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("get diagnosis %d: %w", id, err))
	}
	return d, nil
}
