package predict

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/yungbote/plantdx-backend/internal/inference/engine"
	"github.com/yungbote/plantdx-backend/internal/inference/labels"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

var (
	// ErrNotReady means the class index failed to load at startup.
	ErrNotReady = errors.New("class indices not loaded")
	ErrDecode   = errors.New("image decode failed")
)

type Prediction struct {
	ClassEN    string  `json:"class_en"`
	ClassAR    string  `json:"class_ar"`
	Confidence float64 `json:"confidence"`
	Severity   string  `json:"severity"`
}

// Service turns raw image bytes into a translated top-1 prediction.
type Service struct {
	log       *logger.Logger
	engine    engine.Engine
	index     *labels.Index
	indexErr  error
	inputSize int
}

// New keeps indexErr so /health can report it; the server still starts.
func New(log *logger.Logger, eng engine.Engine, index *labels.Index, indexErr error, inputSize int) *Service {
	if index == nil && indexErr == nil {
		indexErr = ErrNotReady
	}
	return &Service{
		log:       log.With("service", "PredictService"),
		engine:    eng,
		index:     index,
		indexErr:  indexErr,
		inputSize: inputSize,
	}
}

// Ready reports the number of classes, or why the service cannot predict.
func (s *Service) Ready() (int, error) {
	if s.indexErr != nil {
		return 0, s.indexErr
	}
	return s.index.Len(), nil
}

func (s *Service) Predict(ctx context.Context, raw []byte) (Prediction, error) {
	if s.indexErr != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrNotReady, s.indexErr)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	scores, err := s.engine.Scores(ctx, engine.Preprocess(img, s.inputSize), s.index.Len())
	if err != nil {
		return Prediction{}, fmt.Errorf("score: %w", err)
	}
	best := engine.Argmax(scores)
	className := s.index.Name(best)
	en, ar := labels.Translate(className)
	confidence := scores[best]

	s.log.Debug("prediction", "format", format, "class", className, "confidence", confidence)
	return Prediction{
		ClassEN:    en,
		ClassAR:    ar,
		Confidence: confidence,
		Severity:   Severity(confidence),
	}, nil
}

// Severity buckets a top-1 confidence.
func Severity(confidence float64) string {
	switch {
	case confidence > 0.85:
		return SeverityHigh
	case confidence > 0.65:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
