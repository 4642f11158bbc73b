package gcp

import (
	"context"
	"fmt"
	"strings"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

// Label is one label annotation with its score in [0,1].
type Label struct {
	Description string
	Score       float64
}

type Vision interface {
	DetectLabels(ctx context.Context, image []byte, maxResults int) ([]Label, error)
	Close() error
}

type visionService struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient
}

func NewVision(ctx context.Context, log *logger.Logger, credentials string) (Vision, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := vision.NewImageAnnotatorClient(ctx, ClientOptions(credentials)...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &visionService{log: log.With("service", "gcp.Vision"), client: c}, nil
}

func (s *visionService) DetectLabels(ctx context.Context, image []byte, maxResults int) ([]Label, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image: &visionpb.Image{Content: image},
			Features: []*visionpb.Feature{{
				Type:       visionpb.Feature_LABEL_DETECTION,
				MaxResults: int32(maxResults),
			}},
		}},
	}
	resp, err := s.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("label detection: %w", err)
	}
	if len(resp.GetResponses()) == 0 {
		return nil, fmt.Errorf("label detection: empty response")
	}
	r := resp.GetResponses()[0]
	if e := r.GetError(); e != nil && e.GetCode() != 0 {
		return nil, fmt.Errorf("label detection: %s", strings.TrimSpace(e.GetMessage()))
	}

	out := make([]Label, 0, len(r.GetLabelAnnotations()))
	for _, a := range r.GetLabelAnnotations() {
		desc := strings.TrimSpace(a.GetDescription())
		if desc == "" {
			continue
		}
		out = append(out, Label{Description: desc, Score: float64(a.GetScore())})
	}
	s.log.Debug("labels detected", "count", len(out))
	return out, nil
}

func (s *visionService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
