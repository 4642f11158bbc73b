package classifier

import (
	"context"
	"errors"

	"github.com/yungbote/plantdx-backend/internal/clients/huggingface"
	"github.com/yungbote/plantdx-backend/internal/clients/modelserver"
	"github.com/yungbote/plantdx-backend/internal/platform/gcp"
)

const (
	ModelServerName = "model_server"
	VisionName      = "gcp_vision"

	HFViTModel   = "google/vit-base-patch16-224"
	HFPlantModel = "merve/plant-disease-classification"
)

type predictor interface {
	Predict(ctx context.Context, image []byte, filename, contentType string) (*modelserver.Prediction, error)
}

type modelServerClassifier struct {
	client predictor
}

// NewModelServer classifies through the sibling model server's /predict.
func NewModelServer(client predictor) Classifier {
	return &modelServerClassifier{client: client}
}

func (m *modelServerClassifier) Name() string { return ModelServerName }

func (m *modelServerClassifier) Classify(ctx context.Context, img Image) ([]Label, error) {
	p, err := m.client.Predict(ctx, img.Data, img.Filename, img.ContentType)
	if err != nil {
		return nil, err
	}
	if p == nil || p.ClassEN == "" {
		return nil, errors.New("model server returned an empty prediction")
	}
	return []Label{{Text: p.ClassEN, Score: p.Confidence}}, nil
}

type hfClassifier interface {
	Classify(ctx context.Context, model string, image []byte) ([]huggingface.Prediction, error)
}

type huggingFaceClassifier struct {
	client hfClassifier
	model  string
	name   string
}

// NewHuggingFace classifies with one hosted inference model. The classifier
// name is derived from the model id, e.g. "hf:google/vit-base-patch16-224".
func NewHuggingFace(client hfClassifier, model string) Classifier {
	return &huggingFaceClassifier{client: client, model: model, name: "hf:" + model}
}

func (h *huggingFaceClassifier) Name() string { return h.name }

func (h *huggingFaceClassifier) Classify(ctx context.Context, img Image) ([]Label, error) {
	preds, err := h.client.Classify(ctx, h.model, img.Data)
	if err != nil {
		return nil, err
	}
	out := make([]Label, 0, len(preds))
	for _, p := range preds {
		out = append(out, Label{Text: p.Label, Score: p.Score})
	}
	return out, nil
}

type visionClassifier struct {
	vision     gcp.Vision
	maxResults int
}

// NewVision classifies with Cloud Vision label detection.
func NewVision(v gcp.Vision) Classifier {
	return &visionClassifier{vision: v, maxResults: 10}
}

func (v *visionClassifier) Name() string { return VisionName }

func (v *visionClassifier) Classify(ctx context.Context, img Image) ([]Label, error) {
	labels, err := v.vision.DetectLabels(ctx, img.Data, v.maxResults)
	if err != nil {
		return nil, err
	}
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		out = append(out, Label{Text: l.Description, Score: l.Score})
	}
	return out, nil
}
