package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/plantdx-backend/internal/clients/huggingface"
	"github.com/yungbote/plantdx-backend/internal/clients/modelserver"
	"github.com/yungbote/plantdx-backend/internal/platform/gcp"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

type Clients struct {
	ModelServer *modelserver.Client
	// HuggingFace is nil when no API key is configured.
	HuggingFace *huggingface.Client
	// GcpVision is nil unless the vision classifier is enabled.
	GcpVision gcp.Vision
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	ms, err := modelserver.New(modelserver.Options{
		BaseURL: cfg.ModelServerURL,
		Timeout: cfg.Classifier.ModelServer.Timeout.Std(),
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init model server client: %w", err)
	}
	out := Clients{ModelServer: ms}

	if strings.TrimSpace(cfg.HuggingFaceAPIKey) != "" {
		hf, err := huggingface.New(huggingface.Options{
			BaseURL: cfg.HuggingFaceBaseURL,
			APIKey:  cfg.HuggingFaceAPIKey,
		})
		if err != nil {
			return Clients{}, fmt.Errorf("init huggingface client: %w", err)
		}
		out.HuggingFace = hf
	} else {
		log.Warn("HUGGINGFACE_API_KEY not set; hosted classifiers disabled")
	}

	if cfg.Classifier.Vision.Enabled {
		vision, err := gcp.NewVision(ctx, log, cfg.GCPCredentials)
		if err != nil {
			return Clients{}, fmt.Errorf("init vision client: %w", err)
		}
		out.GcpVision = vision
	}
	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.GcpVision != nil {
		_ = c.GcpVision.Close()
	}
}
