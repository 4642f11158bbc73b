package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/plantdx-backend/internal/inference/config"
	"github.com/yungbote/plantdx-backend/internal/inference/engine"
	"github.com/yungbote/plantdx-backend/internal/inference/engine/pixelhash"
	"github.com/yungbote/plantdx-backend/internal/inference/httpapi"
	"github.com/yungbote/plantdx-backend/internal/inference/labels"
	"github.com/yungbote/plantdx-backend/internal/inference/predict"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

type App struct {
	Log    *logger.Logger
	Config *config.Config

	server *http.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	index, indexErr := loadIndex(cfg)
	if indexErr != nil {
		// stay up so /health can report the failure
		log.Error("class index load failed", "path", cfg.ClassIndicesPath, "error", indexErr)
	} else {
		log.Info("class index loaded", "classes", index.Len(), "path", cfg.ClassIndicesPath)
	}

	var eng engine.Engine
	switch cfg.Engine.Type {
	case config.EnginePixelHash:
		eng = pixelhash.New()
	default:
		return nil, fmt.Errorf("unsupported engine type %q", cfg.Engine.Type)
	}

	svc := predict.New(log, eng, index, indexErr, cfg.Engine.InputSize)
	srv := httpapi.NewServer(cfg, log, svc)

	return &App{
		Log:    log,
		Config: cfg,
		server: srv,
	}, nil
}

func loadIndex(cfg *config.Config) (*labels.Index, error) {
	if cfg.ClassIndicesPath == "" {
		return labels.PlantVillage(), nil
	}
	return labels.Load(cfg.ClassIndicesPath)
}

func (a *App) Run(ctx context.Context) error {
	defer a.Log.Sync()

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("model server listening", "addr", a.server.Addr)
		errCh <- a.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.HTTP.ShutdownTimeout.Duration)
		defer cancel()
		_ = a.server.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
