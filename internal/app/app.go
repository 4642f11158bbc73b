package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/yungbote/plantdx-backend/internal/http"
	"github.com/yungbote/plantdx-backend/internal/observability"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *http.Server

	otelShutdown func(context.Context) error
}

func New(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	a := &App{Log: log, Cfg: cfg, Metrics: observability.NewMetrics()}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)

	var err error
	if a.Clients, err = wireClients(ctx, log, cfg); err != nil {
		a.Close()
		return nil, err
	}
	if a.Repos, err = wireRepos(ctx, log, cfg); err != nil {
		a.Close()
		return nil, err
	}
	if a.Services, err = wireServices(log, cfg, a.Metrics, a.Clients, a.Repos); err != nil {
		a.Close()
		return nil, err
	}
	handlers := wireHandlers(log, cfg, a.Services)
	if a.Server, err = wireServer(log, cfg, a.Metrics, handlers); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Run serves until ctx ends or SIGINT/SIGTERM arrives, then drains in-flight
// requests for up to ShutdownTimeout.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return errors.New("app not initialized")
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort("", a.Cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("Server listening", "addr", addr)
		errCh <- a.Server.Run(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.Log.Info("Shutting down", "timeout", a.Cfg.ShutdownTimeout.Std().String())
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.Cfg.ShutdownTimeout.Std())
	defer cancel()
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Services.Close()
	a.Repos.Close()
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout.Std())
		defer cancel()
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
