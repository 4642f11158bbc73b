package services

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/plantdx-backend/internal/clients/modelserver"
	"github.com/yungbote/plantdx-backend/internal/observability"
	"github.com/yungbote/plantdx-backend/internal/pkg/httpx"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

type HealthProber interface {
	Health(ctx context.Context) (*modelserver.Health, error)
}

type MLStatus struct {
	Online      bool
	ModelServer *modelserver.Health
	Error       string
}

// MLStatusService probes the model server. Concurrent probes share one
// upstream call.
type MLStatusService interface {
	Status(ctx context.Context) MLStatus
}

type mlStatusService struct {
	log     *logger.Logger
	prober  HealthProber
	metrics *observability.Metrics
	timeout time.Duration
	group   singleflight.Group
}

func NewMLStatusService(log *logger.Logger, prober HealthProber, metrics *observability.Metrics, timeout time.Duration) MLStatusService {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &mlStatusService{
		log:     log.With("service", "MLStatusService"),
		prober:  prober,
		metrics: metrics,
		timeout: timeout,
	}
}

func (s *mlStatusService) Status(ctx context.Context) MLStatus {
	ch := s.group.DoChan("model-server-health", func() (interface{}, error) {
		// shared by every waiter, so not bound to the first caller's request
		probeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.probe(probeCtx), nil
	})
	select {
	case res := <-ch:
		return res.Val.(MLStatus)
	case <-ctx.Done():
		return MLStatus{Error: ctx.Err().Error()}
	}
}

func (s *mlStatusService) probe(ctx context.Context) MLStatus {
	if s.prober == nil {
		s.metrics.SetModelServerUp(false)
		return MLStatus{Error: "model server not configured"}
	}
	h, err := s.prober.Health(ctx)
	if err != nil {
		// outages are expected while the model server restarts; anything
		// else (bad URL, 4xx) is a misconfiguration
		if httpx.IsTransient(err) {
			s.log.Warn("Model server health probe failed", "error", err)
		} else {
			s.log.Error("Model server health probe rejected", "error", err)
		}
		s.metrics.SetModelServerUp(false)
		return MLStatus{Error: err.Error()}
	}
	s.metrics.SetModelServerUp(true)
	return MLStatus{Online: true, ModelServer: h}
}
