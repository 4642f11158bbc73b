package app

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/plantdx-backend/internal/http"
	httpH "github.com/yungbote/plantdx-backend/internal/http/handlers"
	"github.com/yungbote/plantdx-backend/internal/http/views"
	"github.com/yungbote/plantdx-backend/internal/observability"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
	"github.com/yungbote/plantdx-backend/internal/services"
)

type Handlers struct {
	Health    *httpH.HealthHandler
	Diagnosis *httpH.DiagnosisHandler
	MLStatus  *httpH.MLStatusHandler
	View      *httpH.ViewHandler
}

func wireHandlers(log *logger.Logger, cfg Config, svc Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    httpH.NewHealthHandler(),
		Diagnosis: httpH.NewDiagnosisHandler(svc.Diagnosis, cfg.MaxUploadBytes),
		MLStatus:  httpH.NewMLStatusHandler(svc.MLStatus),
		View:      httpH.NewViewHandler(log, svc.Diagnosis, cfg.MaxUploadBytes),
	}
}

func wireServer(log *logger.Logger, cfg Config, metrics *observability.Metrics, handlers Handlers) (*http.Server, error) {
	if cfg.LogMode != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	rc := http.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		Templates:        tmpl,
		CORSOrigins:      cfg.CORSOrigins,
		DiagnosisHandler: handlers.Diagnosis,
		MLStatusHandler:  handlers.MLStatus,
		ViewHandler:      handlers.View,
		HealthHandler:    handlers.Health,
	}
	if cfg.Otel.Enabled {
		rc.ServiceName = cfg.Otel.ServiceName
	}
	if cfg.ImageStore == services.ImageStoreLocal {
		rc.UploadDir = cfg.UploadDir
	}
	return http.NewServer(rc), nil
}
