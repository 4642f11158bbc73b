package http

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/plantdx-backend/internal/http/handlers"
	httpMW "github.com/yungbote/plantdx-backend/internal/http/middleware"
	"github.com/yungbote/plantdx-backend/internal/http/response"
	"github.com/yungbote/plantdx-backend/internal/observability"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	Templates   *template.Template
	CORSOrigins []string
	// ServiceName enables otelgin spans when non-empty.
	ServiceName string
	// UploadDir is served under /uploads when set.
	UploadDir string

	DiagnosisHandler *httpH.DiagnosisHandler
	MLStatusHandler  *httpH.MLStatusHandler
	ViewHandler      *httpH.ViewHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, "/metrics"))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))
	r.Use(httpMW.AttachRequestContext())
	if cfg.Templates != nil {
		r.SetHTMLTemplate(cfg.Templates)
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}
	if cfg.UploadDir != "" {
		r.Static("/uploads", cfg.UploadDir)
	}

	api := r.Group("/api")
	{
		if cfg.DiagnosisHandler != nil {
			api.POST("/diagnose", cfg.DiagnosisHandler.Diagnose)
			api.GET("/diagnoses", cfg.DiagnosisHandler.List)
			api.GET("/diagnoses/:id", cfg.DiagnosisHandler.Get)
		}
		if cfg.MLStatusHandler != nil {
			api.GET("/ml-status", cfg.MLStatusHandler.Status)
		}
	}

	// Views
	if cfg.ViewHandler != nil && cfg.Templates != nil {
		r.GET("/", cfg.ViewHandler.Home)
		r.POST("/diagnose", cfg.ViewHandler.Diagnose)
		r.GET("/diagnoses/:id", cfg.ViewHandler.Result)
		r.GET("/history", cfg.ViewHandler.History)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || cfg.ViewHandler == nil || cfg.Templates == nil {
			response.RespondError(c, http.StatusNotFound, "not_found", errNoRoute)
			return
		}
		cfg.ViewHandler.NotFound(c)
	})

	return r
}
