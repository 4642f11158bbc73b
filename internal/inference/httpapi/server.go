package httpapi

import (
	"net/http"

	"github.com/yungbote/plantdx-backend/internal/inference/config"
	"github.com/yungbote/plantdx-backend/internal/inference/predict"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

func NewServer(cfg *config.Config, log *logger.Logger, svc *predict.Service) *http.Server {
	h := NewHandler(cfg, log, svc)

	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           h,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
		IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
	}
}

func NewHandler(cfg *config.Config, log *logger.Logger, svc *predict.Service) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handleHealth(svc))
	mux.HandleFunc("POST /predict", handlePredict(log, svc, cfg.HTTP.MaxRequestBytes))

	var h http.Handler = mux
	h = recoverMiddleware(log)(h)
	h = accessLogMiddleware(log)(h)
	h = requestIDMiddleware()(h)
	h = corsMiddleware()(h)

	return h
}
