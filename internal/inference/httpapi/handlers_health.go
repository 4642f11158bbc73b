package httpapi

import (
	"net/http"

	"github.com/yungbote/plantdx-backend/internal/inference/httpapi/httputil"
	"github.com/yungbote/plantdx-backend/internal/inference/predict"
)

func handleHealth(svc *predict.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		n, err := svc.Ready()
		if err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "error",
				"message": "API is not fully initialized",
				"details": map[string]any{
					"class_indices_loaded": false,
					"error":                err.Error(),
				},
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"message":     "API is ready",
			"num_classes": n,
		})
	}
}
