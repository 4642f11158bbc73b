package httpapi

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/yungbote/plantdx-backend/internal/inference/httpapi/httputil"
	"github.com/yungbote/plantdx-backend/internal/inference/predict"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

var (
	errNoImage   = errors.New("no image provided")
	errBadBase64 = errors.New("invalid base64 image")
)

func handlePredict(log *logger.Logger, svc *predict.Service, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if maxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		}
		raw, err := readImage(r, maxBytes)
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.Is(err, errNoImage):
				httputil.WriteError(w, http.StatusBadRequest, "No image provided")
			case errors.As(err, &tooLarge):
				httputil.WriteError(w, http.StatusRequestEntityTooLarge, "Image too large")
			default:
				httputil.WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}

		p, err := svc.Predict(r.Context(), raw)
		if err != nil {
			log.Warn("prediction failed", "request_id", httputil.RequestIDFromContext(r.Context()), "error", err)
			msg := err.Error()
			if errors.Is(err, predict.ErrNotReady) {
				msg = "Failed to load class indices"
			}
			httputil.WriteError(w, http.StatusInternalServerError, msg)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":     "success",
			"prediction": p,
		})
	}
}

// readImage takes the multipart "file" part, else the base64 "image" form
// field (a data: URL prefix is stripped).
func readImage(r *http.Request, maxBytes int64) ([]byte, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	}

	if f, _, err := r.FormFile("file"); err == nil {
		defer f.Close()
		return io.ReadAll(f)
	}

	data := r.FormValue("image")
	if data == "" {
		return nil, errNoImage
	}
	if strings.HasPrefix(data, "data:image") {
		if _, rest, ok := strings.Cut(data, ","); ok {
			data = rest
		}
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return nil, errBadBase64
	}
	return raw, nil
}
