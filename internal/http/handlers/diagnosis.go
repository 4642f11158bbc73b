package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/plantdx-backend/internal/http/response"
	"github.com/yungbote/plantdx-backend/internal/platform/apierr"
	"github.com/yungbote/plantdx-backend/internal/services"
)

const (
	uploadField = "image"
	// room for multipart boundaries and headers on top of the image itself
	multipartOverhead = 1 << 20
)

type DiagnosisHandler struct {
	diagnoses services.DiagnosisService
	maxBytes  int64
}

func NewDiagnosisHandler(diagnoses services.DiagnosisService, maxUploadBytes int64) *DiagnosisHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = services.DefaultMaxUploadBytes
	}
	return &DiagnosisHandler{diagnoses: diagnoses, maxBytes: maxUploadBytes}
}

// POST /api/diagnose
func (h *DiagnosisHandler) Diagnose(c *gin.Context) {
	up, closer, err := readUpload(c, h.maxBytes)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	defer closer.Close()

	d, err := h.diagnoses.Diagnose(c.Request.Context(), up)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, d)
}

// GET /api/diagnoses
func (h *DiagnosisHandler) List(c *gin.Context) {
	list, err := h.diagnoses.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, list)
}

// GET /api/diagnoses/:id
func (h *DiagnosisHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	d, err := h.diagnoses.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, d)
}

// parseID rejects only non-integers. Integers that can never name a record
// (zero, negative, out of int64 range) are reported as not found.
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	switch {
	case errors.Is(err, strconv.ErrRange), err == nil && id <= 0:
		return 0, apierr.NotFound(services.CodeNotFound, fmt.Errorf("diagnosis %s not found", strings.TrimSpace(raw)))
	case err != nil:
		return 0, apierr.BadRequest("invalid_id", "invalid diagnosis id %q", raw)
	}
	return id, nil
}

// readUpload pulls the image part out of a multipart request. The whole body
// is capped so oversized uploads are cut off before they are buffered.
func readUpload(c *gin.Context, maxBytes int64) (services.ImageUpload, io.Closer, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
	fh, err := c.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.ImageUpload{}, nil, apierr.BadRequest(services.CodeImageTooLarge, "image exceeds %d bytes", maxBytes)
		}
		return services.ImageUpload{}, nil, apierr.BadRequest(services.CodeInvalidImage, "no image file provided")
	}
	f, err := fh.Open()
	if err != nil {
		return services.ImageUpload{}, nil, apierr.BadRequest(services.CodeInvalidImage, "open upload: %v", err)
	}
	return services.ImageUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}
