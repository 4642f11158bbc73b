package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/plantdx-backend/internal/http/middleware"
	"github.com/yungbote/plantdx-backend/internal/http/views"
	"github.com/yungbote/plantdx-backend/internal/platform/apierr"
	"github.com/yungbote/plantdx-backend/internal/platform/i18n"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
	"github.com/yungbote/plantdx-backend/internal/services"
)

// ViewHandler serves the server-rendered pages. It shares the diagnosis
// flow with the JSON API.
type ViewHandler struct {
	log       *logger.Logger
	diagnoses services.DiagnosisService
	maxBytes  int64
}

func NewViewHandler(log *logger.Logger, diagnoses services.DiagnosisService, maxUploadBytes int64) *ViewHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = services.DefaultMaxUploadBytes
	}
	return &ViewHandler{
		log:       log.With("handler", "ViewHandler"),
		diagnoses: diagnoses,
		maxBytes:  maxUploadBytes,
	}
}

func (h *ViewHandler) page(c *gin.Context) views.Page {
	return views.Page{Lang: middleware.Lang(c), Path: c.Request.URL.Path}
}

// GET /
func (h *ViewHandler) Home(c *gin.Context) {
	c.HTML(http.StatusOK, views.PageHome, h.page(c))
}

// POST /diagnose
func (h *ViewHandler) Diagnose(c *gin.Context) {
	up, closer, err := readUpload(c, h.maxBytes)
	if err == nil {
		defer closer.Close()
		created, derr := h.diagnoses.Diagnose(c.Request.Context(), up)
		if derr == nil {
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/diagnoses/%d", created.ID))
			return
		}
		err = derr
	}

	ae := apierr.As(err)
	p := h.page(c)
	p.Path = "/"
	if ae.Status >= http.StatusInternalServerError {
		h.log.Error("Diagnosis from form failed", "error", err)
		p.Error = i18n.T(p.Lang, "error.internal")
	} else {
		p.Error = i18n.T(p.Lang, "error."+ae.Code)
	}
	c.HTML(ae.Status, views.PageHome, p)
}

// GET /diagnoses/:id
func (h *ViewHandler) Result(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		h.NotFound(c)
		return
	}
	d, err := h.diagnoses.Get(c.Request.Context(), id)
	if err != nil {
		if apierr.As(err).Status == http.StatusNotFound {
			h.NotFound(c)
			return
		}
		h.log.Error("Load diagnosis failed", "id", id, "error", err)
		c.String(http.StatusInternalServerError, i18n.T(middleware.Lang(c), "error.internal"))
		return
	}
	p := h.page(c)
	p.Diagnosis = d
	c.HTML(http.StatusOK, views.PageResult, p)
}

// GET /history
func (h *ViewHandler) History(c *gin.Context) {
	list, err := h.diagnoses.List(c.Request.Context())
	if err != nil {
		h.log.Error("Load history failed", "error", err)
		c.String(http.StatusInternalServerError, i18n.T(middleware.Lang(c), "error.internal"))
		return
	}
	p := h.page(c)
	p.History = list
	c.HTML(http.StatusOK, views.PageHistory, p)
}

func (h *ViewHandler) NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, views.PageNotFound, h.page(c))
}
