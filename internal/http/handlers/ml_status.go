package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/plantdx-backend/internal/services"
)

type MLStatusHandler struct {
	status services.MLStatusService
}

func NewMLStatusHandler(status services.MLStatusService) *MLStatusHandler {
	return &MLStatusHandler{status: status}
}

// GET /api/ml-status
func (h *MLStatusHandler) Status(c *gin.Context) {
	st := h.status.Status(c.Request.Context())
	if !st.Online {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "offline", "error": st.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "online", "modelServer": st.ModelServer})
}
