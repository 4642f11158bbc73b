package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/plantdx-backend/internal/http/response"
	"github.com/yungbote/plantdx-backend/internal/platform/logger"
)

// Recovery turns a handler panic into a logged, generic 500.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		if log != nil {
			log.Error("Handler panic", "path", c.Request.URL.Path, "panic", fmt.Sprint(rec))
		}
		response.RespondError(c, http.StatusInternalServerError, "internal", fmt.Errorf("internal server error"))
		c.Abort()
	})
}
