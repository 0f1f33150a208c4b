package middleware

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"natsu-gallery-backend/internal/delivery/http/response"
	"natsu-gallery-backend/pkg/security"
)

// Recovery turns a panic into a generic 500. The stack goes to the server log only.
func Recovery(log *slog.Logger, secLog *security.SecurityLogger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			"request_id", GetRequestID(c),
			"path", c.Request.URL.Path,
			"panic", fmt.Sprint(recovered),
			"stack", string(debug.Stack()),
		)
		secLog.LogServerError(c.Request.Context(), RequestMeta(c), c.Request.URL.Path)

		response.Message(c, http.StatusInternalServerError, InternalErrorMessage)
		c.Abort()
	})
}
