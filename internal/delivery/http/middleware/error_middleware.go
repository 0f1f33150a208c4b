package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"natsu-gallery-backend/internal/delivery/http/response"
	"natsu-gallery-backend/pkg/apperror"
)

// InternalErrorMessage is shown for any failure that has no client-facing message.
const InternalErrorMessage = "サーバー内部エラーが発生しました。"

func ErrorHandler(log *slog.Logger) gin.HandlerFunc {
	if log == nil {
		log = slog.Default()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// Never expose internal error details to clients.
			log.Error("unhandled request error",
				"request_id", GetRequestID(c),
				"path", c.Request.URL.Path,
				"error", err,
			)
			response.Message(c, http.StatusInternalServerError, InternalErrorMessage)
			return
		}

		if appErr.Err != nil {
			log.Error("request failed",
				"request_id", GetRequestID(c),
				"path", c.Request.URL.Path,
				"status", appErr.Code,
				"error", appErr.Err,
			)
		}
		if appErr.Errors != nil {
			response.Errors(c, appErr.Code, appErr.Errors)
			return
		}
		response.Message(c, appErr.Code, appErr.Message)
	}
}
