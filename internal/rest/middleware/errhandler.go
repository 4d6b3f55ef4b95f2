package middleware

import (
	"github.com/gin-gonic/gin"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/types"
)

// ErrorHandler converts errors attached to the gin context into the
// standard error envelope. Handlers call c.Error(err) and return; this
// middleware picks the last error, maps it to a status code and renders
// the response.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)

		log.Warnw("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"request_id", types.GetRequestID(c.Request.Context()),
			"error", err)

		c.AbortWithStatusJSON(status, ierr.NewErrorResponse(err))
	}
}
