package middleware

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/gin-gonic/gin"
	"github.com/invomate/invomate/internal/config"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/types"
)

// APIKeyAuth authenticates requests by api key. Keys are compared by their
// sha256 so config never holds them in plain text. On success the owning
// tenant and user are placed in the request context.
func APIKeyAuth(cfg *config.Configuration, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader(types.HeaderAPIKey)
		if apiKey == "" {
			c.Error(ierr.NewError("missing api key").
				WithHint("An API key is required").
				Mark(ierr.ErrPermissionDenied))
			c.Abort()
			return
		}

		hash := sha256.Sum256([]byte(apiKey))
		details, ok := cfg.Auth.APIKeys[hex.EncodeToString(hash[:])]
		if !ok {
			log.Warnw("rejected unknown api key", "path", c.Request.URL.Path)
			c.Error(ierr.NewError("invalid api key").
				WithHint("The API key is not valid").
				Mark(ierr.ErrPermissionDenied))
			c.Abort()
			return
		}

		ctx := types.SetTenantID(c.Request.Context(), details.TenantID)
		ctx = types.SetUserID(ctx, details.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
