package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/contractpay-backend/internal/platform/logger"
	"github.com/yungbote/contractpay-backend/internal/services"
)

const HeaderProfileID = "profile_id"

type ProfileMiddleware struct {
	log      *logger.Logger
	profiles services.ProfileService
}

func NewProfileMiddleware(log *logger.Logger, profiles services.ProfileService) *ProfileMiddleware {
	return &ProfileMiddleware{log: log.With("Middleware", "ProfileMiddleware"), profiles: profiles}
}

// RequireProfile resolves the profile_id header to the acting profile or answers 401.
func (pm *ProfileMiddleware) RequireProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderProfileID))
		if raw == "" {
			abortUnauthorized(c, "missing profile_id header")
			return
		}
		ctx, err := pm.profiles.SetContextFromProfileID(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				abortUnauthorized(c, "unknown profile")
				return
			}
			pm.log.Error("Profile lookup failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"message": "internal error", "code": "internal"},
			})
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{"message": msg, "code": "unauthorized"},
	})
}
