package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/beautyai/beautyai-api/internal/auth"
	"github.com/beautyai/beautyai-api/internal/httperr"
	"github.com/beautyai/beautyai-api/internal/models"
)

const ContextUser = "currentUser"

// AuthMiddleware resolves the bearer token to an active user.
func AuthMiddleware(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.Header("WWW-Authenticate", "Bearer")
			httperr.FromError(c, auth.ErrUnauthorized)
			return
		}

		user, err := svc.ResolveCaller(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			if httperr.KindOf(err) == httperr.KindUnauthorized {
				c.Header("WWW-Authenticate", "Bearer")
			}
			httperr.FromError(c, err)
			return
		}

		c.Set(ContextUser, user)
		c.Next()
	}
}

// CurrentUser must only be called behind AuthMiddleware.
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(ContextUser).(*models.User)
}

func RequireSuperadmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.RequireSuperadmin(CurrentUser(c)); err != nil {
			httperr.FromError(c, err)
			return
		}
		c.Next()
	}
}
