package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"noirstore/internal/models"
	"noirstore/internal/repository"
)

const (
	ContextUser  = "user"
	ContextToken = "token"
)

// SessionResolver maps a bearer token to its user, or nil when the session is not valid.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*models.User, error)
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "status": status, "error": msg})
}

// BearerToken extracts the token from the Authorization header. Browsers cannot
// set headers on websocket upgrades, so access_token in the query is accepted too.
func BearerToken(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		token := strings.TrimSpace(c.Query("access_token"))
		return token, token != ""
	}
	parts := strings.Fields(raw)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// AuthGuard requires a live session. With roles given, the user must hold one of them.
func AuthGuard(sessions SessionResolver, log *logrus.Entry, allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			msg := "invalid token"
			if c.GetHeader("Authorization") == "" {
				msg = "missing token"
			}
			abort(c, http.StatusUnauthorized, msg)
			return
		}

		user, err := sessions.CurrentUser(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).Error("session lookup failed")
			abort(c, http.StatusInternalServerError, "internal error")
			return
		}
		if user == nil {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		if len(allowedRoles) > 0 {
			match := false
			for _, r := range allowedRoles {
				if user.Role == r {
					match = true
					break
				}
			}
			if !match {
				abort(c, http.StatusForbidden, "forbidden")
				return
			}
		}

		c.Set(ContextUser, *user)
		c.Set(ContextToken, token)
		c.Next()
	}
}

// AdminAuth admits the back-office roles.
func AdminAuth(sessions SessionResolver, log *logrus.Entry) gin.HandlerFunc {
	return AuthGuard(sessions, log, models.RoleAdmin, models.RoleManager, models.RoleStaff)
}

// RequirePermission must run after AuthGuard.
func RequirePermission(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !repository.HasPermission(user, perm) {
			abort(c, http.StatusForbidden, "missing permission "+string(perm))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by AuthGuard.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
