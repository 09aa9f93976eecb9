package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/response"
)

const (
	CtxUserIDKey = "userID"
	CtxRoleKey   = "role"
)

// JWTAuth accepts the auth_token cookie or an Authorization: Bearer header,
// validates it and injects the user id and role into the context.
func JWTAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			response.Abort(c, response.Error[any](c, http.StatusUnauthorized, "missing auth token", nil))
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Abort(c, response.Error[any](c, http.StatusUnauthorized, "invalid auth token", err.Error()))
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxRoleKey, claims.Role)
		c.Next()
	}
}

// RequireRole must run after JWTAuth
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxRoleKey) != role {
			response.Abort(c, response.Error[any](c, http.StatusForbidden, "forbidden", nil))
			return
		}
		c.Next()
	}
}

func tokenFrom(c *gin.Context) string {
	if v, err := c.Cookie(helpers.AuthCookieName); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
