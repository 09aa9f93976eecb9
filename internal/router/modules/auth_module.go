package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/storefront-api/internal/interface/http"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/auth")
	g.POST("/signup", m.Handler.Signup)
	g.POST("/login", m.Handler.Login)
	g.POST("/logout", m.Handler.Logout)
	g.POST("/forgot-password", m.Handler.ForgotPassword)
	g.PUT("/reset-password/:token", m.Handler.ResetPassword)

	// Protected
	g.GET("/me", middleware.JWTAuth(m.JWT), m.Handler.Me)
}
