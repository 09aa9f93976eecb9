package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/interface/middleware"
	"github.com/oksasatya/storefront-api/pkg/helpers"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type AuthService interface {
	Register(ctx context.Context, in application.RegisterInput) (*application.AuthResult, error)
	Login(ctx context.Context, in application.LoginInput) (*application.AuthResult, error)
	ForgotPassword(ctx context.Context, in application.ForgotPasswordInput) error
	ResetPassword(ctx context.Context, token string, in application.ResetPasswordInput) error
	Me(ctx context.Context, userID string) (*entity.User, error)
}

type AuthHandler struct {
	Svc     AuthService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc AuthService, logger *logrus.Logger, cookies *helpers.Manager) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req application.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetAuthToken(c, res.Token, res.ExpiresAt)
	response.Send(c, response.Success(c, http.StatusCreated, res, "user registered", nil))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req application.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	h.Cookies.SetAuthToken(c, res.Token, res.ExpiresAt)
	response.Send(c, response.Success(c, http.StatusOK, res, "login success", nil))
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req application.ForgotPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if err := h.Svc.ForgotPassword(c.Request.Context(), req); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success[any](c, http.StatusOK, nil, "password reset link sent", nil))
}

// ResetPassword handles PUT /auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req application.ResetPasswordInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if err := h.Svc.ResetPassword(c.Request.Context(), c.Param("token"), req); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success[any](c, http.StatusOK, nil, "password has been reset", nil))
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.Svc.Me(c.Request.Context(), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, u, "current user", nil))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Send(c, response.Success[any](c, http.StatusOK, nil, "logged out", nil))
}
