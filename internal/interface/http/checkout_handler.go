package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type CheckoutService interface {
	CreateSession(ctx context.Context, in application.CheckoutInput) (*application.CheckoutSession, error)
}

type CheckoutHandler struct {
	Svc    CheckoutService
	Logger *logrus.Logger
}

func NewCheckoutHandler(svc CheckoutService, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{Svc: svc, Logger: logger}
}

// CreateSession opens a hosted payment session for the posted items
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req application.CheckoutInput
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	sess, err := h.Svc.CreateSession(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, sess, "checkout session created", nil))
}
