package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/pkg/response"
)

type CartService interface {
	GetUser(ctx context.Context, id string) (*entity.User, error)
	GetCart(ctx context.Context, userID string) ([]entity.CartItem, error)
	AddItems(ctx context.Context, userID string, items []application.AddCartItemInput) ([]entity.CartItem, error)
	UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*entity.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) ([]entity.CartItem, error)
}

// UserHandler serves user lookups and the embedded cart
type UserHandler struct {
	Svc    CartService
	Logger *logrus.Logger
}

func NewUserHandler(svc CartService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.Svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, u, "user fetched", nil))
}

func (h *UserHandler) GetCart(c *gin.Context) {
	cart, err := h.Svc.GetCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, cart, "cart fetched", nil))
}

// AddItems accepts a JSON array of items or a single item object
func (h *UserHandler) AddItems(c *gin.Context) {
	items, err := decodeCartItems(c.Request.Body)
	if err != nil {
		writeBindError(c, err)
		return
	}
	cart, err := h.Svc.AddItems(c.Request.Context(), c.Param("id"), items)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, cart, "cart updated", nil))
}

func (h *UserHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	item, err := h.Svc.UpdateQuantity(c.Request.Context(), c.Param("id"), c.Param("cartItemId"), *req.Quantity)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, item, "cart item updated", nil))
}

func (h *UserHandler) RemoveItem(c *gin.Context) {
	cart, err := h.Svc.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("cartItemId"))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, cart, "cart item removed", nil))
}

func decodeCartItems(r io.Reader) ([]application.AddCartItemInput, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '{' {
		var one application.AddCartItemInput
		if err := json.Unmarshal(body, &one); err != nil {
			return nil, err
		}
		return []application.AddCartItemInput{one}, nil
	}
	var items []application.AddCartItemInput
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}
