package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/validation"
)

type CartService struct {
	Users  repo.UserRepository
	Carts  repo.CartRepository
	Logger *logrus.Logger
}

func NewCartService(users repo.UserRepository, carts repo.CartRepository, logger *logrus.Logger) *CartService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CartService{Users: users, Carts: carts, Logger: logger}
}

// AddCartItemInput is one entry of an add-to-cart batch. Quantity defaults to 1.
type AddCartItemInput struct {
	ProductID string `json:"productId" binding:"required,objectid"`
	ColorID   string `json:"colorId" binding:"required,objectid"`
	Quantity  *int   `json:"quantity"`
}

func (s *CartService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	oid, err := parseID(id, "user id")
	if err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, oid)
	if err != nil {
		return nil, s.mapErr(err, "get user failed")
	}
	return u, nil
}

func (s *CartService) GetCart(ctx context.Context, userID string) ([]entity.CartItem, error) {
	oid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	cart, err := s.Carts.GetCart(ctx, oid)
	if err != nil {
		return nil, s.mapErr(err, "get cart failed")
	}
	return cart, nil
}

// AddItems validates the whole batch, then merges each entry into the cart.
// Entries for a (product, color) already in the cart add to its quantity.
func (s *CartService) AddItems(ctx context.Context, userID string, items []AddCartItemInput) ([]entity.CartItem, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	lines, err := normalizeCartItems(items)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if err := s.Carts.AddItem(ctx, uid, line); err != nil {
			return nil, s.mapErr(err, "add cart item failed")
		}
		cartItemsAdded.Add(1)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "items": len(lines)}).Info("cart items added")

	cart, err := s.Carts.GetCart(ctx, uid)
	if err != nil {
		return nil, s.mapErr(err, "reload cart failed")
	}
	return cart, nil
}

func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*entity.CartItem, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	iid, err := parseID(itemID, "cart item id")
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, invalid("invalid quantity", map[string]string{"quantity": "must be an integer of at least 1"})
	}
	item, err := s.Carts.UpdateItemQuantity(ctx, uid, iid, quantity)
	if err != nil {
		return nil, s.mapErr(err, "update cart item failed")
	}
	return item, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) ([]entity.CartItem, error) {
	uid, err := parseID(userID, "user id")
	if err != nil {
		return nil, err
	}
	iid, err := parseID(itemID, "cart item id")
	if err != nil {
		return nil, err
	}
	cart, err := s.Carts.RemoveItem(ctx, uid, iid)
	if err != nil {
		return nil, s.mapErr(err, "remove cart item failed")
	}
	return cart, nil
}

func (s *CartService) mapErr(err error, msg string) error {
	switch {
	case errors.Is(err, repo.ErrCartItemNotFound):
		return ErrCartItemNotFound
	case errors.Is(err, repo.ErrNotFound):
		return ErrUserNotFound
	}
	s.Logger.WithError(err).Error(msg)
	return err
}

func normalizeCartItems(items []AddCartItemInput) ([]entity.CartItem, error) {
	if len(items) == 0 {
		return nil, invalid("invalid cart items", map[string]string{"items": "at least one item is required"})
	}
	lines := make([]entity.CartItem, 0, len(items))
	for i, in := range items {
		if err := validation.Struct(in); err != nil {
			details := map[string]string{}
			for k, v := range validation.ToDetails(err) {
				details[fmt.Sprintf("items[%d].%s", i, k)] = v
			}
			return nil, invalid("invalid cart items", details)
		}
		pid, _ := primitive.ObjectIDFromHex(in.ProductID)
		cid, _ := primitive.ObjectIDFromHex(in.ColorID)
		qty := 1
		if in.Quantity != nil && *in.Quantity > 1 {
			qty = *in.Quantity
		}
		lines = append(lines, entity.CartItem{
			ID:        primitive.NewObjectID(),
			ProductID: pid,
			ColorID:   cid,
			Quantity:  qty,
		})
	}
	return lines, nil
}
