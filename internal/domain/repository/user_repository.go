package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

// UserRepository defines the account operations against the user store.
type UserRepository interface {
	// Create returns ErrDuplicate when the email is already taken.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetResetToken(ctx context.Context, id primitive.ObjectID, digest string, expire time.Time) error
	// ResetPassword atomically swaps in passwordHash for the user whose token digest
	// matches and has not expired at now, clearing the token. ErrNotFound otherwise.
	ResetPassword(ctx context.Context, digest, passwordHash string, now time.Time) (*entity.User, error)
}

// CartRepository manipulates the cart embedded in a user document.
// Every method returns ErrNotFound when the user does not exist.
type CartRepository interface {
	GetCart(ctx context.Context, userID primitive.ObjectID) ([]entity.CartItem, error)
	// AddItem merges item into the line with the same product and color, or appends it.
	AddItem(ctx context.Context, userID primitive.ObjectID, item entity.CartItem) error
	// UpdateItemQuantity returns ErrCartItemNotFound when the line does not exist.
	UpdateItemQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*entity.CartItem, error)
	// RemoveItem returns ErrCartItemNotFound when the line does not exist.
	RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) ([]entity.CartItem, error)
}
