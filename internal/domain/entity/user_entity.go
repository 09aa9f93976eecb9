package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the authorization role assigned at registration
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the aggregate root for accounts and their embedded cart.
// Password holds a bcrypt hash and is never serialized to clients; the reset
// fields hold a SHA-256 digest of the emailed token and its absolute expiry.
type User struct {
	ID                  primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	FirstName           string             `json:"firstName" bson:"firstName"`
	LastName            string             `json:"lastName" bson:"lastName"`
	Email               string             `json:"email" bson:"email"`
	Password            string             `json:"-" bson:"password"`
	Role                Role               `json:"role" bson:"role"`
	Cart                []CartItem         `json:"cart" bson:"cart"`
	ResetPasswordToken  string             `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time         `json:"-" bson:"resetPasswordExpire,omitempty"`
}

// CartItem is one (product, color variant, quantity) line in a user's cart
type CartItem struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	ColorID   primitive.ObjectID `json:"colorId" bson:"colorId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// RoleForEmail returns admin only for an exact match with the configured admin address
func RoleForEmail(email, adminEmail string) Role {
	if adminEmail != "" && email == adminEmail {
		return RoleAdmin
	}
	return RoleUser
}

// FindCartItem returns the line with the given id, or nil
func (u *User) FindCartItem(id primitive.ObjectID) *CartItem {
	for i := range u.Cart {
		if u.Cart[i].ID == id {
			return &u.Cart[i]
		}
	}
	return nil
}
