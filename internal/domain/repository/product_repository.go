package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

// ProductRepository defines the catalog operations against the product store.
type ProductRepository interface {
	// List returns one page (1-based) of matches plus the total match count.
	List(ctx context.Context, f entity.ProductFilter, page, limit int) ([]entity.Product, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error)
	GetByTitle(ctx context.Context, title string) (*entity.Product, error)
	Create(ctx context.Context, p *entity.Product) error
	Replace(ctx context.Context, p *entity.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
