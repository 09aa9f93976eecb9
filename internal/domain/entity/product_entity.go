package entity

import (
	"math"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ColorVariant is one purchasable color option with its own image set.
// Cart items reference a variant by its ID.
type ColorVariant struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	Color        string             `json:"color" bson:"color"`
	MainImage    string             `json:"mainImage" bson:"mainImage"`
	HoverImage   string             `json:"hoverImage" bson:"hoverImage"`
	DetailImages []string           `json:"detailImages" bson:"detailImages"`
}

// Product is a catalog entry. Optional text fields and OldPrice/DiscountPercent
// are nil when unset and serialize as null.
type Product struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	Designer         string             `json:"designer" bson:"designer"`
	ProductType      string             `json:"productType" bson:"productType"`
	ColorVariants    []ColorVariant     `json:"colorVariants" bson:"colorVariants"`
	Dimensions       *string            `json:"dimensions" bson:"dimensions"`
	Material         *string            `json:"material" bson:"material"`
	Colors           *string            `json:"colors" bson:"colors"`
	Currency         string             `json:"currency" bson:"currency"`
	Price            float64            `json:"price" bson:"price"`
	OldPrice         *float64           `json:"oldPrice" bson:"oldPrice"`
	DiscountPercent  *float64           `json:"discountPercent" bson:"discountPercent"`
	Rating           float64            `json:"rating" bson:"rating"`
	IsNewProduct     bool               `json:"isNewProduct" bson:"isNewProduct"`
	IsSoldOut        bool               `json:"isSoldOut" bson:"isSoldOut"`
	AvailableUnits   int                `json:"availableUnits" bson:"availableUnits"`
	DescriptionTitle *string            `json:"descriptionTitle" bson:"descriptionTitle"`
	DescriptionText  *string            `json:"descriptionText" bson:"descriptionText"`
}

// ProductFilter holds the conjunctive listing filters; nil/empty means "not filtered"
type ProductFilter struct {
	Search       string
	Designer     string
	ProductType  string
	Color        string
	InStock      *bool
	MinPrice     *float64
	MaxPrice     *float64
	IsNewProduct *bool
}

// DiscountFor returns round(100*(oldPrice-price)/oldPrice) when oldPrice > price, else nil.
// Halves round up.
func DiscountFor(price float64, oldPrice *float64) *float64 {
	if oldPrice == nil || *oldPrice <= price || *oldPrice <= 0 {
		return nil
	}
	d := math.Floor(100*(*oldPrice-price)/(*oldPrice) + 0.5)
	return &d
}

// RecomputeDiscount refreshes the derived DiscountPercent
func (p *Product) RecomputeDiscount() {
	p.DiscountPercent = DiscountFor(p.Price, p.OldPrice)
}

// EnsureVariantIDs assigns IDs to variants that don't have one yet
func (p *Product) EnsureVariantIDs() {
	for i := range p.ColorVariants {
		if p.ColorVariants[i].ID.IsZero() {
			p.ColorVariants[i].ID = primitive.NewObjectID()
		}
		if p.ColorVariants[i].DetailImages == nil {
			p.ColorVariants[i].DetailImages = []string{}
		}
	}
}

// NilIfEmpty maps "" to nil for optional text fields
func NilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
