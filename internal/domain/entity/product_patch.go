package entity

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON patch slot that distinguishes an absent key from an explicit
// null and from a value.
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// UnmarshalJSON is only invoked for keys present in the payload
func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(b, &f.Value)
}

// Value builds a present, non-null field
func Value[T any](v T) Field[T] { return Field[T]{Set: true, Value: v} }

// Null builds a present, null field
func Null[T any]() Field[T] { return Field[T]{Set: true, Null: true} }

// ProductPatch is a partial product update. discountPercent is derived and not patchable.
type ProductPatch struct {
	Title            Field[string]         `json:"title"`
	Designer         Field[string]         `json:"designer"`
	ProductType      Field[string]         `json:"productType"`
	ColorVariants    Field[[]ColorVariant] `json:"colorVariants"`
	Dimensions       Field[string]         `json:"dimensions"`
	Material         Field[string]         `json:"material"`
	Colors           Field[string]         `json:"colors"`
	Currency         Field[string]         `json:"currency"`
	Price            Field[float64]        `json:"price"`
	OldPrice         Field[float64]        `json:"oldPrice"`
	Rating           Field[float64]        `json:"rating"`
	IsNewProduct     Field[bool]           `json:"isNewProduct"`
	IsSoldOut        Field[bool]           `json:"isSoldOut"`
	AvailableUnits   Field[int]            `json:"availableUnits"`
	DescriptionTitle Field[string]         `json:"descriptionTitle"`
	DescriptionText  Field[string]         `json:"descriptionText"`
}

// Validate returns per-field problems; an empty map means the patch can be applied.
// Required fields may be replaced but never cleared.
func (p ProductPatch) Validate() map[string]string {
	out := map[string]string{}
	requiredText := map[string]Field[string]{
		"title":       p.Title,
		"designer":    p.Designer,
		"productType": p.ProductType,
		"currency":    p.Currency,
	}
	for name, f := range requiredText {
		if f.Set && (f.Null || f.Value == "") {
			out[name] = "cannot be cleared"
		}
	}
	if p.ColorVariants.Set {
		if p.ColorVariants.Null || len(p.ColorVariants.Value) == 0 {
			out["colorVariants"] = "must contain at least one variant"
		} else {
			for _, v := range p.ColorVariants.Value {
				if v.Color == "" || v.MainImage == "" || v.HoverImage == "" {
					out["colorVariants"] = "each variant needs color, mainImage and hoverImage"
					break
				}
			}
		}
	}
	if p.Price.Set {
		if p.Price.Null {
			out["price"] = "cannot be cleared"
		} else if p.Price.Value < 0 {
			out["price"] = "must be greater than or equal to 0"
		}
	}
	if p.OldPrice.Set && !p.OldPrice.Null && p.OldPrice.Value < 0 {
		out["oldPrice"] = "must be greater than or equal to 0"
	}
	if p.Rating.Set && !p.Rating.Null && (p.Rating.Value < 0 || p.Rating.Value > 5) {
		out["rating"] = "must be between 0 and 5"
	}
	if p.AvailableUnits.Set && !p.AvailableUnits.Null && p.AvailableUnits.Value < 0 {
		out["availableUnits"] = "must be greater than or equal to 0"
	}
	return out
}

// Apply writes every present field onto the product and recomputes the discount.
// Cleared optional values take their empty representation: null text, null
// oldPrice (also for 0), zero rating/units, false flags.
func (p ProductPatch) Apply(dst *Product) {
	if p.Title.Set {
		dst.Title = p.Title.Value
	}
	if p.Designer.Set {
		dst.Designer = p.Designer.Value
	}
	if p.ProductType.Set {
		dst.ProductType = p.ProductType.Value
	}
	if p.ColorVariants.Set {
		dst.ColorVariants = p.ColorVariants.Value
		dst.EnsureVariantIDs()
	}
	if p.Currency.Set {
		dst.Currency = p.Currency.Value
	}
	if p.Price.Set {
		dst.Price = p.Price.Value
	}
	applyText(&dst.Dimensions, p.Dimensions)
	applyText(&dst.Material, p.Material)
	applyText(&dst.Colors, p.Colors)
	applyText(&dst.DescriptionTitle, p.DescriptionTitle)
	applyText(&dst.DescriptionText, p.DescriptionText)
	if p.OldPrice.Set {
		if p.OldPrice.Null || p.OldPrice.Value == 0 {
			dst.OldPrice = nil
		} else {
			v := p.OldPrice.Value
			dst.OldPrice = &v
		}
	}
	if p.Rating.Set {
		dst.Rating = p.Rating.Value
	}
	if p.IsNewProduct.Set {
		dst.IsNewProduct = p.IsNewProduct.Value
	}
	if p.IsSoldOut.Set {
		dst.IsSoldOut = p.IsSoldOut.Value
	}
	if p.AvailableUnits.Set {
		dst.AvailableUnits = p.AvailableUnits.Value
	}
	dst.RecomputeDiscount()
}

func applyText(dst **string, f Field[string]) {
	if !f.Set {
		return
	}
	*dst = NilIfEmpty(f.Value)
}
