package mongodb

import (
	"math"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

// productFilter translates listing filters into a conjunctive Mongo query.
func productFilter(f entity.ProductFilter) bson.M {
	filter := bson.M{}
	if f.Search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	if f.Designer != "" {
		filter["designer"] = f.Designer
	}
	if f.ProductType != "" {
		filter["productType"] = f.ProductType
	}
	if f.Color != "" {
		filter["colorVariants.color"] = f.Color
	}
	if f.InStock != nil {
		filter["isSoldOut"] = !*f.InStock
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := bson.M{}
		if f.MinPrice != nil {
			price["$gte"] = *f.MinPrice
		}
		if f.MaxPrice != nil {
			price["$lte"] = *f.MaxPrice
		}
		filter["price"] = price
	}
	if f.IsNewProduct != nil {
		filter["isNewProduct"] = *f.IsNewProduct
	}
	return filter
}

func productSort() bson.D {
	return bson.D{
		{Key: "price", Value: 1},
		{Key: "designer", Value: 1},
		{Key: "colorVariants.color", Value: 1},
	}
}

func skipFor(page, limit int) int64 {
	if page < 1 || limit < 1 {
		return 0
	}
	n := int64(page - 1)
	if n > math.MaxInt64/int64(limit) {
		return math.MaxInt64
	}
	return n * int64(limit)
}

func cartLine(productID, colorID primitive.ObjectID) bson.M {
	return bson.M{"productId": productID, "colorId": colorID}
}

// existingLineFilter matches the user only when a line for (product, color) exists,
// so the positional $inc lands on that line.
func existingLineFilter(userID, productID, colorID primitive.ObjectID) bson.M {
	return bson.M{"_id": userID, "cart": bson.M{"$elemMatch": cartLine(productID, colorID)}}
}

// missingLineFilter matches the user only when no line for (product, color) exists,
// so a concurrent push of the same line cannot produce a duplicate.
func missingLineFilter(userID, productID, colorID primitive.ObjectID) bson.M {
	return bson.M{"_id": userID, "cart": bson.M{"$not": bson.M{"$elemMatch": cartLine(productID, colorID)}}}
}

func incrementLine(quantity int) bson.M {
	return bson.M{"$inc": bson.M{"cart.$.quantity": quantity}}
}

func pushLine(item entity.CartItem) bson.M {
	return bson.M{"$push": bson.M{"cart": item}}
}

func cartItemFilter(userID, itemID primitive.ObjectID) bson.M {
	return bson.M{"_id": userID, "cart._id": itemID}
}

func resetTokenFilter(digest string, now time.Time) bson.M {
	return bson.M{"resetPasswordToken": digest, "resetPasswordExpire": bson.M{"$gt": now}}
}

func consumeResetToken(passwordHash string) bson.M {
	return bson.M{
		"$set":   bson.M{"password": passwordHash},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""},
	}
}
