package mongodb

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

func TestProductFilterEmpty(t *testing.T) {
	assert.Empty(t, productFilter(entity.ProductFilter{}))
}

func TestProductFilterCombinesConditions(t *testing.T) {
	inStock := true
	isNew := false
	minPrice, maxPrice := 10.0, 99.5

	got := productFilter(entity.ProductFilter{
		Search:       "lamp (large)",
		Designer:     "Aalto",
		ProductType:  "lighting",
		Color:        "black",
		InStock:      &inStock,
		MinPrice:     &minPrice,
		MaxPrice:     &maxPrice,
		IsNewProduct: &isNew,
	})

	assert.Equal(t, bson.M{"$regex": `lamp \(large\)`, "$options": "i"}, got["title"])
	assert.Equal(t, "Aalto", got["designer"])
	assert.Equal(t, "lighting", got["productType"])
	assert.Equal(t, "black", got["colorVariants.color"])
	assert.Equal(t, false, got["isSoldOut"])
	assert.Equal(t, bson.M{"$gte": 10.0, "$lte": 99.5}, got["price"])
	assert.Equal(t, false, got["isNewProduct"])
}

func TestProductFilterOpenPriceRange(t *testing.T) {
	minPrice := 50.0
	got := productFilter(entity.ProductFilter{MinPrice: &minPrice})
	assert.Equal(t, bson.M{"$gte": 50.0}, got["price"])
}

func TestProductFilterOutOfStock(t *testing.T) {
	inStock := false
	got := productFilter(entity.ProductFilter{InStock: &inStock})
	assert.Equal(t, true, got["isSoldOut"])
}

func TestProductSortOrder(t *testing.T) {
	keys := []string{}
	for _, e := range productSort() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"price", "designer", "colorVariants.color"}, keys)
}

func TestSkipFor(t *testing.T) {
	assert.Equal(t, int64(0), skipFor(1, 9))
	assert.Equal(t, int64(18), skipFor(3, 9))
	assert.Equal(t, int64(0), skipFor(0, 9))
	assert.Equal(t, int64(math.MaxInt64), skipFor(math.MaxInt, 100))
	assert.Equal(t, int64(math.MaxInt32-1)*100, skipFor(math.MaxInt32, 100))
}

func TestCartLineFilters(t *testing.T) {
	userID, productID, colorID := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	line := bson.M{"productId": productID, "colorId": colorID}

	assert.Equal(t, bson.M{"_id": userID, "cart": bson.M{"$elemMatch": line}},
		existingLineFilter(userID, productID, colorID))
	assert.Equal(t, bson.M{"_id": userID, "cart": bson.M{"$not": bson.M{"$elemMatch": line}}},
		missingLineFilter(userID, productID, colorID))
	assert.Equal(t, bson.M{"$inc": bson.M{"cart.$.quantity": 3}}, incrementLine(3))
}

func TestResetTokenQueries(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, bson.M{"resetPasswordToken": "abc", "resetPasswordExpire": bson.M{"$gt": now}},
		resetTokenFilter("abc", now))

	update := consumeResetToken("hash")
	assert.Equal(t, bson.M{"password": "hash"}, update["$set"])
	assert.Equal(t, bson.M{"resetPasswordToken": "", "resetPasswordExpire": ""}, update["$unset"])
}
