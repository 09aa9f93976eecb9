package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	"github.com/oksasatya/storefront-api/internal/domain/repository"
)

var errCartContention = errors.New("cart line changed concurrently, retry the request")

// UserRepository stores users and serves the cart embedded in each user document.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection(UsersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	// nil slices encode as null, and $push needs an array
	if u.Cart == nil {
		u.Cart = []entity.CartItem{}
	}
	if _, err := r.collection.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*entity.User, error) {
	var u entity.User
	if err := r.collection.FindOne(ctx, filter, opts...).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	if u.Cart == nil {
		u.Cart = []entity.CartItem{}
	}
	return &u, nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, digest string, expire time.Time) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"resetPasswordToken": digest, "resetPasswordExpire": expire},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) ResetPassword(ctx context.Context, digest, passwordHash string, now time.Time) (*entity.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u entity.User
	err := r.collection.FindOneAndUpdate(ctx, resetTokenFilter(digest, now), consumeResetToken(passwordHash), opts).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetCart(ctx context.Context, userID primitive.ObjectID) ([]entity.CartItem, error) {
	u, err := r.findOne(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(bson.M{"cart": 1}))
	if err != nil {
		return nil, err
	}
	return u.Cart, nil
}

// AddItem increments the matching line or pushes a new one, each as a single
// conditional update. When neither matches, either the user is gone or another
// request pushed the same line in between; the second case is retried once.
func (r *UserRepository) AddItem(ctx context.Context, userID primitive.ObjectID, item entity.CartItem) error {
	if item.ID.IsZero() {
		item.ID = primitive.NewObjectID()
	}
	for attempt := 0; attempt < 2; attempt++ {
		res, err := r.collection.UpdateOne(ctx, existingLineFilter(userID, item.ProductID, item.ColorID), incrementLine(item.Quantity))
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}
		res, err = r.collection.UpdateOne(ctx, missingLineFilter(userID, item.ProductID, item.ColorID), pushLine(item))
		if err != nil {
			return err
		}
		if res.MatchedCount > 0 {
			return nil
		}
		ok, err := r.exists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrNotFound
		}
	}
	return errCartContention
}

func (r *UserRepository) UpdateItemQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (*entity.CartItem, error) {
	update := bson.M{"$set": bson.M{"cart.$.quantity": quantity}}
	u, err := r.modifyCartItem(ctx, userID, itemID, update)
	if err != nil {
		return nil, err
	}
	item := u.FindCartItem(itemID)
	if item == nil {
		return nil, repository.ErrCartItemNotFound
	}
	return item, nil
}

func (r *UserRepository) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) ([]entity.CartItem, error) {
	update := bson.M{"$pull": bson.M{"cart": bson.M{"_id": itemID}}}
	u, err := r.modifyCartItem(ctx, userID, itemID, update)
	if err != nil {
		return nil, err
	}
	if u.Cart == nil {
		return []entity.CartItem{}, nil
	}
	return u.Cart, nil
}

func (r *UserRepository) modifyCartItem(ctx context.Context, userID, itemID primitive.ObjectID, update bson.M) (*entity.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u entity.User
	err := r.collection.FindOneAndUpdate(ctx, cartItemFilter(userID, itemID), update, opts).Decode(&u)
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	ok, err := r.exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrCartItemNotFound
}

func (r *UserRepository) exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

var (
	_ repository.UserRepository = (*UserRepository)(nil)
	_ repository.CartRepository = (*UserRepository)(nil)
)
