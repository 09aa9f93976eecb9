package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/storefront-api/internal/domain/entity"
	repo "github.com/oksasatya/storefront-api/internal/domain/repository"
	"github.com/oksasatya/storefront-api/pkg/helpers"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newAuthService(users *MockUserRepo, mailer PasswordResetMailer) *AuthService {
	s := NewAuthService(users, helpers.NewJWTManager("test-secret", time.Hour), mailer,
		helpers.NewTestLogger(), "admin@shop.test", "http://localhost:3001/reset-password/", 10*time.Minute)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	in := RegisterInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@shop.test", Password: "s3cret"}

	t.Run("creates user and issues token", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "ada@shop.test").Return(nil, repo.ErrNotFound).Once()
		users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool {
			return u.Role == entity.RoleUser &&
				u.Password != "s3cret" &&
				helpers.CompareHashAndPassword(u.Password, "s3cret") &&
				u.Cart != nil
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entity.User).ID = primitive.NewObjectID()
		}).Return(nil).Once()
		svc := newAuthService(users, nil)

		res, err := svc.Register(ctx, in)

		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		assert.Len(t, res.UserID, 24)
		claims, err := svc.JWT.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, res.UserID, claims.UserID)
		assert.Equal(t, "user", claims.Role)
		users.AssertExpectations(t)
	})

	t.Run("admin email gets admin role", func(t *testing.T) {
		users := new(MockUserRepo)
		admin := in
		admin.Email = "admin@shop.test"
		users.On("GetByEmail", ctx, "admin@shop.test").Return(nil, repo.ErrNotFound).Once()
		users.On("Create", ctx, mock.MatchedBy(func(u *entity.User) bool { return u.Role == entity.RoleAdmin })).Return(nil).Once()

		_, err := newAuthService(users, nil).Register(ctx, admin)

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("email only has to be present", func(t *testing.T) {
		users := new(MockUserRepo)
		plain := in
		plain.Email = "ada"
		users.On("GetByEmail", ctx, "ada").Return(nil, repo.ErrNotFound).Once()
		users.On("Create", ctx, mock.AnythingOfType("*entity.User")).Return(nil).Once()

		_, err := newAuthService(users, nil).Register(ctx, plain)

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("missing email", func(t *testing.T) {
		users := new(MockUserRepo)
		blank := in
		blank.Email = ""

		_, err := newAuthService(users, nil).Register(ctx, blank)

		require.ErrorIs(t, err, ErrInvalidArgument)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "is required", verr.Details["email"])
		users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("email taken on pre-check", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "ada@shop.test").Return(&entity.User{Email: "ada@shop.test"}, nil).Once()

		_, err := newAuthService(users, nil).Register(ctx, in)

		assert.ErrorIs(t, err, ErrEmailTaken)
		assert.ErrorIs(t, err, ErrConflict)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("email taken by a concurrent insert", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "ada@shop.test").Return(nil, repo.ErrNotFound).Once()
		users.On("Create", ctx, mock.Anything).Return(repo.ErrDuplicate).Once()

		_, err := newAuthService(users, nil).Register(ctx, in)
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("missing fields", func(t *testing.T) {
		users := new(MockUserRepo)
		_, err := newAuthService(users, nil).Register(ctx, RegisterInput{Email: "ada@shop.test"})

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Details, "firstName")
		assert.Contains(t, verr.Details, "lastName")
		assert.Contains(t, verr.Details, "password")
		users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	hash, err := helpers.HashPassword("s3cret")
	require.NoError(t, err)
	stored := &entity.User{ID: primitive.NewObjectID(), Email: "ada@shop.test", Password: hash, Role: entity.RoleAdmin}

	t.Run("success", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "ada@shop.test").Return(stored, nil).Once()
		svc := newAuthService(users, nil)

		res, err := svc.Login(ctx, LoginInput{Email: "ada@shop.test", Password: "s3cret"})

		require.NoError(t, err)
		assert.Equal(t, stored.ID.Hex(), res.UserID)
		claims, err := svc.JWT.Parse(res.Token)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "nobody@shop.test").Return(nil, repo.ErrNotFound).Once()
		users.On("GetByEmail", ctx, "ada@shop.test").Return(stored, nil).Once()
		svc := newAuthService(users, nil)

		_, errUnknown := svc.Login(ctx, LoginInput{Email: "nobody@shop.test", Password: "s3cret"})
		_, errWrong := svc.Login(ctx, LoginInput{Email: "ada@shop.test", Password: "nope"})

		assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("store failure is not masked", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "ada@shop.test").Return(nil, errors.New("connection reset")).Once()

		_, err := newAuthService(users, nil).Login(ctx, LoginInput{Email: "ada@shop.test", Password: "s3cret"})

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestForgotPassword(t *testing.T) {
	ctx := context.Background()
	user := &entity.User{ID: primitive.NewObjectID(), FirstName: "Ada", Email: "ada@shop.test"}

	t.Run("stores digest and mails plaintext link", func(t *testing.T) {
		users := new(MockUserRepo)
		mailer := new(MockMailer)
		var storedDigest, sentLink string
		users.On("GetByEmail", ctx, "ada@shop.test").Return(user, nil).Once()
		users.On("SetResetToken", ctx, user.ID, mock.AnythingOfType("string"), fixedNow.Add(10*time.Minute)).
			Run(func(args mock.Arguments) { storedDigest = args.String(2) }).
			Return(nil).Once()
		mailer.On("SendPasswordReset", ctx, "ada@shop.test", "Ada", mock.AnythingOfType("string"), fixedNow.Add(10*time.Minute)).
			Run(func(args mock.Arguments) { sentLink = args.String(3) }).
			Return(nil).Once()

		require.NoError(t, newAuthService(users, mailer).ForgotPassword(ctx, ForgotPasswordInput{Email: "ada@shop.test"}))

		require.True(t, strings.HasPrefix(sentLink, "http://localhost:3001/reset-password/"))
		token := strings.TrimPrefix(sentLink, "http://localhost:3001/reset-password/")
		assert.Len(t, token, 64)
		assert.NotEqual(t, token, storedDigest)
		assert.Equal(t, helpers.DigestResetToken(token), storedDigest)
		mailer.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "nobody@shop.test").Return(nil, repo.ErrNotFound).Once()

		err := newAuthService(users, new(MockMailer)).ForgotPassword(ctx, ForgotPasswordInput{Email: "nobody@shop.test"})

		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("mailer failure surfaces as internal error", func(t *testing.T) {
		users := new(MockUserRepo)
		mailer := new(MockMailer)
		users.On("GetByEmail", ctx, "ada@shop.test").Return(user, nil).Once()
		users.On("SetResetToken", ctx, user.ID, mock.Anything, mock.Anything).Return(nil).Once()
		mailer.On("SendPasswordReset", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		err := newAuthService(users, mailer).ForgotPassword(ctx, ForgotPasswordInput{Email: "ada@shop.test"})

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidArgument)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("consumes token with a hashed password", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("ResetPassword", ctx, helpers.DigestResetToken("tok"), mock.MatchedBy(func(hash string) bool {
			return helpers.CompareHashAndPassword(hash, "n3w-pass")
		}), fixedNow).Return(&entity.User{ID: primitive.NewObjectID()}, nil).Once()

		err := newAuthService(users, nil).ResetPassword(ctx, "tok", ResetPasswordInput{Password: "n3w-pass"})

		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("invalid or expired token", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("ResetPassword", ctx, mock.Anything, mock.Anything, fixedNow).Return(nil, repo.ErrNotFound).Once()

		err := newAuthService(users, nil).ResetPassword(ctx, "tok", ResetPasswordInput{Password: "n3w-pass"})

		assert.ErrorIs(t, err, ErrInvalidResetLink)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})

	t.Run("password required", func(t *testing.T) {
		users := new(MockUserRepo)
		err := newAuthService(users, nil).ResetPassword(ctx, "tok", ResetPasswordInput{})

		assert.ErrorIs(t, err, ErrInvalidArgument)
		users.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestMe(t *testing.T) {
	ctx := context.Background()
	id := primitive.NewObjectID()
	users := new(MockUserRepo)
	users.On("GetByID", ctx, id).Return(nil, repo.ErrNotFound).Once()

	_, err := newAuthService(users, nil).Me(ctx, id.Hex())

	assert.ErrorIs(t, err, ErrUserNotFound)
}
