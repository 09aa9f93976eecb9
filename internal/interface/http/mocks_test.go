package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/storefront-api/internal/application"
	"github.com/oksasatya/storefront-api/internal/domain/entity"
)

type MockProductService struct{ mock.Mock }

func (m *MockProductService) List(ctx context.Context, in application.ListProductsInput) (*application.ProductPage, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.ProductPage), args.Error(1)
}

func (m *MockProductService) GetByTitle(ctx context.Context, title string) (*entity.Product, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, in application.CreateProductInput) (*entity.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) Search(ctx context.Context, q string, size int) ([]entity.Product, error) {
	args := m.Called(ctx, q, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Product), args.Error(1)
}

func (m *MockProductService) UploadImage(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	args := m.Called(ctx, r, filename, contentType)
	return args.String(0), args.Error(1)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, in application.RegisterInput) (*application.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.AuthResult), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, in application.LoginInput) (*application.AuthResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.AuthResult), args.Error(1)
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, in application.ForgotPasswordInput) error {
	return m.Called(ctx, in).Error(0)
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token string, in application.ResetPasswordInput) error {
	return m.Called(ctx, token, in).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockCartService struct{ mock.Mock }

func (m *MockCartService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, userID string) ([]entity.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CartItem), args.Error(1)
}

func (m *MockCartService) AddItems(ctx context.Context, userID string, items []application.AddCartItemInput) ([]entity.CartItem, error) {
	args := m.Called(ctx, userID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CartItem), args.Error(1)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int) (*entity.CartItem, error) {
	args := m.Called(ctx, userID, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.CartItem), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID, itemID string) ([]entity.CartItem, error) {
	args := m.Called(ctx, userID, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.CartItem), args.Error(1)
}

type MockCheckoutService struct{ mock.Mock }

func (m *MockCheckoutService) CreateSession(ctx context.Context, in application.CheckoutInput) (*application.CheckoutSession, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.CheckoutSession), args.Error(1)
}
