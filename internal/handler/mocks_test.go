package handler

import (
	"context"

	"storefront-checkout/internal/auth"
	"storefront-checkout/internal/checkout"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) GetByCategory(ctx context.Context, category string, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockCatalogService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Add(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *MockCartService) Remove(ctx context.Context, productID string) error {
	return m.Called(ctx, productID).Error(0)
}

func (m *MockCartService) SetQuantity(ctx context.Context, productID string, quantity int) error {
	return m.Called(ctx, productID, quantity).Error(0)
}

func (m *MockCartService) Clear(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockCartService) Summary(ctx context.Context) *service.CartSummary {
	return m.Called(ctx).Get(0).(*service.CartSummary)
}

// MockSessionService is a mock implementation of SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, creds model.Credentials) error {
	return m.Called(ctx, creds).Error(0)
}

func (m *MockSessionService) Register(ctx context.Context, creds model.Credentials) error {
	return m.Called(ctx, creds).Error(0)
}

func (m *MockSessionService) Logout(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSessionService) State(ctx context.Context) auth.State {
	return m.Called(ctx).Get(0).(auth.State)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) SetAddressFields(ctx context.Context, fields map[string]string) error {
	return m.Called(ctx, fields).Error(0)
}

func (m *MockOrderService) SetPaymentMethod(ctx context.Context, method model.PaymentMethod) {
	m.Called(ctx, method)
}

func (m *MockOrderService) View(ctx context.Context) *service.CheckoutView {
	return m.Called(ctx).Get(0).(*service.CheckoutView)
}

func (m *MockOrderService) Submit(ctx context.Context, phone string) (*service.Outcome, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Outcome), args.Error(1)
}

// MockGuard is a mock implementation of Guard.
type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) Check(ctx context.Context) checkout.Decision {
	return m.Called(ctx).Get(0).(checkout.Decision)
}
