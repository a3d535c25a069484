package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/givespark/checkout-api/internal/domain"
)

// ProductRepository reads the catalog, the system of record for prices
type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
}

// OrderRepository persists orders
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	UpdatePaymentSession(ctx context.Context, id uuid.UUID, sessionID string, status domain.OrderStatus) error
}

// OrderItemRepository persists order line items
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []*domain.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
}

// DonorRepository persists per-campaign donor records
type DonorRepository interface {
	GetByEmailAndCampaign(ctx context.Context, email, campaignID string) (*domain.Donor, error)
	Create(ctx context.Context, donor *domain.Donor) error
	Update(ctx context.Context, donor *domain.Donor) error
}

// IdempotencyRepository stores idempotency keys
type IdempotencyRepository interface {
	Get(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Create(ctx context.Context, record *domain.IdempotencyKey) error
}

// Repositories bundles all repositories for dependency injection
type Repositories struct {
	Product     ProductRepository
	Order       OrderRepository
	OrderItem   OrderItemRepository
	Donor       DonorRepository
	Idempotency IdempotencyRepository
}
