package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/givespark/checkout-api/internal/domain"
	"github.com/givespark/checkout-api/internal/repository"
	apperrors "github.com/givespark/checkout-api/pkg/errors"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*domain.Product
	err      error
}

func (f *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*domain.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) Create(_ context.Context, p *domain.Product) error {
	if f.products == nil {
		f.products = make(map[uuid.UUID]*domain.Product)
	}
	f.products[p.ID] = p
	return nil
}

type fakeOrderRepo struct {
	created        []*domain.Order
	createErr      error
	statusErr      error
	sessionErr     error
	statusUpdates  []domain.OrderStatus
	sessionUpdates []string
}

func (f *fakeOrderRepo) Create(_ context.Context, order *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	f.created = append(f.created, order)
	return nil
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	for _, o := range f.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, fmt.Errorf("order not found")
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, _ uuid.UUID, status domain.OrderStatus) error {
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statusUpdates = append(f.statusUpdates, status)
	return nil
}

func (f *fakeOrderRepo) UpdatePaymentSession(_ context.Context, _ uuid.UUID, sessionID string, _ domain.OrderStatus) error {
	if f.sessionErr != nil {
		return f.sessionErr
	}
	f.sessionUpdates = append(f.sessionUpdates, sessionID)
	return nil
}

type fakeOrderItemRepo struct {
	batches [][]*domain.OrderItem
	err     error
}

func (f *fakeOrderItemRepo) CreateBatch(_ context.Context, items []*domain.OrderItem) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, items)
	return nil
}

func (f *fakeOrderItemRepo) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	var out []*domain.OrderItem
	for _, batch := range f.batches {
		for _, item := range batch {
			if item.OrderID == orderID {
				out = append(out, item)
			}
		}
	}
	return out, nil
}

type fakeDonorRepo struct {
	donors    map[string]*domain.Donor
	getErr    error
	createErr error
	updateErr error
	updates   int
}

func donorKey(email, campaignID string) string {
	return email + "|" + campaignID
}

func (f *fakeDonorRepo) GetByEmailAndCampaign(_ context.Context, email, campaignID string) (*domain.Donor, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if d, ok := f.donors[donorKey(email, campaignID)]; ok {
		return d, nil
	}
	return nil, &apperrors.ErrNotFound{Resource: "donor", ID: email}
}

func (f *fakeDonorRepo) Create(_ context.Context, donor *domain.Donor) error {
	if f.createErr != nil {
		return f.createErr
	}
	if donor.ID == uuid.Nil {
		donor.ID = uuid.New()
	}
	if f.donors == nil {
		f.donors = make(map[string]*domain.Donor)
	}
	f.donors[donorKey(donor.Email, donor.CampaignID)] = donor
	return nil
}

func (f *fakeDonorRepo) Update(_ context.Context, donor *domain.Donor) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates++
	f.donors[donorKey(donor.Email, donor.CampaignID)] = donor
	return nil
}

type fakeIdempotencyRepo struct {
	records map[string]*domain.IdempotencyKey
}

func (f *fakeIdempotencyRepo) Get(_ context.Context, key string) (*domain.IdempotencyKey, error) {
	if r, ok := f.records[key]; ok {
		return r, nil
	}
	return nil, &apperrors.ErrNotFound{Resource: "idempotency key", ID: key}
}

func (f *fakeIdempotencyRepo) Create(_ context.Context, record *domain.IdempotencyKey) error {
	if f.records == nil {
		f.records = make(map[string]*domain.IdempotencyKey)
	}
	f.records[record.Key] = record
	return nil
}

func newFakeRepos() (*repository.Repositories, *fakeProductRepo, *fakeOrderRepo, *fakeOrderItemRepo, *fakeDonorRepo) {
	products := &fakeProductRepo{products: make(map[uuid.UUID]*domain.Product)}
	orders := &fakeOrderRepo{}
	items := &fakeOrderItemRepo{}
	donors := &fakeDonorRepo{donors: make(map[string]*domain.Donor)}

	repos := &repository.Repositories{
		Product:     products,
		Order:       orders,
		OrderItem:   items,
		Donor:       donors,
		Idempotency: &fakeIdempotencyRepo{},
	}
	return repos, products, orders, items, donors
}
