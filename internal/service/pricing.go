package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/givespark/checkout-api/internal/domain"
	"github.com/givespark/checkout-api/internal/repository"
	"github.com/givespark/checkout-api/pkg/errors"
)

type pricingService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewPricingService creates a new pricing service
func NewPricingService(repos *repository.Repositories, logger *zap.Logger) *pricingService {
	return &pricingService{
		repos:  repos,
		logger: logger,
	}
}

// PricedItem pairs a cart entry with its authoritative catalog product.
type PricedItem struct {
	Product  *domain.Product
	Quantity int
	Subtotal float64
}

// PricedCart holds server-side recomputed totals for a cart.
type PricedCart struct {
	Items        []PricedItem
	TotalAmount  float64
	ProfitAmount float64
}

// PriceCart bulk-fetches the referenced products and recomputes all
// monetary values from catalog price/cost. Quantity is the only
// client-controlled input used; a cart referencing a missing or
// inactive product fails before any persistence.
func (s *pricingService) PriceCart(ctx context.Context, entries []CartEntry) (*PricedCart, error) {
	seen := make(map[uuid.UUID]bool)
	distinct := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		// Product ids are validated upstream.
		id := uuid.MustParse(entry.ProductID)
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}

	products, err := s.repos.Product.GetByIDs(ctx, distinct)
	if err != nil {
		return nil, err
	}

	catalog := make(map[uuid.UUID]*domain.Product, len(products))
	for _, product := range products {
		catalog[product.ID] = product
	}

	catalogErr := &errors.CatalogError{}
	for _, id := range distinct {
		product, ok := catalog[id]
		if !ok {
			catalogErr.MissingIDs = append(catalogErr.MissingIDs, id.String())
			continue
		}
		if !product.IsActive {
			catalogErr.InactiveIDs = append(catalogErr.InactiveIDs, id.String())
		}
	}
	if len(catalogErr.MissingIDs) > 0 || len(catalogErr.InactiveIDs) > 0 {
		return nil, catalogErr
	}

	priced := &PricedCart{Items: make([]PricedItem, 0, len(entries))}
	for _, entry := range entries {
		product := catalog[uuid.MustParse(entry.ProductID)]
		quantity := float64(entry.Quantity)

		subtotal := roundCents(product.Price * quantity)
		priced.Items = append(priced.Items, PricedItem{
			Product:  product,
			Quantity: entry.Quantity,
			Subtotal: subtotal,
		})

		priced.TotalAmount += subtotal
		priced.ProfitAmount += (product.Price - product.Cost) * quantity
	}

	priced.TotalAmount = roundCents(priced.TotalAmount)
	priced.ProfitAmount = roundCents(priced.ProfitAmount)

	return priced, nil
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
