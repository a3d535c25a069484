package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/givespark/checkout-api/internal/config"
	"github.com/givespark/checkout-api/internal/domain"
	"github.com/givespark/checkout-api/internal/repository"
	"github.com/givespark/checkout-api/internal/stripe"
	"github.com/givespark/checkout-api/pkg/errors"
)

// PaymentClient creates hosted payment sessions. Satisfied by
// *stripe.Client.
type PaymentClient interface {
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type checkoutService struct {
	cfg     *config.Config
	repos   *repository.Repositories
	payment PaymentClient
	pricing *pricingService
	donors  *donorService
	logger  *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) *checkoutService {
	return &checkoutService{
		cfg:     cfg,
		repos:   repos,
		payment: stripe.NewClient(cfg.Stripe, logger),
		pricing: NewPricingService(repos, logger),
		donors:  NewDonorService(repos, cfg.Campaign.ID, cfg.Donor.TotalsPolicy, logger),
		logger:  logger,
	}
}

// CheckoutResult is the outcome of a completed checkout pipeline run.
type CheckoutResult struct {
	Order      *domain.Order
	SessionURL string
}

// ProcessCheckout runs the pipeline for a validated request: price the
// cart from the catalog, persist the order and its items, create the
// payment session, and reconcile the donor record. The order and item
// writes are separate operations with no enclosing transaction; a
// failure between them leaves an order stuck in an awaiting_* status.
func (s *checkoutService) ProcessCheckout(ctx context.Context, req CheckoutRequest, origin, clientIP string) (*CheckoutResult, error) {
	priced, err := s.pricing.PriceCart(ctx, req.Cart)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		CampaignID:    s.cfg.Campaign.ID,
		FundraiserID:  req.FundraiserID,
		CustomerEmail: req.CustomerInfo.Email,
		TotalAmount:   priced.TotalAmount,
		ProfitAmount:  priced.ProfitAmount,
		Status:        domain.OrderStatusAwaitingItems,
	}
	if req.CustomerInfo.Name != "" {
		name := req.CustomerInfo.Name
		order.CustomerName = &name
	}
	if req.CustomerInfo.Phone != "" {
		phone := req.CustomerInfo.Phone
		order.CustomerPhone = &phone
	}

	if err := s.repos.Order.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]*domain.OrderItem, 0, len(priced.Items))
	for _, pricedItem := range priced.Items {
		items = append(items, &domain.OrderItem{
			OrderID:   order.ID,
			ProductID: pricedItem.Product.ID,
			Quantity:  pricedItem.Quantity,
			UnitPrice: pricedItem.Product.Price,
			UnitCost:  pricedItem.Product.Cost,
			Subtotal:  pricedItem.Subtotal,
		})
	}

	if err := s.repos.OrderItem.CreateBatch(ctx, items); err != nil {
		s.logger.Error("Order left without items after item insert failure",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err := s.repos.Order.UpdateStatus(ctx, order.ID, domain.OrderStatusAwaitingPaymentSession); err != nil {
		s.logger.Warn("Failed to advance order status",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	} else {
		order.Status = domain.OrderStatusAwaitingPaymentSession
	}

	session, err := s.createPaymentSession(ctx, order, priced, origin)
	if err != nil {
		s.logger.Error("Order left without payment session",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return nil, &errors.PaymentProviderError{Provider: "stripe", Err: err}
	}

	if err := s.repos.Order.UpdatePaymentSession(ctx, order.ID, session.ID, domain.OrderStatusAwaitingCompletion); err != nil {
		// The session exists and the customer can still pay; the link
		// back to the order has to be repaired from session metadata.
		s.logger.Warn("Failed to link payment session to order",
			zap.String("order_id", order.ID.String()),
			zap.String("session_id", session.ID),
			zap.Error(err))
	} else {
		sessionID := session.ID
		order.PaymentSessionID = &sessionID
		order.Status = domain.OrderStatusAwaitingCompletion
	}

	if err := s.donors.Reconcile(ctx, req, order.TotalAmount, clientIP); err != nil {
		s.logger.Warn("Donor reconciliation failed",
			zap.String("order_id", order.ID.String()),
			zap.String("campaign_id", order.CampaignID),
			zap.Error(err))
	}

	return &CheckoutResult{Order: order, SessionURL: session.URL}, nil
}

func (s *checkoutService) createPaymentSession(ctx context.Context, order *domain.Order, priced *PricedCart, origin string) (*stripe.CheckoutSession, error) {
	lineItems := make([]stripe.LineItemParams, 0, len(priced.Items))
	for _, pricedItem := range priced.Items {
		item := stripe.LineItemParams{Quantity: pricedItem.Quantity}

		if pricedItem.Product.StripePriceID != nil && *pricedItem.Product.StripePriceID != "" {
			item.PriceID = *pricedItem.Product.StripePriceID
		} else {
			item.PriceData = &stripe.PriceData{
				Currency:    s.cfg.Campaign.Currency,
				ProductName: pricedItem.Product.Name,
				UnitAmount:  toCents(pricedItem.Product.Price),
			}
		}

		lineItems = append(lineItems, item)
	}

	metadata := map[string]string{
		"order_id":    order.ID.String(),
		"campaign_id": order.CampaignID,
	}
	if order.FundraiserID != nil {
		metadata["fundraiser_id"] = *order.FundraiserID
	}

	base := s.resolveOrigin(origin)

	return s.payment.CreateCheckoutSession(ctx, stripe.CheckoutSessionParams{
		SuccessURL:    base + s.cfg.Checkout.SuccessPath + "?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     base + s.cfg.Checkout.CancelPath,
		CustomerEmail: order.CustomerEmail,
		LineItems:     lineItems,
		Metadata:      metadata,
	})
}

// resolveOrigin derives redirect targets from the request's Origin
// header, falling back to the configured origin.
func (s *checkoutService) resolveOrigin(origin string) string {
	origin = strings.TrimSuffix(strings.TrimSpace(origin), "/")
	if origin == "" || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
		return strings.TrimSuffix(s.cfg.Checkout.FallbackOrigin, "/")
	}
	return origin
}

// toCents converts a catalog amount to the currency's smallest unit.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
