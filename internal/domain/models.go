package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is the catalog's system of record for an item. Price and cost
// are the only trusted source of monetary unit values; they are never
// accepted from a client.
type Product struct {
	ID            uuid.UUID
	Name          string
	Price         float64
	Cost          float64
	StripePriceID *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Order represents a checkout order
type Order struct {
	ID               uuid.UUID
	CampaignID       string
	FundraiserID     *string
	CustomerEmail    string
	CustomerName     *string
	CustomerPhone    *string
	TotalAmount      float64
	ProfitAmount     float64
	Status           OrderStatus
	PaymentSessionID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItem is a line item of an order. Unit price and cost are copied
// from the Product at validation time and frozen for the life of the
// order.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
	UnitPrice float64
	UnitCost  float64
	Subtotal  float64
	CreatedAt time.Time
}

// Donor is a per-campaign contact record derived from orders. One donor
// exists per (email, campaign).
type Donor struct {
	ID                 uuid.UUID
	CampaignID         string
	Email              string
	Name               string
	Phone              *string
	DisplayOnWall      bool
	DisplayName        string
	MarketingConsent   bool
	MarketingConsentAt *time.Time
	MarketingConsentIP *string
	Segment            DonorSegment
	TotalDonated       float64
	DonationCount      int
	FirstDonationAt    time.Time
	LastDonationAt     time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IdempotencyKey stores idempotency information
type IdempotencyKey struct {
	Key         string
	OrderID     uuid.UUID
	RequestHash string
	SessionURL  string
	CreatedAt   time.Time
}
