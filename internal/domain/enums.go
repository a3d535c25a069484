package domain

// OrderStatus represents the status of an order as it moves through the
// checkout pipeline. Orders stuck in an awaiting_* status are orphans
// left by a partial pipeline failure.
type OrderStatus string

const (
	// OrderStatusAwaitingItems: the order row exists but its line items
	// have not been written yet.
	OrderStatusAwaitingItems OrderStatus = "awaiting_items"
	// OrderStatusAwaitingPaymentSession: line items are persisted, the
	// payment session has not been created yet.
	OrderStatusAwaitingPaymentSession OrderStatus = "awaiting_payment_session"
	// OrderStatusAwaitingCompletion: the payment session exists;
	// completion is driven by the provider's payment notification.
	OrderStatusAwaitingCompletion OrderStatus = "awaiting_completion"
	OrderStatusCompleted          OrderStatus = "completed"
	OrderStatusCancelled          OrderStatus = "cancelled"
)

// IsValid checks if the order status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusAwaitingItems,
		OrderStatusAwaitingPaymentSession,
		OrderStatusAwaitingCompletion,
		OrderStatusCompleted,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s OrderStatus) CanTransitionTo(newStatus OrderStatus) bool {
	switch s {
	case OrderStatusAwaitingItems:
		return newStatus == OrderStatusAwaitingPaymentSession ||
			newStatus == OrderStatusCancelled
	case OrderStatusAwaitingPaymentSession:
		return newStatus == OrderStatusAwaitingCompletion ||
			newStatus == OrderStatusCancelled
	case OrderStatusAwaitingCompletion:
		return newStatus == OrderStatusCompleted ||
			newStatus == OrderStatusCancelled
	case OrderStatusCompleted, OrderStatusCancelled:
		return false // Terminal states
	default:
		return false
	}
}

// Pending reports whether the order is in a non-terminal pipeline state.
func (s OrderStatus) Pending() bool {
	switch s {
	case OrderStatusAwaitingItems, OrderStatusAwaitingPaymentSession, OrderStatusAwaitingCompletion:
		return true
	default:
		return false
	}
}

// DonorSegment classifies a donor by engagement history.
type DonorSegment string

const (
	DonorSegmentFirstTime DonorSegment = "first_time"
	DonorSegmentRepeat    DonorSegment = "repeat"
)

// TotalsPolicy controls whether an existing donor's totalDonated and
// donationCount are accumulated when they place another order. The
// historical behavior sets totals on insert only and leaves updates to
// the payment-completion event.
type TotalsPolicy string

const (
	TotalsPolicyInsertOnly       TotalsPolicy = "insert_only"
	TotalsPolicyAlwaysAccumulate TotalsPolicy = "always_accumulate"
)

// IsValid checks if the totals policy is a recognized value
func (p TotalsPolicy) IsValid() bool {
	return p == TotalsPolicyInsertOnly || p == TotalsPolicyAlwaysAccumulate
}
