package service

// CheckoutRequest represents the checkout submission payload. Any
// price-like fields a client sends are not modeled here and are
// discarded on decode; quantity is the only client value that enters
// the monetary calculation.
type CheckoutRequest struct {
	FundraiserID     *string           `json:"fundraiserId"`
	Cart             []CartEntry       `json:"cart" binding:"required,min=1,max=50,dive"`
	CustomerInfo     CustomerInfo      `json:"customerInfo" binding:"required"`
	DonorPreferences *DonorPreferences `json:"donorPreferences"`
}

type CartEntry struct {
	ProductID string `json:"productId" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=100000"`
}

type CustomerInfo struct {
	Email string `json:"email" binding:"required,email,max=255"`
	Name  string `json:"name" binding:"omitempty,max=100"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
}

// DonorPreferences is the closed set of recognized donor options.
// Defaults when omitted: displayOnWall true, marketingConsent false,
// displayName falls back to the customer name.
type DonorPreferences struct {
	DisplayOnWall    *bool   `json:"displayOnWall"`
	DisplayName      *string `json:"displayName" binding:"omitempty,max=100"`
	MarketingConsent *bool   `json:"marketingConsent"`
}

// CheckoutResponse is returned on a successful checkout
type CheckoutResponse struct {
	URL string `json:"url"`
}
