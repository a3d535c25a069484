package stripe

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// LineItemParams describes one checkout line. Either PriceID references
// an existing Stripe price, or PriceData carries an ad-hoc price built
// from the product name and unit amount.
type LineItemParams struct {
	PriceID   string
	PriceData *PriceData
	Quantity  int
}

// PriceData is an ad-hoc price descriptor. UnitAmount is in the
// currency's smallest unit (cents).
type PriceData struct {
	Currency    string
	ProductName string
	UnitAmount  int64
}

// CheckoutSessionParams are the inputs for a hosted one-time-payment
// checkout session.
type CheckoutSessionParams struct {
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	LineItems     []LineItemParams
	Metadata      map[string]string
}

// CheckoutSession is the created session resource. URL is the hosted
// payment page the customer is redirected to.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreateCheckoutSession creates a hosted checkout session in payment mode
func (c *Client) CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", params.SuccessURL)
	form.Set("cancel_url", params.CancelURL)

	if params.CustomerEmail != "" {
		form.Set("customer_email", params.CustomerEmail)
	}

	for i, item := range params.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[quantity]", strconv.Itoa(item.Quantity))

		if item.PriceID != "" {
			form.Set(prefix+"[price]", item.PriceID)
			continue
		}
		if item.PriceData == nil {
			return nil, fmt.Errorf("line item %d has neither price nor price_data", i)
		}
		form.Set(prefix+"[price_data][currency]", item.PriceData.Currency)
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(item.PriceData.UnitAmount, 10))
		form.Set(prefix+"[price_data][product_data][name]", item.PriceData.ProductName)
	}

	for key, value := range params.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", key), value)
	}

	var session CheckoutSession
	if err := c.post(ctx, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}

	if session.ID == "" || session.URL == "" {
		return nil, fmt.Errorf("stripe returned an incomplete checkout session")
	}

	return &session, nil
}
