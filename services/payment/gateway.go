package payment

import (
	"context"
	"fmt"
	"time"

	"glowbook/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

const (
	productName = "Make-up Reservation"

	// MinSessionTTL is the shortest expiry Stripe accepts for a checkout session.
	MinSessionTTL = 31 * time.Minute
	maxSessionTTL = 24 * time.Hour
)

// CheckoutRequest describes one hosted-checkout payment for a booking.
type CheckoutRequest struct {
	BookingID     string
	OrderNumber   string
	CustomerEmail string
	Amount        float64 // major units
	ExpiresAt     time.Time
}

// CheckoutSession is the redirect target returned to the client.
type CheckoutSession struct {
	ID  string
	URL string
}

// Gateway opens and cancels hosted checkout sessions.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}

// StripeGateway implements Gateway with Stripe Checkout. The API key is the
// package-level stripe.Key set at startup.
type StripeGateway struct {
	currency    string
	frontendURL string
}

func NewStripeGateway(currency, frontendURL string) *StripeGateway {
	return &StripeGateway{currency: currency, frontendURL: frontendURL}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := buildSessionParams(req, g.currency, g.frontendURL, time.Now())
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (g *StripeGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx
	if _, err := session.Expire(sessionID, params); err != nil {
		return fmt.Errorf("stripe: expire checkout session %s: %w", sessionID, err)
	}
	return nil
}

func buildSessionParams(req CheckoutRequest, currency, frontendURL string, now time.Time) *stripe.CheckoutSessionParams {
	expiresAt := req.ExpiresAt
	if expiresAt.Before(now.Add(MinSessionTTL)) {
		expiresAt = now.Add(MinSessionTTL)
	}
	if expiresAt.After(now.Add(maxSessionTTL)) {
		expiresAt = now.Add(maxSessionTTL)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(productName),
						Description: stripe.String(fmt.Sprintf("Booking Order Number: %s - Make-up Booking", req.OrderNumber)),
					},
					UnitAmount: stripe.Int64(utils.ToMinorUnits(req.Amount)),
				},
				Quantity: stripe.Int64(1),
			},
		},
		CustomerEmail:     stripe.String(req.CustomerEmail),
		ClientReferenceID: stripe.String(req.BookingID),
		SuccessURL:        stripe.String(frontendURL),
		CancelURL:         stripe.String(frontendURL),
		ExpiresAt:         stripe.Int64(expiresAt.Unix()),
	}
	params.AddMetadata("orderNumber", req.OrderNumber)
	params.AddMetadata("bookingId", req.BookingID)
	params.SetIdempotencyKey("checkout-" + req.BookingID)
	return params
}
