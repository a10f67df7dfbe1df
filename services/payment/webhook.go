package payment

import (
	"encoding/json"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventCheckoutExpired       = "checkout.session.expired"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	EventAsyncPaymentFailed    = "checkout.session.async_payment_failed"
)

func isCheckoutEvent(t string) bool {
	switch t {
	case EventCheckoutCompleted, EventCheckoutExpired, EventAsyncPaymentSucceeded, EventAsyncPaymentFailed:
		return true
	}
	return false
}

// WebhookEvent is the subset of a Stripe checkout event the booking flow needs.
type WebhookEvent struct {
	Type        string
	SessionID   string
	BookingID   string
	OrderNumber string
	Paid        bool
}

// ParseWebhook verifies the Stripe-Signature header and decodes checkout
// session events. Other event types come back with only Type set.
func ParseWebhook(payload []byte, sigHeader, secret string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("stripe: invalid webhook: %w", err)
	}

	out := &WebhookEvent{Type: string(event.Type)}
	if !isCheckoutEvent(out.Type) {
		return out, nil
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("stripe: decode checkout session: %w", err)
	}
	out.SessionID = cs.ID
	out.BookingID = cs.ClientReferenceID
	if out.BookingID == "" {
		out.BookingID = cs.Metadata["bookingId"]
	}
	out.OrderNumber = cs.Metadata["orderNumber"]
	out.Paid = cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
		cs.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired
	return out, nil
}
