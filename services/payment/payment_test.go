package payment

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76/webhook"
)

func TestBuildSessionParams(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	req := CheckoutRequest{
		BookingID:     "b-1",
		OrderNumber:   "#12345678",
		CustomerEmail: "ada@example.com",
		Amount:        100,
		ExpiresAt:     now.Add(45 * time.Minute),
	}

	p := buildSessionParams(req, "eur", "https://glow.example", now)

	require.Len(t, p.LineItems, 1)
	item := p.LineItems[0]
	assert.Equal(t, int64(10000), *item.PriceData.UnitAmount)
	assert.Equal(t, "eur", *item.PriceData.Currency)
	assert.Equal(t, "Make-up Reservation", *item.PriceData.ProductData.Name)
	assert.Contains(t, *item.PriceData.ProductData.Description, "#12345678")
	assert.Equal(t, int64(1), *item.Quantity)
	assert.Equal(t, "payment", *p.Mode)
	require.Len(t, p.PaymentMethodTypes, 1)
	assert.Equal(t, "card", *p.PaymentMethodTypes[0])
	assert.Equal(t, "https://glow.example", *p.SuccessURL)
	assert.Equal(t, "https://glow.example", *p.CancelURL)
	assert.Equal(t, "b-1", *p.ClientReferenceID)
	assert.Equal(t, "#12345678", p.Metadata["orderNumber"])
	assert.Equal(t, now.Add(45*time.Minute).Unix(), *p.ExpiresAt)
}

func TestBuildSessionParamsClampsExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	p := buildSessionParams(CheckoutRequest{ExpiresAt: now.Add(5 * time.Minute)}, "eur", "", now)
	assert.Equal(t, now.Add(MinSessionTTL).Unix(), *p.ExpiresAt)

	p = buildSessionParams(CheckoutRequest{ExpiresAt: now.Add(72 * time.Hour)}, "eur", "", now)
	assert.Equal(t, now.Add(24*time.Hour).Unix(), *p.ExpiresAt)
}

func signedPayload(t *testing.T, payload []byte, secret string) string {
	t.Helper()
	ts := time.Now()
	sig := webhook.ComputeSignature(ts, payload, secret)
	return fmt.Sprintf("t=%d,v1=%x", ts.Unix(), sig)
}

func TestParseWebhookCompleted(t *testing.T) {
	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"client_reference_id": "b-1",
			"payment_status": "paid",
			"metadata": {"orderNumber": "#12345678"}
		}}
	}`)

	ev, err := ParseWebhook(payload, signedPayload(t, payload, "whsec_test"), "whsec_test")
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, ev.Type)
	assert.Equal(t, "cs_test_1", ev.SessionID)
	assert.Equal(t, "b-1", ev.BookingID)
	assert.Equal(t, "#12345678", ev.OrderNumber)
	assert.True(t, ev.Paid)
}

func TestParseWebhookRejectsBadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)

	_, err := ParseWebhook(payload, signedPayload(t, payload, "other_secret"), "whsec_test")
	assert.Error(t, err)
}

func TestParseWebhookIgnoresOtherEvents(t *testing.T) {
	payload := []byte(`{"id":"evt_2","object":"event","type":"payment_intent.created","data":{"object":{}}}`)

	ev, err := ParseWebhook(payload, signedPayload(t, payload, "whsec_test"), "whsec_test")
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.created", ev.Type)
	assert.Empty(t, ev.BookingID)
}

func TestParseWebhookAsyncPaymentEvents(t *testing.T) {
	for _, tc := range []struct {
		eventType string
		status    string
		paid      bool
	}{
		{EventAsyncPaymentSucceeded, "paid", true},
		{EventAsyncPaymentFailed, "unpaid", false},
	} {
		t.Run(tc.eventType, func(t *testing.T) {
			payload := []byte(fmt.Sprintf(`{
				"id": "evt_3",
				"object": "event",
				"type": %q,
				"data": {"object": {
					"id": "cs_test_2",
					"object": "checkout.session",
					"client_reference_id": "b-2",
					"payment_status": %q
				}}
			}`, tc.eventType, tc.status))

			ev, err := ParseWebhook(payload, signedPayload(t, payload, "whsec_test"), "whsec_test")
			require.NoError(t, err)
			assert.Equal(t, tc.eventType, ev.Type)
			assert.Equal(t, "cs_test_2", ev.SessionID)
			assert.Equal(t, "b-2", ev.BookingID)
			assert.Equal(t, tc.paid, ev.Paid)
		})
	}
}
