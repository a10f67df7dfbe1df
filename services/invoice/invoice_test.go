package invoice

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"glowbook/database/repository/memstore"
	"glowbook/models"
	"glowbook/services/events"
	"glowbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newInvoiceService(store *memstore.Store) *DefaultInvoiceService {
	return &DefaultInvoiceService{
		Repo:     store.Invoices(),
		Bookings: store.Bookings(),
		Users:    store.Users(),
		Services: store.Services(),
		Events:   events.NoopPublisher{},
		Logger:   zap.NewNop(),
		Settings: Settings{From: models.InvoiceParty{Name: "Glow Studio"}, DueDays: 7},
		Now:      func() time.Time { return fixedNow },
	}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Status
}

func seedPaidBooking(t *testing.T, store *memstore.Store) *models.Booking {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "u-1", Email: "ada@example.com", Role: models.RoleCustomer}))
	require.NoError(t, store.Services().Create(ctx, &models.Service{
		ID: "svc-1", Title: "Bridal", Price: 100, Category: models.CategorySingle, Images: []string{"https://img/1"},
	}))
	checkIn := time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC)
	require.NoError(t, store.Bookings().SaveAdditionalItems(ctx, &models.AdditionalItems{
		ID: "add-1", Booking: "b-1", Customer: "u-1",
		Items:       []models.AdditionalItem{{Name: "Lashes", Quantity: 1, Amount: 15}},
		TotalAmount: 15,
	}))
	b := &models.Booking{
		ID: "b-1", OrderNumber: "#12345678", Customer: "u-1", Status: models.StatusPaid,
		PaymentMode: models.PaymentModeCash, TotalPrice: 215, AdditionalItems: "add-1",
		Services: []models.BookedService{{
			ServiceID: "svc-1", CheckIn: checkIn, CheckOut: checkIn.AddDate(0, 0, 2), Duration: 2, TPrice: 200,
		}},
	}
	require.NoError(t, store.Bookings().Create(ctx, b))
	return b
}

func TestBuildItems(t *testing.T) {
	checkIn := time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC)
	b := &models.Booking{Services: []models.BookedService{
		{ServiceID: "svc-1", CheckIn: checkIn, TPrice: 100},
		{ServiceID: "gone", TPrice: 50},
	}}
	items := BuildItems(b, []models.Service{{ID: "svc-1", Title: "Bridal", Category: models.CategorySingle}},
		&models.AdditionalItems{Items: []models.AdditionalItem{{Name: "Lashes", Quantity: 2, Amount: 30}}})

	require.Len(t, items, 3)
	assert.Equal(t, "Bridal", items[0].Title)
	assert.Equal(t, checkIn, *items[0].CheckIn)
	assert.Equal(t, "Service", items[1].Title)
	assert.Nil(t, items[1].CheckIn)
	assert.Equal(t, "Lashes", items[2].Title)
	assert.Equal(t, 2, items[2].Quantity)
}

func TestGenerateForBookingIsIdempotent(t *testing.T) {
	store := memstore.New()
	svc := newInvoiceService(store)
	b := seedPaidBooking(t, store)
	ctx := context.Background()

	inv, err := svc.GenerateForBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(inv.InvoiceNumber, "INV-"))
	assert.Equal(t, models.InvoicePaid, inv.Status)
	assert.Equal(t, 215.0, inv.TotalAmount)
	assert.Equal(t, fixedNow.AddDate(0, 0, 7), inv.DueDate)
	assert.Len(t, inv.Items, 2)

	linked, err := store.Bookings().GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, linked.InvoiceID)

	again, err := svc.GenerateForBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, again.ID)

	all, err := svc.List(ctx, models.InvoiceFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.GenerateForBooking(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestManualInvoiceCrud(t *testing.T) {
	store := memstore.New()
	svc := newInvoiceService(store)
	seedPaidBooking(t, store)
	ctx := context.Background()

	_, err := svc.Create(ctx, models.InvoiceCreateRequest{InvoiceTo: "nobody", Items: []models.InvoiceItem{{Title: "x", Price: 1}}})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	inv, err := svc.Create(ctx, models.InvoiceCreateRequest{
		InvoiceTo: "u-1",
		Items: []models.InvoiceItem{
			{Title: "Trial", Price: 40, Quantity: 2},
			{Title: "Travel", Price: 12.5},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 92.5, inv.TotalAmount)
	assert.Equal(t, models.InvoicePending, inv.Status)

	overdue := models.InvoiceOverdue
	updated, err := svc.Update(ctx, inv.ID, models.InvoiceUpdateRequest{Status: &overdue})
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceOverdue, updated.Status)

	bogus := "void"
	_, err = svc.Update(ctx, inv.ID, models.InvoiceUpdateRequest{Status: &bogus})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	_, err = svc.Update(ctx, inv.ID, models.InvoiceUpdateRequest{})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	filtered, err := svc.List(ctx, models.InvoiceFilter{Status: models.InvoiceOverdue, InvoiceTo: "u-1"})
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	require.NoError(t, svc.Delete(ctx, inv.ID))
	_, err = svc.GetByID(ctx, inv.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}
