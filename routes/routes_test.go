package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"glowbook/database/repository/memstore"
	"glowbook/handlers"
	"glowbook/models"
	"glowbook/services/booking"
	"glowbook/services/catalog"
	"glowbook/services/events"
	"glowbook/services/inquiry"
	"glowbook/services/invoice"
	"glowbook/services/newsletter"
	"glowbook/services/payment"
	"glowbook/services/prep"
	"glowbook/services/presence"
	"glowbook/services/realtime"
	"glowbook/services/storage"
	"glowbook/services/user"
	"glowbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubGateway struct{}

func (stubGateway) CreateCheckoutSession(_ context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
	return &payment.CheckoutSession{ID: "cs_" + req.BookingID, URL: "https://checkout.test/" + req.BookingID}, nil
}

func (stubGateway) ExpireCheckoutSession(context.Context, string) error { return nil }

type stubScheduler struct{}

func (stubScheduler) ScheduleHoldExpiry(context.Context, string, time.Time) error { return nil }

type testAPI struct {
	router *gin.Engine
	store  *memstore.Store
	admin  string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memstore.New()
	logger := zap.NewNop()
	ctx := context.Background()

	require.NoError(t, store.Users().Create(ctx, &models.User{
		ID: "admin-1", FirstName: "Grace", Email: "grace@glow.io", Role: models.RoleAdmin, Status: models.UserStatusActive,
	}))
	require.NoError(t, store.Services().Create(ctx, &models.Service{
		ID: "svc-1", Title: "Bridal", Price: 100, Category: models.CategorySingle,
		IsAvailable: true, IsClean: true, Publish: models.PublishPublished,
	}))
	adminToken, err := utils.GenerateToken("admin-1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	invoices := &invoice.DefaultInvoiceService{
		Repo: store.Invoices(), Bookings: store.Bookings(), Users: store.Users(), Services: store.Services(),
		Events: events.NoopPublisher{}, Logger: logger,
	}
	bookings := &booking.DefaultBookingService{
		Users: store.Users(), Services: store.Services(), Bookings: store.Bookings(),
		Availability: store.Availability(), Tx: store, Payments: stubGateway{}, Invoices: invoices,
		Scheduler: stubScheduler{}, Events: events.NoopPublisher{}, Logger: logger,
		Settings: booking.Settings{HoldTTL: 30 * time.Minute, CheckInHour: 14, CheckOutHour: 12, Location: time.UTC},
	}
	users := &user.DefaultUserService{Repo: store.Users(), Logger: logger}
	pres := presence.NewMemoryStore()
	hub := realtime.NewHub(pres, logger, nil)
	t.Cleanup(hub.Close)

	hb := &handlers.HandlerBundle{
		UserRepo: store.Users(),
		Hub:      hub,
		Auth:     handlers.NewAuthHandler(users, false),
		Users:    handlers.NewUserHandler(users),
		Booking:  handlers.NewBookingHandler(bookings, "whsec_test"),
		Catalog: handlers.NewCatalogHandler(&catalog.DefaultCatalogService{
			Services: store.Services(), Carousels: store.Carousels(), Availability: store.Availability(),
			Storage: storage.Unconfigured{}, Logger: logger,
		}),
		Preps:    handlers.NewPrepHandler(&prep.DefaultPrepService{Repo: store.Preps(), Bookings: store.Bookings(), Logger: logger}),
		Invoices: handlers.NewInvoiceHandler(invoices),
		Inquiries: handlers.NewInquiryHandler(&inquiry.DefaultInquiryService{
			Repo: store.Inquiries(), Users: store.Users(), Presence: pres, Notifier: hub, Logger: logger,
		}),
		Newsletter: handlers.NewNewsletterHandler(&newsletter.DefaultNewsletterService{Logger: logger}),
	}

	r := gin.New()
	RegisterRoutes(r, hb)
	return &testAPI{router: r, store: store, admin: adminToken}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func cashBooking() gin.H {
	return gin.H{
		"customer":    gin.H{"name": "Ada Lovelace", "email": "ada@example.com", "phoneNumber": "+3531234567"},
		"services":    []gin.H{{"serviceId": "svc-1", "checkIn": "2030-05-01", "checkOut": "2030-05-03"}},
		"paymentMode": "cash",
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGuestBookingThenRegisterClaimsIt(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodPost, "/api/booking", "", cashBooking())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created models.CreateBookingResponse
	decode(t, w, &created)
	require.Len(t, created.Bookings, 1)
	assert.Equal(t, 100.0, created.TotalPrice)
	bookingID := created.Bookings[0].ID

	w = api.do(t, http.MethodGet, "/api/booking/"+bookingID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"firstName": "Ada", "email": "ada@example.com", "password": "s3cret!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var auth user.AuthResponse
	decode(t, w, &auth)
	require.NotEmpty(t, auth.Token)
	assert.Equal(t, created.Bookings[0].Customer, auth.ID)

	w = api.do(t, http.MethodGet, "/api/auth/me", auth.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/booking/user/"+auth.ID, auth.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var mine []models.BookingView
	decode(t, w, &mine)
	assert.Len(t, mine, 1)

	w = api.do(t, http.MethodGet, "/api/booking/"+bookingID, auth.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// admin-only routes stay closed to customers
	w = api.do(t, http.MethodGet, "/api/booking", auth.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = api.do(t, http.MethodPut, "/api/booking/checkout/"+bookingID, auth.Token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminCheckout(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodPost, "/api/booking", "", cashBooking())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var created models.CreateBookingResponse
	decode(t, w, &created)
	bookingID := created.Bookings[0].ID

	w = api.do(t, http.MethodGet, "/api/booking/getByStatus?status=paid", api.admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var paid []models.BookingView
	decode(t, w, &paid)
	assert.Len(t, paid, 1)

	w = api.do(t, http.MethodPut, "/api/booking/checkout/"+bookingID, api.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, api.store.Blocks(bookingID))

	w = api.do(t, http.MethodPut, "/api/booking/checkout/"+bookingID, api.admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPut, "/api/booking/checkout/missing", api.admin, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingValidationErrors(t *testing.T) {
	api := newTestAPI(t)

	body := cashBooking()
	body["services"] = []gin.H{{"serviceId": "nope", "checkIn": "2030-05-01", "checkOut": "2030-05-03"}}
	w := api.do(t, http.MethodPost, "/api/booking", "", body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPost, "/api/booking", "", gin.H{"paymentMode": "cash"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var envelope map[string]interface{}
	decode(t, w, &envelope)
	assert.Equal(t, false, envelope["success"])
}

func TestStripeWebhookRejectsBadSignature(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/booking/webhook/stripe", bytes.NewBufferString(`{"type":"checkout.session.completed"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogReadsArePublicWritesAreAdmin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/services", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var services []models.Service
	decode(t, w, &services)
	assert.Len(t, services, 1)

	w = api.do(t, http.MethodDelete, "/api/services/svc-1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodDelete, "/api/services/svc-1", api.admin, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.do(t, http.MethodGet, "/api/services/svc-1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInquiryScopedToCustomer(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.store.Users().Create(context.Background(), &models.User{
		ID: "cust-1", Email: "c1@example.com", Role: models.RoleCustomer, Status: models.UserStatusActive,
	}))
	require.NoError(t, api.store.Users().Create(context.Background(), &models.User{
		ID: "cust-2", Email: "c2@example.com", Role: models.RoleCustomer, Status: models.UserStatusActive,
	}))
	tok1, err := utils.GenerateToken("cust-1", models.RoleCustomer, time.Hour)
	require.NoError(t, err)
	tok2, err := utils.GenerateToken("cust-2", models.RoleCustomer, time.Hour)
	require.NoError(t, err)

	w := api.do(t, http.MethodPost, "/api/inquiry", tok1, gin.H{"subject": "Trial", "message": "Is Saturday free?"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var inq models.Inquiry
	decode(t, w, &inq)
	assert.Equal(t, "admin-1", inq.AssignedStaff)

	w = api.do(t, http.MethodGet, "/api/inquiry/"+inq.ID, tok2, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, "/api/inquiry", tok2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var others []models.Inquiry
	decode(t, w, &others)
	assert.Empty(t, others)

	w = api.do(t, http.MethodPost, "/api/inquiry/"+inq.ID+"/messages", api.admin, gin.H{"message": "Yes it is"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &inq)
	require.Len(t, inq.Messages, 2)
	assert.Equal(t, models.SenderAdmin, inq.Messages[1].Sender)

	w = api.do(t, http.MethodDelete, "/api/inquiry/"+inq.ID, tok1, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNewsletterWithoutMailchimp(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(t, http.MethodPost, "/api/mailchimp/subscribe", "", gin.H{"email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")

	w = api.do(t, http.MethodGet, "/api/mailchimp/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
