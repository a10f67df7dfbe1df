package inquiry

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"glowbook/database/repository/memstore"
	"glowbook/models"
	"glowbook/services/presence"
	"glowbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sent struct {
	user  string
	event string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
}

func (n *recordingNotifier) EmitToUser(_ context.Context, userID, event string, _ interface{}) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sent{user: userID, event: event})
	return nil
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Status
}

func setup(t *testing.T) (*DefaultInquiryService, *presence.MemoryStore, *recordingNotifier) {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "admin-a", Email: "a@glow.io", Role: models.RoleAdmin}))
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "admin-b", Email: "b@glow.io", Role: models.RoleAdmin}))
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "cust", Email: "c@glow.io", Role: models.RoleCustomer}))

	pres := presence.NewMemoryStore()
	notifier := &recordingNotifier{}
	return &DefaultInquiryService{
		Repo:     store.Inquiries(),
		Users:    store.Users(),
		Presence: pres,
		Notifier: notifier,
		Logger:   zap.NewNop(),
	}, pres, notifier
}

func TestCreateAssignsOnlineAdmin(t *testing.T) {
	svc, pres, notifier := setup(t)
	ctx := context.Background()
	require.NoError(t, pres.Set(ctx, "cust", "conn-1"))
	require.NoError(t, pres.Set(ctx, "admin-b", "conn-2"))

	inq, err := svc.Create(ctx, "cust", models.InquiryCreateRequest{Subject: "Trial run", Message: "Do you travel?"})
	require.NoError(t, err)
	assert.Equal(t, "admin-b", inq.AssignedStaff)
	assert.Equal(t, models.InquiryOpen, inq.InquiryStatus)
	require.Len(t, inq.Messages, 1)
	assert.Equal(t, models.SenderCustomer, inq.Messages[0].Sender)
	assert.Equal(t, []sent{{user: "admin-b", event: EventInquiryNew}}, notifier.sent)
}

func TestCreateFallsBackToAnyAdmin(t *testing.T) {
	svc, _, _ := setup(t)
	inq, err := svc.Create(context.Background(), "cust", models.InquiryCreateRequest{Subject: "Hi", Message: "Hello"})
	require.NoError(t, err)
	assert.Contains(t, []string{"admin-a", "admin-b"}, inq.AssignedStaff)
}

func TestMessagesNotifyCounterpart(t *testing.T) {
	svc, pres, notifier := setup(t)
	ctx := context.Background()
	require.NoError(t, pres.Set(ctx, "admin-a", "conn-1"))

	inq, err := svc.Create(ctx, "cust", models.InquiryCreateRequest{Subject: "Hi", Message: "Hello"})
	require.NoError(t, err)
	notifier.sent = nil

	_, err = svc.AddMessage(ctx, inq.ID, models.SenderAdmin, models.InquiryMessageRequest{Message: "Hi there"})
	require.NoError(t, err)
	updated, err := svc.AddMessage(ctx, inq.ID, models.SenderCustomer, models.InquiryMessageRequest{Message: "Thanks"})
	require.NoError(t, err)
	assert.Len(t, updated.Messages, 3)
	assert.Equal(t, []sent{
		{user: "cust", event: EventInquiryMessage},
		{user: "admin-a", event: EventInquiryMessage},
	}, notifier.sent)

	_, err = svc.AddMessage(ctx, inq.ID, "bot", models.InquiryMessageRequest{Message: "x"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestStatusAndCommunicationHistory(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	inq, err := svc.Create(ctx, "cust", models.InquiryCreateRequest{Subject: "Hi", Message: "Hello"})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, inq.ID, models.InquiryStatusRequest{Status: "archived"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.AddCommunication(ctx, inq.ID, models.CommunicationRequest{Action: "called", Notes: "left voicemail"})
	require.NoError(t, err)
	closed, err := svc.UpdateStatus(ctx, inq.ID, models.InquiryStatusRequest{Status: models.InquiryClosed})
	require.NoError(t, err)
	assert.Equal(t, models.InquiryClosed, closed.InquiryStatus)
	assert.Len(t, closed.CommunicationHistory, 3)

	_, err = svc.AddMessage(ctx, inq.ID, models.SenderCustomer, models.InquiryMessageRequest{Message: "again"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	list, err := svc.List(ctx, models.InquiryFilter{Customer: "cust", Status: models.InquiryClosed})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, inq.ID))
	_, err = svc.GetByID(ctx, inq.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}
