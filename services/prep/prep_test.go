package prep

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"glowbook/database/repository/memstore"
	"glowbook/models"
	"glowbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Status
}

func TestPrepLifecycle(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	require.NoError(t, store.Bookings().Create(ctx, &models.Booking{ID: "b-1", OrderNumber: "#00000001", Customer: "u-1"}))
	svc := &DefaultPrepService{Repo: store.Preps(), Bookings: store.Bookings(), Logger: zap.NewNop()}

	p, err := svc.Create(ctx, models.PrepRequest{Booking: "b-1", Notes: " bare skin, no lashes "})
	require.NoError(t, err)
	assert.Equal(t, "u-1", p.Customer)
	assert.Equal(t, "bare skin, no lashes", p.Notes)

	_, err = svc.Create(ctx, models.PrepRequest{Customer: "u-2", Booking: "b-1", Notes: "x"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	_, err = svc.Create(ctx, models.PrepRequest{Booking: "nope", Notes: "x"})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	notes := "lashes after all"
	updated, err := svc.Update(ctx, p.ID, models.PrepUpdateRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	list, err := svc.List(ctx, models.PrepFilter{Customer: "u-1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	list, err = svc.List(ctx, models.PrepFilter{Booking: "other"})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.Equal(t, http.StatusNotFound, statusOf(t, svc.Delete(ctx, p.ID)))
}
