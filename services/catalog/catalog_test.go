package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"glowbook/database/repository/memstore"
	"glowbook/models"
	"glowbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStorage struct {
	mu       sync.Mutex
	n        int
	deleted  []string
	failNext bool
}

func (f *fakeStorage) UploadImage(_ context.Context, file io.Reader, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext {
		return "", errors.New("cloudinary down")
	}
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	f.n++
	return fmt.Sprintf("https://img.test/%d-%s", f.n, filename), nil
}

func (f *fakeStorage) DeleteByURL(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

func upload(name string) Upload {
	return Upload{Filename: name, Open: func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("img")), nil
	}}
}

func newCatalog() (*DefaultCatalogService, *fakeStorage, *memstore.Store) {
	store := memstore.New()
	st := &fakeStorage{}
	return &DefaultCatalogService{
		Services:     store.Services(),
		Carousels:    store.Carousels(),
		Availability: store.Availability(),
		Storage:      st,
		Logger:       zap.NewNop(),
	}, st, store
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Status
}

func price(v float64) *float64 { return &v }

func TestCreateServiceDefaults(t *testing.T) {
	svc, _, _ := newCatalog()
	created, err := svc.CreateService(context.Background(), models.ServiceInput{
		Title: " Bridal ", Price: price(120.456), Category: models.CategorySingle,
	}, []Upload{upload("a.jpg")})
	require.NoError(t, err)

	assert.Equal(t, "Bridal", created.Title)
	assert.Equal(t, 120.46, created.Price)
	assert.True(t, created.IsAvailable)
	assert.True(t, created.IsClean)
	assert.Equal(t, models.PublishPublished, created.Publish)
	assert.Len(t, created.Images, 1)
}

func TestCreateServiceValidation(t *testing.T) {
	svc, _, _ := newCatalog()
	ctx := context.Background()

	cases := map[string]models.ServiceInput{
		"missing title":  {Price: price(10), Category: models.CategorySingle},
		"missing price":  {Title: "x", Category: models.CategorySingle},
		"negative price": {Title: "x", Price: price(-1), Category: models.CategorySingle},
		"bad category":   {Title: "x", Price: price(10), Category: "Nails"},
		"bad publish":    {Title: "x", Price: price(10), Category: models.CategorySingle, Publish: "hidden"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateService(ctx, in, nil)
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		})
	}
}

func TestCreateServiceUploadFailureCleansUp(t *testing.T) {
	svc, st, store := newCatalog()
	st.failNext = true
	_, err := svc.CreateService(context.Background(), models.ServiceInput{
		Title: "x", Price: price(10), Category: models.CategorySingle,
	}, []Upload{upload("a.jpg")})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	all, err := store.Services().GetAll(context.Background(), models.ServiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestUpdateServiceRetainsPreviousImages(t *testing.T) {
	svc, st, _ := newCatalog()
	ctx := context.Background()
	created, err := svc.CreateService(ctx, models.ServiceInput{
		Title: "Glam", Price: price(80), Category: models.CategoryEvent,
	}, []Upload{upload("a.jpg"), upload("b.jpg")})
	require.NoError(t, err)
	keep, drop := created.Images[0], created.Images[1]

	off := false
	updated, err := svc.UpdateService(ctx, created.ID, models.ServiceInput{
		Price:          price(95),
		IsAvailable:    &off,
		PreviousImages: []string{keep},
	}, []Upload{upload("c.jpg")})
	require.NoError(t, err)

	assert.Equal(t, 95.0, updated.Price)
	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "Glam", updated.Title)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, keep, updated.Images[0])
	assert.Equal(t, []string{drop}, st.deleted)
}

func TestUpdateServiceWithoutImageFieldsKeepsImages(t *testing.T) {
	svc, st, _ := newCatalog()
	ctx := context.Background()
	created, err := svc.CreateService(ctx, models.ServiceInput{
		Title: "Glam", Price: price(80), Category: models.CategoryEvent,
	}, []Upload{upload("a.jpg")})
	require.NoError(t, err)

	updated, err := svc.UpdateService(ctx, created.ID, models.ServiceInput{Title: "Glam+"}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.Images, updated.Images)
	assert.Empty(t, st.deleted)

	_, err = svc.UpdateService(ctx, "missing", models.ServiceInput{Title: "x"}, nil)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestDeleteServiceRefusesUpcomingBlocks(t *testing.T) {
	svc, st, store := newCatalog()
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	created, err := svc.CreateService(ctx, models.ServiceInput{
		Title: "Glam", Price: price(80), Category: models.CategoryEvent,
	}, []Upload{upload("a.jpg")})
	require.NoError(t, err)

	require.NoError(t, store.Availability().CreateBlocks(ctx, []models.AvailabilityBlock{{
		ID: "blk-1", ServiceID: created.ID, BookingID: "b-1",
		StartDate: now.AddDate(0, 0, 3), EndDate: now.AddDate(0, 0, 4),
	}}))
	err = svc.DeleteService(ctx, created.ID)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	require.NoError(t, store.Availability().DeleteBlocksByBooking(ctx, "b-1"))
	require.NoError(t, svc.DeleteService(ctx, created.ID))
	assert.Equal(t, created.Images, st.deleted)

	_, err = svc.GetService(ctx, created.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestCarouselLifecycle(t *testing.T) {
	svc, st, _ := newCatalog()
	ctx := context.Background()

	_, err := svc.CreateCarousel(ctx, models.CarouselInput{Title: "Spring"}, nil)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	slide, err := svc.CreateCarousel(ctx, models.CarouselInput{Title: "Spring"}, []Upload{upload("s.jpg")})
	require.NoError(t, err)
	assert.True(t, slide.IsActive)

	inactive := false
	_, err = svc.UpdateCarousel(ctx, slide.ID, models.CarouselInput{IsActive: &inactive, PreviousImages: []string{}}, nil)
	require.NoError(t, err)
	assert.Equal(t, slide.Images, st.deleted)

	active, err := svc.ListCarousels(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := svc.ListCarousels(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Empty(t, all[0].Images)

	require.NoError(t, svc.DeleteCarousel(ctx, slide.ID))
	_, err = svc.GetCarousel(ctx, slide.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}
