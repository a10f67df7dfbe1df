package user

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

func newService() (*DefaultUserService, *memstore.Store) {
	store := memstore.New()
	return &DefaultUserService{Repo: store.Users(), Logger: zap.NewNop()}, store
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Status
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	reg, err := svc.Register(ctx, models.RegisterRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: " Ada@Example.com ", Password: "secret99",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "ada@example.com", reg.User.Email)
	assert.Equal(t, models.RoleCustomer, reg.User.Role)
	assert.NotEqual(t, "secret99", reg.User.PasswordHash)

	sub, role, err := utils.ExtractClaims(reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, sub)
	assert.Equal(t, models.RoleCustomer, role)

	login, err := svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "secret99"})
	require.NoError(t, err)
	assert.Equal(t, reg.ID, login.ID)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "secret99"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))

	_, err = svc.Register(ctx, models.RegisterRequest{FirstName: "Ada", Email: "ada@example.com", Password: "another1"})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestRegisterClaimsGuestAccount(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &models.User{
		ID: "guest-1", FirstName: "Ada", Email: "ada@example.com",
		Role: models.RoleCustomer, Status: models.UserStatusGuest,
	}))

	_, err := svc.Login(ctx, models.LoginRequest{Email: "ada@example.com", Password: "anything"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err), "guests have no password")

	reg, err := svc.Register(ctx, models.RegisterRequest{FirstName: "Ada", Email: "ada@example.com", Password: "secret99"})
	require.NoError(t, err)
	assert.Equal(t, "guest-1", reg.ID)
	assert.Equal(t, models.UserStatusActive, reg.User.Status)

	all, err := svc.GetAllUsers(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateUserAllowList(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &models.User{
		ID: "u-1", FirstName: "Ada", Email: "ada@example.com", Role: models.RoleCustomer,
	}))

	country := " Ireland "
	updated, err := svc.UpdateUser(ctx, "u-1", models.UserUpdateRequest{Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "Ireland", updated.Country)
	assert.Equal(t, models.RoleCustomer, updated.Role)

	empty := ""
	_, err = svc.UpdateUser(ctx, "u-1", models.UserUpdateRequest{FirstName: &empty})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.UpdateUser(ctx, "missing", models.UserUpdateRequest{Country: &country})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestGetAllUsersByRole(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "a", Email: "a@x.io", Role: models.RoleAdmin}))
	require.NoError(t, store.Users().Create(ctx, &models.User{ID: "c", Email: "c@x.io", Role: models.RoleCustomer}))

	admins, err := svc.GetAllUsers(ctx, models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "a", admins[0].ID)
}
