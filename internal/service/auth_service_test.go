package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/config"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/dto"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/model"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/repository"
	"github.com/lacasandileprecious/v0-mis-for-autoglass/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return errors.New("duplicate username")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	r.users[u.ID] = u
	r.mu.Unlock()
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = false
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Active = true
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func buildAuthSvc() (service.AuthService, *stubUserRepo) {
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(repo, cfg), repo
}

func TestAuth_LoginRoundTrip(t *testing.T) {
	svc, _ := buildAuthSvc()

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "cashier1",
		FullName: "Front Counter",
		Password: "hunter2hunter2",
		Role:     model.RoleCashier,
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, model.RoleCashier, resp.User.Role)

	// Refresh issues a fresh token pair.
	refreshed, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "cashier1", refreshed.User.Username)
}

func TestAuth_LoginWrongPassword(t *testing.T) {
	svc, _ := buildAuthSvc()

	_, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "admin",
		FullName: "Administrator",
		Password: "correct-password",
		Role:     model.RoleAdmin,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "wrong"})
	assert.ErrorContains(t, err, "invalid credentials")

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "whatever"})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestAuth_RefreshRejectsGarbage(t *testing.T) {
	svc, _ := buildAuthSvc()

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestAuth_DeactivatedUserCannotLoginOrRefresh(t *testing.T) {
	svc, repo := buildAuthSvc()

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "staff1",
		FullName: "Installer",
		Password: "password123",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "staff1", Password: "password123"})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateUser(context.Background(), uuid.MustParse(created.ID)))

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "staff1", Password: "password123"})
	assert.Error(t, err)

	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.ErrorContains(t, err, "inactive")

	// Reactivation restores access.
	require.NoError(t, svc.ReactivateUser(context.Background(), uuid.MustParse(created.ID)))
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "staff1", Password: "password123"})
	assert.NoError(t, err)

	users, err := svc.ListUsers(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, users, 1)

	_ = repo
}

func TestAuth_UpdateUserChangesPassword(t *testing.T) {
	svc, _ := buildAuthSvc()

	created, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "cashier2",
		FullName: "Evening Shift",
		Password: "old-password",
		Role:     model.RoleCashier,
	})
	require.NoError(t, err)

	_, err = svc.UpdateUser(context.Background(), uuid.MustParse(created.ID), dto.UpdateUserRequest{
		Password: "new-password",
		Role:     model.RoleStaff,
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "cashier2", Password: "old-password"})
	assert.Error(t, err)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier2", Password: "new-password"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleStaff, resp.User.Role)
}
