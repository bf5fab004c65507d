package auth

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gst-billing-api/internal/application/dto"
	"github.com/jhoicas/gst-billing-api/internal/domain"
	"github.com/jhoicas/gst-billing-api/internal/domain/entity"
	"github.com/jhoicas/gst-billing-api/pkg/jwt"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]*entity.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]*entity.User{}} }

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id], nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func newUseCase() (*AuthUseCase, *memUsers) {
	users := newMemUsers()
	return NewAuthUseCase(users, JWTConfig{Secret: "test-secret", ExpMinutes: 30, Issuer: "test"}), users
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	user, err := uc.Register(ctx, dto.RegisterRequest{Email: " Owner@Shop.in ", Password: "password1", Name: "Ravi"})
	require.NoError(t, err)
	assert.Equal(t, "owner@shop.in", user.Email)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "OWNER@shop.in", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, 1800, resp.ExpiresIn)

	claims, err := jwt.Parse("test-secret", resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	me, err := uc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", me.Name)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	_, err := uc.Register(ctx, dto.RegisterRequest{Email: "a@b.in", Password: "password1"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, dto.RegisterRequest{Email: "A@B.in", Password: "password2"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "nope", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Email: "a@b.in", Password: "short"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "password", verr.Field)
}

func TestLogin_Failures(t *testing.T) {
	uc, users := newUseCase()
	ctx := context.Background()
	u, err := uc.Register(ctx, dto.RegisterRequest{Email: "a@b.in", Password: "password1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.in", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ghost@b.in", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	users.byID[u.ID].Status = entity.UserStatusSuspended
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.in", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMe_NotFound(t *testing.T) {
	uc, _ := newUseCase()
	_, err := uc.Me(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
