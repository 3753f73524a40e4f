package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/lbrossard/indivis/internal/auth"
	"github.com/lbrossard/indivis/internal/estate"
)

func newService(t *testing.T, owner *estate.Owner) *auth.Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := estate.NewMockRepository(ctrl)

	if owner != nil {
		repo.EXPECT().GetOwnerByEmail(gomock.Any(), owner.Email).Return(owner, nil).AnyTimes()
	}

	repo.EXPECT().GetOwnerByEmail(gomock.Any(), gomock.Any()).Return(nil, estate.ErrNotFound).AnyTimes()

	return auth.NewService(estate.NewService(repo), "test-secret", time.Hour)
}

func testOwner(t *testing.T, password string) *estate.Owner {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	return &estate.Owner{
		ID:           uuid.New(),
		Name:         "Jean",
		Email:        "jean@example.com",
		Role:         estate.RoleWrite,
		PasswordHash: hash,
	}
}

func TestService_LoginAndVerify(t *testing.T) {
	owner := testOwner(t, "hunter2")
	svc := newService(t, owner)

	token, got, err := svc.Login(context.Background(), owner.Email, "hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, owner.ID, got.ID)

	identity, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, identity.OwnerID)
	assert.Equal(t, estate.RoleWrite, identity.Role)
}

func TestService_Login_WrongPassword(t *testing.T) {
	owner := testOwner(t, "hunter2")
	svc := newService(t, owner)

	_, _, err := svc.Login(context.Background(), owner.Email, "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Login_UnknownEmail(t *testing.T) {
	svc := newService(t, nil)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "x")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestService_Verify_InvalidToken(t *testing.T) {
	svc := newService(t, nil)

	_, err := svc.Verify("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestService_Verify_WrongSecret(t *testing.T) {
	owner := testOwner(t, "hunter2")
	svc := newService(t, owner)

	token, _, err := svc.Login(context.Background(), owner.Email, "hunter2")
	require.NoError(t, err)

	other := auth.NewService(nil, "other-secret", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestIdentityContext(t *testing.T) {
	id := &auth.Identity{OwnerID: uuid.New(), Role: estate.RoleAdmin}

	ctx := auth.WithIdentity(context.Background(), id)
	got, ok := auth.FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = auth.FromContext(context.Background())
	assert.False(t, ok)
}
