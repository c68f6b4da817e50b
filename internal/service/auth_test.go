package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dtroode/furniture-server/internal/apierrors"
	"github.com/dtroode/furniture-server/internal/mocks"
	"github.com/dtroode/furniture-server/internal/model"
	"github.com/dtroode/furniture-server/internal/password"
	"github.com/dtroode/furniture-server/internal/testutil"
	"github.com/dtroode/furniture-server/internal/token"
)

func newTestAuth(store model.AdminStore, open bool) *Auth {
	return NewAuth(
		store,
		token.NewJWT("test-secret", time.Hour),
		password.NewBcrypt(bcrypt.MinCost),
		nil,
		testutil.MakeNoopLogger(),
		open,
	)
}

func requireKind(t *testing.T, err error, kind apierrors.Kind) *apierrors.APIError {
	t.Helper()

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr), "expected API error, got %v", err)
	assert.Equal(t, kind, apiErr.Kind)
	return apiErr
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestAuth(testutil.NewAdminStore(), false)

	require.NoError(t, svc.Register(ctx, nil, "a@x.com", "pw1"))

	res, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", res.Email)
	assert.NotEmpty(t, res.Token)
	assert.NotEqual(t, uuid.Nil, res.ID)

	adminID, err := svc.GetAdminID(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.ID, adminID)
}

func TestAuth_Login_FailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestAuth(testutil.NewAdminStore(), false)
	require.NoError(t, svc.Register(ctx, nil, "a@x.com", "pw1"))

	_, wrongPassword := svc.Login(ctx, "a@x.com", "nope")
	_, unknownEmail := svc.Login(ctx, "b@x.com", "pw1")

	first := requireKind(t, wrongPassword, apierrors.KindUnauthorized)
	second := requireKind(t, unknownEmail, apierrors.KindUnauthorized)
	assert.Equal(t, first.Message, second.Message)
	assert.Equal(t, "Invalid email or password", first.Message)
}

func TestAuth_Login_TrimsEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestAuth(testutil.NewAdminStore(), false)
	require.NoError(t, svc.Register(ctx, nil, "a@x.com", "pw1"))

	_, err := svc.Login(ctx, "  a@x.com ", "pw1")
	assert.NoError(t, err)
}

func TestAuth_Login_StoreError(t *testing.T) {
	t.Parallel()

	store := mocks.NewAdminStore(t)
	store.On("GetByEmail", mock.Anything, "a@x.com").Return(model.Admin{}, assert.AnError)

	svc := newTestAuth(store, false)
	_, err := svc.Login(context.Background(), "a@x.com", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAuth_Login_TokenError(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := testutil.NewAdminStore()
	require.NoError(t, newTestAuth(store, false).Register(ctx, nil, "a@x.com", "pw"))

	tokens := mocks.NewTokenManager(t)
	tokens.On("GenerateAccessToken", mock.AnythingOfType("uuid.UUID")).Return("", assert.AnError).Once()

	svc := NewAuth(store, tokens, password.NewBcrypt(bcrypt.MinCost), nil, testutil.MakeNoopLogger(), false)
	_, err := svc.Login(ctx, "a@x.com", "pw")
	assert.ErrorIs(t, err, assert.AnError)
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()

	actor := uuid.New()

	tests := []struct {
		name     string
		open     bool
		actor    *uuid.UUID
		seed     bool
		email    string
		password string
		wantKind apierrors.Kind
		wantErr  bool
	}{
		{name: "first admin", email: "a@x.com", password: "pw"},
		{name: "closed after first admin", seed: true, email: "b@x.com", password: "pw", wantErr: true, wantKind: apierrors.KindUnauthorized},
		{name: "authenticated admin adds another", seed: true, actor: &actor, email: "b@x.com", password: "pw"},
		{name: "open registration", open: true, seed: true, email: "b@x.com", password: "pw"},
		{name: "duplicate email", open: true, seed: true, email: "seed@x.com", password: "pw", wantErr: true, wantKind: apierrors.KindDuplicateAccount},
		{name: "missing password", email: "a@x.com", wantErr: true, wantKind: apierrors.KindValidation},
		{name: "missing email", email: " ", password: "pw", wantErr: true, wantKind: apierrors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			svc := newTestAuth(testutil.NewAdminStore(), tt.open)
			if tt.seed {
				_, err := svc.Bootstrap(ctx, "seed@x.com", "seed")
				require.NoError(t, err)
			}

			err := svc.Register(ctx, tt.actor, tt.email, tt.password)
			if tt.wantErr {
				requireKind(t, err, tt.wantKind)
				return
			}
			require.NoError(t, err)

			_, err = svc.Login(ctx, tt.email, tt.password)
			assert.NoError(t, err)
		})
	}
}

func TestAuth_UpdateAccount(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestAuth(testutil.NewAdminStore(), false)
	require.NoError(t, svc.Register(ctx, nil, "a@x.com", "pw1"))
	res, err := svc.Login(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	t.Run("password only", func(t *testing.T) {
		require.NoError(t, svc.UpdateAccount(ctx, res.ID, model.AccountUpdate{NewPassword: "pw2"}))

		_, err := svc.Login(ctx, "a@x.com", "pw1")
		requireKind(t, err, apierrors.KindUnauthorized)
		_, err = svc.Login(ctx, "a@x.com", "pw2")
		assert.NoError(t, err)
	})

	t.Run("email only", func(t *testing.T) {
		require.NoError(t, svc.UpdateAccount(ctx, res.ID, model.AccountUpdate{Email: "c@x.com"}))

		_, err := svc.Login(ctx, "c@x.com", "pw2")
		assert.NoError(t, err)
	})

	t.Run("unknown admin", func(t *testing.T) {
		err := svc.UpdateAccount(ctx, uuid.New(), model.AccountUpdate{Email: "d@x.com"})
		requireKind(t, err, apierrors.KindNotFound)
	})
}

func TestAuth_UpdateAccount_EmailTaken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestAuth(testutil.NewAdminStore(), true)
	require.NoError(t, svc.Register(ctx, nil, "a@x.com", "pw"))
	require.NoError(t, svc.Register(ctx, nil, "b@x.com", "pw"))
	res, err := svc.Login(ctx, "b@x.com", "pw")
	require.NoError(t, err)

	err = svc.UpdateAccount(ctx, res.ID, model.AccountUpdate{Email: "a@x.com"})
	requireKind(t, err, apierrors.KindDuplicateAccount)
}

func TestAuth_GetAdminID(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestAuth(testutil.NewAdminStore(), false)

	_, err := svc.GetAdminID(ctx, "")
	apiErr := requireKind(t, err, apierrors.KindUnauthorized)
	assert.Equal(t, "Not authorized, no token", apiErr.Message)

	_, err = svc.GetAdminID(ctx, "garbage")
	apiErr = requireKind(t, err, apierrors.KindUnauthorized)
	assert.Equal(t, "Not authorized, token failed", apiErr.Message)
}

func TestAuth_Bootstrap_Idempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestAuth(testutil.NewAdminStore(), false)

	created, err := svc.Bootstrap(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Bootstrap(ctx, "a@x.com", "other")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = svc.Login(ctx, "a@x.com", "pw1")
	assert.NoError(t, err)
}

func TestAuth_ResetPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newTestAuth(testutil.NewAdminStore(), false)
	_, err := svc.Bootstrap(ctx, "a@x.com", "pw1")
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "a@x.com", "pw2"))
	_, err = svc.Login(ctx, "a@x.com", "pw2")
	assert.NoError(t, err)

	err = svc.ResetPassword(ctx, "missing@x.com", "pw")
	requireKind(t, err, apierrors.KindNotFound)
}
