package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iwork-app/iwork-backend/internal/adapter/memory"
	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
	"github.com/iwork-app/iwork-backend/internal/token"
)

func newTestAuth(t *testing.T) (*AuthService, *memory.Store, *memory.SessionCache) {
	t.Helper()
	store := memory.NewStore()
	cache := memory.NewSessionCache()
	codec := token.NewCodec([]byte("test-secret"), 15*time.Minute, 24*time.Hour)
	return NewAuthService(store, cache, codec, nil), store, cache
}

func TestRegister_PasswordAccount(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{
		Email:    "Alice@Example.com",
		Username: "alice",
		Password: "s3cret",
	})
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)
	require.Equal(t, domain.RoleUser, user.Role)
	require.True(t, user.IsActive)
	require.False(t, user.IsVerified)
	require.NotNil(t, user.PasswordHash)
	require.NotEqual(t, "s3cret", *user.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "other", Password: "x"})
	require.ErrorIs(t, err, port.ErrEmailTaken)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "x"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "b@b.com", Username: "a", Password: "x"})
	require.ErrorIs(t, err, port.ErrUsernameTaken)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Password: "x"})
	require.ErrorIs(t, err, port.ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a"})
	require.ErrorIs(t, err, port.ErrValidation)
}

func TestRegister_OAuthDerivesUsername(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	gid := "google-123"
	user, err := svc.Register(ctx, RegisterInput{Email: "carol@example.com", GoogleID: &gid})
	require.NoError(t, err)
	require.Equal(t, "carol", user.Username)
	require.True(t, user.IsVerified)
	require.Nil(t, user.PasswordHash)
}

func TestLogin_UniformFailures(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "right"})
	require.NoError(t, err)

	gid := "g-1"
	_, err = svc.Register(ctx, RegisterInput{Email: "oauth@b.com", GoogleID: &gid})
	require.NoError(t, err)

	// Unknown email, wrong password, and a passwordless OAuth account all
	// fail with the same error.
	for _, tc := range []struct{ email, password string }{
		{"nobody@b.com", "right"},
		{"a@b.com", "wrong"},
		{"oauth@b.com", "anything"},
	} {
		_, err := svc.Login(ctx, tc.email, tc.password)
		require.ErrorIs(t, err, port.ErrInvalidCredentials, "email=%s", tc.email)
	}

	user, err := svc.Login(ctx, "a@b.com", "right")
	require.NoError(t, err)
	require.Equal(t, "a", user.Username)
}

func TestTokenPair_RefreshRoundTrip(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "x"})
	require.NoError(t, err)

	pair, err := svc.IssueTokenPair(ctx, user)
	require.NoError(t, err)
	require.Equal(t, "bearer", pair.TokenType)

	got, err := svc.CurrentUser(ctx, pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	// A refresh token is not accepted where an access token is expected.
	_, err = svc.CurrentUser(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, port.ErrUnauthorized)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, next.AccessToken)
}

func TestRefresh_RevokedToken(t *testing.T) {
	svc, _, cache := newTestAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "x"})
	require.NoError(t, err)
	pair, err := svc.IssueTokenPair(ctx, user)
	require.NoError(t, err)

	require.NoError(t, cache.DeleteRefreshToken(ctx, user.ID))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, port.ErrTokenInvalid)
}

func TestRefresh_SupersededToken(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "x"})
	require.NoError(t, err)
	first, err := svc.IssueTokenPair(ctx, user)
	require.NoError(t, err)

	// Issuing a second pair replaces the cached refresh token. Tokens carry
	// second-resolution timestamps, so step past the issue instant.
	time.Sleep(1100 * time.Millisecond)
	second, err := svc.IssueTokenPair(ctx, user)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	_, err = svc.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, port.ErrTokenInvalid)

	_, err = svc.Refresh(ctx, second.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_CacheDownIsPermissive(t *testing.T) {
	svc, _, cache := newTestAuth(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterInput{Email: "a@b.com", Username: "a", Password: "x"})
	require.NoError(t, err)
	pair, err := svc.IssueTokenPair(ctx, user)
	require.NoError(t, err)

	cache.Fail = errors.New("connection refused")

	// A signature-valid refresh token is still accepted when the cache
	// cannot be consulted.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestCurrentUser_BadTokens(t *testing.T) {
	svc, _, _ := newTestAuth(t)
	ctx := context.Background()

	_, err := svc.CurrentUser(ctx, "not-a-token")
	require.ErrorIs(t, err, port.ErrUnauthorized)

	expired := token.NewCodec([]byte("test-secret"), -time.Minute, 24*time.Hour)
	tok, err := expired.Issue("some-id", "a@b.com", token.KindAccess)
	require.NoError(t, err)
	_, err = svc.CurrentUser(ctx, tok)
	require.ErrorIs(t, err, port.ErrTokenExpired)
}
