// Package service holds the application core: authentication, authorization,
// and the resource services for companies, reviews, and salaries. Services
// depend only on ports, never on concrete adapters.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/iwork-app/iwork-backend/internal/domain"
	"github.com/iwork-app/iwork-backend/internal/port"
	"github.com/iwork-app/iwork-backend/internal/token"
)

// RegisterInput carries the fields accepted at account creation.
type RegisterInput struct {
	Email           string  `json:"email"`
	Username        string  `json:"username"`
	Password        string  `json:"password"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	CurrentPosition string  `json:"current_position"`
	GoogleID        *string `json:"-"`
	ProfilePicture  string  `json:"-"`
}

// AuthService implements registration, login, the token lifecycle, and the
// Google OAuth flow.
type AuthService struct {
	users    port.UserStore
	cache    port.SessionCache
	codec    *token.Codec
	provider port.OAuthProvider
}

// NewAuthService wires the auth core. provider may be nil when OAuth login is
// not configured; password flows keep working.
func NewAuthService(users port.UserStore, cache port.SessionCache, codec *token.Codec, provider port.OAuthProvider) *AuthService {
	return &AuthService{users: users, cache: cache, codec: codec, provider: provider}
}

// Register creates an account. Password accounts must carry a username and
// password; OAuth accounts may omit both, in which case the username is
// derived from the email local part and the account is marked verified.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", port.ErrValidation)
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, port.ErrEmailTaken
	} else if !errors.Is(err, port.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	username := strings.TrimSpace(in.Username)
	var passwordHash *string
	isVerified := false

	if in.GoogleID == nil {
		if username == "" {
			return nil, fmt.Errorf("%w: username is required", port.ErrValidation)
		}
		if in.Password == "" {
			return nil, fmt.Errorf("%w: password is required", port.ErrValidation)
		}
		if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
			return nil, port.ErrUsernameTaken
		} else if !errors.Is(err, port.ErrUserNotFound) {
			return nil, fmt.Errorf("lookup username: %w", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		passwordHash = &h
	} else {
		isVerified = true
		if username == "" {
			// derived usernames are not pre-checked for collisions; the
			// unique index is the only guard
			username, _, _ = strings.Cut(email, "@")
		}
	}

	user, err := s.users.CreateUser(ctx, &domain.User{
		Email:           email,
		Username:        username,
		FirstName:       in.FirstName,
		LastName:        in.LastName,
		ProfilePicture:  in.ProfilePicture,
		CurrentPosition: in.CurrentPosition,
		PasswordHash:    passwordHash,
		GoogleID:        in.GoogleID,
		Role:            domain.RoleUser,
		IsActive:        true,
		IsVerified:      isVerified,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user registered", "user_id", user.ID, "oauth", in.GoogleID != nil)
	return user, nil
}

// Login verifies an email/password pair. Every failure mode returns the same
// ErrInvalidCredentials so responses do not reveal whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, port.ErrUserNotFound) {
			return nil, port.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if user.PasswordHash == nil {
		return nil, port.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) != nil {
		return nil, port.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, port.ErrInvalidCredentials
	}
	return user, nil
}

// IssueTokenPair signs a fresh access/refresh pair and mirrors the refresh
// token into the session cache. Cache failures are logged, never surfaced:
// token issuance stays available when the cache is down.
func (s *AuthService) IssueTokenPair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	access, err := s.codec.Issue(user.ID, user.Email, token.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.codec.Issue(user.ID, user.Email, token.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.cache.SetRefreshToken(ctx, user.ID, refresh, s.codec.RefreshTTL()); err != nil {
		slog.Warn("session cache unavailable, refresh token not mirrored", "user_id", user.ID, "error", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// CurrentUser resolves an access token to its account. Any token or lookup
// problem collapses to ErrUnauthorized.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := s.codec.Parse(accessToken, token.KindAccess)
	if err != nil {
		if errors.Is(err, port.ErrTokenExpired) {
			return nil, port.ErrTokenExpired
		}
		return nil, port.ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, port.ErrUnauthorized
	}
	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, port.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, port.ErrUnauthorized
	}
	return user, nil
}

// verifyRefreshToken checks the presented refresh token against the cached
// copy. A cache error means the revocation state is unknown; the check is
// permissive then, because a dead cache must not lock every user out.
func (s *AuthService) verifyRefreshToken(ctx context.Context, userID, presented string) bool {
	cached, err := s.cache.GetRefreshToken(ctx, userID)
	if err != nil {
		if errors.Is(err, port.ErrCacheMiss) {
			return false
		}
		slog.Warn("session cache unavailable, accepting refresh token unverified", "user_id", userID, "error", err)
		return true
	}
	return cached == presented
}

// Refresh exchanges a valid, non-revoked refresh token for a new token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.codec.Parse(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, err
	}
	if !s.verifyRefreshToken(ctx, claims.Subject, refreshToken) {
		return nil, port.ErrTokenInvalid
	}
	user, err := s.users.GetUserByID(ctx, claims.Subject)
	if err != nil {
		return nil, port.ErrUnauthorized
	}
	return s.IssueTokenPair(ctx, user)
}

// Logout revokes the user's cached refresh token. Best effort: a cache error
// is logged and swallowed.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	if err := s.cache.DeleteRefreshToken(ctx, userID); err != nil {
		slog.Warn("session cache unavailable, refresh token not revoked", "user_id", userID, "error", err)
	}
}

// GoogleLoginURL returns the consent URL and the random state to pin it to.
func (s *AuthService) GoogleLoginURL() (url, state string, err error) {
	if s.provider == nil {
		return "", "", errors.New("google oauth is not configured")
	}
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}
	state = hex.EncodeToString(buf)
	return s.provider.AuthURL(state), state, nil
}

// GoogleCallback completes the OAuth flow: exchange the code, fetch the
// profile, find or create the account, and issue a token pair. Accounts are
// matched by provider id first, then by email so an existing password account
// is reused instead of duplicated.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*domain.User, *domain.TokenPair, error) {
	if s.provider == nil {
		return nil, nil, errors.New("google oauth is not configured")
	}

	accessToken, err := s.provider.ExchangeCode(ctx, code)
	if err != nil {
		return nil, nil, fmt.Errorf("exchange code: %w", err)
	}
	profile, err := s.provider.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch profile: %w", err)
	}

	user, err := s.users.GetUserByGoogleID(ctx, profile.ProviderID)
	if errors.Is(err, port.ErrUserNotFound) {
		user, err = s.users.GetUserByEmail(ctx, strings.ToLower(profile.Email))
	}
	if errors.Is(err, port.ErrUserNotFound) {
		user, err = s.Register(ctx, RegisterInput{
			Email:          profile.Email,
			FirstName:      profile.FirstName,
			LastName:       profile.LastName,
			ProfilePicture: profile.Picture,
			GoogleID:       &profile.ProviderID,
		})
	}
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.IssueTokenPair(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("user authenticated", "user_id", user.ID, "provider", s.provider.ProviderName())
	return user, pair, nil
}
