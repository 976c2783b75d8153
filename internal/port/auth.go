package port

import "context"

// OAuthProfile is the subset of an identity provider's user profile the auth
// core needs to find or create an account.
type OAuthProfile struct {
	ProviderID string
	Email      string
	FirstName  string
	LastName   string
	Picture    string
}

// OAuthProvider abstracts the OAuth2 identity provider. Implementations handle
// the consent URL, code exchange, and profile retrieval for one provider.
type OAuthProvider interface {
	// ProviderName returns the name of this provider (e.g. "google").
	ProviderName() string

	// AuthURL returns the full OAuth2 authorization URL for redirecting the user.
	AuthURL(state string) string

	// ExchangeCode exchanges an authorization code for a provider access token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// FetchProfile fetches the authenticated user's profile from the provider.
	FetchProfile(ctx context.Context, accessToken string) (*OAuthProfile, error)
}
