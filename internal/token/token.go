// Package token issues and validates the signed bearer tokens used by the
// auth core. Access and refresh tokens share a signing key but carry a type
// discriminator claim and independent expiry windows, so one can never be
// replayed as the other.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iwork-app/iwork-backend/internal/port"
)

// Kind discriminates access tokens from refresh tokens via the "typ" claim.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the token payload: the registered claims plus the subject's email
// and the token kind.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Typ   Kind   `json:"typ"`
}

// Codec signs and parses tokens with a symmetric HS256 key.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewCodec builds a Codec with the given key and validity windows.
func NewCodec(secret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Issue signs a token of the given kind for the user. The subject claim is the
// user id in string form.
func (c *Codec) Issue(userID, email string, kind Kind) (string, error) {
	ttl := c.accessTTL
	if kind == KindRefresh {
		ttl = c.refreshTTL
	}
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Typ:   kind,
	})
	return tok.SignedString(c.secret)
}

// Parse validates the signature and expiry of tokenString and checks that it
// is of the expected kind. A structurally valid token of the wrong kind is
// rejected with ErrTokenInvalid.
func (c *Codec) Parse(tokenString string, want Kind) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, port.ErrTokenExpired
		}
		return nil, port.ErrTokenInvalid
	}
	if !tok.Valid || claims.Typ != want {
		return nil, port.ErrTokenInvalid
	}
	return claims, nil
}

// RefreshTTL exposes the refresh validity window, used as the session cache TTL.
func (c *Codec) RefreshTTL() time.Duration {
	return c.refreshTTL
}
