// Package token owns the access/refresh token pair and its expiry instant,
// and decides when the pair is stale.
package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/riarumoda/hjslamet-frontend/internal/gateway"
)

// ErrMalformed reports a persisted token record that is missing or garbled.
// The session controller treats it the same as an expired session.
var ErrMalformed = errors.New("token: malformed session token")

// Token is the persisted session credential. ExpiresAt is a millisecond
// epoch instant; at or past it the access token must not be sent. The JSON
// field names match the record the web client historically wrote.
type Token struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresAt    int64  `json:"tokenExpiration"`
}

// StaleAt reports whether the access token must be exchanged before use.
// A zero or shapeless token is always stale.
func (t Token) StaleAt(now time.Time) bool {
	if t.AccessToken == "" || t.ExpiresAt == 0 {
		return true
	}
	return now.UnixMilli() >= t.ExpiresAt
}

func (t Token) Expiry() time.Time {
	return time.UnixMilli(t.ExpiresAt)
}

// Decode parses a raw persisted record. Records that do not carry at least
// an access and a refresh token come back as ErrMalformed.
func Decode(raw []byte) (Token, error) {
	var t Token
	if err := json.Unmarshal(raw, &t); err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if t.AccessToken == "" || t.RefreshToken == "" {
		return Token{}, ErrMalformed
	}
	return t, nil
}

// FromResponse converts a login/refresh response into a Token. When the
// backend omits the expiration field, the exp claim of the access token is
// used instead; the signature is not checked here, the backend remains the
// authority on validity.
func FromResponse(r *gateway.TokenResponse) Token {
	t := Token{
		AccessToken:  r.Token,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    r.Expiration,
	}
	if t.ExpiresAt == 0 {
		if exp, err := peekExpiry(r.Token); err == nil {
			t.ExpiresAt = exp.UnixMilli()
		}
	}
	return t
}

func peekExpiry(accessToken string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, errors.New("token: no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}

// Subject returns the subject claim of the access token without verifying
// the signature. Empty when the token is not a JWT.
func Subject(accessToken string) string {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, &claims); err != nil {
		return ""
	}
	return claims.Subject
}
