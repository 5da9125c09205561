package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/riarumoda/hjslamet-frontend/internal/gateway"
)

func TestStaleAtBoundary(t *testing.T) {
	now := time.Now()
	tok := Token{AccessToken: "a", RefreshToken: "r", ExpiresAt: now.UnixMilli()}

	require.True(t, tok.StaleAt(now), "a token at its expiry instant is stale")
	require.True(t, tok.StaleAt(now.Add(time.Second)))
	require.False(t, tok.StaleAt(now.Add(-time.Second)))
}

func TestZeroTokenIsStale(t *testing.T) {
	require.True(t, Token{}.StaleAt(time.Now()))
	require.True(t, Token{RefreshToken: "r", ExpiresAt: time.Now().Add(time.Hour).UnixMilli()}.StaleAt(time.Now()))
	require.True(t, Token{AccessToken: "a", RefreshToken: "r"}.StaleAt(time.Now()))
}

func TestDecode(t *testing.T) {
	tok, err := Decode([]byte(`{"token":"a","refreshToken":"r","tokenExpiration":123}`))
	require.NoError(t, err)
	require.Equal(t, "a", tok.AccessToken)
	require.Equal(t, "r", tok.RefreshToken)
	require.EqualValues(t, 123, tok.ExpiresAt)

	for _, raw := range []string{"", "garbage", `{"token":""}`, `{"refreshToken":"r"}`, `[1,2]`} {
		_, err := Decode([]byte(raw))
		require.ErrorIs(t, err, ErrMalformed, "raw=%q", raw)
	}
}

func signedJWT(t *testing.T, exp time.Time, sub string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func TestFromResponseFallsBackToExpClaim(t *testing.T) {
	exp := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	access := signedJWT(t, exp, "user-1")

	tok := FromResponse(&gateway.TokenResponse{Token: access, RefreshToken: "r"})
	require.Equal(t, exp.UnixMilli(), tok.ExpiresAt)

	// explicit expiration wins over the claim
	tok = FromResponse(&gateway.TokenResponse{Token: access, RefreshToken: "r", Expiration: 42})
	require.EqualValues(t, 42, tok.ExpiresAt)
}

func TestSubjectPeek(t *testing.T) {
	access := signedJWT(t, time.Now().Add(time.Minute), "user-7")
	require.Equal(t, "user-7", Subject(access))
	require.Empty(t, Subject("not-a-jwt"))
}
