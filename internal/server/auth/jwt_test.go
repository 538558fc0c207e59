package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCodec(t *testing.T, secret, alg string) (*TokenCodec, *fakeClock) {
	t.Helper()
	c, err := NewTokenCodec([]byte(secret), alg)
	require.NoError(t, err)
	clock := &fakeClock{t: time.Date(2026, 10, 16, 12, 0, 0, 500, time.UTC)}
	c.now = clock.now
	return c, clock
}

func TestNewTokenCodec(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		alg     string
		wantErr bool
	}{
		{name: "HS256", secret: "k", alg: "HS256"},
		{name: "HS384", secret: "k", alg: "HS384"},
		{name: "HS512", secret: "k", alg: "HS512"},
		{name: "empty secret", secret: "", alg: "HS256", wantErr: true},
		{name: "RSA not allowed", secret: "k", alg: "RS256", wantErr: true},
		{name: "none not allowed", secret: "k", alg: "none", wantErr: true},
		{name: "unknown", secret: "k", alg: "XX1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewTokenCodec([]byte(tt.secret), tt.alg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.alg, c.Algorithm())
		})
	}
}

func TestIssueAndVerify_Success(t *testing.T) {
	c, clock := newTestCodec(t, "super-secret", "HS256")

	tok, err := c.Issue(NewClaims("42", RoleAdmin), time.Hour)
	require.NoError(t, err)
	assert.Len(t, strings.Split(tok, "."), 3)
	assert.NotContains(t, tok, "=", "token must be URL-safe without padding")

	claims, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	// exp is rounded up to the next whole second.
	assert.Equal(t, clock.t.Add(time.Hour).Truncate(time.Second).Add(time.Second).Unix(), claims.ExpiresAt.Unix())
}

func TestIssue_RoleIsOptional(t *testing.T) {
	c, _ := newTestCodec(t, "k", "HS256")

	tok, err := c.Issue(NewClaims("7", ""), time.Minute)
	require.NoError(t, err)

	claims, err := c.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "7", claims.Subject)
	assert.Empty(t, claims.Role)
}

func TestVerify_Expired(t *testing.T) {
	c, clock := newTestCodec(t, "secret", "HS256")

	tok, err := c.Issue(NewClaims("1", ""), time.Second)
	require.NoError(t, err)

	_, err = c.Verify(tok)
	require.NoError(t, err, "fresh token must verify")

	clock.advance(2 * time.Second)

	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_ExpiredExactlyAtExpiration(t *testing.T) {
	c, clock := newTestCodec(t, "secret", "HS256")
	clock.t = clock.t.Truncate(time.Second)

	tok, err := c.Issue(NewClaims("1", ""), 10*time.Second)
	require.NoError(t, err)

	clock.advance(10 * time.Second)

	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIssue_SubSecondTTLVerifiesImmediately(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
	}{
		{name: "whole second", at: time.Unix(1_700_000_000, 0)},
		{name: "just after whole second", at: time.Unix(1_700_000_000, int64(time.Millisecond))},
		{name: "late in second", at: time.Unix(1_700_000_000, int64(900*time.Millisecond))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newTestCodec(t, "secret", "HS256")
			clock.t = tt.at

			tok, err := c.Issue(NewClaims("1", ""), 500*time.Millisecond)
			require.NoError(t, err)

			claims, err := c.Verify(tok)
			require.NoError(t, err)
			assert.Equal(t, "1", claims.Subject)

			clock.advance(2 * time.Second)
			_, err = c.Verify(tok)
			assert.ErrorIs(t, err, ErrTokenExpired)
		})
	}
}

func TestVerify_NonPositiveTTLIsExpired(t *testing.T) {
	c, _ := newTestCodec(t, "secret", "HS256")

	tok, err := c.Issue(NewClaims("1", ""), -time.Second)
	require.NoError(t, err)

	_, err = c.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer, _ := newTestCodec(t, "right-secret", "HS256")
	verifier, _ := newTestCodec(t, "wrong-secret", "HS256")

	tok, err := issuer.Issue(NewClaims("2", ""), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)
}

func TestVerify_TamperedPayload(t *testing.T) {
	c, _ := newTestCodec(t, "secret", "HS256")

	tok, err := c.Issue(NewClaims("2", RoleUser), time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"1","role":"admin","exp":4102444800}`))
	_, err = c.Verify(parts[0] + "." + forged + "." + parts[2])
	assert.ErrorIs(t, err, ErrTokenInvalidSignature)
}

func TestVerify_AlgorithmMismatch(t *testing.T) {
	verifier, _ := newTestCodec(t, "secret", "HS256")

	t.Run("other HMAC algorithm, same secret", func(t *testing.T) {
		issuer, _ := newTestCodec(t, "secret", "HS512")
		tok, err := issuer.Issue(NewClaims("3", ""), time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenAlgorithmMismatch)
	})

	t.Run("alg none", func(t *testing.T) {
		claims := NewClaims("3", RoleAdmin)
		claims.ExpiresAt = jwt.NewNumericDate(time.Date(2100, 1, 1, 0, 0, 0, 0, time.UTC))
		tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = verifier.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenAlgorithmMismatch)
	})

	t.Run("unknown alg", func(t *testing.T) {
		header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"XX1","typ":"JWT"}`))
		payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"3","exp":4102444800}`))
		_, err := verifier.Verify(header + "." + payload + ".c2ln")
		assert.ErrorIs(t, err, ErrTokenAlgorithmMismatch)
	})
}

func TestVerify_Malformed(t *testing.T) {
	c, _ := newTestCodec(t, "k", "HS256")

	for _, tok := range []string{"", "abc", "not.a.jwt", "a.b", "a.b.c.d", "%%%.%%%.%%%"} {
		_, err := c.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tok)
	}
}

func TestVerify_MissingExpirationRejected(t *testing.T) {
	c, _ := newTestCodec(t, "secret", "HS256")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, NewClaims("5", "")).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = c.Verify(tok)
	assert.Error(t, err)
}
