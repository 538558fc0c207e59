// Package auth implements authentication for the server: password hashing,
// signed access tokens, resolution of a token to the live user record and
// the two access guards built on top of it.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token decode failures. All of them mean "not authenticated" to a client;
// the distinction exists for logs and tests.
var (
	ErrTokenMalformed         = errors.New("token malformed")
	ErrTokenInvalidSignature  = errors.New("token signature invalid")
	ErrTokenAlgorithmMismatch = errors.New("token signing algorithm mismatch")
	ErrTokenExpired           = errors.New("token expired")
)

// Role claim values. The role claim is informational for clients only; the
// server always re-reads the role from the user record.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Claims is the payload of an access token: the registered claims (sub and
// exp are always set) plus an optional role.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// NewClaims returns claims for the given subject and role.
func NewClaims(subject, role string) Claims {
	return Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: subject}, Role: role}
}

// TokenCodec issues and verifies HMAC-signed JWTs with one fixed algorithm
// and secret.
type TokenCodec struct {
	method *jwt.SigningMethodHMAC
	secret []byte
	now    func() time.Time
}

// NewTokenCodec returns a codec for the given HMAC algorithm name
// ("HS256", "HS384" or "HS512").
func NewTokenCodec(secret []byte, algorithm string) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty signing secret")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	return &TokenCodec{method: method, secret: secret, now: time.Now}, nil
}

// Algorithm returns the configured algorithm name.
func (c *TokenCodec) Algorithm() string {
	return c.method.Alg()
}

// Issue signs claims with an expiration of now+ttl. Any expiration already
// present in claims is replaced. exp is encoded in whole seconds, so a
// positive ttl is rounded up to keep the token valid right after issuance.
func (c *TokenCodec) Issue(claims Claims, ttl time.Duration) (string, error) {
	exp := c.now().Add(ttl)
	if ttl > 0 {
		if t := exp.Truncate(time.Second); t.Before(exp) {
			exp = t.Add(time.Second)
		}
	}
	claims.ExpiresAt = jwt.NewNumericDate(exp)

	token := jwt.NewWithClaims(c.method, claims)
	return token.SignedString(c.secret)
}

// Verify checks the token's structure, algorithm, signature and expiry, and
// returns its claims. The error wraps one of ErrTokenMalformed,
// ErrTokenAlgorithmMismatch, ErrTokenInvalidSignature or ErrTokenExpired.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != c.method.Alg() {
			return nil, fmt.Errorf("%w: got %v", ErrTokenAlgorithmMismatch, t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now), jwt.WithExpirationRequired())

	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// classify maps jwt parser errors onto the package sentinels. Order matters:
// a keyfunc rejection is reported by jwt as "unverifiable", so the
// algorithm check comes first.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrTokenAlgorithmMismatch):
		return err
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrTokenAlgorithmMismatch, err)
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrTokenInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrTokenExpired, err)
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}
