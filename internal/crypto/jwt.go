package crypto

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenLifetime is the fixed validity of every issued token.
const TokenLifetime = 30 * 24 * time.Hour

var (
	ErrSigning      = errors.New("token signing failed")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the payload of a habinote bearer token: {"id", "email", "iat", "exp"}.
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens with a single secret.
// It holds no mutable state and is safe for concurrent use.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// IssuerOption configures a TokenIssuer.
type IssuerOption func(*TokenIssuer)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) IssuerOption {
	return func(t *TokenIssuer) {
		t.now = now
	}
}

// NewTokenIssuer creates a TokenIssuer. A non-positive ttl selects TokenLifetime.
func NewTokenIssuer(secret []byte, ttl time.Duration, opts ...IssuerOption) *TokenIssuer {
	if ttl <= 0 {
		ttl = TokenLifetime
	}
	t := &TokenIssuer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Issue creates a signed token for the given user.
func (t *TokenIssuer) Issue(userID int64, email string) (string, error) {
	if len(t.secret) == 0 {
		return "", fmt.Errorf("%w: empty secret", ErrSigning)
	}

	now := t.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigning, err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns its claims.
// A token with a valid signature past its expiry yields ErrExpiredToken; every
// other failure yields ErrInvalidToken.
func (t *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	if len(t.secret) == 0 {
		return nil, ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(t.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		// The signature is checked before the claims, so an expiry error
		// implies the token was signed with our secret.
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
