// Package token issues and verifies the signed bearer tokens used as
// sessions. Tokens are stateless: validity is a function of the signature,
// the embedded expiry, and nothing else.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrExpired means the token was well-formed and correctly signed but its
	// expiry has passed.
	ErrExpired = errors.New("token expired")
	// ErrMalformed covers everything else: bad structure, wrong signature,
	// wrong signing method.
	ErrMalformed = errors.New("token invalid")
)

const issuer = "etcp"

// Claims embeds the ETCP user identifier alongside the registered claim set.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// Service signs and verifies session tokens with a server-held HMAC secret.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// New constructs a Service. An empty secret is a configuration error, never a
// silently accepted default.
func New(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret must not be empty")
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl}, nil
}

// Issue mints a signed token for the given user, expiring after the
// configured lifetime. The jti is unique per token so individual tokens can
// be revoked.
func (s *Service) Issue(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID: userID,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token string. It returns ErrExpired for a
// correctly signed token past its expiry and ErrMalformed for anything else.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrMalformed
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrMalformed
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrMalformed
	}

	return claims, nil
}

// TTL reports the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}
