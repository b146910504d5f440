// Package service issues and validates signed session tokens and hashes passwords
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/bookcatalog/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the session lifetime used when none is configured
const DefaultTokenTTL = 8 * time.Hour

// Token validation errors
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrMissingSubject = errors.New("token has no subject")
)

// Claims is the decoded content of a valid session token
type Claims struct {
	Subject   string
	Role      models.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// sessionClaims is the wire form of a session token payload
type sessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService handles session token generation and validation
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new token service.
// algorithm must name an HMAC method (HS256, HS384 or HS512).
// A non-positive ttl falls back to DefaultTokenTTL.
func NewTokenService(secret, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret must not be empty")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %q", algorithm)
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &TokenService{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed token for subject carrying role, valid for the configured lifetime
func (s *TokenService) Issue(subject string, role models.Role) (string, error) {
	return s.IssueWithTTL(subject, role, s.ttl)
}

// IssueWithTTL creates a signed token with an explicit lifetime.
// A negative ttl produces a token that is already expired.
func (s *TokenService) IssueWithTTL(subject string, role models.Role, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", ErrMissingSubject
	}

	now := s.now()
	claims := sessionClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// Validate verifies the token's signature and expiry and returns its claims.
// Expired tokens yield ErrTokenExpired; every other failure yields ErrTokenInvalid
// or ErrMissingSubject.
func (s *TokenService) Validate(tokenString string) (*Claims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}

	role, err := models.ParseRole(claims.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	result := &Claims{
		Subject: claims.Subject,
		Role:    role,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}
