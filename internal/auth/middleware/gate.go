// Package middleware enforces per-route access policies on HTTP requests
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/bookcatalog/backend/internal/apperrors"
	"github.com/bookcatalog/backend/internal/auth/service"
	"github.com/bookcatalog/backend/internal/models"
	"go.uber.org/zap"
)

// Policy is the access requirement attached to a route
type Policy string

// Policy constants
const (
	// PolicyAny admits every authenticated caller
	PolicyAny Policy = "ANY"
	// PolicyUser admits callers whose persisted role is USER
	PolicyUser Policy = "USER"
	// PolicyAdmin admits callers whose persisted role is ADMIN
	PolicyAdmin Policy = "ADMIN"
)

const accessTokenCookie = "access_token"

type contextKey string

const currentUserKey contextKey = "currentUser"

// TokenValidator validates session tokens
type TokenValidator interface {
	Validate(token string) (*service.Claims, error)
}

// UserLookup resolves a token subject to the persisted user
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Gate authenticates callers and authorizes them against route policies
type Gate struct {
	tokens TokenValidator
	users  UserLookup
	logger *zap.Logger
}

// NewGate creates a new access gate
func NewGate(tokens TokenValidator, users UserLookup, logger *zap.Logger) *Gate {
	return &Gate{
		tokens: tokens,
		users:  users,
		logger: logger,
	}
}

// Resolve authenticates the caller of r.
// The role is always taken from the persisted user, never from the token.
func (g *Gate) Resolve(r *http.Request) (*models.User, error) {
	token := extractToken(r)
	if token == "" {
		return nil, apperrors.Unauthorized("authentication required")
	}

	claims, err := g.tokens.Validate(token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTokenExpired):
			return nil, apperrors.Unauthorized("token expired").WithCause(err)
		case errors.Is(err, service.ErrTokenInvalid):
			return nil, apperrors.Unauthorized("invalid token").WithCause(err)
		default:
			return nil, apperrors.Unauthorized("could not validate credentials").WithCause(err)
		}
	}

	user, err := g.users.GetByUsername(r.Context(), claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("user not found")
		}
		return nil, err
	}

	return user, nil
}

// Authorize checks the resolved caller against policy
func (g *Gate) Authorize(user *models.User, policy Policy) error {
	if user == nil {
		return apperrors.Unauthorized("user not found")
	}

	switch policy {
	case PolicyAny:
		return nil
	case PolicyUser, PolicyAdmin:
		if user.Role == models.Role(policy) {
			return nil
		}
		return apperrors.ErrForbidden
	default:
		return apperrors.ErrForbidden
	}
}

// Require returns middleware admitting only callers satisfying policy.
// The admitted caller is available to handlers through CurrentUser.
func (g *Gate) Require(policy Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := g.Resolve(r)
			if err == nil {
				err = g.Authorize(user, policy)
			}
			if err != nil {
				status, message := apperrors.StatusOf(err)
				if status == http.StatusInternalServerError {
					g.logger.Error("failed to resolve caller", zap.String("path", r.URL.Path), zap.Error(err))
				} else {
					g.logger.Debug("access denied",
						zap.String("path", r.URL.Path),
						zap.String("policy", string(policy)),
						zap.String("reason", message),
					)
				}
				writeError(w, status, message)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithCurrentUser(r.Context(), user)))
		})
	}
}

// CurrentUser retrieves the caller admitted by Require from context
func CurrentUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(currentUserKey).(*models.User)
	return user, ok
}

// WithCurrentUser returns a copy of ctx carrying user
func WithCurrentUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, currentUserKey, user)
}

// extractToken reads the bearer token from the Authorization header, falling back to the cookie
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}

	cookie, err := r.Cookie(accessTokenCookie)
	if err == nil {
		return cookie.Value
	}

	return ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
