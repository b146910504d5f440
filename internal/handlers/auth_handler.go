package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bookcatalog/backend/internal/apperrors"
	authMiddleware "github.com/bookcatalog/backend/internal/auth/middleware"
	"github.com/bookcatalog/backend/internal/models"
	"github.com/bookcatalog/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserService is the interface that wraps methods for accounts business logic.
type UserService interface {
	// Method Register creates an account with the USER role.
	//
	// A taken username or email results in a conflict error.
	Register(ctx context.Context, req models.UserRequest) (*models.UserResponse, error)
	// Method Login verifies credentials and issues an access token.
	//
	// Unknown usernames and wrong passwords both result in an incorrect credentials error.
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	// Method ChangePassword replaces a password after verifying the old one.
	ChangePassword(ctx context.Context, req models.ChangePasswordRequest) error
	// Method GetAll retrieves every account.
	GetAll(ctx context.Context) ([]models.UserResponse, error)
}

// AuthHandler handles HTTP requests for accounts and sessions
type AuthHandler struct {
	BaseHandler
	service    UserService
	gate       AccessGate
	sessionTTL time.Duration
}

// NewAuthHandler creates a new auth handler.
// sessionTTL bounds the lifetime of the access token cookie set on login.
func NewAuthHandler(svc UserService, gate AccessGate, v *validation.Validator, sessionTTL time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{logger: logger, validator: v},
		service:     svc,
		gate:        gate,
		sessionTTL:  sessionTTL,
	}
}

// RegisterRoutes registers all auth handler routes.
// The router is expected to be scoped to /api/v1.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(h.gate.Require(authMiddleware.PolicyAny)).Patch("/change-password", h.ChangePassword)
		r.With(h.gate.Require(authMiddleware.PolicyAny)).Get("/me", h.Me)
		r.With(h.gate.Require(authMiddleware.PolicyAdmin)).Get("/users", h.GetUsers)
	})
}

// Register handles POST /auth/register
// @Summary Register a new user
// @Description Create an account with the USER role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.UserRequest true "Registration"
// @Success 201 {object} models.UserResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Username or email already taken"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.UserRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondAppError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
// @Summary Login user
// @Description Authenticate with username and password. The access token is returned in the body and as an HTTP-only cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string "Incorrect username or password"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondAppError(w, r, err)
		return
	}

	response, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    response.AccessToken,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	h.respondJSON(w, http.StatusOK, response)
}

// ChangePassword handles PATCH /auth/change-password
// @Summary Change password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string "Old password does not match"
// @Failure 403 {object} map[string]string "ID belongs to another user"
// @Router /auth/change-password [patch]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := authMiddleware.CurrentUser(r.Context())
	if !ok {
		h.respondAppError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	var req models.ChangePasswordRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondAppError(w, r, err)
		return
	}

	// Callers may only change their own password
	if req.ID != caller.ID {
		h.respondAppError(w, r, apperrors.ErrForbidden)
		return
	}

	if err := h.service.ChangePassword(r.Context(), req); err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"message": "password changed successfully"})
}

// Me handles GET /auth/me
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := authMiddleware.CurrentUser(r.Context())
	if !ok {
		h.respondAppError(w, r, apperrors.Unauthorized("authentication required"))
		return
	}

	h.respondJSON(w, http.StatusOK, user.ToResponse())
}

// GetUsers handles GET /auth/users
// @Summary List users
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserResponse
// @Failure 403 {object} map[string]string
// @Router /auth/users [get]
func (h *AuthHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAll(r.Context())
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, users)
}
