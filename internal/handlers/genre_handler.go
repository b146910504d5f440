package handlers

import (
	"context"
	"net/http"

	authMiddleware "github.com/bookcatalog/backend/internal/auth/middleware"
	"github.com/bookcatalog/backend/internal/models"
	"github.com/bookcatalog/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GenreService is the interface that wraps methods for genres business logic.
type GenreService interface {
	Create(ctx context.Context, req models.GenreRequest) (*models.GenreResponse, error)
	Get(ctx context.Context, id int) (*models.GenreResponse, error)
	List(ctx context.Context, page, pageSize int) (*models.PaginatedResponse[models.GenreResponse], error)
}

// GenreHandler handles HTTP requests for genres
type GenreHandler struct {
	BaseHandler
	service GenreService
	gate    AccessGate
}

// NewGenreHandler creates a new genre handler
func NewGenreHandler(svc GenreService, gate AccessGate, v *validation.Validator, logger *zap.Logger) *GenreHandler {
	return &GenreHandler{
		BaseHandler: BaseHandler{logger: logger, validator: v},
		service:     svc,
		gate:        gate,
	}
}

// RegisterRoutes registers all genre handler routes.
// The router is expected to be scoped to /api/v1.
func (h *GenreHandler) RegisterRoutes(r chi.Router) {
	r.Route("/genre", func(r chi.Router) {
		r.With(h.gate.Require(authMiddleware.PolicyAny)).Get("/get/{id}", h.GetByID)
		r.With(h.gate.Require(authMiddleware.PolicyAny)).Get("/get-all", h.GetAll)
		r.With(h.gate.Require(authMiddleware.PolicyAdmin)).Post("/add", h.Create)
	})
}

// GetByID handles GET /genre/get/{id}
// @Summary Get genre by ID
// @Description Get a genre together with its books
// @Tags genres
// @Produce json
// @Security BearerAuth
// @Param id path int true "Genre ID"
// @Success 200 {object} models.GenreResponse
// @Failure 404 {object} map[string]string
// @Router /genre/get/{id} [get]
func (h *GenreHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	genre, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, genre)
}

// GetAll handles GET /genre/get-all
// @Summary List genres
// @Description Get a page of genres, each with its books
// @Tags genres
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, default: 1"
// @Param page_size query int false "Page size, default: 10"
// @Success 200 {object} models.PaginatedResponse[models.GenreResponse]
// @Failure 400 {object} map[string]string
// @Router /genre/get-all [get]
func (h *GenreHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := parsePagination(r)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	genres, err := h.service.List(r.Context(), page, pageSize)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, genres)
}

// Create handles POST /genre/add
// @Summary Add a genre
// @Tags genres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GenreRequest true "Genre"
// @Success 201 {object} models.GenreResponse
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string "Name already exists"
// @Router /genre/add [post]
func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.GenreRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondAppError(w, r, err)
		return
	}

	genre, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, genre)
}
