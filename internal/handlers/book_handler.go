package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bookcatalog/backend/internal/apperrors"
	authMiddleware "github.com/bookcatalog/backend/internal/auth/middleware"
	"github.com/bookcatalog/backend/internal/models"
	"github.com/bookcatalog/backend/internal/validation"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BookService is the interface that wraps methods for books business logic.
type BookService interface {
	// Method Get retrieves a book together with its genre.
	//
	// If the book does not exist, a not found error is returned.
	Get(ctx context.Context, id int) (*models.BookResponse, error)
	// Method List retrieves a page of books ordered by ID.
	List(ctx context.Context, page, pageSize int) (*models.PaginatedResponse[models.BookResponse], error)
	// Method Create adds a book. A duplicate title results in a conflict error.
	Create(ctx context.Context, req models.BookRequest) (*models.BookResponse, error)
	// Method Update patches only the fields present in the request.
	Update(ctx context.Context, req models.BookUpdateRequest) (*models.BookResponse, error)
	// Method Delete removes a book.
	Delete(ctx context.Context, id int) error
	// Method Search retrieves a page of books whose title or author contains the filters, ignoring case.
	Search(ctx context.Context, filters models.SearchRequest, page, pageSize int) (*models.PaginatedResponse[models.BookResponse], error)
	// Method LinkToGenre assigns a book to a genre.
	//
	// If either the book or the genre does not exist, a not found error is returned.
	LinkToGenre(ctx context.Context, bookID, genreID int) (*models.BookResponse, error)
}

// BookHandler handles HTTP requests for books
type BookHandler struct {
	BaseHandler
	service BookService
	gate    AccessGate
}

// NewBookHandler creates a new book handler
func NewBookHandler(svc BookService, gate AccessGate, v *validation.Validator, logger *zap.Logger) *BookHandler {
	return &BookHandler{
		BaseHandler: BaseHandler{logger: logger, validator: v},
		service:     svc,
		gate:        gate,
	}
}

// RegisterRoutes registers all book handler routes.
// The router is expected to be scoped to /api/v1.
func (h *BookHandler) RegisterRoutes(r chi.Router) {
	r.Route("/book", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(h.gate.Require(authMiddleware.PolicyAny))
			r.Get("/get-all", h.GetAll)
			r.Get("/get/{id}", h.GetByID)
			r.Post("/add", h.Create)
			r.Patch("/update", h.Update)
			r.Post("/search", h.Search)
			r.Patch("/{id}/genre/{genre_id}", h.LinkToGenre)
		})
		r.With(h.gate.Require(authMiddleware.PolicyAdmin)).Delete("/delete/{id}", h.Delete)
	})
}

// GetAll handles GET /book/get-all
// @Summary List books
// @Description Get a page of books ordered by ID
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, default: 1"
// @Param page_size query int false "Page size, default: 10"
// @Success 200 {object} models.PaginatedResponse[models.BookResponse]
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /book/get-all [get]
func (h *BookHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := parsePagination(r)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	books, err := h.service.List(r.Context(), page, pageSize)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, books)
}

// GetByID handles GET /book/get/{id}
// @Summary Get book by ID
// @Description Get a book together with its genre
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 200 {object} models.BookResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /book/get/{id} [get]
func (h *BookHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	book, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, book)
}

// Create handles POST /book/add
// @Summary Add a book
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BookRequest true "Book"
// @Success 201 {object} models.BookResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string "Title already exists"
// @Router /book/add [post]
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.BookRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondAppError(w, r, err)
		return
	}

	book, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, book)
}

// Update handles PATCH /book/update
// @Summary Update a book
// @Description Patch a book. Only the supplied fields are changed.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.BookUpdateRequest true "Book patch"
// @Success 200 {object} models.BookResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /book/update [patch]
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.BookUpdateRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		h.respondAppError(w, r, err)
		return
	}

	book, err := h.service.Update(r.Context(), req)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, book)
}

// Delete handles DELETE /book/delete/{id}
// @Summary Delete a book
// @Tags books
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 204
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /book/delete/{id} [delete]
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondAppError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /book/search
// @Summary Search books
// @Description Case-insensitive substring search on title or author. Without filters every book matches.
// @Tags books
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number, default: 1"
// @Param page_size query int false "Page size, default: 10"
// @Param request body models.SearchRequest false "Filters"
// @Success 200 {object} models.PaginatedResponse[models.BookResponse]
// @Failure 400 {object} map[string]string
// @Router /book/search [post]
func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := parsePagination(r)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	// The body is optional: an empty one searches without filters
	var filters models.SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&filters); err != nil && !errors.Is(err, io.EOF) {
		h.respondAppError(w, r, apperrors.Validation("invalid request body").WithCause(err))
		return
	}

	books, err := h.service.Search(r.Context(), filters, page, pageSize)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, books)
}

// LinkToGenre handles PATCH /book/{id}/genre/{genre_id}
// @Summary Assign a book to a genre
// @Tags books
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param genre_id path int true "Genre ID"
// @Success 200 {object} models.BookResponse
// @Failure 404 {object} map[string]string "Book or genre not found"
// @Router /book/{id}/genre/{genre_id} [patch]
func (h *BookHandler) LinkToGenre(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "id")
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}
	genreID, err := pathID(r, "genre_id")
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	book, err := h.service.LinkToGenre(r.Context(), bookID, genreID)
	if err != nil {
		h.respondAppError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, book)
}
