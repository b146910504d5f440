package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookcatalog/backend/internal/apperrors"
	"github.com/bookcatalog/backend/internal/models"
	"github.com/bookcatalog/backend/internal/repositories"
	"go.uber.org/zap"
)

// BookRepository is the interface that wraps methods for books table data access
type BookRepository interface {
	// Method Paginate retrieves a page of books matching the predicate, ordered by ID.
	//
	// Page and pageSize must be greater than 0, otherwise a validation error is returned.
	Paginate(ctx context.Context, pred repositories.Predicate, page, pageSize int) (*models.PaginatedResponse[models.BookResponse], error)
	// Method Create inserts a book and returns it with its generated ID.
	//
	// A duplicate title results in a conflict error, a missing genre in a not found error.
	Create(ctx context.Context, book models.BookResponse) (models.BookResponse, error)
	// Method Update writes only the supplied columns and returns the refreshed book.
	//
	// If the book does not exist, a not found error is returned.
	Update(ctx context.Context, id int, fields repositories.Fields) (models.BookResponse, error)
	// Method Get retrieves a book by its ID.
	Get(ctx context.Context, id int) (*models.Book, error)
	// Method List retrieves every book matching the predicate.
	List(ctx context.Context, pred repositories.Predicate) ([]models.Book, error)
	// Method Delete removes a book by its ID.
	Delete(ctx context.Context, id int) error
}

// GenreRepository is the interface that wraps methods for genres table data access
type GenreRepository interface {
	Paginate(ctx context.Context, pred repositories.Predicate, page, pageSize int) (*models.PaginatedResponse[models.GenreSummary], error)
	Create(ctx context.Context, genre models.GenreSummary) (models.GenreSummary, error)
	Get(ctx context.Context, id int) (*models.Genre, error)
}

type bookService struct {
	books  BookRepository
	genres GenreRepository
	logger *zap.Logger
}

// NewBookService creates a new book service
func NewBookService(books BookRepository, genres GenreRepository, logger *zap.Logger) *bookService {
	return &bookService{
		books:  books,
		genres: genres,
		logger: logger,
	}
}

// Get retrieves a book by ID together with its genre
func (s *bookService) Get(ctx context.Context, id int) (*models.BookResponse, error) {
	book, err := s.books.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	response := book.ToResponse()
	if err := s.attachGenre(ctx, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// List retrieves a page of books
func (s *bookService) List(ctx context.Context, page, pageSize int) (*models.PaginatedResponse[models.BookResponse], error) {
	result, err := s.books.Paginate(ctx, repositories.All(), page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return result, nil
}

// Create adds a new book without a genre
func (s *bookService) Create(ctx context.Context, req models.BookRequest) (*models.BookResponse, error) {
	created, err := s.books.Create(ctx, models.BookResponse{
		Title:  req.Title,
		Author: req.Author,
		Year:   req.Year,
		Pages:  req.Pages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.logger.Info("book created", zap.Int("id", created.ID), zap.String("title", created.Title))
	return &created, nil
}

// Update patches the book identified by req.ID.
// Only the fields present in the request are written.
func (s *bookService) Update(ctx context.Context, req models.BookUpdateRequest) (*models.BookResponse, error) {
	if req.ID == nil {
		return nil, apperrors.Validation("id is required")
	}

	fields := repositories.Fields{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Author != nil {
		fields["author"] = *req.Author
	}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.Pages != nil {
		fields["pages"] = *req.Pages
	}

	updated, err := s.books.Update(ctx, *req.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update book: %w", err)
	}

	return &updated, nil
}

// Delete removes a book by ID
func (s *bookService) Delete(ctx context.Context, id int) error {
	if err := s.books.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	s.logger.Info("book deleted", zap.Int("id", id))
	return nil
}

// Search retrieves a page of books whose title or author contains the supplied filters, ignoring case.
// Without filters every book matches.
func (s *bookService) Search(ctx context.Context, filters models.SearchRequest, page, pageSize int) (*models.PaginatedResponse[models.BookResponse], error) {
	var preds []repositories.Predicate
	if filters.Title != "" {
		preds = append(preds, repositories.ContainsFold("title", filters.Title))
	}
	if filters.Author != "" {
		preds = append(preds, repositories.ContainsFold("author", filters.Author))
	}

	result, err := s.books.Paginate(ctx, repositories.Or(preds...), page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	return result, nil
}

// LinkToGenre assigns the book to the genre and returns the refreshed book with its genre
func (s *bookService) LinkToGenre(ctx context.Context, bookID, genreID int) (*models.BookResponse, error) {
	genre, err := s.genres.Get(ctx, genreID)
	if err != nil {
		return nil, entityNotFound(err)
	}

	if _, err := s.books.Get(ctx, bookID); err != nil {
		return nil, entityNotFound(err)
	}

	updated, err := s.books.Update(ctx, bookID, repositories.Fields{"genre_id": genreID})
	if err != nil {
		return nil, entityNotFound(err)
	}

	summary := genre.ToSummary()
	updated.Genre = &summary

	s.logger.Info("book linked to genre", zap.Int("book_id", bookID), zap.Int("genre_id", genreID))
	return &updated, nil
}

// attachGenre resolves the genre of a book response, if it has one
func (s *bookService) attachGenre(ctx context.Context, book *models.BookResponse) error {
	if book.GenreID == nil {
		return nil
	}

	genre, err := s.genres.Get(ctx, *book.GenreID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get genre of book: %w", err)
	}

	summary := genre.ToSummary()
	book.Genre = &summary
	return nil
}

// entityNotFound replaces any not found error with the generic one so callers
// cannot tell which side of a relation was missing
func entityNotFound(err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.ErrNotFound
	}
	return err
}
