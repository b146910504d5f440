package services

import (
	"context"
	"fmt"

	"github.com/bookcatalog/backend/internal/models"
	"github.com/bookcatalog/backend/internal/repositories"
	"go.uber.org/zap"
)

type genreService struct {
	genres GenreRepository
	books  BookRepository
	logger *zap.Logger
}

// NewGenreService creates a new genre service
func NewGenreService(genres GenreRepository, books BookRepository, logger *zap.Logger) *genreService {
	return &genreService{
		genres: genres,
		books:  books,
		logger: logger,
	}
}

// Create adds a new genre
func (s *genreService) Create(ctx context.Context, req models.GenreRequest) (*models.GenreResponse, error) {
	created, err := s.genres.Create(ctx, models.GenreSummary{Name: req.Name})
	if err != nil {
		return nil, fmt.Errorf("failed to create genre: %w", err)
	}

	s.logger.Info("genre created", zap.Int("id", created.ID), zap.String("name", created.Name))
	return &models.GenreResponse{ID: created.ID, Name: created.Name, Books: []models.BookResponse{}}, nil
}

// Get retrieves a genre by ID together with its books
func (s *genreService) Get(ctx context.Context, id int) (*models.GenreResponse, error) {
	genre, err := s.genres.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	books, err := s.books.List(ctx, repositories.Eq("genre_id", id))
	if err != nil {
		return nil, fmt.Errorf("failed to get books of genre: %w", err)
	}

	response := &models.GenreResponse{
		ID:    genre.ID,
		Name:  genre.Name,
		Books: make([]models.BookResponse, 0, len(books)),
	}
	for i := range books {
		response.Books = append(response.Books, books[i].ToResponse())
	}

	return response, nil
}

// List retrieves a page of genres, each with its books.
// Books of the whole page are loaded with a single query.
func (s *genreService) List(ctx context.Context, page, pageSize int) (*models.PaginatedResponse[models.GenreResponse], error) {
	genres, err := s.genres.Paginate(ctx, repositories.All(), page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}

	result := &models.PaginatedResponse[models.GenreResponse]{
		Items:       make([]models.GenreResponse, 0, len(genres.Items)),
		CurrentPage: genres.CurrentPage,
		TotalPages:  genres.TotalPages,
		TotalItems:  genres.TotalItems,
	}
	if len(genres.Items) == 0 {
		return result, nil
	}

	ids := make([]any, 0, len(genres.Items))
	for _, genre := range genres.Items {
		ids = append(ids, genre.ID)
	}

	books, err := s.books.List(ctx, repositories.In("genre_id", ids...))
	if err != nil {
		return nil, fmt.Errorf("failed to get books of genres: %w", err)
	}

	byGenre := make(map[int][]models.BookResponse, len(genres.Items))
	for i := range books {
		if books[i].GenreID != nil {
			byGenre[*books[i].GenreID] = append(byGenre[*books[i].GenreID], books[i].ToResponse())
		}
	}

	for _, genre := range genres.Items {
		genreBooks := byGenre[genre.ID]
		if genreBooks == nil {
			genreBooks = []models.BookResponse{}
		}
		result.Items = append(result.Items, models.GenreResponse{
			ID:    genre.ID,
			Name:  genre.Name,
			Books: genreBooks,
		})
	}

	return result, nil
}
