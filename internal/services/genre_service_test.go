package services

import (
	"context"
	"errors"
	"testing"

	"github.com/bookcatalog/backend/internal/apperrors"
	"github.com/bookcatalog/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGenreService_Create(t *testing.T) {
	genres := &mockGenreRepository{created: models.GenreSummary{ID: 1, Name: "Science fiction"}}
	svc := NewGenreService(genres, &mockBookRepository{}, zap.NewNop())

	result, err := svc.Create(context.Background(), models.GenreRequest{Name: "Science fiction"})
	require.NoError(t, err)
	assert.Equal(t, &models.GenreResponse{ID: 1, Name: "Science fiction", Books: []models.BookResponse{}}, result)

	genres.err = apperrors.Conflict("Genre already exists")
	_, err = svc.Create(context.Background(), models.GenreRequest{Name: "Science fiction"})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestGenreService_Get(t *testing.T) {
	tests := []struct {
		name          string
		genres        *mockGenreRepository
		books         *mockBookRepository
		expectedError error
		expectedBooks int
	}{
		{
			name:   "with books",
			genres: &mockGenreRepository{genre: &models.Genre{ID: 2, Name: "Programming"}},
			books: &mockBookRepository{books: []models.Book{
				{ID: 1, Title: "Learning Python", GenreID: intPtr(2)},
				{ID: 2, Title: "Effective Java", GenreID: intPtr(2)},
			}},
			expectedBooks: 2,
		},
		{
			name:          "without books",
			genres:        &mockGenreRepository{genre: &models.Genre{ID: 2, Name: "Programming"}},
			books:         &mockBookRepository{books: []models.Book{}},
			expectedBooks: 0,
		},
		{
			name:          "not found",
			genres:        &mockGenreRepository{},
			books:         &mockBookRepository{},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name:          "books lookup failure",
			genres:        &mockGenreRepository{genre: &models.Genre{ID: 2, Name: "Programming"}},
			books:         &mockBookRepository{err: errors.New("database error")},
			expectedError: errors.New("failed to get books of genre"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewGenreService(tt.genres, tt.books, zap.NewNop())

			result, err := svc.Get(context.Background(), 2)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Nil(t, result)
				if errors.Is(tt.expectedError, apperrors.ErrNotFound) {
					assert.ErrorIs(t, err, apperrors.ErrNotFound)
				} else {
					assert.Contains(t, err.Error(), tt.expectedError.Error())
				}
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, result.Books)
			assert.Len(t, result.Books, tt.expectedBooks)
			clause, args := tt.books.pred.SQL()
			assert.Equal(t, "genre_id = ?", clause)
			assert.Equal(t, []any{2}, args)
		})
	}
}

func TestGenreService_List(t *testing.T) {
	genres := &mockGenreRepository{page: &models.PaginatedResponse[models.GenreSummary]{
		Items:       []models.GenreSummary{{ID: 1, Name: "Fantasy"}, {ID: 2, Name: "Programming"}},
		CurrentPage: 1,
		TotalPages:  3,
		TotalItems:  5,
	}}
	books := &mockBookRepository{books: []models.Book{
		{ID: 10, Title: "Learning Python", GenreID: intPtr(2)},
		{ID: 11, Title: "Effective Java", GenreID: intPtr(2)},
	}}
	svc := NewGenreService(genres, books, zap.NewNop())

	result, err := svc.List(context.Background(), 1, 2)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CurrentPage)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 5, result.TotalItems)
	require.Len(t, result.Items, 2)
	assert.Equal(t, []models.BookResponse{}, result.Items[0].Books)
	assert.Len(t, result.Items[1].Books, 2)

	// One query for the books of the whole page
	clause, args := books.pred.SQL()
	assert.Equal(t, "genre_id IN (?, ?)", clause)
	assert.Equal(t, []any{1, 2}, args)
}

func TestGenreService_List_EmptyPage(t *testing.T) {
	genres := &mockGenreRepository{page: &models.PaginatedResponse[models.GenreSummary]{Items: []models.GenreSummary{}}}
	books := &mockBookRepository{err: errors.New("must not be called")}
	svc := NewGenreService(genres, books, zap.NewNop())

	result, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.NotNil(t, result.Items)
}
