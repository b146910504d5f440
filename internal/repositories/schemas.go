package repositories

import (
	"database/sql"

	"github.com/bookcatalog/backend/internal/models"
	"go.uber.org/zap"
)

// BookSchema maps the books table
var BookSchema = Schema[models.Book, models.BookResponse]{
	Entity:  "Book",
	Table:   "books",
	Columns: []string{"title", "author", "year", "pages", "genre_id"},
	Scan: func(row RowScanner) (*models.Book, error) {
		var (
			book    models.Book
			genreID sql.NullInt64
		)
		if err := row.Scan(&book.ID, &book.Title, &book.Author, &book.Year, &book.Pages, &genreID); err != nil {
			return nil, err
		}
		if genreID.Valid {
			id := int(genreID.Int64)
			book.GenreID = &id
		}
		return &book, nil
	},
	ToRepresentation: func(book *models.Book) models.BookResponse {
		return book.ToResponse()
	},
	Values: func(rep models.BookResponse) []any {
		var genreID any
		if rep.GenreID != nil {
			genreID = *rep.GenreID
		}
		return []any{rep.Title, rep.Author, rep.Year, rep.Pages, genreID}
	},
}

// GenreSchema maps the genres table
var GenreSchema = Schema[models.Genre, models.GenreSummary]{
	Entity:  "Genre",
	Table:   "genres",
	Columns: []string{"name"},
	Scan: func(row RowScanner) (*models.Genre, error) {
		var genre models.Genre
		if err := row.Scan(&genre.ID, &genre.Name); err != nil {
			return nil, err
		}
		return &genre, nil
	},
	ToRepresentation: func(genre *models.Genre) models.GenreSummary {
		return genre.ToSummary()
	},
	Values: func(rep models.GenreSummary) []any {
		return []any{rep.Name}
	},
}

// UserSchema maps the users table.
// The representation is the record itself so that services can verify password hashes.
var UserSchema = Schema[models.User, models.User]{
	Entity:  "User",
	Table:   "users",
	Columns: []string{"username", "email", "password_hash", "role"},
	Scan: func(row RowScanner) (*models.User, error) {
		var user models.User
		if err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role); err != nil {
			return nil, err
		}
		return &user, nil
	},
	ToRepresentation: func(user *models.User) models.User {
		return *user
	},
	Values: func(rep models.User) []any {
		return []any{rep.Username, rep.Email, rep.PasswordHash, rep.Role}
	},
}

// BookRepository stores books
type BookRepository = Repository[models.Book, models.BookResponse]

// GenreRepository stores genres
type GenreRepository = Repository[models.Genre, models.GenreSummary]

// UserRepository stores users
type UserRepository = Repository[models.User, models.User]

// NewBookRepository creates a new book repository
func NewBookRepository(db *sql.DB, logger *zap.Logger) *BookRepository {
	return NewRepository(db, BookSchema, logger)
}

// NewGenreRepository creates a new genre repository
func NewGenreRepository(db *sql.DB, logger *zap.Logger) *GenreRepository {
	return NewRepository(db, GenreSchema, logger)
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *UserRepository {
	return NewRepository(db, UserSchema, logger)
}
