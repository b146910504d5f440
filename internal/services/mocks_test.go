package services

import (
	"context"

	"github.com/bookcatalog/backend/internal/apperrors"
	"github.com/bookcatalog/backend/internal/models"
	"github.com/bookcatalog/backend/internal/repositories"
)

// mockBookRepository is a mock implementation of BookRepository
type mockBookRepository struct {
	page    *models.PaginatedResponse[models.BookResponse]
	book    *models.Book
	books   []models.Book
	created models.BookResponse
	updated models.BookResponse
	err     error

	// Captured arguments
	pred       repositories.Predicate
	gotPage    int
	gotSize    int
	createdArg models.BookResponse
	updateID   int
	fields     repositories.Fields
	deletedID  int
}

func (m *mockBookRepository) Paginate(ctx context.Context, pred repositories.Predicate, page, pageSize int) (*models.PaginatedResponse[models.BookResponse], error) {
	m.pred, m.gotPage, m.gotSize = pred, page, pageSize
	if m.err != nil {
		return nil, m.err
	}
	return m.page, nil
}

func (m *mockBookRepository) Create(ctx context.Context, book models.BookResponse) (models.BookResponse, error) {
	m.createdArg = book
	if m.err != nil {
		return models.BookResponse{}, m.err
	}
	return m.created, nil
}

func (m *mockBookRepository) Update(ctx context.Context, id int, fields repositories.Fields) (models.BookResponse, error) {
	m.updateID, m.fields = id, fields
	if m.err != nil {
		return models.BookResponse{}, m.err
	}
	return m.updated, nil
}

func (m *mockBookRepository) Get(ctx context.Context, id int) (*models.Book, error) {
	if m.book == nil {
		return nil, apperrors.NotFound("Book not found")
	}
	return m.book, nil
}

func (m *mockBookRepository) List(ctx context.Context, pred repositories.Predicate) ([]models.Book, error) {
	m.pred = pred
	if m.err != nil {
		return nil, m.err
	}
	return m.books, nil
}

func (m *mockBookRepository) Delete(ctx context.Context, id int) error {
	m.deletedID = id
	return m.err
}

// mockGenreRepository is a mock implementation of GenreRepository
type mockGenreRepository struct {
	page    *models.PaginatedResponse[models.GenreSummary]
	genre   *models.Genre
	created models.GenreSummary
	err     error
}

func (m *mockGenreRepository) Paginate(ctx context.Context, pred repositories.Predicate, page, pageSize int) (*models.PaginatedResponse[models.GenreSummary], error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.page, nil
}

func (m *mockGenreRepository) Create(ctx context.Context, genre models.GenreSummary) (models.GenreSummary, error) {
	if m.err != nil {
		return models.GenreSummary{}, m.err
	}
	return m.created, nil
}

func (m *mockGenreRepository) Get(ctx context.Context, id int) (*models.Genre, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.genre == nil || m.genre.ID != id {
		return nil, apperrors.NotFound("Genre not found")
	}
	return m.genre, nil
}

// mockUserRepository is an in-memory implementation of UserRepository
type mockUserRepository struct {
	users  []models.User
	err    error
	nextID int
}

func (m *mockUserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	if m.err != nil {
		return models.User{}, m.err
	}
	for _, u := range m.users {
		if u.Username == user.Username || u.Email == user.Email {
			return models.User{}, apperrors.Conflict("User already exists")
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users = append(m.users, user)
	return user, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id int, fields repositories.Fields) (models.User, error) {
	if m.err != nil {
		return models.User{}, m.err
	}
	for i := range m.users {
		if m.users[i].ID == id {
			if hash, ok := fields["password_hash"].(string); ok {
				m.users[i].PasswordHash = hash
			}
			if role, ok := fields["role"].(models.Role); ok {
				m.users[i].Role = role
			}
			return m.users[i], nil
		}
	}
	return models.User{}, apperrors.NotFound("User not found")
}

func (m *mockUserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.users {
		if m.users[i].ID == id {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, apperrors.NotFound("User not found")
}

func (m *mockUserRepository) FindOne(ctx context.Context, pred repositories.Predicate) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	_, args := pred.SQL()
	for i := range m.users {
		if len(args) == 1 && args[0] == m.users[i].Username {
			user := m.users[i]
			return &user, nil
		}
	}
	return nil, apperrors.NotFound("User not found")
}

func (m *mockUserRepository) Exists(ctx context.Context, pred repositories.Predicate) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, args := pred.SQL()
	for _, u := range m.users {
		if len(args) == 1 && args[0] == u.Role {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) List(ctx context.Context, pred repositories.Predicate) ([]models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.users, nil
}

// mockHasher is a reversible PasswordHasher
type mockHasher struct {
	err error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Verify(password, hash string) bool {
	return hash == "hashed:"+password
}

// mockTokenIssuer is a mock implementation of TokenIssuer
type mockTokenIssuer struct {
	err error
}

func (m *mockTokenIssuer) Issue(subject string, role models.Role) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "token-" + subject + "-" + string(role), nil
}
