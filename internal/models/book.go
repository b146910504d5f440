package models

// Book represents a row of the books table
type Book struct {
	ID      int
	Title   string
	Author  string
	Year    int
	Pages   int
	GenreID *int
}

// BookRequest is the payload for creating a book
type BookRequest struct {
	ID     *int   `json:"id,omitempty"`
	Title  string `json:"title" validate:"required,min=3"`
	Author string `json:"author" validate:"required,min=3"`
	Year   int    `json:"year" validate:"lt=2100"`
	Pages  int    `json:"pages" validate:"gt=0"`
}

// BookUpdateRequest is the payload for patching a book.
// Nil fields are left untouched.
type BookUpdateRequest struct {
	ID     *int    `json:"id" validate:"required,gt=0"`
	Title  *string `json:"title,omitempty" validate:"omitempty,min=3"`
	Author *string `json:"author,omitempty" validate:"omitempty,min=3"`
	Year   *int    `json:"year,omitempty" validate:"omitempty,lt=2100"`
	Pages  *int    `json:"pages,omitempty" validate:"omitempty,gt=0"`
}

// SearchRequest holds optional book search filters
type SearchRequest struct {
	Title  string `json:"title,omitempty"`
	Author string `json:"author,omitempty"`
}

// BookResponse represents a book in API responses
type BookResponse struct {
	ID      int           `json:"id"`
	Title   string        `json:"title"`
	Author  string        `json:"author"`
	Year    int           `json:"year"`
	Pages   int           `json:"pages"`
	GenreID *int          `json:"genre_id,omitempty"`
	Genre   *GenreSummary `json:"genre,omitempty"`
}

// ToResponse converts a book into its API representation without the resolved genre
func (b *Book) ToResponse() BookResponse {
	return BookResponse{
		ID:      b.ID,
		Title:   b.Title,
		Author:  b.Author,
		Year:    b.Year,
		Pages:   b.Pages,
		GenreID: b.GenreID,
	}
}
