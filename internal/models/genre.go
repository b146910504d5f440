package models

// Genre represents a row of the genres table
type Genre struct {
	ID   int
	Name string
}

// GenreRequest is the payload for creating a genre
type GenreRequest struct {
	ID   *int   `json:"id,omitempty"`
	Name string `json:"name" validate:"required,min=3"`
}

// GenreSummary is a genre without its books, embedded in book responses
type GenreSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreResponse represents a genre together with the books referencing it
type GenreResponse struct {
	ID    int            `json:"id"`
	Name  string         `json:"name"`
	Books []BookResponse `json:"books"`
}

// ToSummary converts a genre into its embedded representation
func (g *Genre) ToSummary() GenreSummary {
	return GenreSummary{ID: g.ID, Name: g.Name}
}
