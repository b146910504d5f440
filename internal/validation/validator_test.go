package validation

import (
	"testing"

	"github.com/bookcatalog/backend/internal/apperrors"
	"github.com/bookcatalog/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name            string
		input           any
		expectedError   bool
		expectedDetails map[string]string
	}{
		{
			name:  "valid book",
			input: models.BookRequest{Title: "Dune", Author: "Frank Herbert", Year: 1965, Pages: 412},
		},
		{
			name:          "short title and zero pages",
			input:         models.BookRequest{Title: "Du", Author: "Frank Herbert", Year: 1965, Pages: 0},
			expectedError: true,
			expectedDetails: map[string]string{
				"title": "must be at least 3 characters",
				"pages": "must be greater than 0",
			},
		},
		{
			name:          "year in the future",
			input:         models.BookRequest{Title: "Dune", Author: "Frank Herbert", Year: 2100, Pages: 412},
			expectedError: true,
			expectedDetails: map[string]string{
				"year": "must be less than 2100",
			},
		},
		{
			name:  "partial update",
			input: models.BookUpdateRequest{ID: intPtr(1), Pages: intPtr(500)},
		},
		{
			name:          "update without id",
			input:         models.BookUpdateRequest{Title: strPtr("Dune Messiah")},
			expectedError: true,
			expectedDetails: map[string]string{
				"id": "is required",
			},
		},
		{
			name:          "update with short author",
			input:         models.BookUpdateRequest{ID: intPtr(1), Author: strPtr("FH")},
			expectedError: true,
			expectedDetails: map[string]string{
				"author": "must be at least 3 characters",
			},
		},
		{
			name:          "missing login fields",
			input:         models.LoginRequest{},
			expectedError: true,
			expectedDetails: map[string]string{
				"username": "is required",
				"password": "is required",
			},
		},
		{
			name:          "genre name too short",
			input:         models.GenreRequest{Name: "SF"},
			expectedError: true,
			expectedDetails: map[string]string{
				"name": "must be at least 3 characters",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.input)

			if !tt.expectedError {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Contains(t, err.Error(), "validation failed")

			var appErr *apperrors.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.expectedDetails, appErr.Details)
		})
	}
}
