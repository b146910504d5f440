package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicate_SQL(t *testing.T) {
	tests := []struct {
		name           string
		pred           Predicate
		expectedClause string
		expectedArgs   []any
	}{
		{
			name:           "all",
			pred:           All(),
			expectedClause: "",
			expectedArgs:   nil,
		},
		{
			name:           "eq",
			pred:           Eq("genre_id", 3),
			expectedClause: "genre_id = ?",
			expectedArgs:   []any{3},
		},
		{
			name:           "contains fold lowers the needle",
			pred:           ContainsFold("title", "PyThon"),
			expectedClause: "LOWER(title) LIKE ?",
			expectedArgs:   []any{"%python%"},
		},
		{
			name:           "in",
			pred:           In("id", 1, 2, 3),
			expectedClause: "id IN (?, ?, ?)",
			expectedArgs:   []any{1, 2, 3},
		},
		{
			name:           "empty in matches nothing",
			pred:           In("id"),
			expectedClause: "1 = 0",
			expectedArgs:   nil,
		},
		{
			name:           "or of two",
			pred:           Or(ContainsFold("title", "go"), ContainsFold("author", "pike")),
			expectedClause: "(LOWER(title) LIKE ? OR LOWER(author) LIKE ?)",
			expectedArgs:   []any{"%go%", "%pike%"},
		},
		{
			name:           "or with all matches all",
			pred:           Or(Eq("id", 1), All()),
			expectedClause: "",
			expectedArgs:   nil,
		},
		{
			name:           "or of one is unwrapped",
			pred:           Or(Eq("id", 1)),
			expectedClause: "id = ?",
			expectedArgs:   []any{1},
		},
		{
			name:           "and skips all",
			pred:           And(All(), Eq("id", 1), Eq("pages", 10)),
			expectedClause: "(id = ? AND pages = ?)",
			expectedArgs:   []any{1, 10},
		},
		{
			name:           "empty and matches all",
			pred:           And(),
			expectedClause: "",
			expectedArgs:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause, args := tt.pred.SQL()
			assert.Equal(t, tt.expectedClause, clause)
			assert.Equal(t, tt.expectedArgs, args)
			assert.Equal(t, tt.expectedClause == "", tt.pred.IsAll())
		})
	}
}
