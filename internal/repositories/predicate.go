package repositories

import (
	"strings"
)

// Predicate is a parameterized SQL filter condition applied before counting and slicing.
// The zero value matches every row.
//
// Column names passed to the constructors must come from code, never from user input:
// only values are bound as query parameters.
type Predicate struct {
	clause string
	args   []any
}

// All returns a predicate matching every row
func All() Predicate {
	return Predicate{}
}

// Eq matches rows whose column equals value
func Eq(column string, value any) Predicate {
	return Predicate{clause: column + " = ?", args: []any{value}}
}

// ContainsFold matches rows whose column contains value, ignoring case
func ContainsFold(column, value string) Predicate {
	return Predicate{
		clause: "LOWER(" + column + ") LIKE ?",
		args:   []any{"%" + strings.ToLower(value) + "%"},
	}
}

// In matches rows whose column is one of values. An empty list matches nothing.
func In(column string, values ...any) Predicate {
	if len(values) == 0 {
		return Predicate{clause: "1 = 0"}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", ")
	return Predicate{clause: column + " IN (" + placeholders + ")", args: values}
}

// Or matches rows satisfying any of preds. A match-all operand makes the whole predicate match all.
func Or(preds ...Predicate) Predicate {
	return combine(" OR ", true, preds)
}

// And matches rows satisfying every one of preds. Match-all operands are ignored.
func And(preds ...Predicate) Predicate {
	return combine(" AND ", false, preds)
}

// IsAll reports whether the predicate matches every row
func (p Predicate) IsAll() bool {
	return p.clause == ""
}

// SQL returns the rendered clause and its arguments
func (p Predicate) SQL() (string, []any) {
	return p.clause, p.args
}

// where renders the predicate as a WHERE clause, or an empty string for match-all
func (p Predicate) where() (string, []any) {
	if p.IsAll() {
		return "", nil
	}
	return " WHERE " + p.clause, p.args
}

func combine(sep string, allAbsorbs bool, preds []Predicate) Predicate {
	clauses := make([]string, 0, len(preds))
	var args []any
	for _, p := range preds {
		if p.IsAll() {
			if allAbsorbs {
				return All()
			}
			continue
		}
		clauses = append(clauses, p.clause)
		args = append(args, p.args...)
	}

	switch len(clauses) {
	case 0:
		return All()
	case 1:
		return Predicate{clause: clauses[0], args: args}
	default:
		return Predicate{clause: "(" + strings.Join(clauses, sep) + ")", args: args}
	}
}
