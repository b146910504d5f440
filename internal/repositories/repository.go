package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bookcatalog/backend/internal/apperrors"
	"github.com/bookcatalog/backend/internal/models"
	"go.uber.org/zap"
)

// RowScanner is implemented by *sql.Row and *sql.Rows
type RowScanner interface {
	Scan(dest ...any) error
}

// Queryer is implemented by *sql.DB and *sql.Tx
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Fields is a partial set of column values for patch updates.
// A column absent from the map is left untouched; a present column is written even when its value is a zero value or nil.
type Fields map[string]any

// Schema describes how records of type E are stored and how they map to their representation R.
//
// Every table has an integer "id" primary key generated by the store.
// Scan must read "id" followed by Columns, in that order.
// Values must return one value per entry of Columns, in that order.
type Schema[E any, R any] struct {
	// Entity is a human-readable name used in error messages
	Entity string
	// Table is the table name
	Table string
	// Columns are the writable columns
	Columns []string
	// Scan reads a record from a row
	Scan func(row RowScanner) (*E, error)
	// ToRepresentation maps a record to its transport-facing representation
	ToRepresentation func(record *E) R
	// Values extracts the column values of a representation for inserts
	Values func(rep R) []any
}

// Repository provides CRUD and pagination for one table.
// All mutations run in a single transaction that is rolled back on any failure.
type Repository[E any, R any] struct {
	db     *sql.DB
	schema Schema[E, R]
	logger *zap.Logger
}

// NewRepository creates a new generic repository over the given schema
func NewRepository[E any, R any](db *sql.DB, schema Schema[E, R], logger *zap.Logger) *Repository[E, R] {
	return &Repository[E, R]{
		db:     db,
		schema: schema,
		logger: logger,
	}
}

// selectColumns returns the column list used by every SELECT
func (r *Repository[E, R]) selectColumns() string {
	return "id, " + strings.Join(r.schema.Columns, ", ")
}

// Paginate returns the page-th slice of pageSize records matching pred, ordered by primary key.
func (r *Repository[E, R]) Paginate(ctx context.Context, pred Predicate, page, pageSize int) (*models.PaginatedResponse[R], error) {
	if page < 1 || pageSize < 1 {
		return nil, apperrors.Validation("page and page_size must be greater than 0")
	}

	where, args := pred.where()

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", r.schema.Table, where)
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("failed to count records", zap.String("table", r.schema.Table), zap.Error(err))
		return nil, fmt.Errorf("failed to count %s: %w", r.schema.Table, err)
	}

	result := &models.PaginatedResponse[R]{
		Items:       []R{},
		CurrentPage: page,
		TotalPages:  models.TotalPages(total, pageSize),
		TotalItems:  total,
	}

	// Pages past the last one are empty; checking first keeps the offset below total
	if page > result.TotalPages {
		return result, nil
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY id LIMIT ? OFFSET ?", r.selectColumns(), r.schema.Table, where)
	records, err := r.query(ctx, r.db, query, append(slices.Clone(args), pageSize, offset)...)
	if err != nil {
		return nil, err
	}

	for i := range records {
		result.Items = append(result.Items, r.schema.ToRepresentation(&records[i]))
	}

	return result, nil
}

// Get retrieves a record by its ID.
// If the record does not exist, a not found error is returned.
func (r *Repository[E, R]) Get(ctx context.Context, id int) (*E, error) {
	return r.get(ctx, r.db, id)
}

// FindOne retrieves the first record matching pred.
// If no record matches, a not found error is returned.
func (r *Repository[E, R]) FindOne(ctx context.Context, pred Predicate) (*E, error) {
	where, args := pred.where()
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY id LIMIT 1", r.selectColumns(), r.schema.Table, where)

	record, err := r.schema.Scan(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(r.schema.Entity + " not found")
		}
		r.logger.Error("failed to find record", zap.String("table", r.schema.Table), zap.Error(err))
		return nil, fmt.Errorf("failed to find %s: %w", r.schema.Entity, err)
	}

	return record, nil
}

// Exists reports whether any record matches pred
func (r *Repository[E, R]) Exists(ctx context.Context, pred Predicate) (bool, error) {
	where, args := pred.where()
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", r.schema.Table, where)

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		r.logger.Error("failed to check record existence", zap.String("table", r.schema.Table), zap.Error(err))
		return false, fmt.Errorf("failed to check %s existence: %w", r.schema.Entity, err)
	}

	return exists, nil
}

// List retrieves every record matching pred, ordered by primary key
func (r *Repository[E, R]) List(ctx context.Context, pred Predicate) ([]E, error) {
	where, args := pred.where()
	query := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY id", r.selectColumns(), r.schema.Table, where)
	return r.query(ctx, r.db, query, args...)
}

// Create inserts a record built from the representation's column values and
// returns the representation reloaded from the store, including the generated ID.
func (r *Repository[E, R]) Create(ctx context.Context, rep R) (R, error) {
	var created R

	values := r.schema.Values(rep)
	if len(values) != len(r.schema.Columns) {
		return created, fmt.Errorf("schema %s: %d values for %d columns", r.schema.Table, len(values), len(r.schema.Columns))
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		r.schema.Table,
		strings.Join(r.schema.Columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", "),
	)

	err := r.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, values...)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", r.schema.Entity, mapWriteError(r.schema.Entity, err))
		}

		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}

		record, err := r.get(ctx, tx, int(id))
		if err != nil {
			return err
		}

		created = r.schema.ToRepresentation(record)
		return nil
	})
	if err != nil {
		r.logger.Error("failed to create record", zap.String("table", r.schema.Table), zap.Error(err))
		var zero R
		return zero, err
	}

	return created, nil
}

// Update applies only the columns present in fields to the record with the given ID
// and returns the refreshed representation.
// Unknown columns are rejected. An empty fields map writes nothing.
// If the record does not exist, a not found error is returned.
func (r *Repository[E, R]) Update(ctx context.Context, id int, fields Fields) (R, error) {
	var updated R

	for column := range fields {
		if !slices.Contains(r.schema.Columns, column) {
			return updated, fmt.Errorf("unknown column %q for table %s", column, r.schema.Table)
		}
	}
	setClauses := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	// Iterate over the schema's columns so that the generated statement is deterministic
	for _, column := range r.schema.Columns {
		if value, ok := fields[column]; ok {
			setClauses = append(setClauses, column+" = ?")
			args = append(args, value)
		}
	}
	args = append(args, id)

	err := r.WithTx(ctx, func(tx *sql.Tx) error {
		if len(setClauses) > 0 {
			query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", r.schema.Table, strings.Join(setClauses, ", "))
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to update %s: %w", r.schema.Entity, mapWriteError(r.schema.Entity, err))
			}
		}

		// Reload instead of relying on rows affected: MySQL reports 0 for unchanged rows
		record, err := r.get(ctx, tx, id)
		if err != nil {
			return err
		}

		updated = r.schema.ToRepresentation(record)
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			r.logger.Error("failed to update record", zap.String("table", r.schema.Table), zap.Int("id", id), zap.Error(err))
		}
		var zero R
		return zero, err
	}

	return updated, nil
}

// Delete removes the record with the given ID.
// If the record does not exist, a not found error is returned.
func (r *Repository[E, R]) Delete(ctx context.Context, id int) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.schema.Table)

	err := r.WithTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return fmt.Errorf("failed to delete %s: %w", r.schema.Entity, mapWriteError(r.schema.Entity, err))
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return apperrors.NotFound(r.schema.Entity + " not found")
		}
		return nil
	})
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		r.logger.Error("failed to delete record", zap.String("table", r.schema.Table), zap.Int("id", id), zap.Error(err))
	}

	return err
}

// WithTx runs fn inside a transaction on the repository's database.
// See the package-level WithTx.
func (r *Repository[E, R]) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return WithTx(ctx, r.db, r.logger, fn)
}

// WithTx runs fn inside a transaction.
// The transaction is committed when fn succeeds; otherwise it is rolled back
// before fn's error is returned to the caller.
func WithTx(ctx context.Context, db *sql.DB, logger *zap.Logger, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("failed to rollback transaction", zap.Error(rbErr))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// get retrieves a record by ID using q, which may be the database or a transaction
func (r *Repository[E, R]) get(ctx context.Context, q Queryer, id int) (*E, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", r.selectColumns(), r.schema.Table)

	record, err := r.schema.Scan(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound(r.schema.Entity + " not found")
		}
		r.logger.Error("failed to get record by id", zap.String("table", r.schema.Table), zap.Int("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get %s: %w", r.schema.Entity, err)
	}

	return record, nil
}

// query runs a multi-row SELECT and scans every row
func (r *Repository[E, R]) query(ctx context.Context, q Queryer, query string, args ...any) ([]E, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query records", zap.String("table", r.schema.Table), zap.Error(err))
		return nil, fmt.Errorf("failed to query %s: %w", r.schema.Table, err)
	}
	defer rows.Close()

	records := []E{}
	for rows.Next() {
		record, err := r.schema.Scan(rows)
		if err != nil {
			r.logger.Error("failed to scan record", zap.String("table", r.schema.Table), zap.Error(err))
			return nil, fmt.Errorf("failed to scan %s: %w", r.schema.Entity, err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}
