// Package store translates CRUD intents into parameterized SQL and
// normalized outcomes. Both entities share one generic repository
// parameterized over a table name, column list and value extractor.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/crumbworks/todosvc/internal/database"
)

var (
	// ErrNotFound means the operation targeted a row that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("already exists")
	// ErrTimeout means the statement could not acquire a connection or
	// finish before its deadline.
	ErrTimeout = errors.New("timed out")
)

// Repository manages all CRUD operations for one entity table.
//
// Every operation runs exactly one statement and never holds a
// connection across statements, so the pool is the only shared state.
// All statements are built with placeholders; values are never
// interpolated into SQL text.
type Repository[T any] struct {
	db      *database.DB
	table   string
	columns []string       // mutable columns, in insert/update order
	values  func(*T) []any // values aligned with columns
	timeout time.Duration
}

// NewRepository creates a repository for table. values must return one
// value per entry in columns, in the same order.
func NewRepository[T any](db *database.DB, table string, columns []string, values func(*T) []any, timeout time.Duration) *Repository[T] {
	return &Repository[T]{
		db:      db,
		table:   table,
		columns: columns,
		values:  values,
		timeout: timeout,
	}
}

// Create inserts rec and returns the persisted row, including
// store-generated id and timestamps.
func (r *Repository[T]) Create(ctx context.Context, rec *T) (*T, error) {
	query, args, err := sq.Insert(r.table).
		Columns(r.columns...).
		Values(r.values(rec)...).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert for %s: %w", r.table, err)
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var created T
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		return nil, r.normalize("insert into", err)
	}
	return &created, nil
}

// List returns all rows in insertion order. An empty table yields an
// empty slice, not an error.
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	query, args, err := sq.Select("*").From(r.table).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select for %s: %w", r.table, err)
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	rows := []T{}
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, r.normalize("select from", err)
	}
	return rows, nil
}

// Get returns the row with the given primary key, or ErrNotFound.
func (r *Repository[T]) Get(ctx context.Context, id int64) (*T, error) {
	query, args, err := sq.Select("*").From(r.table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select for %s: %w", r.table, err)
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var rec T
	if err := r.db.GetContext(ctx, &rec, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, r.normalize("select from", err)
	}
	return &rec, nil
}

// Update overwrites all mutable columns of the row with the given
// primary key and returns the updated row. A zero-row update means the
// id does not exist and yields ErrNotFound.
func (r *Repository[T]) Update(ctx context.Context, id int64, rec *T) (*T, error) {
	builder := sq.Update(r.table)
	vals := r.values(rec)
	for i, col := range r.columns {
		builder = builder.Set(col, vals[i])
	}
	query, args, err := builder.
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING *").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update for %s: %w", r.table, err)
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var updated T
	if err := r.db.GetContext(ctx, &updated, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, r.normalize("update", err)
	}
	return &updated, nil
}

// Delete removes the row with the given primary key. A zero-row delete
// yields ErrNotFound.
func (r *Repository[T]) Delete(ctx context.Context, id int64) error {
	query, args, err := sq.Delete(r.table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete for %s: %w", r.table, err)
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.normalize("delete from", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s: %w", r.table, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// opContext bounds a single statement, including the wait for a pooled
// connection, so no request can block indefinitely on the store.
func (r *Repository[T]) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// normalize converts a driver error into one of the store's error
// kinds, keeping the underlying message.
func (r *Repository[T]) normalize(op string, err error) error {
	switch {
	case database.IsUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case database.IsTimeout(err):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return fmt.Errorf("failed to %s %s: %w", op, r.table, err)
	}
}
