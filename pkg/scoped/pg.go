package scoped

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hsedigital/platform/pkg/pg"
)

// Table describes how one entity type maps onto its SQL table. Module
// packages define one Table per protected entity next to the entity
// type itself.
type Table[E Entity] struct {
	// Name is the SQL table name.
	Name string

	// Columns is the column order shared by insert and select. It must
	// include "id", "created_at" and OwnerColumn.
	Columns []string

	// Args returns the insert values aligned with Columns.
	Args func(E) []any

	// NewRecord returns a fresh entity plus scan destinations aligned
	// with Columns.
	NewRecord func() (E, []any)

	// SortKey returns the keyset pagination key (created_at, id).
	SortKey func(E) (time.Time, uuid.UUID)
}

// PGBackend runs the raw operations against Postgres. Filters render
// into equality WHERE clauses; listings use keyset pagination over
// (created_at, id).
type PGBackend[E Entity] struct {
	pool  *pgxpool.Pool
	table Table[E]

	insertSQL string
	selectSQL string
}

// NewPGBackend creates a backend for one table. It panics on an
// incomplete table definition.
func NewPGBackend[E Entity](pool *pgxpool.Pool, table Table[E]) *PGBackend[E] {
	if pool == nil {
		panic("scoped: pool cannot be nil")
	}
	if table.Name == "" {
		panic("scoped: table name cannot be empty")
	}
	if table.Args == nil || table.NewRecord == nil || table.SortKey == nil {
		panic("scoped: table definition is incomplete")
	}
	for _, required := range []string{"id", "created_at", OwnerColumn} {
		if !slices.Contains(table.Columns, required) {
			panic("scoped: table columns must include " + required)
		}
	}

	cols := strings.Join(table.Columns, ", ")
	placeholders := make([]string, len(table.Columns))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return &PGBackend[E]{
		pool:  pool,
		table: table,
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table.Name, cols, strings.Join(placeholders, ", ")),
		selectSQL: fmt.Sprintf("SELECT %s FROM %s", cols, table.Name),
	}
}

func (b *PGBackend[E]) Insert(ctx context.Context, e E) error {
	if _, err := b.pool.Exec(ctx, b.insertSQL, b.table.Args(e)...); err != nil {
		return fmt.Errorf("insert %s: %w", b.table.Name, err)
	}
	return nil
}

func (b *PGBackend[E]) Get(ctx context.Context, f Filter) (E, error) {
	var zero E

	conditions, args := filterConditions(f, 0)
	query := b.selectSQL
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT 1"

	e, dests := b.table.NewRecord()
	err := b.pool.QueryRow(ctx, query, args...).Scan(dests...)
	switch {
	case err == nil:
		return e, nil
	case pg.IsNotFoundError(err):
		return zero, ErrNotFound
	default:
		return zero, fmt.Errorf("get %s: %w", b.table.Name, err)
	}
}

func (b *PGBackend[E]) List(ctx context.Context, f Filter, p Page) ([]E, string, error) {
	conditions, args := filterConditions(f, 0)
	if p.Cursor != "" {
		ts, id, err := decodeCursor(p.Cursor)
		if err != nil {
			return nil, "", err
		}
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(created_at, id) < ($%d, $%d)", n+1, n+2))
		args = append(args, ts, id)
	}

	query := b.selectSQL
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if p.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", p.Limit)
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("list %s: %w", b.table.Name, err)
	}
	defer rows.Close()

	var out []E
	for rows.Next() {
		e, dests := b.table.NewRecord()
		if err := rows.Scan(dests...); err != nil {
			return nil, "", fmt.Errorf("scan %s: %w", b.table.Name, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("list %s: %w", b.table.Name, err)
	}

	var next string
	if p.Limit > 0 && len(out) == p.Limit {
		ts, id := b.table.SortKey(out[len(out)-1])
		next = encodeCursor(ts, id)
	}
	return out, next, nil
}

func (b *PGBackend[E]) Update(ctx context.Context, f Filter, ch Changes) (int64, error) {
	if len(ch) == 0 {
		return 0, nil
	}

	keys := sortedKeys(ch)
	assignments := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)+len(f))
	for i, k := range keys {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", k, i+1))
		args = append(args, ch[k])
	}

	conditions, whereArgs := filterConditions(f, len(args))
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s", b.table.Name, strings.Join(assignments, ", "))
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	tag, err := b.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", b.table.Name, err)
	}
	return tag.RowsAffected(), nil
}

func (b *PGBackend[E]) Delete(ctx context.Context, f Filter) (int64, error) {
	conditions, args := filterConditions(f, 0)
	query := "DELETE FROM " + b.table.Name
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	tag, err := b.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", b.table.Name, err)
	}
	return tag.RowsAffected(), nil
}

func (b *PGBackend[E]) Count(ctx context.Context, f Filter) (int64, error) {
	conditions, args := filterConditions(f, 0)
	query := "SELECT count(*) FROM " + b.table.Name
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var n int64
	if err := b.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", b.table.Name, err)
	}
	return n, nil
}

// filterConditions renders the filter into WHERE fragments, with
// placeholders numbered after offset. Keys are iterated in sorted order
// so the generated SQL is deterministic.
func filterConditions(f Filter, offset int) ([]string, []any) {
	if len(f) == 0 {
		return nil, nil
	}
	keys := sortedKeys(f)
	conditions := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		conditions = append(conditions, fmt.Sprintf("%s = $%d", k, offset+i+1))
		args = append(args, f[k])
	}
	return conditions, args
}

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
