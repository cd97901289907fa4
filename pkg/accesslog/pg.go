package accesslog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStorage persists entries in the access_log table. It implements
// Writer, Querier and Counter.
type PGStorage struct {
	pool *pgxpool.Pool
}

// NewPGStorage creates a storage over the given connection pool.
func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	if pool == nil {
		panic("accesslog: pool cannot be nil")
	}
	return &PGStorage{pool: pool}
}

const insertEntrySQL = `INSERT INTO access_log (id, time, principal_id, tenant_id, route, op, entity, outcome, severity, request_id, error, detail, checksum)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

// Store inserts entries, batching multi-entry writes into one round trip.
func (s *PGStorage) Store(ctx context.Context, entries ...Entry) error {
	switch len(entries) {
	case 0:
		return nil
	case 1:
		e := entries[0]
		if _, err := s.pool.Exec(ctx, insertEntrySQL, insertArgs(e)...); err != nil {
			return fmt.Errorf("insert access log entry: %w", err)
		}
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(insertEntrySQL, insertArgs(e)...)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range entries {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert access log batch: %w", err)
		}
	}
	return nil
}

func insertArgs(e Entry) []any {
	var detail any
	if len(e.Detail) > 0 {
		detail = e.Detail
	}
	return []any{
		e.ID, e.Time, e.PrincipalID, e.TenantID, e.Route, e.Operation,
		e.Entity, e.Outcome, e.Severity, e.RequestID, e.Error, detail, e.Checksum,
	}
}

const entryColumns = `id, time, principal_id, tenant_id, route, op, entity, outcome, severity, request_id, error, detail, checksum`

// Query returns matching entries ordered newest first.
func (s *PGStorage) Query(ctx context.Context, criteria Criteria) ([]Entry, error) {
	conditions, args, err := buildConditions(criteria)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT %s FROM access_log", entryColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY time DESC, id DESC"
	if criteria.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", criteria.Limit)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query access log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Time, &e.PrincipalID, &e.TenantID, &e.Route, &e.Operation,
			&e.Entity, &e.Outcome, &e.Severity, &e.RequestID, &e.Error, &e.Detail, &e.Checksum,
		); err != nil {
			return nil, fmt.Errorf("scan access log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of matching entries, ignoring Limit and Cursor.
func (s *PGStorage) Count(ctx context.Context, criteria Criteria) (int64, error) {
	criteria.Cursor = ""
	conditions, args, err := buildConditions(criteria)
	if err != nil {
		return 0, err
	}

	query := "SELECT count(*) FROM access_log"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var n int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count access log: %w", err)
	}
	return n, nil
}

func buildConditions(criteria Criteria) ([]string, []any, error) {
	var conditions []string
	var args []any
	argIdx := 1

	add := func(condition string, value any) {
		conditions = append(conditions, fmt.Sprintf(condition, argIdx))
		args = append(args, value)
		argIdx++
	}

	if criteria.TenantID != uuid.Nil {
		add("tenant_id = $%d", criteria.TenantID)
	}
	if criteria.PrincipalID != uuid.Nil {
		add("principal_id = $%d", criteria.PrincipalID)
	}
	if criteria.Entity != "" {
		add("entity = $%d", criteria.Entity)
	}
	if criteria.Outcome != "" {
		add("outcome = $%d", string(criteria.Outcome))
	}
	if criteria.Severity != "" {
		add("severity = $%d", string(criteria.Severity))
	}
	if !criteria.From.IsZero() {
		add("time >= $%d", criteria.From)
	}
	if !criteria.To.IsZero() {
		add("time < $%d", criteria.To)
	}
	if criteria.Cursor != "" {
		t, id, err := decodeCursor(criteria.Cursor)
		if err != nil {
			return nil, nil, err
		}
		conditions = append(conditions, fmt.Sprintf("(time, id) < ($%d, $%d)", argIdx, argIdx+1))
		args = append(args, t, id)
		argIdx += 2
	}

	return conditions, args, nil
}
