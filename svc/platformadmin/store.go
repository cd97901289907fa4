package platformadmin

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hsedigital/platform/pkg/tenant"
)

// TenantUsage is an organization together with its per-entity row counts.
type TenantUsage struct {
	tenant.Tenant
	Counts map[string]int64 `json:"counts"`
}

// Store runs cross-tenant queries on the privileged pool.
type Store interface {
	// EntityCounts returns total row counts per entity across all
	// organizations.
	EntityCounts(ctx context.Context, entities []string) (map[string]int64, error)

	// TenantsWithUsage returns organizations newest first with their
	// per-entity row counts.
	TenantsWithUsage(ctx context.Context, entities []string, limit, offset int) ([]TenantUsage, error)

	// FetchEntity returns one row by id regardless of owner, as a
	// column-to-value map, or ErrNotFound.
	FetchEntity(ctx context.Context, entity string, id uuid.UUID) (map[string]any, error)
}

// PGStore implements Store over the separately-credentialed platform
// pool. Entity names are interpolated into SQL, so callers must only
// pass names from the protected registry, never request input.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	if pool == nil {
		panic("platformadmin: pool is required")
	}
	return &PGStore{pool: pool}
}

func (s *PGStore) EntityCounts(ctx context.Context, entities []string) (map[string]int64, error) {
	batch := &pgx.Batch{}
	for _, entity := range entities {
		batch.Queue(fmt.Sprintf("SELECT COUNT(*) FROM %s", entity))
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	counts := make(map[string]int64, len(entities))
	for _, entity := range entities {
		var n int64
		if err := br.QueryRow().Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", entity, err)
		}
		counts[entity] = n
	}
	return counts, nil
}

func (s *PGStore) TenantsWithUsage(ctx context.Context, entities []string, limit, offset int) ([]TenantUsage, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, subdomain, status, plan_id, created_at, updated_at
		 FROM organizations ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var out []TenantUsage
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var u TenantUsage
		if err := rows.Scan(&u.ID, &u.Name, &u.Subdomain, &u.Status, &u.PlanID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		u.Counts = make(map[string]int64, len(entities))
		index[u.ID] = len(out)
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	if len(out) == 0 {
		return []TenantUsage{}, nil
	}

	batch := &pgx.Batch{}
	for _, entity := range entities {
		batch.Queue(fmt.Sprintf("SELECT organization_id, COUNT(*) FROM %s GROUP BY organization_id", entity))
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, entity := range entities {
		counts, err := br.Query()
		if err != nil {
			return nil, fmt.Errorf("count %s per organization: %w", entity, err)
		}
		for counts.Next() {
			var owner uuid.UUID
			var n int64
			if err := counts.Scan(&owner, &n); err != nil {
				counts.Close()
				return nil, fmt.Errorf("scan %s counts: %w", entity, err)
			}
			if i, ok := index[owner]; ok {
				out[i].Counts[entity] = n
			}
		}
		if err := counts.Err(); err != nil {
			counts.Close()
			return nil, fmt.Errorf("count %s per organization: %w", entity, err)
		}
		counts.Close()
	}
	return out, nil
}

func (s *PGStore) FetchEntity(ctx context.Context, entity string, id uuid.UUID) (map[string]any, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s WHERE id = $1", entity), id)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", entity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("fetch %s: %w", entity, err)
		}
		return nil, ErrNotFound
	}

	values, err := rows.Values()
	if err != nil {
		return nil, fmt.Errorf("read %s row: %w", entity, err)
	}
	fields := rows.FieldDescriptions()
	record := make(map[string]any, len(fields))
	for i, fd := range fields {
		record[fd.Name] = values[i]
	}
	return record, nil
}
