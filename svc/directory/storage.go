package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hsedigital/platform/pkg/pg"
	"github.com/hsedigital/platform/pkg/tenant"
)

// Storage persists organization records.
type Storage interface {
	Insert(ctx context.Context, t *tenant.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error)
	Update(ctx context.Context, t *tenant.Tenant) error
}

const orgColumns = "id, name, subdomain, status, plan_id, created_at, updated_at"

// PGStorage stores organizations in the organizations table.
type PGStorage struct {
	pool *pgxpool.Pool
}

func NewPGStorage(pool *pgxpool.Pool) *PGStorage {
	if pool == nil {
		panic("directory: pool is required")
	}
	return &PGStorage{pool: pool}
}

func (s *PGStorage) Insert(ctx context.Context, t *tenant.Tenant) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO organizations (`+orgColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Name, t.Subdomain, t.Status, t.PlanID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrSubdomainTaken
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (s *PGStorage) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id)
	return scanOrg(row)
}

func (s *PGStorage) GetBySubdomain(ctx context.Context, subdomain string) (*tenant.Tenant, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+orgColumns+` FROM organizations WHERE subdomain = $1`, subdomain)
	return scanOrg(row)
}

func (s *PGStorage) Update(ctx context.Context, t *tenant.Tenant) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE organizations SET name = $2, subdomain = $3, status = $4, plan_id = $5, updated_at = $6 WHERE id = $1`,
		t.ID, t.Name, t.Subdomain, t.Status, t.PlanID, t.UpdatedAt,
	)
	if err != nil {
		if pg.IsDuplicateKeyError(err) {
			return ErrSubdomainTaken
		}
		return fmt.Errorf("update organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrTenantNotFound
	}
	return nil
}

func scanOrg(row pgx.Row) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Subdomain, &t.Status, &t.PlanID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, tenant.ErrTenantNotFound
		}
		return nil, fmt.Errorf("scan organization: %w", err)
	}
	return &t, nil
}
