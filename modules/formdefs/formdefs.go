package formdefs

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/scoped"
)

// FormDefinition is one versioned audit form template. The schema is
// schemaless jsonb interpreted by the form renderer.
type FormDefinition struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	Name           string         `json:"name"`
	Version        int            `json:"version"`
	Schema         map[string]any `json:"schema"`
	Active         bool           `json:"is_active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (f *FormDefinition) EntityID() uuid.UUID   { return f.ID }
func (f *FormDefinition) Owner() uuid.UUID      { return f.OrganizationID }
func (f *FormDefinition) SetOwner(id uuid.UUID) { f.OrganizationID = id }

// Table maps form definitions onto their SQL table.
func Table() scoped.Table[*FormDefinition] {
	return scoped.Table[*FormDefinition]{
		Name: scoped.EntityFormDefinitions,
		Columns: []string{
			"id", "organization_id", "name", "version", "schema", "is_active",
			"created_at", "updated_at",
		},
		Args: func(f *FormDefinition) []any {
			return []any{
				f.ID, f.OrganizationID, f.Name, f.Version, f.Schema, f.Active,
				f.CreatedAt, f.UpdatedAt,
			}
		},
		NewRecord: func() (*FormDefinition, []any) {
			f := &FormDefinition{}
			return f, []any{
				&f.ID, &f.OrganizationID, &f.Name, &f.Version, &f.Schema, &f.Active,
				&f.CreatedAt, &f.UpdatedAt,
			}
		},
		SortKey: func(f *FormDefinition) (time.Time, uuid.UUID) { return f.CreatedAt, f.ID },
	}
}

// MemTable is the in-memory column view used in tests.
func MemTable() scoped.MemTable[*FormDefinition] {
	return scoped.MemTable[*FormDefinition]{
		Fields: func(f *FormDefinition) map[string]any {
			return map[string]any{
				"id":              f.ID,
				"organization_id": f.OrganizationID,
				"name":            f.Name,
				"is_active":       f.Active,
			}
		},
		Apply: func(f *FormDefinition, ch scoped.Changes) {
			for k, v := range ch {
				switch k {
				case "name":
					f.Name = v.(string)
				case "version":
					f.Version = v.(int)
				case "schema":
					f.Schema = v.(map[string]any)
				case "is_active":
					f.Active = v.(bool)
				case "updated_at":
					f.UpdatedAt = v.(time.Time)
				}
			}
		},
		SortKey: func(f *FormDefinition) (time.Time, uuid.UUID) { return f.CreatedAt, f.ID },
	}
}
