// Package contractors exposes the organization's contractor registry.
// The HTTP surface is read-only; rows are maintained through back-office
// imports.
package contractors

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/scoped"
)

// Contractor is one external company licensed to work on the
// organization's stations.
type Contractor struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	LicenseNumber  string    `json:"license_number,omitempty"`
	Specialization string    `json:"specialization,omitempty"`
	ContactPerson  string    `json:"contact_person,omitempty"`
	Email          string    `json:"email,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (c *Contractor) EntityID() uuid.UUID   { return c.ID }
func (c *Contractor) Owner() uuid.UUID      { return c.OrganizationID }
func (c *Contractor) SetOwner(id uuid.UUID) { c.OrganizationID = id }

// Table maps contractors onto their SQL table.
func Table() scoped.Table[*Contractor] {
	return scoped.Table[*Contractor]{
		Name: scoped.EntityContractors,
		Columns: []string{
			"id", "organization_id", "name", "license_number", "specialization",
			"contact_person", "email", "status", "created_at", "updated_at",
		},
		Args: func(c *Contractor) []any {
			return []any{
				c.ID, c.OrganizationID, c.Name, c.LicenseNumber, c.Specialization,
				c.ContactPerson, c.Email, c.Status, c.CreatedAt, c.UpdatedAt,
			}
		},
		NewRecord: func() (*Contractor, []any) {
			c := &Contractor{}
			return c, []any{
				&c.ID, &c.OrganizationID, &c.Name, &c.LicenseNumber, &c.Specialization,
				&c.ContactPerson, &c.Email, &c.Status, &c.CreatedAt, &c.UpdatedAt,
			}
		},
		SortKey: func(c *Contractor) (time.Time, uuid.UUID) { return c.CreatedAt, c.ID },
	}
}

// MemTable is the in-memory column view used in tests.
func MemTable() scoped.MemTable[*Contractor] {
	return scoped.MemTable[*Contractor]{
		Fields: func(c *Contractor) map[string]any {
			return map[string]any{
				"id":              c.ID,
				"organization_id": c.OrganizationID,
				"name":            c.Name,
				"status":          c.Status,
			}
		},
		Apply: func(c *Contractor, ch scoped.Changes) {
			for k, v := range ch {
				switch k {
				case "name":
					c.Name = v.(string)
				case "status":
					c.Status = v.(string)
				case "updated_at":
					c.UpdatedAt = v.(time.Time)
				}
			}
		},
		SortKey: func(c *Contractor) (time.Time, uuid.UUID) { return c.CreatedAt, c.ID },
	}
}
