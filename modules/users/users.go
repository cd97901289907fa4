// Package users exposes the organization's member directory. The HTTP
// surface is read-only; membership changes go through the account
// provisioning flow.
package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/scoped"
)

// User is one member of an organization.
type User struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Region         string    `json:"region,omitempty"`
	EmailVerified  bool      `json:"is_email_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u *User) EntityID() uuid.UUID   { return u.ID }
func (u *User) Owner() uuid.UUID      { return u.OrganizationID }
func (u *User) SetOwner(id uuid.UUID) { u.OrganizationID = id }

// Table maps users onto their SQL table.
func Table() scoped.Table[*User] {
	return scoped.Table[*User]{
		Name: scoped.EntityUsers,
		Columns: []string{
			"id", "organization_id", "name", "email", "role", "region",
			"is_email_verified", "created_at", "updated_at",
		},
		Args: func(u *User) []any {
			return []any{
				u.ID, u.OrganizationID, u.Name, u.Email, u.Role, u.Region,
				u.EmailVerified, u.CreatedAt, u.UpdatedAt,
			}
		},
		NewRecord: func() (*User, []any) {
			u := &User{}
			return u, []any{
				&u.ID, &u.OrganizationID, &u.Name, &u.Email, &u.Role, &u.Region,
				&u.EmailVerified, &u.CreatedAt, &u.UpdatedAt,
			}
		},
		SortKey: func(u *User) (time.Time, uuid.UUID) { return u.CreatedAt, u.ID },
	}
}

// MemTable is the in-memory column view used in tests.
func MemTable() scoped.MemTable[*User] {
	return scoped.MemTable[*User]{
		Fields: func(u *User) map[string]any {
			return map[string]any{
				"id":              u.ID,
				"organization_id": u.OrganizationID,
				"email":           u.Email,
				"role":            u.Role,
				"region":          u.Region,
			}
		},
		Apply: func(u *User, ch scoped.Changes) {
			for k, v := range ch {
				switch k {
				case "name":
					u.Name = v.(string)
				case "role":
					u.Role = v.(string)
				case "region":
					u.Region = v.(string)
				case "is_email_verified":
					u.EmailVerified = v.(bool)
				case "updated_at":
					u.UpdatedAt = v.(time.Time)
				}
			}
		},
		SortKey: func(u *User) (time.Time, uuid.UUID) { return u.CreatedAt, u.ID },
	}
}
