package stations

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/scoped"
)

// Station is one fuel-station site in an organization's network.
type Station struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	Brand          string    `json:"brand,omitempty"`
	Region         string    `json:"region,omitempty"`
	Address        string    `json:"address,omitempty"`
	RiskCategory   string    `json:"risk_category,omitempty"`
	AuditFrequency string    `json:"audit_frequency,omitempty"`
	Active         bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (s *Station) EntityID() uuid.UUID   { return s.ID }
func (s *Station) Owner() uuid.UUID      { return s.OrganizationID }
func (s *Station) SetOwner(id uuid.UUID) { s.OrganizationID = id }

// Table maps stations onto their SQL table.
func Table() scoped.Table[*Station] {
	return scoped.Table[*Station]{
		Name: scoped.EntityStations,
		Columns: []string{
			"id", "organization_id", "name", "brand", "region", "address",
			"risk_category", "audit_frequency", "is_active", "created_at", "updated_at",
		},
		Args: func(s *Station) []any {
			return []any{
				s.ID, s.OrganizationID, s.Name, s.Brand, s.Region, s.Address,
				s.RiskCategory, s.AuditFrequency, s.Active, s.CreatedAt, s.UpdatedAt,
			}
		},
		NewRecord: func() (*Station, []any) {
			s := &Station{}
			return s, []any{
				&s.ID, &s.OrganizationID, &s.Name, &s.Brand, &s.Region, &s.Address,
				&s.RiskCategory, &s.AuditFrequency, &s.Active, &s.CreatedAt, &s.UpdatedAt,
			}
		},
		SortKey: func(s *Station) (time.Time, uuid.UUID) { return s.CreatedAt, s.ID },
	}
}

// MemTable is the in-memory column view used in tests.
func MemTable() scoped.MemTable[*Station] {
	return scoped.MemTable[*Station]{
		Fields: func(s *Station) map[string]any {
			return map[string]any{
				"id":              s.ID,
				"organization_id": s.OrganizationID,
				"name":            s.Name,
				"brand":           s.Brand,
				"region":          s.Region,
				"risk_category":   s.RiskCategory,
				"is_active":       s.Active,
			}
		},
		Apply: func(s *Station, ch scoped.Changes) {
			for k, v := range ch {
				switch k {
				case "name":
					s.Name = v.(string)
				case "brand":
					s.Brand = v.(string)
				case "region":
					s.Region = v.(string)
				case "address":
					s.Address = v.(string)
				case "risk_category":
					s.RiskCategory = v.(string)
				case "audit_frequency":
					s.AuditFrequency = v.(string)
				case "is_active":
					s.Active = v.(bool)
				case "updated_at":
					s.UpdatedAt = v.(time.Time)
				}
			}
		},
		SortKey: func(s *Station) (time.Time, uuid.UUID) { return s.CreatedAt, s.ID },
	}
}
