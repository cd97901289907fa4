package audits

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/scoped"
)

// Audit statuses follow the inspection lifecycle; Completed and
// Cancelled are terminal.
const (
	StatusScheduled  = "Scheduled"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusCancelled  = "Cancelled"
)

// Statuses lists the valid audit statuses.
var Statuses = []string{StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled}

// Audit is one scheduled or performed station inspection.
type Audit struct {
	ID             uuid.UUID        `json:"id"`
	OrganizationID uuid.UUID        `json:"organization_id"`
	StationID      uuid.UUID        `json:"station_id"`
	AuditorID      uuid.UUID        `json:"auditor_id"`
	AuditNumber    string           `json:"audit_number"`
	ScheduledDate  time.Time        `json:"scheduled_date"`
	CompletedDate  *time.Time       `json:"completed_date,omitempty"`
	Status         string           `json:"status"`
	FormID         uuid.UUID        `json:"form_id"`
	Findings       []map[string]any `json:"findings"`
	OverallScore   float64          `json:"overall_score"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (a *Audit) EntityID() uuid.UUID   { return a.ID }
func (a *Audit) Owner() uuid.UUID      { return a.OrganizationID }
func (a *Audit) SetOwner(id uuid.UUID) { a.OrganizationID = id }

// Table maps audits onto their SQL table. Findings ride in a jsonb
// column.
func Table() scoped.Table[*Audit] {
	return scoped.Table[*Audit]{
		Name: scoped.EntityAudits,
		Columns: []string{
			"id", "organization_id", "station_id", "auditor_id", "audit_number",
			"scheduled_date", "completed_date", "status", "form_id", "findings",
			"overall_score", "created_at", "updated_at",
		},
		Args: func(a *Audit) []any {
			return []any{
				a.ID, a.OrganizationID, a.StationID, a.AuditorID, a.AuditNumber,
				a.ScheduledDate, a.CompletedDate, a.Status, a.FormID, a.Findings,
				a.OverallScore, a.CreatedAt, a.UpdatedAt,
			}
		},
		NewRecord: func() (*Audit, []any) {
			a := &Audit{}
			return a, []any{
				&a.ID, &a.OrganizationID, &a.StationID, &a.AuditorID, &a.AuditNumber,
				&a.ScheduledDate, &a.CompletedDate, &a.Status, &a.FormID, &a.Findings,
				&a.OverallScore, &a.CreatedAt, &a.UpdatedAt,
			}
		},
		SortKey: func(a *Audit) (time.Time, uuid.UUID) { return a.CreatedAt, a.ID },
	}
}

// MemTable is the in-memory column view used in tests.
func MemTable() scoped.MemTable[*Audit] {
	return scoped.MemTable[*Audit]{
		Fields: func(a *Audit) map[string]any {
			return map[string]any{
				"id":              a.ID,
				"organization_id": a.OrganizationID,
				"station_id":      a.StationID,
				"auditor_id":      a.AuditorID,
				"status":          a.Status,
			}
		},
		Apply: func(a *Audit, ch scoped.Changes) {
			for k, v := range ch {
				switch k {
				case "scheduled_date":
					a.ScheduledDate = v.(time.Time)
				case "completed_date":
					a.CompletedDate = v.(*time.Time)
				case "status":
					a.Status = v.(string)
				case "findings":
					a.Findings = v.([]map[string]any)
				case "overall_score":
					a.OverallScore = v.(float64)
				case "updated_at":
					a.UpdatedAt = v.(time.Time)
				}
			}
		},
		SortKey: func(a *Audit) (time.Time, uuid.UUID) { return a.CreatedAt, a.ID },
	}
}
