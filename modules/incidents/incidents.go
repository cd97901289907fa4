package incidents

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/scoped"
)

// Incident severities, ordered by escalation.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// Incident statuses; Resolved stamps the resolution time, Closed is
// terminal.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusClosed     = "Closed"
)

// Severities and Statuses list the valid enum values.
var (
	Severities = []string{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	Statuses   = []string{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}
)

// Incident is one reported HSE event at a station.
type Incident struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	StationID      uuid.UUID  `json:"station_id"`
	ReporterID     uuid.UUID  `json:"reporter_id"`
	IncidentType   string     `json:"incident_type"`
	Severity       string     `json:"severity"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	ReportedAt     time.Time  `json:"reported_at"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (i *Incident) EntityID() uuid.UUID   { return i.ID }
func (i *Incident) Owner() uuid.UUID      { return i.OrganizationID }
func (i *Incident) SetOwner(id uuid.UUID) { i.OrganizationID = id }

// Table maps incidents onto their SQL table.
func Table() scoped.Table[*Incident] {
	return scoped.Table[*Incident]{
		Name: scoped.EntityIncidents,
		Columns: []string{
			"id", "organization_id", "station_id", "reporter_id", "incident_type",
			"severity", "description", "status", "reported_at", "resolved_at",
			"created_at", "updated_at",
		},
		Args: func(i *Incident) []any {
			return []any{
				i.ID, i.OrganizationID, i.StationID, i.ReporterID, i.IncidentType,
				i.Severity, i.Description, i.Status, i.ReportedAt, i.ResolvedAt,
				i.CreatedAt, i.UpdatedAt,
			}
		},
		NewRecord: func() (*Incident, []any) {
			i := &Incident{}
			return i, []any{
				&i.ID, &i.OrganizationID, &i.StationID, &i.ReporterID, &i.IncidentType,
				&i.Severity, &i.Description, &i.Status, &i.ReportedAt, &i.ResolvedAt,
				&i.CreatedAt, &i.UpdatedAt,
			}
		},
		SortKey: func(i *Incident) (time.Time, uuid.UUID) { return i.CreatedAt, i.ID },
	}
}

// MemTable is the in-memory column view used in tests.
func MemTable() scoped.MemTable[*Incident] {
	return scoped.MemTable[*Incident]{
		Fields: func(i *Incident) map[string]any {
			return map[string]any{
				"id":              i.ID,
				"organization_id": i.OrganizationID,
				"station_id":      i.StationID,
				"reporter_id":     i.ReporterID,
				"severity":        i.Severity,
				"status":          i.Status,
			}
		},
		Apply: func(i *Incident, ch scoped.Changes) {
			for k, v := range ch {
				switch k {
				case "incident_type":
					i.IncidentType = v.(string)
				case "severity":
					i.Severity = v.(string)
				case "description":
					i.Description = v.(string)
				case "status":
					i.Status = v.(string)
				case "resolved_at":
					i.ResolvedAt = v.(*time.Time)
				case "updated_at":
					i.UpdatedAt = v.(time.Time)
				}
			}
		},
		SortKey: func(i *Incident) (time.Time, uuid.UUID) { return i.CreatedAt, i.ID },
	}
}
