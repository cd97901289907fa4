// Package workpermits exposes the organization's work permit ledger.
// The HTTP surface is read-only; permits are issued and approved
// through the field-operations workflow.
package workpermits

import (
	"time"

	"github.com/google/uuid"

	"github.com/hsedigital/platform/pkg/scoped"
)

// Work permit statuses.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
	StatusExpired  = "Expired"
)

// WorkPermit is one authorization for contractor work at a station.
type WorkPermit struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	StationID      uuid.UUID  `json:"station_id"`
	RequestedBy    uuid.UUID  `json:"requested_by"`
	ApprovedBy     *uuid.UUID `json:"approved_by,omitempty"`
	PermitType     string     `json:"permit_type"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	ValidFrom      time.Time  `json:"valid_from"`
	ValidTo        time.Time  `json:"valid_to"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (w *WorkPermit) EntityID() uuid.UUID   { return w.ID }
func (w *WorkPermit) Owner() uuid.UUID      { return w.OrganizationID }
func (w *WorkPermit) SetOwner(id uuid.UUID) { w.OrganizationID = id }

// Table maps work permits onto their SQL table.
func Table() scoped.Table[*WorkPermit] {
	return scoped.Table[*WorkPermit]{
		Name: scoped.EntityWorkPermits,
		Columns: []string{
			"id", "organization_id", "station_id", "requested_by", "approved_by",
			"permit_type", "description", "status", "valid_from", "valid_to",
			"created_at", "updated_at",
		},
		Args: func(w *WorkPermit) []any {
			return []any{
				w.ID, w.OrganizationID, w.StationID, w.RequestedBy, w.ApprovedBy,
				w.PermitType, w.Description, w.Status, w.ValidFrom, w.ValidTo,
				w.CreatedAt, w.UpdatedAt,
			}
		},
		NewRecord: func() (*WorkPermit, []any) {
			w := &WorkPermit{}
			return w, []any{
				&w.ID, &w.OrganizationID, &w.StationID, &w.RequestedBy, &w.ApprovedBy,
				&w.PermitType, &w.Description, &w.Status, &w.ValidFrom, &w.ValidTo,
				&w.CreatedAt, &w.UpdatedAt,
			}
		},
		SortKey: func(w *WorkPermit) (time.Time, uuid.UUID) { return w.CreatedAt, w.ID },
	}
}

// MemTable is the in-memory column view used in tests.
func MemTable() scoped.MemTable[*WorkPermit] {
	return scoped.MemTable[*WorkPermit]{
		Fields: func(w *WorkPermit) map[string]any {
			return map[string]any{
				"id":              w.ID,
				"organization_id": w.OrganizationID,
				"station_id":      w.StationID,
				"status":          w.Status,
			}
		},
		Apply: func(w *WorkPermit, ch scoped.Changes) {
			for k, v := range ch {
				switch k {
				case "status":
					w.Status = v.(string)
				case "approved_by":
					w.ApprovedBy = v.(*uuid.UUID)
				case "updated_at":
					w.UpdatedAt = v.(time.Time)
				}
			}
		},
		SortKey: func(w *WorkPermit) (time.Time, uuid.UUID) { return w.CreatedAt, w.ID },
	}
}
