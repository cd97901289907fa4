package usage

import "time"

// Resource is a countable tenant resource. Values match the protected
// entity names so counters can be wired straight to scoped stores.
type Resource string

const (
	ResourceStations    Resource = "stations"
	ResourceUsers       Resource = "users"
	ResourceAudits      Resource = "audits"
	ResourceIncidents   Resource = "incidents"
	ResourceContractors Resource = "contractors"
	ResourceWorkPermits Resource = "work_permits"
)

// Unlimited marks a resource with no limit.
const Unlimited int64 = -1

// Feature is a plan-level feature flag.
type Feature string

const (
	FeatureIncidentReports Feature = "incident_reports"
	FeatureCustomForms     Feature = "custom_forms"
	FeatureAPIAccess       Feature = "api_access"
	FeatureSSO             Feature = "sso"
)

// Plan describes a subscription tier and its resource limits.
type Plan struct {
	ID       string
	Name     string
	Limits   map[Resource]int64
	Features []Feature
}

// UsageInfo is the current usage and limit for one resource.
type UsageInfo struct {
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"`
}

// Report is the per-tenant usage snapshot served by /api/usage/current.
type Report struct {
	PlanID      string                 `json:"plan_id"`
	PlanName    string                 `json:"plan_name"`
	Resources   map[Resource]UsageInfo `json:"resources"`
	GeneratedAt time.Time              `json:"generated_at"`
}
