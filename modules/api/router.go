// Package api composes the tenant-facing HTTP surface. Each entity
// module exposes Handle() and is mounted here; the whole router is
// intended to sit behind the tenant context middleware, so every
// handler below runs with the caller's tenant binding installed.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Mountable is any service exposing its HTTP surface.
type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which entity modules to mount. Each module
// is optional and only mounted when provided.
type RouterOptions struct {
	Stations    Mountable
	Audits      Mountable
	Incidents   Mountable
	Contractors Mountable
	WorkPermits Mountable
	Users       Mountable
	Forms       Mountable
	Usage       Mountable
}

// Router assembles the API router from the provided modules.
//
// Example:
//
//	r.Mount("/api", api.Router(api.RouterOptions{
//	    Stations:  stationsSvc,
//	    Incidents: incidentsSvc,
//	    Usage:     usageSvc,
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Stations != nil {
		r.Mount("/stations", opts.Stations.Handle())
	}
	if opts.Audits != nil {
		r.Mount("/audits", opts.Audits.Handle())
	}
	if opts.Incidents != nil {
		r.Mount("/incidents", opts.Incidents.Handle())
	}
	if opts.Contractors != nil {
		r.Mount("/contractors", opts.Contractors.Handle())
	}
	if opts.WorkPermits != nil {
		r.Mount("/work-permits", opts.WorkPermits.Handle())
	}
	if opts.Users != nil {
		r.Mount("/users", opts.Users.Handle())
	}
	if opts.Forms != nil {
		r.Mount("/forms", opts.Forms.Handle())
	}
	if opts.Usage != nil {
		r.Mount("/usage", opts.Usage.Handle())
	}

	return r
}
