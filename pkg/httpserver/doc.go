// Package httpserver runs the platform's HTTP listener with a lifecycle
// bound to a context.
//
// Run binds the address eagerly, so misconfiguration fails fast, then
// serves until the context is canceled and drains in-flight requests
// within the configured shutdown window. Signal handling stays with the
// caller; the process entry point decides which signals stop the server.
//
// HealthCheckHandler serves liveness and readiness probes from the same
// route, running the supplied dependency checks per request.
package httpserver
