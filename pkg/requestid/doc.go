// Package requestid assigns a correlation id to every HTTP request.
//
// The id travels three ways at once: echoed to the client in the
// X-Request-ID response header, stored in the request context, and
// injected into structured log records via LoggerExtractor. Access log
// entries stamp the same id, so a single value links a client-reported
// failure to its log lines and its audit trail.
//
// A well-formed id supplied by the client (typically an edge gateway)
// is kept so correlation spans process boundaries. Absent or malformed
// ids are replaced with a fresh UUID.
package requestid
