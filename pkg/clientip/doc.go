// Package clientip resolves the originating client's IP address for an
// *http.Request served behind one or more reverse proxies.
//
// The resolution examines proxy headers in descending priority until
// the first valid address is found:
//
//  1. X-Forwarded-For: comma-separated chain, the left-most IP is used
//  2. X-Real-IP: set by reverse proxies such as nginx
//  3. RemoteAddr: TCP peer address as a fallback
//
// Forwarding headers can be set by any direct client, so the resolved
// address is only trustworthy when the service sits behind a proxy that
// overwrites them. Use it for attribution (audit detail, rate-limit
// keys), not for authentication decisions.
//
// # Usage
//
//	import "github.com/hsedigital/platform/pkg/clientip"
//
//	// Inside a handler
//	ip := clientip.FromRequest(r)
//
//	// As middleware, resolving once per request
//	http.ListenAndServe(":8080", clientip.Middleware(mux))
//
//	// Downstream of the middleware
//	ip := clientip.FromContext(r.Context())
//
// FromRequest never returns an error. If no valid address is found an
// empty string is returned so callers can decide how to proceed.
package clientip
