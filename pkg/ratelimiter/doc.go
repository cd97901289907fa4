// Package ratelimiter provides token-bucket request throttling with
// pluggable key extraction and storage.
//
// The bucket refills at a fixed rate up to a burst capacity. Each
// request consumes one token; when the bucket is empty the middleware
// answers 429 with Retry-After and the platform's error envelope.
//
// Keys decide whose bucket a request draws from. The middleware takes a
// KeyFunc, so the caller chooses the attribution: the bound tenant for
// per-organization API limits, the principal for per-user limits, or
// the client IP for unauthenticated surfaces. FirstOf builds fallback
// chains across those; Composite joins several parts into one key.
//
// # Usage
//
//	var cfg ratelimiter.Config
//	config.MustLoad(&cfg)
//
//	bucket, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), cfg)
//	if err != nil {
//		return err
//	}
//
//	r.Use(ratelimiter.Middleware(bucket, ratelimiter.FirstOf(
//		func(r *http.Request) string {
//			if id, ok := tenant.IDFromContext(r.Context()); ok {
//				return "tenant:" + id.String()
//			}
//			return ""
//		},
//		func(r *http.Request) string { return clientip.FromContext(r.Context()) },
//	)))
//
// A request whose key resolves to an empty string is not throttled:
// without attribution every anonymous caller would share one bucket,
// and a single client could starve the rest.
//
// Storage failures also let the request through. Throttling is
// protection, not correctness; an unavailable store degrades to an
// unthrottled API rather than a dead one.
package ratelimiter
