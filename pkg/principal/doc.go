// Package principal establishes who is calling the API.
//
// A Principal is the verified identity behind a request: its id, its platform
// role, and its organization membership claim. The package owns the whole
// edge: token verification (HMAC-SHA256 JWTs), the HTTP middleware that
// rejects unauthenticated requests, and the context accessors downstream code
// uses to read the caller.
//
// The principal is deliberately separate from the tenant context (see the
// tenant package). Verification only proves what the token says; whether the
// named organization exists and is active is the tenant middleware's job.
//
// # Usage
//
//	verifier, err := principal.New(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	r := chi.NewRouter()
//	r.Use(principal.Middleware(verifier))
//
//	r.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
//		p, _ := principal.FromContext(r.Context())
//		fmt.Fprintln(w, p.ID)
//	})
//
// # Roles
//
// Roles form a closed set: viewer, auditor, hse_manager, org_admin, and
// platform_admin. Tokens carrying an unknown role fail verification rather
// than degrading to a default. Only platform_admin is elevated; org_admin
// administers a single organization and cannot cross its boundary.
//
// # Error Handling
//
// Verification failures wrap ErrInvalidToken or ErrExpiredToken so callers
// can branch with errors.Is. The middleware renders failures as 401 with the
// standard error envelope; supply MiddlewareConfig.ErrorHandler to change
// that.
package principal
