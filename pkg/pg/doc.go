// Package pg owns the platform's PostgreSQL plumbing: pool construction
// with startup retries, goose migrations routed through the structured
// logger, a readiness probe check, and the error predicates storage
// layers use to translate driver failures into domain errors.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
package pg
