// Package redis connects the platform to its Redis server.
//
// Redis backs two pieces of the tenant layer: the shared verdict cache
// and the cross-instance invalidation feed. Both take the client
// produced by Connect, which retries until the server answers a ping or
// the connect window closes. Healthcheck plugs the same ping into the
// readiness probe.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
package redis
