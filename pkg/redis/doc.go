// Package redis opens the go-redis client used for session and availability
// caches, and exposes readiness and shutdown hooks for the application.
//
// Settings come from the environment through [Config]:
//
//	REDIS_URL             - redis:// or rediss:// connection URL (required)
//	REDIS_POOL_SIZE       - maximum pool connections (default: 10)
//	REDIS_MIN_IDLE_CONNS  - idle connections kept open (default: 2)
//	REDIS_RETRY_ATTEMPTS  - connection attempts at startup (default: 3)
//	REDIS_RETRY_INTERVAL  - base backoff between attempts (default: 2s)
//
// Usage:
//
//	client, err := redis.Open(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	app := authflow.New(
//		authflow.WithHealthChecks(authflow.HealthCheck{Name: "redis", Check: redis.Healthcheck(client)}),
//		authflow.WithShutdownHook(redis.Shutdown(client)),
//	)
package redis
