// Package health serves liveness and readiness checks.
//
// Readiness runs every registered check in parallel under a shared timeout
// and answers 503 when any of them fails:
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//		"postgres": db.Healthcheck(pool),
//		"redis":    redis.Healthcheck(client),
//	}, health.WithLogger(log)))
//
// Both endpoints answer plain "OK"/"Service Unavailable" unless the client asks for
// JSON with an Accept header or ?format=json.
package health
