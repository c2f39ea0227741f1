// Package redis opens go-redis clients for the parts of a Strata application
// that share state between instances, such as the Redis rate limit store.
//
//	client, err := redis.Open(ctx, "redis://localhost:6379/0",
//	    redis.WithPoolSize(20),
//	    redis.WithRetry(5, time.Second),
//	    redis.WithLogger(log),
//	)
//	if err != nil {
//	    return err
//	}
//
//	app.Use(middlewares.RateLimit(100, time.Minute,
//	    middlewares.WithRateLimitStore(middlewares.NewRedisStore(client, "")),
//	))
//	app.Use(health.Readiness("/health/ready", health.Checks{
//	    "redis": redis.Healthcheck(client),
//	}))
//
//	return app.Run(":8080", strata.ShutdownHook(redis.Shutdown(client)))
package redis
