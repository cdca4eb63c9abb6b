// Package redis connects to Redis with retries and exposes a readiness
// probe. The client feeds pkg/session/redisstore.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	store := redisstore.New(client, redisstore.WithPrefix(cfg.KeyPrefix))
package redis
