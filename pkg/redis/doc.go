// Package redis wraps go-redis with a retrying Connect, env-driven Config and
// a health probe.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Config.Enabled reports whether REDIS_URL was set; the site runs without
// Redis when it is empty.
package redis
