// Package config loads typed configuration from environment variables using
// github.com/caarlos0/env struct tags, with optional .env files loaded through
// github.com/joho/godotenv.
//
//	type Config struct {
//		Addr string `env:"HTTP_ADDR" envDefault:":8080"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Load caches one value per type for the lifetime of the process. Parse
// skips the cache and accepts env.Options for prefixes or fixed environments.
package config
