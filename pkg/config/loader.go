package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type cached struct {
	once  sync.Once
	value any
	err   error
}

var (
	cache         sync.Map // reflect.Type -> *cached
	dotenvLoaded  sync.Once
	dotenvSources = []string{".env"}
)

// Load fills v from the environment. Each config type is parsed once per
// process; later calls receive a copy of the first result. A .env file in the
// working directory is loaded before the first parse when present.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	loadDotenv()

	entry, _ := cache.LoadOrStore(reflect.TypeFor[T](), &cached{})
	c := entry.(*cached)
	c.once.Do(func() {
		var parsed T
		if err := env.Parse(&parsed); err != nil {
			c.err = errors.Join(ErrParsingConfig, err)
			return
		}
		c.value = parsed
	})

	if c.err != nil {
		return c.err
	}
	*v = c.value.(T)
	return nil
}

// MustLoad works like Load but panics on failure. Use it for configuration
// the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Parse reads T from the environment without caching. Options allow a key
// prefix or an explicit environment map, which keeps tests hermetic.
func Parse[T any](opts ...env.Options) (T, error) {
	var (
		v   T
		err error
	)
	if len(opts) > 0 {
		err = env.ParseWithOptions(&v, opts[0])
	} else {
		err = env.Parse(&v)
	}
	if err != nil {
		return v, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}

// LoadEnvFiles loads additional dotenv files. Variables that are already set
// are not overridden. Missing files are reported as errors.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

func loadDotenv() {
	dotenvLoaded.Do(func() {
		// The default file is optional.
		_ = godotenv.Load(dotenvSources...)
	})
}
