package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	cache sync.Map // reflect.Type -> any (T)

	dotenvOnce sync.Once
)

func loadDotenv() {
	dotenvOnce.Do(func() {
		// a missing .env file is fine
		_ = godotenv.Load()
	})
}

// Load parses environment variables into v. Each configuration type is
// parsed once; later calls get the cached copy.
//
//	var cfg session.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDotenv()

	key := reflect.TypeFor[T]()
	if cached, ok := cache.Load(key); ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	// concurrent first loads agree on one value
	actual, _ := cache.LoadOrStore(key, parsed)
	*v = actual.(T)
	return nil
}

// MustLoad is like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// LoadFile fills v from defaults and the environment, then applies the YAML
// file at path on top. Keys present in the file win. Results are not cached.
func LoadFile[T any](path string, v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDotenv()

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Join(ErrReadingFile, err)
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return errors.Join(ErrParsingFile, err)
	}

	*v = parsed
	return nil
}

// Reset drops every cached configuration. Meant for tests.
func Reset() {
	cache.Clear()
}
