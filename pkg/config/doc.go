// Package config loads typed configuration structs.
//
// Load parses environment variables (after a best-effort .env load through
// github.com/joho/godotenv) into a struct annotated for
// github.com/caarlos0/env/v11 and caches the result per type. LoadFile reads
// the same struct from a YAML file with gopkg.in/yaml.v3, using environment
// values and envDefault tags as the base layer.
//
//	type AppConfig struct {
//		Session session.Config `envPrefix:"" yaml:"session"`
//	}
//
//	var cfg AppConfig
//	if err := config.LoadFile("sessiond.yaml", &cfg); err != nil {
//		return err
//	}
package config
