package main

import (
	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/mongo"
	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type appConfig struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"sessiond" yaml:"service_name"`

	// TrustedIPHeaders are the proxy headers trusted for the client address.
	TrustedIPHeaders []string `env:"TRUSTED_IP_HEADERS" envSeparator:"," envDefault:"CF-Connecting-IP,X-Forwarded-For,X-Real-IP" yaml:"trusted_ip_headers"`

	// BindDevice ends sessions presented from a different device fingerprint.
	BindDevice bool `env:"SESSION_BIND_DEVICE" envDefault:"false" yaml:"bind_device"`

	Session  session.Config    `yaml:"session"`
	Cookie   cookie.Config     `yaml:"cookie"`
	HTTP     httpserver.Config `yaml:"http"`
	Redis    redis.Config      `yaml:"redis"`
	Postgres pg.Config         `yaml:"postgres"`
	Mongo    mongo.Config      `yaml:"mongo"`
}

// loadConfig reads the environment, plus the YAML file at path when set.
func loadConfig(path string) (appConfig, error) {
	var cfg appConfig
	if path != "" {
		return cfg, config.LoadFile(path, &cfg)
	}
	return cfg, config.Load(&cfg)
}
