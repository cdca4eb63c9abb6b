package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0" yaml:"url"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3" yaml:"retry_attempts"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s" yaml:"retry_interval"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s" yaml:"connect_timeout"`
	// KeyPrefix namespaces session keys.
	KeyPrefix string `env:"REDIS_SESSION_PREFIX" envDefault:"session:" yaml:"key_prefix"`
}
