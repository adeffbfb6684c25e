package app

import (
	"strings"
	"time"

	"github.com/yungbote/productform-backend/internal/data/db"
	"github.com/yungbote/productform-backend/internal/observability"
	"github.com/yungbote/productform-backend/internal/platform/config"
)

type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	LogMode string `env:"LOG_MODE" envDefault:"development"`

	DB   db.Config
	Otel observability.OtelConfig

	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	DraftTTL      time.Duration `env:"DRAFT_TTL" envDefault:"15m"`

	MetricsEnabled bool     `env:"METRICS_ENABLED" envDefault:"false"`
	CORSOrigins    []string `env:"CORS_ALLOW_ORIGINS" envSeparator:","`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg.normalize(), nil
}

// LoadConfigFrom is LoadConfig over an explicit variable set.
func LoadConfigFrom(vars map[string]string) (Config, error) {
	var cfg Config
	if err := config.ParseEnvMap(&cfg, vars); err != nil {
		return Config{}, err
	}
	return cfg.normalize(), nil
}

func (c Config) normalize() Config {
	c.Port = strings.TrimPrefix(strings.TrimSpace(c.Port), ":")
	if c.Port == "" {
		c.Port = "8080"
	}
	origins := c.CORSOrigins[:0]
	for _, o := range c.CORSOrigins {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	c.CORSOrigins = origins
	return c
}

func (c Config) Address() string { return ":" + c.Port }
