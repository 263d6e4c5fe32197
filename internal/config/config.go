package config

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT, default=3000"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	DatabaseURL string `env:"DATABASE_URL"`
	DBDriver    string `env:"DB_DRIVER, default=pgx"`

	Session SessionConfig
	Redis   RedisConfig

	PublicDir string `env:"PUBLIC_DIR, default=public"`
	UploadDir string `env:"UPLOAD_DIR, default=public/images"`

	KafkaBrokers []string `env:"KAFKA_BROKERS"`

	ES ESConfig

	BootstrapAdminEmail string `env:"BOOTSTRAP_ADMIN_EMAIL"`
	CSRFEnabled         bool   `env:"CSRF_ENABLED, default=true"`
}

type SessionConfig struct {
	Store        string        `env:"SESSION_STORE, default=memory"`
	TTL          time.Duration `env:"SESSION_TTL, default=24h"`
	CookieName   string        `env:"SESSION_COOKIE, default=sid"`
	CookieSecure bool          `env:"COOKIE_SECURE, default=false"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB, default=0"`
}

type ESConfig struct {
	URL      string `env:"ES_URL"`
	User     string `env:"ES_USER"`
	Password string `env:"ES_PASSWORD"`
	Index    string `env:"ES_INDEX, default=cars"`
}

// Load reads .env (when present) and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromLookuper(ctx, envconfig.OsLookuper())
}

func FromLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config: missing required env DATABASE_URL")
	}
	switch c.DBDriver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("config: DB_DRIVER must be pgx or postgres, got %q", c.DBDriver)
	}
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: SESSION_STORE must be memory or redis, got %q", c.Session.Store)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive")
	}
	return nil
}
