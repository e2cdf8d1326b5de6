package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting read from the environment (.env included)
type Config struct {
	Port    string `env:"PORT" envDefault:"8080"`
	Prod    bool   `env:"PROD" envDefault:"false"`
	UseTLS  bool   `env:"USE_HTTPS" envDefault:"false"`
	TLSCert string `env:"TLS_CERT_FILE"`
	TLSKey  string `env:"TLS_KEY_FILE"`

	RedisURL string `env:"REDIS_URL" envDefault:"localhost:6379"`
	RedisDB  int    `env:"REDIS_DB" envDefault:"0"`

	Postgres PostgresConfig

	JWTSecret string `env:"JWT_SECRET,required,notEmpty"`

	SessionTTL        time.Duration `env:"SESSION_TTL" envDefault:"1h"`
	LockTTL           time.Duration `env:"LOCK_TTL" envDefault:"10s"`
	DistributedLocks  bool          `env:"DISTRIBUTED_LOCKS" envDefault:"false"`
	RoomRelay         bool          `env:"ROOM_RELAY" envDefault:"false"`
	NameLookupTimeout time.Duration `env:"NAME_LOOKUP_TIMEOUT" envDefault:"2s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// PostgresConfig holds the connection settings of the relational store
type PostgresConfig struct {
	User     string `env:"POSTGRES_USER"`
	Password string `env:"POSTGRES_PASSWORD"`
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	Database string `env:"POSTGRES_DATABASE"`
	Verbose  bool   `env:"VERBOSE_POSTGRES" envDefault:"false"`
	Migrate  bool   `env:"MIGRATE_POSTGRES" envDefault:"false"`
}

// DSN returns the connection string for sql.Open("postgres", ...)
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		p.User, p.Password, p.Host, p.Port, p.Database)
}

// Load reads the optional .env files and parses the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	// A missing .env is fine, deployments set the variables directly
	_ = godotenv.Load(files...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.LockTTL <= 0 {
		return fmt.Errorf("LOCK_TTL must be positive, got %s", c.LockTTL)
	}
	if c.NameLookupTimeout <= 0 {
		return fmt.Errorf("NAME_LOOKUP_TIMEOUT must be positive, got %s", c.NameLookupTimeout)
	}
	if c.UseTLS && (c.TLSCert == "" || c.TLSKey == "") {
		return fmt.Errorf("USE_HTTPS requires TLS_CERT_FILE and TLS_KEY_FILE")
	}
	return nil
}
