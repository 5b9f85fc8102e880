package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Cart          CartConfig
	Admin         AdminConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Feedback      FeedbackConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Admin.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"LONDONSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"LONDONSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"LONDONSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"LONDONSHOP_LOG_WARN_STACK" default:"false"`
	// CORSOrigins is a comma separated list of storefront origins.
	CORSOrigins []string `envconfig:"LONDONSHOP_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"LONDONSHOP_DB_DSN" required:"true"`
	Driver string `envconfig:"LONDONSHOP_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"LONDONSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"LONDONSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"LONDONSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LONDONSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	// SlowQuery is the threshold above which queries are logged at warn.
	SlowQuery time.Duration `envconfig:"LONDONSHOP_DB_SLOW_QUERY" default:"500ms"`
}

// IsSQLite reports whether the configured driver is the embedded SQLite one.
func (d DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(d.Driver), DBDriverSQLite)
}

func (d DBConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(d.Driver)) {
	case DBDriverPostgres, DBDriverSQLite:
		return nil
	}
	return fmt.Errorf("%s must be one of %s, %s", EnvDBDriver, DBDriverPostgres, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"LONDONSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"LONDONSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"LONDONSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"LONDONSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LONDONSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LONDONSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LONDONSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LONDONSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LONDONSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig tunes the per-session cart lifecycle.
type CartConfig struct {
	SessionCookie string        `envconfig:"LONDONSHOP_CART_SESSION_COOKIE" default:"london-shop-cart-session"`
	PersistTTL    time.Duration `envconfig:"LONDONSHOP_CART_PERSIST_TTL" default:"720h"`
	IdleTTL       time.Duration `envconfig:"LONDONSHOP_CART_IDLE_TTL" default:"30m"`
	EvictInterval time.Duration `envconfig:"LONDONSHOP_CART_EVICT_INTERVAL" default:"1m"`
}

type AdminConfig struct {
	Password     string        `envconfig:"LONDONSHOP_ADMIN_PASSWORD"`
	PasswordHash string        `envconfig:"LONDONSHOP_ADMIN_PASSWORD_HASH"`
	JWTSecret    string        `envconfig:"LONDONSHOP_ADMIN_JWT_SECRET" required:"true"`
	JWTIssuer    string        `envconfig:"LONDONSHOP_ADMIN_JWT_ISSUER" default:"london-shop"`
	SessionTTL   time.Duration `envconfig:"LONDONSHOP_ADMIN_SESSION_TTL" default:"24h"`
	CookieName   string        `envconfig:"LONDONSHOP_ADMIN_COOKIE" default:"london-shop-admin-session"`
}

func (a AdminConfig) validate() error {
	if strings.TrimSpace(a.Password) == "" && strings.TrimSpace(a.PasswordHash) == "" {
		return fmt.Errorf("either %s or %s is required", EnvAdminPassword, EnvAdminPasswordHash)
	}
	if a.SessionTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvAdminSessionTTL)
	}
	return nil
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"LONDONSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"LONDONSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"LONDONSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"LONDONSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"LONDONSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"LONDONSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit int           `envconfig:"LONDONSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"10"`
}

// FeedbackConfig controls the persistence retry policy for checkout feedback.
// With Fallback set, exhausted retries degrade to a placeholder record or an
// empty listing instead of an error.
type FeedbackConfig struct {
	MaxRetries     uint64        `envconfig:"LONDONSHOP_FEEDBACK_MAX_RETRIES" default:"3"`
	InitialBackoff time.Duration `envconfig:"LONDONSHOP_FEEDBACK_INITIAL_BACKOFF" default:"1s"`
	Fallback       bool          `envconfig:"LONDONSHOP_FEEDBACK_FALLBACK" default:"true"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"LONDONSHOP_AUTO_MIGRATE" default:"false"`
}
