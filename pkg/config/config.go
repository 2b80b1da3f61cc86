package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	DB            DBConfig
	Redis         RedisConfig
	IDToken       IDTokenConfig
	RateLimit     RateLimitConfig
	Pagination    PaginationConfig
	PlaceProvider PlaceProviderConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SPOTLISTS_APP_ENV" required:"true"`
	Port         string `envconfig:"SPOTLISTS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SPOTLISTS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPOTLISTS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type HTTPConfig struct {
	// BaseURL is the externally visible origin used when building pagination
	// links, e.g. https://api.spotlists.app.
	BaseURL           string        `envconfig:"SPOTLISTS_HTTP_BASE_URL" default:"http://localhost:3001"`
	AllowedOrigins    []string      `envconfig:"SPOTLISTS_HTTP_ALLOWED_ORIGINS" default:"http://localhost:3000"`
	ReadHeaderTimeout time.Duration `envconfig:"SPOTLISTS_HTTP_READ_HEADER_TIMEOUT" default:"5s"`
	ReadTimeout       time.Duration `envconfig:"SPOTLISTS_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout      time.Duration `envconfig:"SPOTLISTS_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownGrace     time.Duration `envconfig:"SPOTLISTS_HTTP_SHUTDOWN_GRACE" default:"10s"`
}

type DBConfig struct {
	DSN    string `envconfig:"SPOTLISTS_DB_DSN"`
	Driver string `envconfig:"SPOTLISTS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SPOTLISTS_DB_HOST"`
	LegacyPort     int    `envconfig:"SPOTLISTS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SPOTLISTS_DB_USER"`
	LegacyPassword string `envconfig:"SPOTLISTS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SPOTLISTS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SPOTLISTS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SPOTLISTS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SPOTLISTS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SPOTLISTS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SPOTLISTS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SPOTLISTS_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"SPOTLISTS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SPOTLISTS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SPOTLISTS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SPOTLISTS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SPOTLISTS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// IDTokenConfig describes how identity-provider tokens are verified.
type IDTokenConfig struct {
	Secret   string        `envconfig:"SPOTLISTS_ID_TOKEN_SECRET" required:"true"`
	Issuer   string        `envconfig:"SPOTLISTS_ID_TOKEN_ISSUER" required:"true"`
	Audience string        `envconfig:"SPOTLISTS_ID_TOKEN_AUDIENCE"`
	Leeway   time.Duration `envconfig:"SPOTLISTS_ID_TOKEN_LEEWAY" default:"30s"`
}

type RateLimitConfig struct {
	RegisterWindow     time.Duration `envconfig:"SPOTLISTS_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SPOTLISTS_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SPOTLISTS_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type PaginationConfig struct {
	DefaultLimit   int `envconfig:"SPOTLISTS_PAGE_DEFAULT_LIMIT" default:"10"`
	UserListsLimit int `envconfig:"SPOTLISTS_PAGE_USER_LISTS_LIMIT" default:"5"`
	MaxLimit       int `envconfig:"SPOTLISTS_PAGE_MAX_LIMIT" default:"100"`
}

type PlaceProviderConfig struct {
	APIKey  string        `envconfig:"SPOTLISTS_PLACES_API_KEY"`
	BaseURL string        `envconfig:"SPOTLISTS_PLACES_BASE_URL"`
	Timeout time.Duration `envconfig:"SPOTLISTS_PLACES_TIMEOUT" default:"10s"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SPOTLISTS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SPOTLISTS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
