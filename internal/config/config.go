package config

import (
	"slices"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Store      StoreConfig      `yaml:"store"`
	Database   DatabaseConfig   `yaml:"database"`
	SQLite     SQLiteConfig     `yaml:"sqlite"`
	Surreal    SurrealConfig    `yaml:"surreal"`
	Auth       AuthConfig       `yaml:"auth"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Features   FeaturesConfig   `yaml:"features"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// Supported record store drivers.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverSurreal  = "surreal"
)

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES" env-default:"10485760"`
}

// StoreConfig selects the record store and locates its credentials file.
// When the credentials file cannot be found or parsed, the application
// falls back to the in-memory driver.
type StoreConfig struct {
	Driver          string `yaml:"driver"           env:"STORE_DRIVER"           env-default:"memory"`
	CredentialsFile string `yaml:"credentials_file" env:"STORE_CREDENTIALS_FILE" env-default:"zinote-credentials.json"`
	SearchDir       string `yaml:"search_dir"       env:"STORE_SEARCH_DIR"`
	SearchDepth     int    `yaml:"search_depth"     env:"STORE_SEARCH_DEPTH"     env-default:"5"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// SQLiteConfig holds the on-device database location.
type SQLiteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH" env-default:"zinote.db"`
}

// SurrealConfig holds SurrealDB connection settings. The namespace is the
// project_id from the credentials file.
type SurrealConfig struct {
	URL      string `yaml:"url"      env:"SURREAL_URL"      env-default:"ws://localhost:8000"`
	Database string `yaml:"database" env:"SURREAL_DATABASE" env-default:"dictionary"`
	Username string `yaml:"username" env:"SURREAL_USERNAME" env-default:"root"`
	Password string `yaml:"password" env:"SURREAL_PASSWORD"`
}

// AuthConfig holds bearer token settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"zinote"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"12h"`
}

// DictionaryConfig holds dictionary service settings.
type DictionaryConfig struct {
	DefaultPageSize int           `yaml:"default_page_size" env:"DICT_DEFAULT_PAGE_SIZE" env-default:"20"`
	MaxPageSize     int           `yaml:"max_page_size"     env:"DICT_MAX_PAGE_SIZE"     env-default:"200"`
	BatchChunkSize  int           `yaml:"batch_chunk_size"  env:"DICT_BATCH_CHUNK_SIZE"  env-default:"500"`
	SearchMinLength int           `yaml:"search_min_length" env:"DICT_SEARCH_MIN_LENGTH" env-default:"2"`
	SearchDebounce  time.Duration `yaml:"search_debounce"   env:"DICT_SEARCH_DEBOUNCE"   env-default:"1s"`
	SuggestLimit    int           `yaml:"suggest_limit"     env:"DICT_SUGGEST_LIMIT"     env-default:"10"`
	CollectionsRaw  string        `yaml:"collections"       env:"DICT_COLLECTIONS"       env-default:"health_dictionary,military_dictionary"`

	// Collections is parsed from CollectionsRaw during validation.
	// Empty means any well-formed collection name is accepted.
	Collections []string `yaml:"-" env:"-"`
}

// FeaturesConfig toggles optional surfaces.
type FeaturesConfig struct {
	EnableImport bool `yaml:"enable_import" env:"FEATURE_ENABLE_IMPORT" env-default:"true"`
	EnableExport bool `yaml:"enable_export" env:"FEATURE_ENABLE_EXPORT" env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-client request limits.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" env:"RATE_LIMIT_RPM"   env-default:"300"`
	Burst             int `yaml:"burst"               env:"RATE_LIMIT_BURST" env-default:"50"`
}

// IsCollectionAllowed reports whether name is one of the configured
// collections. An empty list allows everything.
func (c DictionaryConfig) IsCollectionAllowed(name string) bool {
	if len(c.Collections) == 0 {
		return true
	}
	return slices.Contains(c.Collections, name)
}
