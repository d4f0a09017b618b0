package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
	Timeline TimelineConfig `yaml:"timeline"`
	Cache    CacheConfig    `yaml:"cache"`
	Sync     SyncConfig     `yaml:"sync"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimit       int           `yaml:"rate_limit"       env:"SERVER_RATE_LIMIT"       env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// TimelineConfig holds aggregation and pagination settings.
type TimelineConfig struct {
	DefaultPageSize int           `yaml:"default_page_size" env:"TIMELINE_DEFAULT_PAGE_SIZE" env-default:"20"`
	MaxPageSize     int           `yaml:"max_page_size"     env:"TIMELINE_MAX_PAGE_SIZE"     env-default:"50"`
	OverfetchFloor  int           `yaml:"overfetch_floor"   env:"TIMELINE_OVERFETCH_FLOOR"   env-default:"100"`
	OverfetchFactor int           `yaml:"overfetch_factor"  env:"TIMELINE_OVERFETCH_FACTOR"  env-default:"2"`
	MaxWindow       int           `yaml:"max_window"        env:"TIMELINE_MAX_WINDOW"        env-default:"1600"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"     env:"TIMELINE_FETCH_TIMEOUT"     env-default:"15s"`
	BirthWindow     time.Duration `yaml:"birth_window"      env:"TIMELINE_BIRTH_WINDOW"      env-default:"24h"`
	BirthTitle      string        `yaml:"birth_title"       env:"TIMELINE_BIRTH_TITLE"       env-default:"Welcome to the world"`
}

// CacheConfig holds client-side timeline cache settings.
type CacheConfig struct {
	Enabled       bool          `yaml:"enabled"        env:"CACHE_ENABLED"        env-default:"true"`
	Dir           string        `yaml:"dir"            env:"CACHE_DIR"            env-default:"./.timeline-cache"`
	TTL           time.Duration `yaml:"ttl"            env:"CACHE_TTL"            env-default:"24h"`
	PageSize      int           `yaml:"page_size"      env:"CACHE_PAGE_SIZE"      env-default:"20"`
	SnapshotLimit int           `yaml:"snapshot_limit" env:"CACHE_SNAPSHOT_LIMIT" env-default:"200"`
	MemoryBytes   uint64        `yaml:"memory_bytes"   env:"CACHE_MEMORY_BYTES"   env-default:"1048576"`
}

// SyncConfig holds settings for the client-side sync controller.
type SyncConfig struct {
	APIURL         string        `yaml:"api_url"         env:"SYNC_API_URL"         env-default:"http://localhost:8080"`
	ProbeInterval  time.Duration `yaml:"probe_interval"  env:"SYNC_PROBE_INTERVAL"  env-default:"10s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env:"SYNC_REQUEST_TIMEOUT" env-default:"20s"`
	PageSize       int           `yaml:"page_size"       env:"SYNC_PAGE_SIZE"       env-default:"20"`
}

// Window returns the per-collection over-fetch size for a page:
// max(floor, pageSize*factor).
func (c TimelineConfig) Window(pageSize int) int {
	return max(c.OverfetchFloor, pageSize*c.OverfetchFactor)
}
