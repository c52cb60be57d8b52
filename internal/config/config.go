package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	ApplicationName    string
	StatementTimeoutMs int
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for profile images.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// RedisConfig holds the connection settings of the logout blacklist cache.
type RedisConfig struct {
	URL      string
	Addr     string
	Password string
	DB       int
}

// JWTConfig controls token signing and lifetimes.
type JWTConfig struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// OAuthProviderConfig describes one external identity provider.
type OAuthProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	State        string
}

// OAuthConfig groups the supported providers.
type OAuthConfig struct {
	Google OAuthProviderConfig
	Naver  OAuthProviderConfig
}

// CookieConfig controls the refresh token cookie.
type CookieConfig struct {
	Name   string
	Domain string
	Path   string
	Secure bool
}

// RateLimitConfig bounds login attempts per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// SchedulerConfig holds cron specs of the background jobs.
type SchedulerConfig struct {
	StatsSyncSpec  string
	TokenPurgeSpec string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost   string
	Port      string
	Timezone  string
	NATSURL   string
	Database  DatabaseConfig
	MinIO     MinIOConfig
	Redis     RedisConfig
	JWT       JWTConfig
	OAuth     OAuthConfig
	Cookie    CookieConfig
	RateLimit RateLimitConfig
	Scheduler SchedulerConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
func Load() *AppConfig {
	return &AppConfig{
		AppHost:  getEnv("APP_HOST", "localhost:8080"),
		Port:     getEnv("PORT", "8080"),
		Timezone: getEnv("TZ", "Asia/Seoul"),
		NATSURL:  getEnv("NATS_URL", ""),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "weshare-api"),
			StatementTimeoutMs: getEnvInt("DB_STATEMENT_TIMEOUT_MS", 0),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "weshare-profiles"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", ""),
			Issuer:     getEnv("JWT_ISSUER", "weshare"),
			AccessTTL:  getEnvDuration("JWT_ACCESS_TTL", time.Hour),
			RefreshTTL: getEnvDuration("JWT_REFRESH_TTL", 14*24*time.Hour),
		},
		OAuth: OAuthConfig{
			Google: OAuthProviderConfig{
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				RedirectURI:  getEnv("GOOGLE_REDIRECT_URI", ""),
				AuthURL:      getEnv("GOOGLE_AUTH_URL", "https://accounts.google.com/o/oauth2/v2/auth"),
				TokenURL:     getEnv("GOOGLE_TOKEN_URL", "https://oauth2.googleapis.com/token"),
				UserInfoURL:  getEnv("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo"),
			},
			Naver: OAuthProviderConfig{
				ClientID:     getEnv("NAVER_CLIENT_ID", ""),
				ClientSecret: getEnv("NAVER_CLIENT_SECRET", ""),
				RedirectURI:  getEnv("NAVER_REDIRECT_URI", ""),
				AuthURL:      getEnv("NAVER_AUTH_URL", "https://nid.naver.com/oauth2.0/authorize"),
				TokenURL:     getEnv("NAVER_TOKEN_URL", "https://nid.naver.com/oauth2.0/token"),
				UserInfoURL:  getEnv("NAVER_USERINFO_URL", "https://openapi.naver.com/v1/nid/me"),
				State:        getEnv("NAVER_STATE", ""),
			},
		},
		Cookie: CookieConfig{
			Name:   getEnv("REFRESH_COOKIE_NAME", "Refresh-Token"),
			Domain: getEnv("REFRESH_COOKIE_DOMAIN", ""),
			Path:   getEnv("REFRESH_COOKIE_PATH", "/"),
			Secure: getEnvBool("REFRESH_COOKIE_SECURE", true),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
			Burst:             getEnvInt("LOGIN_RATE_BURST", 5),
		},
		Scheduler: SchedulerConfig{
			StatsSyncSpec:  getEnv("STATS_SYNC_SPEC", "@every 1h"),
			TokenPurgeSpec: getEnv("TOKEN_PURGE_SPEC", "@every 6h"),
		},
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
