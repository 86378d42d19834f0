package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration.
// It is built once at startup by Load and passed by pointer to every component;
// nothing mutates it afterwards.
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	MinIO      MinIOConfig
	Queue      QueueConfig
	Cache      CacheConfig
	Security   SecurityConfig
	Password   PasswordConfig
	Users      UserConfig
	Post       PostConfig
	RateLimit  RateLimitConfig
	Pagination PaginationConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	LogLevel    string
	// TrustedProxies lists proxy IPs/CIDRs whose forwarding headers are
	// believed. Empty means the socket address is the client.
	TrustedProxies []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base URL used when rendering avatar links
}

type QueueConfig struct {
	Concurrency int
}

// =====================================================
// BLOG SETTINGS
// =====================================================

type CacheConfig struct {
	Driver  string // redis, memory
	ListTTL time.Duration
}

type SecurityConfig struct {
	SanitizeMaxDepth int
}

type PasswordConfig struct {
	MinLength  int
	MaxLength  int
	MinEntropy float64 // bits
}

type UserConfig struct {
	EmailMaxLength     int
	FirstNameMaxLength int
	LastNameMaxLength  int
	AvatarMaxSize      int64
	AvatarMaxPixels    int64
	AvatarFormats      []string
}

type PostConfig struct {
	TitleMaxLength int
	BodyMaxLength  int
}

type RateLimitConfig struct {
	PostCreate int // requests per window per IP
	Register   int
	Window     time.Duration
}

type PaginationConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Blog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),

			TrustedProxies: getEnvList("TRUSTED_PROXIES"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "blog"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),  // 15 minutes
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72), // 3 days
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "blog"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
			PublicURL: getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
		},
		Queue: QueueConfig{
			Concurrency: getEnvInt("WORKER_CONCURRENCY", 5),
		},
		Cache: CacheConfig{
			Driver:  getEnv("CACHE_DRIVER", "redis"),
			ListTTL: getEnvDuration("CACHE_LIST_TTL", 60*time.Second),
		},
		Security: SecurityConfig{
			SanitizeMaxDepth: getEnvInt("SANITIZE_MAX_DEPTH", 10),
		},
		Password: PasswordConfig{
			MinLength:  getEnvInt("PASSWORD_MIN_LENGTH", 8),
			MaxLength:  getEnvInt("PASSWORD_MAX_LENGTH", 128),
			MinEntropy: float64(getEnvInt("PASSWORD_MIN_ENTROPY", 50)),
		},
		Users: UserConfig{
			EmailMaxLength:     255,
			FirstNameMaxLength: 50,
			LastNameMaxLength:  50,
			AvatarMaxSize:      int64(getEnvInt("AVATAR_MAX_SIZE", 5*1024*1024)),
			AvatarMaxPixels:    int64(getEnvInt("AVATAR_MAX_PIXELS", 25_000_000)),
			AvatarFormats:      strings.Split(getEnv("AVATAR_FORMATS", "jpeg,png,webp"), ","),
		},
		Post: PostConfig{
			TitleMaxLength: 200,
			BodyMaxLength:  5000,
		},
		RateLimit: RateLimitConfig{
			PostCreate: getEnvInt("RATE_LIMIT_POST_CREATE", 20),
			Register:   getEnvInt("RATE_LIMIT_REGISTER", 5),
			Window:     time.Minute,
		},
		Pagination: PaginationConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks settings that must never reach production with defaults.
func (c *Config) Validate() error {
	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	if c.Cache.Driver != "redis" && c.Cache.Driver != "memory" {
		return fmt.Errorf("CACHE_DRIVER must be redis or memory, got %q", c.Cache.Driver)
	}
	for _, proxy := range c.App.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES: invalid entry %q", proxy)
			}
		}
	}
	if c.Security.SanitizeMaxDepth < 1 {
		return fmt.Errorf("SANITIZE_MAX_DEPTH must be positive")
	}
	if c.Password.MinLength > c.Password.MaxLength {
		return fmt.Errorf("PASSWORD_MIN_LENGTH exceeds PASSWORD_MAX_LENGTH")
	}

	return nil
}

// IsDevelopment reports whether the app runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma-separated value, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
