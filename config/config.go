package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads variables from .env when GO_ENV is unset or "development"
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		if err := godotenv.Load(); err != nil {
			return err
		}
	}

	return nil
}

// DBConfig holds PostgreSQL connection settings
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the GORM/pgx connection string
func (d DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode,
	)
}

// JWTConfig holds token signing settings. Algorithm must be one of the
// HMAC family (HS256, HS384, HS512).
type JWTConfig struct {
	Secret     string
	Algorithm  string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// MediaConfig holds S3-compatible object storage credentials. Image bytes
// never flow anywhere else.
type MediaConfig struct {
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	Endpoint  string
	CDNURL    string
}

// RateLimitConfig is the global per-IP limit applied in front of every route
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Config is the immutable process configuration. It is built once at
// startup by Load and passed explicitly to every component; nothing below
// the app layer reads the environment.
type Config struct {
	Env            string
	Port           int
	AllowedOrigins string
	AllowedRoles   []string

	DB        DBConfig
	JWT       JWTConfig
	Media     MediaConfig
	RateLimit RateLimitConfig
	RedisURL  string
}

// Load reads the environment into a Config, applying defaults
func Load() (*Config, error) {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	accessMinutes := envMinutes("ACCESS_TOKEN_TTL_MINUTES", 15)
	refreshMinutes := envMinutes("REFRESH_TOKEN_TTL_MINUTES", 7*24*60)

	algorithm := os.Getenv("JWT_ALGORITHM")
	if algorithm == "" {
		algorithm = "HS256"
	}
	switch algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return nil, fmt.Errorf("config: unsupported signing algorithm %q", algorithm)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is not set")
	}

	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "photoshare-api"
	}

	roles := strings.Split(envDefault("ALLOWED_ROLES", "user,moderator,admin"), ",")
	for i := range roles {
		roles[i] = strings.TrimSpace(roles[i])
	}

	cfg := &Config{
		Env:            os.Getenv("GO_ENV"),
		Port:           port,
		AllowedOrigins: envDefault("ALLOWED_ORIGINS", "http://localhost:3000"),
		AllowedRoles:   roles,
		DB: DBConfig{
			Host:     envDefault("DB_HOST", "localhost"),
			Port:     envDefault("DB_PORT", "5432"),
			User:     os.Getenv("DB_USER_NAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  envDefault("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:     secret,
			Algorithm:  algorithm,
			Issuer:     issuer,
			AccessTTL:  time.Duration(accessMinutes) * time.Minute,
			RefreshTTL: time.Duration(refreshMinutes) * time.Minute,
		},
		Media: MediaConfig{
			AccessKey: os.Getenv("MEDIA_ACCESS_KEY"),
			SecretKey: os.Getenv("MEDIA_SECRET_KEY"),
			Bucket:    os.Getenv("MEDIA_BUCKET"),
			Region:    envDefault("MEDIA_REGION", "ams3"),
			Endpoint:  os.Getenv("MEDIA_ENDPOINT"),
			CDNURL:    os.Getenv("MEDIA_CDN_URL"),
		},
		RateLimit: RateLimitConfig{
			Requests: envInt("RATE_LIMIT_REQUESTS", 100),
			Window:   time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		},
		RedisURL: envDefault("REDIS_URL", "redis://localhost:6379/0"),
	}

	return cfg, nil
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envMinutes(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
