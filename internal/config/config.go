package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Keycloak  KeycloakConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Upload    UploadConfig
	MinIO     MinIOConfig
	Geocoder  GeocoderConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	LogLevel     string
	LogFormat    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type KeycloakConfig struct {
	URL          string
	Realm        string
	ClientID     string
	ClientSecret string

	// AllowInsecureToken accepts unverified token payloads when the OIDC
	// provider cannot be discovered. Integration environments only.
	AllowInsecureToken bool
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// UploadConfig controls bootcamp photo uploads.
type UploadConfig struct {
	// MaxFileUpload is the largest accepted photo in bytes.
	MaxFileUpload int64
	// Path is the filesystem root for the "filesystem" backend.
	Path string
	// Backend is "filesystem" or "minio".
	Backend string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type GeocoderConfig struct {
	Provider string
	URL      string
	APIKey   string
	CacheTTL time.Duration
}

// LoadConfig loads configuration from environment variables and the optional
// config/config.env file.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load("config/config.env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("MONGODB_DATABASE", "devcamper")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("JWT_ACCESS_TOKEN_TTL", 60*24*30)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 600)
	v.SetDefault("MAX_FILE_UPLOAD", 1000000)
	v.SetDefault("FILE_UPLOAD_PATH", "./public/uploads")
	v.SetDefault("UPLOAD_BACKEND", "filesystem")
	v.SetDefault("MINIO_BUCKET", "devcamper")
	v.SetDefault("GEOCODER_PROVIDER", "mapquest")
	v.SetDefault("GEOCODER_URL", "https://www.mapquestapi.com/geocoding/v1/address")
	v.SetDefault("GEOCODER_CACHE_TTL", 60*24)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			LogLevel:     v.GetString("LOG_LEVEL"),
			LogFormat:    v.GetString("LOG_FORMAT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Keycloak: KeycloakConfig{
			URL:          v.GetString("KEYCLOAK_URL"),
			Realm:        v.GetString("KEYCLOAK_REALM"),
			ClientID:     v.GetString("KEYCLOAK_CLIENT_ID"),
			ClientSecret: v.GetString("KEYCLOAK_CLIENT_SECRET"),

			AllowInsecureToken: v.GetBool("ALLOW_INSECURE_TOKEN"),
		},
		JWT: JWTConfig{
			Secret:         v.GetString("JWT_SECRET"),
			AccessTokenTTL: time.Duration(v.GetInt("JWT_ACCESS_TOKEN_TTL")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Upload: UploadConfig{
			MaxFileUpload: v.GetInt64("MAX_FILE_UPLOAD"),
			Path:          v.GetString("FILE_UPLOAD_PATH"),
			Backend:       strings.ToLower(v.GetString("UPLOAD_BACKEND")),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		Geocoder: GeocoderConfig{
			Provider: strings.ToLower(v.GetString("GEOCODER_PROVIDER")),
			URL:      v.GetString("GEOCODER_URL"),
			APIKey:   v.GetString("GEOCODER_API_KEY"),
			CacheTTL: time.Duration(v.GetInt("GEOCODER_CACHE_TTL")) * time.Minute,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Upload.MaxFileUpload <= 0 {
		return fmt.Errorf("MAX_FILE_UPLOAD must be positive, got %d", c.Upload.MaxFileUpload)
	}
	switch c.Upload.Backend {
	case "filesystem":
	case "minio":
		if c.MinIO.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required when UPLOAD_BACKEND=minio")
		}
	default:
		return fmt.Errorf("unsupported UPLOAD_BACKEND %q", c.Upload.Backend)
	}
	if c.Keycloak.URL == "" && c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required when Keycloak is not configured")
	}
	return nil
}
