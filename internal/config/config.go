// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Redis       RedisConfig
	Sequence    SequenceConfig
	Kafka       KafkaConfig
	AWS         AWSConfig
	Storage     StorageConfig
	Label       LabelConfig
	GPS         GPSConfig
	CORS        CORSConfig
	RateLimit   RateLimitConfig
	I18n        I18nConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	IdleTimeout     int
	ShutdownTimeout int
	LogLevel        string
	LogFormat       string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey      string
	Issuer         string
	AccessTokenTTL int // in hours
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// SequenceConfig selects the counter store behind batch code allocation.
type SequenceConfig struct {
	Backend        string // postgres, redis or memory
	OverflowPolicy string // reject or subsequence
	RetentionDays  int    // redis only; 0 keeps counters forever
	KeyPrefix      string
}

func (s SequenceConfig) Retention() time.Duration {
	return time.Duration(s.RetentionDays) * 24 * time.Hour
}

type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	CloudFrontURL   string
}

type StorageConfig struct {
	Driver    string // s3 or local
	LocalPath string
	BaseURL   string
}

type LabelConfig struct {
	VerifyBaseURL string
	Organization  string
}

type GPSConfig struct {
	TimeoutSeconds int
	MaxAgeSeconds  int
}

func (g GPSConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

func (g GPSConfig) MaxAge() time.Duration {
	return time.Duration(g.MaxAgeSeconds) * time.Second
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:            getEnv("SERVER_PORT", "8080"),
			Host:            getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:     getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:     getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
			ShutdownTimeout: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 30),
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			LogFormat:       getEnv("LOG_FORMAT", "text"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "agritrace"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", defaultJWTSecret),
			Issuer:         getEnv("JWT_ISSUER", "agritrace360"),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 24), // 24 hours
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Sequence: SequenceConfig{
			Backend:        strings.ToLower(getEnv("SEQUENCE_BACKEND", "postgres")),
			OverflowPolicy: strings.ToLower(getEnv("SEQUENCE_OVERFLOW_POLICY", "reject")),
			RetentionDays:  getEnvAsInt("SEQUENCE_RETENTION_DAYS", 0),
			KeyPrefix:      getEnv("SEQUENCE_KEY_PREFIX", "agritrace:batchseq:"),
		},
		Kafka: KafkaConfig{
			Enabled: getEnvAsBool("KAFKA_ENABLED", false),
			Brokers: getEnvAsSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:   getEnv("KAFKA_TOPIC", "agritrace.commodities"),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "agritrace-labels"),
			CloudFrontURL:   getEnv("AWS_CLOUDFRONT_URL", ""),
		},
		Storage: StorageConfig{
			Driver:    strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			LocalPath: getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			BaseURL:   getEnv("STORAGE_BASE_URL", "/uploads"),
		},
		Label: LabelConfig{
			VerifyBaseURL: getEnv("LABEL_VERIFY_BASE_URL", "https://agritrace360.lacra.gov.lr/verify"),
			Organization:  getEnv("LABEL_ORGANIZATION", "Liberia Agriculture Commodity Regulatory Authority"),
		},
		GPS: GPSConfig{
			TimeoutSeconds: getEnvAsInt("GPS_TIMEOUT_SECONDS", 10),
			MaxAgeSeconds:  getEnvAsInt("GPS_MAX_AGE_SECONDS", 60),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.JWT.SecretKey == defaultJWTSecret && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	switch c.Sequence.Backend {
	case "postgres", "redis":
	case "memory":
		if c.Environment == "production" {
			return fmt.Errorf("memory sequence backend is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown sequence backend %q", c.Sequence.Backend)
	}

	switch c.Sequence.OverflowPolicy {
	case "reject", "subsequence":
	default:
		return fmt.Errorf("unknown sequence overflow policy %q", c.Sequence.OverflowPolicy)
	}

	switch c.Storage.Driver {
	case "local", "s3":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka is enabled but no brokers are configured")
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
