package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Loader   LoaderConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ShutdownTimeout int
}

// PostgresConfig holds relational store configuration
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// MongoConfig holds document store configuration
type MongoConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// RedisConfig holds Redis configuration for the batch dedupe ledger
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// StorageConfig holds object storage configuration for staged batch files
type StorageConfig struct {
	Enabled         bool
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// LoaderConfig holds loading engine tuning
type LoaderConfig struct {
	ChunkSize            int
	StoreTimeout         time.Duration
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration
	RetryMaxElapsedTime  time.Duration
	RetryMaxAttempts     int
	LedgerTTL            time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "airflow"),
			Password: getEnv("POSTGRES_PASSWORD", "airflow"),
			Name:     getEnv("POSTGRES_DB", "meetingbank"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("POSTGRES_MAX_CONNS", 25),
			MinConns: getEnvAsInt("POSTGRES_MIN_CONNS", 5),
		},
		Mongo: MongoConfig{
			Host:     getEnv("MONGODB_HOST", "localhost"),
			Port:     getEnv("MONGODB_PORT", "27017"),
			User:     getEnv("MONGODB_USER", "admin"),
			Password: getEnv("MONGODB_PASSWORD", "admin123"),
			Name:     getEnv("MONGODB_DB", "meetingbank"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Storage: StorageConfig{
			Enabled:         getEnvAsBool("STORAGE_ENABLED", false),
			Endpoint:        getEnv("STORAGE_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("STORAGE_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("STORAGE_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("STORAGE_BUCKET", "meetingbank-staging"),
			UseSSL:          getEnvAsBool("STORAGE_USE_SSL", false),
		},
		Loader: LoaderConfig{
			ChunkSize:            getEnvAsInt("LOADER_CHUNK_SIZE", 100),
			StoreTimeout:         getEnvAsDuration("LOADER_STORE_TIMEOUT", "30s"),
			RetryInitialInterval: getEnvAsDuration("LOADER_RETRY_INITIAL_INTERVAL", "5s"),
			RetryMaxInterval:     getEnvAsDuration("LOADER_RETRY_MAX_INTERVAL", "15s"),
			RetryMaxElapsedTime:  getEnvAsDuration("LOADER_RETRY_MAX_ELAPSED", "45s"),
			RetryMaxAttempts:     getEnvAsInt("LOADER_RETRY_MAX_ATTEMPTS", 3),
			LedgerTTL:            getEnvAsDuration("LOADER_LEDGER_TTL", "24h"),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Loader.ChunkSize <= 0 {
		return fmt.Errorf("LOADER_CHUNK_SIZE must be positive")
	}
	if c.Loader.RetryMaxAttempts < 0 {
		return fmt.Errorf("LOADER_RETRY_MAX_ATTEMPTS must not be negative")
	}
	return nil
}

// GetPostgresDSN returns the relational store connection string
func (c *Config) GetPostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Name,
		c.Postgres.SSLMode,
	)
}

// GetMongoURI returns the document store connection string
func (c *Config) GetMongoURI() string {
	if c.Mongo.User == "" {
		return fmt.Sprintf("mongodb://%s:%s/", c.Mongo.Host, c.Mongo.Port)
	}
	return fmt.Sprintf(
		"mongodb://%s:%s@%s:%s/",
		c.Mongo.User,
		c.Mongo.Password,
		c.Mongo.Host,
		c.Mongo.Port,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
