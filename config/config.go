package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Store    StoreConfig
	Mongo    MongoConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Geocoder GeocoderConfig
	CORS     CORSConfig
	Backup   BackupConfig
	S3       S3Config
	Client   ClientConfig
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type LogConfig struct {
	Level  string
	Format string
}

// StoreConfig selects the persistence backend: "mongo" or "postgres".
type StoreConfig struct {
	Driver string
}

type MongoConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type GeocoderConfig struct {
	Provider     string // google, nominatim; empty picks google when an API key is set
	APIKey       string
	NominatimURL string
	UserAgent    string
	CacheTTL     time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// BackupConfig drives the scheduled spreadsheet export. An empty Schedule
// disables the scheduler.
type BackupConfig struct {
	Schedule string
	Prefix   string
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type ClientConfig struct {
	APIBaseURL string
	UserID     string
	Location   string // fixed "lat,lng" reported instead of a geolocation lookup
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "5000"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", "mongo")),
		},
		Mongo: MongoConfig{
			URI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:   getEnv("MONGODB_DATABASE", "addressbook"),
			Collection: getEnv("MONGODB_COLLECTION", "addresses"),
			Timeout:    parseDuration(getEnv("MONGODB_TIMEOUT", "10s"), 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "addressbook"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Geocoder: GeocoderConfig{
			Provider:     strings.ToLower(getEnv("GEOCODER_PROVIDER", "")),
			APIKey:       getEnv("GOOGLE_MAPS_API_KEY", ""),
			NominatimURL: getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
			UserAgent:    getEnv("GEOCODER_USER_AGENT", "mapaddress-backend/1.0"),
			CacheTTL:     parseDuration(getEnv("GEOCODE_CACHE_TTL", "24h"), 24*time.Hour),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "*")),
		},
		Backup: BackupConfig{
			Schedule: getEnv("BACKUP_SCHEDULE", ""),
			Prefix:   getEnv("BACKUP_PREFIX", "backups"),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "us-west-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Client: ClientConfig{
			APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
			UserID:     getEnv("CLIENT_USER_ID", "user123"),
			Location:   getEnv("CLIENT_LOCATION", ""),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "mongo", "postgres":
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q: expected mongo or postgres", c.Store.Driver)
	}

	switch c.Geocoder.Provider {
	case "", "google", "nominatim":
	default:
		return fmt.Errorf("unsupported GEOCODER_PROVIDER %q", c.Geocoder.Provider)
	}
	if c.Geocoder.Provider == "google" && c.Geocoder.APIKey == "" {
		return fmt.Errorf("GOOGLE_MAPS_API_KEY is required for the google geocoder")
	}

	if c.Backup.Schedule != "" && c.S3.Bucket == "" {
		return fmt.Errorf("AWS_S3_BUCKET is required when BACKUP_SCHEDULE is set")
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Enabled reports whether a Redis host was configured.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
