package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Logger    LoggerConfig
	Storage   StorageConfig
	Mail      MailConfig
	CORS      CORSConfig
	Admin     AdminConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	FrontendDir string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver         string
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxOpenConns   int
	ConnectTimeout time.Duration
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level  string
	Format string
}

// StorageConfig selects where uploaded images are kept
type StorageConfig struct {
	Backend     string
	UploadDir   string
	S3Bucket    string
	S3Prefix    string
	AWSRegion   string
	AWSEndpoint string
}

// MailConfig holds the transactional email provider and notification settings
type MailConfig struct {
	APIKey       string
	BaseURL      string
	From         string
	OperatorTo   string
	ContactPhone string
	Async        bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string
}

// AdminConfig holds the token guarding operator endpoints
type AdminConfig struct {
	Token string
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	DBMonitorCronExpression string
}

// ErrMissingDatabaseCredentials is returned by Validate when DB_USER, DB_PASS or DB_NAME is empty
var ErrMissingDatabaseCredentials = errors.New("missing database environment variables")

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env file doesn't exist
		fmt.Println("No .env file found, using environment variables")
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	defaultPort := 3306
	if driver == "postgres" {
		defaultPort = 5432
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "release"),
			Environment: getEnv("APP_ENV", getEnv("NODE_ENV", "production")),
			FrontendDir: getEnv("FRONTEND_DIR", "../ylc-leadcapture"),
		},
		Database: DatabaseConfig{
			Driver: driver,
			Host:   getEnv("DB_HOST", "mysql.yourlocalcraftsman.com"),
			Port:   getEnvAsInt("DB_PORT", defaultPort),
			User:   os.Getenv("DB_USER"),
			// DB_PASS is the historical name, DB_PASSWORD is accepted too
			Password:       getEnv("DB_PASS", os.Getenv("DB_PASSWORD")),
			DBName:         os.Getenv("DB_NAME"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:   getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			ConnectTimeout: getEnvAsDuration("DB_CONNECT_TIMEOUT", 20*time.Second),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Storage: StorageConfig{
			Backend:     strings.ToLower(getEnv("UPLOAD_STORAGE", "local")),
			UploadDir:   getEnv("UPLOAD_DIR", "uploads"),
			S3Bucket:    os.Getenv("S3_BUCKET"),
			S3Prefix:    getEnv("S3_PREFIX", "uploads/"),
			AWSRegion:   getEnv("AWS_REGION", "us-east-1"),
			AWSEndpoint: os.Getenv("AWS_ENDPOINT_URL"),
		},
		Mail: MailConfig{
			APIKey:       os.Getenv("RESEND_API_KEY"),
			BaseURL:      getEnv("RESEND_BASE_URL", "https://api.resend.com"),
			From:         getEnv("NOTIFY_FROM", "Your Local Craftsman <quotes@yourlocalcraftsman.com>"),
			OperatorTo:   getEnv("NOTIFY_TO", "leads@yourlocalcraftsman.com"),
			ContactPhone: getEnv("CONTACT_PHONE", "(555) 010-2025"),
			Async:        getEnvAsBool("NOTIFY_ASYNC", true),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "https://www.yourlocalcraftsman.com,https://yourlocalcraftsman.com,http://www.yourlocalcraftsman.com,http://yourlocalcraftsman.com"),
		},
		Admin: AdminConfig{
			Token: os.Getenv("ADMIN_TOKEN"),
		},
		Scheduler: SchedulerConfig{
			DBMonitorCronExpression: getEnv("DB_MONITOR_CRON", "0 */5 * * * *"),
		},
	}

	return config, nil
}

// Validate reports configuration the service cannot start without
func (c *Config) Validate() error {
	var missing []string
	if c.Database.User == "" {
		missing = append(missing, "DB_USER")
	}
	if c.Database.Password == "" {
		missing = append(missing, "DB_PASS")
	}
	if c.Database.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingDatabaseCredentials, strings.Join(missing, ", "))
	}

	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}

	if c.Storage.Backend == "s3" && c.Storage.S3Bucket == "" {
		return errors.New("S3_BUCKET is required when UPLOAD_STORAGE=s3")
	}

	return nil
}

// GetDSN returns the driver specific connection string
func (d *DatabaseConfig) GetDSN() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s connect_timeout=%d",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode, int(d.ConnectTimeout.Seconds()),
		)
	}
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC&timeout=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.ConnectTimeout,
	)
}

// OriginList splits the comma separated allow-list
func (c *CORSConfig) OriginList() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
