package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	MailRedis = "redis"
	MailSMTP  = "smtp"
	MailLog   = "log"
)

type Config struct {
	Port        string
	Env         string
	LogLevel    string
	MetricsPort string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	PostgresUrl   string

	JWTSecret     string
	SessionTTL    time.Duration
	ResetTokenTTL time.Duration

	MailDriver    string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MailStream    string
	SMTPHost      string
	SMTPPort      string
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string

	FirebaseCredentialsPath string
}

// Load reads the configuration from the environment, after loading an
// optional .env file from the working directory.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, assuming environment variables are set.")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),

		StoreDriver:   getEnv("STORE_DRIVER", StoreMongo),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "socialmedia"),
		PostgresUrl:   getEnv("POSTGRES_CONN_STR", ""),

		JWTSecret:     getEnv("JWT_SECRET", "supersecretjwtkey"),
		SessionTTL:    getDuration("SESSION_TTL", 90*24*time.Hour),
		ResetTokenTTL: getDuration("RESET_TOKEN_TTL", 15*time.Minute),

		MailDriver:    getEnv("MAIL_DRIVER", MailLog),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
		MailStream:    getEnv("MAIL_STREAM", "mail:outbox"),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPPort:      getEnv("SMTP_PORT", "587"),
		SMTPUsername:  getEnv("SMTP_USERNAME", ""),
		SMTPPassword:  getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:      getEnv("SMTP_FROM", "no-reply@localhost"),

		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
	}
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": value}).Warn("invalid duration, using default")
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "value": value}).Warn("invalid integer, using default")
		return defaultValue
	}
	return n
}
