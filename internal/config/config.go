package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	RelayDriver    string
	RelayURL       string
	RelayAccessKey string
	RelayTimeout   time.Duration

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	ToEmail  string

	AdminToken       string
	AllowedOrigin    string
	DefaultLocale    string
	SessionTTL       time.Duration
	SessionMax       uint64
	StatusResetDelay time.Duration
}

const (
	RelayWeb3Forms = "web3forms"
	RelaySMTP      = "smtp"
)

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	return &Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBPath:     getEnv("DB_PATH", "./contact.db"),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "portfolio"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RelayDriver:    getEnv("RELAY_DRIVER", RelayWeb3Forms),
		RelayURL:       getEnv("RELAY_URL", "https://api.web3forms.com/submit"),
		RelayAccessKey: getEnv("RELAY_ACCESS_KEY", ""),
		RelayTimeout:   getDuration("RELAY_TIMEOUT", 15*time.Second),

		SMTPHost: getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort: getEnv("SMTP_PORT", "587"),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		ToEmail:  getEnv("TO_EMAIL", ""),

		AdminToken:       getEnv("ADMIN_TOKEN", ""),
		AllowedOrigin:    getEnv("ALLOWED_ORIGIN", "*"),
		DefaultLocale:    getEnv("DEFAULT_LOCALE", "fr"),
		SessionTTL:       getDuration("SESSION_TTL", 30*time.Minute),
		SessionMax:       getUint("SESSION_MAX", 10000),
		StatusResetDelay: getDuration("STATUS_RESET_DELAY", 5*time.Second),
	}
}

// UsePostgres reports whether a postgres host was configured; sqlite is
// used otherwise.
func (c *Config) UsePostgres() bool {
	return c.DBHost != ""
}

func (c *Config) Development() bool {
	return c.AppEnv == "development"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getDuration accepts Go durations ("5s") or a bare number of seconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	log.Warn().Str("key", key).Str("value", value).Msg("invalid duration, using default")
	return fallback
}

func getUint(key string, fallback uint64) uint64 {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("invalid number, using default")
		return fallback
	}
	return n
}
