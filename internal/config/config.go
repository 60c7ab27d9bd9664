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

type Config struct {
	Environment string
	LogLevel    string
	ServerPort  string

	DatabaseURL string
	RabbitMQURL string

	JWTSigningKey string
	JWTExpiration time.Duration

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	WhatsAppAccessToken string
	WhatsAppPhoneID     string
	WhatsAppAPIURL      string

	CORSAllowedOrigins []string
	TrustProxy         bool
	CaptureRateLimit   int
	Location           *time.Location
	PublicBaseURL      string
	TrackingTimeout    time.Duration
	ShutdownTimeout    time.Duration
	EventRetention     time.Duration
}

// Load lê o .env (se existir) e depois o ambiente. Variáveis do ambiente
// vencem as do arquivo.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Environment:         getEnv("APP_ENV", "development"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		RabbitMQURL:         os.Getenv("RABBITMQ_URL"),
		JWTSigningKey:       os.Getenv("JWT_SIGNING_KEY"),
		JWTExpiration:       time.Duration(getEnvAsInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		MailHost:            os.Getenv("MAIL_HOST"),
		MailPort:            getEnvAsInt("MAIL_PORT", 587),
		MailUser:            os.Getenv("MAIL_USER"),
		MailPass:            os.Getenv("MAIL_PASS"),
		MailFrom:            getEnv("MAIL_FROM", "nao-responda@ligue.app"),
		WhatsAppAccessToken: os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneID:     os.Getenv("WHATSAPP_PHONE_ID"),
		WhatsAppAPIURL:      os.Getenv("WHATSAPP_API_URL"),
		CORSAllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		TrustProxy:          getEnvAsBool("TRUST_PROXY", false),
		CaptureRateLimit:    getEnvAsInt("CAPTURE_RATE_LIMIT", 10),
		PublicBaseURL:       os.Getenv("PUBLIC_BASE_URL"),
		TrackingTimeout:     getEnvAsDuration("TRACKING_TIMEOUT", 3*time.Second),
		ShutdownTimeout:     getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		EventRetention:      time.Duration(getEnvAsInt("EVENT_RETENTION_DAYS", 0)) * 24 * time.Hour,
	}

	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "America/Sao_Paulo"))
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE inválido: %w", err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSigningKey == "" {
		errs = append(errs, errors.New("JWT_SIGNING_KEY is required"))
	}
	if c.CaptureRateLimit <= 0 {
		errs = append(errs, errors.New("CAPTURE_RATE_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MailEnabled: sem MAIL_HOST o worker de notificações não sobe.
func (c *Config) MailEnabled() bool {
	return c.MailHost != ""
}

func (c *Config) WhatsAppEnabled() bool {
	return c.WhatsAppAccessToken != "" && c.WhatsAppPhoneID != ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvAsBool(key string, fallback bool) bool {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getEnvAsList(key string, fallback []string) []string {
	v := getEnv(key, "")
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
