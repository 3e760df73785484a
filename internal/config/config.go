package config

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	Environment string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	SupabaseURL     string
	SupabaseAnonKey string

	SiteURL      string
	CustomDomain string
	DeployURL    string

	// FrontendTokenSecret keys the HMAC frontend token. When the env var is
	// absent a random secret is generated, so tokens do not survive restarts.
	FrontendTokenSecret []byte

	RateLimitMax    int
	RateLimitWindow time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServiceName: EnvDefault("SERVICE_NAME", "catalog-api"),
		Environment: EnvDefault("ENVIRONMENT", "development"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		SupabaseURL:     os.Getenv("SUPABASE_URL"),
		SupabaseAnonKey: os.Getenv("SUPABASE_ANON_KEY"),

		SiteURL:      os.Getenv("SITE_URL"),
		CustomDomain: os.Getenv("CUSTOM_DOMAIN"),
		DeployURL:    os.Getenv("DEPLOY_URL"),

		FrontendTokenSecret: frontendSecret(),

		RateLimitMax:    EnvIntDefault("RATE_LIMIT_MAX", 100),
		RateLimitWindow: time.Duration(EnvIntDefault("RATE_LIMIT_WINDOW_MINUTES", 15)) * time.Minute,

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "product_events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),
	}

	MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	MustNonEmpty(cfg.SupabaseURL, "SUPABASE_URL")
	MustNonEmpty(cfg.SupabaseAnonKey, "SUPABASE_ANON_KEY")

	return cfg
}

func frontendSecret() []byte {
	if v := os.Getenv("FRONTEND_TOKEN_SECRET"); v != "" {
		return []byte(v)
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Fatalf("generate frontend token secret: %v", err)
	}
	return []byte(hex.EncodeToString(buf))
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
