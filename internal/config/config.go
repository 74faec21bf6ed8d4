package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const developmentSessionSecret = "ku-toilet-map-development-secret"

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr        string
	Env         string
	ServiceName string

	UpstreamURL            string
	UpstreamTimeout        time.Duration
	CatalogRefreshInterval time.Duration
	PhotoProxyTimeout      time.Duration

	SessionSecret       []byte
	SessionCookieSecure bool
	AllowedOrigins      []string

	// MongoURI が空の場合は投稿ログを無効化する。
	MongoURI                string
	MongoDatabase           string
	MongoConnectTimeout     time.Duration
	SubmissionLogCollection string
}

// IsDevelopment reports whether APP_ENV selects the development profile.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// LoadDotEnv preloads variables from the given files (".env" by default).
// Missing files are ignored and variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads environment variables and returns a fully populated Config.
func Load() (Config, error) {
	env := envOrDefault("APP_ENV", "production")

	secret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))
	if secret == "" {
		if env != "development" {
			return Config{}, errors.New("SESSION_SECRET must be configured")
		}
		secret = developmentSessionSecret
	}

	cfg := Config{
		Addr:        envOrDefault("HTTP_ADDR", ":8080"),
		Env:         env,
		ServiceName: envOrDefault("SERVICE_NAME", "ku-toilet-map-web"),

		UpstreamURL:            strings.TrimRight(envOrDefault("UPSTREAM_API_URL", "http://localhost:8081"), "/"),
		UpstreamTimeout:        durationOrDefault("UPSTREAM_TIMEOUT", 15*time.Second),
		CatalogRefreshInterval: durationOrDefault("CATALOG_REFRESH_INTERVAL", 0),
		PhotoProxyTimeout:      durationOrDefault("PHOTO_PROXY_TIMEOUT", 10*time.Second),

		SessionSecret:       []byte(secret),
		SessionCookieSecure: strings.EqualFold(strings.TrimSpace(os.Getenv("SESSION_COOKIE_SECURE")), "true"),
		AllowedOrigins:      parseList("API_ALLOWED_ORIGINS", []string{"*"}),

		MongoURI:                strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:           envOrDefault("MONGO_DB", "ku-toilet-map"),
		MongoConnectTimeout:     durationOrDefault("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		SubmissionLogCollection: envOrDefault("SUBMISSION_LOG_COLLECTION", "review_submissions"),
	}
	return cfg, nil
}

// DevBackendAddr is the listen address of the development upstream. It is read
// separately because the stub needs none of the web settings.
func DevBackendAddr() string {
	return envOrDefault("DEVBACKEND_ADDR", ":8081")
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// durationOrDefault falls back on unset, unparsable or negative values.
func durationOrDefault(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
