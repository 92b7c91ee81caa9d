package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port        string
	DBPath      string
	Env         string
	LogLevel    string
	JWTSecret   string
	BaseURL     string
	FrontendURL string

	// Outbound email (Postmark).
	PostmarkToken string
	EmailFrom     string
	ContactInbox  string
}

// Load reads configuration from the environment, after loading a .env
// file if one is present. JWT_SECRET is the only hard requirement.
func Load() (Config, error) {
	_ = godotenv.Load() // ok if missing in prod

	cfg := Config{
		Port:          getenv("PORT", "8080"),
		DBPath:        getenv("DB_PATH", "staffsite.db"),
		Env:           getenv("APP_ENV", "development"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		BaseURL:       getenv("BASE_URL", "http://localhost:8080"),
		FrontendURL:   getenv("FRONTEND_URL", "http://localhost:5173"),
		PostmarkToken: os.Getenv("POSTMARK_SERVER_TOKEN"),
		EmailFrom:     getenv("EMAIL_FROM", "no-reply@innovativestaffing.com"),
		ContactInbox:  getenv("CONTACT_INBOX", "hello@innovativestaffing.com"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing required env JWT_SECRET")
	}

	return cfg, nil
}

// Production reports whether the server runs behind TLS with a real
// domain, which controls the Secure/SameSite cookie flags.
func (c Config) Production() bool {
	return c.Env == "production"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
