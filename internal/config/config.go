package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the process configuration, sourced from environment variables
// (optionally a .env file). An empty DatabaseURL is valid: the server then
// runs entirely from the seed catalog.
type Config struct {
	Port        string
	DatabaseURL string
	SeedPath    string // empty means use the embedded catalog
	Newsletter  NewsletterConfig
}

// NewsletterConfig selects and configures the subscription provider.
type NewsletterConfig struct {
	Provider             string // none, resend or beehiiv
	ResendAPIKey         string
	ResendAudienceID     string
	BeehiivAPIKey        string
	BeehiivPublicationID string
	SendWelcomeEmail     bool
	MaxRetries           int
}

// Load reads configuration from the environment. A missing .env file is
// fine; variables can come from the shell or the orchestrator.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnvString("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SeedPath:    os.Getenv("CARDS_SEED_PATH"),
		Newsletter: NewsletterConfig{
			Provider:             getEnvString("NEWSLETTER_PROVIDER", "none"),
			ResendAPIKey:         os.Getenv("RESEND_API_KEY"),
			ResendAudienceID:     os.Getenv("RESEND_AUDIENCE_ID"),
			BeehiivAPIKey:        os.Getenv("BEEHIIV_API_KEY"),
			BeehiivPublicationID: os.Getenv("BEEHIIV_PUBLICATION_ID"),
			SendWelcomeEmail:     getEnvBool("BEEHIIV_SEND_WELCOME_EMAIL", false),
			MaxRetries:           getEnvInt("NEWSLETTER_SYNC_MAX_RETRIES", 2),
		},
	}

	if err := cfg.Newsletter.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabaseConfigured reports whether a relational source is available. The
// check is explicit so callers never infer connectivity from a side effect.
func (c *Config) DatabaseConfigured() bool {
	return c.DatabaseURL != ""
}

func (n NewsletterConfig) validate() error {
	switch n.Provider {
	case "none":
		return nil
	case "resend":
		if n.ResendAPIKey == "" || n.ResendAudienceID == "" {
			return fmt.Errorf("newsletter provider resend requires RESEND_API_KEY and RESEND_AUDIENCE_ID")
		}
	case "beehiiv":
		if n.BeehiivAPIKey == "" || n.BeehiivPublicationID == "" {
			return fmt.Errorf("newsletter provider beehiiv requires BEEHIIV_API_KEY and BEEHIIV_PUBLICATION_ID")
		}
	default:
		return fmt.Errorf("unknown newsletter provider %q", n.Provider)
	}

	if n.MaxRetries < 0 {
		return fmt.Errorf("NEWSLETTER_SYNC_MAX_RETRIES must be non-negative")
	}
	return nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
