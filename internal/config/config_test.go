package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("NEWSLETTER_PROVIDER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.DatabaseConfigured() {
		t.Error("empty DATABASE_URL must mean no database")
	}
	if cfg.Newsletter.Provider != "none" {
		t.Errorf("expected default provider none, got %s", cfg.Newsletter.Provider)
	}
	if cfg.Newsletter.MaxRetries != 2 {
		t.Errorf("expected default max retries 2, got %d", cfg.Newsletter.MaxRetries)
	}
}

func TestLoadNewsletterValidation(t *testing.T) {
	t.Setenv("NEWSLETTER_PROVIDER", "resend")
	t.Setenv("RESEND_API_KEY", "")
	t.Setenv("RESEND_AUDIENCE_ID", "")

	if _, err := Load(); err == nil {
		t.Fatal("resend without credentials must fail validation")
	}

	t.Setenv("RESEND_API_KEY", "rk-test")
	t.Setenv("RESEND_AUDIENCE_ID", "aud-1")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	if cfg.Newsletter.ResendAPIKey != "rk-test" {
		t.Errorf("unexpected api key %q", cfg.Newsletter.ResendAPIKey)
	}
}

func TestLoadUnknownProvider(t *testing.T) {
	t.Setenv("NEWSLETTER_PROVIDER", "mailchimp")
	if _, err := Load(); err == nil {
		t.Fatal("unknown provider must fail validation")
	}
}
