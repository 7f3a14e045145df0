package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/cardwise/cardwise/internal/config"
	"github.com/cardwise/cardwise/internal/service"
)

func newsletterApp() *fiber.App {
	svc := service.NewNewsletterService(config.NewsletterConfig{Provider: "none"}, nil)
	app := fiber.New()
	app.Post("/api/newsletter/subscribe", NewsletterSubscribeHandler(svc))
	return app
}

func TestNewsletterSubscribe(t *testing.T) {
	app := newsletterApp()

	raw := []byte(`{"email": "reader@example.com"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, body := doRequest(t, app, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var result service.NewsletterSyncResult
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Status != "skipped" {
		t.Errorf("provider none should report skipped, got %q", result.Status)
	}
}

func TestNewsletterSubscribeInvalidEmail(t *testing.T) {
	app := newsletterApp()

	for _, email := range []string{"", "no-at-sign", "@nothing", "trailing@", "has space@example.com"} {
		raw, _ := json.Marshal(map[string]string{"email": email})
		req := httptest.NewRequest(http.MethodPost, "/api/newsletter/subscribe", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")

		resp, _ := doRequest(t, app, req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("email %q: expected 400, got %d", email, resp.StatusCode)
		}
	}
}
