package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/cardwise/cardwise/internal/config"
)

// NewsletterSyncInput identifies the subscriber and the page that produced
// the signup.
type NewsletterSyncInput struct {
	Email  string
	Source string
}

// NewsletterSyncResult reports how a sync ended. Status is one of
// subscribed, already_subscribed or skipped.
type NewsletterSyncResult struct {
	Provider string `json:"provider"`
	Status   string `json:"status"`
	Attempts int    `json:"attempts"`
}

// NewsletterService pushes subscribers to the configured provider. Transient
// provider failures (429, 5xx, network errors) are retried with backoff;
// "already subscribed" responses count as success.
type NewsletterService struct {
	cfg    config.NewsletterConfig
	logger *zap.Logger

	// overridable in tests
	resendBaseURL  string
	beehiivBaseURL string
}

// NewNewsletterService builds the service.
func NewNewsletterService(cfg config.NewsletterConfig, logger *zap.Logger) *NewsletterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsletterService{
		cfg:            cfg,
		logger:         logger,
		resendBaseURL:  "https://api.resend.com",
		beehiivBaseURL: "https://api.beehiiv.com",
	}
}

// SyncSubscriber upserts one subscriber with the configured provider.
func (s *NewsletterService) SyncSubscriber(ctx context.Context, input NewsletterSyncInput) (NewsletterSyncResult, error) {
	switch s.cfg.Provider {
	case "none":
		return NewsletterSyncResult{Provider: "none", Status: "skipped"}, nil
	case "resend":
		return s.syncResend(ctx, input)
	case "beehiiv":
		return s.syncBeehiiv(ctx, input)
	default:
		return NewsletterSyncResult{}, fmt.Errorf("unknown newsletter provider %q", s.cfg.Provider)
	}
}

func (s *NewsletterService) syncResend(ctx context.Context, input NewsletterSyncInput) (NewsletterSyncResult, error) {
	url := fmt.Sprintf("%s/audiences/%s/contacts", s.resendBaseURL, s.cfg.ResendAudienceID)
	body := map[string]any{"email": input.Email, "unsubscribed": false}

	resp, attempts, err := s.post(ctx, url, s.cfg.ResendAPIKey, body)
	result := NewsletterSyncResult{Provider: "resend", Attempts: attempts}
	if err != nil {
		return result, fmt.Errorf("resend sync failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		result.Status = "subscribed"
		return result, nil
	case resp.StatusCode == http.StatusConflict:
		result.Status = "already_subscribed"
		return result, nil
	default:
		return result, fmt.Errorf("resend API returned %d: %s", resp.StatusCode, providerErrorMessage(resp))
	}
}

func (s *NewsletterService) syncBeehiiv(ctx context.Context, input NewsletterSyncInput) (NewsletterSyncResult, error) {
	url := fmt.Sprintf("%s/v2/publications/%s/subscriptions", s.beehiivBaseURL, s.cfg.BeehiivPublicationID)
	body := map[string]any{
		"email":               input.Email,
		"reactivate_existing": true,
		"send_welcome_email":  s.cfg.SendWelcomeEmail,
		"utm_source":          input.Source,
	}

	resp, attempts, err := s.post(ctx, url, s.cfg.BeehiivAPIKey, body)
	result := NewsletterSyncResult{Provider: "beehiiv", Attempts: attempts}
	if err != nil {
		return result, fmt.Errorf("beehiiv sync failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		result.Status = "subscribed"
		return result, nil
	}

	message := strings.ToLower(providerErrorMessage(resp))
	alreadyExists := resp.StatusCode == http.StatusConflict ||
		strings.Contains(message, "already") ||
		strings.Contains(message, "exists") ||
		strings.Contains(message, "subscribed")
	if alreadyExists {
		result.Status = "already_subscribed"
		return result, nil
	}

	return result, fmt.Errorf("beehiiv API returned %d: %s", resp.StatusCode, message)
}

// post sends one JSON request through a retrying client scoped to this call,
// so the attempt count is per sync and concurrent syncs do not interfere.
func (s *NewsletterService) post(ctx context.Context, url, apiKey string, body map[string]any) (*http.Response, int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, 0, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	attempts := 0
	client := retryablehttp.NewClient()
	client.RetryMax = s.cfg.MaxRetries
	client.Logger = nil
	client.RequestLogHook = func(_ retryablehttp.Logger, _ *http.Request, attempt int) {
		attempts = attempt + 1
	}
	// 409 means "already subscribed" for both providers; let it through so
	// the response handlers can treat it as success instead of retrying.
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return false, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	resp, err := client.Do(req)
	return resp, attempts, err
}

func providerErrorMessage(resp *http.Response) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
