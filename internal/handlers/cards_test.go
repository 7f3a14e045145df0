package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/cardwise/cardwise/internal/model"
	"github.com/cardwise/cardwise/internal/seed"
	"github.com/cardwise/cardwise/internal/service"
)

func testSeed() []seed.Card {
	rating := 4.5
	zero := 0.0
	return []seed.Card{
		{
			Slug:          "meridian-everyday",
			Name:          "Everyday Cash",
			Issuer:        "Meridian",
			RewardType:    "cashback",
			TopCategories: []string{"groceries", "gas"},
			AnnualFee:     0,
			CreditTierMin: "good",
			Headline:      "Everyday Cash by Meridian with no annual fee",
			EditorRating:  &rating,
		},
		{
			Slug:          "atlas-voyager",
			Name:          "Voyager",
			Issuer:        "Atlas",
			RewardType:    "points",
			TopCategories: []string{"travel", "dining"},
			AnnualFee:     95,
			CreditTierMin: "good",
			Headline:      "Voyager by Atlas",
			RegularAprMin: &zero,
		},
	}
}

func testApp(t *testing.T) *fiber.App {
	t.Helper()

	reconciler := service.NewReconciler(nil, testSeed(), nil)
	metrics := service.NewAPIMetrics()

	app := fiber.New()
	app.Use(MetricsMiddleware(metrics))
	app.Get("/api/health", HealthHandler(reconciler, metrics))
	app.Get("/api/cards", ListCardsHandler(reconciler))
	app.Get("/api/cards/:slug", CardDetailHandler(reconciler))
	app.Post("/api/quiz", QuizHandler(reconciler))
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	resp.Body.Close()
	return resp, body
}

func TestListCards(t *testing.T) {
	app := testApp(t)
	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/cards", nil))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Results    []model.CardRecord `json:"results"`
		Pagination struct {
			Total  int `json:"total"`
			Limit  int `json:"limit"`
			Offset int `json:"offset"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(payload.Results) != 2 || payload.Pagination.Total != 2 {
		t.Errorf("expected both seed cards, got %d (total %d)", len(payload.Results), payload.Pagination.Total)
	}
	if payload.Pagination.Limit != 20 {
		t.Errorf("expected default limit 20, got %d", payload.Pagination.Limit)
	}
}

func TestListCardsFiltered(t *testing.T) {
	app := testApp(t)
	resp, body := doRequest(t, app,
		httptest.NewRequest(http.MethodGet, "/api/cards?maxFee=0", nil))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Results []model.CardRecord `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(payload.Results) != 1 || payload.Results[0].Slug != "meridian-everyday" {
		t.Errorf("maxFee=0 should keep only fee-free cards, got %+v", payload.Results)
	}
}

func TestListCardsBadQuery(t *testing.T) {
	app := testApp(t)
	for _, target := range []string{
		"/api/cards?limit=0",
		"/api/cards?limit=500",
		"/api/cards?maxFee=-3",
		"/api/cards?offset=-1",
	} {
		resp, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, resp.StatusCode)
		}
	}
}

func TestCardDetail(t *testing.T) {
	app := testApp(t)
	resp, body := doRequest(t, app,
		httptest.NewRequest(http.MethodGet, "/api/cards/atlas-voyager", nil))

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Card model.CardDetail `json:"card"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if payload.Card.Slug != "atlas-voyager" {
		t.Errorf("unexpected card %q", payload.Card.Slug)
	}
	if payload.Card.RegularAprMin == nil || *payload.Card.RegularAprMin != 0 {
		t.Errorf("0%% APR must survive the JSON round trip, got %v", payload.Card.RegularAprMin)
	}
}

func TestCardDetailNotFound(t *testing.T) {
	app := testApp(t)
	resp, body := doRequest(t, app,
		httptest.NewRequest(http.MethodGet, "/api/cards/no-such-card", nil))

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.StatusCode, body)
	}

	var payload map[string]string
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if payload["error"] != "Card not found" {
		t.Errorf("unexpected error message %q", payload["error"])
	}
}

func TestQuiz(t *testing.T) {
	app := testApp(t)

	input := service.QuizRequest{Goal: "cashback", Spend: "groceries", Fee: "no_fee", Credit: "good"}
	raw, _ := json.Marshal(input)
	req := httptest.NewRequest(http.MethodPost, "/api/quiz", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, body := doRequest(t, app, req)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Results []model.ScoredCard `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(payload.Results) == 0 {
		t.Fatal("expected recommendations")
	}
	if payload.Results[0].Slug != "meridian-everyday" {
		t.Errorf("expected the cashback/no-fee card first, got %q", payload.Results[0].Slug)
	}
	if payload.Results[0].Score != 7 {
		t.Errorf("expected score 7 for a full match, got %d", payload.Results[0].Score)
	}
}

func TestQuizInvalidPayload(t *testing.T) {
	app := testApp(t)

	for _, raw := range []string{
		`{"goal":"prestige","spend":"groceries","fee":"no_fee","credit":"good"}`,
		`{}`,
		`not json`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/quiz", bytes.NewReader([]byte(raw)))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := doRequest(t, app, req)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("payload %q: expected 400, got %d", raw, resp.StatusCode)
		}
	}
}

func TestHealth(t *testing.T) {
	app := testApp(t)

	// Generate one counted request before checking health.
	doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/cards", nil))

	resp, body := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Status   string                           `json:"status"`
		Database bool                             `json:"database"`
		Seed     bool                             `json:"seed"`
		Metrics  map[string]service.RouteSnapshot `json:"metrics"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if payload.Status != "ok" {
		t.Errorf("expected status ok, got %q", payload.Status)
	}
	if payload.Database {
		t.Error("no database configured in this app")
	}
	if !payload.Seed {
		t.Error("seed catalog should be available")
	}
	if payload.Metrics["/api/cards"].Requests != 1 {
		t.Errorf("expected the cards request to be counted, got %+v", payload.Metrics)
	}
}
