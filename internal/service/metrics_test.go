package service

import (
	"sync"
	"testing"
	"time"
)

func TestAPIMetricsRecordAndSnapshot(t *testing.T) {
	m := NewAPIMetrics()
	m.Record("GET /api/cards", 200, 10*time.Millisecond)
	m.Record("GET /api/cards", 200, 30*time.Millisecond)
	m.Record("GET /api/cards", 500, 20*time.Millisecond)
	m.Record("POST /api/quiz", 400, 5*time.Millisecond)

	snap := m.Snapshot()

	cards := snap["GET /api/cards"]
	if cards.Requests != 3 || cards.Errors != 1 {
		t.Errorf("cards route: want 3 requests / 1 error, got %d/%d", cards.Requests, cards.Errors)
	}
	if cards.AvgMillis != 20 {
		t.Errorf("cards route: want avg 20ms, got %v", cards.AvgMillis)
	}

	quiz := snap["POST /api/quiz"]
	if quiz.Requests != 1 || quiz.Errors != 1 {
		t.Errorf("quiz route: want 1 request / 1 error, got %d/%d", quiz.Requests, quiz.Errors)
	}
}

func TestAPIMetricsSnapshotIsCopy(t *testing.T) {
	m := NewAPIMetrics()
	m.Record("GET /api/health", 200, time.Millisecond)

	snap := m.Snapshot()
	snap["GET /api/health"] = RouteSnapshot{Requests: 99}

	if got := m.Snapshot()["GET /api/health"].Requests; got != 1 {
		t.Errorf("mutating a snapshot leaked into the registry: %d", got)
	}
}

func TestAPIMetricsConcurrentRecord(t *testing.T) {
	m := NewAPIMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Record("GET /api/cards", 200, time.Millisecond)
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot()["GET /api/cards"].Requests; got != 800 {
		t.Errorf("expected 800 recorded requests, got %d", got)
	}
}
