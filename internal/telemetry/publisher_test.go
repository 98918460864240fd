package telemetry

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPublisherEndpoints(t *testing.T) {
	t.Parallel()
	c := NewCollector(CollectorConfig{FlushInterval: time.Hour}, nil)
	c.RecordMessageDecoded()
	c.ObserveTickToTrade(1500)
	c.flush()

	p := NewPublisher(PublisherConfig{ListenAddr: ":0"}, c, zap.NewNop())

	rec := httptest.NewRecorder()
	p.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != 200 {
		t.Errorf("/healthz = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	p.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/snapshot", nil))
	if rec.Code != 200 {
		t.Fatalf("/snapshot = %d, want 200", rec.Code)
	}
	var snap Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("snapshot not JSON: %v", err)
	}
	if snap.MessagesDecoded != 1 || snap.TickToTradeCount != 1 {
		t.Errorf("snapshot = %+v", snap)
	}

	rec = httptest.NewRecorder()
	p.server.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 200 {
		t.Errorf("/metrics = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); body == "" {
		t.Error("/metrics should expose the registry")
	}
}
