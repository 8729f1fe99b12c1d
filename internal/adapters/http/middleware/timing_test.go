package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"phototag/internal/adapters/http/perf"
)

func okHandler(status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
}

// TestTiming_RecordsEntry verifies method, path and status reach the collector.
func TestTiming_RecordsEntry(t *testing.T) {
	collector := perf.NewCollector(1)
	handler := Timing(collector, time.Second)(okHandler(http.StatusCreated))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/tags", nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rr.Code)
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id header")
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestPaths) != 1 || snap.SlowestPaths[0].Path != "POST /api/tags" {
		t.Fatalf("unexpected paths %+v", snap.SlowestPaths)
	}
	if snap.SlowestPaths[0].AvgMs < 0 {
		t.Errorf("AvgMs = %v, want >= 0", snap.SlowestPaths[0].AvgMs)
	}
}

// TestTiming_NilCollector verifies the middleware works without a collector.
func TestTiming_NilCollector(t *testing.T) {
	rr := httptest.NewRecorder()
	Timing(nil, time.Second)(okHandler(http.StatusOK)).ServeHTTP(rr, httptest.NewRequest("GET", "/api/filter", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestTiming_PanicStillRecords verifies the deferred recording runs when the handler panics.
func TestTiming_PanicStillRecords(t *testing.T) {
	collector := perf.NewCollector(10)
	handler := Timing(collector, time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic to propagate")
		}
		if collector.TotalRecorded() != 1 {
			t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/selection/apply", nil))
}

// TestTiming_PoolNoStateLeak verifies pooled writers do not carry a status between requests.
func TestTiming_PoolNoStateLeak(t *testing.T) {
	collector := perf.NewCollector(10)
	Timing(collector, time.Second)(okHandler(http.StatusConflict)).
		ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/selection/apply", nil))

	implicit := Timing(collector, time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rr := httptest.NewRecorder()
	implicit.ServeHTTP(rr, httptest.NewRequest("GET", "/api/tags", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rr.Code)
	}
}

// TestSlowRequestThresholdFromEnv covers the default, override and invalid values.
func TestSlowRequestThresholdFromEnv(t *testing.T) {
	tests := []struct {
		env  string
		want time.Duration
	}{
		{"", DefaultSlowRequestMs * time.Millisecond},
		{"750", 750 * time.Millisecond},
		{"-3", DefaultSlowRequestMs * time.Millisecond},
		{"abc", DefaultSlowRequestMs * time.Millisecond},
	}
	for _, tt := range tests {
		t.Setenv("PHOTOTAG_SLOW_REQUEST_MS", tt.env)
		if got := SlowRequestThresholdFromEnv(); got != tt.want {
			t.Errorf("env %q: got %v, want %v", tt.env, got, tt.want)
		}
	}
}

// BenchmarkTiming measures per-request overhead.
func BenchmarkTiming(b *testing.B) {
	collector := perf.NewCollector(perf.DefaultRingSize)
	handler := Timing(collector, time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest("GET", "/api/filter", nil)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
}
