package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"phototag/internal/adapters/http/middleware"
	"phototag/internal/adapters/http/perf"
	"phototag/internal/adapters/metadata"
	"phototag/internal/adapters/storage/imagetag"
	"phototag/internal/adapters/storage/vocabulary"
	"phototag/internal/application/session"
	"phototag/internal/domain/filter"
)

// Stores holds all storage dependencies.
type Stores struct {
	ImageTags imagetag.Store
	KnownTags vocabulary.Store // nil when tags are not persisted
	Writer    metadata.Writer
}

// loadCSRFKey reads the CSRF secret from PHOTOTAG_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("PHOTOTAG_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("PHOTOTAG_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("PHOTOTAG_ENV") == "production" {
		log.Fatal("PHOTOTAG_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key. Set PHOTOTAG_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global tagging session (set by NewMux)
var tagSession *session.Session

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 20

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global rate limiter (set by NewMux)
var rateLimiter *middleware.RateLimiter

// filterRevision counts filter changes; it backs the /api/filter ETag.
var filterRevision atomic.Uint64

// NewMux wires HTTP handlers for the app. The returned stop func ends the
// rate limiter's background sweep and must be called on shutdown.
func NewMux(s *Stores, sess *session.Session, collector *perf.Collector) (http.Handler, func()) {
	stores = s
	tagSession = sess
	perfCollector = collector

	filterRevision.Store(0)
	sess.OnFilterChanged(func(filter.State) {
		filterRevision.Add(1)
	})

	mux := http.NewServeMux()
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	rateLimiter = middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	handler := middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.RateLimit(rateLimiter),
		middleware.Timing(collector, middleware.SlowRequestThresholdFromEnv()),
	)
	return handler, rateLimiter.Stop
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/tags", handleTags)
	mux.HandleFunc("/api/tags/remove", handleTagsRemove)
	mux.HandleFunc("/api/tags/reset", handleTagsReset)

	mux.HandleFunc("/api/selection/states", handleSelectionStates)
	mux.HandleFunc("/api/selection/apply", handleSelectionApply)
	mux.HandleFunc("/api/selection/tag", handleSelectionTag(true))
	mux.HandleFunc("/api/selection/untag", handleSelectionTag(false))

	mux.HandleFunc("/api/filter", handleFilter)
	mux.HandleFunc("/api/filter/clear", handleFilterClear)
	mux.HandleFunc("/api/filter/images", handleFilterImages)

	mux.HandleFunc("/api/perf", handlePerf)
}
