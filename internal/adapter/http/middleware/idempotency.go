package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/moneta-app/moneta/internal/usecase"
)

// IdempotencyKeyHeader carries the client-chosen key for replay-safe writes.
const IdempotencyKeyHeader = "Idempotency-Key"

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyMiddleware replays the cached response for a repeated write
// carrying the same Idempotency-Key, so client retries never double-post
// ledger mutations.
type IdempotencyMiddleware struct {
	store usecase.IdempotencyStore
	ttl   time.Duration
}

// NewIdempotencyMiddleware creates the middleware. A non-positive ttl
// falls back to 24 hours.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}

	return &IdempotencyMiddleware{store: store, ttl: ttl}
}

// Wrap applies idempotency checking to POST and PUT requests that carry a
// key. Reads and keyless writes pass straight through.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}

		seen, cached, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			http.Error(w, "idempotency check failed", http.StatusInternalServerError)
			return
		}

		// A "processing" placeholder means an earlier attempt claimed the
		// key but never finished; let this attempt run.
		if seen && cached != nil && string(cached) != "processing" {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			w.Write(cached)
			return
		}

		rec := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(rec, r)

		// Failures stay uncached so the client can retry the write.
		if rec.statusCode >= 200 && rec.statusCode < 300 {
			m.store.Update(r.Context(), key, rec.body.Bytes(), m.ttl)
		}
	})
}

// responseRecorder copies the response body so a success can be stored for
// later replay.
type responseRecorder struct {
	http.ResponseWriter

	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}
