package middleware

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader is the HTTP header for idempotency keys
	IdempotencyKeyHeader = "Idempotency-Key"
)

type cachedResponse struct {
	code      int
	body      string
	pending   bool
	expiresAt time.Time
}

type keyState int

const (
	keyNew keyState = iota
	keyReplay
	keyInFlight
)

// MemoryIdempotencyStore keeps processed responses in memory. The gateway
// holds no database; a replayed double-click only needs to survive the
// process lifetime.
type MemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]cachedResponse
	ttl     time.Duration
}

// NewMemoryIdempotencyStore creates an in-memory idempotency store.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: make(map[string]cachedResponse),
		ttl:     ttl,
	}
}

// begin claims the key in one step: a stored response is returned for
// replay, an unfinished request marks the key in flight, and a fresh key is
// reserved before the handler runs so concurrent duplicates cannot both
// execute.
func (s *MemoryIdempotencyStore) begin(key string) (cachedResponse, keyState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	if entry, ok := s.entries[key]; ok && now.Before(entry.expiresAt) {
		if entry.pending {
			return cachedResponse{}, keyInFlight
		}
		return entry, keyReplay
	}
	s.entries[key] = cachedResponse{pending: true, expiresAt: now.Add(s.ttl)}
	return cachedResponse{}, keyNew
}

func (s *MemoryIdempotencyStore) complete(key string, code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Opportunistic sweep keeps the map from growing unbounded.
	now := time.Now()
	for k, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, k)
		}
	}
	s.entries[key] = cachedResponse{code: code, body: body, expiresAt: now.Add(s.ttl)}
}

// release frees a reserved key after a failed request so the client can
// retry with the same key.
func (s *MemoryIdempotencyStore) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[key]; ok && entry.pending {
		delete(s.entries, key)
	}
}

// responseWriter wraps gin.ResponseWriter to capture the response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency replays the stored response for a repeated Idempotency-Key so
// a double-submitted voucher is recorded once. Requests without a key pass
// through untouched. Only successful responses are stored.
func Idempotency(store *MemoryIdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "POST" && c.Request.Method != "PUT" {
			c.Next()
			return
		}

		idempotencyKey := c.GetHeader(IdempotencyKeyHeader)
		if idempotencyKey == "" {
			c.Next()
			return
		}

		key := c.GetHeader(OutletCodeHeader) + "|" + c.Request.Method + " " + c.FullPath() + "|" + idempotencyKey

		existing, state := store.begin(key)
		switch state {
		case keyReplay:
			c.Header("X-Idempotency-Replayed", "true")
			c.Data(existing.code, "application/json", []byte(existing.body))
			c.Abort()
			return
		case keyInFlight:
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "A request with this idempotency key is still being processed.",
				"error":   "request_in_flight",
			})
			return
		}

		blw := &responseWriter{body: bytes.NewBufferString(""), ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
			store.complete(key, c.Writer.Status(), blw.body.String())
		} else {
			store.release(key)
		}
	}
}
