package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	calls := 0
	router := gin.New()
	router.POST("/vouchers", Idempotency(NewMemoryIdempotencyStore(time.Minute)), func(c *gin.Context) {
		calls++
		c.JSON(200, gin.H{"success": true, "calls": calls})
	})

	do := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/vouchers", nil)
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		req.Header.Set(OutletCodeHeader, "OUT-7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := do("abc")
	second := do("abc")

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Fatal("expected replayed response marker")
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("expected identical bodies, got %q vs %q", first.Body.String(), second.Body.String())
	}

	// A different key runs the handler again.
	do("def")
	if calls != 2 {
		t.Fatalf("expected handler to run for new key, ran %d times", calls)
	}

	// No key disables the guard.
	do("")
	if calls != 3 {
		t.Fatalf("expected handler to run without key, ran %d times", calls)
	}
}

func TestIdempotencyConcurrentDuplicateRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)

	started := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	router := gin.New()
	router.POST("/vouchers", Idempotency(NewMemoryIdempotencyStore(time.Minute)), func(c *gin.Context) {
		calls++
		close(started)
		<-release
		c.JSON(200, gin.H{"success": true})
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/vouchers", nil)
		req.Header.Set(IdempotencyKeyHeader, "abc")
		req.Header.Set(OutletCodeHeader, "OUT-7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() { first <- do() }()

	// The duplicate arrives while the first request is still running: it
	// must not reach the handler.
	<-started
	dup := do()
	if dup.Code != http.StatusConflict {
		t.Fatalf("expected 409 for in-flight duplicate, got %d", dup.Code)
	}
	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}

	close(release)
	if w := <-first; w.Code != 200 {
		t.Fatalf("expected first request to complete, got %d", w.Code)
	}

	// Once the first request is stored, the same key replays it.
	replayed := do()
	if replayed.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Fatal("expected replayed response after completion")
	}
	if calls != 1 {
		t.Fatalf("expected no further handler runs, ran %d times", calls)
	}
}

func TestIdempotencyFailedRequestFreesKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	calls := 0
	router := gin.New()
	router.POST("/vouchers", Idempotency(NewMemoryIdempotencyStore(time.Minute)), func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(502, gin.H{"success": false})
			return
		}
		c.JSON(200, gin.H{"success": true})
	})

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/vouchers", nil)
		req.Header.Set(IdempotencyKeyHeader, "abc")
		req.Header.Set(OutletCodeHeader, "OUT-7")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	if w := do(); w.Code != 502 {
		t.Fatalf("expected first attempt to fail, got %d", w.Code)
	}

	// The failure is not stored; a retry with the same key runs again.
	retry := do()
	if retry.Code != 200 || retry.Header().Get("X-Idempotency-Replayed") != "" {
		t.Fatalf("expected retry to execute, got %d replayed=%q", retry.Code, retry.Header().Get("X-Idempotency-Replayed"))
	}
	if calls != 2 {
		t.Fatalf("expected handler to run twice, ran %d times", calls)
	}
}
