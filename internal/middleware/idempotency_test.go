package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func newMiniredisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func setupIdempotencyRouter(rdb *redis.Client, calls *atomic.Int32, status int) *gin.Engine {
	r := gin.New()
	r.Use(Idempotency(rdb, time.Minute))
	handler := func(c *gin.Context) {
		n := calls.Add(1)
		c.JSON(status, gin.H{"call": n})
	}
	r.POST("/investments/", handler)
	r.GET("/investments/", handler)
	return r
}

func postWithKey(r *gin.Engine, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/investments/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency(t *testing.T) {
	t.Run("replays_completed_request", func(t *testing.T) {
		_, rdb := newMiniredisClient(t)
		var calls atomic.Int32
		r := setupIdempotencyRouter(rdb, &calls, http.StatusCreated)

		first := postWithKey(r, "key-1", `{"a":1}`)
		second := postWithKey(r, "key-1", `{"a":1}`)

		if calls.Load() != 1 {
			t.Fatalf("expected handler to run once, ran %d times", calls.Load())
		}
		if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
			t.Errorf("expected replay of %d %s, got %d %s", first.Code, first.Body, second.Code, second.Body)
		}
		if second.Header().Get(ReplayedHeader) != "true" {
			t.Error("expected replayed header on second response")
		}
	})

	t.Run("different_body_conflicts", func(t *testing.T) {
		_, rdb := newMiniredisClient(t)
		var calls atomic.Int32
		r := setupIdempotencyRouter(rdb, &calls, http.StatusCreated)

		postWithKey(r, "key-1", `{"a":1}`)
		rec := postWithKey(r, "key-1", `{"a":2}`)

		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if code := parseBody(t, rec)["error"].(map[string]interface{})["code"]; code != "IDEMPOTENCY_KEY_REUSED" {
			t.Errorf("expected IDEMPOTENCY_KEY_REUSED, got %v", code)
		}
	})

	t.Run("in_progress_conflicts", func(t *testing.T) {
		mr, rdb := newMiniredisClient(t)
		var calls atomic.Int32
		r := setupIdempotencyRouter(rdb, &calls, http.StatusCreated)

		// Hold the lock as a concurrent request from httptest's default
		// remote address would.
		storeKey := "idemp:post:/investments/:192.0.2.1:key-1"
		payload := `{"in_progress":true,"body_sha256":"` + bodyHash([]byte(`{"a":1}`)) + `"}`
		if err := mr.Set(storeKey, payload); err != nil {
			t.Fatal(err)
		}

		rec := postWithKey(r, "key-1", `{"a":1}`)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		if calls.Load() != 0 {
			t.Errorf("expected handler not to run, ran %d times", calls.Load())
		}
	})

	t.Run("server_errors_not_stored", func(t *testing.T) {
		_, rdb := newMiniredisClient(t)
		var calls atomic.Int32
		r := setupIdempotencyRouter(rdb, &calls, http.StatusInternalServerError)

		postWithKey(r, "key-1", `{}`)
		postWithKey(r, "key-1", `{}`)

		if calls.Load() != 2 {
			t.Errorf("expected handler to run twice, ran %d times", calls.Load())
		}
	})

	t.Run("without_key_passes_through", func(t *testing.T) {
		_, rdb := newMiniredisClient(t)
		var calls atomic.Int32
		r := setupIdempotencyRouter(rdb, &calls, http.StatusCreated)

		postWithKey(r, "", `{}`)
		postWithKey(r, "", `{}`)

		if calls.Load() != 2 {
			t.Errorf("expected handler to run twice, ran %d times", calls.Load())
		}
	})

	t.Run("store_down_fails_open", func(t *testing.T) {
		mr, rdb := newMiniredisClient(t)
		mr.Close()
		var calls atomic.Int32
		r := setupIdempotencyRouter(rdb, &calls, http.StatusCreated)

		rec := postWithKey(r, "key-1", `{}`)
		if rec.Code != http.StatusCreated || calls.Load() != 1 {
			t.Errorf("expected request to run unguarded, got %d after %d calls", rec.Code, calls.Load())
		}
	})

	t.Run("nil_client_passes_through", func(t *testing.T) {
		var calls atomic.Int32
		r := setupIdempotencyRouter(nil, &calls, http.StatusCreated)

		postWithKey(r, "key-1", `{}`)
		postWithKey(r, "key-1", `{}`)
		if calls.Load() != 2 {
			t.Errorf("expected handler to run twice, ran %d times", calls.Load())
		}
	})
}
