package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	apperrors "nivesh/internal/errors"
	"nivesh/internal/logger"
)

const (
	// IdempotencyKeyHeader names the client-chosen key of a mutating request.
	IdempotencyKeyHeader = "Idempotency-Key"
	// ReplayedHeader marks a response served from the idempotency store.
	ReplayedHeader = "Idempotent-Replayed"

	// How long a request may hold the in-progress marker.
	idempotencyLockTTL = 60 * time.Second
	idempotencyTimeout = 2 * time.Second
)

type idempotencyEntry struct {
	InProgress bool      `json:"in_progress"`
	Code       int       `json:"code"`
	Body       []byte    `json:"body"`
	BodySHA256 string    `json:"body_sha256"`
	CreatedAt  time.Time `json:"created_at"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	buf *bytes.Buffer
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	r.buf.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *bodyRecorder) WriteString(s string) (int, error) {
	r.buf.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// Idempotency guards mutating requests that carry an Idempotency-Key. The
// first request with a key runs; repeats with the same body replay its
// response until ttl expires. A repeat with a different body, or one that
// arrives while the first is still running, gets 409. Server errors are not
// stored so the client may retry. Requests without a key, and all requests
// when rdb is nil, pass through.
func Idempotency(rdb *redis.Client, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if rdb == nil || key == "" || !isMutating(c.Request.Method) {
			c.Next()
			return
		}

		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
		hash := bodyHash(body)

		storeKey := idempotencyKey(c, key)
		ctx, cancel := context.WithTimeout(c.Request.Context(), idempotencyTimeout)
		defer cancel()

		acquired, err := provisionalSet(ctx, rdb, storeKey, idempotencyEntry{
			InProgress: true,
			BodySHA256: hash,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			logger.Get().Warnw("idempotency store unavailable, running request unguarded",
				"error", err, "path", c.Request.URL.Path)
			c.Next()
			return
		}
		if !acquired {
			replay(ctx, c, rdb, storeKey, hash)
			return
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer, buf: &bytes.Buffer{}}
		c.Writer = rec
		c.Next()

		saveCtx, saveCancel := context.WithTimeout(context.Background(), idempotencyTimeout)
		defer saveCancel()
		status := rec.Status()
		if status >= http.StatusInternalServerError {
			rdb.Del(saveCtx, storeKey)
			return
		}
		final := idempotencyEntry{
			Code:       status,
			Body:       rec.buf.Bytes(),
			BodySHA256: hash,
			CreatedAt:  time.Now().UTC(),
		}
		if err := saveFinal(saveCtx, rdb, storeKey, final, ttl); err != nil {
			logger.Get().Warnw("failed to store idempotent response", "error", err, "key", storeKey)
		}
	}
}

func replay(ctx context.Context, c *gin.Context, rdb *redis.Client, storeKey, hash string) {
	cur, err := loadEntry(ctx, rdb, storeKey)
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Get().Warnw("failed to load idempotency entry", "error", err, "key", storeKey)
		}
		abortWithError(c, apperrors.ErrRequestInProgress)
		return
	}
	if cur.BodySHA256 != "" && cur.BodySHA256 != hash {
		abortWithError(c, apperrors.ErrIdempotencyKeyReused)
		return
	}
	if cur.InProgress || cur.Code == 0 {
		abortWithError(c, apperrors.ErrRequestInProgress)
		return
	}
	c.Header(ReplayedHeader, "true")
	c.Data(cur.Code, gin.MIMEJSON, cur.Body)
	c.Abort()
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// idempotencyKey scopes a client key to the method, route and caller.
func idempotencyKey(c *gin.Context, key string) string {
	caller := c.ClientIP()
	if id, ok := c.Get("userID"); ok {
		if uid, ok := id.(uint); ok {
			caller = "u" + strconv.FormatUint(uint64(uid), 10)
		}
	}
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	return "idemp:" + strings.ToLower(c.Request.Method) + ":" + path + ":" + caller + ":" + key
}

func bodyHash(b []byte) string {
	s := sha256.Sum256(b)
	return hex.EncodeToString(s[:])
}

func provisionalSet(ctx context.Context, rdb *redis.Client, key string, entry idempotencyEntry) (bool, error) {
	payload, err := json.Marshal(entry)
	if err != nil {
		return false, err
	}
	return rdb.SetNX(ctx, key, payload, idempotencyLockTTL).Result()
}

func loadEntry(ctx context.Context, rdb *redis.Client, key string) (idempotencyEntry, error) {
	var e idempotencyEntry
	v, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(v, &e); err != nil {
		return e, err
	}
	return e, nil
}

func saveFinal(ctx context.Context, rdb *redis.Client, key string, entry idempotencyEntry, ttl time.Duration) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, payload, ttl).Err()
}
