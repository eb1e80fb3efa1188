package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/querypilot/querypilot/core/infrastructure/logging"
)

// RedisLimiter throttles requests per client key with a sliding window
// log kept in a Redis sorted set. A request is admitted while fewer
// than Limit entries fall inside the window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	log    logging.Logger
}

// NewRedisLimiter creates a limiter admitting limit requests per window
func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		log:    logging.New("ratelimit"),
	}
}

// Middleware enforces the limit per client IP. Limiter failures admit
// the request; throttling must never take the API down with it.
func (l *RedisLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remaining, allowed, err := l.take(r)
		if err != nil {
			l.log.Warnf("Rate limiter unavailable, admitting request: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"error":"rate limit exceeded"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// take records one request for the client and reports whether it fits
// inside the window
func (l *RedisLimiter) take(r *http.Request) (remaining int, allowed bool, err error) {
	key := "ratelimit:" + clientIP(r)
	now := time.Now()
	cutoff := strconv.FormatInt(now.Add(-l.window).UnixNano(), 10)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(r.Context(), key, "0", cutoff)
	card := pipe.ZCard(r.Context(), key)
	if _, err := pipe.Exec(r.Context()); err != nil {
		return 0, false, err
	}

	used := int(card.Val())
	if used >= l.limit {
		return 0, false, nil
	}

	pipe = l.client.TxPipeline()
	pipe.ZAdd(r.Context(), key, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(r.Context(), key, l.window)
	if _, err := pipe.Exec(r.Context()); err != nil {
		return 0, false, err
	}

	return l.limit - used - 1, true, nil
}

// clientIP prefers the proxy-reported address over the socket peer
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
