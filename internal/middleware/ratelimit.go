// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// visitor holds the request timestamps of one client IP inside the
// current window.
type visitor struct {
	hits []time.Time
}

// RateLimiter throttles the public read-only endpoints per client IP
// over a sliding window. The tree and post reads are cheap but
// unauthenticated, so the limiter is the only thing standing between
// the database and a misbehaving crawler. One mutex guards both the
// visitor map and every hit slice; contention is bounded by the limit
// itself.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	done     chan struct{}
}

// NewRateLimiter allows limit requests per window for each client IP
// and sweeps idle visitors in the background until Stop is called.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		done:     make(chan struct{}),
	}
	go rl.janitor()
	return rl
}

// Stop ends the background sweep.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// janitor drops visitors whose whole window has lapsed, so one-off
// clients do not accumulate in the map.
func (rl *RateLimiter) janitor() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.window)
			rl.mu.Lock()
			for key, v := range rl.visitors {
				if len(v.hits) == 0 || v.hits[len(v.hits)-1].Before(cutoff) {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.done:
			return
		}
	}
}

// allow records one hit for key and reports whether it fits the window.
// Expired hits are pruned on the way; a denied request records nothing,
// so a blocked client recovers as soon as its window drains.
func (rl *RateLimiter) allow(key string) bool {
	now := time.Now()
	cutoff := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{}
		rl.visitors[key] = v
	}

	live := v.hits[:0]
	for _, hit := range v.hits {
		if hit.After(cutoff) {
			live = append(live, hit)
		}
	}
	v.hits = live

	if len(v.hits) >= rl.limit {
		return false
	}
	v.hits = append(v.hits, now)
	return true
}

// Middleware rejects over-limit clients with 429 and the API's JSON
// error shape. Retry-After carries the window length in whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(rl.window.Round(time.Second) / time.Second))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Set("Retry-After", retryAfter)
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":"RATE_LIMITED","message":"too many requests"}}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the address to throttle on. Proxy headers win over
// RemoteAddr: X-Forwarded-For's leftmost entry is the original client,
// X-Real-IP is the single-hop variant. Without either, RemoteAddr minus
// its port is used as-is.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
