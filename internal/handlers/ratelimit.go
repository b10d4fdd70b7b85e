package handlers

import (
	"net"
	"net/http"
	"strings"
)

// RateLimiter guards abuse-prone endpoints such as registration and login.
type RateLimiter interface {
	Allow(key string) bool
}

// allowRequest checks the limiter for the caller's IP, keyed per scope so
// that, say, login attempts do not eat into the registration budget. A nil
// limiter allows everything.
func allowRequest(limiter RateLimiter, r *http.Request, scope string) bool {
	if limiter == nil {
		return true
	}

	key := clientIP(r)
	if scope != "" {
		key = scope + ":" + key
	}
	return limiter.Allow(key)
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
