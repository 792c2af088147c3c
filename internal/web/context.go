package web

import (
	"context"
	"net"
	"net/http"

	"github.com/JonMunkholm/aqingest/internal/core"
)

// WithRequestMetadata adds the client IP and User-Agent to ctx for the
// upload summary log.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithClient(ctx, clientIP(r), r.UserAgent())
}

// clientIP returns the host part of r.RemoteAddr, which TrustedRealIP may
// already have replaced with a bare IP.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
