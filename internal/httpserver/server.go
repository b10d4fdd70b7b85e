package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Server wraps http.Server with timeouts tuned for large media uploads.
type Server struct {
	inner *http.Server
}

// New constructs a server listening on the provided port. Read and write
// deadlines are left open because video uploads can take minutes; only the
// header read is bounded.
func New(port int, handler http.Handler) *Server {
	return &Server{
		inner: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       2 * time.Minute,
			MaxHeaderBytes:    1 << 20,
		},
	}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully terminates the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
