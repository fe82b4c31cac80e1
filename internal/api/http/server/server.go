// Package server wraps http.Server with lifecycle methods.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// HTTPServer wraps an http.Server with address and lifecycle methods.
type HTTPServer struct {
	server   *http.Server
	certFile string
	keyFile  string
}

// New creates an HTTPServer serving handler on addr. When certFile and
// keyFile are set, Start serves TLS.
func New(handler http.Handler, addr, certFile, keyFile string) *HTTPServer {
	return &HTTPServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		certFile: certFile,
		keyFile:  keyFile,
	}
}

// Start serves until the server is stopped. A regular shutdown returns
// nil, not http.ErrServerClosed.
func (s *HTTPServer) Start() error {
	var err error
	if s.certFile != "" && s.keyFile != "" {
		err = s.server.ListenAndServeTLS(s.certFile, s.keyFile)
	} else {
		err = s.server.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop gracefully stops the server, waiting for in-flight requests until
// the context expires.
func (s *HTTPServer) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Address returns the configured listen address.
func (s *HTTPServer) Address() string {
	return s.server.Addr
}
