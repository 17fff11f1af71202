// Package httpserver provides the shared request multiplexer and the
// *http.Server that serves it. Other modules mount their handlers on the
// mux during setup; nothing listens until Serve is called.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/vk/faro/internal/config"
	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/ctxlog"
)

// Name is the module name.
const Name = "httpserver"

// ShutdownTimeout bounds the graceful shutdown performed by Serve.
const ShutdownTimeout = 5 * time.Second

// Settings are read from the module's `settings` block.
type Settings struct {
	Addr string `cty:"addr"`
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{Addr: ":8080"}
}

// NewServer creates the server for mux from the module settings.
func NewServer(settings *config.Settings, mux *http.ServeMux) (*http.Server, error) {
	s := DefaultSettings()
	if err := settings.Decode(Name, &s); err != nil {
		return nil, err
	}
	if _, _, err := net.SplitHostPort(s.Addr); err != nil {
		return nil, fmt.Errorf("invalid addr %q: %w", s.Addr, err)
	}

	return &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}, nil
}

// Serve runs srv until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server) error {
	logger := ctxlog.FromContext(ctx)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}
	logger.Info("HTTP server starting.", "address", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed.", "error", err)
		return err
	}
	logger.Debug("HTTP server shut down gracefully.")
	return nil
}

// Module implements module.Module for this package.
type Module struct{}

// Name implements module.Module.
func (m *Module) Name() string { return Name }

// Enabled implements module.Module.
func (m *Module) Enabled() bool { return true }

// DependsOn implements module.Module.
func (m *Module) DependsOn() []string { return nil }

// Definitions implements module.Module.
func (m *Module) Definitions() container.Definitions {
	return container.Definitions{
		container.Provide(http.NewServeMux),
		container.Provide(NewServer),
	}
}

// Setup implements module.Module.
func (m *Module) Setup(ctx context.Context, c *container.Container) error {
	srv, err := container.Resolve[*http.Server](c)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("HTTP server configured.", "addr", srv.Addr)
	return nil
}
