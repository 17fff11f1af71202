// Package healthcheck mounts a liveness endpoint on the shared HTTP mux.
package healthcheck

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vk/faro/internal/config"
	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/ctxlog"
	"github.com/vk/faro/modules/httpserver"
)

// Name is the module name.
const Name = "healthcheck"

// Settings are read from the module's `settings` block.
type Settings struct {
	Path string `cty:"path"`
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{Path: "/health"}
}

// Handler answers every request with 200 OK.
func Handler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

// Module implements module.Module for this package.
type Module struct{}

// Name implements module.Module.
func (m *Module) Name() string { return Name }

// Enabled implements module.Module.
func (m *Module) Enabled() bool { return true }

// DependsOn implements module.Module.
func (m *Module) DependsOn() []string { return []string{httpserver.Name} }

// Definitions implements module.Module.
func (m *Module) Definitions() container.Definitions { return nil }

// Setup implements module.Module.
func (m *Module) Setup(ctx context.Context, c *container.Container) error {
	settings, err := container.Resolve[*config.Settings](c)
	if err != nil {
		return err
	}
	s := DefaultSettings()
	if err := settings.Decode(Name, &s); err != nil {
		return err
	}
	if !strings.HasPrefix(s.Path, "/") {
		return fmt.Errorf("invalid path %q: must start with '/'", s.Path)
	}

	return c.Invoke(func(mux *http.ServeMux, logger *slog.Logger) {
		mux.Handle("GET "+s.Path, Handler(logger))
		ctxlog.FromContext(ctx).Debug("Health check endpoint mounted.", "path", s.Path)
	})
}
