// Package httpclient provides a shared, configurable *http.Client.
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/vk/faro/internal/config"
	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/ctxlog"
)

// Name is the module name.
const Name = "httpclient"

// Settings are read from the module's `settings` block.
type Settings struct {
	Timeout string `cty:"timeout"`
}

// DefaultSettings returns the settings used when none are configured.
func DefaultSettings() Settings {
	return Settings{Timeout: "30s"}
}

// NewClient creates the shared client from the module settings.
func NewClient(settings *config.Settings) (*http.Client, error) {
	s := DefaultSettings()
	if err := settings.Decode(Name, &s); err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid timeout %q: must not be negative", s.Timeout)
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}, nil
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
	return container.Definitions{container.Provide(NewClient)}
}

// Setup implements module.Module. Resolving the client here surfaces
// invalid settings during activation rather than on first use.
func (m *Module) Setup(ctx context.Context, c *container.Container) error {
	client, err := container.Resolve[*http.Client](c)
	if err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Debug("HTTP client ready.", "timeout", client.Timeout)
	return nil
}
