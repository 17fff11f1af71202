package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/ctxlog"
	"github.com/vk/faro/internal/registry"
	"github.com/vk/faro/modules/httpserver"
)

// Build activates every enabled module and returns the finished container.
func (a *App) Build(ctx context.Context) (*container.Container, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Build method started.")

	c, err := a.registry.BuildContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build container: %w", err)
	}

	for _, rec := range a.registry.Records() {
		a.logger.Info("Module activated.", "module", rec.Name())
	}
	return c, nil
}

// Plan reports the activation order without building anything.
func (a *App) Plan(ctx context.Context) (registry.Plan, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	return a.registry.Plan(ctx)
}

// Serve runs the HTTP server from c until ctx is done. It requires the
// httpserver module to have been activated.
func (a *App) Serve(ctx context.Context, c *container.Container) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	if _, ok := a.registry.Record(httpserver.Name); !ok {
		return fmt.Errorf("cannot serve: module %q is not enabled", httpserver.Name)
	}
	srv, err := container.Resolve[*http.Server](c)
	if err != nil {
		return fmt.Errorf("cannot serve: %w", err)
	}
	return httpserver.Serve(ctx, srv)
}
