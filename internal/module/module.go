// Package module defines the contract every activatable module implements.
//
// A module is a named unit of configuration and initialization logic. It
// declares the modules it depends on, contributes definitions to the
// container builder during the load phase, and receives the finished
// container during the setup phase.
package module

import (
	"context"

	"github.com/vk/faro/internal/container"
)

// Module is the interface that all modules must implement to be registered.
type Module interface {
	// Name uniquely identifies the module within a registry.
	Name() string
	// Enabled reports whether the module takes part in activation. It is read
	// once, at registration.
	Enabled() bool
	// DependsOn lists the names of the modules that must finish each phase
	// before this one.
	DependsOn() []string
	// Definitions returns the entries merged into the container builder
	// during the load phase.
	Definitions() container.Definitions
	// Setup runs once after the container is built and after every
	// dependency has been set up.
	Setup(ctx context.Context, c *container.Container) error
}

// Base is a ready-made Module. The zero value of every optional field means
// "nothing to contribute": no dependencies, no definitions, and a no-op setup.
type Base struct {
	ID       string
	Disabled bool
	Requires []string
	Provides container.Definitions
	OnSetup  func(ctx context.Context, c *container.Container) error
}

// Name implements Module.
func (b *Base) Name() string { return b.ID }

// Enabled implements Module.
func (b *Base) Enabled() bool { return !b.Disabled }

// DependsOn implements Module.
func (b *Base) DependsOn() []string { return b.Requires }

// Definitions implements Module.
func (b *Base) Definitions() container.Definitions { return b.Provides }

// Setup implements Module.
func (b *Base) Setup(ctx context.Context, c *container.Container) error {
	if b.OnSetup == nil {
		return nil
	}
	return b.OnSetup(ctx, c)
}

// override replaces the enabled flag of the wrapped module.
type override struct {
	Module
	enabled bool
}

func (o *override) Enabled() bool { return o.enabled }

// WithEnabled returns m with its enabled flag replaced. It is how external
// configuration switches modules on or off before they are registered.
func WithEnabled(m Module, enabled bool) Module {
	if o, ok := m.(*override); ok {
		m = o.Module
	}
	return &override{Module: m, enabled: enabled}
}
