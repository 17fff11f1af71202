// Package env provides a snapshot of the process environment to other
// modules.
package env

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/ctxlog"
)

// Name is the module name.
const Name = "env"

// Vars is a snapshot of environment variables taken when first resolved.
type Vars map[string]string

// Get returns the value of key and whether it was set.
func (v Vars) Get(key string) (string, bool) {
	val, ok := v[key]
	return val, ok
}

// Keys returns the variable names, sorted.
func (v Vars) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Parse builds Vars from "KEY=value" pairs. Entries without '=' are skipped.
func Parse(environ []string) Vars {
	vars := make(Vars, len(environ))
	for _, e := range environ {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 {
			vars[pair[0]] = pair[1]
		}
	}
	return vars
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
		container.Provide(func() Vars { return Parse(os.Environ()) }),
	}
}

// Setup implements module.Module.
func (m *Module) Setup(ctx context.Context, c *container.Container) error {
	vars, err := container.Resolve[Vars](c)
	if err != nil {
		return fmt.Errorf("failed to capture environment: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Environment captured.", "count", len(vars))
	return nil
}
