package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/ctxlog"
	"github.com/vk/faro/internal/module"
)

// lookupFunc finds an enabled sibling record by module name.
type lookupFunc func(name string) (*Record, bool)

// Record is the activation state of one registered module. Its loaded and
// setup flags only ever go from false to true.
type Record struct {
	module      module.Module
	name        string
	enabled     bool
	dependsOn   []string
	definitions container.Definitions

	loaded bool
	setup  bool

	// resolved caches dependency records as they become available.
	resolved map[string]*Record
	lookup   lookupFunc
}

// newRecord reads and validates the module contract once. Any violation is
// permanent: no record is created.
func newRecord(m module.Module, lookup lookupFunc) (*Record, error) {
	if m == nil {
		return nil, ErrNilModule
	}

	name := m.Name()
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrMalformedModule)
	}

	declared := m.DependsOn()
	deps := make([]string, 0, len(declared))
	seen := make(map[string]struct{}, len(declared))
	for i, dep := range declared {
		if strings.TrimSpace(dep) == "" {
			return nil, fmt.Errorf("%w: module %q: dependency %d has an empty name", ErrMalformedModule, name, i)
		}
		if _, dup := seen[dep]; dup {
			continue
		}
		seen[dep] = struct{}{}
		deps = append(deps, dep)
	}

	defs := m.Definitions()
	if err := defs.Validate(); err != nil {
		return nil, fmt.Errorf("%w: module %q: %w", ErrMalformedModule, name, err)
	}

	return &Record{
		module:      m,
		name:        name,
		enabled:     m.Enabled(),
		dependsOn:   deps,
		definitions: defs,
		resolved:    make(map[string]*Record, len(deps)),
		lookup:      lookup,
	}, nil
}

// Name returns the module name.
func (r *Record) Name() string { return r.name }

// Enabled returns the enabled flag captured at registration.
func (r *Record) Enabled() bool { return r.enabled }

// Loaded reports whether the module's definitions have been merged.
func (r *Record) Loaded() bool { return r.loaded }

// IsSetup reports whether the module's setup has run.
func (r *Record) IsSetup() bool { return r.setup }

// DependsOn returns the declared dependency names without duplicates.
func (r *Record) DependsOn() []string {
	out := make([]string, len(r.dependsOn))
	copy(out, r.dependsOn)
	return out
}

// done reports whether the record completed phase p.
func (r *Record) done(p Phase) bool {
	if p == PhaseSetup {
		return r.setup
	}
	return r.loaded
}

// resolve fills in any dependency records not found on earlier checks and
// reports whether every dependency name is now resolved.
func (r *Record) resolve() bool {
	complete := true
	for _, dep := range r.dependsOn {
		if _, ok := r.resolved[dep]; ok {
			continue
		}
		if r.lookup == nil {
			complete = false
			continue
		}
		if sibling, ok := r.lookup(dep); ok {
			r.resolved[dep] = sibling
			continue
		}
		complete = false
	}
	return complete
}

// Unmet lists the dependency names that currently keep the record from
// running phase p.
func (r *Record) Unmet(p Phase) []string {
	r.resolve()
	var unmet []string
	for _, dep := range r.dependsOn {
		sibling, ok := r.resolved[dep]
		if !ok || !sibling.enabled || !sibling.done(p) {
			unmet = append(unmet, dep)
		}
	}
	return unmet
}

// ready reports whether every dependency is resolved, enabled, and done
// with phase p.
func (r *Record) ready(p Phase) bool {
	if !r.resolve() {
		return false
	}
	for _, dep := range r.dependsOn {
		sibling := r.resolved[dep]
		if !sibling.enabled || !sibling.done(p) {
			return false
		}
	}
	return true
}

// TryLoad merges the module's definitions into b once its dependencies are
// loaded. It returns true only for the call that performed the merge.
func (r *Record) TryLoad(ctx context.Context, b *container.Builder) (bool, error) {
	if r.loaded || !r.enabled || !r.ready(PhaseLoad) {
		return false, nil
	}

	if err := b.AddDefinitions(r.name, r.definitions); err != nil {
		return false, &ModuleError{Module: r.name, Phase: PhaseLoad, Err: err}
	}
	r.loaded = true

	ctxlog.FromContext(ctx).Debug("Module loaded.", "module", r.name, "definitions", len(r.definitions))
	return true, nil
}

// TrySetup runs the module's setup once its dependencies are set up. It
// returns true only for the call that ran setup. A failing setup still
// counts as attempted and is never retried.
func (r *Record) TrySetup(ctx context.Context, c *container.Container) (bool, error) {
	if r.setup || !r.enabled || !r.ready(PhaseSetup) {
		return false, nil
	}

	r.setup = true
	logger := ctxlog.FromContext(ctx)
	if err := r.module.Setup(ctxlog.With(ctx, "module", r.name), c); err != nil {
		logger.Error("Module setup failed.", "module", r.name, "error", err)
		return true, &ModuleError{Module: r.name, Phase: PhaseSetup, Err: fmt.Errorf("%w: %w", ErrSetupFailed, err)}
	}

	logger.Debug("Module set up.", "module", r.name)
	return true, nil
}
