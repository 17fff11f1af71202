package registry

import (
	"fmt"
	"log/slog"

	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/module"
)

// baseOwner is the owner name under which WithDefinitions entries are merged.
const baseOwner = "<base>"

// Registry owns the activation records of one application and the container
// builder they load into. It is not safe for concurrent use.
type Registry struct {
	logger  *slog.Logger
	builder *container.Builder
	base    container.Definitions

	order    []*Record
	records  map[string]*Record
	disabled []*Record

	built bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used when the build context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// WithDefinitions adds definitions merged into the builder before any
// module's own definitions.
func WithDefinitions(defs ...container.Definition) Option {
	return func(r *Registry) { r.base = append(r.base, defs...) }
}

// WithBuilder replaces the default container builder.
func WithBuilder(b *container.Builder) Option {
	return func(r *Registry) { r.builder = b }
}

// New creates and initializes a new Registry instance.
func New(opts ...Option) *Registry {
	r := &Registry{
		records: make(map[string]*Record),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.builder == nil {
		r.builder = container.NewBuilder()
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Register validates m and, if it is enabled, adds it to the set of modules
// that will be activated. Disabled modules are remembered for diagnostics
// only; nothing can depend on them successfully.
func (r *Registry) Register(m module.Module) error {
	if r.built {
		return ErrRegistrationClosed
	}

	rec, err := newRecord(m, r.lookup)
	if err != nil {
		return err
	}

	if !rec.enabled {
		r.logger.Debug("Module disabled, not registering.", "module", rec.name)
		r.disabled = append(r.disabled, rec)
		return nil
	}

	if _, exists := r.records[rec.name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateModule, rec.name)
	}
	r.records[rec.name] = rec
	r.order = append(r.order, rec)
	r.logger.Debug("Registering module.", "module", rec.name, "depends_on", rec.dependsOn)
	return nil
}

// RegisterAll registers each module in turn, stopping at the first failure.
func (r *Registry) RegisterAll(modules ...module.Module) error {
	for _, m := range modules {
		if err := r.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// Records returns the enabled records in registration order.
func (r *Registry) Records() []*Record {
	out := make([]*Record, len(r.order))
	copy(out, r.order)
	return out
}

// Record returns the enabled record registered under name.
func (r *Registry) Record(name string) (*Record, bool) {
	return r.lookup(name)
}

// Disabled returns the names of modules that were registered disabled, in
// registration order.
func (r *Registry) Disabled() []string {
	names := make([]string, len(r.disabled))
	for i, rec := range r.disabled {
		names[i] = rec.name
	}
	return names
}

func (r *Registry) lookup(name string) (*Record, bool) {
	rec, ok := r.records[name]
	return rec, ok
}

func (r *Registry) disabledRecord(name string) bool {
	for _, rec := range r.disabled {
		if rec.name == name {
			return true
		}
	}
	return false
}
