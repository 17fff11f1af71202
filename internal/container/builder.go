package container

import (
	"errors"
	"fmt"

	"go.uber.org/dig"
)

// ErrBuilderSealed is returned when a Builder is used after Build.
var ErrBuilderSealed = errors.New("container builder already built")

// entry remembers which owner contributed a definition, so that build errors
// can point back at the module responsible.
type entry struct {
	owner string
	def   Definition
}

// Builder collects definitions in merge order and builds them into a Container.
// A Builder is single-use and not safe for concurrent use.
type Builder struct {
	entries []entry
	owners  []string
	opts    []dig.Option
	sealed  bool
}

// NewBuilder creates an empty Builder. The options are passed to dig.New.
func NewBuilder(opts ...dig.Option) *Builder {
	return &Builder{opts: opts}
}

// AddDefinitions merges the given definitions into the builder on behalf of
// owner. Nothing is added if any definition is invalid.
func (b *Builder) AddDefinitions(owner string, defs Definitions) error {
	if b.sealed {
		return ErrBuilderSealed
	}
	if err := defs.Validate(); err != nil {
		return fmt.Errorf("definitions of %q: %w", owner, err)
	}

	for _, d := range defs {
		b.entries = append(b.entries, entry{owner: owner, def: d})
	}
	b.owners = append(b.owners, owner)
	return nil
}

// Owners returns the owners in the order their definitions were merged.
func (b *Builder) Owners() []string {
	out := make([]string, len(b.owners))
	copy(out, b.owners)
	return out
}

// Len returns the number of definitions merged so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Build provides every merged definition to a fresh dig container. The
// first provider dig rejects aborts the build and is reported with its owner.
func (b *Builder) Build() (*Container, error) {
	if b.sealed {
		return nil, ErrBuilderSealed
	}
	b.sealed = true

	c := dig.New(b.opts...)
	for i, e := range b.entries {
		if err := c.Provide(e.def.Constructor, e.def.Options...); err != nil {
			return nil, fmt.Errorf("provide definition %d of %q: %w", i, e.owner, err)
		}
	}
	return &Container{dig: c}, nil
}
