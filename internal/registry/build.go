package registry

import (
	"context"
	"fmt"

	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/ctxlog"
)

// BuildContainer activates every enabled module and returns the finished
// container:
//
//  1. load: definitions are merged dependencies-first until a sweep makes
//     no progress; any module left unloaded fails the build.
//  2. the container builder produces the container.
//  3. setup: setup callbacks run dependencies-first in the same way.
//
// It may only be called once per Registry.
func (r *Registry) BuildContainer(ctx context.Context) (*container.Container, error) {
	if r.built {
		return nil, ErrAlreadyBuilt
	}
	r.built = true

	if _, ok := ctxlog.Lookup(ctx); !ok {
		ctx = ctxlog.WithLogger(ctx, r.logger)
	}
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Building container.", "modules", len(r.order), "disabled", len(r.disabled))

	if len(r.base) > 0 {
		if err := r.builder.AddDefinitions(baseOwner, r.base); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrContainerBuild, err)
		}
	}

	err := r.sweep(ctx, PhaseLoad, func(rec *Record) (bool, error) {
		return rec.TryLoad(ctx, r.builder)
	}, (*Record).Loaded, nil)
	if err != nil {
		return nil, err
	}
	logger.Debug("All modules loaded.", "definitions", r.builder.Len())

	c, err := r.builder.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContainerBuild, err)
	}

	err = r.sweep(ctx, PhaseSetup, func(rec *Record) (bool, error) {
		return rec.TrySetup(ctx, c)
	}, (*Record).IsSetup, nil)
	if err != nil {
		return nil, err
	}

	logger.Info("Container built.", "modules", len(r.order))
	return c, nil
}

// sweep calls try on every record, pass after pass, until a pass makes no
// progress. Records for which done is still false at that point are
// reported as stuck. The number of passes is capped at one more than the
// number of records, since every productive pass completes at least one.
// afterPass, when set, is called at the end of every pass.
func (r *Registry) sweep(ctx context.Context, phase Phase, try func(*Record) (bool, error), done func(*Record) bool, afterPass func()) error {
	logger := ctxlog.FromContext(ctx)
	limit := len(r.order) + 1

	for pass := 1; pass <= limit; pass++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s phase interrupted: %w", phase, err)
		}

		progress := 0
		for _, rec := range r.order {
			ok, err := try(rec)
			if err != nil {
				return err
			}
			if ok {
				progress++
			}
		}
		logger.Debug("Sweep finished.", "phase", phase.String(), "pass", pass, "progress", progress)
		if afterPass != nil {
			afterPass()
		}

		if progress == 0 {
			return r.stuckError(phase, done)
		}
	}
	return fmt.Errorf("%w: %s phase after %d passes", ErrSweepLimit, phase, limit)
}

// stuckError returns a ResolutionError naming every record not done with
// the phase, or nil when there are none.
func (r *Registry) stuckError(phase Phase, done func(*Record) bool) error {
	var stuck []*Record
	for _, rec := range r.order {
		if !done(rec) {
			stuck = append(stuck, rec)
		}
	}
	if len(stuck) == 0 {
		return nil
	}
	return &ResolutionError{Phase: phase, Modules: r.diagnose(phase, stuck)}
}
