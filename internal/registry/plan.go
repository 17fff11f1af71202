package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/faro/internal/ctxlog"
)

// Plan is the order in which modules would be activated. Each wave holds the
// modules that complete a phase during one sweep, in registration order.
type Plan struct {
	Waves [][]string
}

// Order flattens the waves into a single activation order.
func (p Plan) Order() []string {
	var out []string
	for _, wave := range p.Waves {
		out = append(out, wave...)
	}
	return out
}

// String renders one wave per line.
func (p Plan) String() string {
	var sb strings.Builder
	for i, wave := range p.Waves {
		fmt.Fprintf(&sb, "%d: %s\n", i+1, strings.Join(wave, ", "))
	}
	return sb.String()
}

// Plan dry-runs the load phase. It applies the same readiness rule and sweep
// order as BuildContainer, so the order it reports is the order definitions
// would be merged and, for a graph that loads fully, the order setup would
// run. Neither the records nor the builder are touched.
func (r *Registry) Plan(ctx context.Context) (Plan, error) {
	if _, ok := ctxlog.Lookup(ctx); !ok {
		ctx = ctxlog.WithLogger(ctx, r.logger)
	}

	planned := make(map[string]bool, len(r.order))
	var plan Plan
	var wave []string

	try := func(rec *Record) (bool, error) {
		if planned[rec.name] {
			return false, nil
		}
		for _, dep := range rec.dependsOn {
			if _, ok := r.lookup(dep); !ok || !planned[dep] {
				return false, nil
			}
		}
		planned[rec.name] = true
		wave = append(wave, rec.name)
		return true, nil
	}

	closeWave := func() {
		if len(wave) > 0 {
			plan.Waves = append(plan.Waves, wave)
			wave = nil
		}
	}

	err := r.sweep(ctx, PhaseLoad, try, func(rec *Record) bool { return planned[rec.name] }, closeWave)
	if err != nil {
		return Plan{}, err
	}
	return plan, nil
}
