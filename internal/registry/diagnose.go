package registry

import (
	"github.com/vk/faro/internal/topology"
)

// diagnose explains why each stuck record never became ready. A stuck
// module can be missing a dependency, depend on a disabled module, sit on a
// dependency cycle, or simply wait on another stuck module.
func (r *Registry) diagnose(phase Phase, stuck []*Record) []StuckModule {
	topo := r.topology()
	cycles := make(map[string][]string)
	for _, cycle := range topo.Cycles() {
		for _, name := range cycle {
			cycles[name] = cycle
		}
	}

	isStuck := make(map[string]bool, len(stuck))
	for _, rec := range stuck {
		isStuck[rec.name] = true
	}

	out := make([]StuckModule, 0, len(stuck))
	for _, rec := range stuck {
		sm := StuckModule{Name: rec.name, Cycle: cycles[rec.name]}
		onCycle := make(map[string]bool, len(sm.Cycle))
		for _, name := range sm.Cycle {
			onCycle[name] = true
		}

		for _, dep := range rec.Unmet(phase) {
			switch {
			case !topo.HasNode(dep) && r.disabledRecord(dep):
				sm.Disabled = append(sm.Disabled, dep)
			case !topo.HasNode(dep):
				sm.Missing = append(sm.Missing, dep)
			case isStuck[dep] && !onCycle[dep]:
				sm.Blocked = append(sm.Blocked, dep)
			}
		}
		out = append(out, sm)
	}
	return out
}

// topology builds the dependency graph between enabled modules. Edges to
// names that are not enabled modules are left out.
func (r *Registry) topology() *topology.Store {
	s := topology.New()
	for _, rec := range r.order {
		s.AddNode(rec.name)
	}
	for _, rec := range r.order {
		for _, dep := range rec.dependsOn {
			if !s.HasNode(dep) {
				continue
			}
			// Both nodes were added above.
			_ = s.AddDependency(dep, rec.name)
		}
	}
	return s
}
