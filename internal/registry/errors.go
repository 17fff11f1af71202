package registry

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNilModule          = errors.New("module is nil")
	ErrMalformedModule    = errors.New("malformed module")
	ErrDuplicateModule    = errors.New("module already registered")
	ErrLoadResolution     = errors.New("modules could not be loaded")
	ErrSetupResolution    = errors.New("modules could not be set up")
	ErrContainerBuild     = errors.New("container build failed")
	ErrSetupFailed        = errors.New("module setup failed")
	ErrAlreadyBuilt       = errors.New("container already built")
	ErrRegistrationClosed = errors.New("registration closed")
	ErrSweepLimit         = errors.New("sweep limit exceeded without reaching a fixed point")
)

// Phase identifies one of the two activation phases.
type Phase int

const (
	// PhaseLoad merges module definitions into the container builder.
	PhaseLoad Phase = iota
	// PhaseSetup runs module setup callbacks against the built container.
	PhaseSetup
)

func (p Phase) String() string {
	switch p {
	case PhaseLoad:
		return "load"
	case PhaseSetup:
		return "setup"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// StuckModule describes an enabled module that never completed a phase, and
// why, as far as the registry can tell.
type StuckModule struct {
	Name string
	// Missing lists dependency names that match no registered module.
	Missing []string
	// Disabled lists dependencies that are registered but disabled.
	Disabled []string
	// Cycle lists the modules that depend on each other together with this
	// one. Empty when the module is not on a cycle.
	Cycle []string
	// Blocked lists enabled dependencies that are themselves stuck.
	Blocked []string
}

func (s StuckModule) String() string {
	var reasons []string
	if len(s.Missing) > 0 {
		reasons = append(reasons, "missing "+strings.Join(s.Missing, ", "))
	}
	if len(s.Disabled) > 0 {
		reasons = append(reasons, "disabled "+strings.Join(s.Disabled, ", "))
	}
	if len(s.Cycle) > 0 {
		reasons = append(reasons, "cycle "+strings.Join(s.Cycle, " <-> "))
	}
	if len(s.Blocked) > 0 {
		reasons = append(reasons, "waiting on "+strings.Join(s.Blocked, ", "))
	}
	if len(reasons) == 0 {
		return s.Name
	}
	return fmt.Sprintf("%s (%s)", s.Name, strings.Join(reasons, "; "))
}

// ResolutionError is returned when a phase reaches its fixed point with
// enabled modules still pending. It names every one of them.
type ResolutionError struct {
	Phase   Phase
	Modules []StuckModule
}

// Names returns the names of the stuck modules, in registration order.
func (e *ResolutionError) Names() []string {
	names := make([]string, len(e.Modules))
	for i, m := range e.Modules {
		names[i] = m.Name
	}
	return names
}

func (e *ResolutionError) Error() string {
	lines := make([]string, len(e.Modules))
	for i, m := range e.Modules {
		lines[i] = m.String()
	}
	return fmt.Sprintf("%s: %d module(s) stuck in %s phase:\n- %s",
		e.sentinel(), len(e.Modules), e.Phase, strings.Join(lines, "\n- "))
}

func (e *ResolutionError) sentinel() error {
	if e.Phase == PhaseSetup {
		return ErrSetupResolution
	}
	return ErrLoadResolution
}

// Is matches the sentinel of the phase the error was raised in.
func (e *ResolutionError) Is(target error) bool {
	return target == e.sentinel()
}

// ModuleError attaches the module and phase to a failure raised while
// processing that module.
type ModuleError struct {
	Module string
	Phase  Phase
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %q %s: %v", e.Module, e.Phase, e.Err)
}

func (e *ModuleError) Unwrap() error { return e.Err }
