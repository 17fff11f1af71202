// Package registry activates modules in dependency order.
//
// Every registered module gets an activation Record holding two one-way
// flags, loaded and setup. BuildContainer drives all records through the
// load phase, builds the container, and then drives them through the setup
// phase. Each phase is a fixed-point loop: every pending record is offered
// the chance to advance, and a record advances only when each of its
// dependencies is enabled and has already completed the same phase. The loop
// stops after a pass in which nothing advanced.
//
// Anything still pending at that point can never advance. The registry then
// returns a single ResolutionError naming every such module. Dependency
// cycles, dependencies that name no registered module, and dependencies on
// disabled modules all end this way; the error's per-module diagnostics tell
// them apart.
//
// Dependencies are matched by name lazily, on every readiness check, so a
// module may be registered before the modules it depends on.
//
// A Registry is built for one application (or one test) and is owned by
// whoever assembles it. It holds no global state and is not safe for
// concurrent use.
package registry
