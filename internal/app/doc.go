// Package app contains the core application logic. It loads configuration,
// applies it to the compiled-in modules, and drives their activation
// through the registry, decoupled from any specific entrypoint like a CLI.
package app
