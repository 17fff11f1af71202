// Package config loads the application's HCL configuration files into a
// format-agnostic Model and exposes per-module settings to modules through
// the container.
//
// A configuration file may set the log level and format and contain one
// `module` block per module it wants to switch on or off or configure:
//
//	log_level = "debug"
//
//	module "httpserver" {
//	  enabled  = true
//	  settings = {
//	    addr = ":9090"
//	  }
//	}
//
// When several files are loaded, later files win: a scalar set in a later
// file replaces the earlier value, and a module block replaces the
// attributes it sets.
package config
