package config

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of every loaded configuration file.
type Model struct {
	LogLevel  string
	LogFormat string
	Modules   map[string]*ModuleConfig
	// Files lists the files the model was loaded from, in load order.
	Files []string
}

// ModuleConfig is the configuration of a single module.
type ModuleConfig struct {
	Name string
	// Enabled overrides the module's own enabled flag when set.
	Enabled *bool
	// Settings is an object value, or null when no settings were given.
	Settings cty.Value
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Modules: make(map[string]*ModuleConfig)}
}

// Module returns the configuration of the named module, if any.
func (m *Model) Module(name string) (*ModuleConfig, bool) {
	mc, ok := m.Modules[name]
	return mc, ok
}

// ModuleNames returns the names of all configured modules, sorted.
func (m *Model) ModuleNames() []string {
	names := make([]string, 0, len(m.Modules))
	for name := range m.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Settings collects the settings of every configured module.
func (m *Model) Settings() *Settings {
	values := make(map[string]cty.Value, len(m.Modules))
	for name, mc := range m.Modules {
		if mc.Settings.IsNull() {
			continue
		}
		values[name] = mc.Settings
	}
	return NewSettings(values)
}
