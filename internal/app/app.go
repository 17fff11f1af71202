package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/faro/internal/config"
	"github.com/vk/faro/internal/container"
	"github.com/vk/faro/internal/ctxlog"
	"github.com/vk/faro/internal/module"
	"github.com/vk/faro/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	logger   *slog.Logger
	config   *Config
	model    *config.Model
	registry *registry.Registry
	modules  []module.Module
}

// ModuleInfo describes a module as the app will register it.
type ModuleInfo struct {
	Name      string
	Enabled   bool
	DependsOn []string
}

// NewApp loads the configuration named by cfg, applies it to modules, and
// registers them. When no modules are given, the core modules are used.
// Logs are written to logW.
func NewApp(logW io.Writer, cfg *Config, modules ...module.Module) (*App, error) {
	logger := newLogger(firstNonEmpty(cfg.LogLevel, "info"), cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	model, err := config.NewLoader().Load(ctx, cfg.ConfigPaths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	model.LogLevel = normalize(model.LogLevel)
	model.LogFormat = normalize(model.LogFormat)
	if err := validateLogLevel(model.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := validateLogFormat(model.LogFormat); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if (cfg.LogLevel == "" && model.LogLevel != "") || (cfg.LogFormat == "" && model.LogFormat != "") {
		logger = newLogger(
			firstNonEmpty(cfg.LogLevel, model.LogLevel, "info"),
			firstNonEmpty(cfg.LogFormat, model.LogFormat),
			logW,
		)
	}
	logger.Debug("Configuration loaded.", "files", model.Files)

	if len(modules) == 0 {
		modules = CoreModules()
	}
	modules = applyModuleConfig(logger, model, modules)

	reg := registry.New(
		registry.WithLogger(logger),
		registry.WithDefinitions(
			container.Value(logger),
			container.Value(model.Settings()),
		),
	)
	if err := reg.RegisterAll(modules...); err != nil {
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}
	logger.Debug("All modules registered.", "count", len(modules), "disabled", reg.Disabled())

	return &App{
		logger:   logger,
		config:   cfg,
		model:    model,
		registry: reg,
		modules:  modules,
	}, nil
}

// applyModuleConfig replaces the enabled flag of every module whose config
// block sets one.
func applyModuleConfig(logger *slog.Logger, model *config.Model, modules []module.Module) []module.Module {
	known := make(map[string]struct{}, len(modules))
	out := make([]module.Module, len(modules))
	for i, m := range modules {
		out[i] = m
		if m == nil {
			continue
		}
		known[m.Name()] = struct{}{}
		if mc, ok := model.Module(m.Name()); ok && mc.Enabled != nil {
			out[i] = module.WithEnabled(m, *mc.Enabled)
		}
	}

	for _, name := range model.ModuleNames() {
		if _, ok := known[name]; !ok {
			logger.Warn("Configured module is not available.", "module", name)
		}
	}
	return out
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Model returns the loaded configuration.
func (a *App) Model() *config.Model {
	return a.model
}

// Modules describes the modules the app registered, in registration order.
func (a *App) Modules() []ModuleInfo {
	infos := make([]ModuleInfo, 0, len(a.modules))
	for _, m := range a.modules {
		if m == nil {
			continue
		}
		infos = append(infos, ModuleInfo{
			Name:      m.Name(),
			Enabled:   m.Enabled(),
			DependsOn: m.DependsOn(),
		})
	}
	return infos
}
