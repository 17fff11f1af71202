package config

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/faro/internal/ctxlog"
	"github.com/vk/faro/internal/fsutil"
)

// Loader reads HCL configuration files into a Model.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the top-level schema of a configuration file.
type fileRoot struct {
	LogLevel  *string        `hcl:"log_level,optional"`
	LogFormat *string        `hcl:"log_format,optional"`
	Modules   []*moduleBlock `hcl:"module,block"`
}

// moduleBlock is a `module "<name>" { ... }` block.
type moduleBlock struct {
	Name     string         `hcl:"name,label"`
	Enabled  *bool          `hcl:"enabled,optional"`
	Settings hcl.Expression `hcl:"settings,optional"`
}

// Load reads every .hcl file found under paths, in order, and merges them
// into one model. A path that does not exist is an error.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFilesByExtension(paths, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find config files: %w", err)
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := NewModel()
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
		if err := l.merge(ctx, parser, model, file, src); err != nil {
			return nil, err
		}
	}

	logger.Debug("HCL loading complete.", "files", len(model.Files), "modules", len(model.Modules))
	return model, nil
}

// LoadSource parses a single configuration held in memory.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) (*Model, error) {
	model := NewModel()
	if err := l.merge(ctx, hclparse.NewParser(), model, filename, src); err != nil {
		return nil, err
	}
	return model, nil
}

func (l *Loader) merge(ctx context.Context, parser *hclparse.Parser, model *Model, filename string, src []byte) error {
	hclFile, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	if root.LogLevel != nil {
		model.LogLevel = *root.LogLevel
	}
	if root.LogFormat != nil {
		model.LogFormat = *root.LogFormat
	}

	for _, blk := range root.Modules {
		mc, err := translateModule(blk)
		if err != nil {
			return fmt.Errorf("%s: %w", filename, err)
		}

		existing, ok := model.Modules[mc.Name]
		if !ok {
			model.Modules[mc.Name] = mc
			continue
		}
		if mc.Enabled != nil {
			existing.Enabled = mc.Enabled
		}
		if !mc.Settings.IsNull() {
			existing.Settings = mc.Settings
		}
	}

	model.Files = append(model.Files, filename)
	ctxlog.FromContext(ctx).Debug("Successfully loaded config file.", "file", filename, "modules", len(root.Modules))
	return nil
}

// translateModule evaluates a module block into its format-agnostic form.
func translateModule(blk *moduleBlock) (*ModuleConfig, error) {
	mc := &ModuleConfig{Name: blk.Name, Enabled: blk.Enabled}
	if blk.Settings == nil {
		return mc, nil
	}

	val, diags := blk.Settings.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("module %q: invalid settings: %w", blk.Name, diags)
	}
	if val.IsNull() {
		return mc, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("module %q: settings must be known values", blk.Name)
	}

	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("module %q: settings must be an object, got %s", blk.Name, ty.FriendlyName())
	}
	mc.Settings = val
	return mc, nil
}
