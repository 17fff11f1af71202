package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrUnknownSetting is returned by Decode when a module's settings carry a
// key the target struct does not declare.
var ErrUnknownSetting = errors.New("unknown setting")

// Settings holds the raw settings object of every configured module.
type Settings struct {
	values map[string]cty.Value
}

// NewSettings wraps per-module settings values. Each value must be null or
// of object or map type.
func NewSettings(values map[string]cty.Value) *Settings {
	if values == nil {
		values = make(map[string]cty.Value)
	}
	return &Settings{values: values}
}

// Has reports whether settings were given for the named module.
func (s *Settings) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Decode fills target, a pointer to a struct with `cty` field tags, from
// the settings of the named module. Fields with no configured value keep
// whatever target held before the call, so callers pre-populate defaults.
func (s *Settings) Decode(name string, target any) error {
	ty, err := gocty.ImpliedType(target)
	if err != nil {
		return fmt.Errorf("settings of %q: %w", name, err)
	}
	if !ty.IsObjectType() {
		return fmt.Errorf("settings of %q: target must be a struct, got %s", name, ty.FriendlyName())
	}

	raw, ok := s.values[name]
	if !ok || raw.IsNull() {
		return nil
	}

	defaults, err := gocty.ToCtyValue(target, ty)
	if err != nil {
		return fmt.Errorf("settings of %q: %w", name, err)
	}

	given := raw.AsValueMap()
	keys := make([]string, 0, len(given))
	for key := range given {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	attrs := defaults.AsValueMap()
	if attrs == nil {
		attrs = make(map[string]cty.Value)
	}
	for _, key := range keys {
		if !ty.HasAttribute(key) {
			return fmt.Errorf("settings of %q: %w %q", name, ErrUnknownSetting, key)
		}
		v, err := convert.Convert(given[key], ty.AttributeType(key))
		if err != nil {
			return fmt.Errorf("settings of %q: attribute %q: %w", name, key, err)
		}
		attrs[key] = v
	}

	if err := gocty.FromCtyValue(cty.ObjectVal(attrs), target); err != nil {
		return fmt.Errorf("settings of %q: %w", name, err)
	}
	return nil
}
