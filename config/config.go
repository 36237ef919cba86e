// Package config loads the optional TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"grafed/core"
)

// Config is the complete configuration. Zero-valued sections in a file keep
// their defaults.
type Config struct {
	Log     LogConfig     `toml:"log"`
	History HistoryConfig `toml:"history"`
	Routing RoutingConfig `toml:"routing"`
	Sizes   SizesConfig   `toml:"sizes"`
	Preview PreviewConfig `toml:"preview"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

type HistoryConfig struct {
	Capacity int `toml:"capacity" validate:"min=1,max=10000"`
}

type RoutingConfig struct {
	// CacheSize bounds the route cache; 0 disables caching.
	CacheSize int `toml:"cache_size" validate:"min=0"`
}

// SizeConfig is the default size of a newly created node.
type SizeConfig struct {
	Width  float64 `toml:"width" validate:"gt=0"`
	Height float64 `toml:"height" validate:"gt=0"`
}

// Size converts the configured size to a core.Size.
func (s SizeConfig) Size() core.Size {
	return core.Size{Width: s.Width, Height: s.Height}
}

type SizesConfig struct {
	Step        SizeConfig `toml:"step"`
	Transition  SizeConfig `toml:"transition"`
	Gate        SizeConfig `toml:"gate"`
	ActionBlock SizeConfig `toml:"action_block"`
}

// PreviewConfig sets how many canvas units map to one terminal cell.
type PreviewConfig struct {
	ScaleX float64 `toml:"scale_x" validate:"gt=0"`
	ScaleY float64 `toml:"scale_y" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:     LogConfig{Level: "info"},
		History: HistoryConfig{Capacity: 50},
		Routing: RoutingConfig{CacheSize: 256},
		Sizes: SizesConfig{
			Step:        SizeConfig{Width: 60, Height: 60},
			Transition:  SizeConfig{Width: 40, Height: 10},
			Gate:        SizeConfig{Width: 200, Height: 5},
			ActionBlock: SizeConfig{Width: 120, Height: 40},
		},
		Preview: PreviewConfig{ScaleX: 5, ScaleY: 10},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("toml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks every field of cfg.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", strings.TrimPrefix(fe.Namespace(), "Config."), fe.ActualTag()+paramSuffix(fe), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func paramSuffix(fe validator.FieldError) string {
	if fe.Param() == "" {
		return ""
	}
	return "=" + fe.Param()
}

// Parse decodes TOML over the defaults and validates the result.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("parse config: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads the file at path. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
