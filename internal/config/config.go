// Package config loads the palette configuration: the embedded defaults merged
// with an optional user file.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	MinRowHeight  = 25
	MaxRowHeight  = 50
	RowHeightStep = 5
	// DescriptionRowHeight is the height above which rows show descriptions.
	DescriptionRowHeight = 30
)

//go:embed default_config.yaml
var embeddedDefault []byte

// DefaultYAML returns a copy of the embedded default configuration.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefault...)
}

// Default returns the embedded default configuration.
func Default() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(embeddedDefault, &cfg); err != nil {
		return cfg, fmt.Errorf("decode embedded default config: %w", err)
	}
	return cfg, nil
}

// ResolvePath picks the config file: the explicit path when set, otherwise
// $XDG_CONFIG_HOME/cmdpal/config.yaml, otherwise ~/.config/cmdpal/config.yaml.
// explicit reports whether the path came from the caller, in which case a
// missing file is an error.
func ResolvePath(flagPath string, getenv func(string) string) (path string, explicit bool) {
	if flagPath != "" {
		return flagPath, true
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if xdg := getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cmdpal", "config.yaml"), false
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", false
	}
	return filepath.Join(home, ".config", "cmdpal", "config.yaml"), false
}

// Load returns the defaults merged with the file at path. A missing file is
// only an error when explicit is set.
func Load(path string, explicit bool) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return cfg, err
	}
	if path == "" {
		return cfg.Normalize(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg.Normalize(), nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	user, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg.Merge(user).Normalize(), nil
}

// Decode parses a configuration file; ext selects TOML or JSON, anything else
// is read as YAML.
func Decode(data []byte, ext string) (Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		err := toml.Unmarshal(data, &cfg)
		return cfg, err
	case ".json":
		err := json.Unmarshal(data, &cfg)
		return cfg, err
	default:
		err := yaml.Unmarshal(data, &cfg)
		return cfg, err
	}
}

// Merge returns c with every key set in o applied on top.
func (c Config) Merge(o Config) Config {
	mergePtr(&c.Palette.RowHeight, o.Palette.RowHeight)
	mergePtr(&c.Palette.ShowTags, o.Palette.ShowTags)
	mergePtr(&c.Palette.Width, o.Palette.Width)
	mergePtr(&c.Palette.MaxRows, o.Palette.MaxRows)
	mergePtr(&c.Search.MatchCategories, o.Search.MatchCategories)
	mergePtr(&c.Search.Expressions, o.Search.Expressions)
	if o.Log.Level != "" {
		c.Log.Level = o.Log.Level
	}
	mergeColor(&c.Theme.Accent, o.Theme.Accent)
	mergeColor(&c.Theme.Muted, o.Theme.Muted)
	mergeColor(&c.Theme.Highlight, o.Theme.Highlight)
	mergeColor(&c.Theme.SelectedFG, o.Theme.SelectedFG)
	mergeColor(&c.Theme.SelectedBG, o.Theme.SelectedBG)
	mergeColor(&c.Theme.TagFG, o.Theme.TagFG)
	mergeColor(&c.Theme.TagBG, o.Theme.TagBG)
	mergeColor(&c.Theme.Error, o.Theme.Error)
	mergeColor(&c.Theme.Disabled, o.Theme.Disabled)
	return c
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeColor(dst *ColorValue, src ColorValue) {
	if src != "" {
		*dst = src
	}
}

// Normalize clamps values into their valid ranges.
func (c Config) Normalize() Config {
	h := ClampRowHeight(c.RowHeight())
	c.Palette.RowHeight = &h
	if c.Palette.Width != nil && *c.Palette.Width < 0 {
		zero := 0
		c.Palette.Width = &zero
	}
	if c.Palette.MaxRows != nil && *c.Palette.MaxRows < 0 {
		zero := 0
		c.Palette.MaxRows = &zero
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "error":
		c.Log.Level = strings.ToLower(c.Log.Level)
	default:
		c.Log.Level = "error"
	}
	return c
}

// ClampRowHeight limits h to 25..50 and rounds it to the nearest multiple of 5.
func ClampRowHeight(h int) int {
	h = (h + RowHeightStep/2) / RowHeightStep * RowHeightStep
	return min(max(h, MinRowHeight), MaxRowHeight)
}

// RowHeight returns the row height; unset reads as the minimum.
func (c Config) RowHeight() int {
	if c.Palette.RowHeight == nil {
		return MinRowHeight
	}
	return *c.Palette.RowHeight
}

// ShowDescriptions reports whether rows are tall enough for descriptions.
func (c Config) ShowDescriptions() bool {
	return c.RowHeight() > DescriptionRowHeight
}

// ShowTags reports whether tag chips are shown.
func (c Config) ShowTags() bool {
	return c.Palette.ShowTags == nil || *c.Palette.ShowTags
}

// Width returns the palette width in columns; 0 means the terminal width.
func (c Config) Width() int {
	if c.Palette.Width == nil {
		return 0
	}
	return *c.Palette.Width
}

// MaxRows returns the visible row limit; 0 means fit the terminal.
func (c Config) MaxRows() int {
	if c.Palette.MaxRows == nil {
		return 0
	}
	return *c.Palette.MaxRows
}

// MatchCategories reports whether search matches ancestor categories.
func (c Config) MatchCategories() bool {
	return c.Search.MatchCategories != nil && *c.Search.MatchCategories
}

// Expressions reports whether ":" expression queries are enabled.
func (c Config) Expressions() bool {
	return c.Search.Expressions != nil && *c.Search.Expressions
}

// LogLevel maps the configured level to a zap level.
func (c Config) LogLevel() int8 {
	switch c.Log.Level {
	case "debug":
		return -1
	case "info":
		return 0
	default:
		return 2
	}
}

// Marshal encodes the configuration as yaml, json or toml.
func (c Config) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", "yaml", "yml":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "json":
		out, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "toml":
		return toml.Marshal(c)
	}
	return nil, fmt.Errorf("unsupported output format %q", format)
}
