package config

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the palette configuration. Every leaf is a pointer so a user file
// only overrides the keys it sets.
type Config struct {
	Palette PaletteConfig `yaml:"palette" json:"palette" toml:"palette"`
	Search  SearchConfig  `yaml:"search" json:"search" toml:"search"`
	Log     LogConfig     `yaml:"log" json:"log" toml:"log"`
	Theme   ThemeConfig   `yaml:"theme" json:"theme" toml:"theme"`
}

// PaletteConfig controls the list.
type PaletteConfig struct {
	RowHeight *int  `yaml:"row_height,omitempty" json:"row_height,omitempty" toml:"row_height,omitempty"`
	ShowTags  *bool `yaml:"show_tags,omitempty" json:"show_tags,omitempty" toml:"show_tags,omitempty"`
	Width     *int  `yaml:"width,omitempty" json:"width,omitempty" toml:"width,omitempty"`
	MaxRows   *int  `yaml:"max_rows,omitempty" json:"max_rows,omitempty" toml:"max_rows,omitempty"`
}

// SearchConfig controls the filter engine.
type SearchConfig struct {
	MatchCategories *bool `yaml:"match_categories,omitempty" json:"match_categories,omitempty" toml:"match_categories,omitempty"`
	Expressions     *bool `yaml:"expressions,omitempty" json:"expressions,omitempty" toml:"expressions,omitempty"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level,omitempty" json:"level,omitempty" toml:"level,omitempty"`
}

// ThemeConfig holds the palette colors as terminal color tokens (ANSI numbers,
// names or hex).
type ThemeConfig struct {
	Accent     ColorValue `yaml:"accent,omitempty" json:"accent,omitempty" toml:"accent,omitempty"`
	Muted      ColorValue `yaml:"muted,omitempty" json:"muted,omitempty" toml:"muted,omitempty"`
	Highlight  ColorValue `yaml:"highlight,omitempty" json:"highlight,omitempty" toml:"highlight,omitempty"`
	SelectedFG ColorValue `yaml:"selected_fg,omitempty" json:"selected_fg,omitempty" toml:"selected_fg,omitempty"`
	SelectedBG ColorValue `yaml:"selected_bg,omitempty" json:"selected_bg,omitempty" toml:"selected_bg,omitempty"`
	TagFG      ColorValue `yaml:"tag_fg,omitempty" json:"tag_fg,omitempty" toml:"tag_fg,omitempty"`
	TagBG      ColorValue `yaml:"tag_bg,omitempty" json:"tag_bg,omitempty" toml:"tag_bg,omitempty"`
	Error      ColorValue `yaml:"error,omitempty" json:"error,omitempty" toml:"error,omitempty"`
	Disabled   ColorValue `yaml:"disabled,omitempty" json:"disabled,omitempty" toml:"disabled,omitempty"`
}

// ColorValue stores a color token and marshals numeric tokens as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}
