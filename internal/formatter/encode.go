package formatter

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// YAMLFormatOptions control YAML rendering.
type YAMLFormatOptions struct {
	Indent int
	// LiteralBlockStrings emits multi-line strings as "|" blocks.
	LiteralBlockStrings bool
}

// FormatYAML renders v as YAML.
func FormatYAML(v any, opts YAMLFormatOptions) (string, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return "", err
	}
	if opts.LiteralBlockStrings {
		applyLiteralStyle(&node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(&node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func applyLiteralStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		applyLiteralStyle(c)
	}
}

// FormatJSON renders v as indented JSON with a trailing newline.
func FormatJSON(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

// FormatTOML renders entries as an array of [[entries]] tables. TOML has no
// top-level arrays, so the list is wrapped.
func FormatTOML(entries []Entry) (string, error) {
	doc := struct {
		Entries []Entry `toml:"entries"`
	}{Entries: entries}
	data, err := toml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
