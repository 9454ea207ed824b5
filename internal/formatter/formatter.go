// Package formatter renders palette entries for the non-interactive commands:
// tables, structured encodings, trees, diagrams and reference docs.
package formatter

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/search"
	"github.com/oakwood-commons/cmdpal/internal/tree"
)

// Format names an output format.
type Format string

const (
	Table    Format = "table"
	YAML     Format = "yaml"
	JSON     Format = "json"
	TOML     Format = "toml"
	Tree     Format = "tree"
	Mermaid  Format = "mermaid"
	Markdown Format = "markdown"
	HTML     Format = "html"
)

// ValidFormats lists every format accepted by ParseFormat.
var ValidFormats = []Format{
	Table, YAML, JSON, TOML,
	Tree, Mermaid, Markdown, HTML,
}

// ParseFormat parses a format name (case-insensitive). "yml" and "md" are
// accepted as aliases; the empty string is a table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Table, nil
	case "yml":
		return YAML, nil
	case "md":
		return Markdown, nil
	default:
		for _, v := range ValidFormats {
			if f == v {
				return f, nil
			}
		}
	}
	names := make([]string, len(ValidFormats))
	for i, v := range ValidFormats {
		names[i] = string(v)
	}
	return "", fmt.Errorf("invalid output format %q: valid values are %s", s, strings.Join(names, ", "))
}

// Entry is a palette leaf flattened for output.
type Entry struct {
	Path        string   `yaml:"path" json:"path" toml:"path"`
	Kind        string   `yaml:"kind" json:"kind" toml:"kind"`
	Validation  string   `yaml:"validation,omitempty" json:"validation,omitempty" toml:"validation,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty" toml:"description,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty" toml:"tags,omitempty"`
	Eligible    bool     `yaml:"eligible" json:"eligible" toml:"eligible"`
}

// Label returns the last segment of the entry's path.
func (e Entry) Label() string {
	if i := strings.LastIndex(e.Path, tree.Separator); i >= 0 {
		return e.Path[i+1:]
	}
	return e.Path
}

// Category returns the entry's path without its label.
func (e Entry) Category() string {
	if i := strings.LastIndex(e.Path, tree.Separator); i >= 0 {
		return e.Path[:i]
	}
	return ""
}

// Entries flattens the nodes ids of t. eligible may be nil, in which case
// every entry is eligible.
func Entries(t *catalog.Tree, ids []tree.NodeID, eligible func(tree.NodeID) bool) []Entry {
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		f := search.Fields(t, id)
		tags, _ := f["tags"].([]string)
		e := Entry{
			Path:        f["path"].(string),
			Kind:        f["kind"].(string),
			Validation:  f["validation"].(string),
			Description: f["description"].(string),
			Tags:        append([]string(nil), tags...),
			Eligible:    eligible == nil || eligible(id),
		}
		out = append(out, e)
	}
	return out
}

// Options tune rendering.
type Options struct {
	// NoColor disables styling in table output.
	NoColor bool
	// Width is the table width; 0 uses the terminal width.
	Width int
	// Title heads markdown and HTML documents.
	Title string
}

// Render formats entries as f.
func Render(entries []Entry, f Format, opts Options) (string, error) {
	switch f {
	case Table:
		return RenderTable(entries, TableOptions{NoColor: opts.NoColor, Width: opts.Width}), nil
	case YAML:
		return FormatYAML(entries, YAMLFormatOptions{LiteralBlockStrings: true})
	case JSON:
		return FormatJSON(entries)
	case TOML:
		return FormatTOML(entries)
	case Tree:
		return FormatAsTree(entries, TreeOptions{}), nil
	case Mermaid:
		return FormatAsMermaid(entries, MermaidOptions{}), nil
	case Markdown:
		return FormatMarkdown(entries, opts.Title), nil
	case HTML:
		return FormatHTMLDoc(entries, opts.Title), nil
	}
	return "", fmt.Errorf("unsupported output format %q", f)
}
