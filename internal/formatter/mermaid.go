package formatter

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/tree"
)

// MermaidOptions controls Mermaid diagram output formatting.
type MermaidOptions struct {
	// Direction sets the diagram direction: TD, LR, BT or RL. Default is LR.
	Direction string
}

type mermaidBuilder struct {
	lines  []string
	nodeID int
	ids    map[string]string
}

// FormatAsMermaid renders entries as a Mermaid flowchart. Categories are
// rounded nodes, leaves are boxes, and ineligible leaves are dashed.
func FormatAsMermaid(entries []Entry, opts MermaidOptions) string {
	dir := opts.Direction
	if dir == "" {
		dir = "LR"
	}
	b := &mermaidBuilder{
		lines: []string{"graph " + dir},
		ids:   map[string]string{},
	}
	root := b.nextID()
	b.ids[""] = root
	b.lines = append(b.lines, fmt.Sprintf("    %s([%q])", root, escapeLabel(catalog.RootLabel)))

	var dashed []string
	for _, e := range entries {
		segments := tree.SplitPath(e.Path)
		if len(segments) == 0 {
			continue
		}
		parent := root
		prefix := ""
		for _, seg := range segments[:len(segments)-1] {
			prefix += tree.Separator + seg
			id, ok := b.ids[prefix]
			if !ok {
				id = b.nextID()
				b.ids[prefix] = id
				b.lines = append(b.lines, fmt.Sprintf("    %s([%q])", id, escapeLabel(seg)))
				b.addEdge(parent, id)
			}
			parent = id
		}
		leaf := b.nextID()
		b.lines = append(b.lines, fmt.Sprintf("    %s[%q]", leaf, escapeLabel(e.Label())))
		b.addEdge(parent, leaf)
		if !e.Eligible {
			dashed = append(dashed, leaf)
		}
	}
	if len(dashed) > 0 {
		b.lines = append(b.lines,
			"    classDef unavailable stroke-dasharray: 5 5",
			"    class "+strings.Join(dashed, ",")+" unavailable",
		)
	}
	return strings.Join(b.lines, "\n") + "\n"
}

func (b *mermaidBuilder) nextID() string {
	id := fmt.Sprintf("n%d", b.nodeID)
	b.nodeID++
	return id
}

func (b *mermaidBuilder) addEdge(fromID, toID string) {
	b.lines = append(b.lines, fmt.Sprintf("    %s --> %s", fromID, toID))
}

// escapeLabel makes s safe inside a quoted Mermaid label.
func escapeLabel(s string) string {
	s = strings.ReplaceAll(s, `"`, `'`)
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", "")
}
