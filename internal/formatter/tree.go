package formatter

import (
	"strings"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/tree"
)

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// NoDescriptions shows labels only.
	NoDescriptions bool
	// MaxStringLen truncates descriptions; 0 or negative = no truncation.
	MaxStringLen int
}

// FormatAsTree renders entries as an ASCII tree rooted at catalog.RootLabel.
// Categories become branches in first-seen order; leaves show their
// description and tags inline.
func FormatAsTree(entries []Entry, opts TreeOptions) string {
	root := treeprint.NewWithRoot(catalog.RootLabel)
	branches := map[string]treeprint.Tree{"": root}

	for _, e := range entries {
		segments := tree.SplitPath(e.Path)
		if len(segments) == 0 {
			continue
		}
		parent := root
		prefix := ""
		for _, seg := range segments[:len(segments)-1] {
			prefix += tree.Separator + seg
			b, ok := branches[prefix]
			if !ok {
				b = parent.AddBranch(seg)
				branches[prefix] = b
			}
			parent = b
		}
		parent.AddNode(leafLabel(e, opts))
	}
	return root.String()
}

func leafLabel(e Entry, opts TreeOptions) string {
	label := e.Label()
	if !e.Eligible {
		label += " (unavailable)"
	}
	if len(e.Tags) > 0 {
		label += " [" + strings.Join(e.Tags, ", ") + "]"
	}
	if opts.NoDescriptions || e.Description == "" {
		return label
	}
	return label + ": " + truncate(e.Description, opts.MaxStringLen)
}

// truncate shortens s to maxLen runes with a trailing "...".
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(r[:maxLen-3]) + "..."
}
