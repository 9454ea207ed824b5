package formatter

import (
	"image/color"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	sepWidth         = 2
	maxTagsWidth     = 24
	minDescWidth     = 10
	defaultTermWidth = 120
)

var tableColumns = []string{"PATH", "KIND", "READY", "TAGS", "DESCRIPTION"}

// TableColors controls the rendered colors of the table. Nil fields fall back
// to ANSI 256 defaults.
type TableColors struct {
	HeaderFG  color.Color
	HeaderBG  color.Color
	Separator color.Color
	Disabled  color.Color
}

// TableOptions configures RenderTable.
type TableOptions struct {
	NoColor bool
	// Width is the total width; 0 uses the terminal width.
	Width  int
	Colors TableColors
}

type tableStyles struct {
	header    lipgloss.Style
	separator lipgloss.Style
	disabled  lipgloss.Style
}

func newTableStyles(tc TableColors) tableStyles {
	pick := func(c color.Color, def string) color.Color {
		if c == nil {
			return lipgloss.Color(def)
		}
		return c
	}
	return tableStyles{
		header:    lipgloss.NewStyle().Bold(true).Foreground(pick(tc.HeaderFG, "12")).Background(pick(tc.HeaderBG, "236")),
		separator: lipgloss.NewStyle().Foreground(pick(tc.Separator, "240")),
		disabled:  lipgloss.NewStyle().Foreground(pick(tc.Disabled, "240")),
	}
}

// getTerminalWidth returns the width of stdout, or a default when it is not
// a terminal.
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}

func tableRow(e Entry) []string {
	kind := e.Kind
	if e.Validation != "" {
		kind += "/" + e.Validation
	}
	ready := "yes"
	if !e.Eligible {
		ready = "no"
	}
	return []string{e.Path, kind, ready, strings.Join(e.Tags, ","), e.Description}
}

// RenderTable renders entries as a column-aligned table. The description
// column absorbs whatever width the other columns leave.
func RenderTable(entries []Entry, opts TableOptions) string {
	if len(entries) == 0 {
		return ""
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = tableRow(e)
	}

	total := opts.Width
	if total <= 0 {
		total = getTerminalWidth()
	}
	widths := columnWidths(rows, total)
	styles := newTableStyles(opts.Colors)

	var b strings.Builder
	header := joinCells(tableColumns, widths)
	sep := strings.Repeat("─", runewidth.StringWidth(header))
	if !opts.NoColor {
		header = styles.header.Render(header)
		sep = styles.separator.Render(sep)
	}
	b.WriteString(header + "\n")
	b.WriteString(sep + "\n")
	for i, row := range rows {
		line := joinCells(row, widths)
		if !opts.NoColor && !entries[i].Eligible {
			line = styles.disabled.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func columnWidths(rows [][]string, total int) []int {
	widths := make([]int, len(tableColumns))
	for i, h := range tableColumns {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	tags := len(tableColumns) - 2
	widths[tags] = min(widths[tags], maxTagsWidth)

	desc := len(tableColumns) - 1
	used := sepWidth * (len(tableColumns) - 1)
	for i := range desc {
		used += widths[i]
	}
	widths[desc] = min(widths[desc], max(minDescWidth, total-used))
	return widths
}

func joinCells(cells []string, widths []int) string {
	parts := make([]string, len(cells))
	last := len(cells) - 1
	for i, c := range cells {
		c = runewidth.Truncate(c, widths[i], "…")
		if i < last {
			c = runewidth.FillRight(c, widths[i])
		}
		parts[i] = c
	}
	return strings.Join(parts, strings.Repeat(" ", sepWidth))
}
