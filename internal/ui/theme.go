package ui

import (
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/cmdpal/internal/config"
)

// Theme holds the styles of the palette.
type Theme struct {
	Breadcrumb lipgloss.Style
	Current    lipgloss.Style
	Affordance lipgloss.Style
	Prompt     lipgloss.Style
	Separator  lipgloss.Style
	Selected   lipgloss.Style
	Label      lipgloss.Style
	Category   lipgloss.Style
	Desc       lipgloss.Style
	Match      lipgloss.Style
	Tag        lipgloss.Style
	Disabled   lipgloss.Style
	Status     lipgloss.Style
	Error      lipgloss.Style
}

// fallback colors for tokens left empty in the config
const (
	defaultAccent     = "81"
	defaultMuted      = "245"
	defaultHighlight  = "214"
	defaultSelectedFG = "255"
	defaultSelectedBG = "24"
	defaultTagFG      = "236"
	defaultTagBG      = "109"
	defaultError      = "203"
	defaultDisabled   = "240"
)

func colorOf(v config.ColorValue, def string) color.Color {
	s := strings.TrimSpace(string(v))
	if s == "" {
		s = def
	}
	return lipgloss.Color(s)
}

// NewTheme builds the styles from the configured colors.
func NewTheme(tc config.ThemeConfig) Theme {
	accent := colorOf(tc.Accent, defaultAccent)
	muted := colorOf(tc.Muted, defaultMuted)
	return Theme{
		Breadcrumb: lipgloss.NewStyle().Foreground(muted),
		Current:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		Affordance: lipgloss.NewStyle().Foreground(accent).Underline(true),
		Prompt:     lipgloss.NewStyle().Foreground(accent).Bold(true),
		Separator:  lipgloss.NewStyle().Foreground(muted),
		Selected: lipgloss.NewStyle().
			Foreground(colorOf(tc.SelectedFG, defaultSelectedFG)).
			Background(colorOf(tc.SelectedBG, defaultSelectedBG)),
		Label:    lipgloss.NewStyle(),
		Category: lipgloss.NewStyle().Foreground(accent),
		Desc:     lipgloss.NewStyle().Foreground(muted),
		Match:    lipgloss.NewStyle().Foreground(colorOf(tc.Highlight, defaultHighlight)).Bold(true),
		Tag: lipgloss.NewStyle().
			Foreground(colorOf(tc.TagFG, defaultTagFG)).
			Background(colorOf(tc.TagBG, defaultTagBG)),
		Disabled: lipgloss.NewStyle().Foreground(colorOf(tc.Disabled, defaultDisabled)),
		Status:   lipgloss.NewStyle().Foreground(muted),
		Error:    lipgloss.NewStyle().Foreground(colorOf(tc.Error, defaultError)),
	}
}
