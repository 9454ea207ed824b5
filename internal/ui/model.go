// Package ui is the terminal presentation of a palette session: a Bubble Tea
// model that renders the navigation controller's state and feeds it keys.
package ui

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/config"
	"github.com/oakwood-commons/cmdpal/internal/nav"
	"github.com/oakwood-commons/cmdpal/internal/search"
	"github.com/oakwood-commons/cmdpal/internal/tree"
)

const (
	// breadcrumbs, query, separator, status
	chromeLines  = 4
	defaultWidth = 80
	minInput     = 10
)

// Model renders a nav.Controller and routes keys to it. Keys the controller
// does not consume go to the query field.
type Model struct {
	ctrl  *nav.Controller
	input textinput.Model
	theme Theme
	ctx   context.Context

	NoColor bool

	rowHeight int
	showTags  bool
	maxRows   int
	maxWidth  int
	width     int
	height    int
}

// Option configures a Model.
type Option func(*Model)

// WithNoColor disables styling.
func WithNoColor(on bool) Option {
	return func(m *Model) { m.NoColor = on }
}

// WithContext sets the context handed to dispatched commands.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// WithSize sets the window size before the first WindowSizeMsg arrives.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// New returns a model over ctrl styled and sized by cfg.
func New(ctrl *nav.Controller, cfg config.Config, opts ...Option) *Model {
	ti := textinput.New()
	ti.Placeholder = "Search commands, or :expression"
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.SetWidth(defaultWidth)
	ti.Focus()

	m := &Model{
		ctrl:      ctrl,
		input:     ti,
		theme:     NewTheme(cfg.Theme),
		ctx:       context.Background(),
		rowHeight: cfg.RowHeight(),
		showTags:  cfg.ShowTags(),
		maxRows:   cfg.MaxRows(),
		maxWidth:  cfg.Width(),
	}
	for _, opt := range opts {
		opt(m)
	}
	ctrl.SetTagMatching(m.showTags)
	m.input.SetValue(ctrl.Query())
	m.layout()
	ctrl.FocusHandled()
	return m
}

// Controller returns the controller the model renders.
func (m *Model) Controller() *nav.Controller {
	return m.ctrl
}

// RowHeight returns the current row height.
func (m *Model) RowHeight() int {
	return m.rowHeight
}

// ShowTags reports whether tag chips are drawn.
func (m *Model) ShowTags() bool {
	return m.showTags
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	keyStr := msg.String()
	var cmds []tea.Cmd
	switch {
	case keyStr == "ctrl+c":
		m.ctrl.HandleKey(m.ctx, nav.KeyEscape)
	case keyStr == "ctrl+up":
		m.setRowHeight(m.rowHeight + config.RowHeightStep)
	case keyStr == "ctrl+down":
		m.setRowHeight(m.rowHeight - config.RowHeightStep)
	case keyStr == "ctrl+g":
		m.showTags = !m.showTags
		m.ctrl.SetTagMatching(m.showTags)
	case keyStr == "tab":
		m.cycleTag()
	case keyStr == "alt+0":
		m.ctrl.GoHome()
	case isAltDigit(keyStr):
		m.ctrl.JumpToAncestor(m.ctx, int(keyStr[len(keyStr)-1]-'1'))
	default:
		if k := nav.ParseKey(keyStr); k == nav.KeyNone || !m.ctrl.HandleKey(m.ctx, k) {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
			m.ctrl.SetQuery(m.input.Value())
		}
	}
	cmds = append(cmds, m.sync())
	if m.ctrl.Closed() {
		cmds = append(cmds, tea.Quit)
	}
	return tea.Batch(cmds...)
}

func isAltDigit(s string) bool {
	return len(s) == len("alt+1") && strings.HasPrefix(s, "alt+") && s[4] >= '1' && s[4] <= '9'
}

// sync mirrors controller state the query field depends on.
func (m *Model) sync() tea.Cmd {
	if q := m.ctrl.Query(); q != m.input.Value() {
		m.input.SetValue(q)
		m.input.CursorEnd()
	}
	if m.ctrl.NeedsFocus() {
		m.ctrl.FocusHandled()
		return m.input.Focus()
	}
	return nil
}

// cycleTag replaces the query with the next tag of the selected row.
func (m *Model) cycleTag() {
	tags := m.ctrl.Tree().Tags(m.ctrl.Selected())
	if len(tags) == 0 {
		return
	}
	next := 0
	for i, t := range tags {
		if strings.EqualFold(t, m.ctrl.Query()) {
			next = (i + 1) % len(tags)
			break
		}
	}
	m.ctrl.SetQuery(tags[next])
}

func (m *Model) setRowHeight(h int) {
	m.rowHeight = config.ClampRowHeight(h)
	m.layout()
}

func (m *Model) showDescriptions() bool {
	return m.rowHeight > config.DescriptionRowHeight
}

func (m *Model) linesPerRow() int {
	if m.showDescriptions() {
		return 2
	}
	return 1
}

func (m *Model) renderWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	if m.maxWidth > 0 {
		w = min(w, m.maxWidth)
	}
	return w
}

// layout sizes the list to the window and the configured row limit.
func (m *Model) layout() {
	rows := m.maxRows
	if rows <= 0 {
		rows = nav.DefaultCapacity
	}
	if m.height > 0 {
		rows = min(rows, (m.height-chromeLines)/m.linesPerRow())
	}
	m.ctrl.SetCapacity(max(1, rows))
	m.input.SetWidth(max(minInput, m.renderWidth()-2))
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	return v
}

// Render returns the palette as text.
func (m *Model) Render() string {
	width := m.renderWidth()
	lines := []string{
		ansi.Truncate(m.renderBreadcrumbs(), width, "…"),
		m.style(m.theme.Prompt, "> ") + m.input.View(),
		m.style(m.theme.Separator, strings.Repeat("─", width)),
	}
	lines = append(lines, m.renderRows(width)...)
	lines = append(lines, m.renderStatus(width))
	out := strings.Join(lines, "\n")
	if m.NoColor {
		out = ansi.Strip(out)
	}
	return out
}

func (m *Model) style(s lipgloss.Style, text string) string {
	if m.NoColor || text == "" {
		return text
	}
	return s.Render(text)
}

func (m *Model) renderBreadcrumbs() string {
	t := m.ctrl.Tree()
	sep := m.style(m.theme.Breadcrumb, " › ")
	cur := m.ctrl.Current()
	if m.ctrl.InSearch() {
		home := m.style(m.theme.Affordance, catalog.RootLabel) + m.style(m.theme.Breadcrumb, " (alt+0)")
		return home + sep + m.style(m.theme.Current, fmt.Sprintf("%s (%d)", cur.Label, cur.Count()))
	}
	if t.IsRoot(cur.Node) {
		return m.style(m.theme.Current, t.Label(cur.Node))
	}
	crumbs := m.ctrl.Breadcrumbs()
	parts := make([]string, 0, len(crumbs)+2)
	parts = append(parts, m.style(m.theme.Breadcrumb, t.Label(t.Root())))
	for i := len(crumbs) - 1; i >= 0; i-- {
		parts = append(parts, m.style(m.theme.Breadcrumb, t.Label(crumbs[i])))
	}
	parts = append(parts, m.style(m.theme.Current, cur.Label))
	return strings.Join(parts, sep)
}

func (m *Model) renderRows(width int) []string {
	ids := m.ctrl.Visible()
	if len(ids) == 0 {
		msg := "  (empty)"
		if m.ctrl.HasQuery() {
			msg = "  (no matches)"
		}
		return []string{m.style(m.theme.Desc, msg)}
	}
	out := make([]string, 0, len(ids)*m.linesPerRow())
	for i, id := range ids {
		selected := m.ctrl.Scroll()+i == m.ctrl.SelectedIndex()
		out = append(out, m.renderRow(id, selected, width)...)
	}
	return out
}

func (m *Model) renderRow(id tree.NodeID, selected bool, width int) []string {
	t := m.ctrl.Tree()
	eligible := m.ctrl.Eligible(id)

	prefix := "  "
	if selected {
		prefix = "▸ "
	}
	suffix := ""
	switch {
	case !t.IsLeaf(id):
		suffix = " ›"
	case m.ctrl.InSearch():
		if cat := t.Path(t.Parent(id)); cat != "" {
			suffix = "  " + cat
		}
	}
	var chips []string
	chipsWidth := 0
	if m.showTags {
		for _, tag := range t.Tags(id) {
			chip := "[" + tag + "]"
			chips = append(chips, chip)
			chipsWidth += runewidth.StringWidth(chip) + 1
		}
	}

	room := width - runewidth.StringWidth(prefix) - runewidth.StringWidth(suffix) - chipsWidth
	label := runewidth.Truncate(t.Label(id), max(1, room), "…")

	var line string
	switch {
	case selected && !m.NoColor:
		plain := prefix + label + suffix
		if len(chips) > 0 {
			plain += " " + strings.Join(chips, " ")
		}
		line = m.theme.Selected.Render(runewidth.FillRight(plain, width))
	case !eligible:
		line = prefix + m.style(m.theme.Disabled, label+suffix) + m.renderChips(chips, m.theme.Disabled)
	default:
		line = prefix + m.highlight(label, m.theme.Label) + m.style(m.theme.Category, suffix) + m.renderChips(chips, m.theme.Tag)
	}

	lines := []string{line}
	if desc := t.Description(id); desc != "" && m.showDescriptions() {
		desc = runewidth.Truncate(desc, max(1, width-4), "…")
		style := m.theme.Desc
		if !eligible {
			style = m.theme.Disabled
		}
		lines = append(lines, "    "+m.highlight(desc, style))
	}
	return lines
}

func (m *Model) renderChips(chips []string, style lipgloss.Style) string {
	var b strings.Builder
	for _, c := range chips {
		b.WriteString(" ")
		b.WriteString(m.highlight(c, style))
	}
	return b.String()
}

// highlight styles the occurrences of the query in text.
func (m *Model) highlight(text string, base lipgloss.Style) string {
	segs := search.Split(text, search.Highlights(text, m.ctrl.Query()))
	var b strings.Builder
	for i, s := range segs {
		if i%2 == 1 {
			b.WriteString(m.style(m.theme.Match, s))
			continue
		}
		b.WriteString(m.style(base, s))
	}
	return b.String()
}

func (m *Model) renderStatus(width int) string {
	if err := m.ctrl.Err(); err != nil {
		return m.style(m.theme.Error, ansi.Truncate("error: "+err.Error(), width, "…"))
	}
	pos := "0/0"
	if n := m.ctrl.Current().Count(); n > 0 {
		pos = fmt.Sprintf("%d/%d", m.ctrl.SelectedIndex()+1, n)
	}
	hint := "enter run · ← back · tab tag · ctrl+g tags · ctrl+↑↓ size · esc close"
	return m.style(m.theme.Status, ansi.Truncate(pos+"  "+hint, width, "…"))
}
