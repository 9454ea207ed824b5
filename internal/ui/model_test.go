package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/cmdpal/internal/builtins"
	"github.com/oakwood-commons/cmdpal/internal/catalog"
	"github.com/oakwood-commons/cmdpal/internal/config"
	"github.com/oakwood-commons/cmdpal/internal/dispatch"
	"github.com/oakwood-commons/cmdpal/internal/nav"
	"github.com/oakwood-commons/cmdpal/internal/selection"
	"github.com/oakwood-commons/cmdpal/pkg/palette"
)

type fixture struct {
	m     *Model
	out   *bytes.Buffer
	host  *builtins.Host
	store *selection.Store
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	var out bytes.Buffer
	store := selection.NewStore()
	host := builtins.NewHost(&out, store)
	s, err := palette.New(cfg, store, host.Descriptors())
	require.NoError(t, err)
	opts = append([]Option{WithNoColor(true), WithSize(80, 30)}, opts...)
	return &fixture{m: New(s.Controller, cfg, opts...), out: &out, host: host, store: store}
}

func press(m *Model, msgs ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeKeys(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestInitialRender(t *testing.T) {
	f := newFixture(t)
	out := f.m.Render()
	lines := strings.Split(out, "\n")
	assert.Equal(t, "Home", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "> "))
	assert.Equal(t, strings.Repeat("─", 80), lines[2])
	assert.Equal(t, "▸ Editor ›", lines[3])
	assert.Contains(t, out, "  Save Scene")
	assert.Contains(t, out, "    Save the current scene.", "descriptions show above 30")
	assert.Contains(t, lines[len(lines)-1], "1/3")
	assert.NotContains(t, out, "\x1b[")
}

func TestTypingSearchesAndHighlights(t *testing.T) {
	f := newFixture(t, WithNoColor(false))
	typeKeys(f.m, "EAP")
	assert.Equal(t, "EAP", f.m.input.Value())
	assert.Equal(t, "EAP", f.m.ctrl.Query())
	assert.Equal(t, nav.InSearchResults, f.m.ctrl.State())

	f.m.NoColor = true
	out := f.m.Render()
	assert.Contains(t, out, "Home (alt+0) › #Search (1)")
	assert.Contains(t, out, "▸ Play  Editor [EAP]")
}

func TestEnterExecutesAndQuits(t *testing.T) {
	f := newFixture(t)
	typeKeys(f.m, "play")
	cmd := press(f.m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, f.m.ctrl.Closed())
	outcome, _ := f.m.ctrl.Outcome()
	assert.Equal(t, dispatch.OutcomeInvoked, outcome)
	assert.Equal(t, "editor playing\n", f.out.String())
	state, _ := f.host.State()
	assert.Equal(t, builtins.Playing, state)
}

func TestBackspaceEditsQueryThenNavigates(t *testing.T) {
	f := newFixture(t)
	press(f.m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.Equal(t, nav.InSubtree, f.m.ctrl.State())
	assert.Equal(t, "Home › Editor", strings.Split(f.m.Render(), "\n")[0])

	typeKeys(f.m, "st")
	require.Equal(t, nav.InSearchResults, f.m.ctrl.State())
	press(f.m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	assert.Equal(t, "s", f.m.input.Value())
	press(f.m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	assert.Equal(t, "", f.m.input.Value())
	assert.Equal(t, nav.InSubtree, f.m.ctrl.State(), "blank query restores the level")

	press(f.m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	assert.Equal(t, nav.AtRoot, f.m.ctrl.State())
}

func TestArrowKeysMoveSelection(t *testing.T) {
	f := newFixture(t)
	press(f.m, tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, f.m.ctrl.SelectedIndex())
	press(f.m, tea.KeyPressMsg{Code: tea.KeyUp}, tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, 2, f.m.ctrl.SelectedIndex(), "wraps around")
}

func TestEscapeCloses(t *testing.T) {
	f := newFixture(t)
	cmd := press(f.m, tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.True(t, f.m.ctrl.Closed())
	_, id := f.m.ctrl.Outcome()
	assert.Equal(t, -1, int(id))

	g := newFixture(t)
	press(g.m, tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	assert.True(t, g.m.ctrl.Closed())
}

func TestRowHeightAdjustment(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 35, f.m.RowHeight())

	press(f.m, tea.KeyPressMsg{Code: tea.KeyDown, Mod: tea.ModCtrl})
	assert.Equal(t, 30, f.m.RowHeight())
	assert.NotContains(t, f.m.Render(), "Save the current scene.")

	for range 10 {
		press(f.m, tea.KeyPressMsg{Code: tea.KeyUp, Mod: tea.ModCtrl})
	}
	assert.Equal(t, config.MaxRowHeight, f.m.RowHeight())
	assert.Contains(t, f.m.Render(), "Save the current scene.")
}

func TestCapacityFollowsWindow(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 12, f.m.ctrl.Capacity(), "max_rows caps a tall window")

	f.m.Update(tea.WindowSizeMsg{Width: 60, Height: 10})
	assert.Equal(t, 3, f.m.ctrl.Capacity(), "two lines per row with descriptions")

	press(f.m, tea.KeyPressMsg{Code: tea.KeyDown, Mod: tea.ModCtrl})
	assert.Equal(t, 6, f.m.ctrl.Capacity())
	assert.Equal(t, strings.Repeat("─", 60), strings.Split(f.m.Render(), "\n")[2])
}

func TestToggleTags(t *testing.T) {
	f := newFixture(t)
	typeKeys(f.m, "EAP")
	assert.Contains(t, f.m.Render(), "[EAP]")
	require.Equal(t, 1, f.m.Controller().Current().Count())

	press(f.m, tea.KeyPressMsg{Code: 'g', Mod: tea.ModCtrl})
	assert.False(t, f.m.ShowTags())
	assert.NotContains(t, f.m.Render(), "[EAP]")
	assert.Equal(t, 0, f.m.Controller().Current().Count(), "hidden tags are not matched")
	assert.Contains(t, f.m.Render(), "#Search (0)")

	press(f.m, tea.KeyPressMsg{Code: 'g', Mod: tea.ModCtrl})
	assert.True(t, f.m.ShowTags())
	assert.Equal(t, 1, f.m.Controller().Current().Count())
}

func TestBackspaceErasesBlankQuery(t *testing.T) {
	f := newFixture(t)
	press(f.m, tea.KeyPressMsg{Code: tea.KeyRight})
	require.Equal(t, "Editor", f.m.Controller().Current().Label)

	typeKeys(f.m, "  ")
	require.Equal(t, "  ", f.m.input.Value())
	press(f.m, tea.KeyPressMsg{Code: tea.KeyBackspace}, tea.KeyPressMsg{Code: tea.KeyBackspace})
	assert.Equal(t, "", f.m.input.Value())
	assert.Equal(t, "Editor", f.m.Controller().Current().Label, "blank query edits do not navigate")

	press(f.m, tea.KeyPressMsg{Code: tea.KeyBackspace})
	assert.Equal(t, nav.AtRoot, f.m.Controller().State())
}

func TestTabCyclesTags(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	noop := func(context.Context, catalog.Argument) error { return nil }
	s, err := palette.New(cfg, nil, []catalog.Descriptor{
		{Name: "Multi", Tags: []string{"AA", "BB"}, Handler: noop},
	})
	require.NoError(t, err)
	m := New(s.Controller, cfg, WithNoColor(true))

	press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, "AA", m.input.Value())
	press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, "BB", m.input.Value())
	press(m, tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, "AA", m.input.Value())
}

func TestBreadcrumbJumpAndHome(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)
	noop := func(context.Context, catalog.Argument) error { return nil }
	s, err := palette.New(cfg, nil, []catalog.Descriptor{
		{Name: "Deep", Category: "A/B/C", Handler: noop},
	})
	require.NoError(t, err)
	m := New(s.Controller, cfg, WithNoColor(true))

	press(m, tea.KeyPressMsg{Code: tea.KeyEnter}, tea.KeyPressMsg{Code: tea.KeyEnter}, tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Equal(t, "Home › A › B › C", strings.Split(m.Render(), "\n")[0])

	press(m, tea.KeyPressMsg{Code: '2', Mod: tea.ModAlt})
	assert.Equal(t, "A", m.ctrl.Current().Label)

	typeKeys(m, "deep")
	require.True(t, m.ctrl.InSearch())
	press(m, tea.KeyPressMsg{Code: '0', Mod: tea.ModAlt})
	assert.Equal(t, nav.AtRoot, m.ctrl.State())
	assert.Equal(t, "", m.input.Value(), "home clears the query field")
}

func TestExpressionErrorShown(t *testing.T) {
	f := newFixture(t)
	typeKeys(f.m, ":_.label ==")
	out := f.m.Render()
	assert.Contains(t, out, "(no matches)")
	lines := strings.Split(out, "\n")
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "error: search expression"))
}

func TestIneligibleRowRendered(t *testing.T) {
	f := newFixture(t)
	press(f.m, tea.KeyPressMsg{Code: tea.KeyDown}, tea.KeyPressMsg{Code: tea.KeyDown})
	press(f.m, tea.KeyPressMsg{Code: tea.KeyEnter})
	require.Equal(t, "Selection", f.m.ctrl.Current().Label)
	out := f.m.Render()
	assert.Contains(t, out, "Focus Entity", "ineligible rows stay listed while browsing")

	typeKeys(f.m, "focus")
	assert.Contains(t, f.m.Render(), "(no matches)", "search hides them")
}

func TestViewUsesAltScreen(t *testing.T) {
	f := newFixture(t)
	v := f.m.View()
	assert.True(t, v.AltScreen)
	assert.NotNil(t, f.m.Init())
}

func TestNoColorOffStyles(t *testing.T) {
	f := newFixture(t, WithNoColor(false))
	assert.Contains(t, f.m.Render(), "\x1b[")
}
