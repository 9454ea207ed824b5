package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyKeys feeds scripted keypresses to m without a terminal. Tokens mix
// literal text with <...> key names, e.g. "pla<Down><CR>". A leading
// backslash makes the whole token literal. Processing stops once the palette
// closes.
func ApplyKeys(m *Model, tokens []string) {
	if m == nil {
		return
	}
	for _, raw := range tokens {
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, `\`) {
			typeText(m, strings.TrimPrefix(raw, `\`))
			continue
		}
		for _, seg := range parseTokenSegments(raw) {
			if m.ctrl.Closed() {
				return
			}
			if !seg.isKey {
				typeText(m, seg.text)
				continue
			}
			if msg, ok := keyMsgFromToken(seg.text); ok {
				m.Update(msg)
				continue
			}
			typeText(m, seg.text)
		}
	}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		if m.ctrl.Closed() {
			return
		}
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

type tokenSegment struct {
	text  string
	isKey bool
}

// parseTokenSegments splits "<Up>abc<CR>" into key and literal segments. An
// unclosed "<" is literal.
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token
	for remaining != "" {
		start := strings.Index(remaining, "<")
		if start == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if start > 0 {
			segments = append(segments, tokenSegment{text: remaining[:start]})
		}
		end := strings.Index(remaining[start:], ">")
		if end == -1 {
			segments = append(segments, tokenSegment{text: remaining[start:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[start : start+end+1], isKey: true})
		remaining = remaining[start+end+1:]
	}
	return segments
}

var namedKeys = map[string]rune{
	"esc":       tea.KeyEscape,
	"escape":    tea.KeyEscape,
	"cr":        tea.KeyEnter,
	"enter":     tea.KeyEnter,
	"return":    tea.KeyEnter,
	"tab":       tea.KeyTab,
	"bs":        tea.KeyBackspace,
	"backspace": tea.KeyBackspace,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pgup":      tea.KeyPgUp,
	"pageup":    tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
	"pagedown":  tea.KeyPgDown,
}

// keyMsgFromToken parses a Vim-like key token: <Esc>, <CR>, <Space>, <C-g>,
// <C-Up>, <A-1> and the names in namedKeys.
func keyMsgFromToken(token string) (tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return tea.KeyPressMsg{}, false
	}
	inner := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">"))

	var mod tea.KeyMod
	switch {
	case strings.HasPrefix(inner, "c-"):
		mod = tea.ModCtrl
		inner = inner[2:]
	case strings.HasPrefix(inner, "a-"), strings.HasPrefix(inner, "m-"):
		mod = tea.ModAlt
		inner = inner[2:]
	}

	if inner == "space" {
		return tea.KeyPressMsg{Code: ' ', Text: " ", Mod: mod}, true
	}
	if code, ok := namedKeys[inner]; ok {
		return tea.KeyPressMsg{Code: code, Mod: mod}, true
	}
	if r := []rune(inner); len(r) == 1 && mod != 0 {
		return tea.KeyPressMsg{Code: r[0], Mod: mod}, true
	}
	return tea.KeyPressMsg{}, false
}
