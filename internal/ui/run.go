package ui

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// Run starts the palette program and blocks until the palette closes. The
// controller records what, if anything, was executed.
func Run(m *Model, opts ...tea.ProgramOption) error {
	prog := tea.NewProgram(m, opts...)
	_, err := prog.Run()
	return err
}

// IsTerminal reports whether stdin and stdout are both terminals.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// TerminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func TerminalSize() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultWidth, 24
	}
	return w, h
}
