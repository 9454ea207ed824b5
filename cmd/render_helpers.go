package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/oakwood-commons/cmdpal/internal/formatter"
	"github.com/oakwood-commons/cmdpal/internal/limiter"
	"github.com/oakwood-commons/cmdpal/internal/tree"
	"github.com/oakwood-commons/cmdpal/pkg/palette"
)

// printEntries renders the leaves ids of sess in the --output format.
func printEntries(w io.Writer, sess *palette.Session, ids []tree.NodeID, format string, title string) error {
	f, err := formatter.ParseFormat(format)
	if err != nil {
		return err
	}
	if err := limitCfg.Validate(); err != nil {
		return err
	}
	entries := formatter.Entries(sess.Tree, limiter.Apply(limitCfg, ids), sess.Eligible)
	out, err := formatter.Render(entries, f, formatter.Options{
		NoColor: colorDisabled(),
		Width:   outputWidth,
		Title:   title,
	})
	if err != nil {
		return err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = fmt.Fprint(w, out)
	return err
}

// colorDisabled reports whether output must be plain: --no-color, NO_COLOR,
// or stdout not being a terminal.
func colorDisabled() bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !term.IsTerminal(int(os.Stdout.Fd()))
}
