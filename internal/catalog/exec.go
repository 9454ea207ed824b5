package catalog

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Runner produces handlers for catalog file commands. Commands with an Exec
// argv run it as a subprocess; commands without one print the invocation.
type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Dir    string
}

// Handler returns the handler for c.
func (r Runner) Handler(c FileCommand) Handler {
	argv := append([]string(nil), c.Exec...)
	name := c.Name
	return func(ctx context.Context, arg Argument) error {
		extra := ArgumentStrings(arg)
		if len(argv) == 0 {
			if r.Stdout == nil {
				return nil
			}
			line := name
			if len(extra) > 0 {
				line += " " + strings.Join(extra, " ")
			}
			_, err := fmt.Fprintln(r.Stdout, line)
			return err
		}
		cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], extra...)...) //nolint:gosec // argv comes from the user's own catalog
		cmd.Dir = r.Dir
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("run %s: %w", argv[0], err)
		}
		return nil
	}
}

// ArgumentStrings flattens an argument into command-line words: the query
// text, then the path (or name) of every object.
func ArgumentStrings(arg Argument) []string {
	var out []string
	if arg.Text != "" {
		out = append(out, arg.Text)
	}
	for _, o := range arg.Objects {
		if o.Path != "" {
			out = append(out, o.Path)
			continue
		}
		out = append(out, o.Name)
	}
	return out
}
