package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/cmdpal/internal/dispatch"
	"github.com/oakwood-commons/cmdpal/internal/formatter"
	"github.com/oakwood-commons/cmdpal/internal/limiter"
	"github.com/oakwood-commons/cmdpal/pkg/logger"
	"github.com/oakwood-commons/cmdpal/pkg/palette"
)

var (
	output      string
	outputWidth int
	execText    string
	docsHTML    bool
	docsTitle   string
	limitCfg    limiter.Config
)

// openSession builds a palette session from the persistent flags.
func openSession(out io.Writer) (*palette.Session, error) {
	b, err := newSessionBuilder(out, catalogPaths)
	if err != nil {
		return nil, err
	}
	return b.build(runCfg, *logger.FromContext(rootCtx))
}

var listCmd = &cobra.Command{
	Use:   "list [path]",
	Short: "List the commands below a category",
	Long: `List prints every command below path, or the whole palette when path is
omitted. Paths are slash separated labels, e.g. "Editor" or "Tools/Git".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		ids, err := sess.Leaves(path)
		if err != nil {
			return err
		}
		return printEntries(cmd.OutOrStdout(), sess, ids, output, path)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the palette the way the query field does",
	Long: `Search matches labels, descriptions and tags of every available command.
A query starting with ':' is a CEL expression over _.label, _.path,
_.category, _.description, _.tags, _.kind and _.validation.`,
	Example: "  cmdpal search play\n  cmdpal search ':_.path.startsWith(\"Editor/\")' -o yaml\n",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		ids, searchErr := sess.Search(args[0])
		if len(ids) > 0 || searchErr == nil {
			if err := printEntries(cmd.OutOrStdout(), sess, ids, output, ""); err != nil {
				return err
			}
		}
		return searchErr
	},
}

var execCmd = &cobra.Command{
	Use:   "exec <path>",
	Short: "Run a command by path",
	Long: `Exec dispatches the command at path against the --select selection, the
same way pressing enter on it in the palette does. Objects listed in catalog
files are activated instead.`,
	Example: "  cmdpal exec Editor/Play\n  cmdpal exec Selection/Find --text cube --catalog scene.yaml\n",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		outcome, err := sess.Exec(rootCtx, args[0], execText)
		if err != nil {
			return err
		}
		lgr := logger.FromContext(rootCtx)
		lgr.V(1).Info("exec finished", "path", args[0], "outcome", outcome.String())
		switch outcome {
		case dispatch.OutcomeSkipped:
			return fmt.Errorf("%s: %w", args[0], errSkipped)
		case dispatch.OutcomeActivated:
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "activated %s\n", args[0])
		}
		return err
	},
}

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Print a reference of every command",
	Long:  "Docs prints a markdown reference of the palette, or a standalone HTML page with --html.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		sess, err := openSession(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		ids, err := sess.Leaves("")
		if err != nil {
			return err
		}
		f := formatter.Markdown
		if docsHTML {
			f = formatter.HTML
		}
		return printEntries(cmd.OutOrStdout(), sess, ids, string(f), docsTitle)
	},
}

func init() { //nolint:gochecknoinits
	outputUsage := fmt.Sprintf("output format: %v", formatter.ValidFormats)
	for _, c := range []*cobra.Command{listCmd, searchCmd} {
		c.Flags().StringVarP(&output, "output", "o", string(formatter.Table), outputUsage)
		c.Flags().IntVar(&outputWidth, "width", 0, "table width in columns (0 uses the terminal width)")
		c.Flags().IntVar(&limitCfg.Limit, "limit", 0, "show at most this many commands")
		c.Flags().IntVar(&limitCfg.Offset, "offset", 0, "skip the first N commands")
		c.Flags().IntVar(&limitCfg.Tail, "tail", 0, "show the last N commands (mutually exclusive with --limit; ignores --offset)")
	}
	execCmd.Flags().StringVar(&execText, "text", "", "argument text for commands that take a string")
	docsCmd.Flags().BoolVar(&docsHTML, "html", false, "render a standalone HTML page")
	docsCmd.Flags().StringVar(&docsTitle, "title", "", "document title")

	rootCmd.AddCommand(listCmd, searchCmd, execCmd, docsCmd)
}
