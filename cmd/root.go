package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	rdebug "runtime/debug"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/cmdpal/internal/config"
	"github.com/oakwood-commons/cmdpal/internal/dispatch"
	"github.com/oakwood-commons/cmdpal/internal/nav"
	"github.com/oakwood-commons/cmdpal/internal/tree"
	"github.com/oakwood-commons/cmdpal/internal/ui"
	"github.com/oakwood-commons/cmdpal/pkg/logger"
	"github.com/oakwood-commons/cmdpal/pkg/settings"
)

var (
	configFile   string
	catalogPaths []string
	scenePath    string
	noBuiltins   bool
	noColor      bool
	debug        bool
	logFile      string
	selected     selectFlag

	renderSnapshot bool
	startKeys      []string
	snapshotWidth  int
	snapshotHeight int
)

var (
	rootCtx = context.Background()
	runCfg  config.Config
)

// errSkipped is returned when the chosen command cannot run against the
// current selection.
var errSkipped = errors.New("not available for the current selection")

// buildVersionData collects version and build information.
func buildVersionData() map[string]string {
	version := settings.VersionInformation.BuildVersion
	commit := settings.VersionInformation.Commit
	goVersion := runtime.Version()
	if info, ok := rdebug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 && commit == "unknown" {
				commit = s.Value[:7]
			}
		}
		if info.GoVersion != "" {
			goVersion = info.GoVersion
		}
	}
	return map[string]string{
		"Name":      settings.CliBinaryName,
		"Version":   version,
		"Commit":    commit,
		"GoVersion": goVersion,
		"BuildTime": settings.VersionInformation.BuildTime,
	}
}

// cliVersionString builds the version line for `version` and --version.
func cliVersionString() string {
	d := buildVersionData()
	return fmt.Sprintf("%s %s (commit %s, go %s)", d["Name"], d["Version"], d["Commit"], d["GoVersion"])
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print cmdpal version",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return err
	},
}

// setupRun loads the config and the logger for cmd and stores both, together
// with the parsed flags, in rootCtx.
func setupRun(cmd *cobra.Command) error {
	path, explicit := config.ResolvePath(configFile, os.Getenv)
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return err
	}
	runCfg = cfg

	run := settings.NewCliParams()
	run.MinLogLevel = cfg.LogLevel()
	if debug {
		run.MinLogLevel = -1
	}
	run.ConfigPath = path
	run.CatalogPaths = catalogPaths
	run.LogFile = logFile
	run.NoBuiltins = noBuiltins
	run.NoColor = noColor

	lgr, err := logger.Setup(logger.Options{
		Level:  run.MinLogLevel,
		Path:   run.LogFile,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	l := logger.WithValues(lgr, logger.CommandKey, cmd.Name())
	ctx := logger.WithLogger(context.Background(), l)
	rootCtx = settings.IntoContext(ctx, run)
	l.V(1).Info("config loaded", "path", path, "explicit", explicit)
	return nil
}

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [catalog...]",
	Short: "A searchable, hierarchical command palette",
	Long: `cmdpal opens a keyboard driven command palette in the terminal.

Commands come from the built-in editor commands and from catalog files
(.yaml, .toml or .json). Type to search labels, descriptions and tags, or
start the query with ':' to filter with a CEL expression over _.label,
_.path, _.category, _.description, _.tags, _.kind and _.validation.`,
	Example: "\n  cmdpal\n  cmdpal tools.yaml --select entity:Player\n  cmdpal --snapshot --press 'play<CR>'\n  cmdpal list Editor -o tree\n  cmdpal search ':\"EAP\" in _.tags' -o json\n",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setupRun(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPalette(cmd, args)
	},
}

// runPalette opens the palette. Without a terminal, or with --snapshot, the
// --press keys are applied and the final frame is printed instead.
func runPalette(cmd *cobra.Command, args []string) error {
	lgr := *logger.FromContext(rootCtx)

	// command feedback is held back until the alternate screen is gone
	var feedback bytes.Buffer
	paths := append(append([]string(nil), catalogPaths...), args...)
	b, err := newSessionBuilder(&feedback, paths)
	if err != nil {
		return err
	}
	sess, err := b.build(runCfg, lgr)
	if err != nil {
		return err
	}

	interactive := !renderSnapshot && ui.IsTerminal()
	w, h := resolveSize(interactive)
	m := ui.New(sess.Controller, runCfg,
		ui.WithNoColor(noColor || !interactive),
		ui.WithContext(rootCtx),
		ui.WithSize(w, h),
	)
	ui.ApplyKeys(m, startKeys)

	out := cmd.OutOrStdout()
	if !interactive {
		if !sess.Controller.Closed() {
			if _, err := fmt.Fprintln(out, m.Render()); err != nil {
				return err
			}
		}
	} else if !sess.Controller.Closed() {
		if err := ui.Run(m, tea.WithContext(rootCtx)); err != nil {
			return fmt.Errorf("run palette: %w", err)
		}
	}
	if _, err := io.Copy(out, &feedback); err != nil {
		return err
	}
	return paletteResult(sess.Controller)
}

// paletteResult turns what the closed palette did into the command's error.
// Closing without choosing anything is not an error.
func paletteResult(c *nav.Controller) error {
	outcome, id := c.Outcome()
	if id == tree.NoNode {
		return nil
	}
	path := c.Tree().Path(id)
	if err := c.Err(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if outcome == dispatch.OutcomeSkipped {
		return fmt.Errorf("%s: %w", path, errSkipped)
	}
	return nil
}

// resolveSize picks the palette size: flags first, then the terminal.
func resolveSize(interactive bool) (int, int) {
	w, h := snapshotWidth, snapshotHeight
	if interactive || w <= 0 || h <= 0 {
		tw, th := ui.TerminalSize()
		if w <= 0 {
			w = tw
		}
		if h <= 0 {
			h = th
		}
	}
	return w, h
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "path to a config file (yaml, toml or json)")
	pf.StringArrayVar(&catalogPaths, "catalog", nil, "catalog file to load (repeatable)")
	pf.StringVar(&scenePath, "scene", "", "file written by the Save Scene command")
	pf.BoolVar(&noBuiltins, "no-builtins", false, "leave out the built-in editor commands")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.BoolVar(&debug, "debug", false, "log at debug level")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr")
	pf.Var(&selected, "select", "select an object before opening, as kind:name (repeatable; the first is active)")

	rootCmd.Flags().BoolVar(&renderSnapshot, "snapshot", false, "render a single palette frame and exit; honors --width/--height")
	rootCmd.Flags().StringArrayVar(&startKeys, "press", nil, "simulate keys on startup. Use <Key> for special keys (e.g. <CR>, <Esc>, <Down>, <C-g>, <A-1>); literal text types normally")
	rootCmd.Flags().IntVar(&snapshotWidth, "width", 0, "palette width in columns for --snapshot")
	rootCmd.Flags().IntVar(&snapshotHeight, "height", 0, "palette height in rows for --snapshot")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
