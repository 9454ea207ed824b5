// Package settings provides build metadata, per-run options, and context
// helpers shared by the cmdpal CLI and library packages.
package settings

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "cmdpal"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build.
type VersionInfo struct {
	Commit       string `json:"commit" yaml:"commit"`
	BuildVersion string `json:"version" yaml:"version"`
	BuildTime    string `json:"buildTime" yaml:"buildTime"`
}

// Run holds the options of a single invocation.
type Run struct {
	MinLogLevel int8
	// ConfigPath is the --config-file value; empty uses the default lookup.
	ConfigPath string
	// CatalogPaths are the catalog files given on the command line.
	CatalogPaths []string
	// LogFile redirects log output; empty logs to stderr.
	LogFile     string
	NoBuiltins  bool
	NoColor     bool
	ExitOnError bool
}

// NewCliParams returns the defaults for a CLI run.
func NewCliParams() *Run {
	return &Run{
		MinLogLevel: 0,
		ExitOnError: true,
	}
}
