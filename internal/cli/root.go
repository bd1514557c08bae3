package cli

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/relscope/relscope/internal/config"
)

// CLI is the root command structure for relscope
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"text,json" help:"Output format for the run summary"`
	Quiet   bool   `short:"q" help:"Suppress the run summary (report files are still written)"`
	Verbose bool   `short:"v" help:"Show debug output (fetch attempts, AI request sizes, internal state)"`

	// Commands
	Report   ReportCmd   `cmd:"" default:"withargs" help:"Collect incidents and generate the reliability report"`
	Validate ValidateCmd `cmd:"" help:"Validate a run config file without fetching anything"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.Logger
}

// NewGlobals creates a new Globals instance from CLI flags
func NewGlobals(cli *CLI) *Globals {
	return NewGlobalsWithConfig(cli, config.Default())
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	g := &Globals{
		Format:  cli.Format,
		Quiet:   cli.Quiet,
		Verbose: cli.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
	}

	// Apply config values if CLI flags weren't explicitly set
	if cfg != nil {
		if !cli.Quiet && cfg.Quiet {
			g.Quiet = cfg.Quiet
		}
		if !cli.Verbose && cfg.Verbose {
			g.Verbose = cfg.Verbose
		}
	}

	g.Logger = newLogger(g.Stderr, g.Verbose, g.Quiet)
	return g
}

// newLogger builds the run logger. Verbose enables debug output, quiet
// drops everything below warnings.
func newLogger(w io.Writer, verbose, quiet bool) *zap.Logger {
	level := zapcore.InfoLevel
	switch {
	case verbose:
		level = zapcore.DebugLevel
	case quiet:
		level = zapcore.WarnLevel
	}

	encoderCfg := zap.NewDevelopmentEncoderConfig()
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(w),
		level,
	)
	return zap.New(core)
}

// Debug prints a debug message if verbose mode is enabled
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.Verbose {
		fmt.Fprintf(g.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "json" {
		io.WriteString(globals.Stdout, `{"type":"version","version":"`+Version+`","commit":"`+Commit+`"}`+"\n")
	} else {
		io.WriteString(globals.Stdout, "relscope version "+Version+" ("+Commit+")\n")
	}
	return nil
}

// Version information (set at build time)
var (
	Version = "dev"
	Commit  = "none"
)
