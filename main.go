package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mcncl/eventdiff/internal/aligner"
	"github.com/mcncl/eventdiff/internal/config"
	"github.com/mcncl/eventdiff/internal/differ"
	"github.com/mcncl/eventdiff/internal/errors"
	"github.com/mcncl/eventdiff/internal/formatter"
	"github.com/mcncl/eventdiff/internal/input"
	"github.com/mcncl/eventdiff/internal/models"
)

const help = `Compare two newline-delimited streams of timestamped JSON events.

Example:
  eventdiff f source1.jsonl source2.jsonl
  eventdiff d '{...}' '{...}'`

// Sources are the two positional arguments shared by both modes
type Sources struct {
	Source1 string `arg:"" name:"source1" help:"Left source."`
	Source2 string `arg:"" name:"source2" help:"Right source."`
}

// FileCmd reads both sources from files
type FileCmd struct {
	Sources `embed:""`
}

// DataCmd reads both sources from literal arguments
type DataCmd struct {
	Sources `embed:""`
}

// CLI defines the command-line interface
var CLI struct {
	Config         string           `help:"Path to config file. Defaults to .eventdiff.yml found in the current directory or a parent." short:"c" type:"path"`
	TimestampField string           `help:"Record field holding the RFC 3339 timestamp (dotted key path)." short:"t"`
	Ignore         []string         `help:"Dotted key path to leave out of the comparison. Repeatable." short:"x"`
	Format         string           `help:"Output format: text, json or patch." short:"o"`
	NoColor        bool             `help:"Disable colored output."`
	Summary        bool             `help:"Print counters after the last report." short:"s"`
	StrictOrder    bool             `help:"Fail when a source is not sorted by timestamp."`
	Debug          bool             `help:"Enable debug logging."`
	Version        kong.VersionFlag `help:"Show version information." short:"v"`

	F FileCmd `cmd:"" name:"f" aliases:"files" help:"Read input from JSON files."`
	D DataCmd `cmd:"" name:"d" aliases:"data" help:"Read input from command line."`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("eventdiff"),
		kong.Description(help),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("eventdiff version %s", Version)},
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, err := newContext(os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	if err := kctx.Run(ctx); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}
}

// newContext resolves the configuration from the config file and flags.
func newContext(stdout, stderr io.Writer) (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	overrides := config.Overrides{
		TimestampField: CLI.TimestampField,
		IgnorePaths:    CLI.Ignore,
		Format:         CLI.Format,
	}
	// Boolean flags only override the file when they are set.
	if CLI.NoColor {
		overrides.Color = boolPtr(false)
	}
	if CLI.Summary {
		overrides.Summary = boolPtr(true)
	}
	if CLI.StrictOrder {
		overrides.StrictOrder = boolPtr(true)
	}
	if CLI.Debug {
		overrides.Debug = boolPtr(true)
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides)
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), nil)
	}

	level := slog.LevelWarn
	if cfg.Dev.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	return &Context{Config: cfg, Logger: logger, Stdout: stdout}, nil
}

// Run compares two files
func (c *FileCmd) Run(ctx *Context) error {
	return run(ctx, input.ModeFile, c.Source1, c.Source2)
}

// Run compares two literal documents
func (c *DataCmd) Run(ctx *Context) error {
	return run(ctx, input.ModeData, c.Source1, c.Source2)
}

// run executes the main program logic
func run(ctx *Context, mode input.Mode, source1, source2 string) error {
	// 1. Open both sources
	left, right, err := input.OpenPair(mode, source1, source2)
	if err != nil {
		return err
	}
	defer func() {
		_ = left.Close()
		_ = right.Close()
	}()

	// 2. Build the renderer
	cfg := ctx.Config
	out, err := formatter.NewFormatter(cfg.Output.Format, formatter.Options{
		Color:       cfg.Output.Color,
		IgnorePaths: cfg.IgnorePaths,
	})
	if err != nil {
		return err
	}

	// 3. Align and compare the streams
	al := aligner.New(left, right, aligner.Options{
		TimestampField: cfg.TimestampField,
		StrictOrder:    cfg.Alignment.StrictOrder,
		Differ:         differ.New(differ.WithIgnoredPaths(cfg.IgnorePaths...)),
		Logger:         ctx.Logger,
	})
	ctx.Logger.Debug("comparing sources",
		"mode", string(mode),
		"left", left.Name,
		"right", right.Name,
		"timestamp_field", cfg.TimestampField,
	)

	err = al.Run(func(report models.Report) error {
		return out.Format(ctx.Stdout, report)
	})
	if err != nil {
		return err
	}

	// 4. Optional summary
	if cfg.Output.Summary {
		return out.Summary(ctx.Stdout, al.Stats())
	}
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
