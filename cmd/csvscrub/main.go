package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/wdm0006/csvscrub/internal/config"
	"github.com/wdm0006/csvscrub/pkg/frame"
	"github.com/wdm0006/csvscrub/pkg/io/csvio"
	iox "github.com/wdm0006/csvscrub/pkg/io/ioutils"
	"github.com/wdm0006/csvscrub/pkg/profile"
	"github.com/wdm0006/csvscrub/pkg/transform/headers"
	imp "github.com/wdm0006/csvscrub/pkg/transform/impute"
	"github.com/wdm0006/csvscrub/pkg/transform/rows"
)

var (
	version = "0.1.0-dev"
)

// notice is printed to stdout after the output file is written, or to stderr
// when stdout carries the CSV itself.
const notice = "Quotations removed from headers and file saved."

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("csvscrub", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showVersion := fs.Bool("version", false, "Print version and exit")
	configPath := fs.String("config", "", "Path to config file (.json, .yaml, .yml, .toml)")
	input := fs.String("input", "", "Input CSV path, '-' for stdin (default "+config.DefaultInputPath+")")
	output := fs.String("output", "", "Output CSV path, '-' for stdout (default "+config.DefaultOutputPath+")")
	nrows := fs.Int("rows", config.DefaultRows, "Number of leading rows to keep")
	showProfile := fs.Bool("profile", false, "Print a column profile of the input to stderr")
	logLevel := fs.String("log-level", "warn", "Log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, "csvscrub", version)
		return 0
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Error("load config", "path", *configPath, "err", err)
			return 2
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input.Path = *input
		case "output":
			cfg.Output.Path = *output
		case "rows":
			cfg.Head.Rows = *nrows
		}
	})
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "err", err)
		return 2
	}

	var profileOut io.Writer
	if *showProfile {
		profileOut = stderr
	}
	if err := scrub(ctx, cfg, logger, stdout, profileOut); err != nil {
		logger.Error("csvscrub failed", "err", err)
		return 1
	}
	if cfg.Output.Path == "-" {
		fmt.Fprintln(stderr, notice)
	} else {
		fmt.Fprintln(stdout, notice)
	}
	return 0
}

// scrub loads the input, strips header quotes, fills missing cells, keeps the
// leading rows and writes the output file. An output path of "-" writes to
// stdout.
func scrub(ctx context.Context, cfg config.Config, logger *slog.Logger, stdout, profileOut io.Writer) error {
	f, err := load(cfg, logger)
	if err != nil {
		return err
	}
	logger.Info("loaded input", "path", cfg.Input.Path, "rows", f.Rows(), "cols", f.Cols())

	prof := profile.NewCollector(f.Schema(), 5)
	prof.ConsumeFrame(f)
	for _, cp := range prof.Columns() {
		logger.Debug("column", "name", cp.Name, "kind", cp.Kind, "missing", cp.Nulls)
	}
	if profileOut != nil {
		fmt.Fprint(profileOut, prof.ReportText())
	}

	var fill any = cfg.Fill.Value
	if cfg.Input.InferTypes {
		fill = imp.ParseValue(cfg.Fill.Value)
	}
	p := frame.NewPipeline().
		Add(&headers.Strip{Chars: cfg.Headers.Strip}).
		Add(&imp.Constant{Value: fill}).
		Add(&rows.Head{N: cfg.Head.Rows})
	out, err := p.Run(ctx, f)
	if err != nil {
		return err
	}
	logger.Info("transformed", "steps", p.Steps(), "filled", prof.TotalNulls(), "rows", out.Rows())

	if cfg.Output.Path == "-" {
		if err := csvio.Write(stdout, out, cfg.WriterOptions()); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	if err := csvio.WriteAll(cfg.Output.Path, out, cfg.WriterOptions()); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output.Path, err)
	}
	sum, err := iox.Checksum(cfg.Output.Path)
	if err != nil {
		return err
	}
	logger.Info("wrote output", "path", cfg.Output.Path, "rows", out.Rows(), "xxh3", strconv.FormatUint(sum, 16))
	return nil
}

func load(cfg config.Config, logger *slog.Logger) (*frame.Frame, error) {
	rdr, file, err := csvio.Open(cfg.Input.Path, cfg.ReaderOptions())
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	f, err := rdr.ReadFrame()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", cfg.Input.Path, err)
	}
	if w := rdr.Warnings(); w != "" {
		logger.Warn("repaired input", "path", cfg.Input.Path, "repairs", w)
	}
	return f, nil
}
