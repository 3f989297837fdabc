package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okian/perfreport/internal/adapters/render"
	app "github.com/okian/perfreport/internal/app"
	"github.com/okian/perfreport/internal/config"
	"github.com/okian/perfreport/pkg/logger"
	"github.com/okian/perfreport/pkg/metrics"
)

// Process exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

const programName = "perfreport"

var errNoFiles = errors.New("--files is required")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one report and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := logger.InitWithWriter(stderr); err != nil {
		fmt.Fprintf(stderr, "%s: failed to initialize logging: %v\n", programName, err)
		return exitError
	}
	loggerInstance := logger.Get()

	// Load configuration (defaults -> optional file -> env), then flags on top.
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitError
	}

	files, err := parseArgs(args, cfg, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitUsage
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.FromConfig(cfg, app.WithLogger(loggerInstance))
	defer dumpMetrics(ctx, loggerInstance, cfg.MetricsFile)

	report, err := svc.Run(ctx, files)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitError
	}

	if err := svc.Write(ctx, report, cfg.Format, cfg.Output, stdout); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return exitError
	}
	return exitOK
}

func dumpMetrics(ctx context.Context, l logger.Logger, path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		l.Warn(ctx, "failed to write metrics file", logger.String("path", path), logger.Error(err))
	}
}

// fileList collects --files values. Each value may hold several
// comma separated paths and the flag may be repeated.
type fileList []string

func (f *fileList) String() string { return strings.Join(*f, ",") }

func (f *fileList) Set(v string) error {
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			*f = append(*f, p)
		}
	}
	return nil
}

// parseArgs parses command line flags into cfg and returns the input paths.
// Bare arguments after flags are taken as further input files, so
// "--files a.csv b.csv --report X" works as well as "--files a.csv,b.csv".
func parseArgs(args []string, cfg *config.Config, stderr io.Writer) ([]string, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	var files fileList
	fs.Var(&files, "files", "CSV file(s) to aggregate (repeatable, comma separated or followed by more paths)")
	title := fs.String("report", config.DefaultReportTitle, "report title")
	format := fs.String("format", cfg.Format, "output format: "+strings.Join(render.Formats(), ", "))
	output := fs.String("output", cfg.Output, "write the report to this file instead of stdout")
	delimiter := fs.String("delimiter", cfg.Delimiter, "input field delimiter")
	limit := fs.Int("limit", cfg.Limit, "keep only the top N rows (0 keeps all)")
	metricsFile := fs.String("metrics-file", cfg.MetricsFile, "write Prometheus metrics to this file after the run")
	logLevel := fs.String("log-level", cfg.LogLevel, "log level: debug, info, warn, error")

	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		rest = fs.Args()
		for len(rest) > 0 && (rest[0] == "-" || !strings.HasPrefix(rest[0], "-")) {
			files = append(files, rest[0])
			rest = rest[1:]
		}
		if len(rest) == 0 {
			break
		}
	}

	if len(files) == 0 {
		fs.Usage()
		return nil, errNoFiles
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "report":
			cfg.ReportTitle = *title
		case "format":
			cfg.Format = strings.ToLower(*format)
		case "output":
			cfg.Output = *output
		case "delimiter":
			cfg.Delimiter = *delimiter
		case "limit":
			cfg.Limit = *limit
		case "metrics-file":
			cfg.MetricsFile = *metricsFile
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return files, nil
}
