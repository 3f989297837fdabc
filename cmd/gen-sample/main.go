package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/perfreport/internal/sample"
	"github.com/okian/perfreport/pkg/logger"
)

// Default generation parameters.
const (
	defaultFiles  = 2
	defaultRows   = 100
	defaultDir    = "samples"
	defaultPrefix = "employees"
)

func main() {
	var (
		dir     = flag.String("dir", defaultDir, "Directory to write sample files into")
		prefix  = flag.String("prefix", defaultPrefix, "File name prefix")
		files   = flag.Int("files", defaultFiles, "Number of files to generate")
		rows    = flag.Int("rows", defaultRows, "Rows per file")
		seed    = flag.Uint64("seed", 0, "Seed for reproducible output (0 picks a random seed)")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	paths, err := sample.Generate(ctx, sample.Config{
		Dir:    *dir,
		Prefix: *prefix,
		Files:  *files,
		Rows:   *rows,
		Seed:   *seed,
	})
	if err != nil {
		os.Stderr.WriteString("gen-sample: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}

	// Paths go to stdout so they can be passed straight to perfreport --files.
	for _, p := range paths {
		fmt.Println(p)
	}
}
