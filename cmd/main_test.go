package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/perfreport/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func clearEnv() {
	for _, key := range []string{
		config.EnvFile,
		"PERFREPORT_LOG_LEVEL",
		"PERFREPORT_REPORT_TITLE",
		"PERFREPORT_FORMAT",
		"PERFREPORT_OUTPUT",
		"PERFREPORT_DELIMITER",
		"PERFREPORT_LIMIT",
		"PERFREPORT_METRICS_FILE",
	} {
		_ = os.Unsetenv(key)
	}
}

func TestParseArgs(t *testing.T) {
	Convey("Given command line arguments", t, func() {
		var stderr bytes.Buffer

		Convey("When a single file is given", func() {
			cfg := config.New()
			files, err := parseArgs([]string{"--files", "a.csv"}, cfg, &stderr)

			Convey("Then the default title is kept", func() {
				So(err, ShouldBeNil)
				So(files, ShouldResemble, []string{"a.csv"})
				So(cfg.ReportTitle, ShouldEqual, "Performance Report")
			})
		})

		Convey("When several files follow --files and a title comes after", func() {
			cfg := config.New()
			files, err := parseArgs([]string{"--files", "a.csv", "b.csv", "--report", "Performance"}, cfg, &stderr)

			Convey("Then every path is collected", func() {
				So(err, ShouldBeNil)
				So(files, ShouldResemble, []string{"a.csv", "b.csv"})
				So(cfg.ReportTitle, ShouldEqual, "Performance")
			})
		})

		Convey("When files are repeated and comma separated", func() {
			cfg := config.New()
			files, err := parseArgs([]string{"-files", "a.csv,b.csv", "--files", "c.csv"}, cfg, &stderr)

			Convey("Then the paths keep their order", func() {
				So(err, ShouldBeNil)
				So(files, ShouldResemble, []string{"a.csv", "b.csv", "c.csv"})
			})
		})

		Convey("When output flags are given", func() {
			cfg := config.New()
			_, err := parseArgs([]string{
				"--files", "a.csv",
				"--format", "JSON",
				"--output", "out.json",
				"--delimiter", ";",
				"--limit", "3",
				"--metrics-file", "m.prom",
				"--log-level", "debug",
			}, cfg, &stderr)

			Convey("Then they override the config", func() {
				So(err, ShouldBeNil)
				So(cfg.Format, ShouldEqual, "json")
				So(cfg.Output, ShouldEqual, "out.json")
				So(cfg.Delimiter, ShouldEqual, ";")
				So(cfg.Limit, ShouldEqual, 3)
				So(cfg.MetricsFile, ShouldEqual, "m.prom")
				So(cfg.LogLevel, ShouldEqual, "debug")
			})
		})

		Convey("When a flag is not given", func() {
			cfg := config.New()
			cfg.ReportTitle = "From Env"
			_, err := parseArgs([]string{"--files", "a.csv"}, cfg, &stderr)

			Convey("Then the loaded value survives", func() {
				So(err, ShouldBeNil)
				So(cfg.ReportTitle, ShouldEqual, "From Env")
			})
		})

		Convey("When --files is missing", func() {
			_, err := parseArgs([]string{"--report", "X"}, config.New(), &stderr)

			Convey("Then a usage error is returned", func() {
				So(errors.Is(err, errNoFiles), ShouldBeTrue)
				So(stderr.String(), ShouldContainSubstring, "-files")
			})
		})

		Convey("When a flag value is invalid", func() {
			_, err := parseArgs([]string{"--files", "a.csv", "--format", "html"}, config.New(), &stderr)

			Convey("Then validation fails", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When the delimiter cannot separate fields", func() {
			_, err := parseArgs([]string{"--files", "a.csv", "--delimiter", "\uFFFD"}, config.New(), &stderr)

			Convey("Then it is rejected as a config error", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When xlsx is requested without an output file", func() {
			_, err := parseArgs([]string{"--files", "a.csv", "--format", "xlsx"}, config.New(), &stderr)

			Convey("Then validation fails", func() {
				So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
			})
		})

		Convey("When an unknown flag is given", func() {
			_, err := parseArgs([]string{"--files", "a.csv", "--nope"}, config.New(), &stderr)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given input files on disk", t, func() {
		clearEnv()
		dir := t.TempDir()
		a := writeFile(t, dir, "a.csv", "position,performance\nBackend Developer,4.75\nFrontend Developer,4.55\n")
		b := writeFile(t, dir, "b.csv", "position,performance\nBackend Developer,4.85\nFrontend Developer,4.65\n")
		ctx := context.Background()
		var stdout, stderr bytes.Buffer

		Convey("When the report runs successfully", func() {
			code := run(ctx, []string{"--files", a, b, "--report", "Performance"}, &stdout, &stderr)

			Convey("Then the grid is printed to stdout", func() {
				So(code, ShouldEqual, exitOK)
				So(stdout.String(), ShouldEqual, "Performance\n\n"+
					"+----+--------------------+-------------+\n"+
					"| id | position           | performance |\n"+
					"+====+====================+=============+\n"+
					"|  1 | Backend Developer  |        4.80 |\n"+
					"+----+--------------------+-------------+\n"+
					"|  2 | Frontend Developer |        4.60 |\n"+
					"+----+--------------------+-------------+\n")
				So(stderr.String(), ShouldContainSubstring, "report run finished")
			})
		})

		Convey("When a metrics file is requested", func() {
			metricsPath := filepath.Join(dir, "perfreport.prom")
			code := run(ctx, []string{"--files", a, "--format", "csv", "--metrics-file", metricsPath}, &stdout, &stderr)

			Convey("Then the metrics are dumped", func() {
				So(code, ShouldEqual, exitOK)
				So(stdout.String(), ShouldStartWith, "id,position,performance\n")
				data, err := os.ReadFile(metricsPath)
				So(err, ShouldBeNil)
				So(string(data), ShouldContainSubstring, "perfreport_run_records_processed_total")
			})
		})

		Convey("When a file is missing", func() {
			missing := filepath.Join(dir, "missing.csv")
			code := run(ctx, []string{"--files", a, missing}, &stdout, &stderr)

			Convey("Then the run fails without printing a report", func() {
				So(code, ShouldEqual, exitError)
				So(stdout.Len(), ShouldEqual, 0)
				So(stderr.String(), ShouldContainSubstring, "perfreport: source not found")
				So(stderr.String(), ShouldContainSubstring, "missing.csv")
			})
		})

		Convey("When no files are given", func() {
			code := run(ctx, nil, &stdout, &stderr)

			Convey("Then it is a usage error", func() {
				So(code, ShouldEqual, exitUsage)
				So(stdout.Len(), ShouldEqual, 0)
			})
		})

		Convey("When help is requested", func() {
			code := run(ctx, []string{"-h"}, &stdout, &stderr)
			So(code, ShouldEqual, exitOK)
			So(stderr.String(), ShouldContainSubstring, "-report")
		})

		Convey("When the loaded config is invalid", func() {
			_ = os.Setenv("PERFREPORT_FORMAT", "html")
			defer clearEnv()
			code := run(ctx, []string{"--files", a}, &stdout, &stderr)
			So(code, ShouldEqual, exitError)
		})
	})
}
