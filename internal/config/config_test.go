package config_test

import (
	"errors"
	"testing"

	"github.com/okian/perfreport/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		Convey("Then it should have sensible defaults", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.ReportTitle, ShouldEqual, "Performance Report")
			So(cfg.Format, ShouldEqual, "grid")
			So(cfg.Output, ShouldBeEmpty)
			So(cfg.Delimiter, ShouldEqual, ",")
			So(cfg.DelimiterRune(), ShouldEqual, ',')
			So(cfg.Limit, ShouldEqual, 0)
			So(cfg.MetricsFile, ShouldBeEmpty)
			So(cfg.Validate(), ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	Convey("Given configs with invalid fields", t, func() {
		cases := map[string]func(*config.Config){
			"unknown format":      func(c *config.Config) { c.Format = "html" },
			"empty format":        func(c *config.Config) { c.Format = "" },
			"xlsx without output": func(c *config.Config) { c.Format = "xlsx" },
			"long delimiter":      func(c *config.Config) { c.Delimiter = ";;" },
			"empty delimiter":     func(c *config.Config) { c.Delimiter = "" },
			"quote delimiter":     func(c *config.Config) { c.Delimiter = `"` },
			"newline delimiter":   func(c *config.Config) { c.Delimiter = "\n" },
			"NUL delimiter":       func(c *config.Config) { c.Delimiter = "\x00" },
			"U+FFFD delimiter":    func(c *config.Config) { c.Delimiter = "\uFFFD" },
			"invalid utf8":        func(c *config.Config) { c.Delimiter = "\xff" },
			"negative limit":      func(c *config.Config) { c.Limit = -1 },
			"unknown log level":   func(c *config.Config) { c.LogLevel = "verbose" },
		}

		for name, mutate := range cases {
			Convey("When the config has "+name, func() {
				cfg := config.New()
				mutate(cfg)
				err := cfg.Validate()

				Convey("Then validation fails with ErrInvalidConfig", func() {
					So(err, ShouldNotBeNil)
					So(errors.Is(err, config.ErrInvalidConfig), ShouldBeTrue)
				})
			})
		}
	})

	Convey("Given configs with valid non-default fields", t, func() {
		cfg := config.New()
		cfg.Format = "xlsx"
		cfg.Output = "report.xlsx"
		cfg.Delimiter = "\t"
		cfg.Limit = 10
		cfg.LogLevel = ""

		Convey("Then validation passes", func() {
			So(cfg.Validate(), ShouldBeNil)
			So(cfg.DelimiterRune(), ShouldEqual, '\t')
		})
	})
}
