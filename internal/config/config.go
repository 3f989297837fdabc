// Package config defines run configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/okian/perfreport/internal/adapters/source"
)

// Default values.
const (
	DefaultReportTitle = "Performance Report"
	DefaultFormat      = "grid"
	DefaultDelimiter   = ","
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// ReportTitle is printed above the table.
	ReportTitle string `koanf:"report_title"`

	// Format selects the renderer: grid, csv, json or xlsx.
	Format string `koanf:"format" validate:"required,oneof=grid csv json xlsx"`

	// Output is the report destination; empty means stdout. Required for xlsx.
	Output string `koanf:"output" validate:"required_if=Format xlsx"`

	// Delimiter is the single-character field separator of input files.
	Delimiter string `koanf:"delimiter" validate:"len=1,delimiter"`

	// Limit caps the number of report rows; 0 keeps all.
	Limit int `koanf:"limit" validate:"min=0"`

	// MetricsFile, when set, receives a Prometheus text dump after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		ReportTitle: DefaultReportTitle,
		Format:      DefaultFormat,
		Delimiter:   DefaultDelimiter,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// The input reader accepts only these delimiters; reject the rest here
	// rather than failing on the first read.
	_ = v.RegisterValidation("delimiter", func(fl validator.FieldLevel) bool {
		r, _ := utf8.DecodeRuneInString(fl.Field().String())
		return source.ValidDelimiter(r)
	})
	return v
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}
