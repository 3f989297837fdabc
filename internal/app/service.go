// Package service provides the report pipeline: it reads record sources,
// aggregates them by position and ranks the result.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/okian/perfreport/internal/adapters/render"
	"github.com/okian/perfreport/internal/adapters/source"
	"github.com/okian/perfreport/internal/config"
	"github.com/okian/perfreport/internal/domain/aggregate"
	"github.com/okian/perfreport/internal/domain/model"
	"github.com/okian/perfreport/internal/domain/ranking"
	"github.com/okian/perfreport/pkg/logger"
	"github.com/okian/perfreport/pkg/metrics"
)

// Error kind labels used in logs and metrics.
const (
	kindSourceNotFound   = "source_not_found"
	kindMalformedValue   = "malformed_value"
	kindInvalidAggregate = "invalid_aggregate"
	kindOther            = "other"
)

const outputFilePermission = 0o644

// Service runs report pipelines. It holds no state between runs.
type Service struct {
	title     string
	delimiter rune
	limit     int
	metrics   *metrics.Manager
	logger    logger.Logger
	newRunID  func() string
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTitle sets the report title.
func WithTitle(title string) Option {
	return func(s *Service) {
		s.title = title
	}
}

// WithDelimiter sets the input field delimiter.
func WithDelimiter(r rune) Option {
	return func(s *Service) {
		if r != 0 {
			s.delimiter = r
		}
	}
}

// WithLimit caps the number of report rows. Zero keeps all rows.
func WithLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.limit = n
		}
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunIDFunc overrides run id generation.
func WithRunIDFunc(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		title:     config.DefaultReportTitle,
		delimiter: ',',
		metrics:   metrics.Default(),
		logger:    logger.Nop(),
		newRunID:  uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// FromConfig builds a Service from a loaded configuration.
func FromConfig(cfg *config.Config, opts ...Option) *Service {
	base := []Option{
		WithTitle(cfg.ReportTitle),
		WithDelimiter(cfg.DelimiterRune()),
		WithLimit(cfg.Limit),
	}
	return New(append(base, opts...)...)
}

// Run reads every path in order and builds the ranked report. Any error
// aborts the run and no report is returned.
func (s *Service) Run(ctx context.Context, paths []string) (*model.Report, error) {
	if len(paths) == 0 {
		return nil, ErrNoSources
	}

	runID := s.newRunID()
	log := s.logger.With(logger.String("run_id", runID))
	start := time.Now()

	log.Info(ctx, "starting report run", logger.Strings("files", paths), logger.String("title", s.title))

	agg := aggregate.New()
	for _, src := range source.FromPaths(paths, source.WithDelimiter(s.delimiter)) {
		n, err := agg.AddSource(src)
		if err != nil {
			return nil, s.fail(ctx, log, start, err)
		}
		s.metrics.RecordSource()
		log.Debug(ctx, "source aggregated", logger.String("source", src.Name()), logger.Int("records", n))
	}
	s.metrics.RecordRecords(agg.Records())

	table := agg.Table()
	rows, err := ranking.Rank(table, ranking.WithLimit(s.limit))
	if err != nil {
		return nil, s.fail(ctx, log, start, err)
	}

	report := &model.Report{
		Title:   s.title,
		RunID:   runID,
		Rows:    rows,
		Sources: len(paths),
		Records: agg.Records(),
	}

	took := time.Since(start)
	s.metrics.UpdatePositions(len(table))
	s.metrics.UpdateReportRows(len(rows))
	s.metrics.ObserveRun(metrics.ResultSuccess, took)
	log.Info(ctx, "report run finished",
		logger.Int("sources", report.Sources),
		logger.Int("records", report.Records),
		logger.Int("positions", len(table)),
		logger.Int("rows", len(rows)),
		logger.Duration("took", took),
	)
	return report, nil
}

func (s *Service) fail(ctx context.Context, log logger.Logger, start time.Time, err error) error {
	kind := ErrorKind(err)
	s.metrics.RecordError(kind)
	s.metrics.ObserveRun(metrics.ResultFailure, time.Since(start))
	log.Error(ctx, "report run aborted", logger.String("kind", kind), logger.Error(err))
	return err
}

// Write renders report in format. With an empty output path it writes to
// stdout; otherwise it writes a temporary file next to output and renames it
// into place, so a failed render never leaves a partial file behind.
func (s *Service) Write(ctx context.Context, report *model.Report, format, output string, stdout io.Writer) error {
	r, err := render.New(format)
	if err != nil {
		return err
	}

	if output == "" {
		if render.IsBinary(format) {
			return fmt.Errorf("%w: %s", ErrBinaryToStdout, format)
		}
		return r.Render(stdout, report)
	}

	tmp, err := os.CreateTemp(filepath.Dir(output), "."+filepath.Base(output)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := r.Render(tmp, report); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err := os.Chmod(tmpName, outputFilePermission); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	if err := os.Rename(tmpName, output); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	s.logger.Info(ctx, "report written",
		logger.String("run_id", report.RunID),
		logger.String("output", output),
		logger.String("format", format),
	)
	return nil
}

// ErrorKind maps an error to its metrics/log label.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, model.ErrSourceNotFound):
		return kindSourceNotFound
	case errors.Is(err, model.ErrMalformedValue):
		return kindMalformedValue
	case errors.Is(err, model.ErrInvalidAggregate):
		return kindInvalidAggregate
	default:
		return kindOther
	}
}
