// Package sample generates synthetic performance CSV files for demos and
// load checks of the report pipeline.
package sample

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/okian/perfreport/internal/adapters/source"
	"github.com/okian/perfreport/pkg/logger"
	"github.com/shopspring/decimal"
)

// Header is the column layout of generated files.
var Header = []string{"id", source.ColumnPosition, source.ColumnPerformance, "name"}

// Positions is the catalogue generated rows draw from.
var Positions = []string{
	"Backend Developer",
	"Frontend Developer",
	"Data Scientist",
	"QA Engineer",
	"DevOps Engineer",
	"Mobile Developer",
	"Product Manager",
	"UX Designer",
}

var (
	firstNames = []string{"Alex", "Maria", "Ivan", "Olga", "Sam", "Nina", "Omar", "Yuki", "Lena", "Tom"}
	lastNames  = []string{"Petrov", "Smith", "Garcia", "Kim", "Novak", "Ito", "Haddad", "Berg", "Rossi", "Silva"}
)

// Score bounds.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// Score tiers as [min, min+span).
const (
	averageMin  = 3.0
	averageSpan = 1.0
	highMin     = 4.0
	highSpan    = 0.6
	lowMin      = 1.0
	lowSpan     = 2.0
	eliteMin    = 4.6
	eliteSpan   = 0.4
	wideMin     = MinScore
	wideSpan    = MaxScore - MinScore
)

const (
	tierAverage = iota
	tierAverage2
	tierAverage3
	tierHigh
	tierHigh2
	tierLow
	tierElite
	tierWide
	tierCount
)

const filePermission = 0o644

// Config describes a generation run.
type Config struct {
	Dir    string `validate:"required"`
	Prefix string `validate:"required,excludesall=/\\"`
	Files  int    `validate:"min=1,max=1000"`
	Rows   int    `validate:"min=0"`
	// Seed makes output reproducible; zero picks a random seed.
	Seed uint64
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Row is one generated record.
type Row struct {
	ID          string
	Position    string
	Performance float64
	Name        string
}

func (r Row) cells() []string {
	return []string{r.ID, r.Position, formatScore(r.Performance), r.Name}
}

// Generator produces rows from a seeded stream. It is not safe for
// concurrent use.
type Generator struct {
	src *rand.ChaCha8
	rng *rand.Rand
}

// NewGenerator returns a Generator. Equal non-zero seeds yield equal output.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		var b [8]byte
		_, _ = crand.Read(b[:])
		seed = binary.LittleEndian.Uint64(b[:])
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	return &Generator{src: src, rng: rand.New(src)}
}

// Row returns the next row.
func (g *Generator) Row() Row {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		// ChaCha8 never fails to read.
		panic(err)
	}
	return Row{
		ID:          id.String(),
		Position:    Positions[g.rng.IntN(len(Positions))],
		Performance: g.score(),
		Name:        firstNames[g.rng.IntN(len(firstNames))] + " " + lastNames[g.rng.IntN(len(lastNames))],
	}
}

// score draws from a tiered distribution where average performers are the
// most common and elite ones are rare.
func (g *Generator) score() float64 {
	var lo, span float64
	switch g.rng.IntN(tierCount) {
	case tierAverage, tierAverage2, tierAverage3:
		lo, span = averageMin, averageSpan
	case tierHigh, tierHigh2:
		lo, span = highMin, highSpan
	case tierLow:
		lo, span = lowMin, lowSpan
	case tierElite:
		lo, span = eliteMin, eliteSpan
	default:
		lo, span = wideMin, wideSpan
	}
	v, _ := decimal.NewFromFloat(lo + g.rng.Float64()*span).Round(2).Float64()
	return min(max(v, MinScore), MaxScore)
}

// WriteCSV writes a header and n rows to w.
func (g *Generator) WriteCSV(w io.Writer, n int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteSample, err)
	}
	for range n {
		if err := cw.Write(g.Row().cells()); err != nil {
			return fmt.Errorf("%w: %w", ErrWriteSample, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteSample, err)
	}
	return nil
}

// Generate writes cfg.Files CSV files into cfg.Dir and returns their paths
// in creation order.
func Generate(ctx context.Context, cfg Config) ([]string, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteSample, err)
	}

	log := logger.Get()
	log.Info(ctx, "generating sample files",
		logger.Int("files", cfg.Files),
		logger.Int("rows", cfg.Rows),
		logger.String("dir", cfg.Dir),
	)

	g := NewGenerator(cfg.Seed)
	paths := make([]string, 0, cfg.Files)
	for i := range cfg.Files {
		if err := ctx.Err(); err != nil {
			return paths, fmt.Errorf("generation cancelled: %w", err)
		}
		path := filepath.Join(cfg.Dir, fmt.Sprintf("%s_%02d.csv", cfg.Prefix, i+1))
		if err := writeFile(path, g, cfg.Rows); err != nil {
			return paths, err
		}
		paths = append(paths, path)
		log.Debug(ctx, "sample file written", logger.String("path", path))
	}

	log.Info(ctx, "generated sample files", logger.Int("count", len(paths)))
	return paths, nil
}

func writeFile(path string, g *Generator, rows int) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteSample, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrWriteSample, cerr)
		}
	}()
	return g.WriteCSV(f, rows)
}

func formatScore(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
