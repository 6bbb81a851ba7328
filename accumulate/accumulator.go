package accumulate

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/KotobaMedia/jp-estat-to-sql/bands"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/collision"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/logging"
	"github.com/KotobaMedia/jp-estat-to-sql/meshgrid"
)

// LevelClassifier reports the standard mesh level of a code.
type LevelClassifier interface {
	Classify(code uint64) (uint8, error)
}

// RowSource yields the two header rows and then the data records of one file.
// meshcsv.Reader implements it.
type RowSource interface {
	Headers() (codes, labels []string, err error)
	// Next returns io.EOF after the last record.
	Next() ([]string, error)
	// Line is the 1-based line of the record last returned by Next.
	Line() int
}

// Schema is fixed by the first file of a run.
type Schema struct {
	DataLevel   meshgrid.Level
	TileLevel   meshgrid.Level
	RowsPerAxis int
	// Header is the normalized header every file must match.
	Header []string
	Bands  []bands.Band
}

// Config configures an Accumulator.
type Config struct {
	DataLevel meshgrid.Level
	TileLevel meshgrid.Level
	// Bands selects columns by name; nil selects all.
	Bands []string
	// OnSchema is called once, after the first file's header is resolved and
	// before any of its rows are read.
	OnSchema func(Schema) error
}

// Stats counts the work done so far.
type Stats struct {
	Files       int
	Rows        int
	SkippedRows int
	// Tiles counts every tile created in the run, drained or not.
	Tiles int
}

// Accumulator builds tile buffers from mesh statistics files.
type Accumulator struct {
	cfg         Config
	classifier  LevelClassifier
	logger      *slog.Logger
	rowsPerAxis int
	schema      *Schema
	valueCount  int
	tiles       *TileSet
	sources     *collision.Tracker
	stats       Stats
}

// New creates an Accumulator.
//
// Returns errs.ErrUnsupportedLevel or errs.ErrInvalidLevelOrdering for bad
// levels.
func New(cfg Config, classifier LevelClassifier, logger *slog.Logger) (*Accumulator, error) {
	if classifier == nil {
		return nil, fmt.Errorf("%w: nil classifier", errs.ErrInvalidOption)
	}

	rowsPerAxis, err := meshgrid.SubdivisionsPerAxis(cfg.TileLevel, cfg.DataLevel)
	if err != nil {
		return nil, err
	}

	return &Accumulator{
		cfg:         cfg,
		classifier:  classifier,
		logger:      logging.OrDiscard(logger),
		rowsPerAxis: rowsPerAxis,
		tiles:       NewTileSet(),
		sources:     collision.NewTracker(),
	}, nil
}

// RowsPerAxis returns the tile width and height in data-level cells.
func (a *Accumulator) RowsPerAxis() int {
	return a.rowsPerAxis
}

// Schema returns the schema fixed by the first file.
func (a *Accumulator) Schema() (Schema, bool) {
	if a.schema == nil {
		return Schema{}, false
	}

	return *a.schema, true
}

// Tiles returns the accumulated tiles.
func (a *Accumulator) Tiles() *TileSet {
	return a.tiles
}

// Stats returns the counters so far.
func (a *Accumulator) Stats() Stats {
	s := a.stats
	s.Tiles = a.sources.Count()

	return s
}

// AddFile reads every record of src into the tile buffers. name identifies
// the file in errors and in tile overlap detection.
func (a *Accumulator) AddFile(name string, src RowSource) error {
	codes, labels, err := src.Headers()
	if err != nil {
		return err
	}

	normalized := bands.NormalizeHeaders(codes, labels)
	if len(normalized) <= bands.DataColumnStart {
		return fmt.Errorf("%s: %w: %d", name, errs.ErrTooFewColumns, len(normalized))
	}

	if a.schema == nil {
		if err := a.resolveSchema(name, codes, normalized); err != nil {
			return err
		}
	} else if !slices.Equal(a.schema.Header, normalized) {
		return fmt.Errorf("%w: %s", errs.ErrHeaderMismatch, name)
	}

	rows, skipped, err := a.readRows(name, src)
	a.stats.Rows += rows
	a.stats.SkippedRows += skipped
	if err != nil {
		return err
	}
	a.stats.Files++

	a.logger.Debug("accumulated mesh file",
		slog.String("file", name),
		slog.Int("rows", rows),
		slog.Int("skipped", skipped),
		slog.Int("tiles", a.tiles.Len()),
	)

	return nil
}

func (a *Accumulator) resolveSchema(name string, codes, normalized []string) error {
	trimmed := make([]string, len(codes))
	for i, c := range codes {
		trimmed[i] = strings.TrimSpace(c)
	}

	available, err := bands.BuildAvailable(trimmed, normalized)
	if err != nil {
		return fmt.Errorf("reading headers from %s: %w", name, err)
	}
	selected, err := bands.Resolve(available, a.cfg.Bands)
	if err != nil {
		return err
	}

	valueCount, err := meshgrid.CellCount(a.rowsPerAxis, len(selected))
	if err != nil {
		return err
	}

	schema := Schema{
		DataLevel:   a.cfg.DataLevel,
		TileLevel:   a.cfg.TileLevel,
		RowsPerAxis: a.rowsPerAxis,
		Header:      normalized,
		Bands:       selected,
	}
	if a.cfg.OnSchema != nil {
		if err := a.cfg.OnSchema(schema); err != nil {
			return err
		}
	}

	a.schema = &schema
	a.valueCount = valueCount

	return nil
}

func (a *Accumulator) readRows(name string, src RowSource) (int, int, error) {
	selected := a.schema.Bands
	bandCount := len(selected)
	validated := false
	rows, skipped := 0, 0

	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return rows, skipped, nil
		}
		if err != nil {
			return rows, skipped, err
		}

		codeStr := ""
		if len(rec) > 0 {
			codeStr = strings.TrimSpace(rec[0])
		}
		if codeStr == "" {
			skipped++
			continue
		}

		line := src.Line()
		code, err := strconv.ParseUint(codeStr, 10, 64)
		if err != nil {
			return rows, skipped, fmt.Errorf("%s line %d: %w: %q", name, line, errs.ErrMalformedMeshCode, codeStr)
		}

		if !validated {
			if err := a.validateLevel(code); err != nil {
				return rows, skipped, fmt.Errorf("%s line %d: %w", name, line, err)
			}
			validated = true
		}

		addr, err := meshgrid.MapMeshCodeToTile(code, a.cfg.DataLevel, a.cfg.TileLevel, a.rowsPerAxis)
		if err != nil {
			return rows, skipped, fmt.Errorf("%s line %d: %w", name, line, err)
		}
		if err := a.sources.Track(addr.TileCode, name); err != nil {
			return rows, skipped, err
		}

		buf := a.tiles.getOrCreate(addr.TileCode, a.valueCount)
		base := ((addr.Row * a.rowsPerAxis) + addr.Col) * bandCount
		for i, band := range selected {
			raw := ""
			if band.SourceIndex < len(rec) {
				raw = rec[band.SourceIndex]
			}
			v, err := ParseValue(raw)
			if err != nil {
				return rows, skipped, fmt.Errorf("%s line %d, column '%s', mesh code %d: %w",
					name, line, band.Name, code, err)
			}
			buf[base+i] = v
		}
		rows++
	}
}

func (a *Accumulator) validateLevel(code uint64) error {
	level, err := a.classifier.Classify(code)
	if err != nil {
		return fmt.Errorf("%w: %w", errs.ErrMeshLevelMismatch, err)
	}
	if level != uint8(a.cfg.DataLevel) {
		return fmt.Errorf("%w: mesh code %d has level %d, expected %d",
			errs.ErrMeshLevelMismatch, code, level, a.cfg.DataLevel)
	}

	return nil
}
