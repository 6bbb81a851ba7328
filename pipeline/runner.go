// Package pipeline runs the mesh-tile command end to end: survey lookup,
// input retrieval, accumulation and tile writing.
//
// A run is single-threaded once its inputs are local. Files are processed in
// order of the smallest tile code they contain. After each file, every tile
// below the next file's smallest tile code is written, so tiles leave in
// ascending code order whatever the file names, and tiles written before a
// failure stay on disk.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/KotobaMedia/jp-estat-to-sql/accumulate"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/fetch"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/logging"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/metrics"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/options"
	"github.com/KotobaMedia/jp-estat-to-sql/jismesh"
	"github.com/KotobaMedia/jp-estat-to-sql/meshcsv"
	"github.com/KotobaMedia/jp-estat-to-sql/survey"
	"github.com/KotobaMedia/jp-estat-to-sql/tile"
	"github.com/KotobaMedia/jp-estat-to-sql/tileset"
)

// Fetcher retrieves statistics archives. *fetch.Fetcher implements it.
type Fetcher interface {
	FetchAll(ctx context.Context, items []fetch.Item) ([]fetch.Result, error)
}

// Result summarizes a successful run.
type Result struct {
	RunID        string
	OutputDir    string
	Files        int
	Rows         int
	TilesWritten int
	Bytes        int64
	Duration     time.Duration
}

// Runner executes mesh-tile runs against one survey registry.
type Runner struct {
	registry   *survey.Registry
	fetcher    Fetcher
	classifier accumulate.LevelClassifier
	codec      tileset.Codec
	logger     *slog.Logger
	metrics    *metrics.Metrics
	clock      clockwork.Clock
}

// NewRunner creates a Runner.
//
// Defaults: jismesh.Classifier, a tile.Encoder with default options, a real
// clock, fresh metrics and a discard logger. Without WithFetcher only runs
// with explicit input files are possible.
func NewRunner(registry *survey.Registry, opts ...RunnerOption) (*Runner, error) {
	if registry == nil {
		return nil, fmt.Errorf("%w: nil survey registry", errs.ErrInvalidOption)
	}

	config := &RunnerConfig{}
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	if config.classifier == nil {
		config.classifier = jismesh.Classifier{}
	}
	if config.codec == nil {
		enc, err := tile.NewEncoder()
		if err != nil {
			return nil, err
		}
		config.codec = enc
	}
	if config.metrics == nil {
		config.metrics = metrics.New()
	}
	if config.clock == nil {
		config.clock = clockwork.NewRealClock()
	}

	return &Runner{
		registry:   registry,
		fetcher:    config.fetcher,
		classifier: config.classifier,
		codec:      config.codec,
		logger:     logging.OrDiscard(config.logger),
		metrics:    config.metrics,
		clock:      config.clock,
	}, nil
}

// Metrics returns the metrics the runner reports into.
func (r *Runner) Metrics() *metrics.Metrics {
	return r.metrics
}

// Lookup resolves the survey descriptor for a data level.
func (r *Runner) Lookup(level uint8, year uint16, name string) (survey.Descriptor, error) {
	return r.registry.Lookup(level, year, name)
}

// Inputs returns the statistics files of a survey. Explicit files are
// cleaned, sorted and de-duplicated; otherwise every first-level mesh of
// Japan is fetched and the available files come back in mesh code order.
func (r *Runner) Inputs(ctx context.Context, desc survey.Descriptor, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		files := make([]string, len(explicit))
		for i, path := range explicit {
			files[i] = filepath.Clean(path)
		}
		slices.Sort(files)
		return slices.Compact(files), nil
	}
	if r.fetcher == nil {
		return nil, fmt.Errorf("%w: no input files and no fetcher", errs.ErrInvalidOption)
	}

	items := make([]fetch.Item, len(jismesh.JapanLv1))
	for i, code := range jismesh.JapanLv1 {
		items[i] = fetch.Item{Key: code, URL: desc.DownloadURL(code), Archive: desc.ArchiveName(code)}
	}

	results, err := r.fetcher.FetchAll(ctx, items)
	if err != nil {
		return nil, err
	}

	files := make([]string, len(results))
	for i, res := range results {
		files[i] = res.Path
		source := "downloaded"
		if res.Cached {
			source = "cached"
		}
		r.metrics.ArchivesFetched.WithLabelValues(source).Inc()
	}

	return files, nil
}

// Run executes one mesh-tile run.
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	opts = opts.withDefaults()

	start := r.clock.Now()
	runID := uuid.NewString()
	logger := r.logger.With(slog.String("run_id", runID))

	desc, err := r.registry.Lookup(uint8(opts.Level), opts.Year, opts.Survey)
	if err != nil {
		return Result{}, err
	}
	logger.Info("starting mesh tile run",
		slog.String("survey", desc.Name),
		slog.String("stats_id", desc.StatsID),
		slog.Int("level", int(opts.Level)),
		slog.Int("tile_level", int(opts.TileLevel)),
	)

	files, err := r.Inputs(ctx, desc, opts.InputFiles)
	if err != nil {
		return Result{}, err
	}
	if len(files) == 0 {
		return Result{}, errs.ErrNoInputFiles
	}

	writer, err := tileset.NewWriter(opts.OutputDir, r.codec,
		tileset.WithCompression(opts.Compression),
		tileset.WithLogger(logger),
	)
	if err != nil {
		return Result{}, err
	}

	acc, err := accumulate.New(accumulate.Config{
		DataLevel: opts.Level,
		TileLevel: opts.TileLevel,
		Bands:     opts.Bands,
		OnSchema: func(s accumulate.Schema) error {
			md, err := tileset.NewMetadata(tileset.MetadataInput{
				Survey:      opts.Survey,
				Year:        desc.Year,
				StatsID:     desc.StatsID,
				DataLevel:   s.DataLevel,
				TileLevel:   s.TileLevel,
				RowsPerAxis: s.RowsPerAxis,
				Bands:       s.Bands,
				Compression: opts.Compression,
				NoData:      accumulate.NoData,
			})
			if err != nil {
				return err
			}
			return writer.WriteMetadata(md)
		},
	}, r.classifier, logger)
	if err != nil {
		return Result{}, err
	}

	plan, err := planInputs(files, opts.Level, opts.TileLevel)
	if err != nil {
		return Result{}, err
	}

	var written []uint64
	for i, in := range plan {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		before := acc.Stats()
		if err := addFile(acc, in.path); err != nil {
			return Result{}, err
		}
		after := acc.Stats()
		r.metrics.FilesProcessed.Inc()
		r.metrics.RowsProcessed.Add(float64(after.Rows - before.Rows))
		r.metrics.RowsSkipped.Add(float64(after.SkippedRows - before.SkippedRows))

		// later files only map to tiles at or above their minTile
		limit := uint64(math.MaxUint64)
		if i+1 < len(plan) {
			limit = plan[i+1].minTile
		}

		schema, _ := acc.Schema()
		tilesBefore := writer.Stats()
		err := acc.Tiles().DrainBelow(limit, func(code uint64, values []int32) error {
			if err := writer.WriteTile(code, schema.RowsPerAxis, len(schema.Bands), values); err != nil {
				return err
			}
			written = append(written, code)
			return nil
		})
		if err != nil {
			return Result{}, err
		}
		tilesAfter := writer.Stats()
		r.metrics.TilesWritten.Add(float64(tilesAfter.Tiles - tilesBefore.Tiles))
		r.metrics.TileBytesWritten.Add(float64(tilesAfter.Bytes - tilesBefore.Bytes))

		logger.Info("processed mesh file",
			slog.String("file", in.path),
			slog.Int("rows", after.Rows-before.Rows),
			slog.Int("tiles", tilesAfter.Tiles-tilesBefore.Tiles),
			slog.Int("pending_tiles", acc.Tiles().Len()),
		)
	}

	if opts.WriteIndex {
		if err := writer.WriteIndex(written); err != nil {
			return Result{}, err
		}
	}

	duration := r.clock.Since(start)
	r.metrics.RunDuration.Observe(duration.Seconds())

	stats := acc.Stats()
	ws := writer.Stats()
	logger.Info("mesh tile run complete",
		slog.Int("files", stats.Files),
		slog.Int("rows", stats.Rows),
		slog.Int("tiles", ws.Tiles),
		slog.Int64("bytes", ws.Bytes),
		slog.Duration("duration", duration),
	)

	return Result{
		RunID:        runID,
		OutputDir:    writer.Dir(),
		Files:        stats.Files,
		Rows:         stats.Rows,
		TilesWritten: ws.Tiles,
		Bytes:        ws.Bytes,
		Duration:     duration,
	}, nil
}

func addFile(acc *accumulate.Accumulator, path string) (err error) {
	src, err := meshcsv.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, src.Close())
	}()

	return acc.AddFile(path, src)
}
