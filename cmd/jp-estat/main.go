// Command jp-estat converts e-Stat grid-square (mesh) statistics into mesh
// tiles, merged CSV files or PostgreSQL tables.
//
// Usage:
//
//	jp-estat mesh-tile --level 4 --year 2020 --survey 人口及び世帯 --output-dir out/
//	jp-estat mesh-csv  --level 3 --year 2020 --survey 人口及び世帯 --output out.csv
//	jp-estat mesh      --level 3 --year 2020 --survey 人口及び世帯 --postgres-url postgres://...
//	jp-estat tile-info out/5339.tile
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/KotobaMedia/jp-estat-to-sql/bands"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/fetch"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/config"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/logging"
	"github.com/KotobaMedia/jp-estat-to-sql/meshcsv"
	"github.com/KotobaMedia/jp-estat-to-sql/meshgrid"
	"github.com/KotobaMedia/jp-estat-to-sql/pgimport"
	"github.com/KotobaMedia/jp-estat-to-sql/pipeline"
	"github.com/KotobaMedia/jp-estat-to-sql/survey"
	"github.com/KotobaMedia/jp-estat-to-sql/tile"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("usage error")

const usageText = `usage: jp-estat <command> [flags]

commands:
  mesh-tile   write MTI1 tiles and metadata.json for a mesh survey
  mesh-csv    merge the survey's mesh files into one UTF-8 CSV
  mesh        import the survey's mesh files into PostgreSQL
  tile-info   print the header of a tile file
`

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usageText)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return exitError
	}

	var cmdErr error
	switch args[0] {
	case "mesh-tile":
		cmdErr = meshTile(ctx, cfg, args[1:], stdout, stderr)
	case "mesh-csv":
		cmdErr = meshCSV(ctx, cfg, args[1:], stdout, stderr)
	case "mesh":
		cmdErr = meshImport(ctx, cfg, args[1:], stdout, stderr)
	case "tile-info":
		cmdErr = tileInfo(args[1:], stdout, stderr)
	case "-h", "--help", "help":
		fmt.Fprint(stdout, usageText)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usageText)
		return exitUsage
	}

	switch {
	case cmdErr == nil:
		return exitOK
	case errors.Is(cmdErr, flag.ErrHelp):
		return exitOK
	case errors.Is(cmdErr, errUsage):
		fmt.Fprintln(stderr, "error:", cmdErr)
		return exitUsage
	default:
		fmt.Fprintln(stderr, "error:", cmdErr)
		return exitError
	}
}

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// surveyFlags are shared by every command that resolves a survey.
type surveyFlags struct {
	level    uint
	year     uint
	survey   string
	tmpDir   string
	registry string
	inputs   stringList
}

func (f *surveyFlags) register(fs *flag.FlagSet, cfg *config.Config) {
	fs.UintVar(&f.level, "level", 0, "mesh level of the data (3-6)")
	fs.UintVar(&f.year, "year", 0, "survey year")
	fs.StringVar(&f.survey, "survey", "", "survey name, e.g. 人口及び世帯")
	fs.StringVar(&f.tmpDir, "tmp-dir", cfg.TmpDir, "directory for downloaded archives")
	fs.StringVar(&f.registry, "registry", cfg.RegistryPath, "mesh survey registry JSON overriding the built-in one")
	fs.Var(&f.inputs, "input", "statistics file to read instead of downloading (repeatable)")
}

func (f *surveyFlags) validate() error {
	if f.level < uint(pipeline.MinDataLevel) || f.level > uint(pipeline.MaxDataLevel) {
		return fmt.Errorf("%w: --level must be %d-%d", errUsage, pipeline.MinDataLevel, pipeline.MaxDataLevel)
	}
	if f.year == 0 || f.year > 0xFFFF {
		return fmt.Errorf("%w: --year is required", errUsage)
	}
	if strings.TrimSpace(f.survey) == "" {
		return fmt.Errorf("%w: --survey is required", errUsage)
	}

	return nil
}

func (f *surveyFlags) loadRegistry() (*survey.Registry, error) {
	if f.registry == "" {
		return survey.Default(), nil
	}

	return survey.LoadFile(f.registry)
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}

	return nil
}

// newRunner wires a pipeline.Runner with a downloader rooted at the survey's
// temporary directory.
func newRunner(cfg *config.Config, sf *surveyFlags, logger *slog.Logger) (*pipeline.Runner, error) {
	registry, err := sf.loadRegistry()
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: cfg.DownloadTimeout}
	fetcher := fetch.NewFetcher(client, filepath.Join(sf.tmpDir, "mesh"), cfg.DownloadConcurrency, logger)

	return pipeline.NewRunner(registry,
		pipeline.WithFetcher(fetcher),
		pipeline.WithLogger(logger),
	)
}

func meshTile(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	var (
		sf          surveyFlags
		tileLevel   uint
		bandList    string
		outputDir   string
		compression string
		metricsFile string
		writeIndex  bool
	)
	fs := newFlagSet("mesh-tile", stderr)
	sf.register(fs, cfg)
	fs.UintVar(&tileLevel, "tile-level", 0, "mesh level of each tile (1-6, default: --level)")
	fs.StringVar(&bandList, "bands", "", "comma-separated band names (default: all columns)")
	fs.StringVar(&outputDir, "output-dir", "", "output directory")
	fs.StringVar(&compression, "compression", format.CompressionDeflateRaw.Tag(), "tile compression: "+compressionTags())
	fs.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile")
	fs.BoolVar(&writeIndex, "index", false, "also write tiles.geojson")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := sf.validate(); err != nil {
		return err
	}
	if outputDir == "" {
		return fmt.Errorf("%w: --output-dir is required", errUsage)
	}
	if tileLevel > uint(meshgrid.MaxLevel) {
		return fmt.Errorf("%w: --tile-level must be 1-%d", errUsage, meshgrid.MaxLevel)
	}
	ct, err := format.ParseCompression(compression)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	runner, err := newRunner(cfg, &sf, logger)
	if err != nil {
		return err
	}

	res, err := runner.Run(ctx, pipeline.Options{
		Level:       meshgrid.Level(sf.level),  //nolint: gosec
		TileLevel:   meshgrid.Level(tileLevel), //nolint: gosec
		Year:        uint16(sf.year),           //nolint: gosec
		Survey:      sf.survey,
		Bands:       bands.ParseList(bandList),
		OutputDir:   outputDir,
		InputFiles:  sf.inputs,
		Compression: ct,
		WriteIndex:  writeIndex,
	})
	if metricsFile != "" {
		if merr := runner.Metrics().WriteToTextfile(metricsFile); merr != nil {
			err = errors.Join(err, merr)
		}
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %d tiles to %s\n", res.TilesWritten, res.OutputDir)

	return nil
}

func meshCSV(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	var (
		sf     surveyFlags
		output string
	)
	fs := newFlagSet("mesh-csv", stderr)
	sf.register(fs, cfg)
	fs.StringVar(&output, "output", "", "output CSV file")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := sf.validate(); err != nil {
		return err
	}
	if output == "" {
		return fmt.Errorf("%w: --output is required", errUsage)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	files, _, err := resolveInputs(ctx, cfg, &sf, logger)
	if err != nil {
		return err
	}

	stats, err := meshcsv.MergeFile(ctx, files, output, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "wrote %d rows from %d files to %s\n", stats.Rows, stats.Files, output)

	return nil
}

func meshImport(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) error {
	var (
		sf          surveyFlags
		postgresURL string
	)
	fs := newFlagSet("mesh", stderr)
	sf.register(fs, cfg)
	fs.StringVar(&postgresURL, "postgres-url", cfg.DatabaseURL, "PostgreSQL connection URL (default: $DATABASE_URL)")

	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if err := sf.validate(); err != nil {
		return err
	}
	if postgresURL == "" {
		return fmt.Errorf("%w: --postgres-url or DATABASE_URL is required", errUsage)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	files, desc, err := resolveInputs(ctx, cfg, &sf, logger)
	if err != nil {
		return err
	}

	conn, err := pgx.Connect(ctx, postgresURL)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer conn.Close(context.Background())

	stats, err := pgimport.NewImporter(conn, logger).Import(ctx, desc, files)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "imported %d rows from %d files into %s\n", stats.Rows, stats.Files, stats.Table)

	return nil
}

// resolveInputs looks up the survey and returns its statistics files.
func resolveInputs(ctx context.Context, cfg *config.Config, sf *surveyFlags, logger *slog.Logger) ([]string, survey.Descriptor, error) {
	runner, err := newRunner(cfg, sf, logger)
	if err != nil {
		return nil, survey.Descriptor{}, err
	}

	desc, err := runner.Lookup(uint8(sf.level), uint16(sf.year), sf.survey) //nolint: gosec
	if err != nil {
		return nil, survey.Descriptor{}, err
	}

	files, err := runner.Inputs(ctx, desc, sf.inputs)
	if err != nil {
		return nil, survey.Descriptor{}, err
	}
	if len(files) == 0 {
		return nil, survey.Descriptor{}, fmt.Errorf("%s: %w", desc.StatsID, errs.ErrNoInputFiles)
	}

	return files, desc, nil
}

func tileInfo(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("tile-info", stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: tile-info takes exactly one tile file", errUsage)
	}

	t, err := tile.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	h := t.Header
	fmt.Fprintf(stdout, "tile_id:          %d\n", h.TileID)
	fmt.Fprintf(stdout, "version:          %d\n", h.Version)
	fmt.Fprintf(stdout, "mesh_kind:        %s\n", h.MeshKind)
	fmt.Fprintf(stdout, "dtype:            %s\n", h.DType)
	fmt.Fprintf(stdout, "compression:      %s\n", h.Compression.Tag())
	fmt.Fprintf(stdout, "size:             %dx%dx%d\n", h.Rows, h.Cols, h.Bands)
	if noData, ok := h.NoDataValue(); ok {
		fmt.Fprintf(stdout, "no_data:          %g\n", noData)
	}
	fmt.Fprintf(stdout, "uncompressed_len: %d\n", h.UncompressedLen)
	fmt.Fprintf(stdout, "compressed_len:   %d\n", h.CompressedLen)
	fmt.Fprintf(stdout, "checksum:         %016x\n", h.Checksum)

	return nil
}

func compressionTags() string {
	tags := make([]string, 0, 5)
	for c := format.CompressionNone; c <= format.CompressionDeflateRaw; c++ {
		tags = append(tags, c.Tag())
	}

	return strings.Join(tags, ", ")
}
