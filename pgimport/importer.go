// Package pgimport loads e-Stat mesh statistics files into PostgreSQL.
//
// One table is created per survey descriptor from the first file's header,
// replacing any earlier table of the same name. Every file is then copied in
// with COPY inside its own transaction.
package pgimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/KotobaMedia/jp-estat-to-sql/bands"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/logging"
	"github.com/KotobaMedia/jp-estat-to-sql/meshcsv"
	"github.com/KotobaMedia/jp-estat-to-sql/survey"
)

// DB is satisfied by *pgx.Conn and *pgxpool.Pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Stats counts one import.
type Stats struct {
	Table string
	Files int
	Rows  int64
}

// Importer copies mesh files into PostgreSQL.
type Importer struct {
	db     DB
	logger *slog.Logger
}

// NewImporter creates an Importer.
func NewImporter(db DB, logger *slog.Logger) *Importer {
	return &Importer{db: db, logger: logging.OrDiscard(logger)}
}

// CreateTableSQL returns the CREATE TABLE statement for the columns.
func CreateTableSQL(table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " " + ColumnType(c)
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", pgx.Identifier{table}.Sanitize(), strings.Join(defs, ", "))
}

// Import recreates the descriptor's table and copies every file into it.
func (im *Importer) Import(ctx context.Context, desc survey.Descriptor, files []string) (Stats, error) {
	if len(files) == 0 {
		return Stats{}, errs.ErrNoInputFiles
	}

	columns, err := readColumns(files[0])
	if err != nil {
		return Stats{}, err
	}

	table := TableName(desc)
	stats := Stats{Table: table}
	if _, err := im.db.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{table}.Sanitize()); err != nil {
		return stats, fmt.Errorf("dropping %s: %w", table, err)
	}
	if _, err := im.db.Exec(ctx, CreateTableSQL(table, columns)); err != nil {
		return stats, fmt.Errorf("creating %s: %w", table, err)
	}
	im.logger.Info("created table", slog.String("table", table), slog.Int("columns", len(columns)))

	for _, file := range files {
		n, err := im.importFile(ctx, file, table, columns)
		if err != nil {
			return stats, fmt.Errorf("importing %s: %w", file, err)
		}
		stats.Files++
		stats.Rows += n

		im.logger.Info("imported file", slog.String("file", file), slog.Int64("rows", n))
	}

	return stats, nil
}

func readColumns(path string) ([]string, error) {
	r, err := meshcsv.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	codes, labels, err := r.Headers()
	if err != nil {
		return nil, err
	}

	return bands.NormalizeHeaders(codes, labels), nil
}

func (im *Importer) importFile(ctx context.Context, path, table string, columns []string) (int64, error) {
	r, err := meshcsv.Open(path)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	codes, labels, err := r.Headers()
	if err != nil {
		return 0, err
	}
	if !slices.Equal(bands.NormalizeHeaders(codes, labels), columns) {
		return 0, errs.ErrHeaderMismatch
	}

	tx, err := im.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint: errcheck

	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, NewCopySource(r, columns))
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	return n, nil
}

// RecordReader yields CSV records; io.EOF ends the stream.
type RecordReader interface {
	Next() ([]string, error)
	Line() int
}

// CopySource adapts a RecordReader to pgx.CopyFromSource, converting each
// cell with ConvertValue. Missing trailing cells are NULL.
type CopySource struct {
	src     RecordReader
	columns []string
	values  []any
	err     error
}

var _ pgx.CopyFromSource = (*CopySource)(nil)

// NewCopySource creates a CopySource.
func NewCopySource(src RecordReader, columns []string) *CopySource {
	return &CopySource{src: src, columns: columns}
}

// Next advances to the next record.
func (s *CopySource) Next() bool {
	if s.err != nil {
		return false
	}

	rec, err := s.src.Next()
	if errors.Is(err, io.EOF) {
		return false
	}
	if err != nil {
		s.err = err
		return false
	}

	values := make([]any, len(s.columns))
	for i, col := range s.columns {
		raw := ""
		if i < len(rec) {
			raw = rec[i]
		}
		v, err := ConvertValue(col, raw)
		if err != nil {
			s.err = fmt.Errorf("line %d, column '%s': %w", s.src.Line(), col, err)
			return false
		}
		values[i] = v
	}
	s.values = values

	return true
}

// Values returns the converted current record.
func (s *CopySource) Values() ([]any, error) {
	return s.values, nil
}

// Err returns the first read or conversion error.
func (s *CopySource) Err() error {
	return s.err
}
