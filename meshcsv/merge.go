package meshcsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/KotobaMedia/jp-estat-to-sql/bands"
	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/logging"
)

// MergeStats summarizes a Merge call.
type MergeStats struct {
	Files int
	Rows  int
}

// Merge concatenates mesh statistics files into one UTF-8 CSV.
//
// The output starts with a single normalized header row (see
// bands.NormalizeHeaders) followed by every data row of every file, in the
// order of files. Every file must have the same normalized header as the
// first one, otherwise Merge fails with errs.ErrHeaderMismatch.
func Merge(ctx context.Context, files []string, w io.Writer, logger *slog.Logger) (MergeStats, error) {
	logger = logging.OrDiscard(logger)
	if len(files) == 0 {
		return MergeStats{}, errs.ErrNoInputFiles
	}

	out := csv.NewWriter(w)

	var (
		stats    MergeStats
		expected []string
	)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		rows, header, err := mergeFile(path, out, expected)
		if err != nil {
			return stats, err
		}
		if expected == nil {
			expected = header
		}

		stats.Files++
		stats.Rows += rows
		logger.Debug("merged mesh csv", slog.String("file", path), slog.Int("rows", rows))
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return stats, err
	}

	return stats, nil
}

func mergeFile(path string, out *csv.Writer, expected []string) (int, []string, error) {
	r, err := Open(path)
	if err != nil {
		return 0, nil, err
	}
	defer r.Close()

	codes, labels, err := r.Headers()
	if err != nil {
		return 0, nil, err
	}

	header := bands.NormalizeHeaders(codes, labels)
	if expected == nil {
		if err := out.Write(header); err != nil {
			return 0, nil, err
		}
	} else if !slices.Equal(expected, header) {
		return 0, nil, fmt.Errorf("%w: %s", errs.ErrHeaderMismatch, path)
	}

	rows := 0
	for {
		rec, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, nil, err
		}
		if err := out.Write(rec); err != nil {
			return rows, nil, err
		}
		rows++
	}

	return rows, header, nil
}

// MergeFile runs Merge into the file at output, creating parent directories.
func MergeFile(ctx context.Context, files []string, output string, logger *slog.Logger) (MergeStats, error) {
	if dir := filepath.Dir(output); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return MergeStats{}, err
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return MergeStats{}, err
	}

	stats, err := Merge(ctx, files, f, logger)
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	return stats, err
}
