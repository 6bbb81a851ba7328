// Package bands turns the two header rows of an e-Stat mesh CSV into the
// ordered list of statistical columns written as tile bands.
package bands

import (
	"fmt"
	"strings"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

// DataColumnStart is the index of the first statistical column. The columns
// before it are KEY_CODE, HTKSYORI, HTKSAKI and GASSAN.
const DataColumnStart = 4

// MaxBands is the largest band count a tile header can hold.
const MaxBands = 255

// Band is one selected statistical column.
type Band struct {
	// SourceIndex is the column index in the CSV record.
	SourceIndex int
	Name        string
}

// NormalizeHeaders merges the code row and the label row into column names.
//
// Each column uses its label unless the label is blank, in which case the code
// is used. Names are trimmed and ideographic spaces (U+3000) are removed. The
// result has one entry per label column.
func NormalizeHeaders(codeRow, labelRow []string) []string {
	out := make([]string, len(labelRow))
	for i, label := range labelRow {
		col := label
		if strings.TrimSpace(label) == "" {
			col = ""
			if i < len(codeRow) {
				col = codeRow[i]
			}
		}
		out[i] = strings.ReplaceAll(strings.TrimSpace(col), "\u3000", "")
	}

	return out
}

// BuildAvailable lists every statistical column in source order.
func BuildAvailable(codeRow, normalized []string) ([]Band, error) {
	if len(codeRow) != len(normalized) {
		return nil, fmt.Errorf("%w: %d codes, %d names", errs.ErrHeaderColumnCountMismatch, len(codeRow), len(normalized))
	}
	if len(codeRow) <= DataColumnStart {
		return nil, errs.ErrNoStatColumns
	}

	available := make([]Band, 0, len(codeRow)-DataColumnStart)
	for i := DataColumnStart; i < len(codeRow); i++ {
		available = append(available, Band{SourceIndex: i, Name: normalized[i]})
	}

	return available, nil
}

// Resolve selects bands by name.
//
// A nil request selects every available band in source order. Otherwise the
// result follows the request order; names are trimmed before matching.
//
// Returns errs.ErrEmptyBandList for an empty request or blank name,
// errs.ErrUnknownBand for a name not in available, errs.ErrDuplicateBand when
// two names select the same column, and errs.ErrTooManyBands above MaxBands.
func Resolve(available []Band, requested []string) ([]Band, error) {
	if len(available) == 0 {
		return nil, errs.ErrNoStatColumns
	}

	if requested == nil {
		if len(available) > MaxBands {
			return nil, fmt.Errorf("%w: %d > %d", errs.ErrTooManyBands, len(available), MaxBands)
		}
		out := make([]Band, len(available))
		copy(out, available)

		return out, nil
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("%w: no bands specified", errs.ErrEmptyBandList)
	}

	selected := make([]Band, 0, len(requested))
	used := make(map[int]struct{}, len(requested))
	for _, name := range requested {
		key := strings.TrimSpace(name)
		if key == "" {
			return nil, fmt.Errorf("%w: blank band name", errs.ErrEmptyBandList)
		}

		band, ok := find(available, key)
		if !ok {
			return nil, fmt.Errorf("%w: '%s'", errs.ErrUnknownBand, key)
		}
		if _, dup := used[band.SourceIndex]; dup {
			return nil, fmt.Errorf("%w: %s", errs.ErrDuplicateBand, key)
		}
		used[band.SourceIndex] = struct{}{}
		selected = append(selected, band)
	}

	if len(selected) > MaxBands {
		return nil, fmt.Errorf("%w: %d > %d", errs.ErrTooManyBands, len(selected), MaxBands)
	}

	return selected, nil
}

// first match wins when two columns share a name
func find(available []Band, name string) (Band, bool) {
	for _, b := range available {
		if b.Name == name {
			return b, true
		}
	}

	return Band{}, false
}

// ParseList splits a comma-separated --bands flag. An empty flag returns nil,
// meaning "all bands".
func ParseList(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, ",")
}

// Names returns the band names in order.
func Names(selected []Band) []string {
	names := make([]string, len(selected))
	for i, b := range selected {
		names[i] = b.Name
	}

	return names
}
