package pipeline

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/KotobaMedia/jp-estat-to-sql/meshcsv"
	"github.com/KotobaMedia/jp-estat-to-sql/meshgrid"
)

// plannedInput is an input file with the smallest tile code its rows map to.
type plannedInput struct {
	path    string
	minTile uint64
}

// planInputs orders files by their smallest tile code, then by path.
//
// Tiles below the next file's minTile cannot receive more rows, which is what
// lets Run write tiles between files and still emit them in ascending order.
// Files with no usable rows sort last; their real errors surface during
// accumulation.
func planInputs(files []string, dataLevel, tileLevel meshgrid.Level) ([]plannedInput, error) {
	plan := make([]plannedInput, len(files))
	for i, path := range files {
		minTile, err := minTileCode(path, dataLevel, tileLevel)
		if err != nil {
			return nil, err
		}
		plan[i] = plannedInput{path: path, minTile: minTile}
	}

	slices.SortStableFunc(plan, func(a, b plannedInput) int {
		if c := cmp.Compare(a.minTile, b.minTile); c != 0 {
			return c
		}
		return cmp.Compare(a.path, b.path)
	})

	return plan, nil
}

// minTileCode scans the mesh code column of a file. Rows that do not parse
// are ignored here.
func minTileCode(path string, dataLevel, tileLevel meshgrid.Level) (uint64, error) {
	src, err := meshcsv.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = src.Close() }()

	minTile := uint64(math.MaxUint64)
	if _, _, err := src.Headers(); err != nil {
		return minTile, nil
	}

	for {
		rec, err := src.Next()
		if err != nil {
			// io.EOF, or a read error that accumulation reports with context
			return minTile, nil
		}
		if len(rec) == 0 {
			continue
		}

		code, err := strconv.ParseUint(strings.TrimSpace(rec[0]), 10, 64)
		if err != nil {
			continue
		}
		tileCode, err := meshgrid.TileCodeOf(code, dataLevel, tileLevel)
		if err != nil {
			continue
		}
		minTile = min(minTile, tileCode)
	}
}
