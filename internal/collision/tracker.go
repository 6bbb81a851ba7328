// Package collision detects tile codes produced by more than one source file.
//
// e-Stat partitions mesh statistics by first-level mesh, so a tile at level 1
// or finer should only ever receive rows from a single file. The Tracker makes
// that assumption checked instead of implicit.
package collision

import (
	"fmt"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

// Tracker remembers which source first produced each tile code.
type Tracker struct {
	sources map[uint64]string // tile code → source name
}

// NewTracker creates a new tile source tracker.
func NewTracker() *Tracker {
	return &Tracker{sources: make(map[uint64]string)}
}

// Track records that source contributes to the tile.
//
// Repeated calls with the same source are fine. A different source for an
// already tracked tile returns errs.ErrTileSourceOverlap naming both sources.
func (t *Tracker) Track(tile uint64, source string) error {
	if existing, ok := t.sources[tile]; ok {
		if existing != source {
			return fmt.Errorf("%w: tile %d from %s and %s", errs.ErrTileSourceOverlap, tile, existing, source)
		}

		return nil
	}
	t.sources[tile] = source

	return nil
}

// Count returns the number of tracked tiles.
func (t *Tracker) Count() int {
	return len(t.sources)
}
