package accumulate

import (
	"math"
	"slices"
)

// NoData marks a cell band without an observation.
const NoData int32 = math.MinInt32

// TileSet owns the tile buffers of one run, keyed by tile code.
type TileSet struct {
	tiles map[uint64][]int32
}

// NewTileSet creates an empty TileSet.
func NewTileSet() *TileSet {
	return &TileSet{tiles: make(map[uint64][]int32)}
}

// Len returns the number of tiles.
func (s *TileSet) Len() int {
	return len(s.tiles)
}

// Get returns the buffer of a tile.
func (s *TileSet) Get(code uint64) ([]int32, bool) {
	v, ok := s.tiles[code]
	return v, ok
}

// Codes returns all tile codes in ascending order.
func (s *TileSet) Codes() []uint64 {
	codes := make([]uint64, 0, len(s.tiles))
	for code := range s.tiles {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	return codes
}

// getOrCreate returns the buffer for code, creating it filled with NoData.
func (s *TileSet) getOrCreate(code uint64, size int) []int32 {
	if v, ok := s.tiles[code]; ok {
		return v
	}

	v := make([]int32, size)
	for i := range v {
		v[i] = NoData
	}
	s.tiles[code] = v

	return v
}

// Drain calls fn for every tile in ascending code order and releases each
// buffer once fn returns. It stops at the first error; tiles not yet visited
// stay in the set.
func (s *TileSet) Drain(fn func(code uint64, values []int32) error) error {
	return s.DrainBelow(math.MaxUint64, fn)
}

// DrainBelow is Drain restricted to tile codes below limit. Other tiles stay
// in the set.
func (s *TileSet) DrainBelow(limit uint64, fn func(code uint64, values []int32) error) error {
	for _, code := range s.Codes() {
		if code >= limit {
			break
		}
		if err := fn(code, s.tiles[code]); err != nil {
			return err
		}
		delete(s.tiles, code)
	}

	return nil
}
