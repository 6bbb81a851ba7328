package jismesh

import (
	"fmt"
	"strconv"

	"github.com/paulmach/orb"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

// cell sizes in degrees, indexed by standard level
var (
	latSize = [...]float64{0, 2.0 / 3.0, 1.0 / 12.0, 1.0 / 120.0, 1.0 / 240.0, 1.0 / 480.0, 1.0 / 960.0}
	lngSize = [...]float64{0, 1.0, 1.0 / 8.0, 1.0 / 80.0, 1.0 / 160.0, 1.0 / 320.0, 1.0 / 640.0}
)

// Bounds returns the lng/lat extent of a standard mesh cell (JGD2011 degrees).
func Bounds(code uint64) (orb.Bound, error) {
	level, err := ToMeshLevel(code)
	if err != nil {
		return orb.Bound{}, err
	}
	n, ok := level.Standard()
	if !ok {
		return orb.Bound{}, fmt.Errorf("%w: %d is %s", errs.ErrNonStandardLevel, code, level)
	}

	s := strconv.FormatUint(code, 10)
	d := func(i int) int { return int(s[i] - '0') }

	lat := float64(d(0)*10+d(1)) * latSize[1]
	lng := float64(d(2)*10+d(3)) + 100

	if n >= 2 {
		if d(4) > 7 || d(5) > 7 {
			return orb.Bound{}, fmt.Errorf("%w: %s", errs.ErrInvalidSubdivisionDigit, s)
		}
		lat += float64(d(4)) * latSize[2]
		lng += float64(d(5)) * lngSize[2]
	}
	if n >= 3 {
		lat += float64(d(6)) * latSize[3]
		lng += float64(d(7)) * lngSize[3]
	}
	for l := 4; l <= int(n); l++ {
		switch s[l+4] {
		case '1':
		case '2':
			lng += lngSize[l]
		case '3':
			lat += latSize[l]
		case '4':
			lat += latSize[l]
			lng += lngSize[l]
		default:
			return orb.Bound{}, fmt.Errorf("%w: %s", errs.ErrInvalidQuadrant, s)
		}
	}

	return orb.Bound{
		Min: orb.Point{lng, lat},
		Max: orb.Point{lng + lngSize[n], lat + latSize[n]},
	}, nil
}
