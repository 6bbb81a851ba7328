package meshgrid

import (
	"fmt"
	"math"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

// Level is a standard mesh level, 1 (coarsest) to 6 (finest).
type Level uint8

const (
	MinLevel Level = 1
	MaxLevel Level = 6
)

var digitsByLevel = [...]int{0, 4, 6, 8, 9, 10, 11}

// Validate returns errs.ErrUnsupportedLevel unless 1 <= l <= 6.
func (l Level) Validate() error {
	if l < MinLevel || l > MaxLevel {
		return fmt.Errorf("%w: %d", errs.ErrUnsupportedLevel, l)
	}

	return nil
}

// Name returns the human name used in metadata, e.g. "Lv3".
func (l Level) Name() string {
	return fmt.Sprintf("Lv%d", uint8(l))
}

// DigitsForLevel returns the number of decimal digits of a mesh code at level.
func DigitsForLevel(level Level) (int, error) {
	if err := level.Validate(); err != nil {
		return 0, err
	}

	return digitsByLevel[level], nil
}

// RefinementFactor returns the per-axis split going from level next-1 to next.
func RefinementFactor(next Level) (int, error) {
	switch next {
	case 2:
		return 8, nil
	case 3:
		return 10, nil
	case 4, 5, 6:
		return 2, nil
	default:
		return 0, fmt.Errorf("%w: no refinement into level %d", errs.ErrUnsupportedLevel, next)
	}
}

// SubdivisionsPerAxis returns how many data-level cells span one tile-level
// cell along each axis.
//
// Returns errs.ErrInvalidLevelOrdering when tileLevel > dataLevel, and
// errs.ErrResolutionOverflow if the product does not fit in an int.
func SubdivisionsPerAxis(tileLevel, dataLevel Level) (int, error) {
	if err := tileLevel.Validate(); err != nil {
		return 0, err
	}
	if err := dataLevel.Validate(); err != nil {
		return 0, err
	}
	if tileLevel > dataLevel {
		return 0, fmt.Errorf("%w: tile level %d, data level %d", errs.ErrInvalidLevelOrdering, tileLevel, dataLevel)
	}

	n := 1
	for l := tileLevel + 1; l <= dataLevel; l++ {
		f, err := RefinementFactor(l)
		if err != nil {
			return 0, err
		}
		n, err = checkedMul(n, f)
		if err != nil {
			return 0, err
		}
	}

	return n, nil
}

// CellCount returns rowsPerAxis² × bands, the value count of one tile buffer.
func CellCount(rowsPerAxis, bands int) (int, error) {
	if rowsPerAxis <= 0 || bands <= 0 {
		return 0, fmt.Errorf("%w: %d rows per axis, %d bands", errs.ErrResolutionOverflow, rowsPerAxis, bands)
	}

	cells, err := checkedMul(rowsPerAxis, rowsPerAxis)
	if err != nil {
		return 0, err
	}

	return checkedMul(cells, bands)
}

func checkedMul(a, b int) (int, error) {
	if a != 0 && b > math.MaxInt/a {
		return 0, fmt.Errorf("%w: %d × %d", errs.ErrResolutionOverflow, a, b)
	}

	return a * b, nil
}
