package meshgrid

import (
	"fmt"
	"strconv"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

// TileAddress locates a data-level mesh cell inside its tile.
// Row counts from the top (north) edge of the tile.
type TileAddress struct {
	TileCode uint64
	Row      int
	Col      int
}

// MapMeshCodeToTile returns the tile and raster cell of a data-level mesh code.
//
// Parameters:
//   - code: mesh code at dataLevel
//   - dataLevel: level of code
//   - tileLevel: level of the tile, <= dataLevel
//   - rowsPerAxis: SubdivisionsPerAxis(tileLevel, dataLevel)
//
// Returns:
//   - TileAddress: tile code (the first DigitsForLevel(tileLevel) digits of code)
//     and the top-origin row and column
//   - error: errs.ErrMalformedMeshCode, errs.ErrInvalidSubdivisionDigit,
//     errs.ErrInvalidQuadrant or errs.ErrTileCoordinateOutOfRange
func MapMeshCodeToTile(code uint64, dataLevel, tileLevel Level, rowsPerAxis int) (TileAddress, error) {
	if tileLevel > dataLevel {
		return TileAddress{}, fmt.Errorf("%w: tile level %d, data level %d", errs.ErrInvalidLevelOrdering, tileLevel, dataLevel)
	}

	digits := strconv.FormatUint(code, 10)
	want, err := DigitsForLevel(dataLevel)
	if err != nil {
		return TileAddress{}, err
	}
	if len(digits) != want {
		return TileAddress{}, fmt.Errorf("%w: %s has %d digits, level %d needs %d",
			errs.ErrMalformedMeshCode, digits, len(digits), dataLevel, want)
	}

	tileDigits, err := DigitsForLevel(tileLevel)
	if err != nil {
		return TileAddress{}, err
	}
	tileCode, err := strconv.ParseUint(digits[:tileDigits], 10, 64)
	if err != nil {
		return TileAddress{}, fmt.Errorf("%w: %s", errs.ErrMalformedMeshCode, digits)
	}

	row, col := 0, 0
	for l := tileLevel + 1; l <= dataLevel; l++ {
		factor, err := RefinementFactor(l)
		if err != nil {
			return TileAddress{}, err
		}
		subRow, subCol, err := subCell(digits, l)
		if err != nil {
			return TileAddress{}, fmt.Errorf("mesh code %s: %w", digits, err)
		}
		row = row*factor + subRow
		col = col*factor + subCol
	}

	if row >= rowsPerAxis || col >= rowsPerAxis {
		return TileAddress{}, fmt.Errorf("%w: mesh code %s maps to (%d, %d), tile is %d × %d",
			errs.ErrTileCoordinateOutOfRange, digits, row, col, rowsPerAxis, rowsPerAxis)
	}

	return TileAddress{
		TileCode: tileCode,
		Row:      rowsPerAxis - 1 - row,
		Col:      col,
	}, nil
}

// subCell decodes the south-origin position of a level-l cell inside its parent.
func subCell(digits string, l Level) (int, int, error) {
	switch l {
	case 2:
		return digitPair(digits, 4, 7)
	case 3:
		return digitPair(digits, 6, 9)
	case 4, 5, 6:
		pos := int(l) + 4
		q := digits[pos]
		switch q {
		case '1':
			return 0, 0, nil
		case '2':
			return 0, 1, nil
		case '3':
			return 1, 0, nil
		case '4':
			return 1, 1, nil
		default:
			return 0, 0, fmt.Errorf("%w: %q at position %d", errs.ErrInvalidQuadrant, q, pos)
		}
	default:
		return 0, 0, fmt.Errorf("%w: level %d", errs.ErrUnsupportedLevel, l)
	}
}

func digitPair(digits string, pos int, maxDigit int) (int, int, error) {
	row := int(digits[pos] - '0')
	col := int(digits[pos+1] - '0')
	if row < 0 || row > maxDigit || col < 0 || col > maxDigit {
		return 0, 0, fmt.Errorf("%w: %q at positions %d-%d must be 0-%d",
			errs.ErrInvalidSubdivisionDigit, digits[pos:pos+2], pos, pos+1, maxDigit)
	}

	return row, col, nil
}

// TileCodeOf truncates a data-level mesh code to the tile level.
func TileCodeOf(code uint64, dataLevel, tileLevel Level) (uint64, error) {
	if tileLevel > dataLevel {
		return 0, fmt.Errorf("%w: tile level %d, data level %d", errs.ErrInvalidLevelOrdering, tileLevel, dataLevel)
	}
	digits := strconv.FormatUint(code, 10)
	want, err := DigitsForLevel(dataLevel)
	if err != nil {
		return 0, err
	}
	if len(digits) != want {
		return 0, fmt.Errorf("%w: %s is not a level %d code", errs.ErrMalformedMeshCode, digits, dataLevel)
	}
	tileDigits, err := DigitsForLevel(tileLevel)
	if err != nil {
		return 0, err
	}

	return strconv.ParseUint(digits[:tileDigits], 10, 64)
}
