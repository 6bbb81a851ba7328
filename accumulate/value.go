package accumulate

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

// ParseValue converts one statistics cell.
//
// A blank cell or "*" (suppressed by e-Stat) is NoData. Anything else must be
// an integer within int32 range.
func ParseValue(s string) (int32, error) {
	v := strings.TrimSpace(s)
	if v == "" || v == "*" {
		return NoData, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s", errs.ErrValueOutOfRange, v)
		}

		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidInteger, v)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d", errs.ErrValueOutOfRange, n)
	}

	return int32(n), nil
}
