package pgimport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/survey"
)

// Column types of a mesh statistics table.
const (
	TypeBigInt      = "BIGINT"
	TypeBigIntArray = "BIGINT[]"
	TypeSmallInt    = "SMALLINT"
	TypeInteger     = "INTEGER"
)

// TableName returns jp_estat_mesh_<year>_<statsid>_<level>.
func TableName(d survey.Descriptor) string {
	return fmt.Sprintf("jp_estat_mesh_%d_%s_%d", d.Year, d.StatsID, d.MeshLevel)
}

// ColumnType returns the SQL type of a normalized column name.
func ColumnType(name string) string {
	switch name {
	case "KEY_CODE", "HTKSAKI":
		return TypeBigInt
	case "GASSAN":
		return TypeBigIntArray
	case "HTKSYORI":
		return TypeSmallInt
	default:
		return TypeInteger
	}
}

// ConvertValue parses one cell for its column. Blank and "*" cells are NULL
// and come back as nil. GASSAN holds ";"-separated mesh codes.
func ConvertValue(column, raw string) (any, error) {
	v := strings.TrimSpace(raw)
	if v == "" || v == "*" {
		return nil, nil
	}

	switch ColumnType(column) {
	case TypeBigInt:
		n, err := parseInt(v, 64)
		if err != nil {
			return nil, err
		}
		return n, nil
	case TypeSmallInt:
		n, err := parseInt(v, 16)
		if err != nil {
			return nil, err
		}
		return int16(n), nil
	case TypeBigIntArray:
		parts := strings.Split(v, ";")
		out := make([]int64, len(parts))
		for i, p := range parts {
			n, err := parseInt(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		n, err := parseInt(v, 32)
		if err != nil {
			return nil, err
		}
		return int32(n), nil
	}
}

func parseInt(v string, bits int) (int64, error) {
	n, err := strconv.ParseInt(v, 10, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s", errs.ErrValueOutOfRange, v)
		}
		return 0, fmt.Errorf("%w: %q", errs.ErrInvalidInteger, v)
	}

	return n, nil
}
