package bands

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

var (
	codeRow  = []string{"KEY_CODE", "HTKSYORI", "HTKSAKI", "GASSAN", "T001140001", "T001140002", "T001140003"}
	labelRow = []string{"", "", "", "", "人口（総数）", "人口　（男）", " "}
)

func TestNormalizeHeaders(t *testing.T) {
	got := NormalizeHeaders(codeRow, labelRow)
	require.Equal(t, []string{"KEY_CODE", "HTKSYORI", "HTKSAKI", "GASSAN", "人口（総数）", "人口（男）", "T001140003"}, got)

	t.Run("label row wider than code row", func(t *testing.T) {
		got := NormalizeHeaders([]string{"A"}, []string{"", "", "x"})
		require.Equal(t, []string{"A", "", "x"}, got)
	})

	t.Run("trims code fallback", func(t *testing.T) {
		got := NormalizeHeaders([]string{" KEY_CODE　"}, []string{""})
		require.Equal(t, []string{"KEY_CODE"}, got)
	})
}

func TestBuildAvailable(t *testing.T) {
	normalized := NormalizeHeaders(codeRow, labelRow)
	available, err := BuildAvailable(codeRow, normalized)
	require.NoError(t, err)
	require.Equal(t, []Band{
		{SourceIndex: 4, Name: "人口（総数）"},
		{SourceIndex: 5, Name: "人口（男）"},
		{SourceIndex: 6, Name: "T001140003"},
	}, available)

	_, err = BuildAvailable(codeRow[:5], normalized)
	require.ErrorIs(t, err, errs.ErrHeaderColumnCountMismatch)

	_, err = BuildAvailable(codeRow[:4], normalized[:4])
	require.ErrorIs(t, err, errs.ErrNoStatColumns)
}

func TestResolve(t *testing.T) {
	available := []Band{{SourceIndex: 4, Name: "A"}, {SourceIndex: 5, Name: "B"}, {SourceIndex: 6, Name: "C"}}

	t.Run("nil selects all in source order", func(t *testing.T) {
		got, err := Resolve(available, nil)
		require.NoError(t, err)
		require.Equal(t, available, got)

		// result is a copy
		got[0].Name = "changed"
		require.Equal(t, "A", available[0].Name)
	})

	t.Run("request order wins", func(t *testing.T) {
		got, err := Resolve(available, []string{"B", "A"})
		require.NoError(t, err)
		require.Equal(t, []Band{{SourceIndex: 5, Name: "B"}, {SourceIndex: 4, Name: "A"}}, got)
	})

	t.Run("names are trimmed", func(t *testing.T) {
		got, err := Resolve(available, []string{" C "})
		require.NoError(t, err)
		require.Equal(t, []Band{{SourceIndex: 6, Name: "C"}}, got)
	})

	t.Run("unknown band names the band", func(t *testing.T) {
		_, err := Resolve(available, []string{"UNKNOWN"})
		require.ErrorIs(t, err, errs.ErrUnknownBand)
		require.Contains(t, err.Error(), "UNKNOWN")
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := Resolve(available, []string{"A", "B", " A"})
		require.ErrorIs(t, err, errs.ErrDuplicateBand)
	})

	t.Run("empty request", func(t *testing.T) {
		_, err := Resolve(available, []string{})
		require.ErrorIs(t, err, errs.ErrEmptyBandList)
	})

	t.Run("blank entry", func(t *testing.T) {
		_, err := Resolve(available, []string{"A", "  "})
		require.ErrorIs(t, err, errs.ErrEmptyBandList)
	})

	t.Run("no available bands", func(t *testing.T) {
		_, err := Resolve(nil, nil)
		require.ErrorIs(t, err, errs.ErrNoStatColumns)
	})

	t.Run("too many bands", func(t *testing.T) {
		wide := make([]Band, MaxBands+1)
		for i := range wide {
			wide[i] = Band{SourceIndex: DataColumnStart + i, Name: fmt.Sprintf("b%d", i)}
		}
		_, err := Resolve(wide, nil)
		require.ErrorIs(t, err, errs.ErrTooManyBands)

		got, err := Resolve(wide, []string{"b0", "b255"})
		require.NoError(t, err)
		require.Len(t, got, 2)
	})
}

func TestParseList(t *testing.T) {
	require.Nil(t, ParseList(""))
	require.Equal(t, []string{"A", "B"}, ParseList("A,B"))
	// blank entries survive so Resolve can reject them
	require.Equal(t, []string{"A", ""}, ParseList("A,"))
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{"B", "A"}, Names([]Band{{5, "B"}, {4, "A"}}))
	require.Empty(t, Names(nil))
}
