// Package meshcsvtest writes Shift_JIS mesh statistics fixtures for tests.
package meshcsvtest

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"
)

// StandardCodes is a typical code header row with two statistics columns.
var StandardCodes = []string{"KEY_CODE", "HTKSYORI", "HTKSAKI", "GASSAN", "T001140001", "T001140002"}

// StandardLabels is the label row matching StandardCodes.
var StandardLabels = []string{"", "", "", "", "人口（総数）", "人口（男）"}

// Encode renders rows as Shift_JIS CSV with CRLF line endings.
func Encode(t testing.TB, rows [][]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true
	require.NoError(t, w.WriteAll(rows))

	encoded, err := japanese.ShiftJIS.NewEncoder().Bytes(buf.Bytes())
	require.NoError(t, err)

	return encoded
}

// WriteFile writes rows as a Shift_JIS CSV file in dir and returns its path.
func WriteFile(t testing.TB, dir, name string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, Encode(t, rows), 0o600))

	return path
}

// WithHeaders prepends StandardCodes and StandardLabels to data rows.
func WithHeaders(data ...[]string) [][]string {
	rows := make([][]string, 0, len(data)+2)
	rows = append(rows, StandardCodes, StandardLabels)

	return append(rows, data...)
}
