package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IndependentRegistries(t *testing.T) {
	a := New()
	b := New()

	a.TilesWritten.Add(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(a.TilesWritten))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.TilesWritten))
}

func TestMetrics_Gather(t *testing.T) {
	m := New()
	m.FilesProcessed.Inc()
	m.ArchivesFetched.WithLabelValues("cached").Add(2)
	m.RunDuration.Observe(12)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "jp_estat_files_processed_total")
	assert.Contains(t, names, "jp_estat_archives_fetched_total")
	assert.Contains(t, names, "jp_estat_run_duration_seconds")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ArchivesFetched.WithLabelValues("cached")))
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	m := New()
	m.RowsProcessed.Add(42)

	path := filepath.Join(t.TempDir(), "jp_estat.prom")
	require.NoError(t, m.WriteToTextfile(path))

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "jp_estat_rows_processed_total 42")
}
