package pgimport

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/meshcsv"
	"github.com/KotobaMedia/jp-estat-to-sql/meshcsv/meshcsvtest"
	"github.com/KotobaMedia/jp-estat-to-sql/survey"
)

type fakeDB struct {
	execs     []string
	txs       []*fakeTx
	copyErr   error
	committed int
}

func (db *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	db.execs = append(db.execs, sql)
	return pgconn.CommandTag{}, nil
}

func (db *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	tx := &fakeTx{db: db}
	db.txs = append(db.txs, tx)
	return tx, nil
}

// fakeTx implements the parts of pgx.Tx the importer uses.
type fakeTx struct {
	pgx.Tx
	db      *fakeDB
	table   pgx.Identifier
	columns []string
	rows    [][]any
	done    bool
}

func (tx *fakeTx) CopyFrom(_ context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	if tx.db.copyErr != nil {
		return 0, tx.db.copyErr
	}
	tx.table = table
	tx.columns = columns
	for src.Next() {
		v, err := src.Values()
		if err != nil {
			return 0, err
		}
		tx.rows = append(tx.rows, v)
	}
	if err := src.Err(); err != nil {
		return 0, err
	}
	return int64(len(tx.rows)), nil
}

func (tx *fakeTx) Commit(context.Context) error {
	tx.done = true
	tx.db.committed++
	return nil
}

func (tx *fakeTx) Rollback(context.Context) error {
	tx.done = true
	return nil
}

var testDescriptor = survey.Descriptor{Name: "人口及び世帯", Year: 2020, MeshLevel: 3, StatsID: "T001140"}

func TestImporter_Import(t *testing.T) {
	dir := t.TempDir()
	a := meshcsvtest.WriteFile(t, dir, "a.txt", meshcsvtest.WithHeaders(
		[]string{"53393599", "1", "", "", "120", "*"},
		[]string{"53393598", "2", "53393599", "53393598;53393599", "7"},
	))
	b := meshcsvtest.WriteFile(t, dir, "b.txt", meshcsvtest.WithHeaders(
		[]string{"54393599", "1", "", "", "3", "1"},
	))

	db := &fakeDB{}
	stats, err := NewImporter(db, nil).Import(context.Background(), testDescriptor, []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, Stats{Table: "jp_estat_mesh_2020_T001140_3", Files: 2, Rows: 3}, stats)

	require.Len(t, db.execs, 2)
	assert.Equal(t, `DROP TABLE IF EXISTS "jp_estat_mesh_2020_T001140_3"`, db.execs[0])
	assert.Contains(t, db.execs[1], `"HTKSYORI" SMALLINT`)
	assert.Contains(t, db.execs[1], `"人口（男）" INTEGER`)

	require.Len(t, db.txs, 2)
	assert.Equal(t, 2, db.committed)
	first := db.txs[0]
	assert.Equal(t, pgx.Identifier{"jp_estat_mesh_2020_T001140_3"}, first.table)
	assert.Equal(t, []string{"KEY_CODE", "HTKSYORI", "HTKSAKI", "GASSAN", "人口（総数）", "人口（男）"}, first.columns)
	assert.Equal(t, []any{int64(53393599), int16(1), nil, nil, int32(120), nil}, first.rows[0])
	assert.Equal(t, []any{int64(53393598), int16(2), int64(53393599), []int64{53393598, 53393599}, int32(7), nil}, first.rows[1])
}

func TestImporter_Errors(t *testing.T) {
	dir := t.TempDir()
	good := meshcsvtest.WriteFile(t, dir, "good.txt", meshcsvtest.WithHeaders(
		[]string{"53393599", "1", "", "", "1", "1"},
	))

	t.Run("no files", func(t *testing.T) {
		_, err := NewImporter(&fakeDB{}, nil).Import(context.Background(), testDescriptor, nil)
		require.ErrorIs(t, err, errs.ErrNoInputFiles)
	})

	t.Run("header mismatch", func(t *testing.T) {
		other := meshcsvtest.WriteFile(t, dir, "other.txt", [][]string{
			meshcsvtest.StandardCodes,
			{"", "", "", "", "世帯数", "人口（男）"},
		})
		db := &fakeDB{}
		stats, err := NewImporter(db, nil).Import(context.Background(), testDescriptor, []string{good, other})
		require.ErrorIs(t, err, errs.ErrHeaderMismatch)
		assert.Contains(t, err.Error(), "other.txt")
		assert.Equal(t, 1, stats.Files)
	})

	t.Run("bad value rolls back", func(t *testing.T) {
		bad := meshcsvtest.WriteFile(t, dir, "bad.txt", meshcsvtest.WithHeaders(
			[]string{"53393599", "1", "", "", "x", "1"},
		))
		db := &fakeDB{}
		_, err := NewImporter(db, nil).Import(context.Background(), testDescriptor, []string{bad})
		require.ErrorIs(t, err, errs.ErrInvalidInteger)
		assert.Contains(t, err.Error(), "line 3")
		assert.Zero(t, db.committed)
		require.Len(t, db.txs, 1)
		assert.True(t, db.txs[0].done)
	})

	t.Run("copy failure", func(t *testing.T) {
		boom := errors.New("boom")
		db := &fakeDB{copyErr: boom}
		_, err := NewImporter(db, nil).Import(context.Background(), testDescriptor, []string{good})
		require.ErrorIs(t, err, boom)
	})
}

func TestCopySource_ShortRecord(t *testing.T) {
	data := meshcsvtest.Encode(t, meshcsvtest.WithHeaders([]string{"53393599", "1"}))
	r := meshcsv.NewReader(bytes.NewReader(data), "short.txt")
	_, _, err := r.Headers()
	require.NoError(t, err)

	src := NewCopySource(r, []string{"KEY_CODE", "HTKSYORI", "人口（総数）"})
	require.True(t, src.Next())
	v, err := src.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{int64(53393599), int16(1), nil}, v)
	assert.False(t, src.Next())
	assert.NoError(t, src.Err())
}
