package section

import (
	"encoding/binary"
	"testing"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/KotobaMedia/jp-estat-to-sql/format"
	"github.com/stretchr/testify/require"
)

func TestTileFlag(t *testing.T) {
	t.Run("little endian default", func(t *testing.T) {
		f := NewTileFlag(format.LittleEndian)
		require.False(t, f.IsBigEndian())
		require.False(t, f.HasNoData())
		require.Equal(t, format.LittleEndian, f.Endianness())
		require.Equal(t, binary.LittleEndian, f.PayloadEngine())
		require.NoError(t, f.Validate())
	})

	t.Run("big endian", func(t *testing.T) {
		f := NewTileFlag(format.BigEndian)
		require.True(t, f.IsBigEndian())
		require.Equal(t, format.BigEndian, f.Endianness())
		require.Equal(t, binary.BigEndian, f.PayloadEngine())
	})

	t.Run("no-data bit toggles", func(t *testing.T) {
		f := NewTileFlag(format.BigEndian).WithNoData(true)
		require.True(t, f.HasNoData())
		require.True(t, f.IsBigEndian())

		f = f.WithNoData(false)
		require.False(t, f.HasNoData())
		require.True(t, f.IsBigEndian())
	})

	t.Run("reserved bits rejected", func(t *testing.T) {
		for _, bit := range []TileFlag{0x04, 0x08, 0x10, 0x20, 0x40, 0x80} {
			require.ErrorIs(t, (FlagHasNoData | bit).Validate(), errs.ErrInvalidHeaderFlags)
		}
	})
}
