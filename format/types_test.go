package format

import (
	"testing"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
	"github.com/stretchr/testify/require"
)

func TestDTypeSize(t *testing.T) {
	require.Equal(t, 1, DTypeUint8.Size())
	require.Equal(t, 2, DTypeInt16.Size())
	require.Equal(t, 4, DTypeInt32.Size())
	require.Equal(t, 4, DTypeFloat32.Size())
	require.Equal(t, 8, DTypeFloat64.Size())
	require.Equal(t, 0, DType(0).Size())
	require.False(t, DType(0x9).Valid())
}

func TestTags(t *testing.T) {
	require.Equal(t, "int32", DTypeInt32.Tag())
	require.Equal(t, "little", LittleEndian.Tag())
	require.Equal(t, "big", BigEndian.Tag())
	require.Equal(t, "deflate-raw", CompressionDeflateRaw.Tag())
	require.Equal(t, "jis-x0410", MeshKindJISX0410.Tag())
	require.Equal(t, "Unknown", CompressionType(0).String())
}

func TestParseCompression(t *testing.T) {
	for _, c := range []CompressionType{CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4, CompressionDeflateRaw} {
		got, err := ParseCompression(c.Tag())
		require.NoError(t, err)
		require.Equal(t, c, got)
	}

	_, err := ParseCompression("brotli")
	require.ErrorIs(t, err, errs.ErrInvalidOption)
	require.Contains(t, err.Error(), "brotli")
}
