package meshgrid

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

func TestMapMeshCodeToTile_KnownCodes(t *testing.T) {
	tests := []struct {
		name       string
		code       uint64
		data, tile Level
		want       TileAddress
	}{
		{"lv3 into lv1", 53393599, 3, 1, TileAddress{TileCode: 5339, Row: 40, Col: 59}},
		{"lv6 into lv3", 53370000242, 6, 3, TileAddress{TileCode: 53370000, Row: 5, Col: 7}},
		{"south-west corner of lv1", 53390000, 3, 1, TileAddress{TileCode: 5339, Row: 79, Col: 0}},
		{"north-east corner of lv1", 53397799, 3, 1, TileAddress{TileCode: 5339, Row: 0, Col: 79}},
		{"same level", 53393599, 3, 3, TileAddress{TileCode: 53393599, Row: 0, Col: 0}},
		{"lv2 into lv1", 533935, 2, 1, TileAddress{TileCode: 5339, Row: 4, Col: 5}},
		{"lv4 south-east quadrant", 533935992, 4, 3, TileAddress{TileCode: 53393599, Row: 1, Col: 1}},
		{"lv4 north-west quadrant", 533935993, 4, 3, TileAddress{TileCode: 53393599, Row: 0, Col: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rpa, err := SubdivisionsPerAxis(tt.tile, tt.data)
			require.NoError(t, err)

			got, err := MapMeshCodeToTile(tt.code, tt.data, tt.tile, rpa)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMapMeshCodeToTile_NorthIsTop(t *testing.T) {
	// 53393410 is directly north of 53393400 inside the same lv1 cell
	south, err := MapMeshCodeToTile(53393400, 3, 1, 80)
	require.NoError(t, err)
	north, err := MapMeshCodeToTile(53393410, 3, 1, 80)
	require.NoError(t, err)

	require.Equal(t, south.Col, north.Col)
	require.Equal(t, south.Row-1, north.Row)

	// quadrant 3 (NW) is above quadrant 1 (SW)
	sw, err := MapMeshCodeToTile(533935991, 4, 3, 2)
	require.NoError(t, err)
	nw, err := MapMeshCodeToTile(533935993, 4, 3, 2)
	require.NoError(t, err)
	require.Equal(t, TileAddress{TileCode: 53393599, Row: 1, Col: 0}, sw)
	require.Equal(t, TileAddress{TileCode: 53393599, Row: 0, Col: 0}, nw)
}

func TestMapMeshCodeToTile_Errors(t *testing.T) {
	tests := []struct {
		name       string
		code       uint64
		data, tile Level
		rpa        int
		wantErr    error
	}{
		{"too few digits", 5339359, 3, 1, 80, errs.ErrMalformedMeshCode},
		{"too many digits", 533935990, 3, 1, 80, errs.ErrMalformedMeshCode},
		{"lv2 row digit 8", 53398099, 3, 1, 80, errs.ErrInvalidSubdivisionDigit},
		{"lv2 col digit 9", 53390999, 3, 1, 80, errs.ErrInvalidSubdivisionDigit},
		{"quadrant 0", 533935990, 4, 3, 2, errs.ErrInvalidQuadrant},
		{"quadrant 5", 53393599151, 6, 3, 8, errs.ErrInvalidQuadrant},
		{"rows per axis too small", 53393599, 3, 1, 40, errs.ErrTileCoordinateOutOfRange},
		{"tile above data", 53393599, 3, 4, 1, errs.ErrInvalidLevelOrdering},
		{"unsupported level", 53393599, 7, 1, 80, errs.ErrUnsupportedLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapMeshCodeToTile(tt.code, tt.data, tt.tile, tt.rpa)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// Every valid lv6 code under one lv3 cell lands inside the tile, on a distinct
// cell, and keeps the tile code prefix.
func TestMapMeshCodeToTile_ExhaustiveLv6(t *testing.T) {
	const parent = "53393599"
	rpa, err := SubdivisionsPerAxis(3, 6)
	require.NoError(t, err)

	seen := make(map[[2]int]uint64)
	for _, q4 := range "1234" {
		for _, q5 := range "1234" {
			for _, q6 := range "1234" {
				s := fmt.Sprintf("%s%c%c%c", parent, q4, q5, q6)
				code, err := strconv.ParseUint(s, 10, 64)
				require.NoError(t, err)

				addr, err := MapMeshCodeToTile(code, 6, 3, rpa)
				require.NoError(t, err)
				require.Equal(t, uint64(53393599), addr.TileCode)
				require.GreaterOrEqual(t, addr.Row, 0)
				require.Less(t, addr.Row, rpa)
				require.GreaterOrEqual(t, addr.Col, 0)
				require.Less(t, addr.Col, rpa)

				key := [2]int{addr.Row, addr.Col}
				require.NotContains(t, seen, key, "%d collides with %d", code, seen[key])
				seen[key] = code
			}
		}
	}
	require.Len(t, seen, rpa*rpa)
}

func TestMapMeshCodeToTile_ExhaustiveLv3InLv1(t *testing.T) {
	rpa, err := SubdivisionsPerAxis(1, 3)
	require.NoError(t, err)

	seen := make(map[[2]int]struct{}, rpa*rpa)
	for r2 := 0; r2 < 8; r2++ {
		for c2 := 0; c2 < 8; c2++ {
			for r3 := 0; r3 < 10; r3++ {
				for c3 := 0; c3 < 10; c3++ {
					code := uint64(5339_00_00 + r2*1000 + c2*100 + r3*10 + c3)
					addr, err := MapMeshCodeToTile(code, 3, 1, rpa)
					require.NoError(t, err)
					require.Equal(t, uint64(5339), addr.TileCode)
					seen[[2]int{addr.Row, addr.Col}] = struct{}{}
				}
			}
		}
	}
	require.Len(t, seen, rpa*rpa)
}

func TestTileCodeOf(t *testing.T) {
	code, err := TileCodeOf(53370000242, 6, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(53370000), code)

	code, err = TileCodeOf(53370000242, 6, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(5337), code)

	_, err = TileCodeOf(5337000024, 6, 3)
	require.ErrorIs(t, err, errs.ErrMalformedMeshCode)

	_, err = TileCodeOf(53370000242, 3, 6)
	require.ErrorIs(t, err, errs.ErrInvalidLevelOrdering)
}
