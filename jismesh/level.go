// Package jismesh classifies JIS X0410 mesh codes and computes their geometry.
//
// Besides the six standard levels, e-Stat publishes statistics on integrated
// meshes (40km, 20km, 16km, 8km, 5km, 4km, 2.5km and 2km). ToMeshLevel
// recognizes those shapes so that a file of the wrong kind is reported as such
// instead of failing deep inside the tile mapping.
package jismesh

import (
	"fmt"
	"strconv"

	"github.com/KotobaMedia/jp-estat-to-sql/errs"
)

// Level identifies a mesh system. Standard levels are 1-6; integrated meshes
// use their nominal size in meters.
type Level int

const (
	Lv1 Level = 1
	Lv2 Level = 2
	Lv3 Level = 3
	Lv4 Level = 4
	Lv5 Level = 5
	Lv6 Level = 6

	X40  Level = 40000
	X20  Level = 20000
	X16  Level = 16000
	X8   Level = 8000
	X5   Level = 5000
	X4   Level = 4000
	X2_5 Level = 2500
	X2   Level = 2000
)

// Standard returns the standard level number, or false for integrated meshes.
func (l Level) Standard() (uint8, bool) {
	if l >= Lv1 && l <= Lv6 {
		return uint8(l), true
	}

	return 0, false
}

func (l Level) String() string {
	if n, ok := l.Standard(); ok {
		return fmt.Sprintf("Lv%d", n)
	}
	switch l {
	case X40:
		return "X40"
	case X20:
		return "X20"
	case X16:
		return "X16"
	case X8:
		return "X8"
	case X5:
		return "X5"
	case X4:
		return "X4"
	case X2_5:
		return "X2_5"
	case X2:
		return "X2"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// ToMeshLevel detects the mesh system of a code from its digit count and
// trailing digit.
func ToMeshLevel(code uint64) (Level, error) {
	s := strconv.FormatUint(code, 10)
	last := s[len(s)-1]

	switch len(s) {
	case 4:
		return Lv1, nil
	case 5:
		return X40, nil
	case 6:
		return Lv2, nil
	case 7:
		switch last {
		case '1', '2', '3', '4':
			return X5, nil
		case '5':
			return X20, nil
		case '6':
			return X8, nil
		case '7':
			return X16, nil
		}
	case 8:
		return Lv3, nil
	case 9:
		switch last {
		case '1', '2', '3', '4':
			return Lv4, nil
		case '5':
			return X2, nil
		case '6':
			return X2_5, nil
		case '7':
			return X4, nil
		}
	case 10:
		if last >= '1' && last <= '4' {
			return Lv5, nil
		}
	case 11:
		if last >= '1' && last <= '4' {
			return Lv6, nil
		}
	}

	return 0, fmt.Errorf("%w: cannot classify %s", errs.ErrMalformedMeshCode, s)
}

// Classifier reports the standard level of a mesh code.
type Classifier struct{}

// Classify returns the standard level (1-6) of code.
//
// Integrated meshes fail with errs.ErrNonStandardLevel.
func (Classifier) Classify(code uint64) (uint8, error) {
	level, err := ToMeshLevel(code)
	if err != nil {
		return 0, err
	}
	n, ok := level.Standard()
	if !ok {
		return 0, fmt.Errorf("%w: %d is %s", errs.ErrNonStandardLevel, code, level)
	}

	return n, nil
}
