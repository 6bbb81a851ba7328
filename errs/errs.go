// Package errs defines the sentinel errors shared by every package in this module.
//
// Callers wrap these with context (file, line, column, mesh code) using
// fmt.Errorf("...: %w", err), so errors.Is keeps working at the command boundary.
package errs

import "errors"

// Configuration errors.
var (
	ErrNoMatchingSurvey = errors.New("no matching mesh survey")
	ErrUnsupportedLevel = errors.New("unsupported mesh level")
	ErrInvalidOption    = errors.New("invalid option")
)

// Grid arithmetic and mesh code validation errors.
var (
	ErrInvalidLevelOrdering     = errors.New("tile level must be <= data level")
	ErrResolutionOverflow       = errors.New("tile resolution overflow")
	ErrMalformedMeshCode        = errors.New("malformed mesh code")
	ErrInvalidSubdivisionDigit  = errors.New("invalid subdivision digit")
	ErrInvalidQuadrant          = errors.New("invalid quadrant digit")
	ErrTileCoordinateOutOfRange = errors.New("tile coordinate out of range")
	ErrMeshLevelMismatch        = errors.New("mesh level mismatch")
	ErrNonStandardLevel         = errors.New("mesh code is not a standard level")
)

// CSV header and band selection errors.
var (
	ErrMissingHeader              = errors.New("missing header row")
	ErrTooFewColumns              = errors.New("too few columns")
	ErrHeaderColumnCountMismatch  = errors.New("header column count mismatch")
	ErrHeaderMismatch             = errors.New("csv header mismatch")
	ErrNoStatColumns              = errors.New("no stat columns found")
	ErrEmptyBandList              = errors.New("empty band list")
	ErrUnknownBand                = errors.New("unknown band")
	ErrDuplicateBand              = errors.New("duplicate band")
	ErrTooManyBands               = errors.New("too many bands")
	ErrTileSourceOverlap          = errors.New("tile produced by more than one source file")
	ErrNoInputFiles               = errors.New("no input files")
	ErrSchemaNotResolved          = errors.New("band schema not resolved")
	ErrInvalidInteger             = errors.New("invalid integer value")
	ErrValueOutOfRange            = errors.New("value out of int32 range")
	ErrMetadataAlreadyWritten     = errors.New("metadata already written")
	ErrMetadataNotWritten         = errors.New("metadata must be written before tiles")
	ErrTileEncodingFailed         = errors.New("tile encoding failed")
	ErrTileBufferLengthMismatched = errors.New("tile buffer length mismatch")
)

// Tile codec errors.
var (
	ErrInvalidHeaderSize   = errors.New("invalid tile header size")
	ErrInvalidMagicNumber  = errors.New("invalid tile magic number")
	ErrInvalidHeaderFlags  = errors.New("invalid tile header flags")
	ErrUnsupportedVersion  = errors.New("unsupported tile format version")
	ErrPayloadSizeMismatch = errors.New("payload size does not match dimensions")
	ErrChecksumMismatch    = errors.New("payload checksum mismatch")
	ErrCellOutOfRange      = errors.New("cell index out of range")
)

// Retrieval errors.
var (
	ErrDownloadFailed    = errors.New("download failed")
	ErrArchiveMemberMiss = errors.New("no matching file in archive")
)
