package experiment

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned when an experiment would have no samples or no features.
	ErrEmpty = errors.New("experiment has no samples or no features")

	// ErrDuplicateID is returned when a sample or feature id is repeated or empty.
	ErrDuplicateID = errors.New("duplicate or empty identifier")

	// ErrLengthMismatch is returned when a metadata table is not aligned with its ids.
	ErrLengthMismatch = errors.New("metadata rows do not match identifiers")

	// ErrInvalidAssay is returned when an assay name is empty or repeated.
	ErrInvalidAssay = errors.New("invalid assay")

	// ErrInvalidRanges is returned when ranges are malformed or not aligned with features.
	ErrInvalidRanges = errors.New("invalid ranges")

	// ErrIndexOutOfRange is returned when a selection refers to a missing sample or feature.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// ErrDimensionMismatch indicates an assay whose shape is not
// |features| × |samples|.
type ErrDimensionMismatch struct {
	Assay              string
	Rows, Cols         int
	WantRows, WantCols int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("assay %q: dimension mismatch: got %dx%d, expected %dx%d",
		e.Assay, e.Rows, e.Cols, e.WantRows, e.WantCols)
}
