package table

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by the table package.
var (
	// ErrColumnNotFound is returned when a column name is not found.
	ErrColumnNotFound = errors.New("column not found")

	// ErrColumnExists is returned when a verb would create a column whose name is taken.
	ErrColumnExists = errors.New("column already exists")

	// ErrDuplicateColumn is returned when a table is built with two columns of the same name.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrLengthMismatch is returned when columns of a table differ in length.
	ErrLengthMismatch = errors.New("column length mismatch")

	// ErrInvalidRow is returned when a row index is out of range.
	ErrInvalidRow = errors.New("invalid row index")

	// ErrInvalidPattern is returned when a regular expression cannot be used by a verb.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrEmptySpec is returned when a verb is called without the columns it needs.
	ErrEmptySpec = errors.New("empty verb specification")

	// ErrUnsupportedType is returned when a column cannot be converted to or from Arrow.
	ErrUnsupportedType = errors.New("unsupported column type")
)

// NameConflictError indicates that a join would merge two distinct columns
// sharing a name. Joins never suffix names.
type NameConflictError struct {
	Columns []string
}

func (e *NameConflictError) Error() string {
	return fmt.Sprintf("name conflict: columns %s present on both sides", strings.Join(e.Columns, ", "))
}

// DuplicateKeyError indicates that PivotWider met the same (id, name) pair twice.
// No aggregation is ever applied.
type DuplicateKeyError struct {
	Row  int
	Name string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: value for %q at row %d is not uniquely identified", e.Name, e.Row)
}

func columnNotFound(name string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

func columnExists(name string) error {
	return fmt.Errorf("%w: %q", ErrColumnExists, name)
}
