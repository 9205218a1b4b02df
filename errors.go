package tidyse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/tidyse/table"
)

var (
	// ErrInvalidData is returned when a Data value holds neither a table nor an experiment.
	ErrInvalidData = errors.New("data holds neither a table nor an experiment")

	// ErrInvalidNest is returned when a nest call has no grouping columns or
	// names its nested column after one of them.
	ErrInvalidNest = errors.New("invalid nest specification")

	// errReconstructionNotPossible signals that a long table cannot be split
	// back into an experiment. It never leaves the package: callers get the
	// long table instead.
	errReconstructionNotPossible = errors.New("reconstruction not possible")
)

// ProtectedColumnError indicates that a verb would remove or rename a column
// the experiment needs to be split back into its parts.
type ProtectedColumnError struct {
	Columns []string
}

func (e *ProtectedColumnError) Error() string {
	return fmt.Sprintf("columns %s are view only: they are keys or come from the sample or feature metadata; copy a column before removing or renaming it",
		strings.Join(e.Columns, ", "))
}

// ReservedKeyError indicates an attempt to nest an experiment by its sample
// or feature key.
type ReservedKeyError struct {
	Columns []string
}

func (e *ReservedKeyError) Error() string {
	return fmt.Sprintf("cannot nest by reserved key columns %s", strings.Join(e.Columns, ", "))
}

// NameCollisionError indicates that two distinct columns would end up with
// the same name. Names are never suffixed silently.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type NameCollisionError struct {
	Columns []string
	cause   error
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("name collision: columns %s appear in more than one block", strings.Join(e.Columns, ", "))
}

func (e *NameCollisionError) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var nc *table.NameConflictError
	if errors.As(err, &nc) {
		return &NameCollisionError{Columns: nc.Columns, cause: err}
	}

	return err
}

func notPossible(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errReconstructionNotPossible, fmt.Sprintf(format, args...))
}
