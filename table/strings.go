package table

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dlclark/regexp2"
)

const (
	// DefaultExtractRegex captures the first run of letters or digits.
	DefaultExtractRegex = `([\p{L}\p{N}]+)`
	// DefaultSeparator splits on every run of characters that are neither letters nor digits.
	DefaultSeparator = `[^\p{L}\p{N}]+`
	// DefaultUniteSeparator joins united values.
	DefaultUniteSeparator = "_"
)

// ExtractSpec configures Extract.
type ExtractSpec struct {
	// Col is the source column.
	Col string
	// Into names the new columns, one per capture group. Empty names are skipped.
	Into []string
	// Regex must have exactly len(Into) capture groups. Defaults to DefaultExtractRegex.
	Regex string
	// Remove drops Col from the output.
	Remove bool
	// Convert guesses the type of every extracted value.
	Convert bool
}

// Extract turns the capture groups of Regex, matched against Col, into new
// columns placed where Col is. Rows that do not match get Null.
func Extract(t *Table, spec ExtractSpec) (*Table, error) {
	src, ok := t.Column(spec.Col)
	if !ok {
		return nil, fmt.Errorf("extract: %w", columnNotFound(spec.Col))
	}
	if len(spec.Into) == 0 {
		return nil, fmt.Errorf("extract: %w: no output columns", ErrEmptySpec)
	}
	pattern := spec.Regex
	if pattern == "" {
		pattern = DefaultExtractRegex
	}
	re, err := compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	if groups := len(re.GetGroupNumbers()) - 1; groups != len(spec.Into) {
		return nil, fmt.Errorf("extract: %w: %q has %d groups, %d output columns", ErrInvalidPattern, pattern, groups, len(spec.Into))
	}

	out := make([][]Value, len(spec.Into))
	for i := range out {
		out[i] = make([]Value, t.rows)
	}
	for r, v := range src {
		if v.IsNull() {
			fillNull(out, r)
			continue
		}
		m, err := re.FindStringMatch(v.Format())
		if err != nil {
			return nil, fmt.Errorf("extract: row %d: %w", r, err)
		}
		if m == nil {
			fillNull(out, r)
			continue
		}
		groups := m.Groups()[1:]
		for i := range out {
			if i >= len(groups) || len(groups[i].Captures) == 0 {
				out[i][r] = Null()
				continue
			}
			out[i][r] = piece(groups[i].String(), spec.Convert)
		}
	}
	return spliceColumns(t, spec.Col, spec.Remove, spec.Into, out)
}

// Extra controls what Separate does with pieces beyond len(Into).
type Extra uint8

const (
	// ExtraDrop discards surplus pieces.
	ExtraDrop Extra = iota
	// ExtraMerge keeps the unsplit remainder in the last column.
	ExtraMerge
)

// Fill controls where Separate pads rows with too few pieces.
type Fill uint8

const (
	// FillRight pads missing pieces on the right with Null.
	FillRight Fill = iota
	// FillLeft pads missing pieces on the left with Null.
	FillLeft
)

// SeparateSpec configures Separate.
type SeparateSpec struct {
	// Col is the source column.
	Col string
	// Into names the new columns. Empty names are skipped.
	Into []string
	// Sep is a regular expression. Defaults to DefaultSeparator.
	Sep string
	// Remove drops Col from the output.
	Remove bool
	// Convert guesses the type of every piece.
	Convert bool
	Extra   Extra
	Fill    Fill
}

// Separate splits Col on Sep into len(Into) new columns placed where Col is.
func Separate(t *Table, spec SeparateSpec) (*Table, error) {
	src, ok := t.Column(spec.Col)
	if !ok {
		return nil, fmt.Errorf("separate: %w", columnNotFound(spec.Col))
	}
	if len(spec.Into) == 0 {
		return nil, fmt.Errorf("separate: %w: no output columns", ErrEmptySpec)
	}
	pattern := spec.Sep
	if pattern == "" {
		pattern = DefaultSeparator
	}
	re, err := compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("separate: %w", err)
	}

	n := len(spec.Into)
	out := make([][]Value, n)
	for i := range out {
		out[i] = make([]Value, t.rows)
	}
	for r, v := range src {
		if v.IsNull() {
			fillNull(out, r)
			continue
		}
		pieces, err := split(re, v.Format(), n, spec.Extra == ExtraMerge)
		if err != nil {
			return nil, fmt.Errorf("separate: row %d: %w", r, err)
		}
		pad := n - len(pieces)
		for i := range out {
			j := i
			if spec.Fill == FillLeft {
				j = i - pad
			}
			if j < 0 || j >= len(pieces) {
				out[i][r] = Null()
				continue
			}
			out[i][r] = piece(pieces[j], spec.Convert)
		}
	}
	return spliceColumns(t, spec.Col, spec.Remove, spec.Into, out)
}

// UniteSpec configures Unite.
type UniteSpec struct {
	// Col names the new column.
	Col string
	// Cols are pasted together in order.
	Cols []string
	// Sep is placed between values. Defaults to DefaultUniteSeparator.
	Sep string
	// Remove drops Cols from the output.
	Remove bool
	// NARemove skips Null values instead of pasting "NA".
	NARemove bool
}

// Unite pastes Cols together into Col, placed where the first of Cols is.
func Unite(t *Table, spec UniteSpec) (*Table, error) {
	if spec.Col == "" || len(spec.Cols) == 0 {
		return nil, fmt.Errorf("unite: %w", ErrEmptySpec)
	}
	sep := spec.Sep
	if sep == "" {
		sep = DefaultUniteSeparator
	}
	srcs := make([][]Value, len(spec.Cols))
	for i, name := range spec.Cols {
		values, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("unite: %w", columnNotFound(name))
		}
		srcs[i] = values
	}

	united := make([]Value, t.rows)
	parts := make([]string, 0, len(srcs))
	for r := range united {
		parts = parts[:0]
		for _, src := range srcs {
			if spec.NARemove && src[r].IsNull() {
				continue
			}
			parts = append(parts, src[r].Format())
		}
		united[r] = String(strings.Join(parts, sep))
	}

	pos := t.indexOf(spec.Cols[0])
	base := t
	if spec.Remove {
		for _, name := range spec.Cols {
			if t.indexOf(name) < t.indexOf(spec.Cols[0]) {
				pos--
			}
		}
		base = t.Drop(spec.Cols...)
	}
	out, err := base.Insert(pos, Column{Name: spec.Col, Values: united})
	if err != nil {
		return nil, fmt.Errorf("unite: %w", err)
	}
	return out, nil
}

func compile(pattern string) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(pattern, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return re, nil
}

// split cuts s on re into at most n pieces when merge is set, otherwise
// into every piece. regexp2 reports rune offsets, so slicing is done on runes.
func split(re *regexp2.Regexp, s string, n int, merge bool) ([]string, error) {
	runes := []rune(s)
	var pieces []string
	start := 0
	m, err := re.FindStringMatch(s)
	for ; m != nil && err == nil; m, err = re.FindNextMatch(m) {
		if m.Length == 0 {
			continue
		}
		if merge && len(pieces) == n-1 {
			break
		}
		pieces = append(pieces, string(runes[start:m.Index]))
		start = m.Index + m.Length
	}
	if err != nil {
		return nil, err
	}
	pieces = append(pieces, string(runes[start:]))
	if len(pieces) > n {
		pieces = pieces[:n]
	}
	return pieces, nil
}

func piece(s string, convert bool) Value {
	if convert {
		return Guess(s)
	}
	return String(s)
}

func fillNull(out [][]Value, row int) {
	for i := range out {
		out[i][row] = Null()
	}
}

// spliceColumns inserts the named value vectors where col is, dropping col
// when remove is set. Empty names are skipped.
func spliceColumns(t *Table, col string, remove bool, names []string, values [][]Value) (*Table, error) {
	pos := t.indexOf(col) + 1
	base := t
	if remove {
		pos--
		base = t.Drop(col)
	}
	cols := make([]Column, 0, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		if slices.ContainsFunc(cols, func(c Column) bool { return c.Name == name }) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		cols = append(cols, Column{Name: name, Values: values[i]})
	}
	return base.Insert(pos, cols...)
}
