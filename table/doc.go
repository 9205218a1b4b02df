// Package table provides the immutable, column-oriented tables and the
// generic tidy verbs that tidyse builds on.
//
// # Cells
//
// Every cell is a typed Value:
//
//   - String: table.String("chr1")
//   - Int: table.Int(2024)
//   - Float: table.Float(3.14)
//   - Bool: table.Bool(true)
//   - Array: table.Array([]table.Value{...})
//   - Null: table.Null(), the missing value (NA)
//
// # Verbs
//
//   - LeftJoin: keyed left join, one-to-many fan-out, no name suffixing
//   - PivotLonger / PivotWider: reshape; PivotWider never aggregates
//   - Extract / Separate / Unite: string verbs, patterns use regexp2 syntax
//   - GroupBy / BindRows: grouping and row union
//   - Where / Match: row filtering through Roaring-backed RowSets
//
// Tables are never modified in place. Every verb returns a new Table, so a
// Table can be shared between goroutines without locking.
package table
