package dataset

import (
	"strconv"
	"strings"
)

// Table is an in-memory, row-ordered view of the input file.
// Cells are kept as raw strings; an empty cell is a missing value.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// NewTable builds a table from a header and its rows.
// Rows shorter than the header are padded with missing cells.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{
		Columns: columns,
		Rows:    make([][]string, 0, len(rows)),
		index:   make(map[string]int, len(columns)),
	}
	for i, name := range columns {
		if _, exists := t.index[name]; !exists {
			t.index[name] = i
		}
	}
	for _, row := range rows {
		if len(row) < len(columns) {
			padded := make([]string, len(columns))
			copy(padded, row)
			row = padded
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Head returns the first n rows (fewer if the table is shorter).
func (t *Table) Head(n int) [][]string {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	head := make([][]string, n)
	copy(head, t.Rows[:n])
	return head
}

// Cell returns the trimmed cell for a row and column, or "" when the column is absent.
func (t *Table) Cell(row int, column string) string {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][i])
}

// Float parses a cell as a float. ok is false for missing or malformed cells.
func (t *Table) Float(row int, column string) (float64, bool) {
	return parseFloat(t.Cell(row, column))
}

// Column returns the numeric values of a column in row order, skipping missing cells.
func (t *Table) Column(name string) []float64 {
	if !t.HasColumn(name) {
		return nil
	}
	values := make([]float64, 0, len(t.Rows))
	for r := range t.Rows {
		if v, ok := t.Float(r, name); ok {
			values = append(values, v)
		}
	}
	return values
}

// NumericColumns returns, in header order, the columns whose non-missing cells
// all parse as numbers. Columns with no values at all are not numeric.
func (t *Table) NumericColumns() []string {
	numeric := make([]string, 0, len(t.Columns))
	for _, name := range t.Columns {
		seen := false
		ok := true
		for r := range t.Rows {
			cell := t.Cell(r, name)
			if isMissing(cell) {
				continue
			}
			if _, parsed := parseFloat(cell); !parsed {
				ok = false
				break
			}
			seen = true
		}
		if ok && seen {
			numeric = append(numeric, name)
		}
	}
	return numeric
}

// Dedupe returns a copy of the table without exact duplicate rows.
// The first occurrence is kept and row order is preserved.
func (t *Table) Dedupe() (*Table, int) {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		key := rowKey(row)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	return NewTable(t.Columns, kept), len(t.Rows) - len(kept)
}

// rowKey joins cells with a unit separator so that cell boundaries stay unambiguous.
func rowKey(row []string) string {
	return strings.Join(row, "\x1f")
}

func isMissing(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan", "null", "none", "na", "n/a":
		return true
	}
	return false
}

func parseFloat(s string) (float64, bool) {
	if isMissing(s) {
		return 0, false
	}
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
