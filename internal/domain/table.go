package domain

import (
	"fmt"
	"math"
	"slices"
	"strconv"
)

// Column is a two-level column name. Flat columns use an empty Sub.
type Column struct {
	Group string
	Sub   string
}

// Col is shorthand for a flat column
func Col(name string) Column {
	return Column{Group: name}
}

// String joins both levels the way flat exports name them
func (c Column) String() string {
	return c.Group + c.Sub
}

// Label names the column for display: "Group" or "Group / Sub"
func (c Column) Label() string {
	if c.Sub == "" {
		return c.Group
	}
	return c.Group + " / " + c.Sub
}

// FormatCell renders a cell value for display. Absent and NaN cells are empty.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case float32:
		return FormatCell(float64(x))
	default:
		return fmt.Sprint(x)
	}
}

// Row maps columns to cell values. Missing cells are absent keys.
type Row map[Column]any

// Table is an ordered set of columns and rows of records
type Table struct {
	Columns []Column
	Rows    []Row
}

// NewTable creates a table with the given leading columns
func NewTable(columns ...Column) *Table {
	t := &Table{}
	for _, c := range columns {
		t.AddColumn(c)
	}
	return t
}

// AddColumn appends a column unless it already exists
func (t *Table) AddColumn(c Column) {
	if !slices.Contains(t.Columns, c) {
		t.Columns = append(t.Columns, c)
	}
}

// HasColumn reports whether the column exists
func (t *Table) HasColumn(c Column) bool {
	return slices.Contains(t.Columns, c)
}

// Append adds a row, registering unseen columns in the given order.
// Columns of the row not named in order are added sorted.
func (t *Table) Append(row Row, order ...Column) {
	for _, c := range order {
		if _, ok := row[c]; ok {
			t.AddColumn(c)
		}
	}
	var rest []Column
	for c := range row {
		if !t.HasColumn(c) {
			rest = append(rest, c)
		}
	}
	slices.SortFunc(rest, compareColumns)
	for _, c := range rest {
		t.AddColumn(c)
	}
	t.Rows = append(t.Rows, row)
}

func compareColumns(a, b Column) int {
	switch {
	case a.Group < b.Group:
		return -1
	case a.Group > b.Group:
		return 1
	case a.Sub < b.Sub:
		return -1
	case a.Sub > b.Sub:
		return 1
	}
	return 0
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Group returns the columns belonging to a first-level group, in table order
func (t *Table) Group(group string) []Column {
	var cols []Column
	for _, c := range t.Columns {
		if c.Group == group {
			cols = append(cols, c)
		}
	}
	return cols
}

// DropColumn removes a column and its cells
func (t *Table) DropColumn(c Column) {
	t.Columns = slices.DeleteFunc(t.Columns, func(x Column) bool { return x == c })
	for _, r := range t.Rows {
		delete(r, c)
	}
}

// Value returns the cell at row i, nil if absent
func (t *Table) Value(i int, c Column) any {
	if i < 0 || i >= len(t.Rows) {
		return nil
	}
	return t.Rows[i][c]
}

// Column returns all cells of a column
func (t *Table) Column(c Column) []any {
	vals := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		vals[i] = r[c]
	}
	return vals
}
