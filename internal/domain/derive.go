package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Column groups of sample tables and derived tables
const (
	GroupWtPercent       = "wt.%"
	GroupTargetWtPercent = "Target wt.%"
	GroupActualWtPercent = "Actual wt.%"
	GroupTargetAtPercent = "Target at.%"
	GroupAnnealing       = "Annealing"

	BaseMarker  = "base"
	divSubKey   = "Div."
	divNotMeas  = "nm"
	noTempValue = "-"
)

// Columns of derived composition/temperature tables
var (
	ColID        = Col("ID")
	ColT         = Col("T")
	ColTInfo     = Col("T info")
	ColReduction = Col("Reduction temp[°C]")
	ColAnnealT   = Column{Group: GroupAnnealing, Sub: "Temp.[°C]"}
)

// SampleScheme is the scheme whose comments are parsed into columns
const SampleScheme = "Sample"

// ExtendSampleComments replaces the Comments column of a sample table with
// the columns parsed from each row's comment. Existing metadata columns take
// precedence over parsed columns of the same name.
func ExtendSampleComments(table *Table) *Table {
	comments := Col(GroupComments)
	out := NewTable()
	for _, c := range table.Columns {
		if c != comments {
			out.AddColumn(c)
		}
	}
	for _, row := range table.Rows {
		rec := ParseSampleComment(row[comments])
		newRow := make(Row, len(row)+len(rec.Values))
		for c, v := range row {
			if c != comments {
				newRow[c] = v
			}
		}
		for _, c := range rec.Columns {
			if _, exists := newRow[c]; !exists {
				newRow[c] = rec.Values[c]
			}
		}
		out.Append(newRow, rec.Columns...)
	}
	return out
}

// CompositionOptions controls DeriveComposition
type CompositionOptions struct {
	// Groups are read in order, later groups override earlier ones.
	// Defaults to Target wt.% then Actual wt.%.
	Groups     []string
	OnlyActual bool
	ExpandBase bool
}

// DefaultCompositionGroups are the composition groups read by default
var DefaultCompositionGroups = []string{GroupTargetWtPercent, GroupActualWtPercent}

func (o CompositionOptions) groups() []string {
	if o.OnlyActual {
		return []string{GroupActualWtPercent}
	}
	if len(o.Groups) > 0 {
		return o.Groups
	}
	return DefaultCompositionGroups
}

// DeriveComposition builds one row per sample with its ID, mass percent
// composition under ("wt.%", element) and processing temperature under T or
// "T info". The input is a sample table extended by ExtendSampleComments.
func DeriveComposition(elements *ElementTable, table *Table, opts CompositionOptions) (*Table, error) {
	out := NewTable(ColID)
	for _, row := range table.Rows {
		derived := Row{ColID: row[ColID]}
		var order []Column

		for _, group := range opts.groups() {
			comp, err := compositionOf(elements, table, row, group)
			if err != nil {
				return nil, err
			}
			for _, c := range comp.Columns {
				derived[c] = comp.Values[c]
				order = append(order, c)
			}
		}

		for c, v := range temperatureOf(row) {
			derived[c] = v
		}
		order = append(order, ColT, ColTInfo)

		if opts.ExpandBase {
			ExpandBase(derived)
		}
		out.Append(derived, order...)
	}
	return out, nil
}

func compositionOf(elements *ElementTable, table *Table, row Row, group string) (Record, error) {
	rec := Record{Values: Row{}}
	for _, c := range table.Group(group) {
		v, ok := row[c]
		if !ok {
			continue
		}
		if f, ok := finiteNumber(v); ok {
			rec.set(Column{Group: GroupWtPercent, Sub: c.Sub}, f)
		} else if v == BaseMarker {
			rec.set(Column{Group: GroupWtPercent, Sub: c.Sub}, BaseMarker)
		}
		if s, ok := v.(string); ok && c.Sub == divSubKey && s != divNotMeas {
			for _, comp := range ParseDivString(s) {
				rec.set(Column{Group: GroupWtPercent, Sub: comp.Element}, comp.Amount)
			}
		}
	}

	if group != GroupTargetAtPercent || len(rec.Columns) == 0 {
		return rec, nil
	}

	var atoms Composition
	for _, c := range rec.Columns {
		if f, ok := rec.Values[c].(float64); ok {
			atoms = atoms.Add(c.Sub, f)
		}
	}
	compound, err := NewCompound(elements, atoms)
	if err != nil {
		return Record{}, err
	}
	converted := Record{Values: Row{}}
	for _, comp := range compound.MassPercent() {
		converted.set(Column{Group: GroupWtPercent, Sub: comp.Element}, comp.Amount*100)
	}
	return converted, nil
}

func temperatureOf(row Row) Row {
	var t Row
	for _, c := range []Column{ColReduction, ColAnnealT} {
		v, ok := row[c]
		if !ok {
			continue
		}
		if f, ok := finiteNumber(v); ok {
			t = Row{ColT: f}
			continue
		}
		s, ok := v.(string)
		if !ok || s == noTempValue {
			continue
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			t = Row{ColT: f}
		} else {
			t = Row{ColTInfo: s}
		}
	}
	return t
}

// ExpandBase replaces every "base" entry of the row's wt.% group with
// 100 minus the sum of the row's numeric wt.% entries. Each base entry
// receives the full remainder.
func ExpandBase(row Row) Row {
	var sum float64
	var bases []Column
	for c, v := range row {
		if c.Group != GroupWtPercent {
			continue
		}
		if v == BaseMarker {
			bases = append(bases, c)
			continue
		}
		if f, ok := finiteNumber(v); ok {
			sum += f
		}
	}
	for _, c := range bases {
		row[c] = 100.0 - sum
	}
	return row
}

var divPattern = regexp.MustCompile(`[0-9,]+ *[A-Za-z]+`)
var divNumber = regexp.MustCompile(`[0-9,]+`)
var divSymbol = regexp.MustCompile(`[A-Za-z]+`)

// ParseDivString reads "<amount> <element>" pairs with decimal commas,
// e.g. "0,5 Cr 1,2 Mo" -> Cr 0.5, Mo 1.2
func ParseDivString(s string) Composition {
	var comp Composition
	for _, m := range divPattern.FindAllString(s, -1) {
		num := strings.ReplaceAll(divNumber.FindString(m), ",", ".")
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			continue
		}
		comp = comp.Set(divSymbol.FindString(m), f)
	}
	return comp
}

func finiteNumber(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0, false
	}
	if math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
