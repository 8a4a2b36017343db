package domain

import (
	"strconv"
	"strings"
	"time"
)

// Section labels of a sample comment whose lines carry sub-keyed values
var SectionLabels = []string{
	"Annealing",
	"Actual wt.%",
	"Target wt.%",
	"Target at.%",
}

// Column groups produced by the comment parser
const (
	GroupCreationDate = "Creation Date"
	GroupComments     = "Comments"
	dateLabel         = "Date"
	notATime          = "NaT"
	commentHeaderRows = 2
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseISOTime parses the ISO-8601 forms found in comment fields
func ParseISOTime(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Record is one parsed comment: values keyed by column, plus column order
type Record struct {
	Columns []Column
	Values  Row
}

func (r *Record) set(c Column, v any) {
	if _, ok := r.Values[c]; !ok {
		r.Columns = append(r.Columns, c)
	}
	r.Values[c] = v
}

// Get returns the value of a column and whether it is present
func (r Record) Get(c Column) (any, bool) {
	v, ok := r.Values[c]
	return v, ok
}

func rawComment(comment any) Record {
	return Record{Columns: []Column{Col(GroupComments)}, Values: Row{Col(GroupComments): comment}}
}

// ParseSampleComment turns a free-text sample comment into a record keyed by
// two-level columns. The first two lines are boilerplate. Lines that match
// nothing are dropped. A value that is not a string, or a comment without
// any recognised line, yields {(Comments, ""): value}.
func ParseSampleComment(comment any) Record {
	text, ok := comment.(string)
	if !ok {
		return rawComment(comment)
	}

	lines := strings.Split(text, "\n")
	if len(lines) <= commentHeaderRows {
		return rawComment(comment)
	}

	data := Record{Values: Row{}}
	sections := Record{Values: Row{}}
	for _, line := range lines[commentHeaderRows:] {
		line = strings.TrimRight(line, "\r")
		if label, ok := sectionLabel(line); ok {
			col, value := parseSectionLine(label, line[len(label):])
			sections.set(col, value)
			continue
		}
		if strings.HasPrefix(line, dateLabel) {
			data.set(Col(GroupCreationDate), parseDateValue(line))
			continue
		}
		key, rest, _ := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		data.set(Col(key), strings.TrimSpace(rest))
	}

	for _, col := range sections.Columns {
		data.set(col, sections.Values[col])
	}
	if len(data.Columns) == 0 {
		return rawComment(comment)
	}
	return data
}

func sectionLabel(line string) (string, bool) {
	for _, label := range SectionLabels {
		if strings.HasPrefix(line, label) {
			return label, true
		}
	}
	return "", false
}

// parseSectionLine splits the text after a section label.
//
//	" Fe: 70"                -> (label, "Fe")        = 70
//	" Temp.[°C]: 500"        -> (label, "Temp.[°C]") = 500
//	" Time: 2: h"            -> (label, "Time")      = [2, "h"]
//	" Temp.[°C]: step1: 500" -> (label, "step1")     = 500
//
// The last form is a qualified label: the sub-key carries a bracketed unit
// and the first value token is a name rather than a number, so that name
// becomes the sub-key. Unqualified lines such as " Atmosphere: Ar: 5" keep
// their own sub-key.
func parseSectionLine(label, rest string) (Column, any) {
	parts := strings.Split(rest, ":")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	sub := parts[0]
	tokens := parts[1:]
	if len(tokens) >= 2 && hasUnit(sub) && !isNumber(tokens[0]) && tokens[0] != "" {
		sub = tokens[0]
		tokens = tokens[1:]
	}

	values := make([]any, len(tokens))
	for i, tok := range tokens {
		values[i] = parseToken(tok)
	}
	col := Column{Group: label, Sub: sub}
	switch len(values) {
	case 0:
		return col, []any{}
	case 1:
		return col, values[0]
	default:
		return col, values
	}
}

func hasUnit(s string) bool {
	open := strings.Index(s, "[")
	return open >= 0 && strings.Index(s[open:], "]") > 0
}

func parseDateValue(line string) any {
	_, rest, _ := strings.Cut(line, ":")
	rest = strings.TrimSpace(rest)
	if t, ok := ParseISOTime(rest); ok {
		return t
	}
	if rest == notATime {
		return nil
	}
	return rest
}

func parseToken(tok string) any {
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	return tok
}

func isNumber(tok string) bool {
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}
