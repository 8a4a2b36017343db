package domain

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

//go:embed elements.csv
var elementsCSV string

// Element is one entry of the periodic table
type Element struct {
	Number       int
	Symbol       string
	Name         string
	AtomicWeight float64
}

// ElementTable resolves element symbols to atomic weights.
// It is read-only after construction and safe to share.
type ElementTable struct {
	bySymbol map[string]Element
}

var (
	defaultElements     *ElementTable
	defaultElementsErr  error
	defaultElementsOnce sync.Once
)

// DefaultElements returns the table built from the embedded standard
// atomic weights. The table is parsed once per process.
func DefaultElements() *ElementTable {
	defaultElementsOnce.Do(func() {
		defaultElements, defaultElementsErr = LoadElementTable(strings.NewReader(elementsCSV))
	})
	if defaultElementsErr != nil {
		panic(fmt.Sprintf("embedded element table: %v", defaultElementsErr))
	}
	return defaultElements
}

// LoadElementTable reads a "number,symbol,name,atomic_weight" CSV with header
func LoadElementTable(r io.Reader) (*ElementTable, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read element table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("element table is empty")
	}

	t := &ElementTable{bySymbol: make(map[string]Element, len(records)-1)}
	for i, rec := range records[1:] {
		if len(rec) < 4 {
			return nil, fmt.Errorf("element table line %d: expected 4 fields, got %d", i+2, len(rec))
		}
		number, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("element table line %d: %w", i+2, err)
		}
		weight, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			return nil, fmt.Errorf("element table line %d: %w", i+2, err)
		}
		t.bySymbol[rec[1]] = Element{Number: number, Symbol: rec[1], Name: rec[2], AtomicWeight: weight}
	}
	return t, nil
}

// NewElementTable builds a table from explicit entries
func NewElementTable(elements ...Element) *ElementTable {
	t := &ElementTable{bySymbol: make(map[string]Element, len(elements))}
	for _, el := range elements {
		t.bySymbol[el.Symbol] = el
	}
	return t
}

// Lookup returns the element for a symbol ("Fe", "Ni", ...)
func (t *ElementTable) Lookup(symbol string) (Element, error) {
	el, ok := t.bySymbol[symbol]
	if !ok {
		return Element{}, &UnknownElementError{Symbol: symbol}
	}
	return el, nil
}

// AtomicWeight returns the atomic weight of a symbol
func (t *ElementTable) AtomicWeight(symbol string) (float64, error) {
	el, err := t.Lookup(symbol)
	if err != nil {
		return 0, err
	}
	return el.AtomicWeight, nil
}

// Len returns the number of known elements
func (t *ElementTable) Len() int {
	return len(t.bySymbol)
}
