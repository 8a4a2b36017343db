package domain

import (
	"fmt"
	"log"
	"strings"
)

// Component is one element of a composition with its amount
type Component struct {
	Element string
	Amount  float64
}

// Composition is an ordered element -> amount list.
// Order matters: the first element anchors rescaling in AddAtoms.
type Composition []Component

// Comp builds a composition from alternating symbol, amount pairs
func Comp(pairs ...any) Composition {
	var c Composition
	for i := 0; i+1 < len(pairs); i += 2 {
		sym, _ := pairs[i].(string)
		c = c.Set(sym, toFloat(pairs[i+1]))
	}
	return c
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

// Get returns the amount of an element
func (c Composition) Get(element string) (float64, bool) {
	for _, comp := range c {
		if comp.Element == element {
			return comp.Amount, true
		}
	}
	return 0, false
}

// Set returns c with the element's amount replaced, or appended if new
func (c Composition) Set(element string, amount float64) Composition {
	for i := range c {
		if c[i].Element == element {
			c[i].Amount = amount
			return c
		}
	}
	return append(c, Component{Element: element, Amount: amount})
}

// Add returns c with amount added to the element, appending it if new
func (c Composition) Add(element string, amount float64) Composition {
	for i := range c {
		if c[i].Element == element {
			c[i].Amount += amount
			return c
		}
	}
	return append(c, Component{Element: element, Amount: amount})
}

// Elements returns the element symbols in order
func (c Composition) Elements() []string {
	els := make([]string, len(c))
	for i, comp := range c {
		els[i] = comp.Element
	}
	return els
}

// Sum returns the sum of all amounts
func (c Composition) Sum() float64 {
	var s float64
	for _, comp := range c {
		s += comp.Amount
	}
	return s
}

// Scale returns a copy with every amount multiplied by f
func (c Composition) Scale(f float64) Composition {
	out := make(Composition, len(c))
	for i, comp := range c {
		out[i] = Component{Element: comp.Element, Amount: comp.Amount * f}
	}
	return out
}

// Map returns the composition as a map
func (c Composition) Map() map[string]float64 {
	m := make(map[string]float64, len(c))
	for _, comp := range c {
		m[comp.Element] = comp.Amount
	}
	return m
}

func (c Composition) String() string {
	var b strings.Builder
	for _, comp := range c {
		fmt.Fprintf(&b, "%s%g ", comp.Element, comp.Amount)
	}
	return b.String()
}

// Compound is an element composition in atom counts.
// Every element is resolved against the element table at construction.
type Compound struct {
	elements  *ElementTable
	atoms     Composition
	weights   map[string]float64
	totalMass float64
	massKnown bool
}

// NewCompound builds a compound from atom counts.
// Fails with ErrUnknownElement if a symbol is not in the table.
func NewCompound(elements *ElementTable, atoms Composition) (*Compound, error) {
	c := &Compound{elements: elements}
	if err := c.init(atoms); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Compound) init(atoms Composition) error {
	var merged Composition
	for _, comp := range atoms {
		merged = merged.Add(comp.Element, comp.Amount)
	}
	weights := make(map[string]float64, len(merged))
	for _, comp := range merged {
		w, err := c.elements.AtomicWeight(comp.Element)
		if err != nil {
			return err
		}
		weights[comp.Element] = w
	}
	c.atoms = merged
	c.weights = weights
	c.totalMass = 0
	c.massKnown = false
	return nil
}

// FromMassPercent builds a compound from mass percentages.
// Each mass share is divided by its atomic weight to get provisional atom
// counts; the result is the atom fraction of that intermediate compound.
func FromMassPercent(elements *ElementTable, mass Composition) (*Compound, error) {
	provisional := make(Composition, 0, len(mass))
	for _, comp := range mass {
		w, err := elements.AtomicWeight(comp.Element)
		if err != nil {
			return nil, err
		}
		provisional = provisional.Add(comp.Element, comp.Amount/w)
	}
	intermediate, err := NewCompound(elements, provisional)
	if err != nil {
		return nil, err
	}
	return NewCompound(elements, intermediate.AtomPercent())
}

// Elements returns the included element symbols in order
func (c *Compound) Elements() []string {
	return c.atoms.Elements()
}

// Atoms returns a copy of the atom counts
func (c *Compound) Atoms() Composition {
	return c.atoms.Scale(1)
}

// Element returns the table entry of an included element
func (c *Compound) Element(symbol string) (Element, error) {
	if _, ok := c.atoms.Get(symbol); !ok {
		return Element{}, fmt.Errorf("no element %q in compound", symbol)
	}
	return c.elements.Lookup(symbol)
}

// NumberOfAtoms returns the sum of all atom counts
func (c *Compound) NumberOfAtoms() float64 {
	return c.atoms.Sum()
}

// TotalMass returns sum(atomic weight * count), computed once
func (c *Compound) TotalMass() float64 {
	if !c.massKnown {
		var m float64
		for _, comp := range c.atoms {
			m += c.weights[comp.Element] * comp.Amount
		}
		c.totalMass = m
		c.massKnown = true
	}
	return c.totalMass
}

// AtomPercent returns each element's share of the number of atoms (0..1)
func (c *Compound) AtomPercent() Composition {
	n := c.NumberOfAtoms()
	out := make(Composition, len(c.atoms))
	for i, comp := range c.atoms {
		out[i] = Component{Element: comp.Element, Amount: comp.Amount / n}
	}
	return out
}

// MassPercent returns each element's share of the total mass (0..1)
func (c *Compound) MassPercent() Composition {
	m := c.TotalMass()
	out := make(Composition, len(c.atoms))
	for i, comp := range c.atoms {
		out[i] = Component{Element: comp.Element, Amount: c.weights[comp.Element] * comp.Amount / m}
	}
	return out
}

// AddAtoms merges an addition making up percent of all atoms.
// The current atom fractions are scaled to (100-percent)% and the addition
// to percent%, summed per element, and the result is rescaled so the first
// element keeps its original atom count.
func (c *Compound) AddAtoms(add Composition, percent float64) error {
	if percent < 0 || percent >= 100 {
		return fmt.Errorf("%w: %g (expected 0 <= percent < 100)", ErrInvalidPercent, percent)
	}
	if percent < 1 {
		log.Printf("Warning: AddAtoms expects a percent, got %g", percent)
	}
	for _, comp := range add {
		if _, err := c.elements.Lookup(comp.Element); err != nil {
			return err
		}
	}
	if len(c.atoms) == 0 {
		return c.init(add)
	}

	merged := c.AtomPercent().Scale((100 - percent) / 100)
	for _, comp := range add.Scale(percent / 100) {
		merged = merged.Add(comp.Element, comp.Amount)
	}

	anchor := c.atoms[0]
	scaled, _ := merged.Get(anchor.Element)
	if scaled == 0 {
		return fmt.Errorf("cannot rescale: %s vanished from compound", anchor.Element)
	}
	return c.init(merged.Scale(anchor.Amount / scaled))
}

func (c *Compound) String() string {
	return c.atoms.String()
}
