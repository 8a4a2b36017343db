package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultElements(t *testing.T) {
	table := DefaultElements()
	assert.Equal(t, 118, table.Len())
	assert.Same(t, table, DefaultElements())

	fe, err := table.Lookup("Fe")
	require.NoError(t, err)
	assert.Equal(t, 26, fe.Number)
	assert.Equal(t, "Iron", fe.Name)
	assert.InDelta(t, 55.845, fe.AtomicWeight, 0.001)

	_, err = table.AtomicWeight("fe")
	assert.ErrorIs(t, err, ErrUnknownElement)
}

func TestLoadElementTable(t *testing.T) {
	table, err := LoadElementTable(strings.NewReader("number,symbol,name,atomic_weight\n1,H,Hydrogen,1.008\n"))
	require.NoError(t, err)
	w, err := table.AtomicWeight("H")
	require.NoError(t, err)
	assert.Equal(t, 1.008, w)

	_, err = LoadElementTable(strings.NewReader("number,symbol,name,atomic_weight\nx,H,Hydrogen,1.008\n"))
	assert.Error(t, err)
	_, err = LoadElementTable(strings.NewReader(""))
	assert.Error(t, err)
}

func TestNewElementTable(t *testing.T) {
	table := NewElementTable(Element{Number: 1, Symbol: "X", Name: "Test", AtomicWeight: 2})
	c, err := FromMassPercent(table, Comp("X", 100.0))
	require.NoError(t, err)
	assert.Equal(t, Composition{{"X", 1.0}}, c.Atoms())
}
