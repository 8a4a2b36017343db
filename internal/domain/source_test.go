package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSource(t *testing.T) {
	tests := []struct {
		arg  string
		want Source
	}{
		{"Sample", SchemeSource("Sample")},
		{"12", IndexSource(12)},
		{" 3 ", IndexSource(3)},
		{"1,2,5", IndexListSource{1, 2, 5}},
		{"1, 2", IndexListSource{1, 2}},
		{"1,x", SchemeSource("1,x")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSource(tt.arg), tt.arg)
	}
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "scheme Sample", SchemeSource("Sample").String())
	assert.Equal(t, "resource 4", IndexSource(4).String())
	assert.Equal(t, "resources [1, 2]", IndexListSource{1, 2}.String())
	assert.Equal(t, "resource R", ResourceSource{Name: "R"}.String())
	assert.Equal(t, "resources [A, B]", ResourceListSource{{Name: "A"}, {Name: "B"}}.String())
}
