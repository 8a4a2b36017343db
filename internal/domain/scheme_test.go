package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemeName(t *testing.T) {
	tests := []struct {
		profile string
		want    string
	}{
		{"https://purl.org/coscine/ap/Sample/", "Sample"},
		{"https://purl.org/coscine/ap/Process/v2", "Process"},
		{"Sample/", "Sample"},
		{"Sample", "Sample"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SchemeName(tt.profile), tt.profile)
	}
}

func TestClassify(t *testing.T) {
	idx, err := Classify(testSnapshot())
	require.NoError(t, err)

	assert.Equal(t, []string{"Sample", "Process"}, idx.Names())
	assert.True(t, idx.Has("Process"))
	assert.False(t, idx.Has("Nope"))

	res, err := idx.Resources("Sample")
	require.NoError(t, err)
	assert.Equal(t, []ResourceIndex{0, 2}, res)

	_, err = idx.Resources("Nope")
	assert.ErrorIs(t, err, ErrUnknownScheme)
	var unknown *UnknownSchemeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"Sample", "Process"}, unknown.Available)

	t.Run("canonical spec is the first resource's", func(t *testing.T) {
		assert.Equal(t, []string{"ID", "Comments"}, idx.FieldSpec("Sample").Keys())
	})

	t.Run("missing spec backfilled from metadata keys", func(t *testing.T) {
		assert.Equal(t, []string{"Oven", "Step"}, idx.FieldSpec("Process").Keys())
	})
}

func TestClassify_NoBackfillWithoutMetadata(t *testing.T) {
	snap := testSnapshot()
	snap.Files[2].Metadata = map[string]any{MetadataErrorKey: MetadataErrorMessage}

	idx, err := Classify(snap)
	require.NoError(t, err)
	assert.Nil(t, idx.FieldSpec("Process"))
}

func TestClassify_Empty(t *testing.T) {
	_, err := Classify(NewSnapshot())
	assert.ErrorIs(t, err, ErrNoData)
	_, err = Classify(nil)
	assert.ErrorIs(t, err, ErrNoData)
}
