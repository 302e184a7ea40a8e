package structure

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelection(t *testing.T) {
	sels, err := ParseSelection("57, 102,195", "A,A, B")
	require.NoError(t, err)
	assert.Equal(t, []Selection{{"57", "A"}, {"102", "A"}, {"195", "B"}}, sels)

	residues, chains := FormatSelection(sels)
	assert.Equal(t, "57,102,195", residues)
	assert.Equal(t, "A,A,B", chains)
}

func TestParseSelectionSingleAndEmpty(t *testing.T) {
	sels, err := ParseSelection("57", "")
	require.NoError(t, err)
	assert.Equal(t, []Selection{{Residue: "57"}}, sels)

	sels, err = ParseSelection("", "")
	require.NoError(t, err)
	assert.Empty(t, sels)
}

func TestParseSelectionMismatch(t *testing.T) {
	_, err := ParseSelection("57,102", "A")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSelectionMismatch))
	assert.Contains(t, err.Error(), "2 residues, 1 chains")
}

func TestMissing(t *testing.T) {
	s, err := Parse(strings.NewReader(samplePDB("A")))
	require.NoError(t, err)
	missing := Missing(s, []Selection{{"1", "A"}, {"9", "A"}, {"1", "Z"}})
	assert.Equal(t, []Selection{{"9", "A"}, {"1", "Z"}}, missing)
}
