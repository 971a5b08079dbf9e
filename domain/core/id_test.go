package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	emptyID := ID("")
	if !emptyID.IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}

	nonEmptyID := ID("not-empty")
	if nonEmptyID.IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

func TestParseID(t *testing.T) {
	id := NewID()
	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("not-a-uuid")
	assert.Error(t, err)
}

func TestComputeFilterHash_OrderInsensitive(t *testing.T) {
	a := ComputeFilterHash(map[string][]string{
		"Sexo":    {"F", "M"},
		"Estrato": {"3", "1"},
	})
	b := ComputeFilterHash(map[string][]string{
		"Estrato": {"1", "3"},
		"Sexo":    {"M", "F"},
	})
	assert.Equal(t, a, b)

	c := ComputeFilterHash(map[string][]string{"Sexo": {"F"}})
	assert.NotEqual(t, a, c)
}

func TestComputeFilterHash_EmptySetsAreUnconstrained(t *testing.T) {
	a := ComputeFilterHash(map[string][]string{"Sexo": {}, "Estrato": nil})
	b := ComputeFilterHash(nil)
	assert.Equal(t, a, b)
}

func TestErrorSentinels(t *testing.T) {
	err := NewMissingColumnError("Autoestima")
	assert.True(t, IsMissingColumnError(err))
	assert.True(t, IsSoftError(err))
	assert.Contains(t, err.Error(), "Autoestima")

	err = NewInsufficientDataError("only %d group", 1)
	assert.True(t, IsInsufficientDataError(err))
	assert.True(t, IsSoftError(err))

	err = NewDataSourceError("DATOS.xlsx", fmt.Errorf("zip: not a valid zip file"))
	assert.True(t, IsDataSourceError(err))
	assert.False(t, IsSoftError(err))
}
