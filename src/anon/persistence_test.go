//go:build unit

package anon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlcloak/sqlcloak/src/sqllex"
)

func populatedState(t *testing.T) *MappingState {
	s := NewMappingState()
	pairs := []struct {
		category sqllex.TokenCategory
		value    string
	}{
		{sqllex.CategoryTable, "employees"},
		{sqllex.CategoryTable, "orders"},
		{sqllex.CategoryIdentifier, "name"},
		{sqllex.CategoryIdentifier, "salary"},
		{sqllex.CategoryLiteral, "50000"},
		{sqllex.CategoryLiteral, "'active'"},
	}
	for _, p := range pairs {
		_, err := s.AssignPlaceholder(p.category, p.value)
		require.NoError(t, err)
	}
	return s
}

func assertStatesEqual(t *testing.T, want, got *MappingState) {
	t.Helper()
	for _, c := range AnonymizableCategories {
		assert.Equal(t, want.Counter(c), got.Counter(c), "counter for %s", c)
		assert.Equal(t, want.Entries(c), got.Entries(c), "entries for %s", c)
	}
}

func TestMappingStateRoundTrip(t *testing.T) {
	want := populatedState(t)
	data, err := SaveMappingState(want)
	require.NoError(t, err)

	got, err := LoadMappingState(data)
	require.NoError(t, err)
	assertStatesEqual(t, want, got)

	// Placeholder minting continues from the restored counters.
	p, err := got.AssignPlaceholder(sqllex.CategoryTable, "customers")
	require.NoError(t, err)
	assert.Equal(t, "table_3", p)
}

func TestEmptyStateRoundTrip(t *testing.T) {
	data, err := SaveMappingState(NewMappingState())
	require.NoError(t, err)

	got, err := LoadMappingState(data)
	require.NoError(t, err)
	assert.Zero(t, got.Size())
}

func TestLoadMappingStateCorruptCases(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{
			name: "not json at all",
			data: "this is not json",
		},
		{
			name: "unknown category name",
			data: `{"mappings":{"bogus":{"forward":{},"reverse":{},"counter":0}}}`,
		},
		{
			name: "valid category outside the anonymizable set",
			data: `{"mappings":{"keyword":{"forward":{},"reverse":{},"counter":0}}}`,
		},
		{
			name: "counter does not match forward size",
			data: `{"mappings":{"table":{"forward":{"users":"table_1"},"reverse":{"table_1":"users"},"counter":2}}}`,
		},
		{
			name: "reverse is not the inverse of forward",
			data: `{"mappings":{"table":{"forward":{"users":"table_1"},"reverse":{"table_1":"orders"},"counter":1}}}`,
		},
		{
			name: "reverse entry missing",
			data: `{"mappings":{"table":{"forward":{"users":"table_1"},"reverse":{"table_2":"users"},"counter":1}}}`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadMappingState([]byte(tc.data))
			assert.ErrorIs(t, err, ErrCorruptState)
		})
	}
}

func TestLoadMappingStateToleratesMissingCategories(t *testing.T) {
	// A file written before a category existed still loads; the absent
	// category starts empty.
	got, err := LoadMappingState([]byte(
		`{"mappings":{"table":{"forward":{"users":"table_1"},"reverse":{"table_1":"users"},"counter":1}}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, got.Counter(sqllex.CategoryTable))
	assert.Zero(t, got.Counter(sqllex.CategoryIdentifier))
	assert.Zero(t, got.Counter(sqllex.CategoryLiteral))
}
