package chain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternIdempotent(t *testing.T) {
	in := NewInterner()

	id1, err := in.Intern("hello")
	require.NoError(t, err)
	id2, err := in.Intern("hello")
	require.NoError(t, err)
	assert.Equal(t, id1, id2, "repeated Intern of the same spelling must return the same id")

	got, ok := in.Lookup("hello")
	require.True(t, ok)
	assert.Equal(t, id1, got)
}

func TestInternFirstOccurrenceOrder(t *testing.T) {
	in := NewInterner()

	spellings := []string{"the", "quick", "brown", "fox", "quick", "the"}
	wantIDs := []int{0, 1, 2, 3, 1, 0}
	for i, s := range spellings {
		id, err := in.Intern(s)
		require.NoError(t, err)
		assert.Equal(t, wantIDs[i], id, "spelling %q", s)
	}
	assert.Equal(t, 4, in.Len())

	for id := 0; id < in.Len(); id++ {
		back, ok := in.Lookup(in.Spelling(id))
		require.True(t, ok)
		assert.Equal(t, id, back, "id->spelling->id must round-trip")
	}
}

func TestInternUniqueness(t *testing.T) {
	in := NewInterner()

	idA, err := in.Intern("cat")
	require.NoError(t, err)
	idB, err := in.Intern("cat.")
	require.NoError(t, err)
	assert.NotEqual(t, idA, idB, "distinct byte sequences must get distinct ids")
}

func TestLookupDoesNotIntern(t *testing.T) {
	in := NewInterner()

	_, ok := in.Lookup("ghost")
	assert.False(t, ok)
	assert.Equal(t, 0, in.Len(), "Lookup must not assign ids")
}

func TestInternGrowsUnderLoad(t *testing.T) {
	// A tiny initial table forces several rehashes.
	in := NewInterner(WithTableSize(8))

	const n = 5000
	ids := make(map[string]int, n)
	for i := 0; i < n; i++ {
		s := fmt.Sprintf("word%d", i)
		id, err := in.Intern(s)
		require.NoError(t, err)
		ids[s] = id
	}
	require.Equal(t, n, in.Len())

	for s, want := range ids {
		got, ok := in.Lookup(s)
		require.True(t, ok, "lookup of %q after growth", s)
		assert.Equal(t, want, got)
		assert.Equal(t, s, in.Spelling(want))
	}
}

func TestFixedTableReportsExhaustion(t *testing.T) {
	in := NewInterner(WithFixedTable(4))

	for i := 0; i < 4; i++ {
		_, err := in.Intern(fmt.Sprintf("tok%d", i))
		require.NoError(t, err)
	}

	_, err := in.Intern("overflow")
	require.ErrorIs(t, err, ErrVocabFull)

	// Existing spellings must still resolve on a full table.
	id, err := in.Intern("tok2")
	require.NoError(t, err)
	got, ok := in.Lookup("tok2")
	require.True(t, ok)
	assert.Equal(t, id, got)
}
