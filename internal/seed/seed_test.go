package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBooks(t *testing.T) {
	books, err := Books()
	require.NoError(t, err)
	require.Len(t, books, 8)

	seen := map[string]bool{}
	loaned := 0
	for _, b := range books {
		assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
		assert.NotEmpty(t, b.Title)
		assert.NotEmpty(t, b.Genre)
		assert.True(t, b.Status.Valid(), b.Status)
		assert.False(t, b.DateAdded.IsZero())
		if b.IsLoaned() {
			loaned++
			assert.NotEmpty(t, b.Borrowed.LoanedTo)
		}
	}
	assert.Equal(t, 1, loaned)

	// Each call returns an independent copy.
	again, err := Books()
	require.NoError(t, err)
	again[0].Title = "changed"
	assert.Equal(t, "The Midnight Library", books[0].Title)
}
