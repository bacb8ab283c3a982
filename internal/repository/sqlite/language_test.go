package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguageList_ReturnsSeedOrder(t *testing.T) {
	db := newTestDB(t)

	langs, err := db.Languages().List(context.Background())
	require.NoError(t, err)
	require.Len(t, langs, len(canonicalLanguages))

	for i, lang := range langs {
		assert.Equal(t, canonicalLanguages[i], lang.Name)
		assert.NotZero(t, lang.ID)
	}
}

func TestLanguageList_EmptyTable(t *testing.T) {
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.EnsureSchema(context.Background(), nil))

	langs, err := db.Languages().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, langs)
	assert.Empty(t, langs)
}
