package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReorderChangesListing(t *testing.T) {
	db := newTestDB(t)
	store := NewSectionStore(db)
	applier := NewReorderApplier(db)

	first := mustCreate(t, store, "general", "General")
	second := mustCreate(t, store, "tech", "Technology")

	processed, err := applier.Apply([]ReorderEntry{
		{ID: first.ID, SortOrder: 10},
		{ID: second.ID, SortOrder: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	items, _, err := store.ListPage(1, 10, false)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
}

func TestReorderUnknownIDIsNoop(t *testing.T) {
	db := newTestDB(t)
	store := NewSectionStore(db)
	applier := NewReorderApplier(db)
	section := mustCreate(t, store, "general", "General")

	processed, err := applier.Apply([]ReorderEntry{
		{ID: section.ID, SortOrder: 42},
		{ID: 9999, SortOrder: 7},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	reloaded, err := store.GetByID(section.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, reloaded.SortOrder)
}

func TestReorderValidation(t *testing.T) {
	db := newTestDB(t)
	store := NewSectionStore(db)
	applier := NewReorderApplier(db)
	section := mustCreate(t, store, "general", "General")

	cases := []struct {
		name    string
		entries []ReorderEntry
	}{
		{"empty batch", nil},
		{"zero id", []ReorderEntry{{ID: 0, SortOrder: 10}}},
		{"sort order too low", []ReorderEntry{{ID: section.ID, SortOrder: 0}}},
		{"sort order too high", []ReorderEntry{{ID: section.ID, SortOrder: 1000}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := applier.Apply(tc.entries)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}

	big := make([]ReorderEntry, 101)
	for i := range big {
		big[i] = ReorderEntry{ID: uint(i + 1), SortOrder: 10}
	}
	_, err := applier.Apply(big)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	// validation happens before any write
	reloaded, err := store.GetByID(section.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, reloaded.SortOrder)
}

func TestReorderAllowsDuplicateSortOrders(t *testing.T) {
	db := newTestDB(t)
	store := NewSectionStore(db)
	applier := NewReorderApplier(db)
	first := mustCreate(t, store, "general", "General")
	second := mustCreate(t, store, "tech", "Technology")

	_, err := applier.Apply([]ReorderEntry{
		{ID: first.ID, SortOrder: 50},
		{ID: second.ID, SortOrder: 50},
	})
	require.NoError(t, err)

	// ties break on id ascending
	items, _, err := store.ListPage(1, 10, false)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, first.ID, items[0].ID)
	assert.Equal(t, second.ID, items[1].ID)
}
