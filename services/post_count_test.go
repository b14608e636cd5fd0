package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementAndDecrement(t *testing.T) {
	db := newTestDB(t)
	store := NewSectionStore(db)
	sync := NewPostCountSynchronizer(db)
	section := mustCreate(t, store, "general", "General")

	updated, err := sync.Increment(section.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.PostsCount)

	updated, err = sync.Increment(section.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.PostsCount)

	updated, err = sync.Increment(section.ID, -2)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.PostsCount)
}

func TestIncrementClampsAtZero(t *testing.T) {
	db := newTestDB(t)
	store := NewSectionStore(db)
	sync := NewPostCountSynchronizer(db)
	section := mustCreate(t, store, "general", "General")

	_, err := sync.Increment(section.ID, 2)
	require.NoError(t, err)

	updated, err := sync.Increment(section.ID, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.PostsCount)
}

func TestIncrementUnknownSection(t *testing.T) {
	sync := NewPostCountSynchronizer(newTestDB(t))
	_, err := sync.Increment(12345, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
