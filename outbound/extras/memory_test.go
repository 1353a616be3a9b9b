package extras

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"ru-ticket/model"
	"testing"
)

func TestMemoryPutGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(2)

	_, found, err := store.Get(ctx, "TCK-1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Put(ctx, "TCK-1", model.TicketExtras{Restaurant: "setorial1"}))
	require.NoError(t, store.Put(ctx, "TCK-1", model.TicketExtras{Restaurant: "saude"}))

	extras, found, err := store.Get(ctx, "TCK-1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "saude", extras.Restaurant)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryEvictsOldest(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(2)

	require.NoError(t, store.Put(ctx, "TCK-1", model.TicketExtras{Meal: "breakfast"}))
	require.NoError(t, store.Put(ctx, "TCK-2", model.TicketExtras{Meal: "lunch"}))
	require.NoError(t, store.Put(ctx, "TCK-3", model.TicketExtras{Meal: "dinner"}))

	assert.Equal(t, 2, store.Len())

	_, found, _ := store.Get(ctx, "TCK-1")
	assert.False(t, found)

	extras, found, _ := store.Get(ctx, "TCK-3")
	assert.True(t, found)
	assert.Equal(t, "dinner", extras.Meal)
}
