package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidedeck/internal/models"
)

func TestWorkspace_OpensLazily(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	ws := NewWorkspace(store, IDPositional, nil)

	_, err := ws.Deck(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	store.doc = headers(2)
	deck, err := ws.Deck(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deck.Len())

	again, err := ws.Deck(ctx)
	require.NoError(t, err)
	assert.Same(t, deck, again)
}

func TestWorkspace_RefreshNotifies(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{doc: headers(1)}
	ws := NewWorkspace(store, IDPositional, nil)

	var seen []*models.Document
	ws.OnChange(func(ctx context.Context, doc *models.Document) {
		seen = append(seen, doc)
	})

	ws.Changed(ctx)
	assert.Empty(t, seen, "nothing to report before the deck opens")

	require.NoError(t, ws.Refresh(ctx))
	require.Len(t, seen, 1)
	assert.Equal(t, []string{"S0"}, slideHeaders(seen[0]))

	// written behind the deck's back
	store.doc = headers(3)
	require.NoError(t, ws.Refresh(ctx))
	require.Len(t, seen, 2)
	assert.Equal(t, []string{"S0", "S1", "S2"}, slideHeaders(seen[1]))

	// listeners get copies
	seen[1].Slides = nil
	deck, err := ws.Deck(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, deck.Len())
}

func TestWorkspace_RefreshKeepsDocumentOnFailure(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{doc: headers(2)}
	ws := NewWorkspace(store, IDPositional, nil)
	calls := 0
	ws.OnChange(func(context.Context, *models.Document) { calls++ })

	require.NoError(t, ws.Refresh(ctx))
	store.doc = nil
	require.Error(t, ws.Refresh(ctx))
	assert.Equal(t, 1, calls)

	deck, err := ws.Deck(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deck.Len())
}
