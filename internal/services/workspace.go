package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"slidedeck/internal/models"
)

// Workspace ties the document store to the deck the server edits and to the
// listeners that must see every new document. The deck opens lazily so the
// server can start before any document exists.
type Workspace struct {
	store  DocumentStore
	scheme IDScheme
	logger *zap.Logger

	mu        sync.Mutex
	deck      *Deck
	listeners []func(ctx context.Context, doc *models.Document)
}

// NewWorkspace creates a workspace over store
func NewWorkspace(store DocumentStore, scheme IDScheme, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workspace{store: store, scheme: scheme, logger: logger.Named("workspace")}
}

// Store returns the underlying document store
func (w *Workspace) Store() DocumentStore {
	return w.store
}

// OnChange registers fn to receive the document after every change
func (w *Workspace) OnChange(fn func(ctx context.Context, doc *models.Document)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, fn)
}

// Deck returns the open deck, loading it from the store on first use
func (w *Workspace) Deck(ctx context.Context) (*Deck, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.deck != nil {
		return w.deck, nil
	}
	deck, err := OpenDeck(ctx, w.store, w.scheme, w.logger)
	if err != nil {
		return nil, err
	}
	w.deck = deck
	return deck, nil
}

// Refresh rereads the store after it was written outside the deck and
// notifies listeners
func (w *Workspace) Refresh(ctx context.Context) error {
	w.mu.Lock()
	deck := w.deck
	w.mu.Unlock()

	if deck == nil {
		var err error
		if deck, err = w.Deck(ctx); err != nil {
			return err
		}
	} else if err := deck.Reload(ctx); err != nil {
		w.logger.Warn("reload failed, keeping previous document", zap.Error(err))
		return err
	}
	w.Changed(ctx)
	return nil
}

// Changed notifies listeners with the current deck document
func (w *Workspace) Changed(ctx context.Context) {
	w.mu.Lock()
	deck := w.deck
	listeners := append([]func(context.Context, *models.Document){}, w.listeners...)
	w.mu.Unlock()

	if deck == nil {
		return
	}
	doc := deck.Document()
	for _, fn := range listeners {
		fn(ctx, doc.Clone())
	}
}
