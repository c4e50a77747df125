package services

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"slidedeck/internal/models"
)

// IDScheme decides how slide identifiers are assigned
type IDScheme string

const (
	// IDStable assigns a random identifier once and keeps it across reorders
	IDStable IDScheme = "stable"
	// IDPositional renumbers slides "1".."n" after every structural change
	IDPositional IDScheme = "positional"
)

// ParseIDScheme validates a configured scheme name; empty means stable
func ParseIDScheme(s string) (IDScheme, error) {
	switch IDScheme(s) {
	case "", IDStable:
		return IDStable, nil
	case IDPositional:
		return IDPositional, nil
	}
	return "", fmt.Errorf("unknown slide id scheme %q", s)
}

// Deck owns the in-memory document of one editing session. Every mutation
// builds a new document, waits for the store to persist it and only then
// replaces the current value, so a failed save leaves the deck unchanged.
type Deck struct {
	mu     sync.Mutex
	store  DocumentStore
	scheme IDScheme
	doc    *models.Document
	logger *zap.Logger
	newID  func() string
}

// OpenDeck loads the document from store and assigns missing identifiers
func OpenDeck(ctx context.Context, store DocumentStore, scheme IDScheme, logger *zap.Logger) (*Deck, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Deck{
		store:  store,
		scheme: scheme,
		logger: logger.Named("deck"),
		newID:  func() string { return uuid.NewString() },
	}
	if err := d.Reload(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

// Reload discards the in-memory document and reads the store again. It
// holds the deck lock across the read so a save in flight is never
// replaced by the file contents from before it.
func (d *Deck) Reload(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, err := d.store.Load(ctx)
	if err != nil {
		return err
	}
	d.assignIDs(doc)
	d.doc = doc
	return nil
}

// Document returns a copy of the current document
func (d *Deck) Document() *models.Document {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Clone()
}

// Len returns the number of slides
func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.doc.Slides)
}

// Slide returns a copy of the slide at index
func (d *Deck) Slide(index int) (models.Slide, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.doc.Slides) {
		return models.Slide{}, newError(KindOutOfRange, nil, "Slide index out of bounds")
	}
	return d.doc.Slides[index].Clone(), nil
}

// AddSlide appends a slide of type t with default values
func (d *Deck) AddSlide(ctx context.Context, t models.SlideType) (models.Slide, error) {
	if !t.Known() {
		return models.Slide{}, newError(KindValidationFailure, nil, "Unknown slide type %q", t)
	}
	var added models.Slide
	err := d.mutate(ctx, func(doc *models.Document) error {
		slide := models.NewSlide(t)
		if d.scheme == IDStable {
			slide.ID = d.newID()
		}
		doc.Slides = append(doc.Slides, slide)
		return nil
	}, func(doc *models.Document) {
		added = doc.Slides[len(doc.Slides)-1].Clone()
	})
	return added, err
}

// RemoveSlide deletes the slide with the given identifier
func (d *Deck) RemoveSlide(ctx context.Context, id string) error {
	return d.mutate(ctx, func(doc *models.Document) error {
		index := doc.IndexOf(id)
		if index < 0 {
			return newError(KindNotFound, nil, "Slide %q not found", id)
		}
		doc.Slides = append(doc.Slides[:index], doc.Slides[index+1:]...)
		return nil
	}, nil)
}

// MoveSlide removes the slide at from and reinserts it at to
func (d *Deck) MoveSlide(ctx context.Context, from, to int) error {
	return d.mutate(ctx, func(doc *models.Document) error {
		n := len(doc.Slides)
		if from < 0 || from >= n || to < 0 || to >= n {
			return newError(KindOutOfRange, nil, "Slide index out of bounds")
		}
		doc.Slides = moveSlide(doc.Slides, from, to)
		return nil
	}, nil)
}

// ReplaceSlide swaps the slide at index for slide. An empty identifier
// inherits the identifier of the slide it replaces.
func (d *Deck) ReplaceSlide(ctx context.Context, index int, slide models.Slide) error {
	return d.mutate(ctx, func(doc *models.Document) error {
		if index < 0 || index >= len(doc.Slides) {
			return newError(KindOutOfRange, nil, "Slide index out of bounds")
		}
		next := slide.Clone()
		if next.ID == "" {
			next.ID = doc.Slides[index].ID
		}
		doc.Slides[index] = next
		return nil
	}, nil)
}

// Rename sets the document name
func (d *Deck) Rename(ctx context.Context, name string) error {
	return d.mutate(ctx, func(doc *models.Document) error {
		doc.DocumentName = name
		return nil
	}, nil)
}

// UpdateSettings replaces the presentation settings
func (d *Deck) UpdateSettings(ctx context.Context, settings models.Settings) error {
	return d.mutate(ctx, func(doc *models.Document) error {
		doc.Settings = settings
		return nil
	}, nil)
}

// mutate applies fn to a copy of the document, persists it and swaps it in.
// done runs under the lock after a successful save.
func (d *Deck) mutate(ctx context.Context, fn func(doc *models.Document) error, done func(doc *models.Document)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.doc.Clone()
	if err := fn(next); err != nil {
		return err
	}
	d.assignIDs(next)

	if err := d.store.Save(ctx, next); err != nil {
		d.logger.Warn("save failed, keeping previous document", zap.Error(err))
		return err
	}
	d.doc = next
	if done != nil {
		done(next)
	}
	return nil
}

func (d *Deck) assignIDs(doc *models.Document) {
	switch d.scheme {
	case IDPositional:
		for i := range doc.Slides {
			doc.Slides[i].ID = strconv.Itoa(i + 1)
		}
	default:
		seen := make(map[string]bool, len(doc.Slides))
		for i := range doc.Slides {
			if id := doc.Slides[i].ID; id == "" || seen[id] {
				doc.Slides[i].ID = d.newID()
			}
			seen[doc.Slides[i].ID] = true
		}
	}
}

// moveSlide returns a new slice with the element at from reinserted at to
func moveSlide(slides []models.Slide, from, to int) []models.Slide {
	out := make([]models.Slide, 0, len(slides))
	moved := slides[from]
	for i, s := range slides {
		if i != from {
			out = append(out, s)
		}
	}
	out = append(out, models.Slide{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out
}
