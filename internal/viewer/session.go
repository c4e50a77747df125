// Package viewer holds the presentation-run state: which slide is current,
// keyboard navigation, and the one-shot effect trigger fired when a slide
// becomes current.
package viewer

import (
	"fmt"
	"strconv"

	"slidedeck/internal/models"
)

// Keys understood by HandleKey, named after the browser's KeyboardEvent.key
const (
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeySpace      = " "
)

// Transition describes the outcome of a navigation request
type Transition struct {
	From    int          `json:"from"`
	To      int          `json:"to"`
	Changed bool         `json:"changed"`
	Effect  *EffectEvent `json:"effect,omitempty"`
}

// Session tracks the current slide of one presentation run.
// It is not safe for concurrent use.
type Session struct {
	doc     *models.Document
	index   int
	current string // identity of the slide that last became current
}

// NewSession starts at the first slide. Call Start to fire its effect.
func NewSession(doc *models.Document) *Session {
	if doc == nil {
		doc = &models.Document{Slides: []models.Slide{}}
	}
	return &Session{doc: doc}
}

// Document returns the document being presented
func (s *Session) Document() *models.Document {
	return s.doc
}

// Index returns the current slide index
func (s *Session) Index() int {
	return s.index
}

// Len returns the number of slides
func (s *Session) Len() int {
	return len(s.doc.Slides)
}

// Current returns the current slide; ok is false for an empty presentation
func (s *Session) Current() (slide models.Slide, ok bool) {
	if len(s.doc.Slides) == 0 {
		return models.Slide{}, false
	}
	return s.doc.Slides[s.index], true
}

// Start makes the current slide current for the first time
func (s *Session) Start() Transition {
	return s.settle(s.index)
}

// HandleKey applies one key press. consumed reports whether the key
// belongs to the navigation surface; Space is always consumed so the
// page does not scroll.
func (s *Session) HandleKey(key string) (t Transition, consumed bool) {
	switch key {
	case KeyArrowLeft:
		if s.index > 0 {
			return s.settle(s.index - 1), true
		}
		return s.noop(), true
	case KeyArrowRight, KeySpace, "Space":
		if s.index < len(s.doc.Slides)-1 {
			return s.settle(s.index + 1), true
		}
		return s.noop(), true
	}
	return s.noop(), false
}

// Next moves forward one slide
func (s *Session) Next() Transition {
	t, _ := s.HandleKey(KeyArrowRight)
	return t
}

// Previous moves back one slide
func (s *Session) Previous() Transition {
	t, _ := s.HandleKey(KeyArrowLeft)
	return t
}

// GoTo jumps to index
func (s *Session) GoTo(index int) (Transition, error) {
	if index < 0 || index >= len(s.doc.Slides) {
		return s.noop(), fmt.Errorf("slide %d out of range [0, %d)", index, len(s.doc.Slides))
	}
	return s.settle(index), nil
}

// Reset swaps in a reloaded document, keeping the index when it still
// exists. The effect fires only if a different slide ends up current.
func (s *Session) Reset(doc *models.Document) Transition {
	if doc == nil {
		doc = &models.Document{Slides: []models.Slide{}}
	}
	s.doc = doc
	index := s.index
	if index >= len(doc.Slides) {
		index = len(doc.Slides) - 1
	}
	if index < 0 {
		index = 0
	}
	return s.settle(index)
}

func (s *Session) noop() Transition {
	return Transition{From: s.index, To: s.index}
}

// settle moves to index and fires the effect on the edge where the
// current slide identity changes.
func (s *Session) settle(index int) Transition {
	t := Transition{From: s.index, To: index, Changed: index != s.index}
	s.index = index

	slide, ok := s.Current()
	if !ok {
		s.current = ""
		return t
	}
	identity := SlideKey(slide, index)
	if identity == s.current {
		return t
	}
	s.current = identity
	if slide.Effect != nil {
		ev := NewEffectEvent(slide, index)
		t.Effect = &ev
	}
	return t
}

// SlideKey identifies a slide for effect edge detection: its id, or its
// position when it has none.
func SlideKey(slide models.Slide, index int) string {
	if slide.ID != "" {
		return "id:" + slide.ID
	}
	return "index:" + strconv.Itoa(index)
}
