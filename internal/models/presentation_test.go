package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_NullSlidesBecomeEmpty(t *testing.T) {
	for _, raw := range []string{
		`{"documentName":"x","settings":{}}`,
		`{"documentName":"x","settings":{},"slides":null}`,
	} {
		var doc Document
		require.NoError(t, json.Unmarshal([]byte(raw), &doc))
		assert.NotNil(t, doc.Slides)
		assert.Empty(t, doc.Slides)
	}

	out, err := json.Marshal(Document{DocumentName: "x"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"slides":[]`)
}

func TestDocument_SettingsWireShape(t *testing.T) {
	raw := `{
		"documentName": "Deck",
		"settings": {
			"fontSize": "16px",
			"fontFamily": "Inter, sans-serif",
			"gradientBackground": {"from": "#a5f3fc", "to": "#fbcfe8"},
			"footer": {"logoUrl": "/logo.svg", "dateFormat": "MMM yyyy"},
			"date": "2024-03-19"
		},
		"slides": [{"type": "header-only", "header": "Hi"}]
	}`
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	assert.Equal(t, "#a5f3fc", doc.Settings.Gradient.From)
	assert.Equal(t, "/logo.svg", doc.Settings.Footer.LogoURL)
	assert.Equal(t, "MMM yyyy", doc.Settings.Footer.DateFormat)

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestDocument_CloneAndIndexOf(t *testing.T) {
	doc := DefaultDocument(time.Date(2024, 3, 19, 0, 0, 0, 0, time.UTC))
	doc.Slides[0].ID = "a"
	doc.Slides[1].ID = "b"

	cp := doc.Clone()
	cp.Slides[0].Effect.Options.Emoji = "🚀"
	cp.Slides = append(cp.Slides, NewSlide(SlideMarkdown))

	assert.Equal(t, "✨", doc.Slides[0].Effect.Options.Emoji)
	assert.Len(t, doc.Slides, 2)
	assert.Equal(t, 1, doc.IndexOf("b"))
	assert.Equal(t, -1, doc.IndexOf("zzz"))
}

func TestDefaultDocument(t *testing.T) {
	doc := DefaultDocument(time.Date(2024, 3, 19, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-03-19", doc.Settings.Date)
	require.Len(t, doc.Slides, 2)
	assert.Equal(t, SlideHeaderOnly, doc.Slides[0].Type())
	assert.Equal(t, SlideMarkdown, doc.Slides[1].Type())
	assert.Empty(t, doc.Validate())
}

func TestDocument_ValidateDuplicateIDs(t *testing.T) {
	doc := &Document{Slides: []Slide{
		{ID: "1", Content: HeaderOnly{Header: "a"}},
		{ID: "1", Content: HeaderOnly{Header: "b"}},
		{Content: Markdown{}, Missing: []string{FieldMarkdown}},
	}}
	violations := doc.Validate()
	require.Len(t, violations, 2)
	assert.Equal(t, "id", violations[0].Field)
	assert.Equal(t, "slide 1: id: duplicate of slide 0", violations[0].String())
	assert.Equal(t, 2, violations[1].Index)
	assert.Equal(t, FieldMarkdown, violations[1].Field)
}

func TestDefaultEffect(t *testing.T) {
	emoji := DefaultEffect(EffectFlyingEmoji)
	assert.Equal(t, EffectOptions{ParticleCount: 10, Emoji: "✨", Duration: 3, FadeOut: 0.7}, emoji.Options)

	confetti := DefaultEffect(EffectConfetti)
	assert.Equal(t, EffectOptions{ParticleCount: 80, Spread: 60}, confetti.Options)
}
