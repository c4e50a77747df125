package viewer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidedeck/internal/models"
)

func threeSlides() *models.Document {
	return &models.Document{Slides: []models.Slide{
		{ID: "a", Content: models.HeaderOnly{Header: "A"}, Effect: &models.Effect{Type: models.EffectFlyingEmoji}},
		{ID: "b", Content: models.Markdown{Markdown: "# B"}},
		{ID: "c", Content: models.HeaderOnly{Header: "C"}, Effect: &models.Effect{Type: models.EffectConfetti, Options: models.EffectOptions{Spread: 90}}},
	}}
}

func TestSession_KeyboardNavigation(t *testing.T) {
	s := NewSession(threeSlides())
	s.Start()

	tr, consumed := s.HandleKey(KeyArrowLeft)
	assert.True(t, consumed)
	assert.False(t, tr.Changed, "ArrowLeft at first slide is a no-op")
	assert.Equal(t, 0, s.Index())

	tr, _ = s.HandleKey(KeyArrowRight)
	assert.True(t, tr.Changed)
	assert.Equal(t, 1, s.Index())

	tr, consumed = s.HandleKey(KeySpace)
	assert.True(t, consumed)
	assert.Equal(t, 2, tr.To)

	tr, consumed = s.HandleKey(KeySpace)
	assert.True(t, consumed, "space is consumed even at the last slide")
	assert.False(t, tr.Changed)
	assert.Equal(t, 2, s.Index())

	_, consumed = s.HandleKey("Enter")
	assert.False(t, consumed)

	s.Previous()
	assert.Equal(t, 1, s.Index())
	s.Next()
	assert.Equal(t, 2, s.Index())
}

func TestSession_EffectFiresOncePerBecomingCurrent(t *testing.T) {
	s := NewSession(threeSlides())

	tr := s.Start()
	require.NotNil(t, tr.Effect)
	assert.Equal(t, "a", tr.Effect.SlideID)
	assert.Len(t, tr.Effect.Delays, 10)

	// re-settling on the same slide does not fire again
	tr, err := s.GoTo(0)
	require.NoError(t, err)
	assert.Nil(t, tr.Effect)
	tr, _ = s.HandleKey(KeyArrowLeft)
	assert.Nil(t, tr.Effect)

	// slide without effect
	tr = s.Next()
	assert.Nil(t, tr.Effect)

	tr = s.Next()
	require.NotNil(t, tr.Effect)
	assert.Equal(t, models.EffectConfetti, tr.Effect.Effect.Type)
	assert.Equal(t, 90, tr.Effect.Effect.Options.Spread)
	assert.Equal(t, 100, tr.Effect.Effect.Options.ParticleCount)

	// pressing next at the end keeps the slide current without firing
	tr = s.Next()
	assert.Nil(t, tr.Effect)

	// coming back fires again: that is a new becoming-current transition
	s.GoTo(0)
	tr = s.Next()
	assert.Nil(t, tr.Effect)
	tr = s.Next()
	assert.NotNil(t, tr.Effect)
}

func TestSession_ResetKeepsCurrentSlideQuiet(t *testing.T) {
	s := NewSession(threeSlides())
	s.Start()
	s.GoTo(2)

	reloaded := threeSlides()
	tr := s.Reset(reloaded)
	assert.Nil(t, tr.Effect, "same slide stays current after reload")
	assert.Equal(t, 2, s.Index())

	shorter := &models.Document{Slides: reloaded.Slides[:1]}
	tr = s.Reset(shorter)
	assert.Equal(t, 0, s.Index())
	assert.NotNil(t, tr.Effect)

	s.Reset(&models.Document{Slides: []models.Slide{}})
	assert.Equal(t, 0, s.Index())
	_, ok := s.Current()
	assert.False(t, ok)
}

func TestSession_GoToOutOfRange(t *testing.T) {
	s := NewSession(threeSlides())
	_, err := s.GoTo(3)
	assert.Error(t, err)
	_, err = s.GoTo(-1)
	assert.Error(t, err)
}

func TestSession_EmptyPresentation(t *testing.T) {
	s := NewSession(nil)
	tr := s.Start()
	assert.Nil(t, tr.Effect)
	tr, consumed := s.HandleKey(KeyArrowRight)
	assert.True(t, consumed)
	assert.False(t, tr.Changed)
}

func TestSession_SlidesWithoutIDsUseIndex(t *testing.T) {
	doc := &models.Document{Slides: []models.Slide{
		{Content: models.HeaderOnly{Header: "A"}, Effect: &models.Effect{Type: models.EffectFlyingEmoji}},
		{Content: models.HeaderOnly{Header: "B"}, Effect: &models.Effect{Type: models.EffectFlyingEmoji}},
	}}
	s := NewSession(doc)
	assert.NotNil(t, s.Start().Effect)
	assert.NotNil(t, s.Next().Effect)
	assert.NotNil(t, s.Previous().Effect)
}

func TestResolveEffect(t *testing.T) {
	emoji := ResolveEffect(models.Effect{Type: models.EffectFlyingEmoji, Options: models.EffectOptions{ParticleCount: 40}})
	assert.Equal(t, MaxEmojis, emoji.Options.ParticleCount)
	assert.Equal(t, "🚀", emoji.Options.Emoji)
	assert.Equal(t, 3.0, emoji.Options.Duration)
	assert.Equal(t, 0.5, emoji.Options.FadeOut)

	kept := ResolveEffect(models.DefaultEffect(models.EffectFlyingEmoji))
	assert.Equal(t, models.DefaultEffect(models.EffectFlyingEmoji), kept)

	confetti := ResolveEffect(models.Effect{Type: models.EffectConfetti})
	assert.Equal(t, 70, confetti.Options.Spread)
	assert.Equal(t, 30, confetti.Options.StartVelocity)
	assert.Len(t, confetti.Options.Colors, 5)

	ev := NewEffectEvent(models.Slide{ID: "x", Effect: &models.Effect{Type: models.EffectFlyingEmoji, Options: models.EffectOptions{ParticleCount: 3}}}, 4)
	assert.Equal(t, []float64{0, 0.15, 0.3}, ev.Delays)
	assert.Equal(t, 4, ev.Index)
}
