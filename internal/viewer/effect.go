package viewer

import "slidedeck/internal/models"

const (
	// MaxEmojis caps flying-emoji particles regardless of the configured count
	MaxEmojis = 15
	// EmojiStagger is the delay between consecutive emoji launches, in seconds
	EmojiStagger = 0.15
)

var defaultConfettiColors = []string{"#ff0000", "#00ff00", "#0000ff", "#ffff00", "#ff00ff"}

// EffectEvent is emitted once when a slide with an effect becomes current
type EffectEvent struct {
	SlideID string        `json:"slideId,omitempty"`
	Index   int           `json:"index"`
	Effect  models.Effect `json:"effect"`
	Delays  []float64     `json:"delays,omitempty"`
}

// NewEffectEvent resolves the slide's effect options for playback
func NewEffectEvent(slide models.Slide, index int) EffectEvent {
	ev := EffectEvent{SlideID: slide.ID, Index: index}
	if slide.Effect == nil {
		return ev
	}
	ev.Effect = ResolveEffect(*slide.Effect)
	if ev.Effect.Type == models.EffectFlyingEmoji {
		ev.Delays = make([]float64, ev.Effect.Options.ParticleCount)
		for i := range ev.Delays {
			ev.Delays[i] = float64(i) * EmojiStagger
		}
	}
	return ev
}

// ResolveEffect fills absent options with playback defaults, which are not
// the editor's defaults.
func ResolveEffect(e models.Effect) models.Effect {
	out := e.Clone()
	o := &out.Options
	switch e.Type {
	case models.EffectConfetti:
		if o.ParticleCount <= 0 {
			o.ParticleCount = 100
		}
		if o.Spread <= 0 {
			o.Spread = 70
		}
		if o.StartVelocity <= 0 {
			o.StartVelocity = 30
		}
		if len(o.Colors) == 0 {
			o.Colors = append([]string(nil), defaultConfettiColors...)
		}
	case models.EffectFlyingEmoji:
		if o.ParticleCount <= 0 {
			o.ParticleCount = 10
		}
		if o.ParticleCount > MaxEmojis {
			o.ParticleCount = MaxEmojis
		}
		if o.Emoji == "" {
			o.Emoji = "🚀"
		}
		if o.Duration <= 0 {
			o.Duration = 3
		}
		if o.FadeOut <= 0 {
			o.FadeOut = 0.5
		}
	}
	return out
}
