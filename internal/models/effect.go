package models

import "slices"

// EffectType selects the one-shot animation played when a slide becomes current
type EffectType string

const (
	EffectFlyingEmoji EffectType = "flying-emoji"
	EffectConfetti    EffectType = "confetti"
)

// EffectTypes lists the supported effects in editor order
var EffectTypes = []EffectType{EffectFlyingEmoji, EffectConfetti}

// Known reports whether t is a supported effect
func (t EffectType) Known() bool {
	return t == EffectFlyingEmoji || t == EffectConfetti
}

// EffectOptions is the union of options used by all effect types.
// flying-emoji reads ParticleCount, Emoji, Duration and FadeOut;
// confetti reads ParticleCount, Spread, StartVelocity and Colors.
type EffectOptions struct {
	ParticleCount int      `json:"particleCount,omitempty"`
	Emoji         string   `json:"emoji,omitempty"`
	Duration      float64  `json:"duration,omitempty"`
	FadeOut       float64  `json:"fadeOut,omitempty"`
	Spread        int      `json:"spread,omitempty"`
	StartVelocity int      `json:"startVelocity,omitempty"`
	Colors        []string `json:"colors,omitempty"`
}

// Effect is a decorative animation attached to a slide
type Effect struct {
	Type    EffectType    `json:"type"`
	Options EffectOptions `json:"options"`
}

// Clone returns a deep copy of the effect
func (e Effect) Clone() Effect {
	e.Options.Colors = slices.Clone(e.Options.Colors)
	return e
}

// DefaultEffect returns the effect the editor creates for type t
func DefaultEffect(t EffectType) Effect {
	switch t {
	case EffectConfetti:
		return Effect{
			Type:    EffectConfetti,
			Options: EffectOptions{ParticleCount: 80, Spread: 60},
		}
	default:
		return Effect{
			Type: EffectFlyingEmoji,
			Options: EffectOptions{
				ParticleCount: 10,
				Emoji:         "✨",
				Duration:      3,
				FadeOut:       0.7,
			},
		}
	}
}
