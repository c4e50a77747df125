package editor

import (
	"fmt"
	"strconv"
	"strings"

	"slidedeck/internal/models"
)

// Effect option names accepted by SetEffectOption
const (
	OptParticleCount = "particleCount"
	OptEmoji         = "emoji"
	OptDuration      = "duration"
	OptFadeOut       = "fadeOut"
	OptSpread        = "spread"
	OptStartVelocity = "startVelocity"
	OptColors        = "colors"
)

// Range is the accepted interval and step of a numeric effect option
type Range struct {
	Min, Max, Step float64
}

// OptionRange returns the slider bounds the form offers for an option
func OptionRange(t models.EffectType, option string) (Range, bool) {
	switch {
	case t == models.EffectFlyingEmoji && option == OptParticleCount:
		return Range{1, 20, 1}, true
	case t == models.EffectFlyingEmoji && option == OptDuration:
		return Range{1, 10, 0.5}, true
	case t == models.EffectConfetti && option == OptParticleCount:
		return Range{20, 200, 10}, true
	case t == models.EffectConfetti && option == OptSpread:
		return Range{20, 180, 10}, true
	}
	return Range{}, false
}

// Effect returns a copy of the slide effect, or nil when disabled
func (s *Session) Effect() *models.Effect {
	if s.effect == nil {
		return nil
	}
	e := s.effect.Clone()
	return &e
}

// EnableEffect turns the effect on with the flying-emoji defaults, or
// clears it entirely
func (s *Session) EnableEffect(on bool) {
	if !on {
		s.effect = nil
		return
	}
	if s.effect == nil {
		e := models.DefaultEffect(models.EffectFlyingEmoji)
		s.effect = &e
	}
}

// SetEffectType switches the effect type and resets its options to that
// type's defaults
func (s *Session) SetEffectType(t models.EffectType) error {
	if !t.Known() {
		return fmt.Errorf("unknown effect type %q", t)
	}
	if s.effect != nil && s.effect.Type == t {
		return nil
	}
	e := models.DefaultEffect(t)
	s.effect = &e
	return nil
}

// SetEffectOption assigns one effect option from its form value
func (s *Session) SetEffectOption(option, value string) error {
	if s.effect == nil {
		return fmt.Errorf("effect is disabled")
	}
	o := &s.effect.Options

	if option == OptEmoji {
		o.Emoji = value
		return nil
	}
	if option == OptColors {
		o.Colors = nil
		for _, c := range strings.Split(value, ",") {
			if c = strings.TrimSpace(c); c != "" {
				o.Colors = append(o.Colors, c)
			}
		}
		return nil
	}

	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s must be a number: %w", option, err)
	}
	if n <= 0 {
		return fmt.Errorf("%s must be positive", option)
	}
	if r, ok := OptionRange(s.effect.Type, option); ok && (n < r.Min || n > r.Max) {
		return fmt.Errorf("%s must be between %g and %g", option, r.Min, r.Max)
	}

	switch option {
	case OptParticleCount:
		o.ParticleCount = int(n)
	case OptDuration:
		o.Duration = n
	case OptFadeOut:
		o.FadeOut = n
	case OptSpread:
		o.Spread = int(n)
	case OptStartVelocity:
		o.StartVelocity = int(n)
	default:
		return fmt.Errorf("%w: effect option %s", ErrUnknownField, option)
	}
	return nil
}
