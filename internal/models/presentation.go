package models

import (
	"encoding/json"
	"time"
)

// Gradient is the two-stop background gradient of the viewer
type Gradient struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Footer configures the footer shown under every slide
type Footer struct {
	LogoURL    string `json:"logoUrl"`
	DateFormat string `json:"dateFormat"`
}

// Settings represents presentation-wide styling
type Settings struct {
	FontSize   string   `json:"fontSize"`
	FontFamily string   `json:"fontFamily"`
	Gradient   Gradient `json:"gradientBackground"`
	Footer     Footer   `json:"footer"`
	Date       string   `json:"date"`
}

// Document represents the root structure of presentation.json
type Document struct {
	DocumentName string   `json:"documentName"`
	Settings     Settings `json:"settings"`
	Slides       []Slide  `json:"slides"`
}

type documentAlias Document

// MarshalJSON never writes a null slides array
func (d Document) MarshalJSON() ([]byte, error) {
	alias := documentAlias(d)
	if alias.Slides == nil {
		alias.Slides = []Slide{}
	}
	return json.Marshal(alias)
}

// UnmarshalJSON normalizes a null or absent slides array to an empty one
func (d *Document) UnmarshalJSON(data []byte) error {
	var alias documentAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	if alias.Slides == nil {
		alias.Slides = []Slide{}
	}
	*d = Document(alias)
	return nil
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Slides = make([]Slide, len(d.Slides))
	for i, s := range d.Slides {
		out.Slides[i] = s.Clone()
	}
	return &out
}

// IndexOf returns the position of the slide with the given id, or -1
func (d *Document) IndexOf(id string) int {
	for i, s := range d.Slides {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// DefaultDocument returns the document a fresh installation starts with
func DefaultDocument(date time.Time) *Document {
	return &Document{
		DocumentName: "My Presentation",
		Settings: Settings{
			FontSize:   "16px",
			FontFamily: "Inter, sans-serif",
			Gradient:   Gradient{From: "#a5f3fc", To: "#fbcfe8"},
			Footer:     Footer{LogoURL: "/logo.svg", DateFormat: "MMM yyyy"},
			Date:       date.Format("2006-01-02"),
		},
		Slides: []Slide{
			{
				Content: HeaderOnly{Header: "Welcome to Your Presentation"},
				Effect: &Effect{
					Type: EffectFlyingEmoji,
					Options: EffectOptions{
						ParticleCount: 15,
						Emoji:         "✨",
						Duration:      3,
						FadeOut:       0.7,
					},
				},
			},
			{
				Content: Markdown{Markdown: defaultOverview},
				Effect: &Effect{
					Type: EffectFlyingEmoji,
					Options: EffectOptions{
						ParticleCount: 10,
						Emoji:         "📝",
						Duration:      4,
						FadeOut:       0.7,
					},
				},
			},
		},
	}
}

const defaultOverview = "# Project Overview\n\n" +
	"## Key Features\n\n" +
	"- **Real-time Collaboration** \n  - Multi-user editing\n  - Live preview\n  - Chat integration\n\n" +
	"- **Advanced Security**\n  - End-to-end encryption\n  - Role-based access control\n  - Audit logging\n\n" +
	"## Timeline\n\n" +
	"1. **Phase 1**: Planning & Design\n2. **Phase 2**: Development\n3. **Phase 3**: Testing\n4. **Phase 4**: Deployment\n\n" +
	"> \"Innovation is the outcome of a habit, not a random act.\"\n\n" +
	"```javascript\n// Example code\nfunction calculateProgress(tasks) {\n  return tasks.filter(t => t.completed).length / tasks.length * 100;\n}\n```"
