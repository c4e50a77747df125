package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// wireSlide is the flat JSON shape of a slide. Pointers tell absent
// fields apart from empty ones.
type wireSlide struct {
	ID           string           `json:"id,omitempty"`
	Type         SlideType        `json:"type"`
	FontSize     FontSize         `json:"fontSize,omitempty"`
	Effect       *Effect          `json:"effect,omitempty"`
	Header       *string          `json:"header,omitempty"`
	Content      *string          `json:"content,omitempty"`
	ImageURL     *string          `json:"imageUrl,omitempty"`
	GifURL       *string          `json:"gifUrl,omitempty"`
	AltText      *string          `json:"altText,omitempty"`
	ChartData    *[]ChartEntry    `json:"chartData,omitempty"`
	ProgressData *[]ProgressEntry `json:"progressData,omitempty"`
	Columns      *int             `json:"columns,omitempty"`
	Markdown     *string          `json:"markdown,omitempty"`
}

var envelopeKeys = []string{"id", "type", "fontSize", "effect"}

// MarshalJSON writes the slide's type and only the fields of its variant
func (s Slide) MarshalJSON() ([]byte, error) {
	if u, ok := s.Content.(Unknown); ok {
		return s.marshalUnknown(u)
	}
	if s.Content == nil {
		return nil, fmt.Errorf("slide %q has no content", s.ID)
	}

	w := wireSlide{
		ID:       s.ID,
		Type:     s.Type(),
		FontSize: s.FontSize,
		Effect:   s.Effect,
	}
	str := func(field, v string) *string {
		if s.IsMissing(field) {
			return nil
		}
		return &v
	}

	switch c := s.Content.(type) {
	case HeaderOnly:
		w.Header = str(FieldHeader, c.Header)
	case TitleContent:
		w.Header = str(FieldHeader, c.Header)
		w.Content = str(FieldContent, c.Content)
	case ImageOnly:
		w.ImageURL = str(FieldImageURL, c.ImageURL)
		w.AltText = str(FieldAltText, c.AltText)
	case GifOnly:
		w.GifURL = str(FieldGifURL, c.GifURL)
		w.AltText = str(FieldAltText, c.AltText)
	case ImageHeader:
		w.Header = str(FieldHeader, c.Header)
		w.ImageURL = str(FieldImageURL, c.ImageURL)
		w.AltText = str(FieldAltText, c.AltText)
	case GifHeader:
		w.Header = str(FieldHeader, c.Header)
		w.GifURL = str(FieldGifURL, c.GifURL)
		w.AltText = str(FieldAltText, c.AltText)
	case PieChart:
		w.Header = str(FieldHeader, c.Header)
		if !s.IsMissing(FieldChartData) {
			data := c.ChartData
			if data == nil {
				data = []ChartEntry{}
			}
			w.ChartData = &data
		}
	case ProgressGrid:
		w.Header = str(FieldHeader, c.Header)
		if !s.IsMissing(FieldProgressData) {
			data := c.ProgressData
			if data == nil {
				data = []ProgressEntry{}
			}
			w.ProgressData = &data
		}
		if c.Columns != 0 {
			cols := c.Columns
			w.Columns = &cols
		}
	case Markdown:
		w.Markdown = str(FieldMarkdown, c.Markdown)
	default:
		return nil, fmt.Errorf("unsupported slide content %T", s.Content)
	}

	return json.Marshal(w)
}

func (s Slide) marshalUnknown(u Unknown) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(u.Fields)+4)
	for k, v := range u.Fields {
		out[k] = v
	}
	put := func(key string, v any) error {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		out[key] = raw
		return nil
	}
	if err := put("type", u.Type); err != nil {
		return nil, err
	}
	if s.ID != "" {
		if err := put("id", s.ID); err != nil {
			return nil, err
		}
	}
	if s.FontSize != "" {
		if err := put("fontSize", s.FontSize); err != nil {
			return nil, err
		}
	}
	if s.Effect != nil {
		if err := put("effect", s.Effect); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the flat wire shape into the variant named by type.
// Absent required fields are recorded in Missing instead of failing.
func (s *Slide) UnmarshalJSON(data []byte) error {
	var w wireSlide
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := Slide{ID: w.ID, FontSize: w.FontSize, Effect: w.Effect}
	str := func(field string, p *string) string {
		if p == nil {
			out.Missing = append(out.Missing, field)
			return ""
		}
		return *p
	}

	switch w.Type {
	case SlideHeaderOnly:
		out.Content = HeaderOnly{Header: str(FieldHeader, w.Header)}
	case SlideTitleContent:
		out.Content = TitleContent{
			Header:  str(FieldHeader, w.Header),
			Content: str(FieldContent, w.Content),
		}
	case SlideImageOnly:
		out.Content = ImageOnly{
			ImageURL: str(FieldImageURL, w.ImageURL),
			AltText:  str(FieldAltText, w.AltText),
		}
	case SlideGifOnly:
		out.Content = GifOnly{
			GifURL:  str(FieldGifURL, w.GifURL),
			AltText: str(FieldAltText, w.AltText),
		}
	case SlideImageHeader:
		out.Content = ImageHeader{
			Header:   str(FieldHeader, w.Header),
			ImageURL: str(FieldImageURL, w.ImageURL),
			AltText:  str(FieldAltText, w.AltText),
		}
	case SlideGifHeader:
		out.Content = GifHeader{
			Header:  str(FieldHeader, w.Header),
			GifURL:  str(FieldGifURL, w.GifURL),
			AltText: str(FieldAltText, w.AltText),
		}
	case SlidePieChart:
		pie := PieChart{Header: str(FieldHeader, w.Header)}
		if w.ChartData == nil {
			out.Missing = append(out.Missing, FieldChartData)
		} else {
			pie.ChartData = nonNil(*w.ChartData)
		}
		out.Content = pie
	case SlideProgressGrid:
		grid := ProgressGrid{Header: str(FieldHeader, w.Header)}
		if w.ProgressData == nil {
			out.Missing = append(out.Missing, FieldProgressData)
		} else {
			grid.ProgressData = nonNil(*w.ProgressData)
		}
		if w.Columns != nil {
			grid.Columns = *w.Columns
		}
		out.Content = grid
	case SlideMarkdown:
		out.Content = Markdown{Markdown: str(FieldMarkdown, w.Markdown)}
	default:
		u, err := decodeUnknown(data, string(w.Type))
		if err != nil {
			return err
		}
		out.Content = u
	}

	*s = out
	return nil
}

func decodeUnknown(data []byte, typ string) (Unknown, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Unknown{}, err
	}
	for _, k := range envelopeKeys {
		delete(raw, k)
	}
	fields := make(map[string]json.RawMessage, len(raw))
	for k, v := range raw {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return Unknown{}, err
		}
		fields[k] = json.RawMessage(buf.Bytes())
	}
	return Unknown{Type: typ, Fields: fields}, nil
}

// nonNil keeps a present but empty array distinct from an absent one
func nonNil[T any](v []T) []T {
	if v == nil {
		return []T{}
	}
	return v
}
