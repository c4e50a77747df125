// Package editor implements the slide edit form: the visible field set for
// the slide's type, staged drafts for structured data and effect settings.
// A Session never touches the slide it was created from; Result builds a
// new value.
package editor

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"slidedeck/internal/models"
)

// ErrUnknownField is returned for a field name the form does not have
var ErrUnknownField = errors.New("unknown field")

// Session is the edit state of one slide. It remembers every field value it
// has seen, so switching the type away and back restores earlier input;
// Result only emits the fields of the current type.
type Session struct {
	id       string
	typ      models.SlideType
	fontSize models.FontSize
	effect   *models.Effect

	text     map[string]string
	chart    []models.ChartEntry
	progress []models.ProgressEntry
	columns  int
	present  map[string]bool
	drafts   map[string]string

	// unknown keeps an unrecognized slide's raw content until the type changes
	unknown *models.Unknown
}

// New opens an edit session on a copy of slide
func New(slide models.Slide) *Session {
	s := &Session{
		id:       slide.ID,
		typ:      slide.Type(),
		fontSize: slide.FontSize,
		text:     make(map[string]string),
		present:  make(map[string]bool),
		drafts:   make(map[string]string),
	}
	if slide.Effect != nil {
		e := slide.Effect.Clone()
		s.effect = &e
	}

	switch c := slide.Content.(type) {
	case models.HeaderOnly:
		s.setText(models.FieldHeader, c.Header)
	case models.TitleContent:
		s.setText(models.FieldHeader, c.Header)
		s.setText(models.FieldContent, c.Content)
	case models.ImageOnly:
		s.setText(models.FieldImageURL, c.ImageURL)
		s.setText(models.FieldAltText, c.AltText)
	case models.GifOnly:
		s.setText(models.FieldGifURL, c.GifURL)
		s.setText(models.FieldAltText, c.AltText)
	case models.ImageHeader:
		s.setText(models.FieldHeader, c.Header)
		s.setText(models.FieldImageURL, c.ImageURL)
		s.setText(models.FieldAltText, c.AltText)
	case models.GifHeader:
		s.setText(models.FieldHeader, c.Header)
		s.setText(models.FieldGifURL, c.GifURL)
		s.setText(models.FieldAltText, c.AltText)
	case models.PieChart:
		s.setText(models.FieldHeader, c.Header)
		s.chart = slices.Clone(c.ChartData)
		s.present[models.FieldChartData] = true
	case models.ProgressGrid:
		s.setText(models.FieldHeader, c.Header)
		s.progress = slices.Clone(c.ProgressData)
		s.present[models.FieldProgressData] = true
		s.columns = c.Columns
	case models.Markdown:
		s.setText(models.FieldMarkdown, c.Markdown)
	case models.Unknown:
		u := slide.Clone().Content.(models.Unknown)
		s.unknown = &u
	}

	// fields absent on the wire stay absent until the user fills them in
	for _, f := range slide.Missing {
		delete(s.present, f)
	}
	return s
}

func (s *Session) setText(field, value string) {
	s.text[field] = value
	s.present[field] = true
}

// ID returns the identifier of the slide being edited
func (s *Session) ID() string {
	return s.id
}

// Type returns the slide type currently selected
func (s *Session) Type() models.SlideType {
	return s.typ
}

// SetType switches the form to type t. Fields the session has already seen
// keep their values; fields it has never seen start from t's defaults.
func (s *Session) SetType(t models.SlideType) error {
	if !t.Known() {
		return fmt.Errorf("unknown slide type %q", t)
	}
	if t == s.typ {
		return nil
	}

	defaults := New(models.NewSlide(t))
	for _, f := range models.RequiredFields(t) {
		if s.seen(f) {
			continue
		}
		switch f {
		case models.FieldChartData:
			s.chart = defaults.chart
		case models.FieldProgressData:
			s.progress = defaults.progress
			if s.columns == 0 {
				s.columns = defaults.columns
			}
		default:
			s.text[f] = defaults.text[f]
		}
		s.present[f] = true
	}
	s.typ = t
	s.unknown = nil
	return nil
}

// seen reports whether the session holds a value for field, even one that
// was decoded as missing
func (s *Session) seen(field string) bool {
	if s.present[field] {
		return true
	}
	switch field {
	case models.FieldChartData:
		return s.chart != nil
	case models.FieldProgressData:
		return s.progress != nil
	}
	_, ok := s.text[field]
	return ok
}

// FontSize returns the selected font size; empty means the default
func (s *Session) FontSize() models.FontSize {
	return s.fontSize
}

// Set assigns a scalar field from its form value
func (s *Session) Set(field, value string) error {
	switch field {
	case models.FieldHeader, models.FieldContent, models.FieldMarkdown,
		models.FieldImageURL, models.FieldGifURL, models.FieldAltText:
		s.setText(field, value)
	case fieldFontSize:
		fs := models.FontSize(value)
		if !fs.Valid() {
			return fmt.Errorf("invalid font size %q", value)
		}
		s.fontSize = fs
	case models.FieldColumns:
		if value == "" {
			s.columns = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("columns must be a whole number: %w", err)
		}
		if n < models.MinColumns || n > models.MaxColumns {
			return fmt.Errorf("columns must be between %d and %d", models.MinColumns, models.MaxColumns)
		}
		s.columns = n
	case models.FieldChartData, models.FieldProgressData:
		return fmt.Errorf("%s is edited as a draft: use SetDraft and Commit", field)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// Value returns the current value of a scalar field
func (s *Session) Value(field string) string {
	switch field {
	case fieldFontSize:
		return string(s.fontSize)
	case models.FieldColumns:
		if s.columns == 0 {
			return ""
		}
		return strconv.Itoa(s.columns)
	}
	return s.text[field]
}

// Result builds the edited slide. Only the fields of the current type are
// carried; pending drafts are not part of it.
func (s *Session) Result() models.Slide {
	out := models.Slide{ID: s.id, FontSize: s.fontSize}
	if s.effect != nil {
		e := s.effect.Clone()
		out.Effect = &e
	}

	t := s.text
	switch s.typ {
	case models.SlideHeaderOnly:
		out.Content = models.HeaderOnly{Header: t[models.FieldHeader]}
	case models.SlideTitleContent:
		out.Content = models.TitleContent{Header: t[models.FieldHeader], Content: t[models.FieldContent]}
	case models.SlideImageOnly:
		out.Content = models.ImageOnly{ImageURL: t[models.FieldImageURL], AltText: t[models.FieldAltText]}
	case models.SlideGifOnly:
		out.Content = models.GifOnly{GifURL: t[models.FieldGifURL], AltText: t[models.FieldAltText]}
	case models.SlideImageHeader:
		out.Content = models.ImageHeader{Header: t[models.FieldHeader], ImageURL: t[models.FieldImageURL], AltText: t[models.FieldAltText]}
	case models.SlideGifHeader:
		out.Content = models.GifHeader{Header: t[models.FieldHeader], GifURL: t[models.FieldGifURL], AltText: t[models.FieldAltText]}
	case models.SlidePieChart:
		out.Content = models.PieChart{Header: t[models.FieldHeader], ChartData: slices.Clone(s.chart)}
	case models.SlideProgressGrid:
		out.Content = models.ProgressGrid{Header: t[models.FieldHeader], ProgressData: slices.Clone(s.progress), Columns: s.columns}
	case models.SlideMarkdown:
		out.Content = models.Markdown{Markdown: t[models.FieldMarkdown]}
	default:
		if s.unknown != nil {
			u := *s.unknown
			u.Fields = maps.Clone(u.Fields)
			out.Content = u
		} else {
			out.Content = models.Unknown{Type: string(s.typ)}
		}
		return out
	}

	for _, f := range models.RequiredFields(s.typ) {
		if !s.present[f] {
			out.Missing = append(out.Missing, f)
		}
	}
	return out
}
