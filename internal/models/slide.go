package models

import (
	"encoding/json"
	"slices"
)

// SlideType is the discriminator of the slide union
type SlideType string

const (
	SlideHeaderOnly   SlideType = "header-only"
	SlideTitleContent SlideType = "title-content"
	SlideImageOnly    SlideType = "image-only"
	SlideGifOnly      SlideType = "gif-only"
	SlideImageHeader  SlideType = "image-header"
	SlideGifHeader    SlideType = "gif-header"
	SlidePieChart     SlideType = "pie-chart"
	SlideProgressGrid SlideType = "progress-grid"
	SlideMarkdown     SlideType = "markdown"
)

// SlideTypes lists every known slide type in editor order
var SlideTypes = []SlideType{
	SlideHeaderOnly,
	SlideTitleContent,
	SlideImageOnly,
	SlideGifOnly,
	SlideImageHeader,
	SlideGifHeader,
	SlidePieChart,
	SlideProgressGrid,
	SlideMarkdown,
}

var slideTypeLabels = map[SlideType]string{
	SlideHeaderOnly:   "Header Only",
	SlideTitleContent: "Title with Content",
	SlideImageOnly:    "Image Only",
	SlideGifOnly:      "GIF Only",
	SlideImageHeader:  "Image with Header",
	SlideGifHeader:    "GIF with Header",
	SlidePieChart:     "Pie Chart",
	SlideProgressGrid: "Progress Grid",
	SlideMarkdown:     "Markdown",
}

// Known reports whether t is one of the supported slide types
func (t SlideType) Known() bool {
	_, ok := slideTypeLabels[t]
	return ok
}

// Label returns the human readable name of the slide type
func (t SlideType) Label() string {
	if label, ok := slideTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Field names as they appear on the wire
const (
	FieldHeader       = "header"
	FieldContent      = "content"
	FieldImageURL     = "imageUrl"
	FieldGifURL       = "gifUrl"
	FieldAltText      = "altText"
	FieldChartData    = "chartData"
	FieldProgressData = "progressData"
	FieldColumns      = "columns"
	FieldMarkdown     = "markdown"
)

var requiredFields = map[SlideType][]string{
	SlideHeaderOnly:   {FieldHeader},
	SlideTitleContent: {FieldHeader, FieldContent},
	SlideImageOnly:    {FieldImageURL, FieldAltText},
	SlideGifOnly:      {FieldGifURL, FieldAltText},
	SlideImageHeader:  {FieldHeader, FieldImageURL, FieldAltText},
	SlideGifHeader:    {FieldHeader, FieldGifURL, FieldAltText},
	SlidePieChart:     {FieldHeader, FieldChartData},
	SlideProgressGrid: {FieldHeader, FieldProgressData},
	SlideMarkdown:     {FieldMarkdown},
}

// RequiredFields returns the fields a slide of type t must carry.
// columns is not listed for progress-grid because it defaults to 3.
func RequiredFields(t SlideType) []string {
	return slices.Clone(requiredFields[t])
}

// FontSize is the per-slide content size
type FontSize string

const (
	FontSizeSmall  FontSize = "sm"
	FontSizeMedium FontSize = "md"
	FontSizeLarge  FontSize = "lg"
	FontSizeXL     FontSize = "xl"
)

// Valid reports whether f is empty or one of the known sizes
func (f FontSize) Valid() bool {
	switch f {
	case "", FontSizeSmall, FontSizeMedium, FontSizeLarge, FontSizeXL:
		return true
	}
	return false
}

// ChartEntry is one slice of a pie chart
type ChartEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// ProgressEntry is one bar of a progress grid
type ProgressEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
	Size  string  `json:"size,omitempty"`
}

const (
	DefaultColumns = 3
	MinColumns     = 1
	MaxColumns     = 4
)

// Content is the variant payload of a slide. The concrete type decides
// which fields exist; there is no shared optional-field bag.
type Content interface {
	SlideType() SlideType
}

type HeaderOnly struct {
	Header string
}

type TitleContent struct {
	Header  string
	Content string
}

type ImageOnly struct {
	ImageURL string
	AltText  string
}

type GifOnly struct {
	GifURL  string
	AltText string
}

type ImageHeader struct {
	Header   string
	ImageURL string
	AltText  string
}

type GifHeader struct {
	Header  string
	GifURL  string
	AltText string
}

type PieChart struct {
	Header    string
	ChartData []ChartEntry
}

// ProgressGrid lays progress bars out in Columns columns; zero means unset.
type ProgressGrid struct {
	Header       string
	ProgressData []ProgressEntry
	Columns      int
}

// EffectiveColumns returns the column count used for layout
func (p ProgressGrid) EffectiveColumns() int {
	switch {
	case p.Columns == 0:
		return DefaultColumns
	case p.Columns < MinColumns:
		return MinColumns
	case p.Columns > MaxColumns:
		return MaxColumns
	}
	return p.Columns
}

type Markdown struct {
	Markdown string
}

// Unknown holds a slide whose type this build does not recognize.
// Fields keeps every non-envelope key so the slide saves back unchanged.
type Unknown struct {
	Type   string
	Fields map[string]json.RawMessage
}

func (HeaderOnly) SlideType() SlideType   { return SlideHeaderOnly }
func (TitleContent) SlideType() SlideType { return SlideTitleContent }
func (ImageOnly) SlideType() SlideType    { return SlideImageOnly }
func (GifOnly) SlideType() SlideType      { return SlideGifOnly }
func (ImageHeader) SlideType() SlideType  { return SlideImageHeader }
func (GifHeader) SlideType() SlideType    { return SlideGifHeader }
func (PieChart) SlideType() SlideType     { return SlidePieChart }
func (ProgressGrid) SlideType() SlideType { return SlideProgressGrid }
func (Markdown) SlideType() SlideType     { return SlideMarkdown }
func (u Unknown) SlideType() SlideType    { return SlideType(u.Type) }

// Slide is one slide of the presentation
type Slide struct {
	ID       string
	FontSize FontSize
	Effect   *Effect
	Content  Content

	// Missing lists required fields that were absent when the slide was
	// decoded. They stay absent when the slide is encoded again.
	Missing []string
}

// Type returns the slide's discriminator
func (s Slide) Type() SlideType {
	if s.Content == nil {
		return ""
	}
	return s.Content.SlideType()
}

// IsMissing reports whether field was absent on the wire
func (s Slide) IsMissing(field string) bool {
	return slices.Contains(s.Missing, field)
}

// Header returns the header of variants that have one
func (s Slide) Header() (string, bool) {
	switch c := s.Content.(type) {
	case HeaderOnly:
		return c.Header, true
	case TitleContent:
		return c.Header, true
	case ImageHeader:
		return c.Header, true
	case GifHeader:
		return c.Header, true
	case PieChart:
		return c.Header, true
	case ProgressGrid:
		return c.Header, true
	}
	return "", false
}

// Clone returns a deep copy of the slide
func (s Slide) Clone() Slide {
	out := s
	if s.Effect != nil {
		e := s.Effect.Clone()
		out.Effect = &e
	}
	out.Missing = slices.Clone(s.Missing)
	switch c := s.Content.(type) {
	case PieChart:
		c.ChartData = slices.Clone(c.ChartData)
		out.Content = c
	case ProgressGrid:
		c.ProgressData = slices.Clone(c.ProgressData)
		out.Content = c
	case Unknown:
		fields := make(map[string]json.RawMessage, len(c.Fields))
		for k, v := range c.Fields {
			fields[k] = slices.Clone(v)
		}
		c.Fields = fields
		out.Content = c
	}
	return out
}

// NewSlide creates a slide of type t filled with default values
func NewSlide(t SlideType) Slide {
	var content Content
	switch t {
	case SlideHeaderOnly:
		content = HeaderOnly{Header: "New Slide"}
	case SlideTitleContent:
		content = TitleContent{Header: "New Slide", Content: ""}
	case SlideImageOnly:
		content = ImageOnly{}
	case SlideGifOnly:
		content = GifOnly{}
	case SlideImageHeader:
		content = ImageHeader{Header: "New Slide"}
	case SlideGifHeader:
		content = GifHeader{Header: "New Slide"}
	case SlidePieChart:
		content = PieChart{
			Header: "New Slide",
			ChartData: []ChartEntry{
				{Label: "Item 1", Value: 30, Color: "#ff0000"},
			},
		}
	case SlideProgressGrid:
		content = ProgressGrid{
			Header: "New Slide",
			ProgressData: []ProgressEntry{
				{Label: "Task 1", Value: 75, Color: "bg-purple-500", Size: "md"},
				{Label: "Task 2", Value: 50, Color: "bg-green-500", Size: "md"},
			},
			Columns: DefaultColumns,
		}
	case SlideMarkdown:
		content = Markdown{Markdown: "# New Slide"}
	default:
		content = Unknown{Type: string(t), Fields: map[string]json.RawMessage{}}
	}
	return Slide{Content: content}
}
