package editor

import "slidedeck/internal/models"

const fieldFontSize = "fontSize"

// FieldKind selects the input control used for a field
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextArea FieldKind = "textarea"
	KindJSON     FieldKind = "json"
	KindSelect   FieldKind = "select"
	KindNumber   FieldKind = "number"
)

// Field is one visible input of the edit form
type Field struct {
	Name        string
	Label       string
	Kind        FieldKind
	Value       string
	Placeholder string
	Hint        string
	Options     []Option
	// Pending is set when Value holds uncommitted draft text
	Pending bool
}

// Option is one choice of a select field
type Option struct {
	Value string
	Label string
}

type formRoutine func(s *Session) []Field

// forms selects the field set for each slide type
var forms = map[models.SlideType]formRoutine{
	models.SlideHeaderOnly: func(s *Session) []Field {
		return []Field{s.headerField()}
	},
	models.SlideTitleContent: func(s *Session) []Field {
		return []Field{s.headerField(), s.textArea(models.FieldContent, "Content", "Enter slide content (supports markdown)")}
	},
	models.SlideImageOnly: func(s *Session) []Field {
		return []Field{s.urlField(models.FieldImageURL, "Image URL"), s.altField()}
	},
	models.SlideGifOnly: func(s *Session) []Field {
		return []Field{s.urlField(models.FieldGifURL, "GIF URL"), s.altField()}
	},
	models.SlideImageHeader: func(s *Session) []Field {
		return []Field{s.headerField(), s.urlField(models.FieldImageURL, "Image URL"), s.altField()}
	},
	models.SlideGifHeader: func(s *Session) []Field {
		return []Field{s.headerField(), s.urlField(models.FieldGifURL, "GIF URL"), s.altField()}
	},
	models.SlidePieChart: func(s *Session) []Field {
		return []Field{s.headerField(), s.jsonField(models.FieldChartData, "Chart Data (JSON)", "")}
	},
	models.SlideProgressGrid: func(s *Session) []Field {
		return []Field{
			s.headerField(),
			s.columnsField(),
			s.jsonField(models.FieldProgressData, "Progress Data (JSON)",
				"Supported colors: bg-{color}-{shade} (e.g., bg-purple-500, bg-green-500, bg-blue-500)"),
		}
	},
	models.SlideMarkdown: func(s *Session) []Field {
		return []Field{s.textArea(models.FieldMarkdown, "Markdown Content", "Enter markdown content")}
	},
}

// Fields returns the inputs shown for the current type, followed by the
// font size selector. Unknown types show only the font size.
func (s *Session) Fields() []Field {
	var fields []Field
	if form, ok := forms[s.typ]; ok {
		fields = form(s)
	}
	return append(fields, s.fontSizeField())
}

func (s *Session) headerField() Field {
	return Field{Name: models.FieldHeader, Label: "Header", Kind: KindText, Value: s.text[models.FieldHeader], Placeholder: "Enter slide header"}
}

func (s *Session) textArea(name, label, placeholder string) Field {
	return Field{Name: name, Label: label, Kind: KindTextArea, Value: s.text[name], Placeholder: placeholder}
}

func (s *Session) urlField(name, label string) Field {
	return Field{Name: name, Label: label, Kind: KindText, Value: s.text[name], Placeholder: "Enter URL"}
}

func (s *Session) altField() Field {
	return Field{Name: models.FieldAltText, Label: "Alt Text", Kind: KindText, Value: s.text[models.FieldAltText], Placeholder: "Enter alt text"}
}

func (s *Session) jsonField(name, label, hint string) Field {
	value, pending := s.Draft(name)
	return Field{Name: name, Label: label, Kind: KindJSON, Value: value, Hint: hint, Pending: pending}
}

func (s *Session) columnsField() Field {
	f := Field{Name: models.FieldColumns, Label: "Columns", Kind: KindSelect, Value: s.Value(models.FieldColumns)}
	if f.Value == "" {
		f.Value = "3"
	}
	for _, v := range []string{"1", "2", "3", "4"} {
		f.Options = append(f.Options, Option{Value: v, Label: v})
	}
	return f
}

func (s *Session) fontSizeField() Field {
	value := string(s.fontSize)
	if value == "" {
		value = string(models.FontSizeMedium)
	}
	return Field{
		Name:  fieldFontSize,
		Label: "Font Size",
		Kind:  KindSelect,
		Value: value,
		Options: []Option{
			{Value: string(models.FontSizeSmall), Label: "Small"},
			{Value: string(models.FontSizeMedium), Label: "Medium"},
			{Value: string(models.FontSizeLarge), Label: "Large"},
			{Value: string(models.FontSizeXL), Label: "Extra Large"},
		},
	}
}
