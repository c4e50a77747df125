package models

import "fmt"

// Violation describes one way a slide breaks the contract of its type
type Violation struct {
	Index  int    `json:"index"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	if v.Index < 0 {
		return fmt.Sprintf("%s: %s", v.Field, v.Reason)
	}
	return fmt.Sprintf("slide %d: %s: %s", v.Index, v.Field, v.Reason)
}

// Validate lists every violation of the slide. A slide with violations
// still renders; the list is advisory.
func (s Slide) Validate() []Violation {
	var out []Violation
	add := func(field, reason string) {
		out = append(out, Violation{Index: -1, Field: field, Reason: reason})
	}

	if !s.Type().Known() {
		add("type", fmt.Sprintf("unknown slide type %q", s.Type()))
	}
	for _, f := range s.Missing {
		add(f, "required field is missing")
	}
	if !s.FontSize.Valid() {
		add("fontSize", fmt.Sprintf("unsupported font size %q", s.FontSize))
	}
	if s.Effect != nil && !s.Effect.Type.Known() {
		add("effect.type", fmt.Sprintf("unsupported effect %q", s.Effect.Type))
	}

	switch c := s.Content.(type) {
	case PieChart:
		for i, e := range c.ChartData {
			if e.Value < 0 {
				add(fmt.Sprintf("chartData[%d].value", i), "must not be negative")
			}
		}
	case ProgressGrid:
		for i, e := range c.ProgressData {
			if e.Value < 0 || e.Value > 100 {
				add(fmt.Sprintf("progressData[%d].value", i), "must be between 0 and 100")
			}
		}
		if c.Columns != 0 && (c.Columns < MinColumns || c.Columns > MaxColumns) {
			add(FieldColumns, fmt.Sprintf("must be between %d and %d", MinColumns, MaxColumns))
		}
	}
	return out
}

// Validate lists the violations of every slide, tagged with its index
func (d *Document) Validate() []Violation {
	var out []Violation
	ids := make(map[string]int)
	for i, s := range d.Slides {
		for _, v := range s.Validate() {
			v.Index = i
			out = append(out, v)
		}
		if s.ID == "" {
			continue
		}
		if first, dup := ids[s.ID]; dup {
			out = append(out, Violation{Index: i, Field: "id", Reason: fmt.Sprintf("duplicate of slide %d", first)})
			continue
		}
		ids[s.ID] = i
	}
	return out
}
