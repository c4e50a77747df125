package render

import (
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/net/html"

	"slidedeck/internal/editor"
	"slidedeck/internal/models"
)

// Form field names shared with the editor handlers
const (
	FormAction        = "action"
	FormType          = "type"
	FormEffectEnabled = "effectEnabled"
	FormEffectType    = "effectType"
	FormEffectPrefix  = "effect."
	FormFrom          = "from"
	FormTo            = "to"
	FormDocumentName  = "documentName"
	FormFontSize      = "fontSize"
	FormFontFamily    = "fontFamily"
	FormGradientFrom  = "gradientFrom"
	FormGradientTo    = "gradientTo"
	FormLogoURL       = "footerLogoUrl"
	FormDateFormat    = "footerDateFormat"
	FormDate          = "date"
)

// Editor form actions
const (
	ActionRefresh = "refresh"
	ActionSave    = "save"
)

const (
	inputClass  = "w-full rounded-md border border-gray-300 px-3 py-2"
	buttonClass = "inline-flex items-center rounded-md border px-3 py-1 text-sm bg-white hover:bg-gray-50"
)

// FormState carries feedback shown above and beside the edit form
type FormState struct {
	Message     string
	FieldErrors map[string]string
}

// EditorPage renders the slide list with its add, remove, move and
// settings forms
func EditorPage(doc *models.Document, message string) *html.Node {
	main := element("main", "max-w-5xl mx-auto p-8 space-y-8")
	main.AppendChild(element("div", "flex items-center justify-between",
		element("h1", "text-3xl font-bold", text(pageTitle(doc))),
		link("/view/0", "Present")))
	if message != "" {
		main.AppendChild(banner(message))
	}

	list := element("ol", "slide-list space-y-2")
	for i, s := range doc.Slides {
		list.AppendChild(slideRow(doc, i, s))
	}
	main.AppendChild(element("section", "",
		element("h2", "text-xl font-semibold mb-4", text(fmt.Sprintf("Slides (%d)", len(doc.Slides)))),
		list,
		addSlideForm()))

	main.AppendChild(settingsForm(doc))
	return document(pageTitle(doc)+" - Editor", main)
}

func slideRow(doc *models.Document, index int, s models.Slide) *html.Node {
	title, ok := s.Header()
	if !ok || title == "" {
		title = s.Type().Label()
	}
	row := element("li", "slide-row flex items-center gap-3 rounded-md border bg-white px-4 py-2")
	setAttr(row, "data-slide-id", s.ID)
	row.AppendChild(element("span", "w-8 text-gray-400", text(strconv.Itoa(index+1))))
	row.AppendChild(element("span", "flex-1 font-medium", text(title)))
	row.AppendChild(element("span", "text-sm text-gray-500", text(s.Type().Label())))
	if n := len(s.Validate()); n > 0 {
		row.AppendChild(element("span", "text-sm text-amber-600", text(fmt.Sprintf("%d problem(s)", n))))
	}

	row.AppendChild(link(fmt.Sprintf("/editor/slides/%d", index), "Edit"))
	if index > 0 {
		row.AppendChild(moveForm(index, index-1, "↑"))
	}
	if index < len(doc.Slides)-1 {
		row.AppendChild(moveForm(index, index+1, "↓"))
	}
	del := form(fmt.Sprintf("/editor/slides/%d/delete", index), submit("", "", "Delete"))
	row.AppendChild(del)
	return row
}

func moveForm(from, to int, label string) *html.Node {
	return form("/editor/slides/move",
		hidden(FormFrom, strconv.Itoa(from)),
		hidden(FormTo, strconv.Itoa(to)),
		submit("", "", label))
}

func addSlideForm() *html.Node {
	var options []editor.Option
	for _, t := range models.SlideTypes {
		options = append(options, editor.Option{Value: string(t), Label: t.Label()})
	}
	return form("/editor/slides",
		element("div", "mt-4 flex items-center gap-2",
			selectInput(FormType, string(models.SlideHeaderOnly), options),
			submit("", "", "Add slide")))
}

func settingsForm(doc *models.Document) *html.Node {
	s := doc.Settings
	return element("section", "",
		element("h2", "text-xl font-semibold mb-4", text("Settings")),
		form("/editor/settings",
			element("div", "grid grid-cols-2 gap-4",
				labeled("Document name", textInput(FormDocumentName, doc.DocumentName, "")),
				labeled("Base font size", textInput(FormFontSize, s.FontSize, "16px")),
				labeled("Font family", textInput(FormFontFamily, s.FontFamily, "Inter")),
				labeled("Gradient from", textInput(FormGradientFrom, s.Gradient.From, "#ffffff")),
				labeled("Gradient to", textInput(FormGradientTo, s.Gradient.To, "#f3f4f6")),
				labeled("Footer logo URL", textInput(FormLogoURL, s.Footer.LogoURL, "")),
				labeled("Footer date format", textInput(FormDateFormat, s.Footer.DateFormat, "MMM yyyy")),
				labeled("Date", textInput(FormDate, s.Date, "2024-01-31"))),
			element("div", "mt-4", submit("", "", "Save settings"))))
}

// SlideFormPage renders the edit form of one slide next to a live preview
// of the slide the form would save
func SlideFormPage(doc *models.Document, index int, session *editor.Session, state FormState) *html.Node {
	main := element("main", "max-w-6xl mx-auto p-8 space-y-6")
	main.AppendChild(element("div", "flex items-center justify-between",
		element("h1", "text-2xl font-bold", text(fmt.Sprintf("Slide %d of %d", index+1, len(doc.Slides)))),
		link("/editor", "Back to slides")))
	if state.Message != "" {
		main.AppendChild(banner(state.Message))
	}

	f := form(fmt.Sprintf("/editor/slides/%d", index))
	setAttr(f, "class", "slide-form space-y-4")

	var typeOptions []editor.Option
	if t := session.Type(); !t.Known() {
		typeOptions = append(typeOptions, editor.Option{Value: string(t), Label: fmt.Sprintf("Unknown (%s)", t)})
	}
	for _, t := range models.SlideTypes {
		typeOptions = append(typeOptions, editor.Option{Value: string(t), Label: t.Label()})
	}
	f.AppendChild(labeled("Slide type", selectInput(FormType, string(session.Type()), typeOptions)))

	for _, field := range session.Fields() {
		f.AppendChild(formField(field, state.FieldErrors[field.Name]))
	}
	f.AppendChild(effectFields(session, state.FieldErrors))

	f.AppendChild(element("div", "flex gap-2",
		submit(FormAction, ActionRefresh, "Apply"),
		submit(FormAction, ActionSave, "Save")))

	preview := element("div", "slide-preview aspect-video rounded-2xl border bg-white shadow overflow-hidden",
		Slide(session.Result()))
	main.AppendChild(element("div", "grid grid-cols-2 gap-8", f, preview))
	return document(pageTitle(doc)+" - Edit slide", main)
}

func formField(f editor.Field, problem string) *html.Node {
	var input *html.Node
	switch f.Kind {
	case editor.KindTextArea:
		input = textArea(f.Name, f.Value, f.Placeholder, 6)
	case editor.KindJSON:
		input = textArea(f.Name, f.Value, f.Placeholder, 10)
		setAttr(input, "class", inputClass+" font-mono text-sm")
	case editor.KindSelect:
		input = selectInput(f.Name, f.Value, f.Options)
	case editor.KindNumber:
		input = textInput(f.Name, f.Value, f.Placeholder)
		setAttr(input, "type", "number")
	default:
		input = textInput(f.Name, f.Value, f.Placeholder)
	}

	wrap := labeled(f.Label, input)
	setAttr(wrap, "data-field", f.Name)
	if f.Pending {
		wrap.AppendChild(element("p", "draft-pending text-sm text-amber-600", text("Unsaved draft")))
	}
	if f.Hint != "" {
		wrap.AppendChild(element("p", "text-sm text-gray-500", text(f.Hint)))
	}
	if problem != "" {
		wrap.AppendChild(element("p", "field-error text-sm text-red-600", text(problem)))
	}
	return wrap
}

func effectFields(session *editor.Session, problems map[string]string) *html.Node {
	section := element("fieldset", "effect-fields rounded-md border p-4 space-y-3",
		element("legend", "px-1 font-medium", text("Effect")))

	enabled := element("input", "")
	setAttr(enabled, "type", "checkbox")
	setAttr(enabled, "name", FormEffectEnabled)
	setAttr(enabled, "value", "on")
	effect := session.Effect()
	if effect != nil {
		setAttr(enabled, "checked", "")
	}
	section.AppendChild(element("label", "flex items-center gap-2", enabled, text("Play an effect when this slide appears")))
	if effect == nil {
		return section
	}

	var typeOptions []editor.Option
	for _, t := range models.EffectTypes {
		typeOptions = append(typeOptions, editor.Option{Value: string(t), Label: string(t)})
	}
	section.AppendChild(labeled("Effect type", selectInput(FormEffectType, string(effect.Type), typeOptions)))

	o := effect.Options
	var opts []struct{ name, label, value string }
	switch effect.Type {
	case models.EffectFlyingEmoji:
		opts = []struct{ name, label, value string }{
			{editor.OptEmoji, "Emoji", o.Emoji},
			{editor.OptParticleCount, "Number of emojis", strconv.Itoa(o.ParticleCount)},
			{editor.OptDuration, "Duration (seconds)", strconv.FormatFloat(o.Duration, 'f', -1, 64)},
		}
	case models.EffectConfetti:
		opts = []struct{ name, label, value string }{
			{editor.OptParticleCount, "Particle count", strconv.Itoa(o.ParticleCount)},
			{editor.OptSpread, "Spread", strconv.Itoa(o.Spread)},
		}
	}
	for _, opt := range opts {
		input := textInput(FormEffectPrefix+opt.name, opt.value, "")
		if r, ok := editor.OptionRange(effect.Type, opt.name); ok {
			setAttr(input, "type", "range")
			setAttr(input, "min", num(r.Min))
			setAttr(input, "max", num(r.Max))
			setAttr(input, "step", num(r.Step))
		}
		wrap := labeled(opt.label, input)
		if problem := problems[FormEffectPrefix+opt.name]; problem != "" {
			wrap.AppendChild(element("p", "field-error text-sm text-red-600", text(problem)))
		}
		section.AppendChild(wrap)
	}
	return section
}

func form(action string, children ...*html.Node) *html.Node {
	f := element("form", "", children...)
	setAttr(f, "method", "post")
	setAttr(f, "action", action)
	return f
}

func link(href, label string) *html.Node {
	a := element("a", buttonClass, text(label))
	setAttr(a, "href", href)
	return a
}

func banner(message string) *html.Node {
	n := element("div", "form-message rounded-md border border-amber-300 bg-amber-50 px-4 py-2 text-amber-800", text(message))
	setAttr(n, "role", "alert")
	return n
}

func labeled(label string, input *html.Node) *html.Node {
	return element("label", "block space-y-1",
		element("span", "block text-sm font-medium text-gray-700", text(label)),
		input)
}

func hidden(name, value string) *html.Node {
	n := element("input", "")
	setAttr(n, "type", "hidden")
	setAttr(n, "name", name)
	setAttr(n, "value", value)
	return n
}

func submit(name, value, label string) *html.Node {
	b := element("button", buttonClass, text(label))
	setAttr(b, "type", "submit")
	if name != "" {
		setAttr(b, "name", name)
		setAttr(b, "value", value)
	}
	return b
}

func textInput(name, value, placeholder string) *html.Node {
	n := element("input", inputClass)
	setAttr(n, "type", "text")
	setAttr(n, "name", name)
	setAttr(n, "value", value)
	if placeholder != "" {
		setAttr(n, "placeholder", placeholder)
	}
	return n
}

func textArea(name, value, placeholder string, rows int) *html.Node {
	n := element("textarea", inputClass, text(value))
	setAttr(n, "name", name)
	setAttr(n, "rows", strconv.Itoa(rows))
	if placeholder != "" {
		setAttr(n, "placeholder", placeholder)
	}
	return n
}

func selectInput(name, value string, options []editor.Option) *html.Node {
	n := element("select", inputClass)
	setAttr(n, "name", name)
	for _, o := range options {
		opt := element("option", "", text(o.Label))
		setAttr(opt, "value", o.Value)
		if o.Value == value {
			setAttr(opt, "selected", "")
		}
		n.AppendChild(opt)
	}
	return n
}

// ErrorPage renders a minimal page for a failed request
func ErrorPage(status int, message string) *html.Node {
	main := element("main", "error-page max-w-xl mx-auto p-8 space-y-4",
		element("h1", "text-2xl font-bold", text(fmt.Sprintf("%d %s", status, http.StatusText(status)))),
		element("p", "text-gray-600", text(message)),
		element("div", "flex gap-2", link("/view/0", "Presentation"), link("/editor", "Editor")))
	return document(http.StatusText(status), main)
}
