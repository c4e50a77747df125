// Package render turns slides into element trees for the viewer page,
// and into styled text for the terminal presenter.
package render

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"slidedeck/internal/models"
)

// Slide renders s into a detached element tree. The root element carries
// data-slide-type; slides of an unknown type render a placeholder.
func Slide(s models.Slide) *html.Node {
	root := element("div", "slide w-full h-full p-12 slide-transition")
	setAttr(root, "data-slide-type", string(s.Type()))
	if s.ID != "" {
		setAttr(root, "data-slide-id", s.ID)
	}
	if s.FontSize != "" {
		setAttr(root, "data-font-size", string(s.FontSize))
	}

	var body *html.Node
	switch c := s.Content.(type) {
	case models.HeaderOnly:
		body = headerOnly(s, c)
	case models.TitleContent:
		body = titleContent(s, c)
	case models.ImageOnly:
		body = centeredImage(s, models.FieldImageURL, c.ImageURL, c.AltText)
	case models.GifOnly:
		body = centeredImage(s, models.FieldGifURL, c.GifURL, c.AltText)
	case models.ImageHeader:
		body = headedImage(s, c.Header, models.FieldImageURL, c.ImageURL, c.AltText)
	case models.GifHeader:
		body = headedImage(s, c.Header, models.FieldGifURL, c.GifURL, c.AltText)
	case models.PieChart:
		body = pieChartSlide(s, c)
	case models.ProgressGrid:
		body = progressGridSlide(s, c)
	case models.Markdown:
		body = markdownSlide(s, c)
	default:
		body = unknownSlide(s.Type())
	}
	root.AppendChild(body)
	return root
}

// placeholder stands in for content that cannot be rendered. field names
// the absent slide field, if any.
func placeholder(field, message string) *html.Node {
	n := element("div", "slide-placeholder text-gray-400 italic", text(message))
	if field != "" {
		setAttr(n, "data-missing-field", field)
	}
	return n
}

func missing(s models.Slide, field string) *html.Node {
	if s.IsMissing(field) {
		return placeholder(field, "Missing "+field)
	}
	return nil
}

func unknownSlide(t models.SlideType) *html.Node {
	n := element("div", "slide-placeholder flex items-center justify-center h-full text-gray-400",
		text("Unknown slide type"))
	setAttr(n, "data-unknown-type", string(t))
	return n
}

func heading(s models.Slide, tag, class, header string) *html.Node {
	if p := missing(s, models.FieldHeader); p != nil {
		return p
	}
	return element(tag, class, text(header))
}

func sectionHeading(s models.Slide, header string, marginBottom bool) *html.Node {
	class := "text-4xl font-semibold text-gray-900"
	if marginBottom {
		class += " mb-8"
	}
	return heading(s, "h2", class, header)
}

func headerOnly(s models.Slide, c models.HeaderOnly) *html.Node {
	return element("div", "flex items-center justify-center h-full",
		heading(s, "h1", "text-5xl font-bold text-gray-900", c.Header))
}

// proseClass picks the typography scale for markdown blocks. xl differs
// between title-content and markdown slides.
func proseClass(size models.FontSize, xl string) string {
	class := "prose max-w-none"
	switch size {
	case models.FontSizeSmall:
		return class + " prose-sm"
	case models.FontSizeLarge:
		return class + " prose-lg"
	case models.FontSizeXL:
		return class + " " + xl
	}
	return class
}

func titleContent(s models.Slide, c models.TitleContent) *html.Node {
	body := missing(s, models.FieldContent)
	if body == nil {
		body = markdownBlock(proseClass(s.FontSize, "prose-2xl"), c.Content)
	}
	return element("div", "flex flex-col gap-8 h-full",
		sectionHeading(s, c.Header, false),
		body)
}

func image(s models.Slide, urlField, url, alt string) *html.Node {
	if p := missing(s, urlField); p != nil {
		return p
	}
	img := element("img", "max-h-full max-w-full object-contain rounded-lg")
	setAttr(img, "src", url)
	if !s.IsMissing(models.FieldAltText) {
		setAttr(img, "alt", alt)
	}
	return img
}

func centeredImage(s models.Slide, urlField, url, alt string) *html.Node {
	return element("div", "flex items-center justify-center h-full",
		image(s, urlField, url, alt),
		missing(s, models.FieldAltText))
}

func headedImage(s models.Slide, header, urlField, url, alt string) *html.Node {
	return element("div", "flex flex-col h-full",
		sectionHeading(s, header, true),
		element("div", "flex-1 flex items-center justify-center",
			image(s, urlField, url, alt),
			missing(s, models.FieldAltText)))
}

func pieChartSlide(s models.Slide, c models.PieChart) *html.Node {
	chart := missing(s, models.FieldChartData)
	if chart == nil {
		chart = pieChart(c.ChartData, s.FontSize)
	}
	return element("div", "flex flex-col h-full",
		sectionHeading(s, c.Header, true),
		element("div", "flex-1 flex items-center justify-center", chart))
}

// contentTextClass sizes progress labels; absent means md
func contentTextClass(size models.FontSize) string {
	switch size {
	case models.FontSizeSmall:
		return "text-xl"
	case models.FontSizeLarge:
		return "text-3xl"
	case models.FontSizeXL:
		return "text-5xl"
	}
	return "text-2xl"
}

// ProgressColors maps an entry color to the bar's background and indicator
// classes. Only bg-* utility classes are honored; anything else is gray.
func ProgressColors(color string) (background, indicator string) {
	if !strings.HasPrefix(color, "bg-") {
		return "bg-gray-100", "bg-gray-500"
	}
	return color + "/20", color
}

// ProgressHeight maps an entry size to the bar height class
func ProgressHeight(size string) string {
	switch size {
	case "sm":
		return "h-1"
	case "lg":
		return "h-3"
	case "xl":
		return "h-4"
	case "2xl":
		return "h-5"
	}
	return "h-2"
}

func clampPercent(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

func progressGridSlide(s models.Slide, c models.ProgressGrid) *html.Node {
	grid := missing(s, models.FieldProgressData)
	if grid == nil {
		grid = element("div", "flex-1 grid gap-8 grid-cols-"+strconv.Itoa(c.EffectiveColumns()))
		textClass := "font-medium " + contentTextClass(s.FontSize)
		for _, item := range c.ProgressData {
			background, indicator := ProgressColors(item.Color)
			value := clampPercent(item.Value)
			shown := strconv.FormatFloat(value, 'f', -1, 64)

			bar := element("div", "progress w-full rounded-full overflow-hidden "+ProgressHeight(item.Size)+" "+background)
			setAttr(bar, "role", "progressbar")
			setAttr(bar, "aria-valuemin", "0")
			setAttr(bar, "aria-valuemax", "100")
			setAttr(bar, "aria-valuenow", shown)
			fill := element("div", "progress-indicator h-full "+indicator)
			setAttr(fill, "style", "width: "+shown+"%")
			bar.AppendChild(fill)

			grid.AppendChild(element("div", "progress-item flex flex-col gap-2",
				element("div", "flex justify-between items-center",
					element("span", textClass, text(item.Label)),
					element("span", textClass, text(shown+"%"))),
				bar))
		}
	}
	return element("div", "flex flex-col h-full",
		sectionHeading(s, c.Header, true),
		grid)
}

func markdownSlide(s models.Slide, c models.Markdown) *html.Node {
	body := missing(s, models.FieldMarkdown)
	if body == nil {
		body = markdownBlock(proseClass(s.FontSize, "prose-xl"), c.Markdown)
	}
	return element("div", "h-full overflow-y-auto", body)
}
