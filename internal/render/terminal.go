package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"slidedeck/internal/models"
)

// Terminal renders slides as styled text for the terminal presenter
type Terminal struct {
	width    int
	markdown *glamour.TermRenderer

	title       lipgloss.Style
	heading     lipgloss.Style
	muted       lipgloss.Style
	placeholder lipgloss.Style
	footer      lipgloss.Style
	cell        lipgloss.Style
}

// NewTerminal creates a renderer wrapping text at width columns
func NewTerminal(width int, opts ...glamour.TermRendererOption) (*Terminal, error) {
	if width < 20 {
		width = 20
	}
	options := append([]glamour.TermRendererOption{
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width - 4),
	}, opts...)
	md, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return nil, fmt.Errorf("creating markdown renderer: %w", err)
	}

	return &Terminal{
		width:    width,
		markdown: md,
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#111827")).
			Background(lipgloss.Color("#a5f3fc")).
			Padding(1, 4),
		heading: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7c3aed")).
			MarginBottom(1),
		muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280")),
		placeholder: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ca3af")).
			Italic(true),
		footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280")).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			Padding(0, 1),
		cell: lipgloss.NewStyle().
			PaddingRight(4),
	}, nil
}

// Width returns the wrap width
func (t *Terminal) Width() int {
	return t.width
}

// Slide renders one slide with the same dispatch as the HTML renderer
func (t *Terminal) Slide(s models.Slide) string {
	switch c := s.Content.(type) {
	case models.HeaderOnly:
		return lipgloss.PlaceHorizontal(t.width, lipgloss.Center, t.headerText(s, c.Header, t.title))
	case models.TitleContent:
		return t.stack(t.headerText(s, c.Header, t.heading), t.markdownText(s, models.FieldContent, c.Content))
	case models.ImageOnly:
		return t.imageText(s, "image", models.FieldImageURL, c.ImageURL, c.AltText)
	case models.GifOnly:
		return t.imageText(s, "gif", models.FieldGifURL, c.GifURL, c.AltText)
	case models.ImageHeader:
		return t.stack(t.headerText(s, c.Header, t.heading), t.imageText(s, "image", models.FieldImageURL, c.ImageURL, c.AltText))
	case models.GifHeader:
		return t.stack(t.headerText(s, c.Header, t.heading), t.imageText(s, "gif", models.FieldGifURL, c.GifURL, c.AltText))
	case models.PieChart:
		return t.stack(t.headerText(s, c.Header, t.heading), t.pieText(s, c))
	case models.ProgressGrid:
		return t.stack(t.headerText(s, c.Header, t.heading), t.progressText(s, c))
	case models.Markdown:
		return t.markdownText(s, models.FieldMarkdown, c.Markdown)
	}
	return t.placeholder.Render(fmt.Sprintf("Unknown slide type %q", s.Type()))
}

// Footer renders the document name, slide counter and date line
func (t *Terminal) Footer(doc *models.Document, index int) string {
	position := "0/0"
	if len(doc.Slides) > 0 {
		position = fmt.Sprintf("%d/%d", index+1, len(doc.Slides))
	}
	parts := []string{doc.DocumentName, position}
	if date := FooterDate(doc.Settings.Date, doc.Settings.Footer.DateFormat); date != "" {
		parts = append(parts, date)
	}
	return t.footer.Width(t.width).Render(strings.Join(parts, "  ·  "))
}

func (t *Terminal) stack(blocks ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (t *Terminal) missingText(field string) string {
	return t.placeholder.Render("‹missing " + field + "›")
}

func (t *Terminal) headerText(s models.Slide, header string, style lipgloss.Style) string {
	if s.IsMissing(models.FieldHeader) {
		return t.missingText(models.FieldHeader)
	}
	return style.Render(header)
}

func (t *Terminal) markdownText(s models.Slide, field, source string) string {
	if s.IsMissing(field) {
		return t.missingText(field)
	}
	out, err := t.markdown.Render(source)
	if err != nil {
		return source
	}
	return strings.TrimRight(out, "\n")
}

func (t *Terminal) imageText(s models.Slide, kind, urlField, url, alt string) string {
	if s.IsMissing(urlField) {
		return t.missingText(urlField)
	}
	if s.IsMissing(models.FieldAltText) {
		alt = t.missingText(models.FieldAltText)
	}
	return fmt.Sprintf("[%s] %s\n%s", kind, alt, t.muted.Render(url))
}

func (t *Terminal) pieText(s models.Slide, c models.PieChart) string {
	if s.IsMissing(models.FieldChartData) {
		return t.missingText(models.FieldChartData)
	}
	slices := PieSlices(c.ChartData)
	if len(slices) == 0 {
		return t.placeholder.Render("No chart data")
	}
	barWidth := t.width / 2
	lines := make([]string, 0, len(slices))
	for _, p := range slices {
		n := int(math.Round(p.Sweep() / (2 * math.Pi) * float64(barWidth)))
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render(strings.Repeat("█", n))
		lines = append(lines, fmt.Sprintf("%s %s (%d%%)", bar, p.Label, p.Percent))
	}
	return strings.Join(lines, "\n")
}

// tailwindColors approximates the 500 shade of common bg-* utilities
var tailwindColors = map[string]string{
	"gray":    "#6b7280",
	"red":     "#ef4444",
	"orange":  "#f97316",
	"yellow":  "#eab308",
	"green":   "#22c55e",
	"teal":    "#14b8a6",
	"blue":    "#3b82f6",
	"indigo":  "#6366f1",
	"purple":  "#a855f7",
	"pink":    "#ec4899",
	"emerald": "#10b981",
	"cyan":    "#06b6d4",
}

func terminalColor(class string) lipgloss.Color {
	_, indicator := ProgressColors(class)
	parts := strings.Split(indicator, "-")
	if len(parts) >= 2 {
		if hex, ok := tailwindColors[parts[1]]; ok {
			return lipgloss.Color(hex)
		}
	}
	return lipgloss.Color(tailwindColors["gray"])
}

func (t *Terminal) progressText(s models.Slide, c models.ProgressGrid) string {
	if s.IsMissing(models.FieldProgressData) {
		return t.missingText(models.FieldProgressData)
	}
	columns := c.EffectiveColumns()
	cellWidth := t.width/columns - 4
	if cellWidth < 10 {
		cellWidth = 10
	}
	barWidth := cellWidth - 6

	var rows []string
	var row []string
	for i, item := range c.ProgressData {
		value := clampPercent(item.Value)
		filled := int(math.Round(value / 100 * float64(barWidth)))
		bar := lipgloss.NewStyle().Foreground(terminalColor(item.Color)).Render(strings.Repeat("━", filled)) +
			t.muted.Render(strings.Repeat("─", barWidth-filled))
		label := lipgloss.NewStyle().Width(cellWidth).Render(item.Label)
		cell := lipgloss.JoinVertical(lipgloss.Left, label, bar+" "+strconv.FormatFloat(value, 'f', -1, 64)+"%")
		row = append(row, t.cell.Render(cell))
		if len(row) == columns || i == len(c.ProgressData)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return strings.Join(rows, "\n\n")
}
