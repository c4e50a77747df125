package render

import (
	"testing"

	"github.com/charmbracelet/glamour"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidedeck/internal/models"
)

func newTestTerminal(t *testing.T) *Terminal {
	t.Helper()
	term, err := NewTerminal(80, glamour.WithStandardStyle("notty"))
	require.NoError(t, err)
	return term
}

func TestTerminal_Slides(t *testing.T) {
	term := newTestTerminal(t)

	assert.Contains(t, term.Slide(models.Slide{Content: models.HeaderOnly{Header: "Welcome"}}), "Welcome")
	assert.Contains(t, term.Slide(models.Slide{Content: models.Markdown{Markdown: "# Overview\n\n- one"}}), "Overview")

	img := term.Slide(models.Slide{Content: models.ImageHeader{Header: "Pic", ImageURL: "/a.png", AltText: "a cat"}})
	assert.Contains(t, img, "Pic")
	assert.Contains(t, img, "[image] a cat")
	assert.Contains(t, img, "/a.png")

	pie := term.Slide(models.Slide{Content: models.PieChart{Header: "Share", ChartData: []models.ChartEntry{
		{Label: "A", Value: 1, Color: "#ff0000"},
		{Label: "B", Value: 1, Color: "#00ff00"},
	}}})
	assert.Contains(t, pie, "A (50%)")
	assert.Contains(t, pie, "B (50%)")

	grid := term.Slide(models.NewSlide(models.SlideProgressGrid))
	assert.Contains(t, grid, "Task 1")
	assert.Contains(t, grid, "75%")
	assert.Contains(t, grid, "Task 2")
}

func TestTerminal_Placeholders(t *testing.T) {
	term := newTestTerminal(t)

	var unknown models.Slide
	require.NoError(t, unknown.UnmarshalJSON([]byte(`{"type":"video"}`)))
	assert.Contains(t, term.Slide(unknown), `Unknown slide type "video"`)

	var partial models.Slide
	require.NoError(t, partial.UnmarshalJSON([]byte(`{"type":"title-content","header":"H"}`)))
	assert.Contains(t, term.Slide(partial), "missing content")

	empty := term.Slide(models.Slide{Content: models.PieChart{Header: "none"}})
	assert.Contains(t, empty, "No chart data")
}

func TestTerminal_Footer(t *testing.T) {
	term := newTestTerminal(t)
	doc := seedDocument()
	out := term.Footer(doc, 1)
	assert.Contains(t, out, "My Presentation")
	assert.Contains(t, out, "2/2")
	assert.Contains(t, out, "Mar 2024")
}
