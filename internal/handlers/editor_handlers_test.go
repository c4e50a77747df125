package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"slidedeck/internal/models"
	"slidedeck/internal/render"
)

func pieDocument() *models.Document {
	return &models.Document{
		DocumentName: "Charts",
		Slides: []models.Slide{
			{ID: "1", Content: models.HeaderOnly{Header: "Intro"}},
			{ID: "2", Content: models.PieChart{Header: "Share", ChartData: []models.ChartEntry{
				{Label: "A", Value: 30, Color: "#f00"},
				{Label: "B", Value: 70, Color: "#00f"},
			}}},
		},
	}
}

func parseBody(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func fieldText(t *testing.T, page *html.Node, name string) string {
	t.Helper()
	n := render.Find(page, func(n *html.Node) bool {
		v, _ := render.Attr(n, "name")
		return v == name && (n.Data == "textarea" || n.Data == "input")
	})
	require.NotNil(t, n, "field %s", name)
	if n.Data == "input" {
		v, _ := render.Attr(n, "value")
		return v
	}
	return render.Text(n)
}

func TestEditor_ListShowsSlides(t *testing.T) {
	ts := newTestServer(t, pieDocument())
	rec := ts.do(t, http.MethodGet, "/editor", "")
	require.Equal(t, http.StatusOK, rec.Code)

	page := parseBody(t, rec.Body.String())
	rows := render.FindAll(page, render.HasClass("slide-row"))
	require.Len(t, rows, 2)
	assert.Contains(t, render.Text(rows[0]), "Intro")
	assert.Contains(t, render.Text(rows[1]), "Pie Chart")
}

func TestEditor_DeckOperations(t *testing.T) {
	ts := newTestServer(t, pieDocument())

	rec := ts.postForm(t, "/editor/slides", url.Values{render.FormType: {"markdown"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/editor/slides/2", rec.Header().Get("Location"))
	doc := ts.stored(t)
	require.Len(t, doc.Slides, 3)
	assert.Equal(t, models.SlideMarkdown, doc.Slides[2].Type())

	rec = ts.postForm(t, "/editor/slides/move", url.Values{render.FormFrom: {"2"}, render.FormTo: {"0"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	doc = ts.stored(t)
	assert.Equal(t, models.SlideMarkdown, doc.Slides[0].Type())
	assert.Equal(t, []string{"1", "2", "3"}, []string{doc.Slides[0].ID, doc.Slides[1].ID, doc.Slides[2].ID})

	rec = ts.postForm(t, "/editor/slides/0/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	doc = ts.stored(t)
	require.Len(t, doc.Slides, 2)
	assert.Equal(t, models.SlideHeaderOnly, doc.Slides[0].Type())

	rec = ts.postForm(t, "/editor/settings", url.Values{
		render.FormDocumentName: {"Renamed"},
		render.FormFontFamily:   {"Serif"},
		render.FormDateFormat:   {"yyyy"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	doc = ts.stored(t)
	assert.Equal(t, "Renamed", doc.DocumentName)
	assert.Equal(t, "Serif", doc.Settings.FontFamily)
	assert.Equal(t, "yyyy", doc.Settings.Footer.DateFormat)
}

func TestEditor_DeckOperationErrors(t *testing.T) {
	ts := newTestServer(t, pieDocument())

	rec := ts.postForm(t, "/editor/slides", url.Values{render.FormType: {"carousel"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.postForm(t, "/editor/slides/move", url.Values{render.FormFrom: {"0"}, render.FormTo: {"5"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Slide index out of bounds")

	rec = ts.postForm(t, "/editor/slides/move", url.Values{render.FormFrom: {"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.postForm(t, "/editor/slides/9/delete", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	assert.Len(t, ts.stored(t).Slides, 2)
}

func TestEditor_InvalidDraftIsKeptAndNothingSaved(t *testing.T) {
	ts := newTestServer(t, pieDocument())

	rec := ts.do(t, http.MethodGet, "/editor/slides/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, fieldText(t, parseBody(t, rec.Body.String()), models.FieldChartData), `"label": "A"`)

	broken := `[{"label": "A", "value": 30,`
	rec = ts.postForm(t, "/editor/slides/1", url.Values{
		render.FormAction:     {render.ActionSave},
		render.FormType:       {"pie-chart"},
		models.FieldHeader:    {"Share"},
		models.FieldChartData: {broken},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	page := parseBody(t, rec.Body.String())
	assert.Equal(t, broken, fieldText(t, page, models.FieldChartData))
	assert.NotNil(t, render.Find(page, render.HasClass("field-error")))
	assert.NotNil(t, render.Find(page, render.HasClass("draft-pending")))

	// the stored chart is untouched
	stored := ts.stored(t).Slides[1].Content.(models.PieChart)
	assert.Len(t, stored.ChartData, 2)

	// reopening the form shows the draft, not the stored value
	rec = ts.do(t, http.MethodGet, "/editor/slides/1", "")
	assert.Equal(t, broken, fieldText(t, parseBody(t, rec.Body.String()), models.FieldChartData))

	rec = ts.postForm(t, "/editor/slides/1", url.Values{
		render.FormAction:     {render.ActionSave},
		render.FormType:       {"pie-chart"},
		models.FieldHeader:    {"Share"},
		models.FieldChartData: {`[{"label":"C","value":1,"color":"#0f0"}]`},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	stored = ts.stored(t).Slides[1].Content.(models.PieChart)
	assert.Equal(t, []models.ChartEntry{{Label: "C", Value: 1, Color: "#0f0"}}, stored.ChartData)
}

func TestEditor_TypeChangeRoundTripKeepsChart(t *testing.T) {
	ts := newTestServer(t, pieDocument())

	rec := ts.postForm(t, "/editor/slides/1", url.Values{
		render.FormAction: {render.ActionRefresh},
		render.FormType:   {"markdown"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	page := parseBody(t, rec.Body.String())
	assert.Nil(t, render.Find(page, func(n *html.Node) bool {
		v, _ := render.Attr(n, "data-field")
		return v == models.FieldChartData
	}), "markdown form has no chart field")

	rec = ts.postForm(t, "/editor/slides/1", url.Values{
		render.FormAction:    {render.ActionRefresh},
		render.FormType:      {"pie-chart"},
		models.FieldMarkdown: {"# ignored"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, fieldText(t, parseBody(t, rec.Body.String()), models.FieldChartData), `"label": "B"`)

	rec = ts.postForm(t, "/editor/slides/1", url.Values{render.FormAction: {render.ActionSave}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	stored := ts.stored(t).Slides[1]
	assert.Equal(t, models.SlidePieChart, stored.Type())
	assert.Len(t, stored.Content.(models.PieChart).ChartData, 2)
}

func TestEditor_EffectFields(t *testing.T) {
	ts := newTestServer(t, pieDocument())

	rec := ts.postForm(t, "/editor/slides/0", url.Values{
		render.FormAction:        {render.ActionRefresh},
		render.FormEffectEnabled: {"on"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "✨", fieldText(t, parseBody(t, rec.Body.String()), render.FormEffectPrefix+"emoji"))

	rec = ts.postForm(t, "/editor/slides/0", url.Values{
		render.FormAction:        {render.ActionRefresh},
		render.FormEffectEnabled: {"on"},
		render.FormEffectType:    {"flying-emoji"},
		"effect.particleCount":   {"50"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "outside the slider range")

	rec = ts.postForm(t, "/editor/slides/0", url.Values{
		render.FormAction:        {render.ActionSave},
		render.FormEffectEnabled: {"on"},
		render.FormEffectType:    {"flying-emoji"},
		"effect.particleCount":   {"12"},
		"effect.emoji":           {"🎉"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	effect := ts.stored(t).Slides[0].Effect
	require.NotNil(t, effect)
	assert.Equal(t, 12, effect.Options.ParticleCount)
	assert.Equal(t, "🎉", effect.Options.Emoji)
}

func TestEditor_UnknownIndex(t *testing.T) {
	ts := newTestServer(t, pieDocument())
	rec := ts.do(t, http.MethodGet, "/editor/slides/7", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditor_ConcurrentViewAndSubmit(t *testing.T) {
	ts := newTestServer(t, pieDocument())
	form := url.Values{
		render.FormAction:     {render.ActionRefresh},
		render.FormType:       {"pie-chart"},
		models.FieldHeader:    {"Share"},
		models.FieldChartData: {`[{"label":"A","value":1,"color":"#f00"}]`},
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			rec := ts.do(t, http.MethodGet, "/editor/slides/1", "")
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
		go func() {
			defer wg.Done()
			rec := ts.postForm(t, "/editor/slides/1", form)
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
	}
	wg.Wait()
}

func TestEditor_SessionSurvivesUnrelatedSave(t *testing.T) {
	ts := newTestServer(t, pieDocument())

	rec := ts.postForm(t, "/editor/slides/1", url.Values{
		render.FormAction: {render.ActionRefresh},
		render.FormType:   {"markdown"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// another slide is saved; slide 1 is untouched in the store
	rec = ts.postForm(t, "/editor/slides/0", url.Values{
		render.FormAction:  {render.ActionSave},
		models.FieldHeader: {"Welcome"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.NoError(t, ts.workspace.Refresh(context.Background()))

	rec = ts.postForm(t, "/editor/slides/1", url.Values{
		render.FormAction: {render.ActionRefresh},
		render.FormType:   {"pie-chart"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, fieldText(t, parseBody(t, rec.Body.String()), models.FieldChartData), `"label": "B"`)
}

func TestEditor_SessionDroppedWhenSlideChanges(t *testing.T) {
	ts := newTestServer(t, pieDocument())

	rec := ts.postForm(t, "/editor/slides/1", url.Values{
		render.FormAction: {render.ActionRefresh},
		render.FormType:   {"markdown"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/presentation/slides/1", `{"type":"header-only","header":"Replaced"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/editor/slides/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Replaced", fieldText(t, parseBody(t, rec.Body.String()), models.FieldHeader))
}
