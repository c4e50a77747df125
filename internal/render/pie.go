package render

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/net/html"

	"slidedeck/internal/models"
)

// Pie chart geometry in SVG user units
const (
	PieSize          = 400
	PieRadius        = 150
	LabelRadiusRatio = 0.9
)

// PieSlice is one drawn slice. Angles are radians measured from the
// positive x-axis, growing clockwise on screen.
type PieSlice struct {
	Label      string
	Value      float64
	Color      string
	StartAngle float64
	EndAngle   float64
	Percent    int
	LabelX     float64
	LabelY     float64
}

// Sweep returns the angle spanned by the slice
func (p PieSlice) Sweep() float64 {
	return p.EndAngle - p.StartAngle
}

// PieSlices lays out entries in input order starting at angle 0.
// Negative values count as zero; a zero total yields no slices.
func PieSlices(entries []models.ChartEntry) []PieSlice {
	var total float64
	for _, e := range entries {
		total += math.Max(e.Value, 0)
	}
	if total <= 0 {
		return nil
	}

	center := float64(PieSize) / 2
	labelRadius := PieRadius * LabelRadiusRatio
	slices := make([]PieSlice, 0, len(entries))
	start := 0.0
	for i, e := range entries {
		v := math.Max(e.Value, 0)
		end := start + 2*math.Pi*v/total
		if i == len(entries)-1 {
			end = 2 * math.Pi
		}
		mid := start + (end-start)/2
		slices = append(slices, PieSlice{
			Label:      e.Label,
			Value:      v,
			Color:      e.Color,
			StartAngle: start,
			EndAngle:   end,
			Percent:    int(math.Round(v / total * 100)),
			LabelX:     center + math.Cos(mid)*labelRadius,
			LabelY:     center + math.Sin(mid)*labelRadius,
		})
		start = end
	}
	return slices
}

func pieLabelFontSize(size models.FontSize) string {
	switch size {
	case models.FontSizeSmall:
		return "12px"
	case models.FontSizeLarge:
		return "16px"
	case models.FontSizeXL:
		return "18px"
	}
	return "14px"
}

func pieChart(entries []models.ChartEntry, size models.FontSize) *html.Node {
	slices := PieSlices(entries)
	if len(slices) == 0 {
		return placeholder("", "No chart data")
	}

	svg := element("svg", "pie-chart max-w-full h-auto")
	setAttr(svg, "viewBox", fmt.Sprintf("0 0 %d %d", PieSize, PieSize))
	setAttr(svg, "width", strconv.Itoa(PieSize))
	setAttr(svg, "height", strconv.Itoa(PieSize))
	setAttr(svg, "role", "img")

	c := float64(PieSize) / 2
	for _, s := range slices {
		if s.Sweep() >= 2*math.Pi-1e-9 {
			circle := element("circle", "pie-slice")
			setAttr(circle, "cx", num(c))
			setAttr(circle, "cy", num(c))
			setAttr(circle, "r", strconv.Itoa(PieRadius))
			setAttr(circle, "fill", s.Color)
			svg.AppendChild(circle)
		} else if s.Sweep() > 0 {
			path := element("path", "pie-slice")
			setAttr(path, "d", arcPath(c, PieRadius, s.StartAngle, s.EndAngle))
			setAttr(path, "fill", s.Color)
			svg.AppendChild(path)
		}
	}
	for _, s := range slices {
		label := element("text", "pie-label", text(fmt.Sprintf("%s (%d%%)", s.Label, s.Percent)))
		setAttr(label, "x", num(s.LabelX))
		setAttr(label, "y", num(s.LabelY))
		setAttr(label, "fill", "#374151")
		setAttr(label, "font-size", pieLabelFontSize(size))
		setAttr(label, "text-anchor", "middle")
		setAttr(label, "dominant-baseline", "middle")
		svg.AppendChild(label)
	}
	return svg
}

func arcPath(c, r, start, end float64) string {
	largeArc := 0
	if end-start > math.Pi {
		largeArc = 1
	}
	return fmt.Sprintf("M %s %s L %s %s A %s %s 0 %d 1 %s %s Z",
		num(c), num(c),
		num(c+r*math.Cos(start)), num(c+r*math.Sin(start)),
		num(r), num(r), largeArc,
		num(c+r*math.Cos(end)), num(c+r*math.Sin(end)))
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
