package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidedeck/internal/models"
)

func TestPieSlices_CoverFullCircleInInputOrder(t *testing.T) {
	cases := [][]models.ChartEntry{
		{{Label: "a", Value: 1}},
		{{Label: "a", Value: 1}, {Label: "b", Value: 2}, {Label: "c", Value: 3}},
		{{Label: "a", Value: 0.1}, {Label: "b", Value: 0.2}, {Label: "c", Value: 0.7}},
		{{Label: "a", Value: 5}, {Label: "b", Value: 0}, {Label: "c", Value: 5}},
		{{Label: "a", Value: 1e6}, {Label: "b", Value: 1e-3}},
	}
	for _, entries := range cases {
		slices := PieSlices(entries)
		require.Len(t, slices, len(entries))

		var sum float64
		prevEnd := 0.0
		for i, s := range slices {
			assert.Equal(t, entries[i].Label, s.Label)
			assert.InDelta(t, prevEnd, s.StartAngle, 1e-12, "slices are contiguous")
			assert.GreaterOrEqual(t, s.Sweep(), 0.0)
			sum += s.Sweep()
			prevEnd = s.EndAngle
		}
		assert.InDelta(t, 2*math.Pi, sum, 1e-9)
		assert.Equal(t, 0.0, slices[0].StartAngle)
	}
}

func TestPieSlices_ProportionsAndLabels(t *testing.T) {
	slices := PieSlices([]models.ChartEntry{
		{Label: "quarter", Value: 25, Color: "#f00"},
		{Label: "rest", Value: 75, Color: "#0f0"},
	})
	require.Len(t, slices, 2)
	assert.InDelta(t, math.Pi/2, slices[0].Sweep(), 1e-12)
	assert.Equal(t, 25, slices[0].Percent)
	assert.Equal(t, 75, slices[1].Percent)

	// mid-angle of the first slice is π/4, label at 90% of the radius
	r := PieRadius * LabelRadiusRatio
	c := float64(PieSize) / 2
	assert.InDelta(t, c+r*math.Cos(math.Pi/4), slices[0].LabelX, 1e-9)
	assert.InDelta(t, c+r*math.Sin(math.Pi/4), slices[0].LabelY, 1e-9)
}

func TestPieSlices_ZeroTotal(t *testing.T) {
	assert.Empty(t, PieSlices(nil))
	assert.Empty(t, PieSlices([]models.ChartEntry{}))
	assert.Empty(t, PieSlices([]models.ChartEntry{{Label: "a", Value: 0}, {Label: "b", Value: 0}}))
	assert.Empty(t, PieSlices([]models.ChartEntry{{Label: "neg", Value: -4}}))
}

func TestPieSlices_NegativeValuesCountAsZero(t *testing.T) {
	slices := PieSlices([]models.ChartEntry{{Label: "a", Value: -10}, {Label: "b", Value: 10}})
	require.Len(t, slices, 2)
	assert.Equal(t, 0.0, slices[0].Sweep())
	assert.Equal(t, 0, slices[0].Percent)
	assert.InDelta(t, 2*math.Pi, slices[1].Sweep(), 1e-12)
	assert.Equal(t, 100, slices[1].Percent)
}
