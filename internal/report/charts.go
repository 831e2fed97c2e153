package report

import (
	"bytes"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
)

// Chart images are rendered at 16:9 and scaled by fpdf to the landscape
// page width.
const (
	chartWidth  = 1280
	chartHeight = 720
)

// series is one named line on a month-label axis.
type series struct {
	name   string
	values []float64
}

func renderLineChart(title string, labels []string, seriesList []series) ([]byte, error) {
	ticks := make([]chart.Tick, len(labels))
	for i, label := range labels {
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}
	xValues := make([]float64, len(labels))
	for i := range labels {
		xValues[i] = float64(i)
	}

	chartSeries := make([]chart.Series, len(seriesList))
	allValues := make([][]float64, len(seriesList))
	for i, s := range seriesList {
		chartSeries[i] = chart.ContinuousSeries{
			Name:    s.name,
			XValues: xValues,
			YValues: s.values,
			Style: chart.Style{
				StrokeWidth: 2.5,
				DotWidth:    4,
			},
		}
		allValues[i] = s.values
	}

	graph := chart.Chart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			// Half a slot of padding on both ends keeps a single-month
			// chart from collapsing to a zero-width range.
			Range: &chart.ContinuousRange{Min: -0.5, Max: float64(len(labels)-1) + 0.5},
		},
		YAxis: chart.YAxis{
			Range: paddedRange(false, allValues...),
		},
		Series: chartSeries,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

func renderBarChart(title string, labels []string, values []float64) ([]byte, error) {
	bars := make([]chart.Value, len(labels))
	for i, label := range labels {
		bars[i] = chart.Value{Label: label, Value: values[i]}
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		BarWidth: barWidth(len(bars)),
		// Anchor bars at zero so negative overtime hangs below the axis.
		UseBaseValue: true,
		BaseValue:    0,
		YAxis: chart.YAxis{
			Range: paddedRange(true, values),
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering %q: %w", title, err)
	}
	return buf.Bytes(), nil
}

// barWidth sizes bars so that bars plus default spacing stay inside the
// canvas however many months the period spans.
func barWidth(count int) int {
	if count == 0 {
		return 60
	}
	width := chartWidth / (2*count + 1)
	if width > 80 {
		return 80
	}
	if width < 12 {
		return 12
	}
	return width
}

// paddedRange widens the value range by a tenth on both ends, and keeps
// flat data from producing the zero-span range the renderer rejects.
func paddedRange(includeZero bool, seriesValues ...[]float64) *chart.ContinuousRange {
	min, max := math.Inf(1), math.Inf(-1)
	if includeZero {
		min, max = 0, 0
	}
	for _, values := range seriesValues {
		for _, v := range values {
			min = math.Min(min, v)
			max = math.Max(max, v)
		}
	}
	if min > max {
		min, max = 0, 1
	}
	pad := (max - min) / 10
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: min - pad, Max: max + pad}
}
