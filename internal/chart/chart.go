// Package chart rasterizes report charts to PNG bytes.
//
// Every document assembler consumes the same renderers, so the pie, donut,
// bar, stacked-bar and line layouts stay identical across PDF and any other
// output context. Rendering is synchronous, bytes in, bytes out.
package chart

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Entry is one labeled value of a single-series chart.
type Entry struct {
	Label string
	Value float64
}

// StackedEntry is one category of a two-part stacked bar.
// Bottom sits at the baseline, Top is stacked above it.
type StackedEntry struct {
	Label  string
	Bottom float64
	Top    float64
}

// Series is one named line of a line chart.
type Series struct {
	Name   string
	Values []Entry
}

// Options control the shared layout conventions.
type Options struct {
	Title  string
	Width  int
	Height int
}

const maxLabelChars = 14

// palette cycles by entry index, matching the fixed palette the dashboards use.
var palette = []drawing.Color{
	drawing.ColorFromHex("4e79a7"),
	drawing.ColorFromHex("f28e2b"),
	drawing.ColorFromHex("e15759"),
	drawing.ColorFromHex("76b7b2"),
	drawing.ColorFromHex("59a14f"),
	drawing.ColorFromHex("edc948"),
	drawing.ColorFromHex("b07aa1"),
	drawing.ColorFromHex("ff9da7"),
	drawing.ColorFromHex("9c755f"),
	drawing.ColorFromHex("bab0ac"),
}

// PaletteColor returns the cyclic palette color for an entry index.
func PaletteColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

func (o Options) size(defaultW, defaultH int) (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = defaultW
	}
	if h <= 0 {
		h = defaultH
	}
	return w, h
}

// truncate shortens a label to maxLabelChars runes; byte slicing would cut
// multi-byte characters in half.
func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelChars {
		return s
	}
	return string(r[:maxLabelChars-3]) + "..."
}

func total(entries []Entry) float64 {
	var t float64
	for _, e := range entries {
		t += e.Value
	}
	return t
}

// skeleton renders axes and title only, for series whose total is zero.
func skeleton(title string, w, h int) ([]byte, error) {
	graph := chart.Chart{
		Title:  title,
		Width:  w,
		Height: h,
		XAxis:  chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 0},
				Style:   chart.Style{StrokeColor: drawing.ColorFromHex("cccccc"), StrokeWidth: 1},
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart skeleton: %w", err)
	}
	return buf.Bytes(), nil
}

func pieValues(entries []Entry) []chart.Value {
	values := make([]chart.Value, 0, len(entries))
	for i, e := range entries {
		if e.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: e.Value,
			Label: fmt.Sprintf("%s (%.0f)", truncate(e.Label), e.Value),
			Style: chart.Style{FillColor: PaletteColor(i)},
		})
	}
	return values
}

// Pie renders a pie chart, one slice per entry, palette color by entry index.
func Pie(entries []Entry, opts Options) ([]byte, error) {
	w, h := opts.size(512, 512)
	if total(entries) <= 0 {
		return skeleton(opts.Title, w, h)
	}
	graph := chart.PieChart{
		Title:  opts.Title,
		Width:  w,
		Height: h,
		Values: pieValues(entries),
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Donut renders a donut chart. The series total is carried in the title
// since the cutout itself holds no text.
func Donut(entries []Entry, opts Options) ([]byte, error) {
	w, h := opts.size(512, 512)
	t := total(entries)
	if t <= 0 {
		return skeleton(opts.Title, w, h)
	}
	title := opts.Title
	if title != "" {
		title = fmt.Sprintf("%s (total %.0f)", title, t)
	}
	graph := chart.DonutChart{
		Title:  title,
		Width:  w,
		Height: h,
		Values: pieValues(entries),
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render donut chart: %w", err)
	}
	return buf.Bytes(), nil
}

// yTicks builds six gridline ticks, 0..max in five even steps.
func yTicks(max float64) []chart.Tick {
	ticks := make([]chart.Tick, 0, 6)
	step := max / 5
	for i := 0; i <= 5; i++ {
		v := step * float64(i)
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	return ticks
}

// Bar renders a vertical bar chart scaled to the series maximum. Each bar is
// labeled with its category and value below the axis.
func Bar(entries []Entry, opts Options) ([]byte, error) {
	w, h := opts.size(800, 400)
	var max float64
	for _, e := range entries {
		if e.Value > max {
			max = e.Value
		}
	}
	if max <= 0 {
		return skeleton(opts.Title, w, h)
	}
	bars := make([]chart.Value, 0, len(entries))
	for i, e := range entries {
		bars = append(bars, chart.Value{
			Value: e.Value,
			Label: fmt.Sprintf("%s (%.0f)", truncate(e.Label), e.Value),
			Style: chart.Style{FillColor: PaletteColor(i)},
		})
	}
	graph := chart.BarChart{
		Title:    opts.Title,
		Width:    w,
		Height:   h,
		BarWidth: 46,
		XAxis:    chart.Style{TextRotationDegrees: barLabelRotation(len(bars))},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max},
			Ticks: yTicks(max),
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// barLabelRotation tilts category labels when space gets tight.
func barLabelRotation(bars int) float64 {
	if bars > 6 {
		return 45
	}
	return 0
}

// StackedBar renders two-part bars: the Bottom segment at the baseline,
// the Top segment above it, colored as a fixed two-entry scheme. Every bar
// is scaled to full height, so the chart conveys per-category proportion;
// absolute counts belong in an adjacent table.
func StackedBar(entries []StackedEntry, bottomName, topName string, opts Options) ([]byte, error) {
	w, h := opts.size(800, 400)
	var max float64
	for _, e := range entries {
		if s := e.Bottom + e.Top; s > max {
			max = s
		}
	}
	if max <= 0 {
		return skeleton(opts.Title, w, h)
	}
	bars := make([]chart.StackedBar, 0, len(entries))
	for _, e := range entries {
		// The renderer paints Values top-down, so the stack is listed
		// top segment first to land Bottom at the baseline.
		bars = append(bars, chart.StackedBar{
			Name: truncate(e.Label),
			Values: []chart.Value{
				{Value: e.Top, Label: topName, Style: chart.Style{FillColor: drawing.ColorFromHex("59a14f")}},
				{Value: e.Bottom, Label: bottomName, Style: chart.Style{FillColor: drawing.ColorFromHex("e15759")}},
			},
		})
	}
	graph := chart.StackedBarChart{
		Title:      opts.Title,
		Width:      w,
		Height:     h,
		BarSpacing: 40,
		XAxis:      chart.Style{},
		YAxis:      chart.Style{},
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render stacked bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Line renders one or more named series over a shared value scale. Points
// connect in insertion order; each point carries its value as an annotation.
// A legend is added when more than one series is supplied.
func Line(series []Series, opts Options) ([]byte, error) {
	w, h := opts.size(800, 400)
	var max float64
	points := 0
	for _, s := range series {
		points += len(s.Values)
		for _, e := range s.Values {
			if e.Value > max {
				max = e.Value
			}
		}
	}
	if points == 0 || max <= 0 {
		return skeleton(opts.Title, w, h)
	}

	// Ticks and the x-range come from the longest series so a shorter
	// first series never clips the others.
	var longest []Entry
	for _, s := range series {
		if len(s.Values) > len(longest) {
			longest = s.Values
		}
	}
	maxX := 1.0
	if len(longest) > 1 {
		maxX = float64(len(longest) - 1)
	}
	var xTicks []chart.Tick
	for i, e := range longest {
		xTicks = append(xTicks, chart.Tick{Value: float64(i), Label: truncate(e.Label)})
	}

	graphSeries := make([]chart.Series, 0, len(series)+1)
	var annotations []chart.Value2
	for si, s := range series {
		xs := make([]float64, len(s.Values))
		ys := make([]float64, len(s.Values))
		for i, e := range s.Values {
			xs[i] = float64(i)
			ys[i] = e.Value
			annotations = append(annotations, chart.Value2{
				XValue: float64(i),
				YValue: e.Value,
				Label:  fmt.Sprintf("%.0f", e.Value),
			})
		}
		graphSeries = append(graphSeries, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: PaletteColor(si),
				StrokeWidth: 2,
			},
		})
	}
	graphSeries = append(graphSeries, chart.AnnotationSeries{Annotations: annotations})

	graph := chart.Chart{
		Title:  opts.Title,
		Width:  w,
		Height: h,
		XAxis: chart.XAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxX},
			Ticks: xTicks,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: max},
			Ticks: yTicks(max),
		},
		Series: graphSeries,
	}
	if len(series) > 1 {
		graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render line chart: %w", err)
	}
	return buf.Bytes(), nil
}
