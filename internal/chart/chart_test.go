package chart

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"unicode/utf8"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func assertPNG(t *testing.T, data []byte, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, pngMagic) {
		t.Fatalf("output is not a PNG (first bytes %v)", data[:min(4, len(data))])
	}
}

func TestPie(t *testing.T) {
	data, err := Pie([]Entry{
		{Label: "completed", Value: 6},
		{Label: "ongoing", Value: 3},
		{Label: "pending", Value: 1},
	}, Options{Title: "Molds by Status"})
	assertPNG(t, data, err)
}

func TestDonut(t *testing.T) {
	data, err := Donut([]Entry{
		{Label: "New", Value: 4},
		{Label: "Renovate", Value: 2},
	}, Options{Title: "Molds by Category"})
	assertPNG(t, data, err)
}

func TestBar(t *testing.T) {
	data, err := Bar([]Entry{
		{Label: "Acme Plastics", Value: 9},
		{Label: "Bravo Moulding International Ltd", Value: 4}, // long label goes through truncation
		{Label: "Cirrus", Value: 2},
	}, Options{Title: "Molds per Customer"})
	assertPNG(t, data, err)
}

func TestStackedBar(t *testing.T) {
	data, err := StackedBar([]StackedEntry{
		{Label: "New", Bottom: 2, Top: 10},
		{Label: "Modify", Bottom: 1, Top: 5},
	}, "Delayed", "On Time", Options{Title: "Delivery by Category"})
	assertPNG(t, data, err)
}

// meanColorY averages the y coordinate of every pixel matching an exact
// 8-bit RGB fill color. Pixel y grows downward.
func meanColorY(t *testing.T, img image.Image, r, g, b uint32) float64 {
	t.Helper()
	bounds := img.Bounds()
	var sum, n int
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			pr, pg, pb, _ := img.At(x, y).RGBA()
			if pr>>8 == r && pg>>8 == g && pb>>8 == b {
				sum += y
				n++
			}
		}
	}
	if n == 0 {
		t.Fatalf("no pixel with color %02x%02x%02x found", r, g, b)
	}
	return float64(sum) / float64(n)
}

// The Bottom segment must sit at the baseline with Top stacked above it,
// so the red (bottom) fill has to render below the green (top) fill.
func TestStackedBarBottomSegmentAtBaseline(t *testing.T) {
	data, err := StackedBar(
		[]StackedEntry{{Label: "New", Bottom: 5, Top: 5}},
		"Delayed", "On Time", Options{Title: "Delivery"},
	)
	assertPNG(t, data, err)

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bottomY := meanColorY(t, img, 0xe1, 0x57, 0x59)
	topY := meanColorY(t, img, 0x59, 0xa1, 0x4f)
	if bottomY <= topY {
		t.Errorf("bottom segment mean y = %.0f, top segment mean y = %.0f; baseline segment rendered above the stacked one", bottomY, topY)
	}
}

func TestLine(t *testing.T) {
	data, err := Line([]Series{
		{Name: "Molds Created", Values: []Entry{
			{Label: "2026-01", Value: 3},
			{Label: "2026-02", Value: 5},
			{Label: "2026-03", Value: 2},
		}},
	}, Options{Title: "Monthly Trend"})
	assertPNG(t, data, err)
}

// A series longer than the first must still fit inside the x-range.
func TestLineSecondSeriesLonger(t *testing.T) {
	data, err := Line([]Series{
		{Name: "On Time", Values: []Entry{{Label: "Q1", Value: 8}, {Label: "Q2", Value: 11}}},
		{Name: "Delayed", Values: []Entry{
			{Label: "Q1", Value: 2}, {Label: "Q2", Value: 1},
			{Label: "Q3", Value: 4}, {Label: "Q4", Value: 3},
		}},
	}, Options{Title: "Delivery Trend"})
	assertPNG(t, data, err)
}

func TestLineMultiSeries(t *testing.T) {
	data, err := Line([]Series{
		{Name: "On Time", Values: []Entry{{Label: "Q1", Value: 8}, {Label: "Q2", Value: 11}}},
		{Name: "Delayed", Values: []Entry{{Label: "Q1", Value: 2}, {Label: "Q2", Value: 1}}},
	}, Options{Title: "Delivery Trend"})
	assertPNG(t, data, err)
}

// A zero-valued series must render an axes/title skeleton, not fail.
func TestZeroTotalRendersSkeleton(t *testing.T) {
	zero := []Entry{{Label: "empty", Value: 0}}

	data, err := Pie(zero, Options{Title: "Empty"})
	assertPNG(t, data, err)

	data, err = Donut(zero, Options{Title: "Empty"})
	assertPNG(t, data, err)

	data, err = Bar(zero, Options{Title: "Empty"})
	assertPNG(t, data, err)

	data, err = StackedBar([]StackedEntry{{Label: "empty"}}, "Delayed", "On Time", Options{Title: "Empty"})
	assertPNG(t, data, err)

	data, err = Line([]Series{{Name: "flat", Values: zero}}, Options{Title: "Empty"})
	assertPNG(t, data, err)
}

func TestEmptySeries(t *testing.T) {
	data, err := Pie(nil, Options{Title: "Nothing"})
	assertPNG(t, data, err)

	data, err = Line(nil, Options{Title: "Nothing"})
	assertPNG(t, data, err)
}

func TestTruncate(t *testing.T) {
	if got := truncate("short"); got != "short" {
		t.Errorf("truncate(short) = %q", got)
	}
	got := truncate("a very long customer name indeed")
	if len(got) != maxLabelChars {
		t.Errorf("truncated length = %d, want %d", len(got), maxLabelChars)
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("truncated label %q missing ellipsis", got)
	}
}

func TestTruncateMultiByte(t *testing.T) {
	got := truncate("Müller Präzisionswerkzeuge GmbH")
	if !utf8.ValidString(got) {
		t.Fatalf("truncated label %q is not valid UTF-8", got)
	}
	if n := utf8.RuneCountInString(got); n != maxLabelChars {
		t.Errorf("truncated rune count = %d, want %d", n, maxLabelChars)
	}
	if got[len(got)-3:] != "..." {
		t.Errorf("truncated label %q missing ellipsis", got)
	}
}
