package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/chart"
)

var testTime = time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)

func TestPDFBuilderBasicDocument(t *testing.T) {
	b := NewPDFBuilder("TTMS Analytics Report", "Year 2026 Performance Overview", "Confidential", testTime)
	b.NewPage()
	b.SectionHeader("Executive Summary")
	b.Text("Plain paragraph.")
	b.Callout("Insight callout.")
	b.Table(
		[]string{"Metric", "Value"},
		[]float64{100, 80},
		[][]string{{"Total Molds", "10"}, {"Completion Rate", "60.0%"}},
	)

	if got := b.PageCount(); got < 2 {
		t.Fatalf("page count = %d, want cover plus content", got)
	}
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF")
	}
}

func TestPDFBuilderOverflowBreaksPage(t *testing.T) {
	b := NewPDFBuilder("Report", "Subtitle", "Confidential", testTime)
	b.NewPage()
	b.SectionHeader("Long Table")

	rows := make([][]string, 120)
	for i := range rows {
		rows[i] = []string{"row", "value"}
	}
	b.Table([]string{"A", "B"}, []float64{90, 90}, rows)

	// 120 rows cannot fit one A4 page; the cursor must have broken pages.
	if got := b.PageCount(); got < 3 {
		t.Fatalf("page count = %d, want at least 3 after overflow", got)
	}
	if _, err := b.Bytes(); err != nil {
		t.Fatalf("Bytes: %v", err)
	}
}

func TestPDFBuilderEmbedsChartImage(t *testing.T) {
	png, err := chart.Pie([]chart.Entry{{Label: "completed", Value: 3}}, chart.Options{Title: "Status"})
	if err != nil {
		t.Fatalf("render chart: %v", err)
	}

	b := NewPDFBuilder("Report", "Subtitle", "Confidential", testTime)
	b.NewPage()
	b.SectionHeader("Chart")
	b.Image(png, 110, 110)
	b.Image(nil, 110, 110) // missing image is skipped, not fatal

	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if len(data) < len(png) {
		t.Fatalf("document smaller than its embedded image: %d < %d", len(data), len(png))
	}
}

func TestBuildAnalyticsPDFWithEmptyData(t *testing.T) {
	ds := &dataset{} // zero records everywhere, no snapshot
	data, err := buildAnalyticsPDF(ds, 2026, testTime, "Confidential", 5)
	if err != nil {
		t.Fatalf("buildAnalyticsPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF")
	}
}
