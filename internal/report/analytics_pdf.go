package report

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/analytics"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/chart"
	"github.com/TTMS-DilumCA/ttms-reporting/internal/entity"
)

const (
	chartImgWidth  = 150.0 // mm
	chartImgHeight = 90.0
	pieImgWidth    = 110.0
	pieImgHeight   = 110.0
)

func statusEntries(counts []analytics.StatusCount) []chart.Entry {
	entries := make([]chart.Entry, 0, len(counts))
	for _, sc := range counts {
		entries = append(entries, chart.Entry{Label: sc.Status, Value: float64(sc.Count)})
	}
	return entries
}

func labelEntries(counts []analytics.LabelCount) []chart.Entry {
	entries := make([]chart.Entry, 0, len(counts))
	for _, lc := range counts {
		entries = append(entries, chart.Entry{Label: lc.Label, Value: float64(lc.Count)})
	}
	return entries
}

// sortedKeys gives breakdown maps a stable section order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildAnalyticsPDF assembles the year-scoped analytics report.
func buildAnalyticsPDF(ds *dataset, year int, generatedAt time.Time, notice string, topN int) ([]byte, error) {
	snapshot := ds.Snapshot.Normalized()
	b := NewPDFBuilder(
		"TTMS Analytics Report",
		fmt.Sprintf("Year %d Performance Overview", year),
		notice,
		generatedAt,
	)
	b.NewPage()

	if err := writeExecutiveSummary(b, ds, &snapshot); err != nil {
		return nil, err
	}
	if err := writeStatusSection(b, ds); err != nil {
		return nil, err
	}
	if err := writeCategorySection(b, ds, &snapshot); err != nil {
		return nil, err
	}
	if err := writeTrendSection(b, ds); err != nil {
		return nil, err
	}
	if err := writeDeliverySection(b, &snapshot); err != nil {
		return nil, err
	}
	if err := writeCustomerSection(b, ds, topN); err != nil {
		return nil, err
	}
	if err := writeProcessSection(b, ds, topN); err != nil {
		return nil, err
	}
	writeWorkforceSection(b, ds)

	return b.Bytes()
}

func writeExecutiveSummary(b *PDFBuilder, ds *dataset, snapshot *entity.AnalyticsSnapshot) error {
	b.SectionHeader("Executive Summary")

	moldRate := analytics.CompletionRate(ds.Molds)
	processRate := analytics.ProcessCompletionRate(ds.Processes)
	dp := snapshot.DeliveryPerformance
	onTimeRate := analytics.OnTimeRate(dp.OnTime, dp.Delayed)

	b.Table(
		[]string{"Metric", "Value", "Grade"},
		[]float64{80, 60, 40},
		[][]string{
			{"Total Molds", strconv.Itoa(len(ds.Molds)), ""},
			{"Mold Completion Rate", analytics.FormatPercent(moldRate), analytics.Grade(moldRate)},
			{"Process Completion Rate", analytics.FormatPercent(processRate), analytics.Grade(processRate)},
			{"On-Time Delivery Rate", analytics.FormatPercent(onTimeRate), analytics.Grade(onTimeRate)},
			{"Avg Process Duration", analytics.AverageProcessDuration(ds.Processes), ""},
		},
	)
	b.Callout(fmt.Sprintf(
		"Overall delivery performance is rated %q with %s of molds delivered on time.",
		analytics.RatingLabel(onTimeRate), analytics.FormatPercent(onTimeRate),
	))
	return nil
}

func writeStatusSection(b *PDFBuilder, ds *dataset) error {
	b.SectionHeader("Mold Status Distribution")
	dist := analytics.MoldStatusDistribution(ds.Molds)

	png, err := chart.Pie(statusEntries(dist), chart.Options{Title: "Molds by Status"})
	if err != nil {
		return err
	}
	b.Image(png, pieImgWidth, pieImgHeight)

	rows := make([][]string, 0, len(dist))
	for _, sc := range dist {
		rows = append(rows, []string{sc.Status, strconv.Itoa(sc.Count), analytics.FormatPercent(sc.Percent)})
	}
	b.Table([]string{"Status", "Count", "Percentage"}, []float64{70, 50, 60}, rows)
	return nil
}

func writeCategorySection(b *PDFBuilder, ds *dataset, snapshot *entity.AnalyticsSnapshot) error {
	b.SectionHeader("Category Breakdown")

	// Prefer the backend-derived year-scoped breakdown; fall back to counting
	// the fetched molds when the snapshot carries none.
	breakdown := snapshot.CategoryBreakdown
	if len(breakdown) == 0 {
		breakdown = map[string]int{}
		for _, m := range ds.Molds {
			if m.Category != "" {
				breakdown[m.Category]++
			}
		}
	}

	entries := make([]chart.Entry, 0, len(breakdown))
	rows := make([][]string, 0, len(breakdown))
	for _, k := range sortedKeys(breakdown) {
		entries = append(entries, chart.Entry{Label: k, Value: float64(breakdown[k])})
		rows = append(rows, []string{k, strconv.Itoa(breakdown[k])})
	}

	png, err := chart.Donut(entries, chart.Options{Title: "Molds by Category"})
	if err != nil {
		return err
	}
	b.Image(png, pieImgWidth, pieImgHeight)
	b.Table([]string{"Category", "Count"}, []float64{90, 90}, rows)
	return nil
}

func writeTrendSection(b *PDFBuilder, ds *dataset) error {
	b.SectionHeader("Monthly Mold Trend")
	trend := analytics.MonthlyTrend(ds.Molds)

	values := make([]chart.Entry, 0, len(trend))
	for _, mc := range trend {
		values = append(values, chart.Entry{Label: mc.Month, Value: float64(mc.Count)})
	}
	png, err := chart.Line(
		[]chart.Series{{Name: "Molds Created", Values: values}},
		chart.Options{Title: "Molds Created per Month"},
	)
	if err != nil {
		return err
	}
	b.Image(png, chartImgWidth, chartImgHeight)
	return nil
}

func writeDeliverySection(b *PDFBuilder, snapshot *entity.AnalyticsSnapshot) error {
	b.SectionHeader("Delivery Performance")
	dp := snapshot.DeliveryPerformance
	onTimeRate := analytics.OnTimeRate(dp.OnTime, dp.Delayed)

	b.Text(fmt.Sprintf(
		"On time: %d    Delayed: %d    On-time rate: %s",
		dp.OnTime, dp.Delayed, analytics.FormatPercent(onTimeRate),
	))
	b.Callout(fmt.Sprintf("Delivery rating: %s", analytics.RatingLabel(onTimeRate)))

	if len(dp.ByCategory) > 0 {
		stacked := make([]chart.StackedEntry, 0, len(dp.ByCategory))
		rows := make([][]string, 0, len(dp.ByCategory))
		for _, k := range sortedKeys(dp.ByCategory) {
			dc := dp.ByCategory[k]
			stacked = append(stacked, chart.StackedEntry{
				Label:  k,
				Bottom: float64(dc.Delayed),
				Top:    float64(dc.OnTime),
			})
			rows = append(rows, []string{
				k, strconv.Itoa(dc.OnTime), strconv.Itoa(dc.Delayed),
				analytics.FormatPercent(analytics.OnTimeRate(dc.OnTime, dc.Delayed)),
			})
		}
		png, err := chart.StackedBar(stacked, "Delayed", "On Time", chart.Options{Title: "Delivery by Category"})
		if err != nil {
			return err
		}
		b.Image(png, chartImgWidth, chartImgHeight)
		b.Table([]string{"Category", "On Time", "Delayed", "Rate"}, []float64{60, 40, 40, 40}, rows)
	}

	if len(dp.ByMachine) > 0 {
		rows := make([][]string, 0, len(dp.ByMachine))
		for _, k := range sortedKeys(dp.ByMachine) {
			dc := dp.ByMachine[k]
			rows = append(rows, []string{
				k, strconv.Itoa(dc.OnTime), strconv.Itoa(dc.Delayed),
				analytics.FormatPercent(analytics.OnTimeRate(dc.OnTime, dc.Delayed)),
			})
		}
		b.Table([]string{"Machine", "On Time", "Delayed", "Rate"}, []float64{60, 40, 40, 40}, rows)
	}
	return nil
}

func writeCustomerSection(b *PDFBuilder, ds *dataset, topN int) error {
	b.SectionHeader(fmt.Sprintf("Top %d Customers", topN))
	top := analytics.TopCustomers(ds.Molds, topN)

	png, err := chart.Bar(labelEntries(top), chart.Options{Title: "Molds per Customer"})
	if err != nil {
		return err
	}
	b.Image(png, chartImgWidth, chartImgHeight)

	rows := make([][]string, 0, len(top))
	for _, lc := range top {
		rows = append(rows, []string{lc.Label, strconv.Itoa(lc.Count)})
	}
	b.Table([]string{"Customer", "Molds"}, []float64{120, 60}, rows)
	return nil
}

func writeProcessSection(b *PDFBuilder, ds *dataset, topN int) error {
	b.SectionHeader("Process Performance")
	rate := analytics.ProcessCompletionRate(ds.Processes)
	b.Text(fmt.Sprintf(
		"Process completion rate: %s (%s)    Average duration: %s",
		analytics.FormatPercent(rate), analytics.Grade(rate), analytics.AverageProcessDuration(ds.Processes),
	))

	top := analytics.TopProcessTypes(ds.Processes, topN)
	png, err := chart.Bar(labelEntries(top), chart.Options{Title: "Most Frequent Process Types"})
	if err != nil {
		return err
	}
	b.Image(png, chartImgWidth, chartImgHeight)

	rows := make([][]string, 0, len(top))
	for _, lc := range top {
		rows = append(rows, []string{lc.Label, strconv.Itoa(lc.Count)})
	}
	b.Table([]string{"Process Type", "Count"}, []float64{120, 60}, rows)
	return nil
}

func writeWorkforceSection(b *PDFBuilder, ds *dataset) {
	b.SectionHeader("Workforce")
	roles := make([]string, 0, len(ds.Users))
	for _, u := range ds.Users {
		roles = append(roles, u.Role)
	}
	rows := make([][]string, 0, 4)
	for _, sc := range analytics.Distribution(roles) {
		rows = append(rows, []string{sc.Status, strconv.Itoa(sc.Count), analytics.FormatPercent(sc.Percent)})
	}
	b.Table([]string{"Role", "Users", "Share"}, []float64{80, 50, 50}, rows)
}
