package analytics

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/entity"
)

func moldsWithStatuses(statuses ...string) []entity.Mold {
	molds := make([]entity.Mold, len(statuses))
	for i, s := range statuses {
		molds[i] = entity.Mold{ID: string(rune('a' + i)), Status: s}
	}
	return molds
}

func TestMoldStatusDistribution(t *testing.T) {
	statuses := []string{
		"completed", "completed", "Completed", "COMPLETED", "completed", "completed",
		"ongoing", "ongoing", "ongoing",
		"pending",
	}
	dist := MoldStatusDistribution(moldsWithStatuses(statuses...))

	want := []StatusCount{
		{Status: "completed", Count: 6, Percent: 60},
		{Status: "ongoing", Count: 3, Percent: 30},
		{Status: "pending", Count: 1, Percent: 10},
	}
	if !reflect.DeepEqual(dist, want) {
		t.Fatalf("distribution = %+v, want %+v", dist, want)
	}
	if got := FormatPercent(dist[0].Percent); got != "60.0%" {
		t.Errorf("FormatPercent = %q, want 60.0%%", got)
	}
}

func TestDistributionPercentagesSumTo100(t *testing.T) {
	dist := Distribution([]string{"a", "b", "b", "c", "c", "c", "d"})
	var sum float64
	for _, sc := range dist {
		sum += sc.Percent
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Fatalf("percentages sum to %v, want 100", sum)
	}
}

func TestDistributionEmptyInput(t *testing.T) {
	if dist := Distribution(nil); len(dist) != 0 {
		t.Fatalf("distribution of empty input = %+v, want empty", dist)
	}
	// Zero-count labels still render 0%, never NaN.
	for _, sc := range Distribution([]string{}) {
		if math.IsNaN(sc.Percent) {
			t.Fatal("NaN percentage on empty input")
		}
	}
}

func TestDistributionDeterministic(t *testing.T) {
	labels := []string{"ongoing", "completed", "ongoing", "pending", "completed", "completed"}
	first := Distribution(labels)
	second := Distribution(labels)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input produced different outputs:\n%+v\n%+v", first, second)
	}
}

func TestMonthlyTrendAscendingAndComplete(t *testing.T) {
	date := func(s string) *time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		return &d
	}
	molds := []entity.Mold{
		{CreatedDate: date("2026-03-15")},
		{CreatedDate: date("2026-01-02")},
		{CreatedDate: date("2026-03-01")},
		{CreatedDate: nil},
		{CreatedDate: date("2025-12-31")},
	}
	trend := MonthlyTrend(molds)
	want := []MonthCount{
		{Month: "2025-12", Count: 1},
		{Month: "2026-01", Count: 1},
		{Month: "2026-03", Count: 2},
	}
	if !reflect.DeepEqual(trend, want) {
		t.Fatalf("trend = %+v, want %+v", trend, want)
	}

	total := 0
	for _, mc := range trend {
		total += mc.Count
	}
	if total != 4 {
		t.Errorf("dated molds counted %d times, want 4", total)
	}
}

func TestTopN(t *testing.T) {
	labels := []string{"acme", "bravo", "acme", "cirrus", "bravo", "acme", "", "delta"}
	top := TopN(labels, 3)
	want := []LabelCount{
		{Label: "acme", Count: 3},
		{Label: "bravo", Count: 2},
		{Label: "cirrus", Count: 1}, // tie with delta broken by first encounter
	}
	if !reflect.DeepEqual(top, want) {
		t.Fatalf("top = %+v, want %+v", top, want)
	}

	if got := TopN([]string{"x", "y"}, 5); len(got) != 2 {
		t.Errorf("len(TopN) = %d, want min(n, distinct) = 2", len(got))
	}
}

func TestRateZeroGuard(t *testing.T) {
	if got := ProcessCompletionRate(nil); got != 0 {
		t.Errorf("ProcessCompletionRate(nil) = %v, want 0", got)
	}
	if got := FormatPercent(ProcessCompletionRate(nil)); got != "0.0%" {
		t.Errorf("formatted empty rate = %q, want 0.0%%", got)
	}
	if got := OnTimeRate(0, 0); got != 0 {
		t.Errorf("OnTimeRate(0,0) = %v, want 0", got)
	}
}

func TestOnTimeRateAndRating(t *testing.T) {
	rate := OnTimeRate(18, 2)
	if got := FormatPercent(rate); got != "90.0%" {
		t.Errorf("on-time rate = %q, want 90.0%%", got)
	}
	if got := RatingLabel(rate); got != "Excellent" {
		t.Errorf("rating = %q, want Excellent", got)
	}
}

func TestGradeThresholds(t *testing.T) {
	cases := []struct {
		rate float64
		want string
	}{
		{96, "A+"}, {95, "A+"}, {94.9, "A"}, {85, "A"}, {80, "B"}, {75, "B"}, {70, "C"}, {65, "C"}, {64.9, "D"}, {0, "D"},
	}
	for _, tc := range cases {
		if got := Grade(tc.rate); got != tc.want {
			t.Errorf("Grade(%v) = %q, want %q", tc.rate, got, tc.want)
		}
	}
}

func TestDurationLabel(t *testing.T) {
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	twoHours := start.Add(2 * time.Hour)
	if got := DurationLabel(&start, &twoHours); got != "2h" {
		t.Errorf("2h duration = %q, want 2h", got)
	}

	ninetyMinutes := start.Add(90 * time.Minute)
	if got := DurationLabel(&start, &ninetyMinutes); got != "1h 30m" {
		t.Errorf("90m duration = %q, want 1h 30m", got)
	}

	halfHour := start.Add(30 * time.Minute)
	if got := DurationLabel(&start, &halfHour); got != "30m" {
		t.Errorf("30m duration = %q, want 30m", got)
	}

	if got := DurationLabel(&start, nil); got != "Ongoing" {
		t.Errorf("open duration = %q, want Ongoing", got)
	}
}

func TestAverageProcessDuration(t *testing.T) {
	start := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	oneHour := start.Add(1 * time.Hour)
	threeHours := start.Add(3 * time.Hour)
	processes := []entity.Process{
		{StartedAt: &start, FinishedAt: &oneHour},
		{StartedAt: &start, FinishedAt: &threeHours},
		{StartedAt: &start}, // ongoing, excluded
	}
	if got := AverageProcessDuration(processes); got != "2h" {
		t.Errorf("average duration = %q, want 2h", got)
	}
	if got := AverageProcessDuration(nil); got != "N/A" {
		t.Errorf("average of none = %q, want N/A", got)
	}
}
