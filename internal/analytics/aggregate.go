// Package analytics derives the report datasets from raw TTMS records.
// Every function here is a pure transform: no I/O, no mutation of inputs,
// deterministic output order for identical input order.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/entity"
)

// LabelCount is one row of a grouped count.
type LabelCount struct {
	Label string
	Count int
}

// StatusCount is one row of a status distribution.
type StatusCount struct {
	Status  string
	Count   int
	Percent float64
}

// Distribution groups labels by value and returns counts plus percentages,
// sorted descending by count with ties kept in first-encountered order.
// A zero total yields zero percentages, never NaN.
func Distribution(labels []string) []StatusCount {
	index := make(map[string]int, len(labels))
	var out []StatusCount
	for _, l := range labels {
		if i, ok := index[l]; ok {
			out[i].Count++
			continue
		}
		index[l] = len(out)
		out = append(out, StatusCount{Status: l})
	}
	total := len(labels)
	for i := range out {
		if total > 0 {
			out[i].Percent = float64(out[i].Count) / float64(total) * 100
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// MoldStatusDistribution groups molds by canonical status.
func MoldStatusDistribution(molds []entity.Mold) []StatusCount {
	labels := make([]string, 0, len(molds))
	for _, m := range molds {
		labels = append(labels, entity.NormalizeStatus(m.Status))
	}
	return Distribution(labels)
}

// ToolStatusDistribution groups tools by canonical status.
func ToolStatusDistribution(tools []entity.Tool) []StatusCount {
	labels := make([]string, 0, len(tools))
	for _, t := range tools {
		labels = append(labels, entity.NormalizeStatus(t.Status))
	}
	return Distribution(labels)
}

// MonthCount is one bucket of a monthly trend.
type MonthCount struct {
	Month string // YYYY-MM
	Count int
}

// MonthlyTrend buckets molds by the YYYY-MM of their created date, ascending
// by month key. Molds without a created date are skipped.
func MonthlyTrend(molds []entity.Mold) []MonthCount {
	counts := make(map[string]int)
	for _, m := range molds {
		if m.CreatedDate == nil {
			continue
		}
		counts[m.CreatedDate.Format("2006-01")]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]MonthCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, MonthCount{Month: k, Count: counts[k]})
	}
	return out
}

// TopN groups labels by value and returns the n largest groups, descending
// by count, ties in first-encountered order. Empty labels are skipped.
func TopN(labels []string, n int) []LabelCount {
	index := make(map[string]int, len(labels))
	var out []LabelCount
	for _, l := range labels {
		if l == "" {
			continue
		}
		if i, ok := index[l]; ok {
			out[i].Count++
			continue
		}
		index[l] = len(out)
		out = append(out, LabelCount{Label: l, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// TopCustomers ranks customers by mold count.
func TopCustomers(molds []entity.Mold, n int) []LabelCount {
	labels := make([]string, 0, len(molds))
	for _, m := range molds {
		labels = append(labels, m.Customer)
	}
	return TopN(labels, n)
}

// TopProcessTypes ranks process types by occurrence.
func TopProcessTypes(processes []entity.Process, n int) []LabelCount {
	labels := make([]string, 0, len(processes))
	for _, p := range processes {
		labels = append(labels, p.ProcessType)
	}
	return TopN(labels, n)
}

// TopMachines ranks machines by process count.
func TopMachines(processes []entity.Process, n int) []LabelCount {
	labels := make([]string, 0, len(processes))
	for _, p := range processes {
		labels = append(labels, p.Machine)
	}
	return TopN(labels, n)
}

// Rate returns part/total as a percentage, 0 when total is 0.
func Rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// CompletionRate is the percentage of molds in completed status.
func CompletionRate(molds []entity.Mold) float64 {
	completed := 0
	for _, m := range molds {
		if entity.NormalizeStatus(m.Status) == entity.MoldStatusCompleted {
			completed++
		}
	}
	return Rate(completed, len(molds))
}

// ProcessCompletionRate is the percentage of processes in completed status.
func ProcessCompletionRate(processes []entity.Process) float64 {
	completed := 0
	for _, p := range processes {
		if entity.NormalizeStatus(p.Status) == "completed" {
			completed++
		}
	}
	return Rate(completed, len(processes))
}

// OnTimeRate is onTime / (onTime + delayed) as a percentage, 0 when both are 0.
func OnTimeRate(onTime, delayed int) float64 {
	return Rate(onTime, onTime+delayed)
}

// FormatPercent renders a rate with one decimal, e.g. "60.0%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Grade maps a success rate to a letter grade.
func Grade(rate float64) string {
	switch {
	case rate >= 95:
		return "A+"
	case rate >= 85:
		return "A"
	case rate >= 75:
		return "B"
	case rate >= 65:
		return "C"
	default:
		return "D"
	}
}

// RatingLabel maps a success rate to a human rating.
func RatingLabel(rate float64) string {
	switch {
	case rate >= 90:
		return "Excellent"
	case rate >= 75:
		return "Good"
	case rate >= 60:
		return "Fair"
	default:
		return "Needs Improvement"
	}
}

// DurationLabel renders the elapsed time between two process timestamps.
// A process without a finish timestamp is reported as "Ongoing".
func DurationLabel(startedAt, finishedAt *time.Time) string {
	if startedAt == nil || finishedAt == nil {
		return "Ongoing"
	}
	d := finishedAt.Sub(*startedAt)
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	switch {
	case hours > 0 && minutes > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// AverageProcessDuration averages the duration of finished processes and
// renders it with DurationLabel formatting. "N/A" when none have finished.
func AverageProcessDuration(processes []entity.Process) string {
	var total time.Duration
	finished := 0
	for _, p := range processes {
		if p.StartedAt == nil || p.FinishedAt == nil {
			continue
		}
		d := p.FinishedAt.Sub(*p.StartedAt)
		if d < 0 {
			continue
		}
		total += d
		finished++
	}
	if finished == 0 {
		return "N/A"
	}
	avg := total / time.Duration(finished)
	start := time.Unix(0, 0)
	end := start.Add(avg)
	return DurationLabel(&start, &end)
}
