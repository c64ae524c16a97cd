package entity

import "strings"

// Backend payloads are tolerated rather than validated: statuses arrive in
// mixed case and analytics sections may be missing entirely. Everything is
// brought into canonical shape here, once, so the aggregation code never has
// to guard individual fields.

// NormalizeStatus canonicalizes a status label for grouping.
func NormalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeMolds returns a copy of molds with canonical status labels.
func NormalizeMolds(molds []Mold) []Mold {
	out := make([]Mold, len(molds))
	for i, m := range molds {
		m.Status = NormalizeStatus(m.Status)
		m.Customer = strings.TrimSpace(m.Customer)
		out[i] = m
	}
	return out
}

// NormalizeProcesses returns a copy of processes with canonical status labels.
func NormalizeProcesses(processes []Process) []Process {
	out := make([]Process, len(processes))
	for i, p := range processes {
		p.Status = NormalizeStatus(p.Status)
		out[i] = p
	}
	return out
}

// NormalizeTools returns a copy of tools with canonical status labels.
func NormalizeTools(tools []Tool) []Tool {
	out := make([]Tool, len(tools))
	for i, t := range tools {
		t.Status = NormalizeStatus(t.Status)
		out[i] = t
	}
	return out
}

// Normalized returns the snapshot with every optional member substituted,
// so callers can index the breakdown maps without nil checks.
func (s *AnalyticsSnapshot) Normalized() AnalyticsSnapshot {
	if s == nil {
		return AnalyticsSnapshot{
			CategoryBreakdown:   map[string]int{},
			DeliveryPerformance: &DeliveryPerformance{ByCategory: map[string]DeliveryCounts{}, ByMachine: map[string]DeliveryCounts{}},
		}
	}
	out := *s
	if out.CategoryBreakdown == nil {
		out.CategoryBreakdown = map[string]int{}
	}
	if out.DeliveryPerformance == nil {
		out.DeliveryPerformance = &DeliveryPerformance{}
	} else {
		dp := *out.DeliveryPerformance
		out.DeliveryPerformance = &dp
	}
	if out.DeliveryPerformance.ByCategory == nil {
		out.DeliveryPerformance.ByCategory = map[string]DeliveryCounts{}
	}
	if out.DeliveryPerformance.ByMachine == nil {
		out.DeliveryPerformance.ByMachine = map[string]DeliveryCounts{}
	}
	return out
}
