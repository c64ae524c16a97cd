package report

import (
	"fmt"
	"time"

	"github.com/TTMS-DilumCA/ttms-reporting/internal/analytics"
)

// Sheet names of the BI workbook. The set is fixed: consumers of the old
// front-end export rely on exactly these three sheets.
const (
	sheetDashboard = "Executive Dashboard"
	sheetAnalytics = "Analytics Data"
	sheetAllData   = "All Data"
)

func fmtDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// buildBIWorkbook assembles the 3-sheet BI report from pre-fetched datasets.
func buildBIWorkbook(ds *dataset, generatedAt time.Time, topN int) ([]byte, error) {
	wb, err := NewWorkbook()
	if err != nil {
		return nil, err
	}
	if err := writeDashboardSheet(wb, ds, generatedAt); err != nil {
		return nil, err
	}
	if err := writeAnalyticsSheet(wb, ds, topN); err != nil {
		return nil, err
	}
	if err := writeAllDataSheet(wb, ds); err != nil {
		return nil, err
	}
	return wb.Bytes()
}

func writeDashboardSheet(wb *Workbook, ds *dataset, generatedAt time.Time) error {
	s, err := wb.AddSheet(sheetDashboard, []float64{36, 20, 16})
	if err != nil {
		return err
	}

	moldRate := analytics.CompletionRate(ds.Molds)
	processRate := analytics.ProcessCompletionRate(ds.Processes)

	steps := []func() error{
		s.Banner,
		func() error { return s.Title("TTMS Executive Dashboard") },
		func() error { return s.Row("Generated", generatedAt.Format("2006-01-02 15:04")) },
		s.Banner,
		s.Blank,
		func() error { return s.Header("Metric", "Value", "Grade") },
		func() error { return s.Row("Total Molds", len(ds.Molds)) },
		func() error {
			return s.Row("Mold Completion Rate", analytics.FormatPercent(moldRate), analytics.Grade(moldRate))
		},
		func() error { return s.Row("Total Processes", len(ds.Processes)) },
		func() error {
			return s.Row("Process Completion Rate", analytics.FormatPercent(processRate), analytics.Grade(processRate))
		},
		func() error { return s.Row("Avg Process Duration", analytics.AverageProcessDuration(ds.Processes)) },
		func() error { return s.Row("Internal Users", len(ds.Users)) },
		func() error { return s.Row("Customers", len(ds.Customers)) },
		func() error { return s.Row("Tool Requests", len(ds.Tools)) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

// writeCountBlock writes one titled label/count block with an optional
// percentage column and a row-range note for manual charting.
func writeCountBlock(s *SheetWriter, title, labelHeader, chartKind string, rows func() error) error {
	if err := s.Banner(); err != nil {
		return err
	}
	if err := s.Title(title); err != nil {
		return err
	}
	start := s.CurrentRow() + 2
	if err := s.Header(labelHeader, "Count", "Percentage"); err != nil {
		return err
	}
	if err := rows(); err != nil {
		return err
	}
	end := s.CurrentRow()
	if end >= start {
		if err := s.Note(fmt.Sprintf("Rows %d-%d: source data for a %s chart", start, end, chartKind)); err != nil {
			return err
		}
	}
	return s.Blank()
}

func writeAnalyticsSheet(wb *Workbook, ds *dataset, topN int) error {
	s, err := wb.AddSheet(sheetAnalytics, []float64{30, 12, 14})
	if err != nil {
		return err
	}

	if err := writeCountBlock(s, "Mold Status Distribution", "Status", "pie", func() error {
		for _, sc := range analytics.MoldStatusDistribution(ds.Molds) {
			if err := s.Row(sc.Status, sc.Count, analytics.FormatPercent(sc.Percent)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := writeCountBlock(s, "Mold Category Breakdown", "Category", "donut", func() error {
		labels := make([]string, 0, len(ds.Molds))
		for _, m := range ds.Molds {
			labels = append(labels, m.Category)
		}
		for _, sc := range analytics.Distribution(labels) {
			if err := s.Row(sc.Status, sc.Count, analytics.FormatPercent(sc.Percent)); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := writeCountBlock(s, "Monthly Mold Trend", "Month", "line", func() error {
		for _, mc := range analytics.MonthlyTrend(ds.Molds) {
			if err := s.Row(mc.Month, mc.Count, ""); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := writeCountBlock(s, fmt.Sprintf("Top %d Customers", topN), "Customer", "bar", func() error {
		for _, lc := range analytics.TopCustomers(ds.Molds, topN) {
			if err := s.Row(lc.Label, lc.Count, ""); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	if err := writeCountBlock(s, fmt.Sprintf("Top %d Process Types", topN), "Process Type", "bar", func() error {
		for _, lc := range analytics.TopProcessTypes(ds.Processes, topN) {
			if err := s.Row(lc.Label, lc.Count, ""); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return writeCountBlock(s, "Tool Request Status", "Status", "pie", func() error {
		for _, sc := range analytics.ToolStatusDistribution(ds.Tools) {
			if err := s.Row(sc.Status, sc.Count, analytics.FormatPercent(sc.Percent)); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeAllDataSheet(wb *Workbook, ds *dataset) error {
	s, err := wb.AddSheet(sheetAllData, []float64{20, 22, 14, 14, 14, 14, 14, 14})
	if err != nil {
		return err
	}

	section := func(title string, header []interface{}, rows func() error) error {
		if err := s.Banner(); err != nil {
			return err
		}
		if err := s.Title(title); err != nil {
			return err
		}
		if err := s.Header(header...); err != nil {
			return err
		}
		if err := rows(); err != nil {
			return err
		}
		return s.Blank()
	}

	if err := section("Molds",
		[]interface{}{"Mold No", "Customer", "Status", "Category", "Created", "Target Delivery", "Completed", "Machine"},
		func() error {
			for _, m := range ds.Molds {
				if err := s.Row(m.MoldNo, m.Customer, m.Status, m.Category,
					fmtDate(m.CreatedDate), fmtDate(m.TargetDeliveryDate), fmtDate(m.CompletedDate), m.Machine); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
		return err
	}

	if err := section("Processes",
		[]interface{}{"Process Type", "Mold No", "Status", "Machine", "Operator", "Started", "Finished", "Duration"},
		func() error {
			for _, p := range ds.Processes {
				if err := s.Row(p.ProcessType, p.MoldNo, p.Status, p.Machine, p.Operator,
					fmtDate(p.StartedAt), fmtDate(p.FinishedAt), analytics.DurationLabel(p.StartedAt, p.FinishedAt)); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
		return err
	}

	if err := section("Users",
		[]interface{}{"Name", "Email", "Role", "EPF No", "Status"},
		func() error {
			for _, u := range ds.Users {
				name := u.FullName
				if name == "" {
					name = u.FirstName + " " + u.LastName
				}
				if err := s.Row(name, u.Email, u.Role, u.EPFNo, u.Status); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
		return err
	}

	if err := section("Customers",
		[]interface{}{"Full Name", "Company", "Email", "Contact", "Address"},
		func() error {
			for _, c := range ds.Customers {
				if err := s.Row(c.FullName, c.Company, c.Email, c.ContactNumber, c.Address); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
		return err
	}

	return section("Tools",
		[]interface{}{"Tool No", "Amount", "Status", "Crafter", "Created"},
		func() error {
			for _, t := range ds.Tools {
				if err := s.Row(t.ToolNo, t.Amount, t.Status, t.CrafterName, fmtDate(t.CreatedAt)); err != nil {
					return err
				}
			}
			return nil
		})
}
