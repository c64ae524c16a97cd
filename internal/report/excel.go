package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Workbook assembles a multi-sheet spreadsheet from rows of heterogeneous
// cells. There are no formulas and no embedded chart objects; chart-ready
// blocks carry a row-range note instead so the user can build charts from
// the pre-aggregated data.
type Workbook struct {
	f           *excelize.File
	bannerStyle int
	titleStyle  int
	headerStyle int
	noteStyle   int
}

// bannerText is the visual section divider row, kept verbatim for
// compatibility with the original exports.
var bannerText = strings.Repeat("═", 48)

// NewWorkbook prepares an empty workbook with the shared cell styles.
func NewWorkbook() (*Workbook, error) {
	f := excelize.NewFile()
	w := &Workbook{f: f}

	var err error
	w.bannerStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10, Color: "1F3A5F"},
	})
	if err != nil {
		return nil, fmt.Errorf("banner style: %w", err)
	}
	w.titleStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13, Color: "1F3A5F"},
	})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	w.headerStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	w.noteStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Size: 9, Color: "808080"},
	})
	if err != nil {
		return nil, fmt.Errorf("note style: %w", err)
	}
	return w, nil
}

// AddSheet appends a named sheet with per-column width hints.
func (w *Workbook) AddSheet(name string, colWidths []float64) (*SheetWriter, error) {
	if _, err := w.f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("new sheet %q: %w", name, err)
	}
	for i, width := range colWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", i+1, err)
		}
		if err := w.f.SetColWidth(name, col, col, width); err != nil {
			return nil, fmt.Errorf("set width %s!%s: %w", name, col, err)
		}
	}
	return &SheetWriter{wb: w, name: name, row: 0}, nil
}

// Bytes finalizes the workbook, dropping the implicit default sheet.
func (w *Workbook) Bytes() ([]byte, error) {
	if err := w.f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	w.f.SetActiveSheet(0)
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SheetWriter appends rows top to bottom on one sheet.
type SheetWriter struct {
	wb   *Workbook
	name string
	row  int
}

// CurrentRow is the 1-based row number of the last written row.
func (s *SheetWriter) CurrentRow() int {
	return s.row
}

func (s *SheetWriter) writeRow(styleID int, cells []interface{}) error {
	s.row++
	cell := fmt.Sprintf("A%d", s.row)
	if err := s.wb.f.SetSheetRow(s.name, cell, &cells); err != nil {
		return fmt.Errorf("write %s!%s: %w", s.name, cell, err)
	}
	if styleID != 0 && len(cells) > 0 {
		end, err := excelize.ColumnNumberToName(len(cells))
		if err != nil {
			return fmt.Errorf("column %d: %w", len(cells), err)
		}
		if err := s.wb.f.SetCellStyle(s.name, cell, fmt.Sprintf("%s%d", end, s.row), styleID); err != nil {
			return fmt.Errorf("style %s!%s: %w", s.name, cell, err)
		}
	}
	return nil
}

// Banner writes the visual divider row.
func (s *SheetWriter) Banner() error {
	return s.writeRow(s.wb.bannerStyle, []interface{}{bannerText})
}

// Title writes a section title row.
func (s *SheetWriter) Title(text string) error {
	return s.writeRow(s.wb.titleStyle, []interface{}{text})
}

// Header writes a styled table header row.
func (s *SheetWriter) Header(cells ...interface{}) error {
	return s.writeRow(s.wb.headerStyle, cells)
}

// Row writes a plain data row.
func (s *SheetWriter) Row(cells ...interface{}) error {
	return s.writeRow(0, cells)
}

// Blank writes an empty separator row.
func (s *SheetWriter) Blank() error {
	s.row++
	return nil
}

// Note writes a row-range hint for building a chart by hand.
func (s *SheetWriter) Note(text string) error {
	return s.writeRow(s.wb.noteStyle, []interface{}{text})
}
