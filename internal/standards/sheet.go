// Package standards reads the curriculum standards workbook. The
// workbook carries one sheet per grade; each data row holds the unit
// name, the standards text, and the "students will do" text. Looked-up
// values prefill the generation request the same way a user would paste
// them by hand.
package standards

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Entry is the prefill text for one grade and unit.
type Entry struct {
	Standards string
	WillDo    string
}

// NotFoundError indicates the workbook has no row for the grade/unit.
type NotFoundError struct {
	Grade string
	Unit  string
}

func (e *NotFoundError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("standards workbook has no sheet for %q", e.Grade)
	}
	return fmt.Sprintf("standards workbook has no row for %s / %s", e.Grade, e.Unit)
}

// Workbook is an open standards workbook.
type Workbook struct {
	f *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening standards workbook: %w", err)
	}
	return &Workbook{f: f}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Grades returns the sheet names, one per grade, in workbook order.
func (w *Workbook) Grades() []string {
	return w.f.GetSheetList()
}

// Units returns the unit names on the grade's sheet, skipping the
// header row.
func (w *Workbook) Units(grade string) ([]string, error) {
	rows, err := w.gradeRows(grade)
	if err != nil {
		return nil, err
	}
	var units []string
	for _, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		units = append(units, strings.TrimSpace(row[0]))
	}
	return units, nil
}

// Lookup returns the standards and will-do text for a grade and unit.
// Unit matching ignores case and surrounding whitespace.
func (w *Workbook) Lookup(grade, unit string) (Entry, error) {
	rows, err := w.gradeRows(grade)
	if err != nil {
		return Entry{}, err
	}

	want := strings.ToLower(strings.TrimSpace(unit))
	for _, row := range rows {
		if len(row) == 0 || strings.ToLower(strings.TrimSpace(row[0])) != want {
			continue
		}
		var e Entry
		if len(row) > 1 {
			e.Standards = strings.TrimSpace(row[1])
		}
		if len(row) > 2 {
			e.WillDo = strings.TrimSpace(row[2])
		}
		return e, nil
	}
	return Entry{}, &NotFoundError{Grade: grade, Unit: unit}
}

// gradeRows returns the grade sheet's data rows with the header
// stripped.
func (w *Workbook) gradeRows(grade string) ([][]string, error) {
	rows, err := w.f.GetRows(grade)
	if err != nil {
		return nil, &NotFoundError{Grade: grade}
	}
	if len(rows) > 0 {
		rows = rows[1:]
	}
	return rows, nil
}
