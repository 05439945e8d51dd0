// Package scoresheet reads term scores from an Excel workbook.
//
// The first sheet must start with a header row naming the columns student_id, subject,
// class_assignments, project, midterm and end_of_term (any order, case-insensitive).
package scoresheet

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/ccschool/schooladmin/core/grading"
	"github.com/ccschool/schooladmin/core/student"
)

var (
	ErrInvalidFileFormat = errors.New("invalid score sheet")

	requiredColumns = []string{"student_id", "subject", "class_assignments", "project", "midterm", "end_of_term"}

	scoreColumns = map[string]string{
		"class_assignments": grading.FieldClassAssignments,
		"project":           grading.FieldProject,
		"midterm":           grading.FieldMidterm,
		"end_of_term":       grading.FieldEndOfTerm,
	}
)

// RowError reports an invalid row; Row is the 1-based spreadsheet row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return "row " + strconv.Itoa(e.Row) + ": " + e.Err.Error() }
func (e *RowError) Unwrap() error { return e.Err }

// Parse reads every data row of the first sheet. Blank rows are skipped.
func Parse(r io.Reader) ([]student.ScoreEntry, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidFileFormat, err.Error())
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrInvalidFileFormat
	}
	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrap(err, "reading rows")
	}
	if len(rows) < 1 {
		return nil, errors.Wrap(ErrInvalidFileFormat, "missing header row")
	}

	columnMap := make(map[string]int)
	for i, col := range rows[0] {
		columnMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return nil, errors.Wrapf(ErrInvalidFileFormat, "missing required column: %s", col)
		}
	}

	entries := make([]student.ScoreEntry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		entry, err := parseRow(row, columnMap)
		if err != nil {
			return nil, &RowError{Row: i + 2, Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseRow(row []string, columnMap map[string]int) (student.ScoreEntry, error) {
	getValue := func(colName string) string {
		if idx, exists := columnMap[colName]; exists && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	entry := student.ScoreEntry{
		StudentID: getValue("student_id"),
		Subject:   getValue("subject"),
	}
	if entry.StudentID == "" {
		return entry, errors.New("student_id is required")
	}
	if entry.Subject == "" {
		return entry, errors.New("subject is required")
	}

	for _, col := range requiredColumns[2:] {
		field := scoreColumns[col]
		value := 0 // blank cells count as 0
		if raw := getValue(col); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return entry, errors.Errorf("invalid %s value: %s", col, raw)
			}
			value = v
		}
		if max, _ := grading.FieldMax(field); value < 0 || value > max {
			return entry, errors.Errorf("%s must be between 0 and %d, got %d", col, max, value)
		}
		_ = entry.Score.Set(field, value)
	}
	return entry, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
