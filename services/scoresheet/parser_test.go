package scoresheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ccschool/schooladmin/core/grading"
	"github.com/ccschool/schooladmin/core/student"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var header = []interface{}{"Student_ID", "Subject", "Class_Assignments", "Project", "Midterm", "End_Of_Term"}

func TestParse(t *testing.T) {
	buf := workbook(t,
		header,
		[]interface{}{"CCS2024001", "Mathematics", 19, 9, 19, 46},
		[]interface{}{},
		[]interface{}{"CCS2024002", "English Language", 18, 8, 18, 42},
		[]interface{}{"CCS2024003", "French", "", "", 10, 30},
	)

	entries, err := Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, []student.ScoreEntry{
		{StudentID: "CCS2024001", Subject: "Mathematics", Score: grading.SubjectScore{ClassAssignments: 19, Project: 9, Midterm: 19, EndOfTerm: 46}},
		{StudentID: "CCS2024002", Subject: "English Language", Score: grading.SubjectScore{ClassAssignments: 18, Project: 8, Midterm: 18, EndOfTerm: 42}},
		{StudentID: "CCS2024003", Subject: "French", Score: grading.SubjectScore{Midterm: 10, EndOfTerm: 30}},
	}, entries)
}

func TestParse_invalid(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]interface{}
		wantRow int
		wantErr string
	}{
		{name: "missing column", rows: [][]interface{}{{"student_id", "subject", "project"}}, wantErr: "missing required column: class_assignments"},
		{name: "no header", rows: nil, wantErr: "missing header row"},
		{name: "missing id", rows: [][]interface{}{header, {"", "Mathematics", 1, 1, 1, 1}}, wantRow: 2, wantErr: "student_id is required"},
		{name: "not a number", rows: [][]interface{}{header, {"CCS2024001", "Mathematics", "ten", 1, 1, 1}}, wantRow: 2, wantErr: "invalid class_assignments value: ten"},
		{name: "above maximum", rows: [][]interface{}{header, {"CCS2024001", "Mathematics", 1, 1, 1, 1}, {"CCS2024002", "Mathematics", 1, 11, 1, 1}}, wantRow: 3, wantErr: "project must be between 0 and 10, got 11"},
		{name: "negative", rows: [][]interface{}{header, {"CCS2024001", "Mathematics", 1, 1, -1, 1}}, wantRow: 2, wantErr: "midterm must be between 0 and 20, got -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(workbook(t, tt.rows...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var rowErr *RowError
			if tt.wantRow > 0 {
				require.True(t, errors.As(err, &rowErr))
				assert.Equal(t, tt.wantRow, rowErr.Row)
			} else {
				assert.Equal(t, ErrInvalidFileFormat, errors.Cause(err))
			}
		})
	}
}

func TestParse_notExcel(t *testing.T) {
	_, err := Parse(strings.NewReader("student_id,subject\n"))
	assert.Equal(t, ErrInvalidFileFormat, errors.Cause(err))
}
