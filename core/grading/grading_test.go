package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		total int
		want  Grade
	}{
		{total: 100, want: Grade{"A1", "Excellent"}},
		{total: 86, want: Grade{"A1", "Excellent"}},
		{total: 80, want: Grade{"A1", "Excellent"}},
		{total: 79, want: Grade{"B2", "Very Good"}},
		{total: 75, want: Grade{"B2", "Very Good"}},
		{total: 74, want: Grade{"B3", "Good"}},
		{total: 70, want: Grade{"B3", "Good"}},
		{total: 65, want: Grade{"C4", "Credit"}},
		{total: 60, want: Grade{"C5", "Credit"}},
		{total: 55, want: Grade{"C6", "Credit"}},
		{total: 54, want: Grade{"D7", "Pass"}},
		{total: 50, want: Grade{"D7", "Pass"}},
		{total: 45, want: Grade{"E8", "Weak Pass"}},
		{total: 44, want: Grade{"F9", "Fail"}},
		{total: 0, want: Grade{"F9", "Fail"}},
		// not clamped
		{total: 130, want: Grade{"A1", "Excellent"}},
		{total: -5, want: Grade{"F9", "Fail"}},
	}
	for _, tt := range tests {
		if got := Classify(tt.total); got != tt.want {
			t.Errorf("Classify(%d) = %v, want %v", tt.total, got, tt.want)
		}
	}
}

func TestSubjectScore_totals(t *testing.T) {
	s := SubjectScore{ClassAssignments: 18, Project: 8, Midterm: 18, EndOfTerm: 42}
	assert.Equal(t, 26, s.CATotal())
	assert.Equal(t, 60, s.ExamTotal())
	assert.Equal(t, 86, s.FinalTotal())
	assert.Equal(t, Grade{"A1", "Excellent"}, Classify(s.FinalTotal()))

	assert.Equal(t, 0, SubjectScore{}.FinalTotal())
}

func TestGradeRecord_SetScore(t *testing.T) {
	var gr GradeRecord
	require.NoError(t, gr.SetScore("Mathematics", FieldMidterm, 15))
	require.NoError(t, gr.SetScore("Mathematics", FieldMidterm, 17))
	require.NoError(t, gr.SetScore("Mathematics", FieldProject, 9))
	require.NoError(t, gr.SetScore("French", FieldEndOfTerm, 51)) // not range checked

	assert.Equal(t, SubjectScore{Project: 9, Midterm: 17}, gr.Subjects["Mathematics"])
	assert.Equal(t, SubjectScore{EndOfTerm: 51}, gr.Subjects["French"])

	err := gr.SetScore("Mathematics", "homework", 3)
	assert.Equal(t, ErrUnknownScoreField, err)
}

func TestFieldMax(t *testing.T) {
	for field, want := range map[string]int{
		FieldClassAssignments: 20,
		FieldProject:          10,
		FieldMidterm:          20,
		FieldEndOfTerm:        50,
	} {
		got, ok := FieldMax(field)
		assert.True(t, ok, field)
		assert.Equal(t, want, got, field)
	}
	_, ok := FieldMax("homework")
	assert.False(t, ok)
}

func TestAverageAndReportCard(t *testing.T) {
	gr := GradeRecord{
		Term: "First Term",
		Subjects: map[string]SubjectScore{
			"Mathematics":      {ClassAssignments: 19, Project: 9, Midterm: 19, EndOfTerm: 46},
			"English Language": {ClassAssignments: 18, Project: 8, Midterm: 18, EndOfTerm: 42},
			"French":           {Midterm: 10, EndOfTerm: 30},
		},
	}
	assert.InDelta(t, (93.0+86.0+40.0)/3, Average(gr), 1e-9)
	assert.Equal(t, float64(0), Average(GradeRecord{}))

	rows := ReportCard(gr)
	require.Len(t, rows, 3)
	assert.Equal(t, ReportRow{Subject: "English Language", CATotal: 26, ExamTotal: 60, FinalTotal: 86, Grade: Grade{"A1", "Excellent"}}, rows[0])
	assert.Equal(t, ReportRow{Subject: "French", CATotal: 0, ExamTotal: 40, FinalTotal: 40, Grade: Grade{"F9", "Fail"}}, rows[1])
	assert.Equal(t, "Mathematics", rows[2].Subject)
	assert.Equal(t, 93, rows[2].FinalTotal)
}

func TestRank(t *testing.T) {
	got := Rank(map[string]float64{
		"CCS2024001": 71.5,
		"CCS2024002": 89,
		"CCS2024003": 71.5,
		"CCS2024004": 60,
	})
	assert.Equal(t, map[string]int{
		"CCS2024002": 1,
		"CCS2024001": 2,
		"CCS2024003": 2,
		"CCS2024004": 4,
	}, got)
	assert.Empty(t, Rank(nil))
}
