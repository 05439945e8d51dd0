// Package grading turns raw subject scores into totals, letter grades and report cards.
package grading

import (
	"sort"

	"github.com/pkg/errors"
)

// Score fields, as entered on the class records sheet.
const (
	FieldClassAssignments = "classAssignments"
	FieldProject          = "project"
	FieldMidterm          = "midterm"
	FieldEndOfTerm        = "endOfTerm"
)

// PromotionStatus is recorded on the final term's record.
type PromotionStatus string

const (
	Promoted PromotionStatus = "Promoted"
	Repeated PromotionStatus = "Repeated"
)

var (
	ErrUnknownScoreField = errors.New("unknown score field")

	fieldMaxima = map[string]int{
		FieldClassAssignments: 20,
		FieldProject:          10,
		FieldMidterm:          20,
		FieldEndOfTerm:        50,
	}
)

type (
	// SubjectScore is one subject's marks for a term. Unset fields count as 0.
	SubjectScore struct {
		ClassAssignments int `json:"classAssignments"` // max 20
		Project          int `json:"project"`          // max 10
		Midterm          int `json:"midterm"`          // max 20
		EndOfTerm        int `json:"endOfTerm"`        // max 50
	}

	// GradeRecord is one student's record for one academic term.
	GradeRecord struct {
		Term               string                  `json:"term"`
		Subjects           map[string]SubjectScore `json:"subjects"`
		Average            float64                 `json:"average"`
		Position           int                     `json:"position"`
		TeacherComment     string                  `json:"teacher_comment,omitempty"`
		HeadteacherComment string                  `json:"headteacher_comment,omitempty"`
		PromotionStatus    PromotionStatus         `json:"promotion_status,omitempty"`
	}

	Grade struct {
		Grade   string `json:"grade"`
		Remarks string `json:"remarks"`
	}

	ReportRow struct {
		Subject    string `json:"subject"`
		CATotal    int    `json:"ca_total"`
		ExamTotal  int    `json:"exam_total"`
		FinalTotal int    `json:"final_total"`
		Grade
	}
)

func (s SubjectScore) CATotal() int    { return s.ClassAssignments + s.Project }
func (s SubjectScore) ExamTotal() int  { return s.Midterm + s.EndOfTerm }
func (s SubjectScore) FinalTotal() int { return s.CATotal() + s.ExamTotal() }

// Set overwrites a single score field. The value is not range checked.
func (s *SubjectScore) Set(field string, value int) error {
	switch field {
	case FieldClassAssignments:
		s.ClassAssignments = value
	case FieldProject:
		s.Project = value
	case FieldMidterm:
		s.Midterm = value
	case FieldEndOfTerm:
		s.EndOfTerm = value
	default:
		return ErrUnknownScoreField
	}
	return nil
}

// FieldMax returns the documented maximum of a score field.
func FieldMax(field string) (int, bool) {
	max, ok := fieldMaxima[field]
	return max, ok
}

// thresholds are evaluated top-down; the first match wins.
var thresholds = []struct {
	min int
	Grade
}{
	{80, Grade{"A1", "Excellent"}},
	{75, Grade{"B2", "Very Good"}},
	{70, Grade{"B3", "Good"}},
	{65, Grade{"C4", "Credit"}},
	{60, Grade{"C5", "Credit"}},
	{55, Grade{"C6", "Credit"}},
	{50, Grade{"D7", "Pass"}},
	{45, Grade{"E8", "Weak Pass"}},
}

var fail = Grade{"F9", "Fail"}

// Classify maps a final total to its grade. Out of range totals are not clamped.
func Classify(finalTotal int) Grade {
	for _, th := range thresholds {
		if finalTotal >= th.min {
			return th.Grade
		}
	}
	return fail
}

// SetScore overwrites one field of one subject, creating the subject if needed.
func (gr *GradeRecord) SetScore(subject, field string, value int) error {
	if gr.Subjects == nil {
		gr.Subjects = make(map[string]SubjectScore)
	}
	score := gr.Subjects[subject]
	if err := score.Set(field, value); err != nil {
		return err
	}
	gr.Subjects[subject] = score
	return nil
}

// Average is the mean final total across subjects, 0 without subjects.
func Average(gr GradeRecord) float64 {
	if len(gr.Subjects) == 0 {
		return 0
	}
	var total int
	for _, s := range gr.Subjects {
		total += s.FinalTotal()
	}
	return float64(total) / float64(len(gr.Subjects))
}

// ReportCard lists every subject with its totals and grade, sorted by subject.
func ReportCard(gr GradeRecord) []ReportRow {
	rows := make([]ReportRow, 0, len(gr.Subjects))
	for subject, s := range gr.Subjects {
		rows = append(rows, ReportRow{
			Subject:    subject,
			CATotal:    s.CATotal(),
			ExamTotal:  s.ExamTotal(),
			FinalTotal: s.FinalTotal(),
			Grade:      Classify(s.FinalTotal()),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Subject < rows[j].Subject })
	return rows
}

// Rank assigns competition positions ("1, 2, 2, 4") by descending average.
// `averages` is keyed by student; the result uses the same keys.
func Rank(averages map[string]float64) map[string]int {
	ids := make([]string, 0, len(averages))
	for id := range averages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if averages[ids[i]] != averages[ids[j]] {
			return averages[ids[i]] > averages[ids[j]]
		}
		return ids[i] < ids[j]
	})

	positions := make(map[string]int, len(ids))
	for i, id := range ids {
		if i > 0 && averages[id] == averages[ids[i-1]] {
			positions[id] = positions[ids[i-1]]
			continue
		}
		positions[id] = i + 1
	}
	return positions
}
