// Package ident derives human readable record identifiers: student IDs scoped by
// enrolment year and staff numbers scoped by staff category.
//
// The functions here only count; they never reserve. Two callers holding the same
// snapshot compute the same identifier, so assignment must happen inside the
// store's write critical section.
package ident

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// StaffCategory determines the staff number code.
type StaffCategory string

const (
	Teaching              StaffCategory = "Teaching"
	Administration        StaffCategory = "Administration"
	ProfessionalSupport   StaffCategory = "ProfessionalSupport"
	MaintenanceOperations StaffCategory = "MaintenanceOperations"
)

var (
	StaffCategories = []StaffCategory{Teaching, Administration, ProfessionalSupport, MaintenanceOperations}

	categoryCodes = map[StaffCategory]string{
		Teaching:              "T",
		Administration:        "A",
		ProfessionalSupport:   "P",
		MaintenanceOperations: "M",
	}

	// errors
	ErrInvalidDate     = errors.New("invalid date")
	ErrUnknownCategory = errors.New("unknown staff category")

	dateLayouts = []string{"2006-01-02", time.RFC3339, "2006/01/02", "2006-1-2", "2006-01-02T15:04:05"}
)

// InvalidDateError reports an enrolment date without a usable year.
type InvalidDateError struct {
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %q", e.Value)
}

func (e *InvalidDateError) Is(target error) bool { return target == ErrInvalidDate }

func (c StaffCategory) Code() (string, bool) {
	code, ok := categoryCodes[c]
	return code, ok
}

func (c StaffCategory) IsValid() bool {
	_, ok := categoryCodes[c]
	return ok
}

// Year extracts the calendar year of a date string.
func Year(date string) (int, error) {
	date = strings.TrimSpace(date)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t.Year(), nil
		}
	}
	return 0, &InvalidDateError{Value: date}
}

// CountInYear counts the dates falling in `year`; unparseable dates are skipped.
func CountInYear(year int, dates []string) int {
	var n int
	for _, d := range dates {
		if y, err := Year(d); err == nil && y == year {
			n++
		}
	}
	return n
}

// FormatStudentID renders e.g. "CCS" 2024 1 as "CCS2024001".
func FormatStudentID(prefix string, year, seq int) string {
	return fmt.Sprintf("%s%d%03d", prefix, year, seq)
}

// NextStudentID computes the next student ID for an enrolment date given the enrolment
// dates of the existing students.
func NextStudentID(prefix, enrolmentDate string, existing []string) (string, error) {
	year, err := Year(enrolmentDate)
	if err != nil {
		return "", err
	}
	return FormatStudentID(prefix, year, CountInYear(year, existing)+1), nil
}

// FormatStaffNumber renders e.g. "CCS" "T" 4 as "CCS/T/004".
func FormatStaffNumber(prefix, code string, seq int) string {
	return fmt.Sprintf("%s/%s/%03d", prefix, code, seq)
}

// NextStaffNumber computes the next staff number of a category from its current head count.
func NextStaffNumber(prefix string, category StaffCategory, existingInCategory int) (string, error) {
	code, ok := category.Code()
	if !ok {
		return "", ErrUnknownCategory
	}
	return FormatStaffNumber(prefix, code, existingInCategory+1), nil
}
