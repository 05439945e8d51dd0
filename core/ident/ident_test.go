package ident

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextStudentID(t *testing.T) {
	fiveIn2024 := []string{"2024-01-15", "2024-01-15", "2024-09-01", "2024-12-31", "2024-03-01"}
	mixed := append([]string{"2023-09-01", "2025-01-10", "2023-01-15", "not a date", ""}, fiveIn2024...)

	tests := []struct {
		name     string
		date     string
		existing []string
		want     string
		wantErr  bool
	}{
		{name: "first of the year", date: "2024-03-01", want: "CCS2024001"},
		{name: "other years only", date: "2024-03-01", existing: []string{"2023-09-01", "2025-01-01"}, want: "CCS2024001"},
		{name: "five in year", date: "2024-03-01", existing: fiveIn2024, want: "CCS2024006"},
		{name: "five in year among others", date: "2024-03-01", existing: mixed, want: "CCS2024006"},
		{name: "other scope", date: "2023-11-30", existing: mixed, want: "CCS2023003"},
		{name: "rfc3339", date: "2024-03-01T08:00:00Z", existing: fiveIn2024, want: "CCS2024006"},
		{name: "empty date", date: "", wantErr: true},
		{name: "garbage date", date: "first of march", existing: fiveIn2024, wantErr: true},
		{name: "impossible date", date: "2024-13-45", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStudentID("CCS", tt.date, tt.existing)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDate))
				var dateErr *InvalidDateError
				assert.True(t, errors.As(err, &dateErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextStudentID_beyondPadding(t *testing.T) {
	existing := make([]string, 1000)
	for i := range existing {
		existing[i] = "2024-01-15"
	}
	got, err := NextStudentID("CCS", "2024-02-01", existing)
	require.NoError(t, err)
	assert.Equal(t, "CCS20241001", got)
}

func TestNextStaffNumber(t *testing.T) {
	tests := []struct {
		category StaffCategory
		count    int
		want     string
		wantErr  error
	}{
		{category: Teaching, count: 3, want: "CCS/T/004"},
		{category: Teaching, count: 0, want: "CCS/T/001"},
		{category: Administration, count: 2, want: "CCS/A/003"},
		{category: ProfessionalSupport, count: 0, want: "CCS/P/001"},
		{category: MaintenanceOperations, count: 41, want: "CCS/M/042"},
		{category: "Catering", count: 1, wantErr: ErrUnknownCategory},
	}
	for _, tt := range tests {
		got, err := NextStaffNumber("CCS", tt.category, tt.count)
		if err != tt.wantErr {
			t.Errorf("NextStaffNumber(%s, %d) error = %v, wantErr %v", tt.category, tt.count, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("NextStaffNumber(%s, %d) = %q, want %q", tt.category, tt.count, got, tt.want)
		}
	}
}

func TestCountInYear(t *testing.T) {
	dates := []string{"2024-01-15", "2024/06/01", "2024-1-5", "garbage", "2023-12-31"}
	assert.Equal(t, 3, CountInYear(2024, dates))
	assert.Equal(t, 1, CountInYear(2023, dates))
	assert.Equal(t, 0, CountInYear(2022, dates))
}
