package inmemdb

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ccschool/schooladmin/core/finance"
	"github.com/ccschool/schooladmin/core/grading"
	"github.com/ccschool/schooladmin/core/ident"
	"github.com/ccschool/schooladmin/core/staff"
	"github.com/ccschool/schooladmin/core/student"
)

type (
	seedDoc struct {
		Students []seedStudent `yaml:"students"`
		Staff    []seedStaff   `yaml:"staff"`
	}

	seedStudent struct {
		ID            string               `yaml:"id"`
		Name          string               `yaml:"name"`
		DateOfBirth   string               `yaml:"date_of_birth"`
		Gender        string               `yaml:"gender"`
		Guardian      student.Guardian     `yaml:"guardian"`
		EnrolmentDate string               `yaml:"enrolment_date"`
		CurrentClass  string               `yaml:"current_class"`
		ClassHistory  []string             `yaml:"class_history"`
		Status        student.Status       `yaml:"status"`
		Financials    finance.RecordDoc    `yaml:"financials"`
		Grades        []seedGradeRecord    `yaml:"grades"`
		Attendance    []student.Attendance `yaml:"attendance"`
	}

	seedGradeRecord struct {
		Term     string                      `yaml:"term"`
		Subjects map[string]seedSubjectScore `yaml:"subjects"`
	}

	seedSubjectScore struct {
		ClassAssignments int `yaml:"class_assignments"`
		Project          int `yaml:"project"`
		Midterm          int `yaml:"midterm"`
		EndOfTerm        int `yaml:"end_of_term"`
	}

	seedStaff struct {
		StaffNumber      string                 `yaml:"staff_number"`
		Name             string                 `yaml:"name"`
		Category         ident.StaffCategory    `yaml:"category"`
		EmploymentYear   int                    `yaml:"employment_year"`
		EmploymentType   string                 `yaml:"employment_type"`
		Qualifications   []string               `yaml:"qualifications"`
		Contact          string                 `yaml:"contact"`
		Email            string                 `yaml:"email"`
		EmergencyContact staff.EmergencyContact `yaml:"emergency_contact"`
		AssignedClass    string                 `yaml:"assigned_class"`
		AssignedSubjects []string               `yaml:"assigned_subjects"`
		SchoolRoles      []string               `yaml:"school_roles"`
		Status           staff.Status           `yaml:"status"`
	}
)

// Seed loads students and staff from a YAML document, keeping their identifiers.
// Records with the same identifier are replaced.
func (db *DB) Seed(r io.Reader) error {
	var doc seedDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return errors.Wrap(err, "decoding seed")
	}

	now := time.Now().UTC()
	students := &studentRepository{db: db.student, prefix: db.prefix}
	for _, ss := range doc.Students {
		s, err := ss.student(now)
		if err != nil {
			return errors.Wrapf(err, "seeding student %s", ss.ID)
		}
		students.insertStudent(s)
	}

	members := &staffRepository{db: db.staff, prefix: db.prefix}
	for _, ss := range doc.Staff {
		if !ss.Category.IsValid() {
			return errors.Wrapf(ident.ErrUnknownCategory, "seeding staff %s", ss.StaffNumber)
		}
		members.insertStaff(ss.staff(now))
	}
	return nil
}

func (ss seedStudent) student(now time.Time) (student.Student, error) {
	if ss.ID == "" {
		return student.Student{}, errors.New("missing id")
	}
	if _, err := ident.Year(ss.EnrolmentDate); err != nil {
		return student.Student{}, err
	}
	rec, err := ss.Financials.Record()
	if err != nil {
		return student.Student{}, err
	}

	status := ss.Status
	if status == "" {
		status = student.StatusActive
	}
	s := student.Student{
		ID:            ss.ID,
		Name:          ss.Name,
		DateOfBirth:   ss.DateOfBirth,
		Gender:        ss.Gender,
		Guardian:      ss.Guardian,
		EnrolmentDate: ss.EnrolmentDate,
		CurrentClass:  ss.CurrentClass,
		ClassHistory:  ss.ClassHistory,
		Financials:    rec,
		Attendance:    ss.Attendance,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, sg := range ss.Grades {
		gr := grading.GradeRecord{Term: sg.Term, Subjects: make(map[string]grading.SubjectScore, len(sg.Subjects))}
		for subject, score := range sg.Subjects {
			gr.Subjects[subject] = grading.SubjectScore(score)
		}
		gr.Average = grading.Average(gr)
		s.Grades = append(s.Grades, gr)
	}
	return s, nil
}

func (ss seedStaff) staff(now time.Time) staff.Staff {
	status := ss.Status
	if status == "" {
		status = staff.StatusActive
	}
	return staff.Staff{
		StaffNumber:      ss.StaffNumber,
		Name:             ss.Name,
		Category:         ss.Category,
		EmploymentYear:   ss.EmploymentYear,
		EmploymentType:   ss.EmploymentType,
		Qualifications:   ss.Qualifications,
		Contact:          ss.Contact,
		Email:            ss.Email,
		EmergencyContact: ss.EmergencyContact,
		AssignedClass:    ss.AssignedClass,
		AssignedSubjects: ss.AssignedSubjects,
		SchoolRoles:      ss.SchoolRoles,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
