package student

import (
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/finance"
	"github.com/ccschool/schooladmin/core/grading"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

// Classes in promotion order.
var Classes = []string{
	"Creche",
	"Nursery 1",
	"Nursery 2",
	"Kindergarten 1",
	"Kindergarten 2",
	"Basic 1",
	"Basic 2",
	"Basic 3",
	"Basic 4",
	"Basic 5",
	"Basic 6",
	"Basic 7",
	"Basic 8",
	"Basic 9",
}

// ClassRank returns the position of `class` in Classes, -1 when unknown.
func ClassRank(class string) int {
	for i, c := range Classes {
		if c == class {
			return i
		}
	}
	return -1
}

type (
	Guardian struct {
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Email   string `json:"email,omitempty"`
	}

	Student struct {
		ID            string                `json:"id"`
		Name          string                `json:"name"`
		DateOfBirth   string                `json:"date_of_birth,omitempty"`
		Gender        string                `json:"gender"`
		Guardian      Guardian              `json:"guardian"`
		EnrolmentDate string                `json:"enrolment_date"`
		CurrentClass  string                `json:"current_class"`
		ClassHistory  []string              `json:"class_history"`
		Financials    finance.Record        `json:"financials"`
		Grades        []grading.GradeRecord `json:"grades"`
		Attendance    []Attendance          `json:"attendance"`
		Status        Status                `json:"status"`
		CreatedAt     time.Time             `json:"created_at"` // UTC
		UpdatedAt     time.Time             `json:"updated_at"` // UTC
	}
)

type AttendanceStatus string

const (
	Present AttendanceStatus = "Present"
	Absent  AttendanceStatus = "Absent"
	Late    AttendanceStatus = "Late"
)

type (
	// Attendance is the register mark of one school day.
	Attendance struct {
		Date   string           `json:"date"`
		Status AttendanceStatus `json:"status"`
	}

	AttendanceSummary struct {
		Present int `json:"present"`
		Absent  int `json:"absent"`
		Late    int `json:"late"`
	}
)

// SummarizeAttendance counts the days per status.
func SummarizeAttendance(records []Attendance) AttendanceSummary {
	var sum AttendanceSummary
	for _, a := range records {
		switch a.Status {
		case Present:
			sum.Present++
		case Absent:
			sum.Absent++
		case Late:
			sum.Late++
		}
	}
	return sum
}

func (s Student) IsArchived() bool { return s.Status == StatusArchived }

// Clone returns a deep copy of the student.
func (s Student) Clone() Student {
	c := s
	c.ClassHistory = append([]string(nil), s.ClassHistory...)
	c.Financials = s.Financials.Clone()
	c.Attendance = append([]Attendance(nil), s.Attendance...)
	c.Grades = make([]grading.GradeRecord, len(s.Grades))
	for i, gr := range s.Grades {
		subjects := make(map[string]grading.SubjectScore, len(gr.Subjects))
		for k, v := range gr.Subjects {
			subjects[k] = v
		}
		gr.Subjects = subjects
		c.Grades[i] = gr
	}
	return c
}

// TermRecord returns the student's grade record for `term`, nil when missing.
func (s *Student) TermRecord(term string) *grading.GradeRecord {
	for i := range s.Grades {
		if s.Grades[i].Term == term {
			return &s.Grades[i]
		}
	}
	return nil
}

func (s *Student) termRecordOrNew(term string) *grading.GradeRecord {
	if gr := s.TermRecord(term); gr != nil {
		if gr.Subjects == nil {
			gr.Subjects = make(map[string]grading.SubjectScore)
		}
		return gr
	}
	s.Grades = append(s.Grades, grading.GradeRecord{Term: term, Subjects: make(map[string]grading.SubjectScore)})
	return &s.Grades[len(s.Grades)-1]
}

// mark records the attendance status of `date`, replacing an earlier mark of the same day.
func (s *Student) mark(date string, status AttendanceStatus) {
	for i := range s.Attendance {
		if s.Attendance[i].Date == date {
			s.Attendance[i].Status = status
			return
		}
	}
	s.Attendance = append(s.Attendance, Attendance{Date: date, Status: status})
	sort.Slice(s.Attendance, func(i, j int) bool { return s.Attendance[i].Date < s.Attendance[j].Date })
}

func (s Student) Summary() finance.Summary {
	return finance.ComputeSummary(s.Financials)
}

// NewStudent contains information needed to enrol a new Student.
type NewStudent struct {
	Name            string `json:"name" validate:"notblank,max=100"`
	DateOfBirth     string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender          string `json:"gender" validate:"required,oneof=Male Female"`
	GuardianName    string `json:"guardian_name" validate:"notblank"`
	GuardianContact string `json:"guardian_contact" validate:"notblank"`
	GuardianEmail   string `json:"guardian_email" validate:"omitempty,email"`
	EnrolmentDate   string `json:"enrolment_date" validate:"required,datetime=2006-01-02"`
	CurrentClass    string `json:"current_class" validate:"required,schoolclass"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Gender = core.CleanString(ns.Gender)
	ns.GuardianName = core.CleanString(ns.GuardianName)
	ns.GuardianContact = core.CleanString(ns.GuardianContact)
	ns.GuardianEmail = core.CleanString(ns.GuardianEmail, true /* lower */)
	ns.EnrolmentDate = core.CleanString(ns.EnrolmentDate)
	ns.CurrentClass = core.CleanString(ns.CurrentClass)
	return validate.Struct(ns)
}

type NewFeeItem struct {
	Category string          `json:"category" validate:"notblank"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
}

func (nf *NewFeeItem) Validate(validate *validator.Validate) error {
	nf.Category = core.CleanString(nf.Category)
	return validate.Struct(nf)
}

type NewDiscount struct {
	Type        finance.DiscountType `json:"type" validate:"required,discounttype"`
	Amount      decimal.Decimal      `json:"amount" validate:"gt=0"`
	Description string               `json:"description" validate:"max=200"`
}

func (nd *NewDiscount) Validate(validate *validator.Validate) error {
	nd.Description = core.CleanString(nd.Description)
	return validate.Struct(nd)
}

type NewPayment struct {
	Date    string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount  decimal.Decimal `json:"amount" validate:"gt=0"`
	Receipt string          `json:"receipt" validate:"notblank"`
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.Receipt = core.CleanString(np.Receipt)
	return validate.Struct(np)
}

// Promotion moves a student to NewClass. When Repeat is set the student stays in
// the current class and NewClass is ignored.
type Promotion struct {
	NewClass string `json:"new_class" validate:"omitempty,schoolclass"`
	Repeat   bool   `json:"repeat"`
}

func (p *Promotion) Validate(validate *validator.Validate) error {
	p.NewClass = core.CleanString(p.NewClass)
	if !p.Repeat && p.NewClass == "" {
		return core.NewValidationError(nil, core.FieldError{Field: "new_class", Error: "this field is required"})
	}
	return validate.Struct(p)
}

// ScoreUpdate overwrites one score field of one subject.
type ScoreUpdate struct {
	Subject string `json:"subject" validate:"notblank"`
	Field   string `json:"field" validate:"required,scorefield"`
	Value   int    `json:"value" validate:"min=0"`
}

func (su *ScoreUpdate) Validate(validate *validator.Validate) error {
	su.Subject = core.CleanString(su.Subject)
	su.Field = core.CleanString(su.Field)
	return validate.Struct(su)
}

// Comments are the teacher's and headteacher's remarks on a term's report.
type Comments struct {
	TeacherComment     string                  `json:"teacher_comment" validate:"max=500"`
	HeadteacherComment string                  `json:"headteacher_comment" validate:"max=500"`
	PromotionStatus    grading.PromotionStatus `json:"promotion_status" validate:"omitempty,oneof=Promoted Repeated"`
}

func (c *Comments) Validate(validate *validator.Validate) error {
	c.TeacherComment = core.CleanString(c.TeacherComment)
	c.HeadteacherComment = core.CleanString(c.HeadteacherComment)
	return validate.Struct(c)
}

type NewAttendance struct {
	Date   string           `json:"date" validate:"required,datetime=2006-01-02"`
	Status AttendanceStatus `json:"status" validate:"required,oneof=Present Absent Late"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	na.Date = core.CleanString(na.Date)
	na.Status = AttendanceStatus(core.CleanString(string(na.Status)))
	return validate.Struct(na)
}

// Register is a class's attendance register for one day, keyed by student ID.
type Register struct {
	Class   string                      `json:"class" validate:"required,schoolclass"`
	Date    string                      `json:"date" validate:"required,datetime=2006-01-02"`
	Entries map[string]AttendanceStatus `json:"entries" validate:"required,min=1,dive,keys,notblank,endkeys,oneof=Present Absent Late"`
}

func (r *Register) Validate(validate *validator.Validate) error {
	r.Class = core.CleanString(r.Class)
	r.Date = core.CleanString(r.Date)
	return validate.Struct(r)
}

type (
	// ScoreEntry is one imported score sheet row.
	ScoreEntry struct {
		StudentID string
		Subject   string
		Score     grading.SubjectScore
	}

	// SkippedEntry is a score sheet row that was not imported.
	SkippedEntry struct {
		StudentID string `json:"student_id"`
		Subject   string `json:"subject"`
		Reason    string `json:"reason"`
	}

	ImportResult struct {
		Term            string         `json:"term"`
		Imported        int            `json:"imported"`
		UnknownStudents []string       `json:"unknown_students"`
		Skipped         []SkippedEntry `json:"skipped"`
	}

	Statement struct {
		StudentID    string          `json:"student_id"`
		Name         string          `json:"name"`
		CurrentClass string          `json:"current_class"`
		Currency     string          `json:"currency"`
		Record       finance.Record  `json:"record"`
		Summary      finance.Summary `json:"summary"`
		NetBill      decimal.Decimal `json:"net_bill"`
	}

	ReportCard struct {
		StudentID          string                  `json:"student_id"`
		Name               string                  `json:"name"`
		CurrentClass       string                  `json:"current_class"`
		AcademicYear       string                  `json:"academic_year"`
		Term               string                  `json:"term"`
		Rows               []grading.ReportRow     `json:"rows"`
		Average            float64                 `json:"average"`
		Position           int                     `json:"position"`
		ClassSize          int                     `json:"class_size"`
		TeacherComment     string                  `json:"teacher_comment,omitempty"`
		HeadteacherComment string                  `json:"headteacher_comment,omitempty"`
		PromotionStatus    grading.PromotionStatus `json:"promotion_status,omitempty"`
		Attendance         AttendanceSummary       `json:"attendance"`
	}
)

type QueryFilter struct {
	Search    string          `query:"search"`
	Class     string          `query:"class"`
	Status    Status          `query:"status"`
	Orderings []core.Ordering `query:"-"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
	qf.Class = core.CleanString(qf.Class)
	qf.Status = Status(core.CleanString(string(qf.Status), true /* lower */))
}

// Validate rejects statuses no student can have.
func (qf *QueryFilter) Validate() error {
	switch qf.Status {
	case "", StatusActive, StatusArchived:
		return nil
	}
	return core.NewValidationError(errUnknownStatus, core.FieldError{Field: "status", Error: errUnknownStatus.Error()})
}
