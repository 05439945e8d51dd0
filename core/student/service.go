package student

import (
	"context"
	"net/mail"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/finance"
	"github.com/ccschool/schooladmin/core/grading"
	"github.com/ccschool/schooladmin/core/ident"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound     = errors.New("student not found")
	ErrArchived     = errors.New("student is archived")
	ErrTermNotFound = errors.New("no grades recorded for this term")

	errNotLaterClass = "new class must come after the current class"
	errUnknownStatus = errors.New("status must be one of active or archived")
	errNotInClass    = errors.New("not an active student of this class")
)

const (
	receiptTemplate     = "payment_receipt"
	receiptSubject      = "Payment received"
	receiptTemplateText = `Dear {{.Guardian}},

We have received a payment of {{.Currency}} {{.Amount}} for {{.Name}} ({{.ID}}) on {{.Date}}.
Receipt number: {{.Receipt}}

Total fees:      {{.Currency}} {{.TotalFees}}
Total discounts: {{.Currency}} {{.TotalDiscounts}}
Total paid:      {{.Currency}} {{.Paid}}
Balance:         {{.Currency}} {{.Balance}}

{{.School}}
`
)

func init() {
	core.MustRegisterEmailTemplate(receiptTemplate, receiptTemplateText)
}

type (
	Repository interface {
		// CreateStudent assigns the next free ID for the enrolment year and stores the student,
		// both under the same write lock.
		CreateStudent(ctx context.Context, s Student) (Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// QueryStudents applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Student.Name or Student.ID.
		QueryStudents(ctx context.Context, filter QueryFilter) ([]Student, error)
		// UpdateStudent applies `fn` to the stored student atomically. Nothing is saved when `fn` fails.
		UpdateStudent(ctx context.Context, id string, fn func(*Student) error) (Student, error)
		// UpdateClass applies `fn` to every active student of `class` atomically.
		UpdateClass(ctx context.Context, class string, fn func([]*Student) error) ([]Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, ns NewStudent) (Student, error)
		PreviewID(ctx context.Context, enrolmentDate string) (string, error)
		Get(ctx context.Context, id string) (Student, error)
		Query(ctx context.Context, filter QueryFilter) ([]Student, error)
		Delete(ctx context.Context, ids ...string) error
		Archive(ctx context.Context, id string) (Student, error)
		Promote(ctx context.Context, id string, p Promotion) (Student, error)

		AddFeeItem(ctx context.Context, id string, nf NewFeeItem) (Student, error)
		BillFromSchedule(ctx context.Context, id, date string) (Student, error)
		ApplyDiscount(ctx context.Context, id string, nd NewDiscount) (Student, error)
		RecordPayment(ctx context.Context, id string, np NewPayment) (Student, error)
		Statement(ctx context.Context, id string) (Statement, error)
		FinancialTotals(ctx context.Context, filter QueryFilter) (finance.Totals, error)

		// Grade operations fall back to Config.CurrentTerm when `term` is blank.
		SetScore(ctx context.Context, id, term string, su ScoreUpdate) (grading.GradeRecord, error)
		SetComments(ctx context.Context, id, term string, c Comments) (grading.GradeRecord, error)
		ImportScores(ctx context.Context, term string, entries []ScoreEntry) (ImportResult, error)
		RankClass(ctx context.Context, class, term string) (map[string]int, error)
		ReportCard(ctx context.Context, id, term string) (ReportCard, error)

		RecordAttendance(ctx context.Context, id string, na NewAttendance) (Student, error)
		MarkRegister(ctx context.Context, reg Register) (AttendanceSummary, error)
	}

	service struct {
		repo       Repository
		mailSvc    core.EmailService
		schedule   finance.Schedule
		curriculum grading.Curriculum
		conf       *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, mailSvc core.EmailService, schedule finance.Schedule, curriculum grading.Curriculum, conf *core.Config) Service {
	return &service{
		repo:       repo,
		mailSvc:    mailSvc,
		schedule:   schedule,
		curriculum: curriculum,
		conf:       conf,
	}
}

func (svc *service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	now := NowFunc().UTC()
	s := Student{
		Name:        ns.Name,
		DateOfBirth: ns.DateOfBirth,
		Gender:      ns.Gender,
		Guardian: Guardian{
			Name:    ns.GuardianName,
			Contact: ns.GuardianContact,
			Email:   ns.GuardianEmail,
		},
		EnrolmentDate: ns.EnrolmentDate,
		CurrentClass:  ns.CurrentClass,
		ClassHistory:  []string{ns.CurrentClass},
		Status:        StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s, err := svc.repo.CreateStudent(ctx, s)
	if err != nil {
		return Student{}, dateValidationError(err)
	}
	return s, nil
}

// PreviewID computes the ID the next student enrolled on `enrolmentDate` would get.
// It reserves nothing: Create may still assign a different ID.
func (svc *service) PreviewID(ctx context.Context, enrolmentDate string) (string, error) {
	students, err := svc.repo.QueryStudents(ctx, QueryFilter{})
	if err != nil {
		return "", errors.Wrap(err, "querying students")
	}
	dates := make([]string, 0, len(students))
	for _, s := range students {
		dates = append(dates, s.EnrolmentDate)
	}
	id, err := ident.NextStudentID(svc.conf.IDPrefix, enrolmentDate, dates)
	if err != nil {
		return "", dateValidationError(err)
	}
	return id, nil
}

func (svc *service) Get(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, core.CleanString(id))
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Student, error) {
	filter.Clean()
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return svc.repo.QueryStudents(ctx, filter)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}

func (svc *service) update(ctx context.Context, id string, fn func(*Student) error) (Student, error) {
	return svc.repo.UpdateStudent(ctx, core.CleanString(id), func(s *Student) error {
		if err := fn(s); err != nil {
			return err
		}
		s.UpdatedAt = NowFunc().UTC()
		return nil
	})
}

func (svc *service) Archive(ctx context.Context, id string) (Student, error) {
	return svc.update(ctx, id, func(s *Student) error {
		s.Status = StatusArchived
		return nil
	})
}

// Promote moves the student to a later class and records it in the class history.
// Repeating keeps both the current class and the history as they are.
func (svc *service) Promote(ctx context.Context, id string, p Promotion) (Student, error) {
	return svc.update(ctx, id, func(s *Student) error {
		if s.IsArchived() {
			return ErrArchived
		}
		if p.Repeat {
			return nil
		}
		if ClassRank(p.NewClass) <= ClassRank(s.CurrentClass) {
			return core.NewValidationError(
				errors.New(errNotLaterClass),
				core.FieldError{Field: "new_class", Error: errNotLaterClass},
			)
		}
		s.CurrentClass = p.NewClass
		s.ClassHistory = append(s.ClassHistory, p.NewClass)
		return nil
	})
}

func (svc *service) AddFeeItem(ctx context.Context, id string, nf NewFeeItem) (Student, error) {
	return svc.update(ctx, id, func(s *Student) error {
		s.Financials.FeeItems = append(s.Financials.FeeItems, finance.FeeItem{
			Category: nf.Category,
			Amount:   nf.Amount,
			Date:     nf.Date,
		})
		return nil
	})
}

// BillFromSchedule adds the fee schedule items of the student's current class.
func (svc *service) BillFromSchedule(ctx context.Context, id, date string) (Student, error) {
	return svc.update(ctx, id, func(s *Student) error {
		items, err := svc.schedule.FeeItems(s.CurrentClass, date)
		if err != nil {
			if err == finance.ErrUnknownClass {
				return core.NewValidationError(err, core.FieldError{Field: "current_class", Error: "no fee schedule for " + s.CurrentClass})
			}
			return err
		}
		s.Financials.FeeItems = append(s.Financials.FeeItems, items...)
		return nil
	})
}

func (svc *service) ApplyDiscount(ctx context.Context, id string, nd NewDiscount) (Student, error) {
	return svc.update(ctx, id, func(s *Student) error {
		s.Financials.Discounts = append(s.Financials.Discounts, finance.Discount{
			Type:        nd.Type,
			Amount:      nd.Amount,
			Description: nd.Description,
		})
		return nil
	})
}

// RecordPayment appends the payment and emails a receipt to the guardian when they have an email.
func (svc *service) RecordPayment(ctx context.Context, id string, np NewPayment) (Student, error) {
	s, err := svc.update(ctx, id, func(s *Student) error {
		s.Financials.Payments = append(s.Financials.Payments, finance.Payment{
			Date:    np.Date,
			Amount:  np.Amount,
			Receipt: np.Receipt,
		})
		return nil
	})
	if err != nil {
		return Student{}, err
	}
	if s.Guardian.Email != "" {
		svc.mailSvc.SendMessages(svc.receiptMessage(s, np))
	}
	return s, nil
}

func (svc *service) receiptMessage(s Student, np NewPayment) *core.EmailMessage {
	sum := s.Summary()
	return &core.EmailMessage{
		To:           []mail.Address{{Name: s.Guardian.Name, Address: s.Guardian.Email}},
		Subject:      receiptSubject,
		TemplateName: receiptTemplate,
		TemplateData: map[string]string{
			"Guardian":       s.Guardian.Name,
			"Name":           s.Name,
			"ID":             s.ID,
			"Date":           np.Date,
			"Receipt":        np.Receipt,
			"Currency":       svc.conf.Currency,
			"Amount":         np.Amount.StringFixed(2),
			"TotalFees":      sum.TotalFees.StringFixed(2),
			"TotalDiscounts": sum.TotalDiscounts.StringFixed(2),
			"Paid":           sum.Paid.StringFixed(2),
			"Balance":        sum.Balance.StringFixed(2),
			"School":         svc.conf.SchoolName,
		},
	}
}

func (svc *service) Statement(ctx context.Context, id string) (Statement, error) {
	s, err := svc.Get(ctx, id)
	if err != nil {
		return Statement{}, err
	}
	sum := s.Summary()
	return Statement{
		StudentID:    s.ID,
		Name:         s.Name,
		CurrentClass: s.CurrentClass,
		Currency:     svc.conf.Currency,
		Record:       s.Financials,
		Summary:      sum,
		NetBill:      sum.NetBill(),
	}, nil
}

// FinancialTotals aggregates the financial summaries of the matching students.
func (svc *service) FinancialTotals(ctx context.Context, filter QueryFilter) (finance.Totals, error) {
	students, err := svc.Query(ctx, filter)
	if err != nil {
		return finance.Totals{}, err
	}
	var totals finance.Totals
	for _, s := range students {
		totals.Add(s.Summary())
	}
	return totals, nil
}

// term resolves `term` to its canonical name, the current term when blank.
func (svc *service) term(term string) (string, error) {
	if core.CleanString(term) == "" {
		term = svc.conf.CurrentTerm
	}
	t, err := grading.Term(term)
	if err != nil {
		return "", core.NewValidationError(err, core.FieldError{Field: "term", Error: err.Error()})
	}
	return t, nil
}

func (svc *service) SetScore(ctx context.Context, id, term string, su ScoreUpdate) (grading.GradeRecord, error) {
	term, err := svc.term(term)
	if err != nil {
		return grading.GradeRecord{}, err
	}

	var rec grading.GradeRecord
	_, err = svc.update(ctx, id, func(s *Student) error {
		subject, err := svc.curriculum.Subject(s.CurrentClass, su.Subject)
		if err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "subject", Error: err.Error()})
		}
		gr := s.termRecordOrNew(term)
		if err := gr.SetScore(subject, su.Field, su.Value); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "field", Error: err.Error()})
		}
		gr.Average = grading.Average(*gr)
		rec = *gr
		return nil
	})
	return rec, err
}

func (svc *service) SetComments(ctx context.Context, id, term string, c Comments) (grading.GradeRecord, error) {
	term, err := svc.term(term)
	if err != nil {
		return grading.GradeRecord{}, err
	}

	var rec grading.GradeRecord
	_, err = svc.update(ctx, id, func(s *Student) error {
		gr := s.termRecordOrNew(term)
		gr.TeacherComment = c.TeacherComment
		gr.HeadteacherComment = c.HeadteacherComment
		gr.PromotionStatus = c.PromotionStatus
		rec = *gr
		return nil
	})
	return rec, err
}

// ImportScores replaces the subject scores of every known student in `entries`.
// Rows of unknown students, and rows for subjects not taught in the student's class,
// are skipped and reported.
func (svc *service) ImportScores(ctx context.Context, term string, entries []ScoreEntry) (ImportResult, error) {
	term, err := svc.term(term)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Term: term, UnknownStudents: []string{}, Skipped: []SkippedEntry{}}
	seen := make(map[string]bool)
	for _, e := range entries {
		_, err := svc.update(ctx, e.StudentID, func(s *Student) error {
			subject, err := svc.curriculum.Subject(s.CurrentClass, e.Subject)
			if err != nil {
				return err
			}
			gr := s.termRecordOrNew(term)
			gr.Subjects[subject] = e.Score
			gr.Average = grading.Average(*gr)
			return nil
		})
		switch cause := errors.Cause(err); cause {
		case nil:
			res.Imported++
		case ErrNotFound:
			if !seen[e.StudentID] {
				seen[e.StudentID] = true
				res.UnknownStudents = append(res.UnknownStudents, e.StudentID)
			}
		case grading.ErrSubjectNotOffered:
			res.Skipped = append(res.Skipped, SkippedEntry{StudentID: e.StudentID, Subject: e.Subject, Reason: cause.Error()})
		default:
			return res, errors.Wrapf(err, "importing scores of %s", e.StudentID)
		}
	}
	return res, nil
}

// RankClass sets the term position of every active student of `class` who has grades for `term`.
func (svc *service) RankClass(ctx context.Context, class, term string) (map[string]int, error) {
	term, err := svc.term(term)
	if err != nil {
		return nil, err
	}

	var positions map[string]int
	_, err = svc.repo.UpdateClass(ctx, class, func(students []*Student) error {
		averages := make(map[string]float64, len(students))
		for _, s := range students {
			if gr := s.TermRecord(term); gr != nil {
				gr.Average = grading.Average(*gr)
				averages[s.ID] = gr.Average
			}
		}
		positions = grading.Rank(averages)
		now := NowFunc().UTC()
		for _, s := range students {
			if gr := s.TermRecord(term); gr != nil {
				gr.Position = positions[s.ID]
				s.UpdatedAt = now
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "ranking %s", class)
	}
	return positions, nil
}

func (svc *service) ReportCard(ctx context.Context, id, term string) (ReportCard, error) {
	term, err := svc.term(term)
	if err != nil {
		return ReportCard{}, err
	}
	s, err := svc.Get(ctx, id)
	if err != nil {
		return ReportCard{}, err
	}
	gr := s.TermRecord(term)
	if gr == nil {
		return ReportCard{}, ErrTermNotFound
	}

	classmates, err := svc.repo.QueryStudents(ctx, QueryFilter{Class: s.CurrentClass, Status: StatusActive})
	if err != nil {
		return ReportCard{}, errors.Wrap(err, "querying classmates")
	}
	var classSize int
	for _, c := range classmates {
		if c.TermRecord(term) != nil {
			classSize++
		}
	}

	return ReportCard{
		StudentID:          s.ID,
		Name:               s.Name,
		CurrentClass:       s.CurrentClass,
		AcademicYear:       svc.conf.AcademicYear,
		Term:               gr.Term,
		Rows:               grading.ReportCard(*gr),
		Average:            grading.Average(*gr),
		Position:           gr.Position,
		ClassSize:          classSize,
		TeacherComment:     gr.TeacherComment,
		HeadteacherComment: gr.HeadteacherComment,
		PromotionStatus:    gr.PromotionStatus,
		Attendance:         SummarizeAttendance(s.Attendance),
	}, nil
}

// RecordAttendance marks one day for one student. Marking the same day again replaces the mark.
func (svc *service) RecordAttendance(ctx context.Context, id string, na NewAttendance) (Student, error) {
	return svc.update(ctx, id, func(s *Student) error {
		if s.IsArchived() {
			return ErrArchived
		}
		s.mark(na.Date, na.Status)
		return nil
	})
}

// MarkRegister records a class register. Every entry must be an active student of the class;
// otherwise nothing is saved. Students left out of the register are not marked.
func (svc *service) MarkRegister(ctx context.Context, reg Register) (AttendanceSummary, error) {
	var day AttendanceSummary
	_, err := svc.repo.UpdateClass(ctx, reg.Class, func(students []*Student) error {
		byID := make(map[string]*Student, len(students))
		for _, s := range students {
			byID[s.ID] = s
		}

		var fields []core.FieldError
		for id := range reg.Entries {
			if _, ok := byID[id]; !ok {
				fields = append(fields, core.FieldError{Field: "entries." + id, Error: errNotInClass.Error()})
			}
		}
		if fields != nil {
			sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
			return core.NewValidationError(errNotInClass, fields...)
		}

		now := NowFunc().UTC()
		marks := make([]Attendance, 0, len(reg.Entries))
		for id, status := range reg.Entries {
			s := byID[id]
			s.mark(reg.Date, status)
			s.UpdatedAt = now
			marks = append(marks, Attendance{Date: reg.Date, Status: status})
		}
		day = SummarizeAttendance(marks)
		return nil
	})
	if err != nil {
		return AttendanceSummary{}, errors.Wrapf(err, "marking register of %s", reg.Class)
	}
	return day, nil
}

// dateValidationError reports an unusable enrolment date as a field error.
func dateValidationError(err error) error {
	var dateErr *ident.InvalidDateError
	if errors.As(err, &dateErr) {
		return core.NewValidationError(err, core.FieldError{Field: "enrolment_date", Error: dateErr.Error()})
	}
	return err
}
