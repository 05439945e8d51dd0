package staff

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/ident"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

var EmploymentTypes = []string{"Full-time", "Part-time", "Contract"}

type (
	EmergencyContact struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
	}

	Staff struct {
		ID               string              `json:"id"`
		StaffNumber      string              `json:"staff_number"`
		Name             string              `json:"name"`
		Category         ident.StaffCategory `json:"category"`
		EmploymentYear   int                 `json:"employment_year"`
		EmploymentType   string              `json:"employment_type"`
		Qualifications   []string            `json:"qualifications"`
		Contact          string              `json:"contact"`
		Email            string              `json:"email,omitempty"`
		EmergencyContact EmergencyContact    `json:"emergency_contact"`
		AssignedClass    string              `json:"assigned_class,omitempty"`
		AssignedSubjects []string            `json:"assigned_subjects"`
		SchoolRoles      []string            `json:"school_roles"`
		Status           Status              `json:"status"`
		CreatedAt        time.Time           `json:"created_at"` // UTC
		UpdatedAt        time.Time           `json:"updated_at"` // UTC
	}
)

func (s Staff) IsArchived() bool { return s.Status == StatusArchived }

// Clone returns a deep copy of the staff member.
func (s Staff) Clone() Staff {
	c := s
	c.Qualifications = append([]string(nil), s.Qualifications...)
	c.AssignedSubjects = append([]string(nil), s.AssignedSubjects...)
	c.SchoolRoles = append([]string(nil), s.SchoolRoles...)
	return c
}

// NewStaff contains information needed to create a new Staff member.
type NewStaff struct {
	Name                  string              `json:"name" validate:"notblank,max=100"`
	Category              ident.StaffCategory `json:"category" validate:"required,staffcategory"`
	EmploymentYear        int                 `json:"employment_year" validate:"required,min=1950,max=2100"`
	EmploymentType        string              `json:"employment_type" validate:"required,oneof=Full-time Part-time Contract"`
	Qualifications        []string            `json:"qualifications" validate:"dive,notblank"`
	Contact               string              `json:"contact" validate:"notblank"`
	Email                 string              `json:"email" validate:"omitempty,email"`
	EmergencyContactName  string              `json:"emergency_contact_name"`
	EmergencyContactPhone string              `json:"emergency_contact_phone"`
	AssignedClass         string              `json:"assigned_class"`
	AssignedSubjects      []string            `json:"assigned_subjects" validate:"dive,notblank"`
	SchoolRoles           []string            `json:"school_roles" validate:"dive,notblank"`
}

func (ns *NewStaff) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Category = ident.StaffCategory(core.CleanString(string(ns.Category)))
	ns.Contact = core.CleanString(ns.Contact)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.EmergencyContactName = core.CleanString(ns.EmergencyContactName)
	ns.EmergencyContactPhone = core.CleanString(ns.EmergencyContactPhone)
	ns.AssignedClass = core.CleanString(ns.AssignedClass)
	return validate.Struct(ns)
}

// UpdateAssignment defines what may be changed on a staff member's duties.
// Nil slices are left untouched.
type UpdateAssignment struct {
	AssignedClass    *string  `json:"assigned_class"`
	AssignedSubjects []string `json:"assigned_subjects" validate:"omitempty,dive,notblank"`
	SchoolRoles      []string `json:"school_roles" validate:"omitempty,dive,notblank"`
}

func (ua *UpdateAssignment) Validate(validate *validator.Validate) error {
	if ua.AssignedClass != nil {
		class := core.CleanString(*ua.AssignedClass)
		ua.AssignedClass = &class
	}
	return validate.Struct(ua)
}

type QueryFilter struct {
	Search   string              `query:"search"`
	Category ident.StaffCategory `query:"category"`
	Status   Status              `query:"status"`
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
	qf.Category = ident.StaffCategory(core.CleanString(string(qf.Category)))
	qf.Status = Status(core.CleanString(string(qf.Status), true /* lower */))
}

// Validate rejects categories and statuses no staff member can have.
func (qf *QueryFilter) Validate() error {
	var fields []core.FieldError
	if qf.Category != "" && !qf.Category.IsValid() {
		fields = append(fields, core.FieldError{Field: "category", Error: ident.ErrUnknownCategory.Error()})
	}
	switch qf.Status {
	case "", StatusActive, StatusArchived:
	default:
		fields = append(fields, core.FieldError{Field: "status", Error: errUnknownStatus.Error()})
	}
	if fields != nil {
		return core.NewValidationError(errInvalidFilter, fields...)
	}
	return nil
}
