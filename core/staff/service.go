package staff

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/ident"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = errors.New("staff member not found")

	errUnknownStatus = errors.New("status must be one of active or archived")
	errInvalidFilter = errors.New("invalid staff filter")
)

type (
	Repository interface {
		// CreateStaff assigns the next free staff number of the category and stores the
		// staff member, both under the same write lock.
		CreateStaff(ctx context.Context, s Staff) (Staff, error)
		GetStaff(ctx context.Context, id string) (Staff, error)
		// CountStaff counts staff members of a category, archived ones included.
		CountStaff(ctx context.Context, category ident.StaffCategory) (int, error)
		// QueryStaff applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of Staff.Name or Staff.StaffNumber.
		QueryStaff(ctx context.Context, filter QueryFilter) ([]Staff, error)
		UpdateStaff(ctx context.Context, id string, fn func(*Staff) error) (Staff, error)
		DeleteStaffByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, ns NewStaff) (Staff, error)
		PreviewNumber(ctx context.Context, category ident.StaffCategory) (string, error)
		Get(ctx context.Context, id string) (Staff, error)
		Query(ctx context.Context, filter QueryFilter) ([]Staff, error)
		UpdateAssignment(ctx context.Context, id string, ua UpdateAssignment) (Staff, error)
		Archive(ctx context.Context, id string) (Staff, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
		conf *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, conf *core.Config) Service {
	return &service{repo: repo, conf: conf}
}

func (svc *service) Create(ctx context.Context, ns NewStaff) (Staff, error) {
	now := NowFunc().UTC()
	s := Staff{
		Name:           ns.Name,
		Category:       ns.Category,
		EmploymentYear: ns.EmploymentYear,
		EmploymentType: ns.EmploymentType,
		Qualifications: ns.Qualifications,
		Contact:        ns.Contact,
		Email:          ns.Email,
		EmergencyContact: EmergencyContact{
			Name:  ns.EmergencyContactName,
			Phone: ns.EmergencyContactPhone,
		},
		AssignedClass:    ns.AssignedClass,
		AssignedSubjects: ns.AssignedSubjects,
		SchoolRoles:      ns.SchoolRoles,
		Status:           StatusActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s, err := svc.repo.CreateStaff(ctx, s)
	if err != nil {
		return Staff{}, categoryValidationError(err)
	}
	return s, nil
}

// PreviewNumber computes the staff number the next member of `category` would get.
// It reserves nothing.
func (svc *service) PreviewNumber(ctx context.Context, category ident.StaffCategory) (string, error) {
	if !category.IsValid() {
		return "", categoryValidationError(ident.ErrUnknownCategory)
	}
	n, err := svc.repo.CountStaff(ctx, category)
	if err != nil {
		return "", errors.Wrap(err, "counting staff")
	}
	return ident.NextStaffNumber(svc.conf.IDPrefix, category, n)
}

func (svc *service) Get(ctx context.Context, id string) (Staff, error) {
	return svc.repo.GetStaff(ctx, core.CleanString(id))
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Staff, error) {
	filter.Clean()
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return svc.repo.QueryStaff(ctx, filter)
}

func (svc *service) update(ctx context.Context, id string, fn func(*Staff) error) (Staff, error) {
	return svc.repo.UpdateStaff(ctx, core.CleanString(id), func(s *Staff) error {
		if err := fn(s); err != nil {
			return err
		}
		s.UpdatedAt = NowFunc().UTC()
		return nil
	})
}

func (svc *service) UpdateAssignment(ctx context.Context, id string, ua UpdateAssignment) (Staff, error) {
	return svc.update(ctx, id, func(s *Staff) error {
		if ua.AssignedClass != nil {
			s.AssignedClass = *ua.AssignedClass
		}
		if ua.AssignedSubjects != nil {
			s.AssignedSubjects = ua.AssignedSubjects
		}
		if ua.SchoolRoles != nil {
			s.SchoolRoles = ua.SchoolRoles
		}
		return nil
	})
}

func (svc *service) Archive(ctx context.Context, id string) (Staff, error) {
	return svc.update(ctx, id, func(s *Staff) error {
		s.Status = StatusArchived
		return nil
	})
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStaffByID(ctx, ids...)
}

func categoryValidationError(err error) error {
	if errors.Cause(err) == ident.ErrUnknownCategory {
		return core.NewValidationError(err, core.FieldError{Field: "category", Error: err.Error()})
	}
	return err
}
