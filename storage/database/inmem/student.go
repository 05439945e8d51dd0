package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/ident"
	"github.com/ccschool/schooladmin/core/student"
)

type studentRepository struct {
	db     *studentTable
	prefix string
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student, prefix: db.prefix}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, s.Clone())
	}
	return students
}

// nextID counts the students of the enrolment year and never goes below the last
// number handed out, so IDs of deleted students are not reused. Caller must hold the write lock.
func (repo *studentRepository) nextID(enrolmentDate string) (string, error) {
	year, err := ident.Year(enrolmentDate)
	if err != nil {
		return "", err
	}
	dates := make([]string, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		dates = append(dates, s.EnrolmentDate)
	}
	n := ident.CountInYear(year, dates)
	if last := repo.db.seq[year]; last > n {
		n = last
	}
	for {
		n++
		id := ident.FormatStudentID(repo.prefix, year, n)
		_, retired := repo.db.retired[id]
		if _, exists := repo.db.table[id]; !exists && !retired {
			repo.db.seq[year] = n
			return id, nil
		}
	}
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	id, err := repo.nextID(s.EnrolmentDate)
	if err != nil {
		return student.Student{}, err
	}
	s.ID = id
	stored := s.Clone()
	repo.db.table[s.ID] = &stored
	return s.Clone(), nil
}

// insertStudent stores `s` under its own ID, replacing any existing record.
func (repo *studentRepository) insertStudent(s student.Student) {
	repo.db.Lock()
	defer repo.db.Unlock()

	stored := s.Clone()
	repo.db.table[s.ID] = &stored
}

func (repo *studentRepository) GetStudent(ctx context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return s.Clone(), nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter student.QueryFilter) ([]student.Student, error) {
	repo.db.RLock()
	all := repo.query()
	repo.db.RUnlock()

	students := make([]student.Student, 0, len(all))
	for _, s := range all {
		if matchStudent(s, filter) {
			students = append(students, s)
		}
	}
	sortStudents(students, filter.Orderings)
	return students, nil
}

func matchStudent(s student.Student, filter student.QueryFilter) bool {
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(s.Name), search) && !strings.Contains(strings.ToLower(s.ID), search) {
			return false
		}
	}
	if filter.Class != "" && s.CurrentClass != filter.Class {
		return false
	}
	if filter.Status != "" && s.Status != filter.Status {
		return false
	}
	return true
}

// sortStudents orders by the requested fields, then by ID.
func sortStudents(students []student.Student, orderings []core.Ordering) {
	sort.SliceStable(students, func(i, j int) bool {
		a, b := students[i], students[j]
		for _, ord := range orderings {
			var x, y string
			switch ord.Field {
			case "name":
				x, y = a.Name, b.Name
			case "enrolment_date":
				x, y = a.EnrolmentDate, b.EnrolmentDate
			case "current_class":
				ra, rb := student.ClassRank(a.CurrentClass), student.ClassRank(b.CurrentClass)
				if ra != rb {
					return (ra < rb) == ord.Ascending
				}
				continue
			case "id":
				x, y = a.ID, b.ID
			default:
				continue
			}
			if x != y {
				return (x < y) == ord.Ascending
			}
		}
		return a.ID < b.ID
	})
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, id string, fn func(*student.Student) error) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	s := orig.Clone()
	if err := fn(&s); err != nil {
		return student.Student{}, err
	}
	s.ID = id // not updatable
	repo.db.table[id] = &s
	return s.Clone(), nil
}

func (repo *studentRepository) UpdateClass(ctx context.Context, class string, fn func([]*student.Student) error) ([]student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	members := make([]*student.Student, 0)
	for _, s := range repo.db.table {
		if s.CurrentClass == class && !s.IsArchived() {
			c := s.Clone()
			members = append(members, &c)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	if err := fn(members); err != nil {
		return nil, err
	}
	updated := make([]student.Student, 0, len(members))
	for _, s := range members {
		repo.db.table[s.ID] = s
		updated = append(updated, s.Clone())
	}
	return updated, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		if _, ok := repo.db.table[id]; ok {
			repo.db.retired[id] = struct{}{}
			delete(repo.db.table, id)
		}
	}
	return nil
}
