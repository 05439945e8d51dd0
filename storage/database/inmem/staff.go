package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/ccschool/schooladmin/core/ident"
	"github.com/ccschool/schooladmin/core/staff"
)

type staffRepository struct {
	db     *staffTable
	prefix string
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *DB) staff.Repository {
	return &staffRepository{db: db.staff, prefix: db.prefix}
}

func (repo *staffRepository) query() []staff.Staff {
	members := make([]staff.Staff, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		members = append(members, s.Clone())
	}
	return members
}

// count includes archived members. Caller must hold a lock.
func (repo *staffRepository) count(category ident.StaffCategory) int {
	var n int
	for _, s := range repo.db.table {
		if s.Category == category {
			n++
		}
	}
	return n
}

func (repo *staffRepository) numberTaken(number string) bool {
	if _, retired := repo.db.retired[number]; retired {
		return true
	}
	for _, s := range repo.db.table {
		if s.StaffNumber == number {
			return true
		}
	}
	return false
}

// nextNumber counts the members of the category and never goes below the last number
// handed out. Numbers of deleted members are skipped. Caller must hold the write lock.
func (repo *staffRepository) nextNumber(category ident.StaffCategory) (string, error) {
	n := repo.count(category)
	if last := repo.db.seq[category]; last > n {
		n = last
	}
	for {
		number, err := ident.NextStaffNumber(repo.prefix, category, n)
		if err != nil {
			return "", err
		}
		n++
		if !repo.numberTaken(number) {
			repo.db.seq[category] = n
			return number, nil
		}
	}
}

func (repo *staffRepository) CreateStaff(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	number, err := repo.nextNumber(s.Category)
	if err != nil {
		return staff.Staff{}, err
	}
	s.ID = uuid.NewString()
	s.StaffNumber = number
	stored := s.Clone()
	repo.db.table[s.ID] = &stored
	return s.Clone(), nil
}

// insertStaff stores `s` with its own staff number; an ID is generated when missing.
func (repo *staffRepository) insertStaff(s staff.Staff) staff.Staff {
	repo.db.Lock()
	defer repo.db.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	stored := s.Clone()
	repo.db.table[s.ID] = &stored
	return s
}

// lookup finds a member by ID or by staff number. Caller must hold a lock.
func (repo *staffRepository) lookup(id string) (*staff.Staff, bool) {
	if s, ok := repo.db.table[id]; ok {
		return s, true
	}
	for _, s := range repo.db.table {
		if s.StaffNumber == id {
			return s, true
		}
	}
	return nil, false
}

func (repo *staffRepository) GetStaff(ctx context.Context, id string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.lookup(id); ok {
		return s.Clone(), nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) CountStaff(ctx context.Context, category ident.StaffCategory) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.count(category), nil
}

func (repo *staffRepository) QueryStaff(ctx context.Context, filter staff.QueryFilter) ([]staff.Staff, error) {
	repo.db.RLock()
	all := repo.query()
	repo.db.RUnlock()

	members := make([]staff.Staff, 0, len(all))
	for _, s := range all {
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(s.Name), search) && !strings.Contains(strings.ToLower(s.StaffNumber), search) {
				continue
			}
		}
		if filter.Category != "" && s.Category != filter.Category {
			continue
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		members = append(members, s)
	}
	sort.Slice(members, func(i, j int) bool { return members[i].StaffNumber < members[j].StaffNumber })
	return members, nil
}

func (repo *staffRepository) UpdateStaff(ctx context.Context, id string, fn func(*staff.Staff) error) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.lookup(id)
	if !ok {
		return staff.Staff{}, staff.ErrNotFound
	}
	s := orig.Clone()
	if err := fn(&s); err != nil {
		return staff.Staff{}, err
	}
	s.ID, s.StaffNumber = orig.ID, orig.StaffNumber // not updatable
	repo.db.table[s.ID] = &s
	return s.Clone(), nil
}

func (repo *staffRepository) DeleteStaffByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		if s, ok := repo.lookup(id); ok {
			repo.db.retired[s.StaffNumber] = struct{}{}
			delete(repo.db.table, s.ID)
		}
	}
	return nil
}
