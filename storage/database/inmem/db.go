// Package inmemdb is the in-memory store of the application. Every table is guarded by
// its own RWMutex; identifiers are assigned inside the table's write lock.
package inmemdb

import (
	"sync"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/ident"
	"github.com/ccschool/schooladmin/core/staff"
	"github.com/ccschool/schooladmin/core/student"
)

type (
	DB struct {
		prefix  string
		student *studentTable
		staff   *staffTable
	}

	studentTable struct {
		sync.RWMutex
		table   map[string]*student.Student
		seq     map[int]int         // last sequence number handed out, per enrolment year
		retired map[string]struct{} // IDs of deleted students
	}

	staffTable struct {
		sync.RWMutex
		table   map[string]*staff.Staff
		seq     map[ident.StaffCategory]int // last sequence number handed out, per category
		retired map[string]struct{}         // staff numbers of deleted members
	}
)

func Open(conf *core.Config) *DB {
	return &DB{
		prefix: conf.IDPrefix,
		student: &studentTable{
			table:   make(map[string]*student.Student),
			seq:     make(map[int]int),
			retired: make(map[string]struct{}),
		},
		staff: &staffTable{
			table:   make(map[string]*staff.Staff),
			seq:     make(map[ident.StaffCategory]int),
			retired: make(map[string]struct{}),
		},
	}
}
