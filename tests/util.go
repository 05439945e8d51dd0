package testutil

import (
	"testing"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/finance"
	"github.com/ccschool/schooladmin/core/grading"
	"github.com/ccschool/schooladmin/core/staff"
	"github.com/ccschool/schooladmin/core/student"
	appfs "github.com/ccschool/schooladmin/fs"
	inmemdb "github.com/ccschool/schooladmin/storage/database/inmem"
)

// PrepareDB returns a fresh in-memory DB loaded with the embedded seed data.
func PrepareDB(t *testing.T, conf *core.Config) *inmemdb.DB {
	t.Helper()
	f, err := appfs.Open(appfs.SeedFile, "")
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	defer f.Close()

	db := inmemdb.Open(conf)
	if err := db.Seed(f); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// LoadSchedule returns the embedded fee schedule.
func LoadSchedule(t *testing.T) finance.Schedule {
	t.Helper()
	f, err := appfs.Open(appfs.FeeScheduleFile, "")
	if err != nil {
		t.Fatalf("LoadSchedule() failed: %v", err)
	}
	defer f.Close()

	schedule, err := finance.LoadSchedule(f)
	if err != nil {
		t.Fatalf("LoadSchedule() failed: %v", err)
	}
	return schedule
}

// LoadCurriculum returns the embedded curriculum.
func LoadCurriculum(t *testing.T) grading.Curriculum {
	t.Helper()
	f, err := appfs.Open(appfs.CurriculumFile, "")
	if err != nil {
		t.Fatalf("LoadCurriculum() failed: %v", err)
	}
	defer f.Close()

	curriculum, err := grading.LoadCurriculum(f)
	if err != nil {
		t.Fatalf("LoadCurriculum() failed: %v", err)
	}
	return curriculum
}

// PrepareValidator returns a validator with every custom tag registered.
func PrepareValidator() (*validator.Validate, ut.Translator) {
	validate := core.NewValidator()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	staff.InitValidators(validate, translator)
	return validate, translator
}
