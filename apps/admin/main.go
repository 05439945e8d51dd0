package main

import (
	"os"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/finance"
	"github.com/ccschool/schooladmin/core/grading"
	"github.com/ccschool/schooladmin/core/staff"
	"github.com/ccschool/schooladmin/core/student"
	appfs "github.com/ccschool/schooladmin/fs"
	emailsvc "github.com/ccschool/schooladmin/services/email"
	logsvc "github.com/ccschool/schooladmin/services/logger"
	inmemdb "github.com/ccschool/schooladmin/storage/database/inmem"
)

var logger core.Logger

func main() {
	conf := core.NewConfig()
	logger = logsvc.NewConsoleLogger(os.Stderr, "ADMIN", conf)

	// set up DB
	db := inmemdb.Open(conf)
	seed, err := appfs.Open(appfs.SeedFile, conf.SeedPath)
	errAndDie("opening seed data", err)
	errAndDie("seeding database", db.Seed(seed))
	_ = seed.Close()

	f, err := appfs.Open(appfs.FeeScheduleFile, conf.FeeSchedulePath)
	errAndDie("opening fee schedule", err)
	schedule, err := finance.LoadSchedule(f)
	errAndDie("loading fee schedule", err)
	_ = f.Close()

	f, err = appfs.Open(appfs.CurriculumFile, conf.CurriculumPath)
	errAndDie("opening curriculum", err)
	curriculum, err := grading.LoadCurriculum(f)
	errAndDie("loading curriculum", err)
	_ = f.Close()

	// start CLI
	cli := commandLine{
		conf:       conf,
		studentSvc: student.NewService(inmemdb.NewStudentRepository(db), emailsvc.NewConsoleService(conf, logger), schedule, curriculum, conf),
		staffSvc:   staff.NewService(inmemdb.NewStaffRepository(db), conf),
		schedule:   schedule,
		out:        os.Stdout,
	}
	if err := cli.run(os.Args[1:]); err != nil {
		logger.Error("command failed", err)
		os.Exit(1)
	}
}

func errAndDie(msg string, err error) {
	if err != nil {
		logger.Fatal(msg, err)
	}
}
