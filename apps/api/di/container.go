package di

import (
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/ccschool/schooladmin/apps/api/echo"
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

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewConsoleLogger(os.Stdout, "API", conf), conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	logger := logsvc.NewRollbarLogger(logsvc.NewConsoleLogger(os.Stdout, "DB", conf), conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newDB opens the in-memory store and loads the seed data into it.
func newDB(conf *core.Config, loggerParam DBLoggerParam) *inmemdb.DB {
	db := inmemdb.Open(conf)

	f, err := appfs.Open(appfs.SeedFile, conf.SeedPath)
	if err != nil {
		loggerParam.Logger.Fatal("opening seed data", err)
	}
	defer f.Close()

	if err := db.Seed(f); err != nil {
		loggerParam.Logger.Fatal("seeding database", err)
	}
	return db
}

func newFeeSchedule(conf *core.Config, logger core.Logger) finance.Schedule {
	f, err := appfs.Open(appfs.FeeScheduleFile, conf.FeeSchedulePath)
	if err != nil {
		logger.Fatal("opening fee schedule", err)
	}
	defer f.Close()

	schedule, err := finance.LoadSchedule(f)
	if err != nil {
		logger.Fatal("loading fee schedule", err)
	}
	return schedule
}

func newCurriculum(conf *core.Config, logger core.Logger) grading.Curriculum {
	f, err := appfs.Open(appfs.CurriculumFile, conf.CurriculumPath)
	if err != nil {
		logger.Fatal("opening curriculum", err)
	}
	defer f.Close()

	curriculum, err := grading.LoadCurriculum(f)
	if err != nil {
		logger.Fatal("loading curriculum", err)
	}
	return curriculum
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newServerDeps(
	conf *core.Config,
	logger core.Logger,
	studentSvc student.Service,
	staffSvc staff.Service,
	validate *validator.Validate,
	translator ut.Translator,
) echoapi.ServerDeps {
	return echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		StudentSvc: studentSvc,
		StaffSvc:   staffSvc,
		Validate:   validate,
		Translator: translator,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newFeeSchedule))
	must(c.Provide(newCurriculum))
	must(c.Provide(newEmailService))
	must(c.Provide(inmemdb.NewStudentRepository))
	must(c.Provide(inmemdb.NewStaffRepository))
	must(c.Provide(core.NewValidator))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(student.NewService))
	must(c.Provide(staff.NewService))
	must(c.Provide(newServerDeps))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
