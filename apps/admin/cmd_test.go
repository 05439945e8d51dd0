package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/staff"
	"github.com/ccschool/schooladmin/core/student"
	emailsvc "github.com/ccschool/schooladmin/services/email"
	logsvc "github.com/ccschool/schooladmin/services/logger"
	inmemdb "github.com/ccschool/schooladmin/storage/database/inmem"
	"github.com/ccschool/schooladmin/tests"
)

const testRecord = `
fee_items:
  - {category: Tuition, amount: "450", date: "2024-09-01"}
  - {category: Snack and Lunch, amount: "180", date: "2024-09-01"}
  - {category: Stationery & Toiletries, amount: "75", date: "2024-09-01"}
discounts:
  - {type: Sibling, amount: "50"}
payments:
  - {date: "2024-09-15", amount: "300", receipt: RCPT001-1}
`

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	conf := &core.Config{IDPrefix: "CCS", Currency: "GHS", SchoolName: "Christ Community School"}
	logger := logsvc.NewNopLogger()
	db := testutil.PrepareDB(t, conf)
	schedule := testutil.LoadSchedule(t)

	var out bytes.Buffer
	return &commandLine{
		conf:       conf,
		studentSvc: student.NewService(inmemdb.NewStudentRepository(db), emailsvc.NewConsoleServiceMock(conf, logger), schedule, testutil.LoadCurriculum(t), conf),
		staffSvc:   staff.NewService(inmemdb.NewStaffRepository(db), conf),
		schedule:   schedule,
		out:        &out,
	}, &out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantOut    string
	wantErrStr string
}

func runCLITests(t *testing.T, tests []cliTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli, out := setup(t)
			err := cli.run(tt.args)
			if tt.wantErrStr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErrStr) {
					t.Errorf("cli.run() error = %v, wantErr %q", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
			if got := out.String(); got != tt.wantOut {
				t.Errorf("cli.run() out = %q, want %q", got, tt.wantOut)
			}
		})
	}
}

func Test_commandLine_classify(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "A1", args: []string{"classify", "86"}, wantOut: "86: A1 (Excellent)\n"},
		{name: "B3 lower bound", args: []string{"classify", "70"}, wantOut: "70: B3 (Good)\n"},
		{name: "F9", args: []string{"classify", "0"}, wantOut: "0: F9 (Fail)\n"},
		{name: "not a number", args: []string{"classify", "lol"}, wantErrStr: `total must be a whole number (got "lol")`},
		{name: "no args", args: []string{"classify"}, wantErrStr: "accepts 1 arg(s), received 0"},
		{name: "unknown command", args: []string{"lol"}, wantErrStr: `unknown command "lol"`},
	})
}

func Test_commandLine_summary(t *testing.T) {
	openFileFunc = func(name string) (io.ReadCloser, error) {
		if name != "record.yaml" {
			return nil, os.ErrNotExist
		}
		return io.NopCloser(strings.NewReader(testRecord)), nil
	}
	defer func() { openFileFunc = func(name string) (io.ReadCloser, error) { return os.Open(name) } }()

	runCLITests(t, []cliTest{
		{
			name: "summary",
			args: []string{"summary", "-f", "record.yaml"},
			wantOut: "Total fees       GHS 705.00\n" +
				"Total discounts  GHS 50.00\n" +
				"Net bill         GHS 655.00\n" +
				"Paid             GHS 300.00\n" +
				"Balance          GHS 355.00\n",
		},
		{name: "missing file", args: []string{"summary", "-f", "nope.yaml"}, wantErrStr: "opening record"},
		{name: "no flag", args: []string{"summary"}, wantErrStr: `required flag(s) "file" not set`},
	})
}

func Test_commandLine_schedule(t *testing.T) {
	runCLITests(t, []cliTest{
		{
			name:    "creche",
			args:    []string{"schedule", "Creche"},
			wantOut: "Tuition          GHS 300.00\nSnack and Lunch  GHS 100.00\n",
		},
		{name: "unknown class", args: []string{"schedule", "Basic 10"}, wantErrStr: "no fees configured for this class"},
	})
}

func Test_commandLine_staffNumber(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "from store", args: []string{"staffnumber", "--category", "Teaching"}, wantOut: "CCS/T/004\n"},
		{name: "empty category", args: []string{"staffnumber", "-c", "ProfessionalSupport"}, wantOut: "CCS/P/001\n"},
		{name: "given count", args: []string{"staffnumber", "--category", "Administration", "--count", "11"}, wantOut: "CCS/A/012\n"},
		{name: "zero count", args: []string{"staffnumber", "-c", "MaintenanceOperations", "-n", "0"}, wantOut: "CCS/M/001\n"},
		{name: "unknown category", args: []string{"staffnumber", "-c", "Catering"}, wantErrStr: "unknown staff category"},
		{name: "no category", args: []string{"staffnumber"}, wantErrStr: `required flag(s) "category" not set`},
	})
}

func Test_commandLine_studentID(t *testing.T) {
	runCLITests(t, []cliTest{
		{name: "seeded year", args: []string{"studentid", "--date", "2024-03-01"}, wantOut: "CCS2024004\n"},
		{name: "new year", args: []string{"studentid", "-d", "2026-01-05"}, wantOut: "CCS2026001\n"},
		{name: "bad date", args: []string{"studentid", "-d", "soon"}, wantErrStr: `invalid date: "soon"`},
	})
}
