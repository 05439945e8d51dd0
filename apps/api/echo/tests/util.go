package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	echoapi "github.com/ccschool/schooladmin/apps/api/echo"
	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/staff"
	"github.com/ccschool/schooladmin/core/student"
	emailsvc "github.com/ccschool/schooladmin/services/email"
	logsvc "github.com/ccschool/schooladmin/services/logger"
	inmemdb "github.com/ccschool/schooladmin/storage/database/inmem"
	"github.com/ccschool/schooladmin/tests"
)

type env struct {
	app     echoapi.Server
	mailSvc *emailsvc.ConsoleServiceMock
}

// setup returns a server backed by a freshly seeded store.
func setup(t *testing.T) env {
	t.Helper()
	conf := &core.Config{
		Env:          "TEST",
		TestMode:     true,
		AppName:      "School Admin",
		SchoolName:   "Christ Community School",
		IDPrefix:     "CCS",
		Currency:     "GHS",
		AcademicYear: "2024/2025",
		CurrentTerm:  "First Term",
		Server:       core.ServerConfig{DisableReqLogs: true},
	}
	logger := logsvc.NewNopLogger()

	db := testutil.PrepareDB(t, conf)
	validate, translator := testutil.PrepareValidator()
	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		StudentSvc: student.NewService(inmemdb.NewStudentRepository(db), mailSvc, testutil.LoadSchedule(t), testutil.LoadCurriculum(t), conf),
		StaffSvc:   staff.NewService(inmemdb.NewStaffRepository(db), conf),
		Validate:   validate,
		Translator: translator,
	})
	return env{app: app, mailSvc: mailSvc}
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
	wantData []byte
}

func (e env) do(method, path string, data ...[]byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.app.ServeHTTP(rec, req)
	return rec
}

// upload posts `content` as the multipart file field `file`.
func (e env) upload(t *testing.T, path string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if content != nil {
		part, err := w.CreateFormFile("file", "scores.xlsx")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.app.ServeHTTP(rec, req)
	return rec
}

func scoreSheet(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func unmarshall(t *testing.T, rec *httptest.ResponseRecorder, obj interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), obj); err != nil {
		t.Fatalf("unmarshall() failed: %v; body %s", err, rec.Body.String())
	}
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func runHTTPTests(t *testing.T, e env, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkCodeAndData(t, tt, e.do(tt.method, tt.path, tt.body))
		})
	}
}
