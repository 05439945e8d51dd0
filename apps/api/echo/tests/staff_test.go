package tests

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccschool/schooladmin/core/ident"
	"github.com/ccschool/schooladmin/core/staff"
)

func staffPath(number string) string {
	return "/v1/staff/" + url.PathEscape(number)
}

func Test_staffApi_query(t *testing.T) {
	e := setup(t)

	numbers := func(path string) []string {
		rec := e.do(http.MethodGet, path)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var members []staff.Staff
		unmarshall(t, rec, &members)
		out := make([]string, 0, len(members))
		for _, s := range members {
			out = append(out, s.StaffNumber)
		}
		return out
	}

	assert.Equal(t, []string{"CCS/A/001", "CCS/M/001", "CCS/T/001", "CCS/T/002", "CCS/T/003"}, numbers("/v1/staff"))
	assert.Equal(t, []string{"CCS/T/001", "CCS/T/002", "CCS/T/003"}, numbers("/v1/staff?category=Teaching"))
	assert.Equal(t, []string{"CCS/T/002"}, numbers("/v1/staff?search=grace"))
	assert.Equal(t, []string{}, numbers("/v1/staff?category=ProfessionalSupport"))

	tests := []httpTest{
		{
			name:     "next number",
			method:   http.MethodGet,
			path:     "/v1/staff/next-number?category=Teaching",
			wantCode: http.StatusOK,
			wantData: []byte(`{"staff_number": "CCS/T/004"}`),
		},
		{
			name:     "next number: empty category",
			method:   http.MethodGet,
			path:     "/v1/staff/next-number?category=ProfessionalSupport",
			wantCode: http.StatusOK,
			wantData: []byte(`{"staff_number": "CCS/P/001"}`),
		},
		{
			name:     "next number: unknown category",
			method:   http.MethodGet,
			path:     "/v1/staff/next-number?category=Catering",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"category": "unknown staff category"}`),
		},
		{
			name:     "query: unknown status",
			method:   http.MethodGet,
			path:     "/v1/staff?status=bogus",
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"status": "status must be one of active or archived"}`),
		},
		{
			name:     "categories",
			method:   http.MethodGet,
			path:     "/v1/staff/categories",
			wantCode: http.StatusOK,
			wantData: marshallObj(t, ident.StaffCategories),
		},
		{
			name:     "retrieve: not found",
			method:   http.MethodGet,
			path:     staffPath("CCS/T/099"),
			wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
	}
	runHTTPTests(t, e, tests)

	rec := e.do(http.MethodGet, staffPath("CCS/T/002"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var s staff.Staff
	unmarshall(t, rec, &s)
	assert.Equal(t, "Mrs. Grace Mensah", s.Name)
	assert.Equal(t, "Nursery 2", s.AssignedClass)

	// by ID
	rec = e.do(http.MethodGet, "/v1/staff/"+s.ID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func Test_staffApi_lifecycle(t *testing.T) {
	e := setup(t)

	data := staff.NewStaff{
		Name:                  "Mrs. Akosua Darko",
		Category:              ident.Administration,
		EmploymentYear:        2024,
		EmploymentType:        "Full-time",
		Qualifications:        []string{"HND Accounting"},
		Contact:               "024-555-1212",
		Email:                 "A.Darko@ccschool.edu.gh",
		EmergencyContactName:  "Mr. Darko",
		EmergencyContactPhone: "024-555-1313",
		SchoolRoles:           []string{"Accounts Clerk"},
	}
	rec := e.do(http.MethodPost, "/v1/staff", marshallObj(t, data))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var s staff.Staff
	unmarshall(t, rec, &s)
	assert.Equal(t, "CCS/A/002", s.StaffNumber)
	assert.Equal(t, "a.darko@ccschool.edu.gh", s.Email)
	assert.Equal(t, staff.EmergencyContact{Name: "Mr. Darko", Phone: "024-555-1313"}, s.EmergencyContact)
	assert.Equal(t, staff.StatusActive, s.Status)

	tests := []httpTest{
		{
			name:     "assignment: blank subject",
			method:   http.MethodPut,
			path:     staffPath("CCS/T/003") + "/assignment",
			body:     []byte(`{"assigned_subjects": ["Mathematics", " "]}`),
			wantCode: http.StatusBadRequest,
		},
	}
	runHTTPTests(t, e, tests)

	rec = e.do(http.MethodPost, "/v1/staff",
		[]byte(`{"name": "X", "category": "Catering", "employment_year": 1900, "employment_type": "Full-time", "contact": "1"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var fldErrs map[string]string
	unmarshall(t, rec, &fldErrs)
	assert.Equal(t, "category must be one of Teaching, Administration, ProfessionalSupport or MaintenanceOperations", fldErrs["category"])
	assert.Contains(t, fldErrs, "employment_year")
	assert.Len(t, fldErrs, 2)

	rec = e.do(http.MethodPut, staffPath("CCS/T/003")+"/assignment",
		[]byte(`{"assigned_class": "Basic 4", "assigned_subjects": ["Mathematics", "Science"]}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	unmarshall(t, rec, &s)
	assert.Equal(t, "Basic 4", s.AssignedClass)
	assert.Equal(t, []string{"Mathematics", "Science"}, s.AssignedSubjects)

	rec = e.do(http.MethodPost, staffPath("CCS/T/003")+"/archive")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	unmarshall(t, rec, &s)
	assert.Equal(t, staff.StatusArchived, s.Status)

	// archived members still count towards the next number
	rec = e.do(http.MethodGet, "/v1/staff/next-number?category=Teaching")
	assert.JSONEq(t, `{"staff_number": "CCS/T/004"}`, rec.Body.String())

	rec = e.do(http.MethodDelete, staffPath("CCS/T/003"))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = e.do(http.MethodGet, staffPath("CCS/T/003"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// the deleted number is not handed out again
	rec = e.do(http.MethodPost, "/v1/staff", marshallObj(t, staff.NewStaff{
		Name:           "Mr. Yaw Mensah",
		Category:       ident.Teaching,
		EmploymentYear: 2024,
		EmploymentType: "Contract",
		Contact:        "020-000-0000",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	unmarshall(t, rec, &s)
	assert.Equal(t, "CCS/T/004", s.StaffNumber)
}
