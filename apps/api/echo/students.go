package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ccschool/schooladmin/core/student"
)

var errStudentNotFoundInCtx = errors.New("student object not found in echo.Context")

type studentApi struct {
	svc      student.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, svc student.Service, validate *validator.Validate) {
	api := studentApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/students")
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.DELETE("", api.destroyMultiple)
	sg.GET("/next-id", api.nextID)

	// detail endpoints
	dg := sg.Group("/:id", studentObjectMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.POST("/archive", api.archive)
	dg.POST("/promote", api.promote)
	dg.POST("/fees", api.addFeeItem)
	dg.POST("/bill", api.bill)
	dg.POST("/discounts", api.applyDiscount)
	dg.POST("/payments", api.recordPayment)
	dg.GET("/statement", api.statement)
	dg.GET("/attendance", api.attendance)
	dg.POST("/attendance", api.recordAttendance)

	// without :term the current term is used
	dg.PUT("/grades", api.setScore)
	dg.PUT("/grades/comments", api.setComments)
	dg.GET("/grades/report", api.reportCard)
	dg.PUT("/grades/:term", api.setScore)
	dg.PUT("/grades/:term/comments", api.setComments)
	dg.GET("/grades/:term/report", api.reportCard)
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	filter.Orderings = bindOrderings(ctx)

	students, err := api.svc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) nextID(ctx echo.Context) error {
	id, err := api.svc.PreviewID(ctx.Request().Context(), ctx.QueryParam("enrolment_date"))
	if err != nil {
		return errors.Wrap(err, "previewing student ID")
	}
	return ctx.JSON(http.StatusOK, NextIDResponse{ID: id})
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), s.ID); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting students")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) archive(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	s, err = api.svc.Archive(ctx.Request().Context(), s.ID)
	if err != nil {
		return errors.Wrap(err, "archiving student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) promote(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data student.Promotion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Promotion")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err = api.svc.Promote(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "promoting student")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *studentApi) addFeeItem(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data student.NewFeeItem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeeItem")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err = api.svc.AddFeeItem(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "adding fee item")
	}
	return ctx.JSON(http.StatusCreated, s.Financials)
}

func (api *studentApi) bill(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data BillRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BillRequest")
	}
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	s, err = api.svc.BillFromSchedule(ctx.Request().Context(), s.ID, data.Date)
	if err != nil {
		return errors.Wrap(err, "billing student")
	}
	return ctx.JSON(http.StatusCreated, s.Financials)
}

func (api *studentApi) applyDiscount(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data student.NewDiscount
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDiscount")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err = api.svc.ApplyDiscount(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "applying discount")
	}
	return ctx.JSON(http.StatusCreated, s.Financials)
}

func (api *studentApi) recordPayment(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data student.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err = api.svc.RecordPayment(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusCreated, s.Financials)
}

func (api *studentApi) statement(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	st, err := api.svc.Statement(ctx.Request().Context(), s.ID)
	if err != nil {
		return errors.Wrap(err, "building statement")
	}
	return ctx.JSON(http.StatusOK, newStatementResponse(st))
}

func (api *studentApi) attendance(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newAttendanceResponse(s))
}

func (api *studentApi) recordAttendance(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data student.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err = api.svc.RecordAttendance(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusCreated, newAttendanceResponse(s))
}

func (api *studentApi) setScore(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data student.ScoreUpdate
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScoreUpdate")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	gr, err := api.svc.SetScore(ctx.Request().Context(), s.ID, ctx.Param("term"), data)
	if err != nil {
		return errors.Wrap(err, "setting score")
	}
	return ctx.JSON(http.StatusOK, gr)
}

func (api *studentApi) setComments(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}

	var data student.Comments
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Comments")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	gr, err := api.svc.SetComments(ctx.Request().Context(), s.ID, ctx.Param("term"), data)
	if err != nil {
		return errors.Wrap(err, "setting comments")
	}
	return ctx.JSON(http.StatusOK, gr)
}

func (api *studentApi) reportCard(ctx echo.Context) error {
	s, err := getContextStudent(ctx)
	if err != nil {
		return err
	}
	card, err := api.svc.ReportCard(ctx.Request().Context(), s.ID, ctx.Param("term"))
	if err != nil {
		return errors.Wrap(err, "building report card")
	}
	return ctx.JSON(http.StatusOK, card)
}

func studentObjectMiddleware(svc student.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			s, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == student.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding student by ID")
			}
			ctx.Set("object", s)
			return next(ctx)
		}
	}
}

func getContextStudent(ctx echo.Context) (student.Student, error) {
	s, ok := ctx.Get("object").(student.Student)
	if !ok {
		return student.Student{}, errors.Wrap(errStudentNotFoundInCtx, "retrieving object from context")
	}
	return s, nil
}

type (
	NextIDResponse struct {
		ID string `json:"id"`
	}

	AttendanceResponse struct {
		Records []student.Attendance      `json:"records"`
		Summary student.AttendanceSummary `json:"summary"`
	}

	BillRequest struct {
		Date string `json:"date" validate:"required,datetime=2006-01-02"`
	}

	DestroyMultipleRequest struct {
		IDs []string `query:"id"`
	}
)

func newAttendanceResponse(s student.Student) AttendanceResponse {
	records := s.Attendance
	if records == nil {
		records = []student.Attendance{}
	}
	return AttendanceResponse{Records: records, Summary: student.SummarizeAttendance(records)}
}
