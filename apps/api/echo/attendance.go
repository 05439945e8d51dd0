package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ccschool/schooladmin/core/student"
)

type attendanceApi struct {
	svc      student.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, svc student.Service, validate *validator.Validate) {
	api := attendanceApi{
		svc:      svc,
		validate: validate,
	}

	ag := g.Group("/attendance")
	ag.POST("/register", api.markRegister)
}

// markRegister records a class's register for one day and returns the day's counts.
func (api *attendanceApi) markRegister(ctx echo.Context) error {
	var data student.Register
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Register")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	day, err := api.svc.MarkRegister(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "marking register")
	}
	return ctx.JSON(http.StatusCreated, RegisterResponse{Class: data.Class, Date: data.Date, Summary: day})
}

type RegisterResponse struct {
	Class   string                    `json:"class"`
	Date    string                    `json:"date"`
	Summary student.AttendanceSummary `json:"summary"`
}
