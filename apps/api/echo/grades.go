package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/grading"
	"github.com/ccschool/schooladmin/core/student"
	"github.com/ccschool/schooladmin/services/scoresheet"
)

var scoreSheetField = "file"

type gradesApi struct {
	svc      student.Service
	validate *validator.Validate
}

func registerGradesAPI(g *echo.Group, svc student.Service, validate *validator.Validate) {
	api := gradesApi{
		svc:      svc,
		validate: validate,
	}

	gg := g.Group("/grades")
	gg.GET("/classify", api.classify)

	// without :term the current term is used
	gg.POST("/import", api.importScores)
	gg.POST("/rank", api.rankClass)
	gg.POST("/:term/import", api.importScores)
	gg.POST("/:term/rank", api.rankClass)
}

func (api *gradesApi) classify(ctx echo.Context) error {
	total, err := strconv.Atoi(ctx.QueryParam("total"))
	if err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "total", Error: "total must be a whole number"})
	}
	return ctx.JSON(http.StatusOK, ClassifyResponse{Total: total, Grade: grading.Classify(total)})
}

// importScores reads a multipart xlsx score sheet from the `file` field.
func (api *gradesApi) importScores(ctx echo.Context) error {
	fh, err := ctx.FormFile(scoreSheetField)
	if err != nil {
		return errMissingFile
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening score sheet")
	}
	defer f.Close()

	entries, err := scoresheet.Parse(f)
	if err != nil {
		return errors.Wrap(err, "parsing score sheet")
	}

	res, err := api.svc.ImportScores(ctx.Request().Context(), ctx.Param("term"), entries)
	if err != nil {
		return errors.Wrap(err, "importing scores")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *gradesApi) rankClass(ctx echo.Context) error {
	var data RankRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to RankRequest")
	}
	data.Class = core.CleanString(data.Class)
	if err := api.validate.Struct(&data); err != nil {
		return err
	}

	positions, err := api.svc.RankClass(ctx.Request().Context(), data.Class, ctx.Param("term"))
	if err != nil {
		return errors.Wrap(err, "ranking class")
	}
	return ctx.JSON(http.StatusOK, positions)
}

type (
	ClassifyResponse struct {
		Total int `json:"total"`
		grading.Grade
	}

	RankRequest struct {
		Class string `json:"class" validate:"required,schoolclass"`
	}
)
