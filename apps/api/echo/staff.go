package echoapi

import (
	"net/http"
	"net/url"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ccschool/schooladmin/core/ident"
	"github.com/ccschool/schooladmin/core/staff"
)

var errStaffNotFoundInCtx = errors.New("staff object not found in echo.Context")

type staffApi struct {
	svc      staff.Service
	validate *validator.Validate
}

func registerStaffAPI(g *echo.Group, svc staff.Service, validate *validator.Validate) {
	api := staffApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/staff")
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.DELETE("", api.destroyMultiple)
	sg.GET("/categories", api.queryCategories)
	sg.GET("/next-number", api.nextNumber)

	// detail endpoints; `:id` is the staff ID or the escaped staff number
	dg := sg.Group("/:id", staffObjectMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.DELETE("", api.destroy)
	dg.PUT("/assignment", api.updateAssignment)
	dg.POST("/archive", api.archive)
}

// Handlers

func (api *staffApi) create(ctx echo.Context) error {
	var data staff.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStaff")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating staff member")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *staffApi) query(ctx echo.Context) error {
	filter := new(staff.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []staff.Staff{})
	}

	members, err := api.svc.Query(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying staff")
	}
	if members == nil {
		members = []staff.Staff{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *staffApi) queryCategories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, ident.StaffCategories)
}

func (api *staffApi) nextNumber(ctx echo.Context) error {
	category := ident.StaffCategory(ctx.QueryParam("category"))
	number, err := api.svc.PreviewNumber(ctx.Request().Context(), category)
	if err != nil {
		return errors.Wrap(err, "previewing staff number")
	}
	return ctx.JSON(http.StatusOK, NextNumberResponse{StaffNumber: number})
}

func (api *staffApi) retrieve(ctx echo.Context) error {
	s, err := getContextStaff(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *staffApi) updateAssignment(ctx echo.Context) error {
	s, err := getContextStaff(ctx)
	if err != nil {
		return err
	}

	var data staff.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	s, err = api.svc.UpdateAssignment(ctx.Request().Context(), s.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *staffApi) archive(ctx echo.Context) error {
	s, err := getContextStaff(ctx)
	if err != nil {
		return err
	}
	s, err = api.svc.Archive(ctx.Request().Context(), s.ID)
	if err != nil {
		return errors.Wrap(err, "archiving staff member")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *staffApi) destroy(ctx echo.Context) error {
	s, err := getContextStaff(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(ctx.Request().Context(), s.ID); err != nil {
		return errors.Wrap(err, "deleting staff member")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *staffApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}
	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting staff")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func staffObjectMiddleware(svc staff.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			id, err := url.PathUnescape(ctx.Param("id"))
			if err != nil {
				return errHttpNotFound
			}
			s, err := svc.Get(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == staff.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding staff member by ID")
			}
			ctx.Set("object", s)
			return next(ctx)
		}
	}
}

func getContextStaff(ctx echo.Context) (staff.Staff, error) {
	s, ok := ctx.Get("object").(staff.Staff)
	if !ok {
		return staff.Staff{}, errors.Wrap(errStaffNotFoundInCtx, "retrieving object from context")
	}
	return s, nil
}

type NextNumberResponse struct {
	StaffNumber string `json:"staff_number"`
}
