package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ccschool/schooladmin/core/student"
)

type financialsApi struct {
	svc      student.Service
	currency string
}

func registerFinancialsAPI(g *echo.Group, svc student.Service, currency string) {
	api := financialsApi{
		svc:      svc,
		currency: currency,
	}

	fg := g.Group("/financials")
	fg.GET("/totals", api.totals)
}

// totals aggregates the summaries of the students matching `?class=&search=&status=`.
func (api *financialsApi) totals(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}

	totals, err := api.svc.FinancialTotals(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "computing financial totals")
	}
	return ctx.JSON(http.StatusOK, newTotalsResponse(totals, api.currency))
}
