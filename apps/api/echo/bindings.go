package echoapi

import (
	"encoding/json"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/ccschool/schooladmin/core"
	"github.com/ccschool/schooladmin/core/finance"
	"github.com/ccschool/schooladmin/core/student"
)

var orderingParam = "ordering"

// bindOrderings reads `?ordering=name,-enrolment_date`.
func bindOrderings(ctx echo.Context) []core.Ordering {
	return core.ParseOrderings(ctx.QueryParam(orderingParam))
}

type (
	SuccessResponse struct {
		Success string `json:"success"`
	}

	// amount renders money with two decimals, e.g. "350.00".
	amount decimal.Decimal

	SummaryResponse struct {
		TotalFees      amount `json:"total_fees"`
		TotalDiscounts amount `json:"total_discounts"`
		Paid           amount `json:"paid"`
		Balance        amount `json:"balance"`
	}

	StatementResponse struct {
		StudentID    string          `json:"student_id"`
		Name         string          `json:"name"`
		CurrentClass string          `json:"current_class"`
		Currency     string          `json:"currency"`
		Record       finance.Record  `json:"record"`
		Summary      SummaryResponse `json:"summary"`
		NetBill      amount          `json:"net_bill"`
	}

	TotalsResponse struct {
		Students  int    `json:"students"`
		Currency  string `json:"currency"`
		TotalFees amount `json:"total_fees"`
		Paid      amount `json:"paid"`
		Balance   amount `json:"balance"`
	}
)

func (a amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(decimal.Decimal(a).StringFixed(2))
}

func newSummaryResponse(s finance.Summary) SummaryResponse {
	return SummaryResponse{
		TotalFees:      amount(s.TotalFees),
		TotalDiscounts: amount(s.TotalDiscounts),
		Paid:           amount(s.Paid),
		Balance:        amount(s.Balance),
	}
}

func newStatementResponse(st student.Statement) StatementResponse {
	return StatementResponse{
		StudentID:    st.StudentID,
		Name:         st.Name,
		CurrentClass: st.CurrentClass,
		Currency:     st.Currency,
		Record:       st.Record,
		Summary:      newSummaryResponse(st.Summary),
		NetBill:      amount(st.NetBill),
	}
}

func newTotalsResponse(t finance.Totals, currency string) TotalsResponse {
	return TotalsResponse{
		Students:  t.Students,
		Currency:  currency,
		TotalFees: amount(t.TotalFees),
		Paid:      amount(t.Paid),
		Balance:   amount(t.Balance),
	}
}
