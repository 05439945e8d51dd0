// Package finance holds a student's fee ledger: fee items, discounts and payments,
// and the summary they reduce to.
package finance

import (
	"github.com/shopspring/decimal"
)

// DiscountType is one of the closed set of discount kinds an administrator can apply.
type DiscountType string

const (
	DiscountSibling  DiscountType = "Sibling"
	DiscountStaff    DiscountType = "Staff"
	DiscountReferral DiscountType = "Referral"
	DiscountNewPupil DiscountType = "New Pupil"
	DiscountOther    DiscountType = "Other"
)

var DiscountTypes = []DiscountType{DiscountSibling, DiscountStaff, DiscountReferral, DiscountNewPupil, DiscountOther}

func (dt DiscountType) IsValid() bool {
	for _, t := range DiscountTypes {
		if dt == t {
			return true
		}
	}
	return false
}

type (
	FeeItem struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Date     string          `json:"date"`
	}

	Discount struct {
		Type        DiscountType    `json:"type"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description,omitempty"`
	}

	// Payment receipts are free-form; duplicates are not rejected.
	Payment struct {
		Date    string          `json:"date"`
		Amount  decimal.Decimal `json:"amount"`
		Receipt string          `json:"receipt"`
	}

	// Record is the financial record owned by exactly one student.
	Record struct {
		FeeItems  []FeeItem  `json:"fee_items"`
		Discounts []Discount `json:"discounts"`
		Payments  []Payment  `json:"payments"`
	}

	Summary struct {
		TotalFees      decimal.Decimal `json:"total_fees"`
		TotalDiscounts decimal.Decimal `json:"total_discounts"`
		Paid           decimal.Decimal `json:"paid"`
		Balance        decimal.Decimal `json:"balance"`
	}
)

// ComputeSummary reduces a Record to its totals.
// Balance = TotalFees - TotalDiscounts - Paid; a negative balance is a credit.
// Amounts are neither validated nor rounded.
func ComputeSummary(rec Record) Summary {
	var sum Summary
	for _, item := range rec.FeeItems {
		sum.TotalFees = sum.TotalFees.Add(item.Amount)
	}
	for _, d := range rec.Discounts {
		sum.TotalDiscounts = sum.TotalDiscounts.Add(d.Amount)
	}
	for _, p := range rec.Payments {
		sum.Paid = sum.Paid.Add(p.Amount)
	}
	sum.Balance = sum.TotalFees.Sub(sum.TotalDiscounts).Sub(sum.Paid)
	return sum
}

// NetBill is what is billed once discounts are taken off.
func (s Summary) NetBill() decimal.Decimal {
	return s.TotalFees.Sub(s.TotalDiscounts)
}

// Clone returns a deep copy so callers can append without touching the original.
func (rec Record) Clone() Record {
	return Record{
		FeeItems:  append([]FeeItem(nil), rec.FeeItems...),
		Discounts: append([]Discount(nil), rec.Discounts...),
		Payments:  append([]Payment(nil), rec.Payments...),
	}
}

// Totals aggregates summaries across students, e.g. for a whole class.
type Totals struct {
	Students  int             `json:"students"`
	TotalFees decimal.Decimal `json:"total_fees"`
	Paid      decimal.Decimal `json:"paid"`
	Balance   decimal.Decimal `json:"balance"`
}

func (t *Totals) Add(s Summary) {
	t.Students++
	t.TotalFees = t.TotalFees.Add(s.TotalFees)
	t.Paid = t.Paid.Add(s.Paid)
	t.Balance = t.Balance.Add(s.Balance)
}

// ParseAmount parses a decimal amount such as "350.00".
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
