package finance

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertAmount(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), field)
}

func TestComputeSummary(t *testing.T) {
	tests := []struct {
		name                                  string
		rec                                   Record
		wantFees, wantDisc, wantPaid, wantBal string
	}{
		{
			name:     "empty record",
			wantFees: "0.00", wantDisc: "0.00", wantPaid: "0.00", wantBal: "0.00",
		},
		{
			name: "fees discount and payments",
			rec: Record{
				FeeItems: []FeeItem{
					{Category: "Tuition", Amount: d("450.00"), Date: "2024-09-01"},
					{Category: "Snack and Lunch", Amount: d("180.00"), Date: "2024-09-01"},
					{Category: "Stationery & Toiletries", Amount: d("70.00"), Date: "2024-09-01"},
				},
				Discounts: []Discount{{Type: DiscountSibling, Amount: d("50.00")}},
				Payments: []Payment{
					{Date: "2024-09-15", Amount: d("200.00"), Receipt: "RCPT001"},
					{Date: "2024-10-15", Amount: d("100.00"), Receipt: "RCPT002"},
				},
			},
			wantFees: "700.00", wantDisc: "50.00", wantPaid: "300.00", wantBal: "350.00",
		},
		{
			name: "overpayment gives a credit",
			rec: Record{
				FeeItems: []FeeItem{{Category: "Tuition", Amount: d("300")}},
				Payments: []Payment{{Amount: d("320.50"), Receipt: "R1"}},
			},
			wantFees: "300.00", wantDisc: "0.00", wantPaid: "320.50", wantBal: "-20.50",
		},
		{
			name: "negative amounts are not validated",
			rec: Record{
				FeeItems:  []FeeItem{{Category: "Refund", Amount: d("-10")}},
				Discounts: []Discount{{Type: DiscountOther, Amount: d("0")}},
			},
			wantFees: "-10.00", wantDisc: "0.00", wantPaid: "0.00", wantBal: "-10.00",
		},
		{
			name: "no float drift",
			rec: Record{
				FeeItems: []FeeItem{{Amount: d("0.1")}, {Amount: d("0.2")}},
				Payments: []Payment{{Amount: d("0.3")}},
			},
			wantFees: "0.30", wantDisc: "0.00", wantPaid: "0.30", wantBal: "0.00",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSummary(tt.rec)
			assertAmount(t, tt.wantFees, got.TotalFees, "TotalFees")
			assertAmount(t, tt.wantDisc, got.TotalDiscounts, "TotalDiscounts")
			assertAmount(t, tt.wantPaid, got.Paid, "Paid")
			assertAmount(t, tt.wantBal, got.Balance, "Balance")
			assert.True(t, got.Balance.Equal(got.TotalFees.Sub(got.TotalDiscounts).Sub(got.Paid)))
		})
	}
}

func TestComputeSummary_orderIndependentAndPure(t *testing.T) {
	rec := Record{
		FeeItems:  []FeeItem{{Amount: d("1.10")}, {Amount: d("2.25")}, {Amount: d("3.05")}},
		Discounts: []Discount{{Type: DiscountStaff, Amount: d("0.40")}, {Type: DiscountReferral, Amount: d("1")}},
		Payments:  []Payment{{Amount: d("2")}, {Amount: d("0.15")}},
	}
	orig := rec.Clone()

	first := ComputeSummary(rec)
	second := ComputeSummary(rec)
	assert.True(t, first.Balance.Equal(second.Balance))
	assert.Equal(t, orig, rec, "input must not be mutated")

	reversed := Record{
		FeeItems:  []FeeItem{rec.FeeItems[2], rec.FeeItems[1], rec.FeeItems[0]},
		Discounts: []Discount{rec.Discounts[1], rec.Discounts[0]},
		Payments:  []Payment{rec.Payments[1], rec.Payments[0]},
	}
	got := ComputeSummary(reversed)
	assert.True(t, got.TotalFees.Equal(first.TotalFees))
	assert.True(t, got.TotalDiscounts.Equal(first.TotalDiscounts))
	assert.True(t, got.Paid.Equal(first.Paid))
	assert.True(t, got.Balance.Equal(first.Balance))
}

func TestSummary_NetBill(t *testing.T) {
	sum := Summary{TotalFees: d("700"), TotalDiscounts: d("50")}
	assertAmount(t, "650.00", sum.NetBill(), "NetBill")
}

func TestTotals_Add(t *testing.T) {
	var totals Totals
	totals.Add(Summary{TotalFees: d("700"), Paid: d("300"), Balance: d("350")})
	totals.Add(Summary{TotalFees: d("300"), Paid: d("320"), Balance: d("-20")})

	assert.Equal(t, 2, totals.Students)
	assertAmount(t, "1000.00", totals.TotalFees, "TotalFees")
	assertAmount(t, "620.00", totals.Paid, "Paid")
	assertAmount(t, "330.00", totals.Balance, "Balance")
}

func TestDiscountType_IsValid(t *testing.T) {
	for _, dt := range DiscountTypes {
		assert.True(t, dt.IsValid(), string(dt))
	}
	assert.False(t, DiscountType("Scholarship").IsValid())
	assert.False(t, DiscountType("").IsValid())
}

func TestLoadRecord(t *testing.T) {
	src := `
fee_items:
  - {category: Tuition, amount: "450.00", date: "2024-09-01"}
  - {category: Uniform, amount: "250", date: "2024-09-02"}
discounts:
  - {type: Sibling, amount: "50", description: 2nd child discount}
payments:
  - {date: "2024-09-15", amount: "200.00", receipt: RCPT001}
  - {date: "2024-09-20", amount: "100.00", receipt: RCPT001}
`
	rec, err := LoadRecord(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rec.FeeItems, 2)
	require.Len(t, rec.Discounts, 1)
	require.Len(t, rec.Payments, 2)
	assert.Equal(t, DiscountSibling, rec.Discounts[0].Type)
	assert.Equal(t, "2nd child discount", rec.Discounts[0].Description)

	sum := ComputeSummary(rec)
	assertAmount(t, "350.00", sum.Balance, "Balance")

	_, err = LoadRecord(strings.NewReader("payments:\n  - {amount: lots, receipt: X}\n"))
	assert.Error(t, err)
}
