package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validatedEntry struct {
	Receipt string          `json:"receipt" validate:"notblank"`
	Date    string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount  decimal.Decimal `json:"amount" validate:"gt=0"`
}

func TestInitValidators(t *testing.T) {
	validate, translator := NewValidator(), NewTranslator()
	InitValidators(validate, translator)

	ok := validatedEntry{Receipt: "RCPT001", Date: "2024-01-15", Amount: decimal.RequireFromString("350.50")}
	require.NoError(t, validate.Struct(ok))

	bad := validatedEntry{Receipt: "   ", Date: "15/01/2024", Amount: decimal.RequireFromString("-1")}
	err := validate.Struct(bad)
	require.Error(t, err)

	vErrs, isVErrs := err.(validator.ValidationErrors)
	require.True(t, isVErrs)
	got := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		got[fe.Field()] = fe.Translate(translator)
	}
	assert.Len(t, got, 3)
	assert.Equal(t, "this field cannot be blank", got["receipt"])
	assert.Equal(t, "date must be a date formatted as YYYY-MM-DD", got["date"])
	assert.Contains(t, got["amount"], "amount must be greater than")

	zero := validatedEntry{Receipt: "R", Date: "2024-01-15"}
	err = validate.Struct(zero)
	require.Error(t, err)
	assert.Equal(t, "amount", err.(validator.ValidationErrors)[0].Field())
}
