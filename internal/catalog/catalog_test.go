package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDefault(t *testing.T) {
	c := Default()
	require.Len(t, c.All(), 3)

	housing, ok := c.Get("Housing Loan")
	require.True(t, ok)
	assert.True(t, housing.AnnualRatePercent.Equal(dec("5.2")))
	assert.Equal(t, 25, housing.MaxTermYears)

	auto, ok := c.Get("Auto Loan")
	require.True(t, ok)
	assert.True(t, auto.AnnualRatePercent.Equal(dec("7.5")))
	assert.Equal(t, 6, auto.MaxTermYears)

	personal, ok := c.Get("Personal Loan")
	require.True(t, ok)
	assert.True(t, personal.AnnualRatePercent.Equal(dec("9.6")))
	assert.Equal(t, 10, personal.MaxTermYears)
}

func TestGetExists(t *testing.T) {
	c := Default()
	assert.True(t, c.Exists("Auto Loan"))
	assert.False(t, c.Exists("Yacht Loan"))

	_, ok := c.Get("Yacht Loan")
	assert.False(t, ok)
}

func TestNames(t *testing.T) {
	c := Default()
	assert.Equal(t, []string{"Auto Loan", "Housing Loan", "Personal Loan"}, c.Names())
}

func TestWithinTerm(t *testing.T) {
	p := Product{Name: "Auto Loan", AnnualRatePercent: dec("7.5"), MaxTermYears: 6}

	assert.True(t, p.WithinTerm(dec("1")))
	assert.True(t, p.WithinTerm(dec("6")))
	assert.True(t, p.WithinTerm(dec("2.5")))
	assert.False(t, p.WithinTerm(dec("6.5")))
	assert.False(t, p.WithinTerm(dec("0")))
	assert.False(t, p.WithinTerm(dec("-1")))
}
