package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rate = decimal.RequireFromString("0.21")

func TestComputeTotals_SingleLine(t *testing.T) {
	p := Product{ID: uuid.New(), Code: "A1", Name: "Widget"}
	line := NewLineItem(p, 3, decimal.NewFromInt(100))

	totals := ComputeTotals([]LineItem{line}, rate)

	assert.True(t, decimal.NewFromInt(300).Equal(line.Subtotal))
	assert.True(t, decimal.NewFromInt(300).Equal(totals.Subtotal), totals.Subtotal.String())
	assert.True(t, decimal.NewFromInt(63).Equal(totals.Tax), totals.Tax.String())
	assert.True(t, decimal.NewFromInt(363).Equal(totals.Total), totals.Total.String())
}

func TestComputeTotals_RoundsTaxToCents(t *testing.T) {
	p := Product{ID: uuid.New(), Code: "B2"}
	lines := []LineItem{
		NewLineItem(p, 1, decimal.RequireFromString("0.05")),
		NewLineItem(p, 3, decimal.RequireFromString("1.99")),
	}

	totals := ComputeTotals(lines, rate)

	// 6.02 * 0.21 = 1.2642
	assert.Equal(t, "6.02", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "1.26", totals.Tax.StringFixed(2))
	assert.Equal(t, "7.28", totals.Total.StringFixed(2))
}

func TestNewLineItem_RoundsSubCentPrice(t *testing.T) {
	// GIVEN a unit price with a sub-cent digit
	p := Product{ID: uuid.New(), Code: "C3"}

	// WHEN three units are priced
	line := NewLineItem(p, 3, decimal.RequireFromString("0.333"))
	totals := ComputeTotals([]LineItem{line}, rate)

	// THEN every amount is kept at cents and total = round(subtotal * 1.21)
	assert.Equal(t, "0.33", line.UnitPrice.String())
	assert.Equal(t, "0.99", line.Subtotal.String())
	assert.Equal(t, "0.99", totals.Subtotal.String())
	assert.Equal(t, "0.21", totals.Tax.String())
	assert.Equal(t, "1.2", totals.Total.String())
	assert.True(t, totals.Total.Equal(totals.Subtotal.Mul(decimal.RequireFromString("1.21")).Round(2)))
}

func TestRoundMoney_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "0.34", RoundMoney(decimal.RequireFromString("0.335")).String())
	assert.Equal(t, "-0.34", RoundMoney(decimal.RequireFromString("-0.335")).String())
}

func TestComputeTotals_Empty(t *testing.T) {
	totals := ComputeTotals(nil, rate)
	assert.True(t, totals.Total.IsZero())
}

func TestNewSale_KeepsOrderAndSnapshots(t *testing.T) {
	a := Product{ID: uuid.New(), Code: "A", Name: "Alpha"}
	b := Product{ID: uuid.New(), Code: "B", Name: "Beta"}
	lines := []LineItem{
		NewLineItem(a, 2, decimal.NewFromInt(10)),
		NewLineItem(b, 1, decimal.NewFromInt(5)),
	}

	sale := NewSale(testTime, "Walk-in", lines, ComputeTotals(lines, rate))

	require.Len(t, sale.Items, 2)
	assert.Equal(t, 0, sale.Items[0].Position)
	assert.Equal(t, "A", sale.Items[0].Code)
	assert.Equal(t, 1, sale.Items[1].Position)
	assert.Equal(t, "Beta", sale.Items[1].Name)

	var tx Transaction = sale
	assert.Equal(t, enum.TransactionKindSale, tx.Kind())
	assert.Equal(t, "Walk-in", tx.Counterparty())
	assert.Len(t, tx.LineItems(), 2)
}

func TestNewPurchase_Kind(t *testing.T) {
	var tx Transaction = NewPurchase(testTime, "Acme", nil, Totals{})
	assert.Equal(t, enum.TransactionKindPurchase, tx.Kind())
	assert.Equal(t, "Acme", tx.Counterparty())
}

func TestProduct_StockValue(t *testing.T) {
	p := Product{Stock: 4, CostPrice: decimal.RequireFromString("2.50")}
	assert.Equal(t, "10.00", p.StockValue().StringFixed(2))
}
