package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/internal/domain/enum"
	"github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/internal/infrastructure/events"
	"github.com/sangkips/stockledger-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSale_DecrementsStockAndAppliesTax(t *testing.T) {
	// GIVEN a product with stock 10 priced at 100
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 10, "100", "60")

	// WHEN 3 units are sold
	sale, err := env.transactions.RecordSale(ctx, "Acme", []LineItemInput{{ProductID: p.ID, Quantity: 3}})

	// THEN stock drops to 7 and the totals carry 21% tax
	require.NoError(t, err)
	assert.Equal(t, 7, env.stockOf(t, p))
	assert.Equal(t, "300.00", sale.Subtotal.StringFixed(2))
	assert.Equal(t, "63.00", sale.Tax.StringFixed(2))
	assert.Equal(t, "363.00", sale.Total.StringFixed(2))
	assert.Equal(t, "Acme", sale.Client)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "A1", sale.Items[0].Code)
	assert.True(t, sale.Items[0].UnitPrice.Equal(price("100")))

	stored, err := env.transactions.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(price("363")))
	assert.Equal(t, []string{events.EventSaleRecorded}, env.publisher.types())
}

func TestRecordSale_InsufficientStockLeavesStockUnchanged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 10, "100", "60")

	_, err := env.transactions.RecordSale(ctx, "", []LineItemInput{{ProductID: p.ID, Quantity: 20}})

	appErr := assertKind(t, err, apperror.KindInsufficientStock)
	shortage, ok := appErr.Detail.(apperror.StockShortage)
	require.True(t, ok)
	assert.Equal(t, 20, shortage.Requested)
	assert.Equal(t, 10, shortage.Available)
	assert.Equal(t, 10, env.stockOf(t, p))

	count, err := repositoryCount(env)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, env.publisher.types())
}

func TestRecordSale_ExactStockReachesZero(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "A1", 4, "10", "5")

	_, err := env.transactions.RecordSale(context.Background(), "", []LineItemInput{{ProductID: p.ID, Quantity: 4}})

	require.NoError(t, err)
	assert.Equal(t, 0, env.stockOf(t, p))
}

func TestRecordSale_IsAtomicAcrossLines(t *testing.T) {
	// GIVEN two products where only the first can cover its line
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.seedProduct(t, "A", 10, "10", "5")
	b := env.seedProduct(t, "B", 1, "20", "10")

	// WHEN one sale asks for 3 of A and 5 of B
	_, err := env.transactions.RecordSale(ctx, "", []LineItemInput{
		{ProductID: a.ID, Quantity: 3},
		{ProductID: b.ID, Quantity: 5},
	})

	// THEN nothing is applied
	assertKind(t, err, apperror.KindInsufficientStock)
	assert.Equal(t, 10, env.stockOf(t, a))
	assert.Equal(t, 1, env.stockOf(t, b))

	result, err := env.transactions.ListSales(ctx, &repository.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestRecordSale_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.transactions.RecordSale(context.Background(), "", []LineItemInput{{ProductID: uuid.New(), Quantity: 1}})

	assertKind(t, err, apperror.KindNotFound)
}

func TestRecordSale_ValidationFailures(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "A1", 10, "100", "60")

	tests := []struct {
		name  string
		items []LineItemInput
		field string
	}{
		{"empty items", nil, "items"},
		{"zero quantity", []LineItemInput{{ProductID: p.ID, Quantity: 0}}, "items[0].quantity"},
		{"negative quantity", []LineItemInput{{ProductID: p.ID, Quantity: -2}}, "items[0].quantity"},
		{"missing product", []LineItemInput{{Quantity: 1}}, "items[0].product_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.transactions.RecordSale(context.Background(), "", tt.items)

			appErr := assertKind(t, err, apperror.KindValidation)
			require.NotEmpty(t, appErr.Errors)
			assert.Equal(t, tt.field, appErr.Errors[0].Field)
		})
	}
	assert.Equal(t, 10, env.stockOf(t, p))
}

func TestRecordSale_TooManyLines(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "A1", 100, "1", "1")

	items := make([]LineItemInput, testLedger.MaxItemsPerRecord+1)
	for i := range items {
		items[i] = LineItemInput{ProductID: p.ID, Quantity: 1}
	}

	_, err := env.transactions.RecordSale(context.Background(), "", items)

	assertKind(t, err, apperror.KindValidation)
	assert.Equal(t, 100, env.stockOf(t, p))
}

func TestRecordSale_IgnoresCallerPrice(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "A1", 10, "100", "60")
	cheap := price("1")

	sale, err := env.transactions.RecordSale(context.Background(), "", []LineItemInput{
		{ProductID: p.ID, Quantity: 1, UnitPrice: &cheap},
	})

	require.NoError(t, err)
	assert.True(t, sale.Subtotal.Equal(price("100")))
}

func TestRecordTransaction_DefaultCounterparties(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "A1", 10, "100", "60")
	items := []LineItemInput{{ProductID: p.ID, Quantity: 1}}

	sale, err := env.transactions.RecordSale(context.Background(), "   ", items)
	require.NoError(t, err)
	assert.Equal(t, "Walk-in", sale.Client)

	purchase, err := env.transactions.RecordPurchase(context.Background(), "", items)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", purchase.Supplier)
}

func TestRecordTransaction_FallbackCounterpartiesWithoutConfig(t *testing.T) {
	env := newTestEnv(t)
	env.transactions.ledger.DefaultClient = ""
	env.transactions.ledger.DefaultSupplier = ""
	p := env.seedProduct(t, "A1", 10, "100", "60")
	items := []LineItemInput{{ProductID: p.ID, Quantity: 1}}

	sale, err := env.transactions.RecordSale(context.Background(), "", items)
	require.NoError(t, err)
	assert.Equal(t, fallbackClient, sale.Client)

	purchase, err := env.transactions.RecordPurchase(context.Background(), "", items)
	require.NoError(t, err)
	assert.Equal(t, fallbackSupplier, purchase.Supplier)
}

func TestRecordPurchase_IncrementsStockWithCallerOrCostPrice(t *testing.T) {
	// GIVEN a product with stock 2 and cost price 40
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "P1", 2, "70", "40")
	negotiated := price("35.50")

	// WHEN purchasing two lines, one priced by the caller and one without a price
	purchase, err := env.transactions.RecordPurchase(ctx, "Wholesale Co", []LineItemInput{
		{ProductID: p.ID, Quantity: 10, UnitPrice: &negotiated},
		{ProductID: p.ID, Quantity: 5},
	})

	// THEN stock grows by 15 and each line keeps its own price
	require.NoError(t, err)
	assert.Equal(t, 17, env.stockOf(t, p))
	require.Len(t, purchase.Items, 2)
	assert.True(t, purchase.Items[0].UnitPrice.Equal(price("35.50")))
	assert.True(t, purchase.Items[1].UnitPrice.Equal(price("40")))
	assert.Equal(t, "555.00", purchase.Subtotal.StringFixed(2))
	assert.Equal(t, "116.55", purchase.Tax.StringFixed(2))
	assert.Equal(t, "671.55", purchase.Total.StringFixed(2))
	assert.Equal(t, []string{events.EventPurchaseRecorded}, env.publisher.types())
}

func TestRecordPurchase_RoundsSubCentUnitPrice(t *testing.T) {
	// GIVEN a caller price with a sub-cent digit
	env := newTestEnv(t)
	p := env.seedProduct(t, "P1", 0, "1", "0.50")
	fractional := price("0.333")

	// WHEN 3 units are purchased at that price
	purchase, err := env.transactions.RecordPurchase(context.Background(), "", []LineItemInput{
		{ProductID: p.ID, Quantity: 3, UnitPrice: &fractional},
	})

	// THEN the line is priced at cents and total = round(subtotal * 1.21, 2)
	require.NoError(t, err)
	assert.Equal(t, "0.33", purchase.Items[0].UnitPrice.StringFixed(2))
	assert.True(t, purchase.Items[0].UnitPrice.Equal(price("0.33")))
	assert.True(t, purchase.Subtotal.Equal(price("0.99")), purchase.Subtotal.String())
	assert.True(t, purchase.Tax.Equal(price("0.21")), purchase.Tax.String())
	assert.True(t, purchase.Total.Equal(price("1.20")), purchase.Total.String())
	assert.Equal(t, 3, env.stockOf(t, p))
}

func TestRecordSale_SubCentSalePriceIsStoredAtCents(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "S1", 10, "0.333", "0.1")
	assert.True(t, p.SalePrice.Equal(price("0.33")), p.SalePrice.String())

	sale, err := env.transactions.RecordSale(context.Background(), "", []LineItemInput{{ProductID: p.ID, Quantity: 3}})

	require.NoError(t, err)
	assert.True(t, sale.Subtotal.Equal(price("0.99")), sale.Subtotal.String())
	assert.True(t, sale.Total.Equal(price("1.20")), sale.Total.String())
}

func TestRecordSale_ConcurrentSalesNeverOversell(t *testing.T) {
	// GIVEN a product with stock 5
	env := newTestEnv(t)
	p := env.seedProduct(t, "C1", 5, "10", "5")

	// WHEN 12 single-unit sales run at once
	const attempts = 12
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		short     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.transactions.RecordSale(context.Background(), "", []LineItemInput{{ProductID: p.ID, Quantity: 1}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperror.IsKind(err, apperror.KindInsufficientStock):
				short++
			}
		}()
	}
	wg.Wait()

	// THEN exactly 5 succeed and stock ends at 0
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, attempts-5, short)
	assert.Equal(t, 0, env.stockOf(t, p))

	result, err := env.transactions.ListSales(context.Background(), &repository.TransactionFilterParams{})
	require.NoError(t, err)
	assert.Len(t, result.Items, 5)
}

func TestRecordPurchase_RejectsNegativePrice(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "P1", 2, "70", "40")
	negative := price("-1")

	_, err := env.transactions.RecordPurchase(context.Background(), "", []LineItemInput{
		{ProductID: p.ID, Quantity: 1, UnitPrice: &negative},
	})

	appErr := assertKind(t, err, apperror.KindValidation)
	assert.Equal(t, "items[0].unit_price", appErr.Errors[0].Field)
	assert.Equal(t, 2, env.stockOf(t, p))
}

func TestRecordTransaction_InvalidKind(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.transactions.RecordTransaction(context.Background(), &RecordTransactionInput{
		Kind:  enum.TransactionKind(9),
		Items: []LineItemInput{{ProductID: uuid.New(), Quantity: 1}},
	})

	assertKind(t, err, apperror.KindValidation)
}

func TestRecordTransaction_UsesGivenDate(t *testing.T) {
	env := newTestEnv(t)
	p := env.seedProduct(t, "A1", 10, "100", "60")
	when := time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)

	tx, err := env.transactions.RecordTransaction(context.Background(), &RecordTransactionInput{
		Kind:  enum.TransactionKindSale,
		Date:  &when,
		Items: []LineItemInput{{ProductID: p.ID, Quantity: 1}},
	})

	require.NoError(t, err)
	assert.True(t, tx.OccurredAt().Equal(when))
	assert.Equal(t, enum.TransactionKindSale, tx.Kind())
}

func TestRecordSale_PublishFailureDoesNotFailSale(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker down")
	p := env.seedProduct(t, "A1", 10, "100", "60")

	_, err := env.transactions.RecordSale(context.Background(), "", []LineItemInput{{ProductID: p.ID, Quantity: 1}})

	require.NoError(t, err)
	assert.Equal(t, 9, env.stockOf(t, p))
}

func TestListSales_SearchByClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.seedProduct(t, "A1", 10, "100", "60")
	items := []LineItemInput{{ProductID: p.ID, Quantity: 1}}

	_, err := env.transactions.RecordSale(ctx, "Acme Ltd", items)
	require.NoError(t, err)
	_, err = env.transactions.RecordSale(ctx, "Globex", items)
	require.NoError(t, err)

	result, err := env.transactions.ListSales(ctx, &repository.TransactionFilterParams{Search: "acme"})

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Acme Ltd", result.Items[0].Client)
	assert.Equal(t, int64(1), result.Pagination.Total)
}

func TestGetSaleAndPurchase_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.transactions.GetSale(context.Background(), uuid.New())
	assertKind(t, err, apperror.KindNotFound)

	_, err = env.transactions.GetPurchase(context.Background(), uuid.New())
	assertKind(t, err, apperror.KindNotFound)
}

func repositoryCount(env *testEnv) (int64, error) {
	var n int64
	err := env.db.Model(&entity.Sale{}).Count(&n).Error
	return n, err
}
