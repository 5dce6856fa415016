package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	domainRepo "github.com/sangkips/stockledger-api/internal/domain/repository"
	"github.com/sangkips/stockledger-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecrementStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	p := seedProduct(t, db, "A1", 10, "100")

	// WHEN: enough stock
	ok, err := repo.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, stockOf(t, db, "A1"))

	// WHEN: more than available
	ok, err = repo.DecrementStock(ctx, p.ID, 8)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 7, stockOf(t, db, "A1"), "a rejected decrement must not touch stock")

	// WHEN: exactly the remaining stock
	ok, err = repo.DecrementStock(ctx, p.ID, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0, stockOf(t, db, "A1"))

	// WHEN: the product does not exist
	ok, err = repo.DecrementStock(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncrementStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	p := seedProduct(t, db, "P1", 0, "5")

	ok, err := repo.IncrementStock(ctx, p.ID, 1000)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1000, stockOf(t, db, "P1"))

	ok, err = repo.IncrementStock(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAdjustStock_ClampsAtZero(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	p := seedProduct(t, db, "C1", 5, "10")

	// GIVEN: stock 5, WHEN: a huge exit is applied twice
	for i := 0; i < 2; i++ {
		ok, err := repo.AdjustStock(ctx, p.ID, -1000000)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 0, stockOf(t, db, "C1"))
	}

	ok, err := repo.AdjustStock(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4, stockOf(t, db, "C1"))

	ok, err = repo.AdjustStock(ctx, uuid.New(), 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductCreate_DuplicateCode(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	seedProduct(t, db, "DUP", 1, "1")

	err := repo.Create(context.Background(), &entity.Product{Code: "DUP", Name: "Other"})

	require.Error(t, err)
	assert.True(t, IsDuplicateKey(err), err.Error())

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestProductUpdate_DoesNotTouchStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	p := seedProduct(t, db, "U1", 10, "10")

	stale := *p
	_, err := repo.DecrementStock(ctx, p.ID, 4)
	require.NoError(t, err)

	stale.Name = "Renamed"
	stale.SalePrice = decimal.NewFromInt(12)
	require.NoError(t, repo.Update(ctx, &stale))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, decimal.NewFromInt(12).Equal(got.SalePrice))
	assert.Equal(t, 6, got.Stock)
}

func TestProductList_SearchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Product{Code: "HAM-01", Name: "Claw Hammer", Category: "Tools"}))
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: "SCR-02", Name: "Screwdriver", Category: "TOOLS"}))
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: "APL-03", Name: "Apple", Category: "Fruit"}))

	tests := []struct {
		search string
		want   int
	}{
		{"hammer", 1},
		{"scr", 1},
		{"tools", 2},
		{"FRUIT", 1},
		{"nothing", 0},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			products, total, err := repo.List(ctx, &domainRepo.ProductFilterParams{
				Pagination: pagination.DefaultPagination(),
				Search:     tt.search,
			})
			require.NoError(t, err)
			assert.EqualValues(t, tt.want, total)
			assert.Len(t, products, tt.want)
		})
	}
}

func TestProductList_SearchMatchesWildcardsLiterally(t *testing.T) {
	// GIVEN codes that contain LIKE wildcards and the escape character
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	for _, code := range []string{"A1", "B_2", "C3", "D%4", `E\5`} {
		require.NoError(t, repo.Create(ctx, &entity.Product{Code: code, Name: "Item", Category: "Misc"}))
	}

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"underscore", "_", []string{"B_2"}},
		{"percent", "%", []string{"D%4"}},
		{"backslash", `\`, []string{`E\5`}},
		{"underscore inside a code", "b_2", []string{"B_2"}},
		{"underscore is not a single-char wildcard", "a_", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// WHEN searching for the raw character
			products, total, err := repo.List(ctx, &domainRepo.ProductFilterParams{Search: tt.search})

			// THEN only codes containing it literally match
			require.NoError(t, err)
			assert.EqualValues(t, len(tt.want), total)
			codes := make([]string, 0, len(products))
			for _, p := range products {
				codes = append(codes, p.Code)
			}
			assert.ElementsMatch(t, tt.want, codes)
		})
	}
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%%`, likePattern(" 50% "))
	assert.Equal(t, `%a\_b%`, likePattern("A_B"))
	assert.Equal(t, `%c\\d%`, likePattern(`c\d`))
}

func TestProductList_CappedAtMaxPerPage(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	batch := make([]entity.Product, 0, 120)
	for i := 0; i < 120; i++ {
		batch = append(batch, entity.Product{Code: fmt.Sprintf("BULK-%03d", i), Name: "Bulk"})
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))

	products, total, err := repo.List(ctx, &domainRepo.ProductFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1000},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 120, total)
	assert.Len(t, products, pagination.MaxPerPage)
}

func TestProductGetByCodes_AndLowStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()
	seedProduct(t, db, "L1", 2, "1")
	seedProduct(t, db, "L2", 50, "1")

	taken, err := repo.GetByCodes(ctx, []string{"L1", "ZZ"})
	require.NoError(t, err)
	require.Len(t, taken, 1)
	assert.Equal(t, "L1", taken[0].Code)

	low, err := repo.GetLowStock(ctx, 5)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "L1", low[0].Code)
}

func TestStockValuation(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Product{Code: "V1", Name: "V1", Stock: 3, CostPrice: decimal.RequireFromString("2.5")}))
	require.NoError(t, repo.Create(ctx, &entity.Product{Code: "V2", Name: "V2", Stock: 2, CostPrice: decimal.NewFromInt(10)}))

	value, err := repo.StockValuation(ctx)
	require.NoError(t, err)
	assert.Equal(t, "27.50", value.StringFixed(2))
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	p := seedProduct(t, db, "T1", 10, "1")
	boom := errors.New("boom")

	err := NewTransactor(db).WithinTransaction(context.Background(), func(ctx context.Context) error {
		ok, err := repo.DecrementStock(ctx, p.ID, 4)
		require.NoError(t, err)
		require.True(t, ok)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 10, stockOf(t, db, "T1"))
}

func TestTransactor_Commits(t *testing.T) {
	db := newTestDB(t)
	repo := NewProductRepository(db)
	p := seedProduct(t, db, "T2", 10, "1")
	tx := NewTransactor(db)

	err := tx.WithinTransaction(context.Background(), func(ctx context.Context) error {
		// nested calls join the outer transaction
		return tx.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := repo.DecrementStock(ctx, p.ID, 4)
			return err
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 6, stockOf(t, db, "T2"))
}
