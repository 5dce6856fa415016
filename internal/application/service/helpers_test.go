package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/sangkips/stockledger-api/internal/config"
	"github.com/sangkips/stockledger-api/internal/domain/entity"
	"github.com/sangkips/stockledger-api/internal/infrastructure/database"
	"github.com/sangkips/stockledger-api/internal/infrastructure/events"
	"github.com/sangkips/stockledger-api/internal/infrastructure/repository"
	"github.com/sangkips/stockledger-api/internal/infrastructure/storage"
	"github.com/sangkips/stockledger-api/pkg/apperror"
	"github.com/sangkips/stockledger-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testLedger = config.LedgerConfig{
	TaxRate:           decimal.RequireFromString("0.21"),
	DefaultClient:     "Walk-in",
	DefaultSupplier:   "Unknown",
	LowStockThreshold: 5,
	MaxItemsPerRecord: 10,
}

// recordingPublisher keeps every published envelope
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Envelope
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, env events.Envelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, env)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}

// memoryPhotoStore is an in-memory PhotoStore
type memoryPhotoStore struct {
	mu      sync.Mutex
	photos  map[string]string
	next    int
	failDel bool
}

func newMemoryPhotoStore() *memoryPhotoStore {
	return &memoryPhotoStore{photos: map[string]string{}}
}

func (s *memoryPhotoStore) Upload(ctx context.Context, payload string) (*storage.Photo, error) {
	if payload == "broken" {
		return nil, apperror.NewFieldValidationError("photo", "photo is not a supported image")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	id := fmt.Sprintf("products/%d.jpg", s.next)
	s.photos[id] = payload
	return &storage.Photo{ID: id, URL: "/uploads/" + id}, nil
}

func (s *memoryPhotoStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDel {
		return errors.New("bucket unavailable")
	}
	delete(s.photos, id)
	return nil
}

func (s *memoryPhotoStore) has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.photos[id]
	return ok
}

// testEnv wires every service over one in-memory database
type testEnv struct {
	db           *gorm.DB
	publisher    *recordingPublisher
	photos       *memoryPhotoStore
	inventory    *InventoryService
	transactions *TransactionService
	products     *ProductService
	payments     *PaymentService
	summary      *SummaryService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)

	log := logger.Discard()
	db, err := database.NewSQLiteDB(dsn, log, false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	env := &testEnv{
		db:        db,
		publisher: &recordingPublisher{},
		photos:    newMemoryPhotoStore(),
	}
	env.inventory = NewInventoryService(productRepo, env.publisher, log)
	env.transactions = NewTransactionService(
		repository.NewTransactor(db), env.inventory, saleRepo, purchaseRepo, env.publisher, testLedger, log,
	)
	env.products = NewProductService(productRepo, env.photos, log)
	env.payments = NewPaymentService(repository.NewPaymentRepository(db))
	env.summary = NewSummaryService(
		productRepo, saleRepo, purchaseRepo, repository.NewAnalyticsRepository(db), testLedger.LowStockThreshold,
	)
	return env
}

func (e *testEnv) seedProduct(t *testing.T, code string, stock int, salePrice, costPrice string) *entity.Product {
	t.Helper()
	p, err := e.products.CreateProduct(context.Background(), &CreateProductInput{
		Code:      code,
		Name:      "Product " + code,
		Category:  "General",
		Stock:     stock,
		CostPrice: decimal.RequireFromString(costPrice),
		SalePrice: decimal.RequireFromString(salePrice),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) stockOf(t *testing.T, p *entity.Product) int {
	t.Helper()
	got, err := e.products.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	return got.Stock
}

func assertKind(t *testing.T, err error, kind apperror.Kind) *apperror.AppError {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperror.IsAppError(err), "expected AppError, got %T: %v", err, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, kind, appErr.Kind)
	return appErr
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
