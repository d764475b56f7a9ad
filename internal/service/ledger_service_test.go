package service

import (
	"testing"
	"time"

	"go-storepos/internal/model"
	"go-storepos/internal/repository"
	"go-storepos/pkg/period"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

// fixedNow is a Wednesday; its ISO week runs Monday 2026-08-24 through
// Sunday 2026-08-30.
var fixedNow = time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)

func newLedgerService(t *testing.T, db *gorm.DB) *ledgerService {
	svc := NewLedgerService(
		repository.NewSaleRepo(db),
		repository.NewPurchaseRepo(db),
		repository.NewStockRepo(db),
		zaptest.NewLogger(t),
	).(*ledgerService)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func insertSale(t *testing.T, db *gorm.DB, storeID, productID, stockID uuid.UUID, date time.Time, quantity int, price int64, receipt string) *model.Sale {
	sale := &model.Sale{
		ProductID:     productID,
		StoreID:       storeID,
		StockID:       stockID,
		Quantity:      quantity,
		SellingPrice:  price,
		TotalPrice:    int64(quantity) * price,
		Date:          period.Day(date),
		PaymentMethod: model.PaymentCash,
		ReceiptCode:   receipt,
	}
	require.NoError(t, db.Create(sale).Error)
	return sale
}

func insertPurchase(t *testing.T, db *gorm.DB, storeID, productID, stockID, supplierID uuid.UUID, date time.Time, quantity int, unitPrice int64) *model.Purchase {
	purchase := &model.Purchase{
		ProductID:  productID,
		StoreID:    storeID,
		StockID:    stockID,
		SupplierID: supplierID,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: int64(quantity) * unitPrice,
		Date:       period.Day(date),
	}
	require.NoError(t, db.Create(purchase).Error)
	return purchase
}

func TestWeekSeries_ZeroFillsMissingDays(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Bread")
	batch := seedBatch(t, db, store.ID, product.ID, 50, 200)
	svc := newLedgerService(t, db)

	tuesday := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	insertSale(t, db, store.ID, product.ID, batch.ID, tuesday, 1, 700, "RCP-1")
	insertSale(t, db, store.ID, product.ID, batch.ID, sunday, 1, 300, "RCP-2")

	points, err := svc.WeekSeries(store.ID, KindSale)
	require.NoError(t, err)
	require.Len(t, points, 7)

	labels := make([]string, 7)
	totals := make([]int64, 7)
	for i, p := range points {
		labels[i] = p.Label
		totals[i] = p.Total
	}
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}, labels)
	assert.Equal(t, []int64{0, 700, 0, 0, 0, 0, 300}, totals)
}

func TestSeriesByDay_LastNDays(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Bread")
	batch := seedBatch(t, db, store.ID, product.ID, 50, 200)
	svc := newLedgerService(t, db)

	insertSale(t, db, store.ID, product.ID, batch.ID, fixedNow.AddDate(0, 0, -2), 1, 100, "RCP-1")
	insertSale(t, db, store.ID, product.ID, batch.ID, fixedNow, 1, 200, "RCP-2")
	// Outside the window.
	insertSale(t, db, store.ID, product.ID, batch.ID, fixedNow.AddDate(0, 0, -5), 1, 900, "RCP-3")

	points, err := svc.SeriesByDay(store.ID, KindSale, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, SeriesPoint{Label: "2026-08-24", Total: 100}, points[0])
	assert.Equal(t, SeriesPoint{Label: "2026-08-25", Total: 0}, points[1])
	assert.Equal(t, SeriesPoint{Label: "2026-08-26", Total: 200}, points[2])
}

func TestSummary_CountsReceiptsNotLines(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Bread")
	supplier := seedSupplier(t, db, store.ID)
	batch := seedBatch(t, db, store.ID, product.ID, 50, 300)
	svc := newLedgerService(t, db)

	// One checkout with two line-sales, plus one purchase.
	insertSale(t, db, store.ID, product.ID, batch.ID, fixedNow, 3, 500, "RCP-1")
	insertSale(t, db, store.ID, product.ID, batch.ID, fixedNow, 1, 300, "RCP-1")
	insertPurchase(t, db, store.ID, product.ID, batch.ID, supplier.ID, fixedNow, 10, 100)

	summary, err := svc.Summary(store.ID, period.Selector{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.SaleCount)
	assert.Equal(t, int64(1800), summary.SaleAmount)
	assert.Equal(t, int64(1), summary.PurchaseCount)
	assert.Equal(t, int64(1000), summary.PurchaseAmount)
	// (500-300)*3 + (300-300)*1
	assert.Equal(t, int64(600), summary.Profit)
}

func TestSummary_WeekSelectorBoundsThePeriod(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Bread")
	batch := seedBatch(t, db, store.ID, product.ID, 50, 300)
	svc := newLedgerService(t, db)

	inWeek := time.Date(2026, time.August, 25, 0, 0, 0, 0, time.UTC)
	before := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	insertSale(t, db, store.ID, product.ID, batch.ID, inWeek, 1, 500, "RCP-1")
	insertSale(t, db, store.ID, product.ID, batch.ID, before, 1, 900, "RCP-2")

	week := 35
	summary, err := svc.Summary(store.ID, period.Selector{Week: &week})
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.SaleCount)
	assert.Equal(t, int64(500), summary.SaleAmount)
}

func TestSumProfit_IgnoresDanglingBatchReference(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Bread")
	batch := seedBatch(t, db, store.ID, product.ID, 50, 300)
	svc := newLedgerService(t, db)

	insertSale(t, db, store.ID, product.ID, batch.ID, fixedNow, 3, 500, "RCP-1")
	insertSale(t, db, store.ID, product.ID, uuid.New(), fixedNow, 2, 999, "RCP-2")

	profit, err := svc.SumProfit(store.ID, period.Selector{})
	require.NoError(t, err)
	assert.Equal(t, int64(600), profit)
}

func TestMonthSeries_TwelveBuckets(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Bread")
	batch := seedBatch(t, db, store.ID, product.ID, 50, 200)
	svc := newLedgerService(t, db)

	february := time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC)
	insertSale(t, db, store.ID, product.ID, batch.ID, february, 1, 400, "RCP-1")
	insertSale(t, db, store.ID, product.ID, batch.ID, fixedNow, 1, 600, "RCP-2")

	points, err := svc.MonthSeries(store.ID, KindSale, 2026)
	require.NoError(t, err)
	require.Len(t, points, 12)

	assert.Equal(t, "February", points[1].Label)
	assert.Equal(t, int64(400), points[1].Total)
	assert.Equal(t, "August", points[7].Label)
	assert.Equal(t, int64(600), points[7].Total)
	assert.Equal(t, int64(0), points[0].Total)
}

func TestYearSeries_BucketsPerYear(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Bread")
	batch := seedBatch(t, db, store.ID, product.ID, 50, 200)
	svc := newLedgerService(t, db)

	lastYear := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	insertSale(t, db, store.ID, product.ID, batch.ID, lastYear, 1, 250, "RCP-1")
	insertSale(t, db, store.ID, product.ID, batch.ID, fixedNow, 1, 750, "RCP-2")

	points, err := svc.YearSeries(store.ID, KindSale, 2025, 2026)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, SeriesPoint{Label: "2025", Total: 250}, points[0])
	assert.Equal(t, SeriesPoint{Label: "2026", Total: 750}, points[1])
}

func TestTopProducts_RanksByUnitsSold(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	bread := seedProduct(t, db, store.ID, "Bread")
	milk := seedProduct(t, db, store.ID, "Milk")
	breadBatch := seedBatch(t, db, store.ID, bread.ID, 50, 200)
	milkBatch := seedBatch(t, db, store.ID, milk.ID, 50, 200)
	svc := newLedgerService(t, db)

	insertSale(t, db, store.ID, bread.ID, breadBatch.ID, fixedNow, 5, 300, "RCP-1")
	insertSale(t, db, store.ID, milk.ID, milkBatch.ID, fixedNow, 9, 300, "RCP-2")

	rows, err := svc.TopProducts(store.ID, period.Selector{}, repository.RankByQuantity, 4)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Milk", rows[0].Name)
	assert.Equal(t, int64(9), rows[0].Total)
	assert.Equal(t, "Bread", rows[1].Name)

	top1, err := svc.TopProducts(store.ID, period.Selector{}, repository.RankByQuantity, 1)
	require.NoError(t, err)
	require.Len(t, top1, 1)
	assert.Equal(t, "Milk", top1[0].Name)
}

func TestTopStores_RanksAcrossStores(t *testing.T) {
	db := newTestDB(t)
	busy := seedStore(t, db)
	quiet := seedStore(t, db)
	busyProduct := seedProduct(t, db, busy.ID, "Bread")
	quietProduct := seedProduct(t, db, quiet.ID, "Bread")
	busyBatch := seedBatch(t, db, busy.ID, busyProduct.ID, 50, 200)
	quietBatch := seedBatch(t, db, quiet.ID, quietProduct.ID, 50, 200)
	svc := newLedgerService(t, db)

	insertSale(t, db, busy.ID, busyProduct.ID, busyBatch.ID, fixedNow, 8, 300, "RCP-1")
	insertSale(t, db, quiet.ID, quietProduct.ID, quietBatch.ID, fixedNow, 2, 300, "RCP-2")

	rows, err := svc.TopStores(period.Selector{}, repository.RankByQuantity, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, busy.ID, rows[0].ID)
	assert.Equal(t, int64(8), rows[0].Total)
	assert.Equal(t, quiet.ID, rows[1].ID)
}

func TestTotalStockLevel_SumsAllBatches(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	other := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Bread")
	foreign := seedProduct(t, db, other.ID, "Foreign")
	seedBatch(t, db, store.ID, product.ID, 5, 100)
	seedBatch(t, db, store.ID, product.ID, 12, 120)
	seedBatch(t, db, other.ID, foreign.ID, 99, 100)
	svc := newLedgerService(t, db)

	total, err := svc.TotalStockLevel(store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(17), total)
}

func TestTotalStockLevelAsOf_ExcludesLaterBatches(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Bread")
	old := seedBatch(t, db, store.ID, product.ID, 5, 100)
	seedBatch(t, db, store.ID, product.ID, 12, 120)

	cutoff := fixedNow.AddDate(0, 0, -7)
	require.NoError(t, db.Model(old).Update("created_at", cutoff.AddDate(0, 0, -1)).Error)
	svc := newLedgerService(t, db)

	total, err := svc.TotalStockLevelAsOf(store.ID, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
}
