package service

import (
	"time"

	"go-storepos/internal/repository"
	"go-storepos/pkg/period"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransactionKind selects which side of the ledger an aggregation reads.
type TransactionKind string

const (
	KindPurchase TransactionKind = "purchase"
	KindSale     TransactionKind = "sale"
)

// SeriesPoint is one zero-filled bucket of a chart series.
type SeriesPoint struct {
	Label string `json:"label"`
	Total int64  `json:"total"`
}

// LedgerSummary bundles the period scalars the dashboard shows.
type LedgerSummary struct {
	SaleCount      int64 `json:"sale_transactions_count"`
	SaleAmount     int64 `json:"total_sales_amount"`
	PurchaseCount  int64 `json:"purchase_transactions_count"`
	PurchaseAmount int64 `json:"total_purchases_amount"`
	Profit         int64 `json:"total_profit_amount"`
}

var weekdayLabels = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// LedgerService is the read side: aggregations over purchases, sales and
// stock for one store and one period. It never mutates.
type LedgerService interface {
	CountTransactions(storeID uuid.UUID, kind TransactionKind, sel period.Selector) (int64, error)
	SumAmount(storeID uuid.UUID, kind TransactionKind, sel period.Selector) (int64, error)
	SumProfit(storeID uuid.UUID, sel period.Selector) (int64, error)
	Summary(storeID uuid.UUID, sel period.Selector) (*LedgerSummary, error)
	TotalStockLevel(storeID uuid.UUID) (int64, error)
	TotalStockLevelAsOf(storeID uuid.UUID, asOf time.Time) (int64, error)
	SeriesByDay(storeID uuid.UUID, kind TransactionKind, days int) ([]SeriesPoint, error)
	WeekSeries(storeID uuid.UUID, kind TransactionKind) ([]SeriesPoint, error)
	ProfitWeekSeries(storeID uuid.UUID) ([]SeriesPoint, error)
	MonthSeries(storeID uuid.UUID, kind TransactionKind, year int) ([]SeriesPoint, error)
	YearSeries(storeID uuid.UUID, kind TransactionKind, fromYear, toYear int) ([]SeriesPoint, error)
	TopProducts(storeID uuid.UUID, sel period.Selector, metric repository.RankMetric, n int) ([]repository.RankedRow, error)
	TopCustomers(storeID uuid.UUID, sel period.Selector, metric repository.RankMetric, n int) ([]repository.RankedRow, error)
	TopStores(sel period.Selector, metric repository.RankMetric, n int) ([]repository.RankedRow, error)
}

type ledgerService struct {
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
	stockRepo    repository.StockRepository
	log          *zap.Logger
	now          func() time.Time
}

func NewLedgerService(
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	stockRepo repository.StockRepository,
	log *zap.Logger,
) LedgerService {
	return &ledgerService{
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		stockRepo:    stockRepo,
		log:          log,
		now:          time.Now,
	}
}

func (s *ledgerService) CountTransactions(storeID uuid.UUID, kind TransactionKind, sel period.Selector) (int64, error) {
	rng := sel.Resolve(s.now())
	if kind == KindPurchase {
		return s.purchaseRepo.Count(storeID, rng)
	}
	return s.saleRepo.CountReceipts(storeID, rng)
}

func (s *ledgerService) SumAmount(storeID uuid.UUID, kind TransactionKind, sel period.Selector) (int64, error) {
	rng := sel.Resolve(s.now())
	if kind == KindPurchase {
		return s.purchaseRepo.SumAmount(storeID, rng)
	}
	return s.saleRepo.SumAmount(storeID, rng)
}

// SumProfit joins sales to their cost-basis batch. Sales with a dangling
// batch reference are excluded from the sum and logged; zeroing them
// silently would understate cost, not flag the corruption.
func (s *ledgerService) SumProfit(storeID uuid.UUID, sel period.Selector) (int64, error) {
	rng := sel.Resolve(s.now())
	return s.sumProfit(storeID, rng)
}

func (s *ledgerService) sumProfit(storeID uuid.UUID, rng period.Range) (int64, error) {
	missing, err := s.saleRepo.CountMissingStockRef(storeID, rng)
	if err != nil {
		return 0, err
	}
	if missing > 0 {
		s.log.Warn("sales excluded from profit aggregation: missing stock batch reference",
			zap.String("store_id", storeID.String()),
			zap.Int64("excluded_sales", missing),
		)
	}
	return s.saleRepo.SumProfit(storeID, rng)
}

func (s *ledgerService) Summary(storeID uuid.UUID, sel period.Selector) (*LedgerSummary, error) {
	rng := sel.Resolve(s.now())

	summary := &LedgerSummary{}
	var err error
	if summary.SaleCount, err = s.saleRepo.CountReceipts(storeID, rng); err != nil {
		return nil, err
	}
	if summary.SaleAmount, err = s.saleRepo.SumAmount(storeID, rng); err != nil {
		return nil, err
	}
	if summary.PurchaseCount, err = s.purchaseRepo.Count(storeID, rng); err != nil {
		return nil, err
	}
	if summary.PurchaseAmount, err = s.purchaseRepo.SumAmount(storeID, rng); err != nil {
		return nil, err
	}
	if summary.Profit, err = s.sumProfit(storeID, rng); err != nil {
		return nil, err
	}
	return summary, nil
}

func (s *ledgerService) TotalStockLevel(storeID uuid.UUID) (int64, error) {
	return s.stockRepo.TotalQuantity(storeID)
}

// TotalStockLevelAsOf bounds the sum by batch creation date only. Quantities
// reflect deductions made after asOf, so this is a rough historical figure,
// not a reconstructed snapshot.
func (s *ledgerService) TotalStockLevelAsOf(storeID uuid.UUID, asOf time.Time) (int64, error) {
	return s.stockRepo.TotalQuantityCreatedBefore(storeID, asOf)
}

func (s *ledgerService) dailyTotals(storeID uuid.UUID, kind TransactionKind, rng period.Range) (map[string]int64, error) {
	var rows []repository.DayTotal
	var err error
	if kind == KindPurchase {
		rows, err = s.purchaseRepo.DailyAmounts(storeID, rng)
	} else {
		rows, err = s.saleRepo.DailyAmounts(storeID, rng)
	}
	if err != nil {
		return nil, err
	}
	return indexByDay(rows), nil
}

// indexByDay keys day rows by their "YYYY-MM-DD" prefix; drivers differ in
// how they render a DATE() result.
func indexByDay(rows []repository.DayTotal) map[string]int64 {
	byDay := make(map[string]int64, len(rows))
	for _, row := range rows {
		key := row.Date
		if len(key) > 10 {
			key = key[:10]
		}
		byDay[key] = row.Total
	}
	return byDay
}

// SeriesByDay returns the last n calendar days, oldest first, every day
// present even when it had no transactions.
func (s *ledgerService) SeriesByDay(storeID uuid.UUID, kind TransactionKind, days int) ([]SeriesPoint, error) {
	rng := period.LastDays(s.now(), days)
	byDay, err := s.dailyTotals(storeID, kind, rng)
	if err != nil {
		return nil, err
	}

	points := make([]SeriesPoint, 0, days)
	for d := rng.Start; d.Before(rng.End); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		points = append(points, SeriesPoint{Label: key, Total: byDay[key]})
	}
	return points, nil
}

// WeekSeries buckets the current ISO week (Monday start) into seven labeled
// days; days without transactions report zero rather than being omitted.
func (s *ledgerService) WeekSeries(storeID uuid.UUID, kind TransactionKind) ([]SeriesPoint, error) {
	rng := period.CurrentWeek(s.now())
	byDay, err := s.dailyTotals(storeID, kind, rng)
	if err != nil {
		return nil, err
	}
	return fillWeek(rng.Start, byDay), nil
}

func (s *ledgerService) ProfitWeekSeries(storeID uuid.UUID) ([]SeriesPoint, error) {
	rng := period.CurrentWeek(s.now())
	rows, err := s.saleRepo.DailyProfits(storeID, rng)
	if err != nil {
		return nil, err
	}
	return fillWeek(rng.Start, indexByDay(rows)), nil
}

func fillWeek(monday time.Time, byDay map[string]int64) []SeriesPoint {
	points := make([]SeriesPoint, 7)
	for i := 0; i < 7; i++ {
		key := monday.AddDate(0, 0, i).Format("2006-01-02")
		points[i] = SeriesPoint{Label: weekdayLabels[i], Total: byDay[key]}
	}
	return points
}

// MonthSeries returns twelve calendar-month buckets for the year.
func (s *ledgerService) MonthSeries(storeID uuid.UUID, kind TransactionKind, year int) ([]SeriesPoint, error) {
	sel := period.Selector{Year: &year}
	byDay, err := s.dailyTotals(storeID, kind, sel.Resolve(s.now()))
	if err != nil {
		return nil, err
	}

	totals := make([]int64, 12)
	for key, total := range byDay {
		if t, err := time.Parse("2006-01-02", key); err == nil && t.Year() == year {
			totals[int(t.Month())-1] += total
		}
	}

	points := make([]SeriesPoint, 12)
	for i := 0; i < 12; i++ {
		points[i] = SeriesPoint{Label: time.Month(i + 1).String(), Total: totals[i]}
	}
	return points, nil
}

// YearSeries returns one bucket per calendar year of [fromYear, toYear].
func (s *ledgerService) YearSeries(storeID uuid.UUID, kind TransactionKind, fromYear, toYear int) ([]SeriesPoint, error) {
	start := time.Date(fromYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(toYear+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	byDay, err := s.dailyTotals(storeID, kind, period.Range{Start: start, End: end, Bounded: true})
	if err != nil {
		return nil, err
	}

	totals := make(map[int]int64)
	for key, total := range byDay {
		if t, err := time.Parse("2006-01-02", key); err == nil {
			totals[t.Year()] += total
		}
	}

	var points []SeriesPoint
	for year := fromYear; year <= toYear; year++ {
		points = append(points, SeriesPoint{Label: time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006"), Total: totals[year]})
	}
	return points, nil
}

func (s *ledgerService) TopProducts(storeID uuid.UUID, sel period.Selector, metric repository.RankMetric, n int) ([]repository.RankedRow, error) {
	return s.saleRepo.TopProducts(storeID, sel.Resolve(s.now()), metric, n)
}

func (s *ledgerService) TopCustomers(storeID uuid.UUID, sel period.Selector, metric repository.RankMetric, n int) ([]repository.RankedRow, error) {
	return s.saleRepo.TopCustomers(storeID, sel.Resolve(s.now()), metric, n)
}

// TopStores ranks every store by sales; consumed by the report tooling
// rather than the store-scoped HTTP surface.
func (s *ledgerService) TopStores(sel period.Selector, metric repository.RankMetric, n int) ([]repository.RankedRow, error) {
	return s.saleRepo.TopStores(sel.Resolve(s.now()), metric, n)
}
