package service

import (
	"errors"
	"time"

	"go-storepos/internal/apperr"
	"go-storepos/internal/model"
	"go-storepos/internal/repository"
	"go-storepos/pkg/period"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DailyReport is the feed consumed once per store per scheduled run by the
// external report dispatcher. It must be computable for any past date, which
// is why batch cost prices are immutable.
type DailyReport struct {
	StoreName                 string `json:"store_name"`
	TotalStockLevel           int64  `json:"total_stock_level"`
	TotalPurchasesAmount      int64  `json:"total_purchases_amount"`
	PurchaseTransactionsCount int64  `json:"purchase_transactions_count"`
	TotalSalesAmount          int64  `json:"total_sales_amount"`
	SaleTransactionsCount     int64  `json:"sale_transactions_count"`
	TotalProfitAmount         int64  `json:"total_profit_amount"`
	ReportDate                string `json:"report_date"`
	Locale                    string `json:"locale"`
}

type ReportService interface {
	// GetDailyReport computes one store's totals for one calendar day.
	// Locale travels as a parameter through the call chain; nothing
	// process-wide is mutated for it.
	GetDailyReport(storeID uuid.UUID, date time.Time, locale string) (*DailyReport, error)
	ListReportableStores() ([]model.Store, error)
}

type reportService struct {
	storeRepo    repository.StoreRepository
	stockRepo    repository.StockRepository
	saleRepo     repository.SaleRepository
	purchaseRepo repository.PurchaseRepository
	log          *zap.Logger
}

func NewReportService(
	storeRepo repository.StoreRepository,
	stockRepo repository.StockRepository,
	saleRepo repository.SaleRepository,
	purchaseRepo repository.PurchaseRepository,
	log *zap.Logger,
) ReportService {
	return &reportService{
		storeRepo:    storeRepo,
		stockRepo:    stockRepo,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
		log:          log,
	}
}

func (s *reportService) GetDailyReport(storeID uuid.UUID, date time.Time, locale string) (*DailyReport, error) {
	store, err := s.storeRepo.FindByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("store")
		}
		return nil, apperr.Storage("daily report", err)
	}
	if locale == "" {
		locale = store.OwnerLocale
	}

	day := period.DayRange(date)
	report := &DailyReport{
		StoreName:  store.Name,
		ReportDate: day.Start.Format("2006-01-02"),
		Locale:     locale,
	}

	if report.TotalStockLevel, err = s.stockRepo.TotalQuantity(storeID); err != nil {
		return nil, apperr.Storage("daily report", err)
	}
	if report.TotalPurchasesAmount, err = s.purchaseRepo.SumAmount(storeID, day); err != nil {
		return nil, apperr.Storage("daily report", err)
	}
	if report.PurchaseTransactionsCount, err = s.purchaseRepo.Count(storeID, day); err != nil {
		return nil, apperr.Storage("daily report", err)
	}
	if report.TotalSalesAmount, err = s.saleRepo.SumAmount(storeID, day); err != nil {
		return nil, apperr.Storage("daily report", err)
	}
	if report.SaleTransactionsCount, err = s.saleRepo.CountReceipts(storeID, day); err != nil {
		return nil, apperr.Storage("daily report", err)
	}

	missing, err := s.saleRepo.CountMissingStockRef(storeID, day)
	if err != nil {
		return nil, apperr.Storage("daily report", err)
	}
	if missing > 0 {
		s.log.Warn("daily report excludes sales without a stock batch reference",
			zap.String("store", store.Name),
			zap.Int64("excluded_sales", missing),
		)
	}
	if report.TotalProfitAmount, err = s.saleRepo.SumProfit(storeID, day); err != nil {
		return nil, apperr.Storage("daily report", err)
	}

	return report, nil
}

func (s *reportService) ListReportableStores() ([]model.Store, error) {
	return s.storeRepo.ListDailyReportOptIns()
}
