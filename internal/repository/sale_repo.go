package repository

import (
	"go-storepos/internal/model"
	"go-storepos/pkg/period"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RankMetric selects what a topN ranking sums.
type RankMetric string

const (
	RankByQuantity RankMetric = "quantity"
	RankByCount    RankMetric = "count"
)

// DayTotal is one day bucket of an aggregate series.
type DayTotal struct {
	Date  string `json:"date"`
	Total int64  `json:"total"`
}

// RankedRow is one entry of a topN ranking.
type RankedRow struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Total int64     `json:"total"`
}

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	AttachCustomer(tx *gorm.DB, saleID, customerID uuid.UUID) error
	FindAll(storeID uuid.UUID) ([]model.Sale, error)
	FindByID(storeID, id uuid.UUID) (*model.Sale, error)
	FindByReceipt(storeID uuid.UUID, receiptCode string) ([]model.Sale, error)

	CountReceipts(storeID uuid.UUID, rng period.Range) (int64, error)
	SumAmount(storeID uuid.UUID, rng period.Range) (int64, error)
	SumProfit(storeID uuid.UUID, rng period.Range) (int64, error)
	CountMissingStockRef(storeID uuid.UUID, rng period.Range) (int64, error)
	DailyAmounts(storeID uuid.UUID, rng period.Range) ([]DayTotal, error)
	DailyProfits(storeID uuid.UUID, rng period.Range) ([]DayTotal, error)
	TopProducts(storeID uuid.UUID, rng period.Range, metric RankMetric, limit int) ([]RankedRow, error)
	TopCustomers(storeID uuid.UUID, rng period.Range, metric RankMetric, limit int) ([]RankedRow, error)

	// TopStores ranks across all stores; it feeds the cross-store report
	// tooling, not the store-scoped API.
	TopStores(rng period.Range, metric RankMetric, limit int) ([]RankedRow, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// scopeDate restricts q to the resolved period; the all-time selector adds
// no filter.
func scopeDate(q *gorm.DB, column string, rng period.Range) *gorm.DB {
	if !rng.Bounded {
		return q
	}
	return q.Where(column+" >= ? AND "+column+" < ?", rng.Start, rng.End)
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) AttachCustomer(tx *gorm.DB, saleID, customerID uuid.UUID) error {
	return tx.Model(&model.Sale{}).
		Where("id = ?", saleID).
		Update("customer_id", customerID).Error
}

func (r *saleRepo) FindAll(storeID uuid.UUID) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Product").Preload("Stock").Preload("Customer").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(storeID, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Product").Preload("Stock").Preload("Customer").
		First(&sale, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) FindByReceipt(storeID uuid.UUID, receiptCode string) ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Product").Preload("Stock").
		Where("store_id = ? AND receipt_code = ?", storeID, receiptCode).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

// CountReceipts counts checkouts, not line rows: one receipt groups several
// line-sales.
func (r *saleRepo) CountReceipts(storeID uuid.UUID, rng period.Range) (int64, error) {
	var count int64
	q := r.db.Model(&model.Sale{}).Where("store_id = ?", storeID)
	err := scopeDate(q, "date", rng).
		Select("COUNT(DISTINCT receipt_code)").
		Scan(&count).Error
	return count, err
}

func (r *saleRepo) SumAmount(storeID uuid.UUID, rng period.Range) (int64, error) {
	var total int64
	q := r.db.Model(&model.Sale{}).Where("store_id = ?", storeID)
	err := scopeDate(q, "date", rng).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

// SumProfit derives realized margin by joining each sale to its cost-basis
// batch. The inner join excludes sales whose batch reference is missing;
// CountMissingStockRef exists so the service can log those instead of
// silently zeroing them.
func (r *saleRepo) SumProfit(storeID uuid.UUID, rng period.Range) (int64, error) {
	var total int64
	q := r.db.Model(&model.Sale{}).
		Joins("JOIN stocks ON stocks.id = sales.stock_id").
		Where("sales.store_id = ?", storeID)
	err := scopeDate(q, "sales.date", rng).
		Select("COALESCE(SUM((sales.selling_price - stocks.cost_price) * sales.quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *saleRepo) CountMissingStockRef(storeID uuid.UUID, rng period.Range) (int64, error) {
	var count int64
	q := r.db.Model(&model.Sale{}).
		Joins("LEFT JOIN stocks ON stocks.id = sales.stock_id").
		Where("sales.store_id = ? AND stocks.id IS NULL", storeID)
	err := scopeDate(q, "sales.date", rng).Count(&count).Error
	return count, err
}

func (r *saleRepo) DailyAmounts(storeID uuid.UUID, rng period.Range) ([]DayTotal, error) {
	q := r.db.Model(&model.Sale{}).
		Select("DATE(date) as date, COALESCE(SUM(total_price), 0) as total").
		Where("store_id = ?", storeID)
	return scanDayTotals(scopeDate(q, "date", rng))
}

func (r *saleRepo) DailyProfits(storeID uuid.UUID, rng period.Range) ([]DayTotal, error) {
	q := r.db.Model(&model.Sale{}).
		Select("DATE(sales.date) as date, COALESCE(SUM((sales.selling_price - stocks.cost_price) * sales.quantity), 0) as total").
		Joins("JOIN stocks ON stocks.id = sales.stock_id").
		Where("sales.store_id = ?", storeID)
	return scanDayTotals(scopeDate(q, "sales.date", rng))
}

func scanDayTotals(q *gorm.DB) ([]DayTotal, error) {
	rows, err := q.Group("DATE(date)").Order("date ASC").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DayTotal
	for rows.Next() {
		var data DayTotal
		if err := rows.Scan(&data.Date, &data.Total); err != nil {
			return nil, err
		}
		results = append(results, data)
	}
	return results, rows.Err()
}

func rankExpr(metric RankMetric, quantityColumn string) string {
	if metric == RankByCount {
		return "COUNT(*)"
	}
	return "COALESCE(SUM(" + quantityColumn + "), 0)"
}

// TopProducts ranks products by units sold or sale rows. Ties break on
// product id ascending so rankings are deterministic.
func (r *saleRepo) TopProducts(storeID uuid.UUID, rng period.Range, metric RankMetric, limit int) ([]RankedRow, error) {
	q := r.db.Model(&model.Sale{}).
		Select("products.id as id, products.name as name, "+rankExpr(metric, "sales.quantity")+" as total").
		Joins("JOIN products ON products.id = sales.product_id").
		Where("sales.store_id = ?", storeID)
	q = scopeDate(q, "sales.date", rng).
		Group("products.id, products.name").
		Order("total DESC, id ASC").
		Limit(limit)

	var results []RankedRow
	err := q.Scan(&results).Error
	return results, err
}

func (r *saleRepo) TopStores(rng period.Range, metric RankMetric, limit int) ([]RankedRow, error) {
	q := r.db.Model(&model.Sale{}).
		Select("stores.id as id, stores.name as name, " + rankExpr(metric, "sales.quantity") + " as total").
		Joins("JOIN stores ON stores.id = sales.store_id")
	q = scopeDate(q, "sales.date", rng).
		Group("stores.id, stores.name").
		Order("total DESC, id ASC").
		Limit(limit)

	var results []RankedRow
	err := q.Scan(&results).Error
	return results, err
}

func (r *saleRepo) TopCustomers(storeID uuid.UUID, rng period.Range, metric RankMetric, limit int) ([]RankedRow, error) {
	q := r.db.Model(&model.Sale{}).
		Select("customers.id as id, customers.name as name, "+rankExpr(metric, "sales.quantity")+" as total").
		Joins("JOIN customers ON customers.id = sales.customer_id").
		Where("sales.store_id = ?", storeID)
	q = scopeDate(q, "sales.date", rng).
		Group("customers.id, customers.name").
		Order("total DESC, id ASC").
		Limit(limit)

	var results []RankedRow
	err := q.Scan(&results).Error
	return results, err
}
