package repository

import (
	"errors"
	"time"

	"go-storepos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrStockGuard is returned by ApplyDelta when the conditional update matched
// no row: the batch is gone or the deduction would drive quantity negative.
var ErrStockGuard = errors.New("stock guard rejected update")

// StockRepository owns the stock batches: the unit of truth for how much of a
// product a store holds and at what cost. Methods taking a tx participate in
// the caller's transaction.
type StockRepository interface {
	Create(tx *gorm.DB, stock *model.Stock) error
	FindByCost(tx *gorm.DB, storeID, productID uuid.UUID, costPrice int64) (*model.Stock, error)
	FindByID(tx *gorm.DB, storeID, productID, id uuid.UUID) (*model.Stock, error)
	ListWithStock(tx *gorm.DB, storeID, productID uuid.UUID) ([]model.Stock, error)
	ListByStore(storeID uuid.UUID) ([]model.Stock, error)
	ListShortages(storeID uuid.UUID) ([]model.Stock, error)
	TotalQuantity(storeID uuid.UUID) (int64, error)
	TotalQuantityForProduct(tx *gorm.DB, storeID, productID uuid.UUID) (int64, error)
	TotalQuantityCreatedBefore(storeID uuid.UUID, asOf time.Time) (int64, error)
	ApplyDelta(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (*model.Stock, error)
	UpdateThreshold(storeID uuid.UUID, threshold int, updatedBy string) (int64, error)
}

type stockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) StockRepository {
	return &stockRepo{db}
}

func (r *stockRepo) Create(tx *gorm.DB, stock *model.Stock) error {
	return tx.Create(stock).Error
}

func (r *stockRepo) FindByCost(tx *gorm.DB, storeID, productID uuid.UUID, costPrice int64) (*model.Stock, error) {
	var stock model.Stock
	err := tx.First(&stock, "store_id = ? AND product_id = ? AND cost_price = ?", storeID, productID, costPrice).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stockRepo) FindByID(tx *gorm.DB, storeID, productID, id uuid.UUID) (*model.Stock, error) {
	var stock model.Stock
	err := tx.First(&stock, "id = ? AND store_id = ? AND product_id = ?", id, storeID, productID).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// ListWithStock returns the allocation candidate pool: batches holding any
// quantity, largest first. ID breaks ties so the order is deterministic.
func (r *stockRepo) ListWithStock(tx *gorm.DB, storeID, productID uuid.UUID) ([]model.Stock, error) {
	var stocks []model.Stock
	err := tx.Where("store_id = ? AND product_id = ? AND quantity > 0", storeID, productID).
		Order("quantity DESC, id ASC").
		Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) ListByStore(storeID uuid.UUID) ([]model.Stock, error) {
	var stocks []model.Stock
	err := r.db.Preload("Product").Where("store_id = ?", storeID).Order("created_at DESC").Find(&stocks).Error
	return stocks, err
}

// ListShortages returns batches at or under their low-stock threshold.
func (r *stockRepo) ListShortages(storeID uuid.UUID) ([]model.Stock, error) {
	var stocks []model.Stock
	err := r.db.Preload("Product").
		Where("store_id = ? AND quantity <= threshold_quantity", storeID).
		Find(&stocks).Error
	return stocks, err
}

func (r *stockRepo) TotalQuantity(storeID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.Model(&model.Stock{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (r *stockRepo) TotalQuantityForProduct(tx *gorm.DB, storeID, productID uuid.UUID) (int64, error) {
	var total int64
	err := tx.Model(&model.Stock{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// TotalQuantityCreatedBefore bounds the sum by batch creation date. This is
// only an approximation of a historical stock level: deductions after asOf
// are still reflected in quantity.
func (r *stockRepo) TotalQuantityCreatedBefore(storeID uuid.UUID, asOf time.Time) (int64, error) {
	var total int64
	err := r.db.Model(&model.Stock{}).
		Where("store_id = ? AND created_at <= ?", storeID, asOf).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// ApplyDelta adds (purchase) or subtracts (sale) quantity in a single
// conditional update, recording the pre-mutation quantity in last_quantity.
// The WHERE guard makes concurrent deductions serialize correctly: the
// statement matches no row when the result would go negative, and the caller
// gets ErrStockGuard instead of a silently oversold batch.
func (r *stockRepo) ApplyDelta(tx *gorm.DB, id uuid.UUID, delta int, updatedBy string) (*model.Stock, error) {
	res := tx.Model(&model.Stock{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(map[string]interface{}{
			"last_quantity": gorm.Expr("quantity"),
			"quantity":      gorm.Expr("quantity + ?", delta),
			"updated_by":    updatedBy,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrStockGuard
	}

	var stock model.Stock
	if err := tx.First(&stock, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

// UpdateThreshold sets the low-stock threshold for every batch of the store.
func (r *stockRepo) UpdateThreshold(storeID uuid.UUID, threshold int, updatedBy string) (int64, error) {
	res := r.db.Model(&model.Stock{}).
		Where("store_id = ?", storeID).
		Updates(map[string]interface{}{
			"threshold_quantity": threshold,
			"updated_by":         updatedBy,
		})
	return res.RowsAffected, res.Error
}
