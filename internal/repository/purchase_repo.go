package repository

import (
	"go-storepos/internal/model"
	"go-storepos/pkg/period"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(tx *gorm.DB, purchase *model.Purchase) error
	FindAll(storeID uuid.UUID) ([]model.Purchase, error)
	FindByID(storeID, id uuid.UUID) (*model.Purchase, error)

	// Purchase transaction counts are per-row; there is no receipt grouping
	// on the inbound side.
	Count(storeID uuid.UUID, rng period.Range) (int64, error)
	SumAmount(storeID uuid.UUID, rng period.Range) (int64, error)
	DailyAmounts(storeID uuid.UUID, rng period.Range) ([]DayTotal, error)
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) Create(tx *gorm.DB, purchase *model.Purchase) error {
	return tx.Create(purchase).Error
}

func (r *purchaseRepo) FindAll(storeID uuid.UUID) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := r.db.Preload("Product").Preload("Stock").Preload("Supplier").
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

func (r *purchaseRepo) FindByID(storeID, id uuid.UUID) (*model.Purchase, error) {
	var purchase model.Purchase
	err := r.db.Preload("Product").Preload("Stock").Preload("Supplier").
		First(&purchase, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *purchaseRepo) Count(storeID uuid.UUID, rng period.Range) (int64, error) {
	var count int64
	q := r.db.Model(&model.Purchase{}).Where("store_id = ?", storeID)
	err := scopeDate(q, "date", rng).Count(&count).Error
	return count, err
}

func (r *purchaseRepo) SumAmount(storeID uuid.UUID, rng period.Range) (int64, error) {
	var total int64
	q := r.db.Model(&model.Purchase{}).Where("store_id = ?", storeID)
	err := scopeDate(q, "date", rng).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

func (r *purchaseRepo) DailyAmounts(storeID uuid.UUID, rng period.Range) ([]DayTotal, error) {
	q := r.db.Model(&model.Purchase{}).
		Select("DATE(date) as date, COALESCE(SUM(total_price), 0) as total").
		Where("store_id = ?", storeID)
	return scanDayTotals(scopeDate(q, "date", rng))
}
