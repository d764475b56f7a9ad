package repository

import (
	"go-storepos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(supplier *model.Supplier) error
	FindAll(storeID uuid.UUID) ([]model.Supplier, error)
	FindByID(tx *gorm.DB, storeID, id uuid.UUID) (*model.Supplier, error)
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	return r.db.Create(supplier).Error
}

func (r *supplierRepo) FindAll(storeID uuid.UUID) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.Where("store_id = ?", storeID).Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(tx *gorm.DB, storeID, id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	err := tx.First(&supplier, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}
