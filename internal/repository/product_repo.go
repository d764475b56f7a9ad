package repository

import (
	"go-storepos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(storeID uuid.UUID) ([]model.Product, error)
	FindByID(tx *gorm.DB, storeID, id uuid.UUID) (*model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(storeID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("store_id = ?", storeID).Find(&products).Error
	return products, err
}

// FindByID is store-scoped: a product belonging to another store is not
// found, it does not exist for the caller.
func (r *productRepo) FindByID(tx *gorm.DB, storeID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := tx.First(&product, "id = ? AND store_id = ?", id, storeID).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}
