package repository

import (
	"go-storepos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id uuid.UUID) (*model.Store, error)
	FindActiveByID(id uuid.UUID) (*model.Store, error)
	ListDailyReportOptIns() ([]model.Store, error)
}

type storeRepo struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepository {
	return &storeRepo{db}
}

func (r *storeRepo) Create(store *model.Store) error {
	return r.db.Create(store).Error
}

func (r *storeRepo) FindByID(id uuid.UUID) (*model.Store, error) {
	var store model.Store
	err := r.db.First(&store, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepo) FindActiveByID(id uuid.UUID) (*model.Store, error) {
	var store model.Store
	err := r.db.First(&store, "id = ? AND is_active = ?", id, true).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// ListDailyReportOptIns returns the active stores the report dispatcher
// should generate a summary for.
func (r *storeRepo) ListDailyReportOptIns() ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Preload("Owner").
		Where("daily_summary = ? AND is_active = ?", true, true).
		Find(&stores).Error
	return stores, err
}
