package repository

import (
	"errors"

	"go-storepos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerRepository interface {
	// FindOrCreate resolves a customer by (store, name), creating the row if
	// absent. The unique index on that pair turns concurrent creations into
	// a duplicate-key error which degrades to a lookup.
	FindOrCreate(tx *gorm.DB, storeID uuid.UUID, name, contact, createdBy string) (*model.Customer, error)
	FindAll(storeID uuid.UUID) ([]model.Customer, error)
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) FindOrCreate(tx *gorm.DB, storeID uuid.UUID, name, contact, createdBy string) (*model.Customer, error) {
	var customer model.Customer
	err := tx.First(&customer, "store_id = ? AND name = ?", storeID, name).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = model.Customer{
		StoreID: storeID,
		Name:    name,
		Contact: contact,
	}
	customer.CreatedBy = createdBy
	customer.UpdatedBy = createdBy
	// The insert runs under a savepoint: on Postgres a failed statement
	// aborts the enclosing transaction, which would make the fallback
	// lookup below impossible.
	err = tx.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&customer).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var existing model.Customer
			if ferr := tx.First(&existing, "store_id = ? AND name = ?", storeID, name).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) FindAll(storeID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Where("store_id = ?", storeID).Order("name ASC").Find(&customers).Error
	return customers, err
}
