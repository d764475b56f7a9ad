package service

import (
	"testing"

	"go-storepos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{}, &model.Store{}, &model.Product{}, &model.Supplier{},
		&model.Customer{}, &model.Stock{}, &model.Purchase{}, &model.Sale{},
	)
	require.NoError(t, err)
	return db
}

func seedStore(t *testing.T, db *gorm.DB) *model.Store {
	store := &model.Store{
		Name:         "Test Store",
		DailySummary: true,
		IsActive:     true,
		OwnerLocale:  "en",
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

func seedProduct(t *testing.T, db *gorm.DB, storeID uuid.UUID, name string) *model.Product {
	product := &model.Product{StoreID: storeID, Name: name}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedSupplier(t *testing.T, db *gorm.DB, storeID uuid.UUID) *model.Supplier {
	supplier := &model.Supplier{StoreID: storeID, Name: "Test Supplier"}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func seedBatch(t *testing.T, db *gorm.DB, storeID, productID uuid.UUID, quantity int, costPrice int64) *model.Stock {
	stock := &model.Stock{
		ProductID:         productID,
		StoreID:           storeID,
		Quantity:          quantity,
		CostPrice:         costPrice,
		ThresholdQuantity: model.DefaultThresholdQuantity,
	}
	require.NoError(t, db.Create(stock).Error)
	return stock
}
