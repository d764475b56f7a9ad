package service

import (
	"testing"

	"go-storepos/internal/apperr"
	"go-storepos/internal/model"
	"go-storepos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newPurchaseService(t *testing.T, db *gorm.DB) PurchaseService {
	return NewPurchaseService(
		repository.NewPurchaseRepo(db),
		repository.NewStockRepo(db),
		repository.NewProductRepo(db),
		repository.NewSupplierRepo(db),
		db, nil, zaptest.NewLogger(t),
	)
}

func TestRecordPurchase_CreatesNewBatch(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Sugar 1kg")
	supplier := seedSupplier(t, db, store.ID)
	svc := newPurchaseService(t, db)

	purchase, stock, err := svc.RecordPurchase(store.ID, &RecordPurchaseInput{
		ProductID:  product.ID,
		SupplierID: supplier.ID,
		Quantity:   5,
		UnitPrice:  100,
	}, "tester")
	require.NoError(t, err)

	assert.Equal(t, 5, stock.Quantity)
	assert.Equal(t, int64(100), stock.CostPrice)
	assert.Equal(t, 0, stock.LastQuantity)
	assert.Equal(t, model.DefaultThresholdQuantity, stock.ThresholdQuantity)

	assert.Equal(t, stock.ID, purchase.StockID)
	assert.Equal(t, int64(500), purchase.TotalPrice)
}

func TestRecordPurchase_MergesIntoBatchAtSameCost(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Sugar 1kg")
	supplier := seedSupplier(t, db, store.ID)
	svc := newPurchaseService(t, db)

	_, first, err := svc.RecordPurchase(store.ID, &RecordPurchaseInput{
		ProductID: product.ID, SupplierID: supplier.ID, Quantity: 5, UnitPrice: 100,
	}, "tester")
	require.NoError(t, err)

	_, second, err := svc.RecordPurchase(store.ID, &RecordPurchaseInput{
		ProductID: product.ID, SupplierID: supplier.ID, Quantity: 7, UnitPrice: 100,
	}, "tester")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 12, second.Quantity)
	assert.Equal(t, 5, second.LastQuantity)

	var batches int64
	require.NoError(t, db.Model(&model.Stock{}).Count(&batches).Error)
	assert.Equal(t, int64(1), batches)
}

func TestRecordPurchase_NewCostOpensNewBatch(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Sugar 1kg")
	supplier := seedSupplier(t, db, store.ID)
	svc := newPurchaseService(t, db)

	_, first, err := svc.RecordPurchase(store.ID, &RecordPurchaseInput{
		ProductID: product.ID, SupplierID: supplier.ID, Quantity: 5, UnitPrice: 100,
	}, "tester")
	require.NoError(t, err)

	_, second, err := svc.RecordPurchase(store.ID, &RecordPurchaseInput{
		ProductID: product.ID, SupplierID: supplier.ID, Quantity: 4, UnitPrice: 150,
	}, "tester")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 4, second.Quantity)
	assert.Equal(t, int64(150), second.CostPrice)

	var batches int64
	require.NoError(t, db.Model(&model.Stock{}).Count(&batches).Error)
	assert.Equal(t, int64(2), batches)
}

// missOnceStockRepo reports the batch as absent on the first cost lookup,
// standing in for a concurrent purchase that inserts the batch between the
// lookup and our insert.
type missOnceStockRepo struct {
	repository.StockRepository
	missed bool
}

func (r *missOnceStockRepo) FindByCost(tx *gorm.DB, storeID, productID uuid.UUID, costPrice int64) (*model.Stock, error) {
	if !r.missed {
		r.missed = true
		return nil, gorm.ErrRecordNotFound
	}
	return r.StockRepository.FindByCost(tx, storeID, productID, costPrice)
}

func TestRecordPurchase_LostBatchRaceMergesIntoWinner(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Sugar 1kg")
	supplier := seedSupplier(t, db, store.ID)
	winner := seedBatch(t, db, store.ID, product.ID, 5, 100)

	svc := NewPurchaseService(
		repository.NewPurchaseRepo(db),
		&missOnceStockRepo{StockRepository: repository.NewStockRepo(db)},
		repository.NewProductRepo(db),
		repository.NewSupplierRepo(db),
		db, nil, zaptest.NewLogger(t),
	)

	purchase, stock, err := svc.RecordPurchase(store.ID, &RecordPurchaseInput{
		ProductID: product.ID, SupplierID: supplier.ID, Quantity: 7, UnitPrice: 100,
	}, "tester")
	require.NoError(t, err)

	assert.Equal(t, winner.ID, stock.ID)
	assert.Equal(t, 12, stock.Quantity)
	assert.Equal(t, 5, stock.LastQuantity)
	assert.Equal(t, winner.ID, purchase.StockID)

	var batches int64
	require.NoError(t, db.Model(&model.Stock{}).Count(&batches).Error)
	assert.Equal(t, int64(1), batches)
}

func TestRecordPurchase_RejectsInvalidInput(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	product := seedProduct(t, db, store.ID, "Sugar 1kg")
	supplier := seedSupplier(t, db, store.ID)
	svc := newPurchaseService(t, db)

	_, _, err := svc.RecordPurchase(store.ID, &RecordPurchaseInput{
		ProductID: product.ID, SupplierID: supplier.ID, Quantity: 0, UnitPrice: 100,
	}, "tester")

	var ve *apperr.ValidationError
	require.ErrorAs(t, err, &ve)

	var rows int64
	require.NoError(t, db.Model(&model.Purchase{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestRecordPurchase_UnknownProduct(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	supplier := seedSupplier(t, db, store.ID)
	svc := newPurchaseService(t, db)

	_, _, err := svc.RecordPurchase(store.ID, &RecordPurchaseInput{
		ProductID: uuid.New(), SupplierID: supplier.ID, Quantity: 3, UnitPrice: 100,
	}, "tester")

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Entity)
}

func TestRecordPurchase_ProductFromAnotherStore(t *testing.T) {
	db := newTestDB(t)
	store := seedStore(t, db)
	other := seedStore(t, db)
	foreign := seedProduct(t, db, other.ID, "Foreign Product")
	supplier := seedSupplier(t, db, store.ID)
	svc := newPurchaseService(t, db)

	_, _, err := svc.RecordPurchase(store.ID, &RecordPurchaseInput{
		ProductID: foreign.ID, SupplierID: supplier.ID, Quantity: 3, UnitPrice: 100,
	}, "tester")

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
}
