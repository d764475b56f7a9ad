package service

import (
	"errors"

	"go-storepos/internal/apperr"
	"go-storepos/internal/model"
	"go-storepos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Allocator decides which single batch fulfills a sale request. A sale line
// keeps one batch id and one cost basis, so a request is never split across
// batches: when no single batch covers it the request fails even if the
// store's total would.
type Allocator interface {
	Allocate(tx *gorm.DB, storeID, productID uuid.UUID, suggestedID *uuid.UUID, quantity int) (*model.Stock, error)
}

type batchAllocator struct {
	stockRepo repository.StockRepository
}

func NewAllocator(stockRepo repository.StockRepository) Allocator {
	return &batchAllocator{stockRepo: stockRepo}
}

// Allocate prefers the client-suggested batch, then falls back to the
// largest-quantity batch that can cover the request. Selling a batch down to
// exactly zero is allowed; only requested > available fails. The suggested
// batch may have been depleted by a concurrent sale since the client picked
// it, which is why the fallback exists at all.
func (a *batchAllocator) Allocate(tx *gorm.DB, storeID, productID uuid.UUID, suggestedID *uuid.UUID, quantity int) (*model.Stock, error) {
	if suggestedID != nil {
		stock, err := a.stockRepo.FindByID(tx, storeID, productID, *suggestedID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err == nil && stock.Quantity >= quantity {
			return stock, nil
		}
	}

	candidates, err := a.stockRepo.ListWithStock(tx, storeID, productID)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if candidates[i].Quantity >= quantity {
			return &candidates[i], nil
		}
	}

	total, err := a.stockRepo.TotalQuantityForProduct(tx, storeID, productID)
	if err != nil {
		return nil, err
	}
	return nil, &apperr.InsufficientStockError{Available: int(total)}
}
