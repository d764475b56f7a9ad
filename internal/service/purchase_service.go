package service

import (
	"errors"
	"time"

	"go-storepos/internal/apperr"
	"go-storepos/internal/model"
	"go-storepos/internal/repository"
	"go-storepos/internal/ws"
	"go-storepos/pkg/period"
	"go-storepos/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecordPurchaseInput is the typed boundary for recording incoming stock.
// The caller's store id comes from the authorized request context, never
// from the payload.
type RecordPurchaseInput struct {
	ProductID  uuid.UUID `json:"product_id" validate:"uuid_required"`
	SupplierID uuid.UUID `json:"supplier_id" validate:"uuid_required"`
	Quantity   int       `json:"quantity" validate:"required,gt=0"`
	UnitPrice  int64     `json:"unit_price" validate:"gte=0"`
}

type PurchaseService interface {
	RecordPurchase(storeID uuid.UUID, input *RecordPurchaseInput, userID string) (*model.Purchase, *model.Stock, error)
	ListPurchases(storeID uuid.UUID) ([]model.Purchase, error)
	GetPurchase(storeID, id uuid.UUID) (*model.Purchase, error)
}

type purchaseService struct {
	purchaseRepo repository.PurchaseRepository
	stockRepo    repository.StockRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
	db           *gorm.DB
	wsHub        *ws.Hub
	log          *zap.Logger
}

func NewPurchaseService(
	purchaseRepo repository.PurchaseRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
	db *gorm.DB,
	hub *ws.Hub,
	log *zap.Logger,
) PurchaseService {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		stockRepo:    stockRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
		db:           db,
		wsHub:        hub,
		log:          log,
	}
}

// RecordPurchase appends a purchase and routes the stock to the right batch:
// merged into the existing batch at exactly this cost price, or a new batch
// if the product was never bought at this price. Both writes commit or roll
// back together.
func (s *purchaseService) RecordPurchase(storeID uuid.UUID, input *RecordPurchaseInput, userID string) (*model.Purchase, *model.Stock, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, nil, &apperr.ValidationError{Field: errs[0].FailedField, Tag: errs[0].Tag}
	}

	var purchase *model.Purchase
	var stock *model.Stock

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.productRepo.FindByID(tx, storeID, input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product")
			}
			return err
		}
		if _, err := s.supplierRepo.FindByID(tx, storeID, input.SupplierID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("supplier")
			}
			return err
		}

		var err error
		stock, err = s.routeToBatch(tx, storeID, input, userID)
		if err != nil {
			return err
		}

		purchase = &model.Purchase{
			ProductID:  input.ProductID,
			StoreID:    storeID,
			StockID:    stock.ID,
			SupplierID: input.SupplierID,
			Quantity:   input.Quantity,
			UnitPrice:  input.UnitPrice,
			// Total is always recomputed, never trusted from input.
			TotalPrice: int64(input.Quantity) * input.UnitPrice,
			Date:       period.Day(time.Now()),
			UserID:     &userID,
		}
		purchase.CreatedBy = userID
		purchase.UpdatedBy = userID
		return s.purchaseRepo.Create(tx, purchase)
	})
	if err != nil {
		return nil, nil, apperr.Storage("record purchase", err)
	}

	s.broadcastStockUpdate("purchase_recorded", stock, userID)
	return purchase, stock, nil
}

// routeToBatch implements create-or-merge on (store, product, cost price).
// The unique batch index resolves the race where two purchases at a new cost
// price both miss the lookup: the loser's insert comes back as a duplicate
// key and degrades to a merge.
func (s *purchaseService) routeToBatch(tx *gorm.DB, storeID uuid.UUID, input *RecordPurchaseInput, userID string) (*model.Stock, error) {
	existing, err := s.stockRepo.FindByCost(tx, storeID, input.ProductID, input.UnitPrice)
	if err == nil {
		return s.stockRepo.ApplyDelta(tx, existing.ID, input.Quantity, userID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stock := &model.Stock{
		ProductID:         input.ProductID,
		StoreID:           storeID,
		Quantity:          input.Quantity,
		CostPrice:         input.UnitPrice,
		LastQuantity:      0,
		ThresholdQuantity: model.DefaultThresholdQuantity,
		CreatedByUserID:   &userID,
	}
	stock.CreatedBy = userID
	stock.UpdatedBy = userID

	// The insert runs under a savepoint: on Postgres a failed statement
	// aborts the enclosing transaction, which would make the merge below
	// impossible.
	err = tx.Transaction(func(tx *gorm.DB) error {
		return s.stockRepo.Create(tx, stock)
	})
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, err
	}

	// Lost the create race; merge into the winner's batch.
	winner, err := s.stockRepo.FindByCost(tx, storeID, input.ProductID, input.UnitPrice)
	if err != nil {
		return nil, err
	}
	return s.stockRepo.ApplyDelta(tx, winner.ID, input.Quantity, userID)
}

func (s *purchaseService) ListPurchases(storeID uuid.UUID) ([]model.Purchase, error) {
	return s.purchaseRepo.FindAll(storeID)
}

func (s *purchaseService) GetPurchase(storeID, id uuid.UUID) (*model.Purchase, error) {
	purchase, err := s.purchaseRepo.FindByID(storeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("purchase")
		}
		return nil, apperr.Storage("get purchase", err)
	}
	return purchase, nil
}

func (s *purchaseService) broadcastStockUpdate(action string, stock *model.Stock, userID string) {
	if s.wsHub == nil {
		return
	}
	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": action,
		"stock": map[string]interface{}{
			"id":            stock.ID,
			"product_id":    stock.ProductID,
			"quantity":      stock.Quantity,
			"last_quantity": stock.LastQuantity,
			"cost_price":    stock.CostPrice,
		},
		"user_id": userID,
	})
}
