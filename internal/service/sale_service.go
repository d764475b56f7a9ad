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

// RecordSaleInput is the typed boundary for recording a sale. StockID is
// only a hint: the allocator may redirect to another batch when the
// suggested one has been depleted.
type RecordSaleInput struct {
	ProductID       uuid.UUID           `json:"product_id" validate:"uuid_required"`
	StockID         *uuid.UUID          `json:"stock_id,omitempty"`
	Quantity        int                 `json:"quantity" validate:"required,gt=0"`
	SellingPrice    int64               `json:"selling_price" validate:"gte=0"`
	CustomerName    string              `json:"customer_name"`
	CustomerContact string              `json:"customer_contact"`
	PaymentMethod   model.PaymentMethod `json:"payment_method" validate:"required,oneof=cash mobile"`
	ReceiptCode     string              `json:"receipt_code" validate:"required"`
}

// RecordSaleResult returns everything the sale touched: the sale row, the
// batch it was deducted from, and the upserted customer when the sale was
// not anonymous.
type RecordSaleResult struct {
	Sale     *model.Sale     `json:"sale"`
	Stock    *model.Stock    `json:"stock"`
	Customer *model.Customer `json:"customer,omitempty"`
}

type SaleService interface {
	RecordSale(storeID uuid.UUID, input *RecordSaleInput, userID string) (*RecordSaleResult, error)
	ListSales(storeID uuid.UUID) ([]model.Sale, error)
	GetSale(storeID, id uuid.UUID) (*model.Sale, error)
	ListByReceipt(storeID uuid.UUID, receiptCode string) ([]model.Sale, error)
}

type saleService struct {
	saleRepo     repository.SaleRepository
	stockRepo    repository.StockRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	allocator    Allocator
	db           *gorm.DB
	wsHub        *ws.Hub
	log          *zap.Logger
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	allocator Allocator,
	db *gorm.DB,
	hub *ws.Hub,
	log *zap.Logger,
) SaleService {
	return &saleService{
		saleRepo:     saleRepo,
		stockRepo:    stockRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		allocator:    allocator,
		db:           db,
		wsHub:        hub,
		log:          log,
	}
}

// RecordSale records a sale, deducts the allocated batch and upserts the
// customer as one unit of work: either all three writes persist or none do.
func (s *saleService) RecordSale(storeID uuid.UUID, input *RecordSaleInput, userID string) (*RecordSaleResult, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, &apperr.ValidationError{Field: errs[0].FailedField, Tag: errs[0].Tag}
	}

	result := &RecordSaleResult{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.productRepo.FindByID(tx, storeID, input.ProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product")
			}
			return err
		}

		stock, err := s.allocateAndDeduct(tx, storeID, input, userID)
		if err != nil {
			return err
		}
		result.Stock = stock

		sale := &model.Sale{
			ProductID:    input.ProductID,
			StoreID:      storeID,
			StockID:      stock.ID,
			Quantity:     input.Quantity,
			SellingPrice: input.SellingPrice,
			// Total is always recomputed, never trusted from input.
			TotalPrice:      int64(input.Quantity) * input.SellingPrice,
			Date:            period.Day(time.Now()),
			CustomerName:    input.CustomerName,
			CustomerContact: input.CustomerContact,
			PaymentMethod:   input.PaymentMethod,
			ReceiptCode:     input.ReceiptCode,
			UserID:          &userID,
		}
		sale.CreatedBy = userID
		sale.UpdatedBy = userID
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}
		result.Sale = sale

		// Empty name means an anonymous walk-in: no customer row.
		if input.CustomerName != "" {
			customer, err := s.customerRepo.FindOrCreate(tx, storeID, input.CustomerName, input.CustomerContact, userID)
			if err != nil {
				return err
			}
			if err := s.saleRepo.AttachCustomer(tx, sale.ID, customer.ID); err != nil {
				return err
			}
			sale.CustomerID = &customer.ID
			result.Customer = customer
		}

		return nil
	})
	if err != nil {
		return nil, apperr.Storage("record sale", err)
	}

	s.broadcastSale(result, userID)
	return result, nil
}

// allocateAndDeduct resolves the fulfilling batch and applies the deduction.
// The deduction itself is a guarded conditional update, so a concurrent sale
// that empties the chosen batch between the allocator's read and our write
// surfaces as a guard rejection; one re-allocation against the now-visible
// state tolerates that, after which the request genuinely cannot be filled.
func (s *saleService) allocateAndDeduct(tx *gorm.DB, storeID uuid.UUID, input *RecordSaleInput, userID string) (*model.Stock, error) {
	for attempt := 0; attempt < 2; attempt++ {
		stock, err := s.allocator.Allocate(tx, storeID, input.ProductID, input.StockID, input.Quantity)
		if err != nil {
			return nil, err
		}

		updated, err := s.stockRepo.ApplyDelta(tx, stock.ID, -input.Quantity, userID)
		if err == nil {
			return updated, nil
		}
		if !errors.Is(err, repository.ErrStockGuard) {
			return nil, err
		}
	}

	total, err := s.stockRepo.TotalQuantityForProduct(tx, storeID, input.ProductID)
	if err != nil {
		return nil, err
	}
	return nil, &apperr.InsufficientStockError{Available: int(total)}
}

func (s *saleService) ListSales(storeID uuid.UUID) ([]model.Sale, error) {
	return s.saleRepo.FindAll(storeID)
}

func (s *saleService) GetSale(storeID, id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(storeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("sale")
		}
		return nil, apperr.Storage("get sale", err)
	}
	return sale, nil
}

func (s *saleService) ListByReceipt(storeID uuid.UUID, receiptCode string) ([]model.Sale, error) {
	return s.saleRepo.FindByReceipt(storeID, receiptCode)
}

func (s *saleService) broadcastSale(result *RecordSaleResult, userID string) {
	if s.wsHub == nil {
		return
	}
	stock := result.Stock
	go func() {
		s.wsHub.BroadcastJSON(map[string]interface{}{
			"type":   "stock_update",
			"action": "sale_recorded",
			"stock": map[string]interface{}{
				"id":            stock.ID,
				"product_id":    stock.ProductID,
				"quantity":      stock.Quantity,
				"last_quantity": stock.LastQuantity,
			},
			"sale": map[string]interface{}{
				"id":           result.Sale.ID,
				"quantity":     result.Sale.Quantity,
				"total_price":  result.Sale.TotalPrice,
				"receipt_code": result.Sale.ReceiptCode,
			},
			"user_id": userID,
		})
		if stock.Below() {
			s.wsHub.BroadcastJSON(map[string]interface{}{
				"type":       "low_stock",
				"stock_id":   stock.ID,
				"product_id": stock.ProductID,
				"quantity":   stock.Quantity,
				"threshold":  stock.ThresholdQuantity,
			})
		}
	}()
}
