package model

import "github.com/google/uuid"

// Stock is one priced batch of inventory: a quantity of a product bought at
// one cost price. Batch identity is (store, product, cost price) and the
// cost price never changes after creation, because profit for every sale
// referencing this batch is derived from it at query time.
type Stock struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_batch,unique" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;index:idx_stock_batch,unique" json:"store_id" validate:"uuid_required"`

	Quantity  int   `gorm:"not null;default:0" json:"quantity"`
	CostPrice int64 `gorm:"not null;index:idx_stock_batch,unique" json:"cost_price" validate:"gte=0"`

	// SellingPrice is advisory only; each sale records its own price.
	SellingPrice int64 `gorm:"default:0" json:"selling_price"`

	// LastQuantity holds the quantity immediately before the most recent
	// mutation, for audit and undo.
	LastQuantity      int `gorm:"not null;default:0" json:"last_quantity"`
	ThresholdQuantity int `gorm:"not null;default:10" json:"threshold_quantity"`

	CreatedByUserID *string `gorm:"type:varchar(255)" json:"created_by_user_id,omitempty"`
}

// DefaultThresholdQuantity is applied to batches created by a purchase until
// the store overrides it.
const DefaultThresholdQuantity = 10

// Below reports whether this batch sits at or under its low-stock threshold.
func (s *Stock) Below() bool {
	return s.Quantity <= s.ThresholdQuantity
}
