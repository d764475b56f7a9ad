package model

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is an immutable incoming-stock transaction. TotalPrice is always
// recomputed as Quantity * UnitPrice, never trusted from input.
type Purchase struct {
	BaseModel
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	StoreID    uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
	StockID    uuid.UUID `gorm:"type:uuid;not null;index" json:"stock_id"`
	Stock      *Stock    `gorm:"foreignKey:StockID" json:"stock,omitempty"`
	SupplierID uuid.UUID `gorm:"type:uuid;not null" json:"supplier_id"`
	Supplier   *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`

	Quantity   int       `gorm:"not null" json:"quantity"`
	UnitPrice  int64     `gorm:"not null" json:"unit_price"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	Date       time.Time `gorm:"type:date;not null;index" json:"date"`

	UserID *string `gorm:"type:varchar(255)" json:"user_id,omitempty"`
}
