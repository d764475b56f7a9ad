package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentMobile PaymentMethod = "mobile"
)

// Sale is an immutable outgoing-stock transaction. StockID is the batch the
// allocator actually deducted, which may differ from the batch the client
// suggested. Profit is never stored: it is derived at query time as
// (selling_price - stock.cost_price) * quantity.
type Sale struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	StoreID   uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
	StockID   uuid.UUID `gorm:"type:uuid;not null;index" json:"stock_id"`
	Stock     *Stock    `gorm:"foreignKey:StockID" json:"stock,omitempty"`

	Quantity     int       `gorm:"not null" json:"quantity"`
	SellingPrice int64     `gorm:"not null" json:"selling_price"`
	TotalPrice   int64     `gorm:"not null" json:"total_price"`
	Date         time.Time `gorm:"type:date;not null;index" json:"date"`

	CustomerID      *uuid.UUID `gorm:"type:uuid" json:"customer_id,omitempty"`
	Customer        *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	CustomerName    string     `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerContact string     `gorm:"type:varchar(30)" json:"customer_contact"`

	PaymentMethod PaymentMethod `gorm:"type:varchar(10);not null" json:"payment_method"`

	// ReceiptCode groups the line-sales of one checkout; transaction counts
	// are distinct by it.
	ReceiptCode string `gorm:"type:varchar(50);not null;index" json:"receipt_code"`

	UserID *string `gorm:"type:varchar(255)" json:"user_id,omitempty"`
}
