package model

import "github.com/google/uuid"

// Customer is denormalized from sale input: found-or-created by
// (store, name) as part of recording a sale. The unique index backs the
// upsert so concurrent sales cannot create duplicates.
type Customer struct {
	BaseModel
	StoreID uuid.UUID `gorm:"type:uuid;not null;index:idx_customer_store_name,unique" json:"store_id"`
	Name    string    `gorm:"type:varchar(255);not null;index:idx_customer_store_name,unique" json:"name"`
	Contact string    `gorm:"type:varchar(30)" json:"contact"`
}
