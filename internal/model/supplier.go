package model

import "github.com/google/uuid"

type Supplier struct {
	BaseModel
	StoreID uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id" validate:"uuid_required"`
	Name    string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Contact string    `gorm:"type:varchar(30)" json:"contact"`
}
