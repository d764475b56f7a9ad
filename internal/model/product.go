package model

import "github.com/google/uuid"

type Product struct {
	BaseModel
	StoreID     uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id" validate:"uuid_required"`
	Store       *Store    `gorm:"foreignKey:StoreID" json:"store,omitempty"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category    string    `gorm:"type:varchar(100)" json:"category"`
	Description string    `gorm:"type:text" json:"description"`

	// Relasi
	Stocks    []Stock    `json:"stocks,omitempty"`
	Sales     []Sale     `json:"sales,omitempty"`
	Purchases []Purchase `json:"purchases,omitempty"`
}
