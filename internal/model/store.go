package model

import "github.com/google/uuid"

// Store is the tenant boundary: every ledger entity is scoped by StoreID
// and there is no cross-store visibility.
type Store struct {
	BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category    string `gorm:"type:varchar(100)" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `gorm:"type:varchar(255)" json:"location"`
	Contact     string `gorm:"type:varchar(30)" json:"contact"`

	// ClosingTime in "HH:MM"; the daily report dispatcher sends shortly after this.
	ClosingTime  string `gorm:"type:varchar(5);default:'19:00'" json:"closing_time"`
	DailySummary bool   `gorm:"default:true" json:"daily_summary"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	OwnerID     *uuid.UUID `gorm:"type:uuid" json:"owner_id,omitempty"`
	Owner       *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	OwnerLocale string     `gorm:"type:varchar(5);default:'en'" json:"owner_locale"`
}
