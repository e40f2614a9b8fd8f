package models

import "time"

// PromotionalAccessModel persists time-boxed paid-equivalent grants handed
// out by marketing.
type PromotionalAccessModel struct {
	ID        uint      `gorm:"primarykey"`
	Email     string    `gorm:"size:320;not null;index:idx_promo_email"`
	ExpiresAt time.Time `gorm:"not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (PromotionalAccessModel) TableName() string {
	return "promotional_access"
}
