package models

import "time"

// CheckoutReservationModel persists optimistic founders seat reservations
// taken at checkout-session creation.
type CheckoutReservationModel struct {
	ID                uint      `gorm:"primarykey"`
	SID               string    `gorm:"column:sid;size:32;not null;uniqueIndex:idx_chk_sid"`
	Email             string    `gorm:"size:320;not null;index:idx_chk_email"`
	TierName          string    `gorm:"size:64;not null"`
	ProviderSessionID string    `gorm:"size:255;index:idx_chk_provider_session"`
	Status            string    `gorm:"size:16;not null;default:'pending';index:idx_chk_status"`
	ExpiresAt         time.Time `gorm:"not null;index:idx_chk_expires"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TableName specifies the table name for GORM
func (CheckoutReservationModel) TableName() string {
	return "checkout_reservations"
}
