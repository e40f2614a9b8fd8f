package models

import "time"

// SubscriptionTierModel persists the seat-limited pricing tiers. Seat
// arithmetic on this table always runs as conditional SQL updates.
type SubscriptionTierModel struct {
	ID           uint   `gorm:"primarykey"`
	TierName     string `gorm:"size:64;not null;uniqueIndex:idx_tier_name"`
	PriceCents   int64  `gorm:"not null"`
	CurrentSeats int    `gorm:"not null;default:0"`
	MaxSeats     int    `gorm:"not null;default:0"`
	IsActive     bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionTierModel) TableName() string {
	return "subscription_tiers"
}
