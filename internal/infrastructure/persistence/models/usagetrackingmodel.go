package models

import (
	"time"
)

// UsageTrackingModel represents the database persistence model for per-email
// usage records. This is the anti-corruption layer between domain and
// database. Rows are never deleted.
type UsageTrackingModel struct {
	ID                  uint   `gorm:"primarykey"`
	Email               string `gorm:"size:320;not null;uniqueIndex:idx_usage_email"`
	UsageCount          int    `gorm:"not null;default:0"`
	BonusCredits        int    `gorm:"not null;default:0"`
	SubscriptionStatus  string `gorm:"size:16;not null;default:'free'"`
	OneTimeBonusClaimed bool   `gorm:"not null;default:false"`
	LastMonthlyClaim    *time.Time
	LastUsedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName specifies the table name for GORM
func (UsageTrackingModel) TableName() string {
	return "user_usage_tracking"
}
