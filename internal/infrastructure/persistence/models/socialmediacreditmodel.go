package models

import (
	"time"

	"gorm.io/datatypes"
)

// SocialMediaCreditModel persists share proofs submitted with social bonus
// claims, one row per successful claim.
type SocialMediaCreditModel struct {
	ID             uint           `gorm:"primarykey"`
	SID            string         `gorm:"column:sid;size:32;not null;uniqueIndex:idx_smc_sid"`
	Email          string         `gorm:"size:320;not null;index:idx_smc_email"`
	ImageURL       string         `gorm:"size:2048;not null"`
	Note           string         `gorm:"size:1024"`
	Status         string         `gorm:"size:16;not null"`
	CreditsAwarded int            `gorm:"not null;default:0"`
	CreditType     string         `gorm:"size:16;not null"`
	Metadata       datatypes.JSON `gorm:"type:json"`
	ReviewedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (SocialMediaCreditModel) TableName() string {
	return "social_media_credits"
}
