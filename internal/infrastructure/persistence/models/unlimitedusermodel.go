package models

import "time"

// UnlimitedUserModel persists the allow-list of emails that bypass all
// metering.
type UnlimitedUserModel struct {
	ID        uint   `gorm:"primarykey"`
	Email     string `gorm:"size:320;not null;uniqueIndex:idx_unlimited_email"`
	IsActive  bool   `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (UnlimitedUserModel) TableName() string {
	return "unlimited_users"
}
