package models

import "time"

// A phone registered for eating-window reminders. Single-user deployment,
// so devices are not tied to an account.
type Device struct {
	ID          uint   `gorm:"primaryKey"`
	Platform    string `gorm:"size:16"` // "android" | "ios"
	TokenHash   string `gorm:"size:64;index"`
	EndpointARN string `gorm:"size:256"`
	Enabled     bool   `gorm:"default:true"`
	UpdatedAt   time.Time
	CreatedAt   time.Time
}
