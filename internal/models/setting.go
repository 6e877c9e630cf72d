package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting represents a panel settings row.
type Setting struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Language            string         `gorm:"type:varchar(10);not null;default:'en'"`     // UI language code.
	Theme               string         `gorm:"type:varchar(20);not null;default:'light'"`  // UI theme name.
	EnableNotifications bool           `gorm:"not null;default:true"`                      // Notification toggle.
	Preferences         datatypes.JSON `gorm:"type:jsonb"`                                 // Free-form structured preferences.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
