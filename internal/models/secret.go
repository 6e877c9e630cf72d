package models

import "time"

// Secret is a named opaque value owned by the panel, such as the admin link.
type Secret struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Key   string `gorm:"type:varchar(64);not null;uniqueIndex"` // Secret name.
	Value string `gorm:"type:text;not null"`                    // Secret payload.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
