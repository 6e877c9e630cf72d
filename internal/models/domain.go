package models

import (
	"time"

	"gorm.io/datatypes"
)

// Domain represents a domain name managed by the panel.
type Domain struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name        string         `gorm:"type:varchar(255);not null;uniqueIndex"` // Unique domain name.
	Description datatypes.JSON `gorm:"type:jsonb"`                             // Free-form structured description.

	OwnerID *uint64 `gorm:"index"`              // Owning user ID, nil when unassigned.
	Owner   *User   `gorm:"foreignKey:OwnerID"` // Owning user.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
