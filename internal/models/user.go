package models

import "time"

// User represents a proxy end-user account stored in the database.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Username string `gorm:"type:varchar(50);not null;uniqueIndex"` // Unique login name.
	UUID     string `gorm:"type:varchar(36);not null;uniqueIndex"` // Client-facing stable identifier.

	TrafficLimit            int64 `gorm:"not null;default:0"` // Traffic cap in megabytes.
	UsageDuration           int64 `gorm:"not null;default:0"` // Allowed usage in minutes.
	SimultaneousConnections int   `gorm:"not null;default:1"` // Allowed concurrent connections.

	Active bool `gorm:"not null;default:true"` // Whether the account is enabled.

	Domains []Domain `gorm:"foreignKey:OwnerID"` // Domains owned by this user.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
