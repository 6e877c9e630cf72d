package db

import (
	"fmt"

	"github.com/novaray/panel/internal/models"
	"gorm.io/gorm"
)

// Migrate runs idempotent schema migrations and seeds defaults.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Domain{},
		&models.Setting{},
		&models.Secret{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	if errSeed := ensureDefaultSetting(conn); errSeed != nil {
		return errSeed
	}
	return nil
}

// ensureDefaultSetting seeds one settings row so a fresh install has a
// working language/theme configuration.
func ensureDefaultSetting(conn *gorm.DB) error {
	var count int64
	if errCount := conn.Model(&models.Setting{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("db: count settings: %w", errCount)
	}
	if count > 0 {
		return nil
	}
	seed := models.Setting{
		Language:            "en",
		Theme:               "light",
		EnableNotifications: true,
	}
	if errCreate := conn.Create(&seed).Error; errCreate != nil {
		return fmt.Errorf("db: seed settings: %w", errCreate)
	}
	return nil
}
