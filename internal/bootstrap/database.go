package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"aligate/internal/config"
	"aligate/internal/models"
)

// MigrateAndSeed ensures required tables exist and inserts the baseline row
// for the singleton settings table.
func MigrateAndSeed(db *gorm.DB, cfg *config.GatewayConfig) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	if err := seedDefaults(db, cfg); err != nil {
		return fmt.Errorf("seed defaults failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.Order{},
		&models.GatewaySetting{},
		&models.NotificationLog{},
	}
}

// seedDefaults creates the gateway_setting row from env seed values on first
// boot. After that the stored row is authoritative.
func seedDefaults(db *gorm.DB, cfg *config.GatewayConfig) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.GatewaySetting{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		row := models.GatewaySetting{
			Partner:       cfg.Partner,
			Key:           cfg.Key,
			SellerEmail:   cfg.SellerEmail,
			AdditionalFee: cfg.AdditionalFee,
		}
		return tx.Create(&row).Error
	})
}
