package bootstrap

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"resellerbot/internal/models"
)

// MigrateAndSeed ensures required tables exist and inserts default settings that are still absent.
func MigrateAndSeed(db *gorm.DB, ownerID int64) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	if err := seedDefaults(db, ownerID); err != nil {
		return fmt.Errorf("seed defaults failed: %w", err)
	}
	return nil
}

func allModels() []interface{} {
	return []interface{}{
		&models.Setting{},
		&models.Reseller{},
		&models.Client{},
		&models.Payment{},
		&models.AuditEntry{},
	}
}

// DefaultSettings returns the seed values. Existing keys are never overwritten.
func DefaultSettings(ownerID int64) map[string]string {
	return map[string]string{
		"owner_id":         strconv.FormatInt(ownerID, 10),
		"usd_to_cup":       "450",
		"price_res_b":      "10",
		"price_res_p":      "20",
		"price_res_e":      "30",
		"limit_res_b":      "3",
		"limit_res_p":      "10",
		"limit_res_e":      "0",
		"price_client_30":  "5",
		"price_client_90":  "14",
		"price_client_365": "50",
		"pay_text_saldo":   "💳 SALDO: Transfiere {amount} al 63785631 y pulsa ‘📤 Enviar comprobante’.",
		"pay_text_cup":     "🇨🇺 CUP: Envía {amount} CUP a 9204 1299 7691 8161\n🔐 Confirmación: 56246700\nLuego pulsa ‘📤 Enviar comprobante’.",
	}
}

func seedDefaults(db *gorm.DB, ownerID int64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for key, value := range DefaultSettings(ownerID) {
			row := models.Setting{Key: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
