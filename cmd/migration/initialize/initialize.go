package initialize

import (
	"muster/config"
	"muster/internal/logger"
	. "muster/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// InitializeTables seeds essential production data: the default admin
// account when none exists.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	var count int64
	if err := db.Model(&Admin{}).Count(&count).Error; err != nil {
		return log.Err("failed to count admins", err)
	}

	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(config.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return log.Err("failed to hash default password", err)
		}

		admin := Admin{
			Username:     config.AdminUsername,
			PasswordHash: string(hash),
		}
		if err := db.Create(&admin).Error; err != nil {
			return log.Err("failed to create default admin", err)
		}
		log.Warn("Default admin created, change the password", "username", admin.Username)
	}

	log.Info("Table initialization complete")
	return nil
}
