package database

import (
	"errors"
	"log"

	"plume/config"
	"plume/internal/domain"
	"plume/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // Only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.Attachment{},
		&models.Invoice{},
		&models.Notification{},
		&models.PageSection{},
		&models.AuditLog{},
	)
}

// SeedAdmin creates the initial admin account when none exists.
func SeedAdmin(db *gorm.DB, cfg *config.AdminConfig) {
	var u models.User
	err := db.Where("email = ?", cfg.Email).First(&u).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[SEED] admin lookup failed: %v", err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[SEED] hash admin password: %v", err)
		return
	}
	admin := &models.User{
		Email:        cfg.Email,
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[SEED] create admin: %v", err)
		return
	}
	log.Printf("[SEED] admin account created: %s", cfg.Email)
}
