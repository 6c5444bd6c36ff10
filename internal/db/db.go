package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/auth"
	"github.com/beautyai/beautyai-api/internal/config"
	"github.com/beautyai/beautyai-api/internal/models"
	"github.com/beautyai/beautyai-api/internal/validators"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Product{},
		&models.Analysis{},
		&models.CarePlan{},
		&models.CarePlanItem{},
		&models.ChatMessage{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SeedSuperadmin creates the configured superadmin once. Empty settings skip it.
func SeedSuperadmin(ctx context.Context, db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	email := validators.NormalizeEmail(cfg.SuperadminEmail)
	if email == "" || cfg.SuperadminPassword == "" {
		return nil
	}

	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup superadmin: %w", err)
	}

	hash, err := auth.HashPassword(cfg.SuperadminPassword)
	if err != nil {
		return err
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     cfg.SuperadminName,
		Role:         models.RoleSuperadmin,
		IsActive:     true,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return fmt.Errorf("create superadmin: %w", err)
	}

	log.Info("superadmin created", zap.String("email", email))
	return nil
}
