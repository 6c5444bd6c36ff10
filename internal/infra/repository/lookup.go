package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/beautyai/beautyai-api/internal/models"
)

// clientLookup holds the ownership queries every client-scoped repository needs.
type clientLookup struct {
	db *gorm.DB
}

func (l clientLookup) GetClient(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := l.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (l clientLookup) GetClientByUserID(ctx context.Context, userID uint) (*models.Client, error) {
	var client models.Client
	if err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

func (l clientLookup) ListClientIDsForCosmetologist(ctx context.Context, cosmetologistID uint) ([]uint, error) {
	var ids []uint
	if err := l.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("cosmetologist_id = ?", cosmetologistID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
