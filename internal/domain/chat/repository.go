package chat

import (
	"context"

	"github.com/beautyai/beautyai-api/internal/models"
)

// Repository returns gorm.ErrRecordNotFound for missing rows.
type Repository interface {
	GetClient(ctx context.Context, id uint) (*models.Client, error)

	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	GetMessage(ctx context.Context, id uint) (*models.ChatMessage, error)

	// ListRecentMessages returns a thread newest first, skip/limit applied in that order.
	ListRecentMessages(ctx context.Context, clientID uint, skip, limit int) ([]models.ChatMessage, error)

	MarkRead(ctx context.Context, msg *models.ChatMessage) error
}
