package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/beautyai/beautyai-api/internal/domain/chat"
	"github.com/beautyai/beautyai-api/internal/models"
)

type ChatGormRepository struct {
	clientLookup
	db *gorm.DB
}

var _ domain.Repository = (*ChatGormRepository)(nil)

func NewChatGormRepository(db *gorm.DB) *ChatGormRepository {
	return &ChatGormRepository{clientLookup: clientLookup{db: db}, db: db}
}

func (r *ChatGormRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(msg).Error
}

func (r *ChatGormRepository) GetMessage(ctx context.Context, id uint) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *ChatGormRepository) ListRecentMessages(
	ctx context.Context,
	clientID uint,
	skip, limit int,
) ([]models.ChatMessage, error) {

	msgs := []models.ChatMessage{}
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("sent_at DESC, id DESC").
		Offset(skip).
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *ChatGormRepository) MarkRead(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("id = ?", msg.ID).
		Update("read_at", msg.ReadAt).Error
}
