package repository

import (
	"context"

	"chapel/internal/models"

	"gorm.io/gorm"
)

// ChatRepository defines data operations for internally sourced chat messages.
type ChatRepository interface {
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	GetMessageByID(ctx context.Context, id uint) (*models.ChatMessage, error)
	// GetApprovedMessages returns approved messages in chronological order.
	GetApprovedMessages(ctx context.Context, limit, offset int) ([]*models.ChatMessage, error)
	// GetPendingMessages returns unapproved messages for operator review.
	GetPendingMessages(ctx context.Context, limit, offset int) ([]*models.ChatMessage, error)
	ApproveMessage(ctx context.Context, id uint) error
	DeleteMessage(ctx context.Context, id uint) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepository) GetMessageByID(ctx context.Context, id uint) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := r.db.WithContext(ctx).Preload("User").First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatRepository) GetApprovedMessages(ctx context.Context, limit, offset int) ([]*models.ChatMessage, error) {
	return r.listMessages(ctx, true, limit, offset)
}

func (r *chatRepository) GetPendingMessages(ctx context.Context, limit, offset int) ([]*models.ChatMessage, error) {
	return r.listMessages(ctx, false, limit, offset)
}

func (r *chatRepository) listMessages(ctx context.Context, approved bool, limit, offset int) ([]*models.ChatMessage, error) {
	var messages []*models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("approved = ?", approved).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Reverse to return chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

func (r *chatRepository) ApproveMessage(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.ChatMessage{}).
		Where("id = ?", id).
		Update("approved", true).Error
}

func (r *chatRepository) DeleteMessage(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.ChatMessage{}, id).Error
}
