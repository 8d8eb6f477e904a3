package implementation

import (
	"context"

	"ksg-support-be/internal/entity"
	"ksg-support-be/internal/mapper"
	"ksg-support-be/internal/model"
	"ksg-support-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatCitationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatCitationRepository(db *gorm.DB) contract.ChatCitationRepository {
	return &ChatCitationRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatCitationRepositoryImpl) CreateBulk(ctx context.Context, citations []*entity.ChatCitation) error {
	if len(citations) == 0 {
		return nil
	}
	models := make([]*model.ChatCitation, len(citations))
	for i, c := range citations {
		models[i] = r.mapper.ChatCitationToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*citations[i] = *r.mapper.ChatCitationToEntity(m)
	}
	return nil
}

func (r *ChatCitationRepositoryImpl) FindAllByMessageIds(ctx context.Context, messageIds []uuid.UUID) ([]*entity.ChatCitation, error) {
	if len(messageIds) == 0 {
		return nil, nil
	}
	var models []*model.ChatCitation
	err := r.db.WithContext(ctx).
		Where("chat_message_id IN ?", messageIds).
		Order("filename ASC, page ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatCitation, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChatCitationToEntity(m)
	}
	return entities, nil
}

func (r *ChatCitationRepositoryImpl) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	subQuery := r.db.Table("chat_messages").Select("id").Where("chat_session_id = ?", sessionId)
	return r.db.WithContext(ctx).Where("chat_message_id IN (?)", subQuery).Delete(&model.ChatCitation{}).Error
}
