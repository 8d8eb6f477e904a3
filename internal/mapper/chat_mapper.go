package mapper

import (
	"time"

	"ksg-support-be/internal/entity"
	"ksg-support-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	out := &model.ChatSession{
		Id:        s.Id,
		UserId:    s.UserId,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
	}
	if s.UpdatedAt != nil {
		out.UpdatedAt = *s.UpdatedAt
	}
	return out
}

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}
	return &entity.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Chat:          msg.Chat,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}
	return &model.ChatMessage{
		Id:            msg.Id,
		ChatSessionId: msg.ChatSessionId,
		Role:          msg.Role,
		Chat:          msg.Chat,
		CreatedAt:     msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatCitationToEntity(c *model.ChatCitation) *entity.ChatCitation {
	if c == nil {
		return nil
	}
	return &entity.ChatCitation{
		Id:            c.Id,
		ChatMessageId: c.ChatMessageId,
		DocUid:        c.DocUid,
		Filename:      c.Filename,
		Page:          c.Page,
		SourceURL:     c.SourceURL,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *ChatMapper) ChatCitationToModel(c *entity.ChatCitation) *model.ChatCitation {
	if c == nil {
		return nil
	}
	return &model.ChatCitation{
		Id:            c.Id,
		ChatMessageId: c.ChatMessageId,
		DocUid:        c.DocUid,
		Filename:      c.Filename,
		Page:          c.Page,
		SourceURL:     c.SourceURL,
		CreatedAt:     c.CreatedAt,
	}
}
