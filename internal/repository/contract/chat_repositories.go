package contract

import (
	"context"

	"ksg-support-be/internal/entity"
	"ksg-support-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	Update(ctx context.Context, session *entity.ChatSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
}

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
}

type ChatCitationRepository interface {
	CreateBulk(ctx context.Context, citations []*entity.ChatCitation) error
	FindAllByMessageIds(ctx context.Context, messageIds []uuid.UUID) ([]*entity.ChatCitation, error)
	DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error
}
