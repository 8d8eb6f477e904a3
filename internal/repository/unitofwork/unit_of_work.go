package unitofwork

import (
	"context"

	"ksg-support-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DocumentRepository() contract.DocumentRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	ChatCitationRepository() contract.ChatCitationRepository
	ChunkIndexRepository() contract.ChunkIndexRepository
}
