package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          string
	Chat          string
	CreatedAt     time.Time
}

// ChatCitation is a persisted provenance entry for one model message.
type ChatCitation struct {
	Id            uuid.UUID
	ChatMessageId uuid.UUID
	DocUid        string
	Filename      string
	Page          int
	SourceURL     string
	CreatedAt     time.Time
}
