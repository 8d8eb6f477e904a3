package dto

import (
	"time"

	"github.com/google/uuid"

	"ksg-support-be/pkg/rag/citation"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"session_id" validate:"required"`
	Message       string    `json:"message" validate:"required"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID           `json:"id"`
	Role      string              `json:"role"`
	Chat      string              `json:"chat"`
	CreatedAt time.Time           `json:"created_at"`
	Citations []citation.Citation `json:"citations,omitempty"`
}

type SendChatResponse struct {
	ChatSessionId uuid.UUID            `json:"session_id"`
	Answer        string               `json:"answer"`
	Citations     []citation.Citation  `json:"citations"`
	Sent          *ChatMessageResponse `json:"sent"`
	Reply         *ChatMessageResponse `json:"reply"`
}
