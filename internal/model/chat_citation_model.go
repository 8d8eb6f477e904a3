package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatCitation struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatMessageId uuid.UUID `gorm:"type:uuid;not null;index"`
	DocUid        string    `gorm:"type:varchar(64);index"`
	Filename      string    `gorm:"type:varchar(512);not null"`
	Page          int       `gorm:"not null;default:0"`
	SourceURL     string    `gorm:"type:varchar(2048)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	ChatMessage *ChatMessage `gorm:"foreignKey:ChatMessageId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

func (ChatCitation) TableName() string {
	return "chat_citations"
}
