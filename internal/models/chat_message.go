package models

import "time"

// ChatSender identifies who authored a chat message.
type ChatSender string

const (
	ChatSenderUser      ChatSender = "user"
	ChatSenderAssistant ChatSender = "assistant"
)

// Delivery status values for user messages.
const (
	ChatStatusSent      = "sent"
	ChatStatusDelivered = "delivered"
	ChatStatusRead      = "read"
)

// ChatMessage is one entry in the assistant conversation history.
type ChatMessage struct {
	Base
	UserID    string     `gorm:"type:uuid;not null;index" json:"user_id"`
	Content   string     `gorm:"not null" json:"content"`
	Sender    ChatSender `gorm:"not null" json:"sender"`
	Timestamp time.Time  `gorm:"not null" json:"timestamp"`
	Status    string     `json:"status,omitempty"`
}
