package models

import (
	"time"
)

// EventType represents the type of platform event
type EventType string

const (
	EventTypeChatCompleted       EventType = "chat.completed"
	EventTypeChatFailed          EventType = "chat.failed"
	EventTypeSubscriptionUpdated EventType = "subscription.updated"
	EventTypeSubscriptionDeleted EventType = "subscription.deleted"
	EventTypeCheckoutStarted     EventType = "checkout.started"
)

// BaseEvent represents the base structure for all analytics events
type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	UserID    string                 `json:"user_id,omitempty"`
	Source    string                 `json:"source"` // Source service
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// ChatEvent records one completed (or failed) chat exchange.
type ChatEvent struct {
	BaseEvent
	MessageCount    int     `json:"message_count"`
	RetrievedChunks int     `json:"retrieved_chunks"`
	TopSimilarity   float64 `json:"top_similarity,omitempty"`
	ReplyLength     int     `json:"reply_length,omitempty"`
	ErrorCode       string  `json:"error_code,omitempty"`
}

// SubscriptionEvent records a billing lifecycle change.
type SubscriptionEvent struct {
	BaseEvent
	SubscriptionID string     `json:"subscription_id"`
	Status         string     `json:"status"`
	PeriodEnd      *time.Time `json:"period_end,omitempty"`
}
