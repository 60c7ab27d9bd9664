package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventLead  EventType = "lead"
	EventVisit EventType = "visit"
	EventClick EventType = "click"
)

// Event é um registro de analytics. Gravação sempre best-effort.
type Event struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	LeadID    *string   `json:"leadId,omitempty"`
	Type      EventType `json:"type"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Source    string    `json:"source,omitempty"`
	BlockID   string    `json:"blockId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type EventRepositoryInterface interface {
	Create(ctx context.Context, e *Event) error
}

func NewEvent(userID string, typ EventType, ip, userAgent string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		UserID:    userID,
		Type:      typ,
		IP:        ip,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
	}
}
