package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

const (
	EventSource  = "edubot-admin-console"
	EventVersion = "1.0"
)

// Event is the envelope written to the activity topic
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// ActivityData is the payload of an admin activity event
type ActivityData struct {
	ActorID    string `json:"actorId"`
	ActorEmail string `json:"actorEmail,omitempty"`
	TargetType string `json:"targetType"`
	TargetID   string `json:"targetId,omitempty"`
	Summary    string `json:"summary"`
}

type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}

func NewEvent(eventType string, data any) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

func NewActivityEvent(activity *models.AdminActivity) *Event {
	return NewEvent(string(activity.Action), ActivityData{
		ActorID:    activity.ActorID,
		ActorEmail: activity.ActorEmail,
		TargetType: activity.TargetType,
		TargetID:   activity.TargetID,
		Summary:    activity.Summary,
	})
}
