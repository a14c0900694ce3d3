package models

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityAction string

const (
	ActionUserCreated      ActivityAction = "user.created"
	ActionUserUpdated      ActivityAction = "user.updated"
	ActionUserStatus       ActivityAction = "user.status_changed"
	ActionUserRole         ActivityAction = "user.role_changed"
	ActionMajorCreated     ActivityAction = "major.created"
	ActionMajorUpdated     ActivityAction = "major.updated"
	ActionMajorDeleted     ActivityAction = "major.deleted"
	ActionNotificationSent ActivityAction = "notification.sent"
	ActionAdminLogin       ActivityAction = "admin.login"
)

// AdminActivity is one row of the audit trail of admin mutations
type AdminActivity struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	ActorID    string         `json:"actorId" gorm:"not null;size:64;index"`
	ActorEmail string         `json:"actorEmail" gorm:"size:255"`
	Action     ActivityAction `json:"action" gorm:"not null;size:64;index"`
	TargetType string         `json:"targetType" gorm:"size:32"`
	TargetID   string         `json:"targetId" gorm:"size:64;index"`
	Summary    string         `json:"summary" gorm:"size:500"`
	Payload    datatypes.JSON `json:"payload,omitempty" gorm:"type:jsonb"`
	CreatedAt  time.Time      `json:"createdAt" gorm:"index"`
}

func (AdminActivity) TableName() string {
	return "admin_activities"
}
