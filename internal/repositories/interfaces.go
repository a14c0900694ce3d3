package repositories

import (
	"time"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Page      int             `json:"page"`
	Limit     int             `json:"limit"`
	Role      models.UserRole `json:"role,omitempty"`
	Search    string          `json:"search,omitempty"`
	SortBy    string          `json:"sortBy,omitempty"`    // "createdAt", "fullName", "email"
	SortOrder string          `json:"sortOrder,omitempty"` // "asc", "desc"
}

type ChatFilters struct {
	Page      int        `json:"page"`
	Limit     int        `json:"limit"`
	Keyword   string     `json:"keyword,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

type TestFilters struct {
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
	Search string          `json:"search,omitempty"`
	Type   models.TestType `json:"type,omitempty"`
}

type MajorFilters struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Search     string `json:"search,omitempty"`
	Department string `json:"department,omitempty"`
	SortBy     string `json:"sortBy,omitempty"`
	SortOrder  string `json:"sortOrder,omitempty"`
}

type ActivityFilters struct {
	ActorID    string                `json:"actorId,omitempty"`
	Action     models.ActivityAction `json:"action,omitempty"`
	TargetType string                `json:"targetType,omitempty"`
	Since      *time.Time            `json:"since,omitempty"`
	Limit      int                   `json:"limit"`
	Offset     int                   `json:"offset"`
}

// ImageUpload is the binary image attached to a major
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
