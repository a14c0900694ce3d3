package services

import (
	"context"
	"time"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

// ===== USERS =====

type UserService interface {
	List(ctx context.Context, filters repositories.UserFilters) (*models.Page[*models.User], error)
	Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error)
	Update(ctx context.Context, id string, req *models.UserUpdateRequest) (*models.User, error)
	SetStatus(ctx context.Context, id string, isActive bool) (*models.User, error)
	ChangeRole(ctx context.Context, id string, role models.UserRole) (*models.User, error)
}

// ===== CONTENT =====

type ChatService interface {
	List(ctx context.Context, filters repositories.ChatFilters) (*models.Page[*models.Conversation], error)
}

type TestService interface {
	List(ctx context.Context, filters repositories.TestFilters) (*models.Page[*models.Test], error)
	Get(ctx context.Context, id string) (*models.Test, error)
}

// MajorService also satisfies majorform.Saver
type MajorService interface {
	List(ctx context.Context, filters repositories.MajorFilters) (*models.Page[*models.Major], error)
	Get(ctx context.Context, id string) (*models.Major, error)
	CreateMajor(ctx context.Context, major *models.Major, image *repositories.ImageUpload) (*models.Major, error)
	UpdateMajor(ctx context.Context, id string, major *models.Major, image *repositories.ImageUpload) (*models.Major, error)
	Delete(ctx context.Context, id string) error
}

// NotificationService also satisfies notify.Sender
type NotificationService interface {
	SendToUser(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)
	SendToMany(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)
	SendToAll(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)
}

// ===== DASHBOARD & AUDIT =====

type DashboardService interface {
	Overview(ctx context.Context) (*models.DashboardOverview, error)
	RecentActivities(ctx context.Context, limit int) ([]*models.AdminActivity, error)
	ActivitySummary(ctx context.Context, since time.Time) (map[models.ActivityAction]int64, error)
}

// ActivityEntry describes one admin mutation
type ActivityEntry struct {
	Action     models.ActivityAction
	TargetType string
	TargetID   string
	Summary    string
	Payload    interface{}
}

type ActivityService interface {
	// Record never fails the caller; problems are logged
	Record(ctx context.Context, entry ActivityEntry)
	List(ctx context.Context, filters repositories.ActivityFilters) ([]*models.AdminActivity, int64, error)
}

// ===== EXPORT =====

type ExportService interface {
	ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error)
	ExportMajors(ctx context.Context, filters repositories.MajorFilters) ([]byte, error)
	ExportConversations(ctx context.Context, filters repositories.ChatFilters) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	User() UserService
	Chat() ChatService
	Test() TestService
	Major() MajorService
	Notification() NotificationService
	Dashboard() DashboardService
	Activity() ActivityService
	Export() ExportService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
