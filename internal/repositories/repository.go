package repositories

import (
	"context"
	"time"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

// Repository groups every data source the console talks to
type Repository interface {
	// Remote EduBot resources
	Auth() AuthRepository
	User() UserRepository
	Chat() ChatRepository
	Test() TestRepository
	Major() MajorRepository
	Notification() NotificationRepository

	// Local audit trail
	Activity() ActivityRepository

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns repository lifecycle
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
}

type UserRepository interface {
	List(ctx context.Context, filters UserFilters) ([]*models.User, models.Pagination, error)
	Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error)
	Update(ctx context.Context, id string, req *models.UserUpdateRequest) (*models.User, error)
	UpdateStatus(ctx context.Context, id string, isActive bool) (*models.User, error)
}

type ChatRepository interface {
	List(ctx context.Context, filters ChatFilters) ([]*models.Conversation, models.Pagination, error)
}

type TestRepository interface {
	List(ctx context.Context, filters TestFilters) ([]*models.Test, models.Pagination, error)
	GetByID(ctx context.Context, id string) (*models.Test, error)
}

type MajorRepository interface {
	List(ctx context.Context, filters MajorFilters) ([]*models.Major, models.Pagination, error)
	GetByID(ctx context.Context, id string) (*models.Major, error)
	Create(ctx context.Context, major *models.Major, image *ImageUpload) (*models.Major, error)
	Update(ctx context.Context, id string, major *models.Major, image *ImageUpload) (*models.Major, error)
	Delete(ctx context.Context, id string) error
}

type NotificationRepository interface {
	SendToUser(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)
	SendToMany(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)
	SendToAll(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *models.AdminActivity) error
	List(ctx context.Context, filters ActivityFilters) ([]*models.AdminActivity, int64, error)
	Recent(ctx context.Context, limit int) ([]*models.AdminActivity, error)
	CountByAction(ctx context.Context, since *time.Time) (map[models.ActivityAction]int64, error)
}
