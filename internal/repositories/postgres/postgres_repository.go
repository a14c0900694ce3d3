package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/cache"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories/edubot"
)

// ConsoleRepository joins the remote EduBot repositories with the local audit trail
type ConsoleRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	auth         repositories.AuthRepository
	user         repositories.UserRepository
	chat         repositories.ChatRepository
	test         repositories.TestRepository
	major        repositories.MajorRepository
	notification repositories.NotificationRepository
	activity     repositories.ActivityRepository
}

type RepositoryConfig struct {
	DB          *gorm.DB
	RedisClient *redis.Client
	// Cache is built from RedisClient when nil
	Cache *cache.CacheManager
	API   *client.Client
}

func NewConsoleRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := config.Cache
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(config.RedisClient)
	}

	repo := &ConsoleRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	// EduBot owns users, chats, tests, majors and notifications
	repo.auth = edubot.NewAuthEdubot(config.API)
	repo.user = edubot.NewUserEdubot(config.API)
	repo.chat = edubot.NewChatEdubot(config.API)
	repo.test = edubot.NewTestEdubot(config.API, cacheManager)
	repo.major = edubot.NewMajorEdubot(config.API, cacheManager)
	repo.notification = edubot.NewNotificationEdubot(config.API)

	if config.DB != nil {
		repo.activity = NewActivityRepository(config.DB)
	} else {
		repo.activity = NewNoopActivityRepository()
	}

	return repo
}

func (r *ConsoleRepository) Auth() repositories.AuthRepository { return r.auth }
func (r *ConsoleRepository) User() repositories.UserRepository { return r.user }
func (r *ConsoleRepository) Chat() repositories.ChatRepository { return r.chat }
func (r *ConsoleRepository) Test() repositories.TestRepository { return r.test }
func (r *ConsoleRepository) Major() repositories.MajorRepository {
	return r.major
}
func (r *ConsoleRepository) Notification() repositories.NotificationRepository {
	return r.notification
}
func (r *ConsoleRepository) Activity() repositories.ActivityRepository { return r.activity }

// Ping checks the database and the cache. Either may be absent.
func (r *ConsoleRepository) Ping(ctx context.Context) error {
	var errs []error
	if r.db != nil {
		sqlDB, err := r.db.DB()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to get database instance: %w", err))
		} else if err := sqlDB.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("database ping failed: %w", err))
		}
	}
	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			errs = append(errs, fmt.Errorf("cache ping failed: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Close closes the database pool. The redis client belongs to main.
func (r *ConsoleRepository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// RepositoryManager implements repositories.RepositoryManager
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{config: config}
}

// Initialize migrates the audit table and builds the repositories
func (rm *RepositoryManager) Initialize() error {
	if rm.config.API == nil {
		return fmt.Errorf("edubot api client is required")
	}

	if rm.config.DB != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := rm.config.DB.WithContext(ctx).AutoMigrate(&models.AdminActivity{}); err != nil {
			return fmt.Errorf("failed to migrate admin activities: %w", err)
		}
	}

	rm.repo = NewConsoleRepository(rm.config)
	return nil
}

func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}
	return rm.repo.Ping(ctx)
}

func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}
	return rm.repo.Close()
}
