package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/cache"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/events"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

// ServiceManagerConfig holds the collaborators shared by every service
type ServiceManagerConfig struct {
	Repository        repositories.Repository
	RepositoryManager repositories.RepositoryManager
	Cache             *cache.CacheManager
	Publisher         events.EventPublisher
	Logger            *slog.Logger
	Validator         *validator.Validator
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	config ServiceManagerConfig

	// Service instances
	userService         UserService
	chatService         ChatService
	testService         TestService
	majorService        MajorService
	notificationService NotificationService
	dashboardService    DashboardService
	activityService     ActivityService
	exportService       ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(config ServiceManagerConfig) ServiceManager {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Validator == nil {
		config.Validator = validator.New()
	}
	if config.Cache == nil {
		config.Cache = cache.NewCacheManager(nil)
	}
	return &serviceManager{config: config}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.config.Repository == nil {
		return fmt.Errorf("failed to initialize services: repository is required")
	}

	logger := sm.config.Logger
	logger.Info("Initializing service manager")

	repo, v := sm.config.Repository, sm.config.Validator

	sm.activityService = NewActivityService(repo, sm.config.Publisher, logger)
	sm.userService = NewUserService(repo, sm.config.Cache, sm.activityService, logger, v)
	sm.chatService = NewChatService(repo, logger)
	sm.testService = NewTestService(repo, logger)
	sm.majorService = NewMajorService(repo, sm.activityService, logger, v)
	sm.notificationService = NewNotificationService(repo, sm.activityService, logger, v)
	sm.dashboardService = NewDashboardService(repo, sm.config.Cache, logger)
	sm.exportService = NewExportService(repo, logger)

	sm.initialized = true
	logger.Info("Service manager initialized successfully")
	return nil
}

// Service getters

func (sm *serviceManager) User() UserService {
	sm.mustBeReady()
	return sm.userService
}

func (sm *serviceManager) Chat() ChatService {
	sm.mustBeReady()
	return sm.chatService
}

func (sm *serviceManager) Test() TestService {
	sm.mustBeReady()
	return sm.testService
}

func (sm *serviceManager) Major() MajorService {
	sm.mustBeReady()
	return sm.majorService
}

func (sm *serviceManager) Notification() NotificationService {
	sm.mustBeReady()
	return sm.notificationService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mustBeReady()
	return sm.dashboardService
}

func (sm *serviceManager) Activity() ActivityService {
	sm.mustBeReady()
	return sm.activityService
}

func (sm *serviceManager) Export() ExportService {
	sm.mustBeReady()
	return sm.exportService
}

func (sm *serviceManager) mustBeReady() {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if sm.config.RepositoryManager != nil {
		if err := sm.config.RepositoryManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("repository health check failed: %w", err)
		}
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}
	sm.config.Logger.Info("Shutting down service manager")

	var errs []error
	if sm.config.Publisher != nil {
		if err := sm.config.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close event publisher: %w", err))
		}
	}
	if sm.config.RepositoryManager != nil {
		if err := sm.config.RepositoryManager.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown repository manager: %w", err))
		}
	}

	sm.shutdown = true
	sm.config.Logger.Info("Service manager shut down completed")
	return errors.Join(errs...)
}
