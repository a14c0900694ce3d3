package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/cache"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	cache     *cache.CacheManager
	activity  ActivityService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, cm *cache.CacheManager, activity ActivityService, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		cache:     cm,
		activity:  activity,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*models.Page[*models.User], error) {
	filters.Page, filters.Limit = normalizePage(filters.Page, filters.Limit)
	if filters.Role != "" && !filters.Role.IsValid() {
		return nil, validationFailed(validator.ValidationErrors{{
			Field: "role", Message: "role must be one of student admin", Value: filters.Role, Rule: "oneof",
		}})
	}

	users, pagination, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return newPage(users, pagination), nil
}

func (s *userService) Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	user, err := s.repo.User().Create(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User created", "user_id", user.ID, "role", user.Role)
	cache.InvalidateUsers(ctx, s.cache)
	s.activity.Record(ctx, ActivityEntry{
		Action:     models.ActionUserCreated,
		TargetType: "user",
		TargetID:   user.ID,
		Summary:    fmt.Sprintf("Created %s account %s", user.Role, user.Email),
		Payload:    map[string]interface{}{"email": user.Email, "role": user.Role},
	})
	return user, nil
}

func (s *userService) Update(ctx context.Context, id string, req *models.UserUpdateRequest) (*models.User, error) {
	if errs := s.validator.Struct(req); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	user, err := s.repo.User().Update(ctx, id, req)
	if err != nil {
		return nil, mapNotFound(err)
	}

	s.activity.Record(ctx, ActivityEntry{
		Action:     models.ActionUserUpdated,
		TargetType: "user",
		TargetID:   id,
		Summary:    fmt.Sprintf("Updated user %s", user.Email),
		Payload:    req,
	})
	return user, nil
}

func (s *userService) SetStatus(ctx context.Context, id string, isActive bool) (*models.User, error) {
	user, err := s.repo.User().UpdateStatus(ctx, id, isActive)
	if err != nil {
		return nil, mapNotFound(err)
	}

	state := "deactivated"
	if isActive {
		state = "activated"
	}
	cache.InvalidateUsers(ctx, s.cache)
	s.activity.Record(ctx, ActivityEntry{
		Action:     models.ActionUserStatus,
		TargetType: "user",
		TargetID:   id,
		Summary:    fmt.Sprintf("User %s %s", user.Email, state),
		Payload:    map[string]bool{"isActive": isActive},
	})
	return user, nil
}

// ChangeRole allows any transition between student and admin
func (s *userService) ChangeRole(ctx context.Context, id string, role models.UserRole) (*models.User, error) {
	if errs := s.validator.Struct(&models.UserRoleRequest{Role: role}); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	user, err := s.repo.User().Update(ctx, id, &models.UserUpdateRequest{Role: &role})
	if err != nil {
		return nil, mapNotFound(err)
	}

	s.activity.Record(ctx, ActivityEntry{
		Action:     models.ActionUserRole,
		TargetType: "user",
		TargetID:   id,
		Summary:    fmt.Sprintf("Role of %s set to %s", user.Email, role),
		Payload:    map[string]models.UserRole{"role": role},
	})
	return user, nil
}
