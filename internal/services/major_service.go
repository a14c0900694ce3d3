package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

type majorService struct {
	repo      repositories.Repository
	activity  ActivityService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewMajorService(repo repositories.Repository, activity ActivityService, logger *slog.Logger, validator *validator.Validator) MajorService {
	return &majorService{
		repo:      repo,
		activity:  activity,
		logger:    logger,
		validator: validator,
	}
}

func (s *majorService) List(ctx context.Context, filters repositories.MajorFilters) (*models.Page[*models.Major], error) {
	filters.Page, filters.Limit = normalizePage(filters.Page, filters.Limit)

	majors, pagination, err := s.repo.Major().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list majors: %w", err)
	}
	return newPage(majors, pagination), nil
}

func (s *majorService) Get(ctx context.Context, id string) (*models.Major, error) {
	major, err := s.repo.Major().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return major, nil
}

// CreateMajor rejects an incomplete record before anything is sent
func (s *majorService) CreateMajor(ctx context.Context, major *models.Major, image *repositories.ImageUpload) (*models.Major, error) {
	if errs := s.validator.ValidateMajor(major); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	created, err := s.repo.Major().Create(ctx, major, image)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Major created", "major_id", created.ID, "code", created.Code)
	s.activity.Record(ctx, ActivityEntry{
		Action:     models.ActionMajorCreated,
		TargetType: "major",
		TargetID:   created.ID,
		Summary:    fmt.Sprintf("Created major %s (%s)", created.Name, created.Code),
		Payload:    map[string]interface{}{"code": created.Code, "campuses": created.AvailableAt, "image": image != nil},
	})
	return created, nil
}

func (s *majorService) UpdateMajor(ctx context.Context, id string, major *models.Major, image *repositories.ImageUpload) (*models.Major, error) {
	if errs := s.validator.ValidateMajor(major); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	updated, err := s.repo.Major().Update(ctx, id, major, image)
	if err != nil {
		return nil, mapNotFound(err)
	}

	s.activity.Record(ctx, ActivityEntry{
		Action:     models.ActionMajorUpdated,
		TargetType: "major",
		TargetID:   id,
		Summary:    fmt.Sprintf("Updated major %s (%s)", updated.Name, updated.Code),
	})
	return updated, nil
}

func (s *majorService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Major().Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}

	s.logger.Info("Major deleted", "major_id", id)
	s.activity.Record(ctx, ActivityEntry{
		Action:     models.ActionMajorDeleted,
		TargetType: "major",
		TargetID:   id,
		Summary:    "Deleted major " + id,
	})
	return nil
}
