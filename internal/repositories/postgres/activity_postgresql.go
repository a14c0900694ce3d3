package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) repositories.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *models.AdminActivity) error {
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("failed to record admin activity: %w", err)
	}
	return nil
}

func (r *activityRepository) List(ctx context.Context, filters repositories.ActivityFilters) ([]*models.AdminActivity, int64, error) {
	query := applyActivityFilters(r.db.WithContext(ctx).Model(&models.AdminActivity{}), filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count admin activities: %w", err)
	}

	var activities []*models.AdminActivity
	if err := paginateActivities(query, filters).Find(&activities).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list admin activities: %w", err)
	}
	return activities, total, nil
}

func (r *activityRepository) Recent(ctx context.Context, limit int) ([]*models.AdminActivity, error) {
	if limit <= 0 {
		limit = 10
	}

	var activities []*models.AdminActivity
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, fmt.Errorf("failed to get recent activities: %w", err)
	}
	return activities, nil
}

func (r *activityRepository) CountByAction(ctx context.Context, since *time.Time) (map[models.ActivityAction]int64, error) {
	var rows []struct {
		Action models.ActivityAction
		Count  int64
	}

	query := r.db.WithContext(ctx).
		Model(&models.AdminActivity{}).
		Select("action, COUNT(*) as count")
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}
	if err := query.Group("action").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count activities by action: %w", err)
	}

	counts := make(map[models.ActivityAction]int64, len(rows))
	for _, row := range rows {
		counts[row.Action] = row.Count
	}
	return counts, nil
}

func applyActivityFilters(query *gorm.DB, filters repositories.ActivityFilters) *gorm.DB {
	if filters.ActorID != "" {
		query = query.Where("actor_id = ?", filters.ActorID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if filters.TargetType != "" {
		query = query.Where("target_type = ?", filters.TargetType)
	}
	if filters.Since != nil {
		query = query.Where("created_at >= ?", *filters.Since)
	}
	return query
}

func paginateActivities(query *gorm.DB, filters repositories.ActivityFilters) *gorm.DB {
	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return query.Order("created_at DESC").Limit(limit).Offset(max(filters.Offset, 0))
}

// noopActivityRepository stands in when no database is configured
type noopActivityRepository struct{}

func NewNoopActivityRepository() repositories.ActivityRepository {
	return noopActivityRepository{}
}

func (noopActivityRepository) Create(context.Context, *models.AdminActivity) error { return nil }

func (noopActivityRepository) List(context.Context, repositories.ActivityFilters) ([]*models.AdminActivity, int64, error) {
	return []*models.AdminActivity{}, 0, nil
}

func (noopActivityRepository) Recent(context.Context, int) ([]*models.AdminActivity, error) {
	return []*models.AdminActivity{}, nil
}

func (noopActivityRepository) CountByAction(context.Context, *time.Time) (map[models.ActivityAction]int64, error) {
	return map[models.ActivityAction]int64{}, nil
}
