package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/events"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

type activityService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

// NewActivityService stores each entry in the audit trail and publishes it.
// publisher may be nil.
func NewActivityService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) ActivityService {
	return &activityService{repo: repo, publisher: publisher, logger: logger}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) {
	actor := ActorFrom(ctx)
	activity := &models.AdminActivity{
		ActorID:    actor.ID,
		ActorEmail: actor.Email,
		Action:     entry.Action,
		TargetType: entry.TargetType,
		TargetID:   entry.TargetID,
		Summary:    entry.Summary,
	}
	if entry.Payload != nil {
		if raw, err := json.Marshal(entry.Payload); err == nil {
			activity.Payload = datatypes.JSON(raw)
		}
	}

	if err := s.repo.Activity().Create(ctx, activity); err != nil {
		s.logger.Error("Failed to record admin activity", "error", err, "action", entry.Action, "target_id", entry.TargetID)
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewActivityEvent(activity)); err != nil {
		s.logger.Error("Failed to publish admin activity", "error", err, "action", entry.Action)
	}
}

func (s *activityService) List(ctx context.Context, filters repositories.ActivityFilters) ([]*models.AdminActivity, int64, error) {
	activities, total, err := s.repo.Activity().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, total, nil
}
