package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

type notificationService struct {
	repo      repositories.Repository
	activity  ActivityService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewNotificationService(repo repositories.Repository, activity ActivityService, logger *slog.Logger, validator *validator.Validator) NotificationService {
	return &notificationService{
		repo:      repo,
		activity:  activity,
		logger:    logger,
		validator: validator,
	}
}

func (s *notificationService) SendToUser(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return s.send(ctx, models.RecipientSingle, req, s.repo.Notification().SendToUser)
}

func (s *notificationService) SendToMany(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return s.send(ctx, models.RecipientMultiple, req, s.repo.Notification().SendToMany)
}

func (s *notificationService) SendToAll(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return s.send(ctx, models.RecipientAll, req, s.repo.Notification().SendToAll)
}

type sendFunc func(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)

// send pins the recipient mode to the endpoint so a stray recipient list never leaks
func (s *notificationService) send(ctx context.Context, mode models.RecipientMode, req *models.NotificationRequest, fn sendFunc) (*models.NotificationResult, error) {
	out := *req
	out.Mode = mode
	switch mode {
	case models.RecipientSingle:
		out.UserIDs = nil
	case models.RecipientMultiple:
		out.UserID = ""
	case models.RecipientAll:
		out.UserID, out.UserIDs = "", nil
	}
	if out.Importance == "" {
		out.Importance = models.ImportanceMedium
	}
	if out.Data.Type == "" {
		out.Data.Type = models.PayloadSystem
	}

	if errs := s.validator.ValidateNotification(&out); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	result, err := fn(ctx, &out)
	if err != nil {
		return nil, err
	}

	recipients := len(out.Recipients())
	s.logger.Info("Notification sent", "mode", mode, "recipients", recipients, "importance", out.Importance)
	s.activity.Record(ctx, ActivityEntry{
		Action:     models.ActionNotificationSent,
		TargetType: "notification",
		TargetID:   out.UserID,
		Summary:    notificationSummary(mode, recipients, out.Title),
		Payload:    map[string]interface{}{"mode": mode, "userIds": out.Recipients(), "type": out.Data.Type, "importance": out.Importance},
	})
	return result, nil
}

func notificationSummary(mode models.RecipientMode, recipients int, title string) string {
	if mode == models.RecipientAll {
		return fmt.Sprintf("Sent %q to all users", title)
	}
	return fmt.Sprintf("Sent %q to %d user(s)", title, recipients)
}
