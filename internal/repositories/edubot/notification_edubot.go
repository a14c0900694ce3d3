package edubot

import (
	"context"
	"net/http"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

type notificationEdubot struct {
	api *client.Client
}

func NewNotificationEdubot(api *client.Client) repositories.NotificationRepository {
	return &notificationEdubot{api: api}
}

type sendBody struct {
	UserID     string                     `json:"userId,omitempty"`
	UserIDs    []string                   `json:"userIds,omitempty"`
	Title      string                     `json:"title"`
	Body       string                     `json:"body"`
	Data       models.NotificationPayload `json:"data"`
	Importance models.Importance          `json:"importance"`
}

func (r *notificationEdubot) SendToUser(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return r.send(ctx, "/notifications/send-to-user", sendBody{
		UserID: req.UserID, Title: req.Title, Body: req.Body, Data: req.Data, Importance: req.Importance,
	})
}

func (r *notificationEdubot) SendToMany(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return r.send(ctx, "/notifications/send-to-many", sendBody{
		UserIDs: req.UserIDs, Title: req.Title, Body: req.Body, Data: req.Data, Importance: req.Importance,
	})
}

func (r *notificationEdubot) SendToAll(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return r.send(ctx, "/notifications/send-to-all", sendBody{
		Title: req.Title, Body: req.Body, Data: req.Data, Importance: req.Importance,
	})
}

func (r *notificationEdubot) send(ctx context.Context, path string, body sendBody) (*models.NotificationResult, error) {
	var result models.NotificationResult
	if err := r.api.Do(ctx, http.MethodPost, path, nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
