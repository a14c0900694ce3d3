package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
)

type NotificationHandler struct {
	BaseHandler
	service services.NotificationService
}

func NewNotificationHandler(service services.NotificationService, logger utils.Logger) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// SendToUser pushes a notification to one user
// @Summary Send to one user
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body models.NotificationRequest true "userId, title, body, data, importance"
// @Success 200 {object} models.NotificationResult
// @Failure 400 {object} ErrorResponse
// @Router /notifications/send-to-user [post]
func (h *NotificationHandler) SendToUser(c *gin.Context) {
	h.send(c, models.RecipientSingle, h.service.SendToUser)
}

// @Router /notifications/send-to-many [post]
func (h *NotificationHandler) SendToMany(c *gin.Context) {
	h.send(c, models.RecipientMultiple, h.service.SendToMany)
}

// @Router /notifications/send-to-all [post]
func (h *NotificationHandler) SendToAll(c *gin.Context) {
	h.send(c, models.RecipientAll, h.service.SendToAll)
}

func (h *NotificationHandler) send(
	c *gin.Context,
	mode models.RecipientMode,
	fn func(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error),
) {
	var req models.NotificationRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Sending notification", "mode", mode, "importance", req.Importance)

	result, err := fn(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
