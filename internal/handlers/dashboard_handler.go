package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
)

type DashboardHandler struct {
	BaseHandler
	service  services.DashboardService
	activity services.ActivityService
}

func NewDashboardHandler(service services.DashboardService, activity services.ActivityService, logger utils.Logger) *DashboardHandler {
	return &DashboardHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
		activity:    activity,
	}
}

// ===== DASHBOARD ENDPOINTS =====

// GetOverview returns the dashboard counters
// @Summary Get dashboard overview
// @Description Totals of users, conversations, tests and majors plus the latest admin activities
// @Tags dashboard
// @Produce json
// @Success 200 {object} models.DashboardOverview
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 502 {object} ErrorResponse "EduBot unreachable"
// @Router /dashboard/overview [get]
func (h *DashboardHandler) GetOverview(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard overview")

	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// GetRecentActivities returns the latest admin activities
// @Summary Get recent activities
// @Tags dashboard
// @Produce json
// @Param limit query int false "Number of activities (default: 10, max: 100)"
// @Success 200 {array} models.AdminActivity
// @Router /dashboard/recent-activities [get]
func (h *DashboardHandler) GetRecentActivities(c *gin.Context) {
	limit := h.parseIntQuery(c, "limit", 10)

	activities, err := h.service.RecentActivities(c.Request.Context(), limit)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, activities)
}

// GetActivitySummary counts activities per action over the last days
// @Param days query int false "Window in days (default: 7)"
// @Router /dashboard/activity-summary [get]
func (h *DashboardHandler) GetActivitySummary(c *gin.Context) {
	days := h.parseIntQuery(c, "days", 7)
	if days < 1 || days > 365 {
		days = 7
	}

	counts, err := h.service.ActivitySummary(c.Request.Context(), time.Now().AddDate(0, 0, -days))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days, "counts": counts})
}

// ListActivities pages through the audit trail
// @Param actorId query string false "Admin id"
// @Param action query string false "Action, e.g. major.created"
// @Param targetType query string false "user, major, notification or session"
// @Router /activities [get]
func (h *DashboardHandler) ListActivities(c *gin.Context) {
	limit := h.parseIntQuery(c, "limit", 20)
	page := max(h.parseIntQuery(c, "page", 1), 1)

	activities, total, err := h.activity.List(c.Request.Context(), repositories.ActivityFilters{
		ActorID:    c.Query("actorId"),
		Action:     models.ActivityAction(c.Query("action")),
		TargetType: c.Query("targetType"),
		Limit:      limit,
		Offset:     (page - 1) * limit,
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": activities,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}
