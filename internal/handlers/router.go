package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/cache"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/console"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/session"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

type HandlerManager struct {
	authHandler         *AuthHandler
	dashboardHandler    *DashboardHandler
	userHandler         *UserHandler
	contentHandler      *ContentHandler
	majorHandler        *MajorHandler
	notificationHandler *NotificationHandler
	consoleHandler      *ConsoleHandler
	gate                *SessionGate
	serviceManager      services.ServiceManager
	cache               *cache.CacheManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	sessions *session.Manager,
	registry *console.Registry,
	gate *SessionGate,
	validator *validator.Validator,
	logger utils.Logger,
	cacheManager *cache.CacheManager,
) *HandlerManager {
	return &HandlerManager{
		authHandler:         NewAuthHandler(sessions, gate, registry, serviceManager.Activity(), validator, logger),
		dashboardHandler:    NewDashboardHandler(serviceManager.Dashboard(), serviceManager.Activity(), logger),
		userHandler:         NewUserHandler(serviceManager.User(), serviceManager.Export(), logger),
		contentHandler:      NewContentHandler(serviceManager.Chat(), serviceManager.Test(), serviceManager.Export(), logger),
		majorHandler:        NewMajorHandler(serviceManager.Major(), serviceManager.Export(), logger),
		notificationHandler: NewNotificationHandler(serviceManager.Notification(), logger),
		consoleHandler:      NewConsoleHandler(registry, serviceManager.Notification(), logger),
		gate:                gate,
		serviceManager:      serviceManager,
		cache:               cacheManager,
	}
}

// SetupRoutes sets up all routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/login", hm.authHandler.LoginPage)

	auth := router.Group("/auth")
	{
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/logout", hm.authHandler.Logout)
		auth.GET("/session", hm.authHandler.Session)
	}

	// REST API - every route requires an admin session
	v1 := router.Group("/api/v1")
	v1.Use(hm.gate.Require())
	{
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/overview", hm.dashboardHandler.GetOverview)
			dashboard.GET("/recent-activities", hm.dashboardHandler.GetRecentActivities)
			dashboard.GET("/activity-summary", hm.dashboardHandler.GetActivitySummary)
		}
		v1.GET("/activities", hm.dashboardHandler.ListActivities)

		users := v1.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/export", hm.userHandler.ExportUsers)
			users.POST("", hm.userHandler.CreateUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.PUT("/:id/status", hm.userHandler.UpdateStatus)
			users.PUT("/:id/role", hm.userHandler.ChangeRole)
		}

		chats := v1.Group("/chats")
		{
			chats.GET("", hm.contentHandler.ListChats)
			chats.GET("/export", hm.contentHandler.ExportChats)
		}

		tests := v1.Group("/tests")
		{
			tests.GET("", hm.contentHandler.ListTests)
			tests.GET("/:id", hm.contentHandler.GetTest)
		}

		majors := v1.Group("/majors")
		{
			majors.GET("", hm.majorHandler.ListMajors)
			majors.GET("/export", hm.majorHandler.ExportMajors)
			majors.GET("/:id", hm.majorHandler.GetMajor)
			majors.POST("", hm.majorHandler.CreateMajor)
			majors.PUT("/:id", hm.majorHandler.UpdateMajor)
			majors.DELETE("/:id", hm.majorHandler.DeleteMajor)
		}

		notifications := v1.Group("/notifications")
		{
			notifications.POST("/send-to-user", hm.notificationHandler.SendToUser)
			notifications.POST("/send-to-many", hm.notificationHandler.SendToMany)
			notifications.POST("/send-to-all", hm.notificationHandler.SendToAll)
		}
	}

	// Console - per-session screens, drafts and the notification form
	con := router.Group("/console")
	con.Use(hm.gate.Require())
	{
		con.GET("", hm.consoleHandler.Shell)
		con.PUT("/section", hm.consoleHandler.SelectSection)

		lists := con.Group("/lists/:section")
		{
			lists.GET("", hm.consoleHandler.GetList)
			lists.POST("/search", hm.consoleHandler.SearchList)
			lists.PATCH("/filters", hm.consoleHandler.PatchFilters)
			lists.PUT("/page", hm.consoleHandler.GoToPage)
			lists.POST("/next", hm.consoleHandler.NextPage)
			lists.POST("/prev", hm.consoleHandler.PrevPage)
			lists.POST("/retry", hm.consoleHandler.Retry)
			lists.POST("/refresh", hm.consoleHandler.Refresh)
			lists.GET("/items/:id", hm.consoleHandler.GetItem)
			lists.POST("/items/:id/edit", hm.consoleHandler.EditItem)
			lists.DELETE("/items/:id", hm.consoleHandler.DeleteItem)
		}

		drafts := con.Group("/drafts")
		{
			drafts.POST("", hm.consoleHandler.CreateDraft)
			drafts.GET("/:id", hm.consoleHandler.GetDraft)
			drafts.PATCH("/:id", hm.consoleHandler.EditDraft)
			drafts.PUT("/:id/tab", hm.consoleHandler.SetDraftTab)
			drafts.PUT("/:id/image", hm.consoleHandler.SetDraftImage)
			drafts.DELETE("/:id/image", hm.consoleHandler.ClearDraftImage)
			drafts.POST("/:id/submit", hm.consoleHandler.SubmitDraft)
			drafts.DELETE("/:id", hm.consoleHandler.DiscardDraft)
		}

		notifications := con.Group("/notifications")
		{
			notifications.GET("", hm.consoleHandler.GetNotificationForm)
			notifications.PATCH("", hm.consoleHandler.EditNotification)
			notifications.POST("/search", hm.consoleHandler.SearchRecipients)
			notifications.POST("/directory/retry", hm.consoleHandler.RetryDirectory)
			notifications.POST("/submit", hm.consoleHandler.SubmitNotification)
		}
	}

	router.GET("/health", hm.health)
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{"services": "ok", "cache": "ok"}
	status := http.StatusOK
	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		checks["services"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	if hm.cache != nil {
		if err := hm.cache.HealthCheck(ctx); err != nil {
			checks["cache"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}

	healthy := "healthy"
	if status != http.StatusOK {
		healthy = "degraded"
	}
	c.JSON(status, gin.H{
		"status":    healthy,
		"service":   "edubot-admin-console",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
