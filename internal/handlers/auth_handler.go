package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/console"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/session"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

type AuthHandler struct {
	BaseHandler
	sessions  *session.Manager
	gate      *SessionGate
	registry  *console.Registry
	activity  services.ActivityService
	validator *validator.Validator
}

func NewAuthHandler(
	sessions *session.Manager,
	gate *SessionGate,
	registry *console.Registry,
	activity services.ActivityService,
	validator *validator.Validator,
	logger utils.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler: NewBaseHandler(logger),
		sessions:    sessions,
		gate:        gate,
		registry:    registry,
		activity:    activity,
		validator:   validator,
	}
}

// Login signs an admin in
// @Summary Admin login
// @Description Checks the credentials against EduBot and opens a console session for admins only
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body models.LoginRequest true "Email and password"
// @Success 200 {object} SuccessResponse{data=session.Session}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Account is not an admin"
// @Failure 502 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if errs := h.validator.Struct(&req); len(errs) > 0 {
		h.handleServiceError(c, errs)
		return
	}

	h.LogRequest(c, "Admin login attempt", "email", req.Email)

	// Any login attempt replaces the session the caller already holds
	previous := h.gate.sessionID(c)

	sess, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.gate.discard(c, previous)
		h.handleServiceError(c, err)
		return
	}
	if previous != sess.ID {
		h.gate.end(c, previous)
	}

	h.gate.setCookie(c, sess)
	ctx := services.WithActor(c.Request.Context(), services.Actor{ID: sess.User.ID, Email: sess.User.Email})
	h.activity.Record(ctx, services.ActivityEntry{
		Action:     models.ActionAdminLogin,
		TargetType: "session",
		TargetID:   sess.User.ID,
		Summary:    "Admin " + sess.User.Email + " logged in",
	})

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Login successful",
		Data:    sess,
	})
}

// Logout ends the session and closes its workspace
// @Summary Logout
// @Tags auth
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	id := h.gate.sessionID(c)
	if err := h.sessions.Logout(c.Request.Context(), id); err != nil {
		h.LogError(c, err, "Failed to delete session")
		h.handleServiceError(c, err)
		return
	}
	if id != "" {
		h.registry.Remove(id)
	}
	h.gate.clearCookie(c)

	c.JSON(http.StatusOK, SuccessResponse{Message: "Logged out"})
}

// Session reports whether the caller is signed in
func (h *AuthHandler) Session(c *gin.Context) {
	sess, err := h.sessions.Authenticate(c.Request.Context(), h.gate.sessionID(c))
	if err != nil {
		if !errors.Is(err, session.ErrNotAuthenticated) {
			h.LogError(c, err, "Failed to load session")
		}
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
		return
	}
	c.JSON(http.StatusOK, sess)
}

const loginPage = `<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>EduBot Admin</title></head>
<body>
<h1>EduBot Admin</h1>
<p>Sign in with an administrator account. Send <code>POST /auth/login</code> with <code>{"email", "password"}</code>.</p>
</body>
</html>
`

// LoginPage is where unauthenticated navigation lands
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if h.sessions.IsAuthenticated(c.Request.Context(), h.gate.sessionID(c)) {
		c.Redirect(http.StatusFound, "/console")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
}
