package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/config"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/console"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/session"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
)

const (
	sessionKey = "session"
	userIDKey  = "user_id"
	loginPath  = "/login"
)

// SessionGate admits requests that carry an authenticated admin session
type SessionGate struct {
	manager  *session.Manager
	registry *console.Registry
	cookie   config.SessionConfig
	logger   utils.Logger
}

func NewSessionGate(manager *session.Manager, registry *console.Registry, cookie config.SessionConfig, logger utils.Logger) *SessionGate {
	return &SessionGate{manager: manager, registry: registry, cookie: cookie, logger: logger}
}

// Require rejects anonymous requests. Browser navigation is redirected to the login
// page, everything else gets 401.
func (g *SessionGate) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := g.sessionID(c)
		sess, err := g.manager.Authenticate(c.Request.Context(), id)
		if err != nil {
			utils.GetLogger(c, g.logger).Debug("Session rejected", "path", c.Request.URL.Path, "error", err)
			if id != "" && errors.Is(err, session.ErrNotAuthenticated) {
				g.discard(c, id)
			}
			if wantsHTML(c) {
				c.Redirect(http.StatusFound, loginPath)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Authentication required",
			})
			return
		}

		ctx := client.WithToken(c.Request.Context(), sess.AccessToken)
		ctx = services.WithActor(ctx, services.Actor{ID: sess.User.ID, Email: sess.User.Email})
		c.Request = c.Request.WithContext(ctx)
		c.Set(sessionKey, sess)
		c.Set(userIDKey, sess.User.ID)

		c.Next()
	}
}

func (g *SessionGate) sessionID(c *gin.Context) string {
	id, err := c.Cookie(g.cookie.CookieName)
	if err != nil {
		return ""
	}
	return id
}

func (g *SessionGate) setCookie(c *gin.Context, sess *session.Session) {
	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(g.cookie.CookieName, sess.ID, maxAge, "/", "", g.cookie.Secure, true)
}

func (g *SessionGate) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(g.cookie.CookieName, "", -1, "/", "", g.cookie.Secure, true)
}

// discard ends session id everywhere it lives: the store record, the console
// workspace and the browser cookie. Store failures are only logged.
func (g *SessionGate) discard(c *gin.Context, id string) {
	g.end(c, id)
	g.clearCookie(c)
}

func (g *SessionGate) end(c *gin.Context, id string) {
	if id == "" {
		return
	}
	if err := g.manager.Logout(c.Request.Context(), id); err != nil {
		utils.GetLogger(c, g.logger).Error("Failed to delete session", "error", err)
	}
	g.registry.Remove(id)
}

// currentSession returns the session stored by Require
func currentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

// wantsHTML reports a top-level browser navigation
func wantsHTML(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
