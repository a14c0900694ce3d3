package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/console"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/listing"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/majorform"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/notify"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/session"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

// ===== RESPONSES =====

type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// BaseHandler carries the logger every handler shares
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Error(msg, append([]any{"error", err}, args...)...)
}

// bindJSON answers 400 itself when the payload does not decode
func (h *BaseHandler) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func (h *BaseHandler) parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	if raw := c.Query(param); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return defaultValue
}

// handleServiceError maps the error taxonomy onto HTTP answers
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: err.Error()})
		return
	case errors.Is(err, session.ErrNotAuthenticated), errors.Is(err, session.ErrTokenExpired), errors.Is(err, services.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		return
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: "Access denied"})
		return
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: client.UserMessage(err, "Resource not found")})
		return
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, ErrorResponse{Message: client.UserMessage(err, "")})
		return
	}

	switch {
	case errors.Is(err, client.ErrTransport):
		h.LogError(c, err, "EduBot API unreachable")
		c.JSON(http.StatusBadGateway, ErrorResponse{Message: "EduBot API is unreachable, please try again"})
	case errors.Is(err, console.ErrDraftNotFound),
		errors.Is(err, console.ErrUnknownSection),
		errors.Is(err, console.ErrNoListScreen):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.Is(err, majorform.ErrSubmitInFlight),
		errors.Is(err, notify.ErrSubmitInFlight),
		errors.Is(err, majorform.ErrFormClosed),
		errors.Is(err, console.ErrWorkspaceClosed),
		errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Message: err.Error()})
	case errors.Is(err, console.ErrInvalidFilters),
		errors.Is(err, listing.ErrPageOutOfRange),
		errors.Is(err, majorform.ErrUnknownField),
		errors.Is(err, majorform.ErrIndexOutOfRange),
		errors.Is(err, majorform.ErrListNotInPhase),
		errors.Is(err, majorform.ErrInvalidValue),
		errors.Is(err, majorform.ErrImageSourceEmpty),
		errors.Is(err, notify.ErrInvalidMode),
		errors.Is(err, notify.ErrWrongMode),
		errors.Is(err, services.ErrValidationFailed),
		errors.Is(err, services.ErrBadRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
