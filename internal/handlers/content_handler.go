package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
)

// ContentHandler serves the read-only chat and test catalogs
type ContentHandler struct {
	BaseHandler
	chats  services.ChatService
	tests  services.TestService
	export services.ExportService
}

func NewContentHandler(chats services.ChatService, tests services.TestService, export services.ExportService, logger utils.Logger) *ContentHandler {
	return &ContentHandler{
		BaseHandler: NewBaseHandler(logger),
		chats:       chats,
		tests:       tests,
		export:      export,
	}
}

// ===== CHATS =====

// ListChats lists chatbot conversations
// @Summary List conversations
// @Tags chats
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param keyword query string false "Search in student name, email and topics"
// @Param startDate query string false "YYYY-MM-DD or RFC3339"
// @Param endDate query string false "YYYY-MM-DD or RFC3339"
// @Success 200 {object} models.Page[models.Conversation]
// @Router /chats [get]
func (h *ContentHandler) ListChats(c *gin.Context) {
	filters, err := h.parseChatFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid date filter", Details: err.Error()})
		return
	}

	page, err := h.chats.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// @Router /chats/export [get]
func (h *ContentHandler) ExportChats(c *gin.Context) {
	filters, err := h.parseChatFilters(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid date filter", Details: err.Error()})
		return
	}

	data, err := h.export.ExportConversations(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	sendWorkbook(c, "conversations", data)
}

// ===== TESTS =====

// ListTests lists quiz content
// @Summary List tests
// @Tags tests
// @Produce json
// @Param search query string false "Search by name"
// @Param type query string false "PERSONALITY, CAREER or SKILL"
// @Success 200 {object} models.Page[models.Test]
// @Router /tests [get]
func (h *ContentHandler) ListTests(c *gin.Context) {
	page, err := h.tests.List(c.Request.Context(), repositories.TestFilters{
		Page:   h.parseIntQuery(c, "page", 1),
		Limit:  h.parseIntQuery(c, "limit", services.DefaultPageSize),
		Search: c.Query("search"),
		Type:   models.TestType(c.Query("type")),
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetTest returns one test with its questions
// @Router /tests/{id} [get]
func (h *ContentHandler) GetTest(c *gin.Context) {
	test, err := h.tests.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, test)
}

func (h *ContentHandler) parseChatFilters(c *gin.Context) (repositories.ChatFilters, error) {
	filters := repositories.ChatFilters{
		Page:    h.parseIntQuery(c, "page", 1),
		Limit:   h.parseIntQuery(c, "limit", services.DefaultPageSize),
		Keyword: c.Query("keyword"),
	}

	var err error
	if filters.StartDate, err = parseDateQuery(c, "startDate"); err != nil {
		return filters, err
	}
	if filters.EndDate, err = parseDateQuery(c, "endDate"); err != nil {
		return filters, err
	}
	return filters, nil
}

func parseDateQuery(c *gin.Context, param string) (*time.Time, error) {
	raw := c.Query(param)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%s must be YYYY-MM-DD or RFC3339", param)
}
