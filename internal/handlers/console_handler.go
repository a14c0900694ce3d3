package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/console"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/listing"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/majorform"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/notify"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
)

// ConsoleHandler drives the stateful console workspace bound to the caller's session
type ConsoleHandler struct {
	BaseHandler
	registry *console.Registry
	sender   services.NotificationService
}

func NewConsoleHandler(registry *console.Registry, sender services.NotificationService, logger utils.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		BaseHandler: NewBaseHandler(logger),
		registry:    registry,
		sender:      sender,
	}
}

func (h *ConsoleHandler) workspace(c *gin.Context) *console.Workspace {
	return h.registry.Get(currentSession(c).ID)
}

// ===== SHELL =====

// Shell returns the menu, the active section and the signed-in admin
// @Summary Console shell
// @Tags console
// @Produce json
// @Router /console [get]
func (h *ConsoleHandler) Shell(c *gin.Context) {
	ws := h.workspace(c)
	active := ws.Active()
	c.JSON(http.StatusOK, gin.H{
		"menu":   console.Menu(active),
		"active": active,
		"user":   currentSession(c).User,
	})
}

type sectionRequest struct {
	Section console.Section `json:"section"`
}

// @Router /console/section [put]
func (h *ConsoleHandler) SelectSection(c *gin.Context) {
	var req sectionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ws := h.workspace(c)
	if err := ws.Select(c.Request.Context(), req.Section); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"menu": console.Menu(req.Section), "active": req.Section})
}

// ===== LIST SCREENS =====

func (h *ConsoleHandler) screen(c *gin.Context) (console.Screen, bool) {
	screen, err := h.workspace(c).Screen(console.Section(c.Param("section")))
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}
	return screen, true
}

// GetList renders the list state and pager controls, mounting the screen on first visit
// @Summary Get list screen
// @Tags console
// @Param section path string true "users, chats, tests or majors"
// @Success 200 {object} console.ScreenView
// @Router /console/lists/{section} [get]
func (h *ConsoleHandler) GetList(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	h.listAction(c, screen, func() error { return screen.Mount(c.Request.Context()) })
}

type searchRequest struct {
	Text string `json:"text"`
}

// SearchList records the search text; the reload fires once typing pauses
// @Router /console/lists/{section}/search [post]
func (h *ConsoleHandler) SearchList(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	var req searchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	screen.Search(c.Request.Context(), req.Text)
	c.JSON(http.StatusAccepted, screen.View())
}

// PatchFilters merges a JSON object into the list filters and reloads from page 1
// @Router /console/lists/{section}/filters [patch]
func (h *ConsoleHandler) PatchFilters(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid request body", Details: err.Error()})
		return
	}

	h.listAction(c, screen, func() error { return screen.PatchFilters(c.Request.Context(), body) })
}

type pageRequest struct {
	Page int `json:"page"`
}

// @Router /console/lists/{section}/page [put]
func (h *ConsoleHandler) GoToPage(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}
	var req pageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.listAction(c, screen, func() error { return screen.GoTo(c.Request.Context(), req.Page) })
}

// @Router /console/lists/{section}/next [post]
func (h *ConsoleHandler) NextPage(c *gin.Context) {
	if screen, ok := h.screen(c); ok {
		h.listAction(c, screen, func() error { return screen.Next(c.Request.Context()) })
	}
}

// @Router /console/lists/{section}/prev [post]
func (h *ConsoleHandler) PrevPage(c *gin.Context) {
	if screen, ok := h.screen(c); ok {
		h.listAction(c, screen, func() error { return screen.Prev(c.Request.Context()) })
	}
}

// @Router /console/lists/{section}/retry [post]
func (h *ConsoleHandler) Retry(c *gin.Context) {
	if screen, ok := h.screen(c); ok {
		h.listAction(c, screen, func() error { return screen.Retry(c.Request.Context()) })
	}
}

// @Router /console/lists/{section}/refresh [post]
func (h *ConsoleHandler) Refresh(c *gin.Context) {
	if screen, ok := h.screen(c); ok {
		h.listAction(c, screen, func() error { return screen.Refresh(c.Request.Context()) })
	}
}

// listAction runs a list transition. A failed fetch is part of the view, so
// only rejected transitions answer with an error status.
func (h *ConsoleHandler) listAction(c *gin.Context, screen console.Screen, action func() error) {
	err := action()
	if isRejectedTransition(err) {
		h.handleServiceError(c, err)
		return
	}
	if err != nil {
		h.LogError(c, err, "List fetch failed", "section", c.Param("section"))
	}
	c.JSON(http.StatusOK, screen.View())
}

func isRejectedTransition(err error) bool {
	return errors.Is(err, listing.ErrPageOutOfRange) ||
		errors.Is(err, console.ErrInvalidFilters) ||
		errors.Is(err, console.ErrWorkspaceClosed)
}

// @Router /console/lists/{section}/items/{id} [get]
func (h *ConsoleHandler) GetItem(c *gin.Context) {
	screen, ok := h.screen(c)
	if !ok {
		return
	}

	detail, err := screen.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// EditItem opens an edit draft for a major
// @Router /console/lists/majors/items/{id}/edit [post]
func (h *ConsoleHandler) EditItem(c *gin.Context) {
	if !h.requireMajors(c) {
		return
	}

	form, err := h.workspace(c).OpenEditDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": form.ID(), "state": form.Snapshot()})
}

// @Router /console/lists/majors/items/{id} [delete]
func (h *ConsoleHandler) DeleteItem(c *gin.Context) {
	if !h.requireMajors(c) {
		return
	}

	h.LogRequest(c, "Deleting major from console", "major_id", c.Param("id"))
	ws := h.workspace(c)
	if err := ws.DeleteMajor(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}

	screen, err := ws.Screen(console.SectionMajors)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, screen.View())
}

func (h *ConsoleHandler) requireMajors(c *gin.Context) bool {
	if console.Section(c.Param("section")) != console.SectionMajors {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Message: "Only majors can be edited or deleted from the console"})
		return false
	}
	return true
}

// ===== MAJOR DRAFTS =====

// CreateDraft opens an empty create-major form
// @Router /console/drafts [post]
func (h *ConsoleHandler) CreateDraft(c *gin.Context) {
	form, err := h.workspace(c).OpenCreateDraft()
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": form.ID(), "state": form.Snapshot()})
}

func (h *ConsoleHandler) draft(c *gin.Context) (*majorform.Form, bool) {
	form, err := h.workspace(c).Draft(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return nil, false
	}
	return form, true
}

// @Router /console/drafts/{id} [get]
func (h *ConsoleHandler) GetDraft(c *gin.Context) {
	if form, ok := h.draft(c); ok {
		c.JSON(http.StatusOK, form.Snapshot())
	}
}

// DraftEdit is one field-level edit of a major draft
type DraftEdit struct {
	Op    string          `json:"op" binding:"required"`
	Field string          `json:"field,omitempty"`
	Phase string          `json:"phase,omitempty"`
	List  string          `json:"list,omitempty"`
	Index int             `json:"index,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// EditDraft applies one edit and answers the new form state
// @Summary Edit a major draft
// @Tags console
// @Accept json
// @Param edit body DraftEdit true "op: set, set_item, append_item, remove_item, set_phase_duration, set_phase_item, append_phase_item, remove_phase_item, append_/set_/remove_ prospect, scholarship or campus_tuition"
// @Router /console/drafts/{id} [patch]
func (h *ConsoleHandler) EditDraft(c *gin.Context) {
	form, ok := h.draft(c)
	if !ok {
		return
	}
	var edit DraftEdit
	if !h.bindJSON(c, &edit) {
		return
	}

	if err := applyDraftEdit(form, edit); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form.Snapshot())
}

func applyDraftEdit(form *majorform.Form, e DraftEdit) error {
	phase := majorform.Phase(e.Phase)
	list := majorform.PhaseList(e.List)

	switch e.Op {
	case "set":
		return withValue(e.Value, func(v string) error { return form.SetScalar(majorform.ScalarField(e.Field), v) })
	case "set_item":
		return withValue(e.Value, func(v string) error { return form.SetArrayAt(majorform.ListField(e.Field), e.Index, v) })
	case "append_item":
		return form.AppendArrayItem(majorform.ListField(e.Field))
	case "remove_item":
		return form.RemoveArrayItem(majorform.ListField(e.Field), e.Index)
	case "set_phase_duration":
		return withValue(e.Value, func(v string) error { return form.SetPhaseDuration(phase, v) })
	case "set_phase_item":
		return withValue(e.Value, func(v string) error { return form.SetPhaseListAt(phase, list, e.Index, v) })
	case "append_phase_item":
		return form.AppendPhaseListItem(phase, list)
	case "remove_phase_item":
		return form.RemovePhaseListItem(phase, list, e.Index)
	case "append_prospect":
		return form.AppendProspect()
	case "set_prospect":
		return withValue(e.Value, func(v models.CareerProspect) error { return form.SetProspect(e.Index, v) })
	case "remove_prospect":
		return form.RemoveProspect(e.Index)
	case "append_scholarship":
		return form.AppendScholarship()
	case "set_scholarship":
		return withValue(e.Value, func(v models.Scholarship) error { return form.SetScholarship(e.Index, v) })
	case "remove_scholarship":
		return form.RemoveScholarship(e.Index)
	case "append_campus_tuition":
		return form.AppendCampusTuition()
	case "set_campus_tuition":
		return withValue(e.Value, func(v models.CampusTuition) error { return form.SetCampusTuition(e.Index, v) })
	case "remove_campus_tuition":
		return form.RemoveCampusTuition(e.Index)
	}
	return fmt.Errorf("%w: unknown op %q", services.ErrBadRequest, e.Op)
}

func withValue[T any](raw json.RawMessage, apply func(T) error) error {
	var v T
	if len(raw) == 0 {
		return fmt.Errorf("%w: value is required", majorform.ErrInvalidValue)
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %w", majorform.ErrInvalidValue, err)
	}
	return apply(v)
}

type tabRequest struct {
	Tab majorform.Tab `json:"tab"`
}

// @Router /console/drafts/{id}/tab [put]
func (h *ConsoleHandler) SetDraftTab(c *gin.Context) {
	form, ok := h.draft(c)
	if !ok {
		return
	}
	var req tabRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := form.SetTab(req.Tab); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form.Snapshot())
}

type imageURLRequest struct {
	URL string `json:"url"`
}

// SetDraftImage attaches an uploaded file or an image URL to the draft
// @Accept multipart/form-data,json
// @Router /console/drafts/{id}/image [put]
func (h *ConsoleHandler) SetDraftImage(c *gin.Context) {
	form, ok := h.draft(c)
	if !ok {
		return
	}

	var err error
	if c.ContentType() == gin.MIMEJSON {
		var req imageURLRequest
		if !h.bindJSON(c, &req) {
			return
		}
		err = form.SetImageURL(req.URL)
	} else {
		var image *repositories.ImageUpload
		image, err = readImage(c, "image")
		switch {
		case err != nil:
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid image upload", Details: err.Error()})
			return
		case image == nil:
			err = majorform.ErrImageSourceEmpty
		default:
			err = form.AttachImage(*image)
		}
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form.Snapshot())
}

// @Router /console/drafts/{id}/image [delete]
func (h *ConsoleHandler) ClearDraftImage(c *gin.Context) {
	form, ok := h.draft(c)
	if !ok {
		return
	}
	if err := form.ClearImage(); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form.Snapshot())
}

// SubmitDraft saves the draft. A failed save keeps the draft open with its errors.
// @Router /console/drafts/{id}/submit [post]
func (h *ConsoleHandler) SubmitDraft(c *gin.Context) {
	ws := h.workspace(c)
	id := c.Param("id")

	h.LogRequest(c, "Submitting major draft", "draft_id", id)
	saved, err := ws.SubmitDraft(c.Request.Context(), id)
	if err != nil {
		var invalid *majorform.ValidationError
		if errors.As(err, &invalid) {
			form, _ := ws.Draft(id)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "state": snapshotOf(form)})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Major saved", Data: saved})
}

func snapshotOf(form *majorform.Form) any {
	if form == nil {
		return nil
	}
	return form.Snapshot()
}

// @Router /console/drafts/{id} [delete]
func (h *ConsoleHandler) DiscardDraft(c *gin.Context) {
	if err := h.workspace(c).DiscardDraft(c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===== NOTIFICATIONS =====

// @Router /console/notifications [get]
func (h *ConsoleHandler) GetNotificationForm(c *gin.Context) {
	ws := h.workspace(c)
	if ws.Active() != console.SectionNotifications {
		if err := ws.Select(c.Request.Context(), console.SectionNotifications); err != nil {
			h.handleServiceError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, ws.Notifications().Snapshot())
}

// NotificationEdit changes the recipient selection or the message fields
type NotificationEdit struct {
	Mode   *models.RecipientMode `json:"mode,omitempty"`
	Select string                `json:"selectUser,omitempty"`
	Toggle string                `json:"toggleUser,omitempty"`
	notify.Patch
}

// @Router /console/notifications [patch]
func (h *ConsoleHandler) EditNotification(c *gin.Context) {
	var edit NotificationEdit
	if !h.bindJSON(c, &edit) {
		return
	}

	form := h.workspace(c).Notifications()
	if edit.Mode != nil {
		if err := form.SetMode(*edit.Mode); err != nil {
			h.handleServiceError(c, err)
			return
		}
	}
	if edit.Select != "" {
		if err := form.SelectUser(edit.Select); err != nil {
			h.handleServiceError(c, err)
			return
		}
	}
	if edit.Toggle != "" {
		if err := form.ToggleUser(edit.Toggle); err != nil {
			h.handleServiceError(c, err)
			return
		}
	}
	form.Apply(edit.Patch)

	c.JSON(http.StatusOK, form.Snapshot())
}

// @Router /console/notifications/search [post]
func (h *ConsoleHandler) SearchRecipients(c *gin.Context) {
	var req searchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	form := h.workspace(c).Notifications()
	form.Search(req.Text)
	c.JSON(http.StatusAccepted, form.Snapshot())
}

// RetryDirectory reloads the recipient directory after a failed load
// @Summary Retry recipient directory
// @Tags console
// @Produce json
// @Success 202 {object} notify.State
// @Router /console/notifications/directory/retry [post]
func (h *ConsoleHandler) RetryDirectory(c *gin.Context) {
	form := h.workspace(c).Notifications()
	form.Mount(c.Request.Context())
	c.JSON(http.StatusAccepted, form.Snapshot())
}

// @Router /console/notifications/submit [post]
func (h *ConsoleHandler) SubmitNotification(c *gin.Context) {
	form := h.workspace(c).Notifications()

	h.LogRequest(c, "Submitting notification form")
	result, err := form.Submit(c.Request.Context(), h.sender)
	if err != nil {
		var invalid *notify.ValidationError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "state": form.Snapshot()})
			return
		}
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result, "state": form.Snapshot()})
}
