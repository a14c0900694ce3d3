package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/listing"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/majorform"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/notify"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/views"
)

var (
	ErrDraftNotFound   = errors.New("major draft not found")
	ErrWorkspaceClosed = errors.New("workspace is closed")
	ErrNoListScreen    = errors.New("section has no list screen")
)

// Services are the collaborators a workspace drives
type Services struct {
	Users         services.UserService
	Chats         services.ChatService
	Tests         services.TestService
	Majors        services.MajorService
	Notifications services.NotificationService
}

// ServicesFrom picks the workspace collaborators out of an initialized manager
func ServicesFrom(sm services.ServiceManager) Services {
	return Services{
		Users:         sm.User(),
		Chats:         sm.Chat(),
		Tests:         sm.Test(),
		Majors:        sm.Major(),
		Notifications: sm.Notification(),
	}
}

type Options struct {
	PageSize      int
	Debounce      time.Duration
	DirectorySize int
	Validator     *validator.Validator
	Logger        *slog.Logger
}

// Workspace is the screen state of one logged-in admin
type Workspace struct {
	sessionID string
	services  Services
	opts      Options
	logger    *slog.Logger

	users  *listing.Controller[*models.User, repositories.UserFilters]
	chats  *listing.Controller[*models.Conversation, repositories.ChatFilters]
	tests  *listing.Controller[*models.Test, repositories.TestFilters]
	majors *listing.Controller[*models.Major, repositories.MajorFilters]

	screens map[Section]Screen
	notify  *notify.Form

	mu     sync.Mutex
	active Section
	drafts map[string]*majorform.Form
	closed bool
}

func NewWorkspace(sessionID string, svc Services, opts Options) *Workspace {
	if opts.Validator == nil {
		opts.Validator = validator.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	logger := opts.Logger.With("session_id", sessionID)

	w := &Workspace{
		sessionID: sessionID,
		services:  svc,
		opts:      opts,
		logger:    logger,
		active:    SectionDashboard,
		drafts:    make(map[string]*majorform.Form),
	}

	w.users = listing.New(
		pageFetch(svc.Users.List, func(f *repositories.UserFilters, page, limit int) { f.Page, f.Limit = page, limit }),
		repositories.UserFilters{},
		listing.Options[repositories.UserFilters]{
			PageSize:     opts.PageSize,
			Debounce:     opts.Debounce,
			ApplySearch:  func(f *repositories.UserFilters, text string) { f.Search = text },
			ErrorMessage: "Could not load users",
			Logger:       logger,
		},
	)
	w.chats = listing.New(
		pageFetch(svc.Chats.List, func(f *repositories.ChatFilters, page, limit int) { f.Page, f.Limit = page, limit }),
		repositories.ChatFilters{},
		listing.Options[repositories.ChatFilters]{
			PageSize:     opts.PageSize,
			Debounce:     opts.Debounce,
			ApplySearch:  func(f *repositories.ChatFilters, text string) { f.Keyword = text },
			ErrorMessage: "Could not load conversations",
			Logger:       logger,
		},
	)
	w.tests = listing.New(
		pageFetch(svc.Tests.List, func(f *repositories.TestFilters, page, limit int) { f.Page, f.Limit = page, limit }),
		repositories.TestFilters{},
		listing.Options[repositories.TestFilters]{
			PageSize:     opts.PageSize,
			Debounce:     opts.Debounce,
			ApplySearch:  func(f *repositories.TestFilters, text string) { f.Search = text },
			ErrorMessage: "Could not load tests",
			Logger:       logger,
		},
	)
	w.majors = listing.New(
		pageFetch(svc.Majors.List, func(f *repositories.MajorFilters, page, limit int) { f.Page, f.Limit = page, limit }),
		repositories.MajorFilters{},
		listing.Options[repositories.MajorFilters]{
			PageSize:     opts.PageSize,
			Debounce:     opts.Debounce,
			ApplySearch:  func(f *repositories.MajorFilters, text string) { f.Search = text },
			ErrorMessage: "Could not load majors",
			Logger:       logger,
		},
	)

	w.screens = map[Section]Screen{
		SectionUsers:  &listScreen[*models.User, repositories.UserFilters]{section: SectionUsers, controller: w.users, detail: w.userDetail},
		SectionChats:  &listScreen[*models.Conversation, repositories.ChatFilters]{section: SectionChats, controller: w.chats, detail: w.conversationDetail},
		SectionTests:  &listScreen[*models.Test, repositories.TestFilters]{section: SectionTests, controller: w.tests, detail: w.testDetail},
		SectionMajors: &listScreen[*models.Major, repositories.MajorFilters]{section: SectionMajors, controller: w.majors, detail: w.majorDetail},
	}

	w.notify = notify.New(w.directoryPage, notify.Options{
		BatchSize: opts.DirectorySize,
		Debounce:  opts.Debounce,
		Validator: opts.Validator,
		Logger:    logger,
	})
	return w
}

func (w *Workspace) SessionID() string { return w.sessionID }

// Active returns the section currently shown
func (w *Workspace) Active() Section {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Select switches the shell to section and mounts its screen on first visit
func (w *Workspace) Select(ctx context.Context, section Section) error {
	if !section.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWorkspaceClosed
	}
	w.active = section
	w.mu.Unlock()

	switch section {
	case SectionNotifications:
		w.notify.Mount(ctx)
		return nil
	case SectionDashboard:
		return nil
	}
	return w.screens[section].Mount(ctx)
}

// Screen returns the list screen of section
func (w *Workspace) Screen(section Section) (Screen, error) {
	if w.isClosed() {
		return nil, ErrWorkspaceClosed
	}
	screen, ok := w.screens[section]
	if !ok {
		if section.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrNoListScreen, section)
		}
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return screen, nil
}

func (w *Workspace) Notifications() *notify.Form { return w.notify }

// ===== MAJOR DRAFTS =====

// OpenCreateDraft starts an empty major draft
func (w *Workspace) OpenCreateDraft() (*majorform.Form, error) {
	return w.addDraft(majorform.NewCreate(w.draftOptions()))
}

// OpenEditDraft starts a draft seeded from the current backend record
func (w *Workspace) OpenEditDraft(ctx context.Context, majorID string) (*majorform.Form, error) {
	major, err := w.services.Majors.Get(ctx, majorID)
	if err != nil {
		return nil, err
	}
	if major == nil {
		return nil, fmt.Errorf("%w: major %s", services.ErrNotFound, majorID)
	}
	return w.addDraft(majorform.NewEdit(major, w.draftOptions()))
}

func (w *Workspace) Draft(id string) (*majorform.Form, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	form, ok := w.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return form, nil
}

// SubmitDraft saves the draft. A saved draft leaves the workspace; a failed one stays open.
func (w *Workspace) SubmitDraft(ctx context.Context, id string) (*models.Major, error) {
	form, err := w.Draft(id)
	if err != nil {
		return nil, err
	}
	saved, err := form.Submit(ctx, w.services.Majors)
	if err != nil {
		return nil, err
	}
	w.dropDraft(id)
	return saved, nil
}

func (w *Workspace) DiscardDraft(id string) error {
	form, err := w.Draft(id)
	if err != nil {
		return err
	}
	form.Discard()
	w.dropDraft(id)
	return nil
}

// DeleteMajor removes a major and reloads the majors list
func (w *Workspace) DeleteMajor(ctx context.Context, id string) error {
	if err := w.services.Majors.Delete(ctx, id); err != nil {
		return err
	}
	if err := w.majors.Refresh(ctx); err != nil {
		w.logger.Warn("Failed to refresh majors after delete", "error", err)
	}
	return nil
}

func (w *Workspace) draftOptions() majorform.Options {
	return majorform.Options{
		Validator: w.opts.Validator,
		OnSaved: func(ctx context.Context, saved *models.Major) {
			if err := w.majors.Refresh(ctx); err != nil {
				w.logger.Warn("Failed to refresh majors after save", "error", err, "major_id", saved.ID)
			}
		},
	}
}

func (w *Workspace) addDraft(form *majorform.Form) (*majorform.Form, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, ErrWorkspaceClosed
	}
	w.drafts[form.ID()] = form
	return form, nil
}

func (w *Workspace) dropDraft(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.drafts, id)
}

// ===== DETAILS =====

func (w *Workspace) userDetail(ctx context.Context, id string) (any, error) {
	user, ok := w.users.Find(func(u *models.User) bool { return u.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: user %s is not on the current page", services.ErrNotFound, id)
	}
	return views.NewUserDetail(user), nil
}

func (w *Workspace) conversationDetail(ctx context.Context, id string) (any, error) {
	conversation, ok := w.chats.Find(func(c *models.Conversation) bool { return c.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: conversation %s is not on the current page", services.ErrNotFound, id)
	}
	return views.NewConversationDetail(conversation), nil
}

func (w *Workspace) testDetail(ctx context.Context, id string) (any, error) {
	test, err := w.services.Tests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, fmt.Errorf("%w: test %s", services.ErrNotFound, id)
	}
	return views.NewTestDetail(test), nil
}

func (w *Workspace) majorDetail(ctx context.Context, id string) (any, error) {
	major, err := w.services.Majors.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if major == nil {
		return nil, fmt.Errorf("%w: major %s", services.ErrNotFound, id)
	}
	return views.NewMajorDetail(major), nil
}

// directoryPage feeds the notification recipient picker from the users service
func (w *Workspace) directoryPage(ctx context.Context, page, limit int) ([]*models.User, models.Pagination, error) {
	result, err := w.services.Users.List(ctx, repositories.UserFilters{Page: page, Limit: limit})
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return result.Items, result.Pagination, nil
}

func (w *Workspace) isClosed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Close stops every debouncer and the directory loader. It is safe to call twice.
func (w *Workspace) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	drafts := w.drafts
	w.drafts = make(map[string]*majorform.Form)
	w.mu.Unlock()

	for _, screen := range w.screens {
		screen.Close()
	}
	w.notify.Close()
	for _, form := range drafts {
		form.Discard()
	}
	w.logger.Debug("Workspace closed")
}
