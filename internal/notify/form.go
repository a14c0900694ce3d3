// Package notify drives the notification dispatch screen.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/debounce"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

var (
	ErrSubmitInFlight = errors.New("notification is already being sent")
	ErrInvalidMode    = errors.New("invalid recipient mode")
	ErrWrongMode      = errors.New("selection does not match recipient mode")
)

// Sender exposes the three send endpoints
type Sender interface {
	SendToUser(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)
	SendToMany(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)
	SendToAll(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error)
}

// ValidationError is returned when the form is not ready to send
type ValidationError struct {
	Errors validator.ValidationErrors
}

func (e *ValidationError) Error() string { return e.Errors.Error() }
func (e *ValidationError) Unwrap() error { return e.Errors }

type Options struct {
	BatchSize  int
	Debounce   time.Duration
	MatchLimit int
	Validator  *validator.Validator
	Logger     *slog.Logger
}

type State struct {
	RecipientMode models.RecipientMode       `json:"recipientMode"`
	UserID        string                     `json:"userId,omitempty"`
	UserIDs       []string                   `json:"userIds"`
	Title         string                     `json:"title"`
	Body          string                     `json:"body"`
	Data          models.NotificationPayload `json:"data"`
	Importance    models.Importance          `json:"importance"`
	Search        string                     `json:"search"`
	Matches       []RecipientOption          `json:"matches"`
	Directory     DirectoryState             `json:"directory"`
	Submitting    bool                       `json:"submitting"`
	Error         string                     `json:"error,omitempty"`
	FieldErrors   validator.ValidationErrors `json:"fieldErrors,omitempty"`
	LastResult    *models.NotificationResult `json:"lastResult,omitempty"`
}

type Form struct {
	fetch DirectoryPage
	opts  Options

	debouncer *debounce.Debouncer
	life      context.Context
	cancel    context.CancelFunc

	mu        sync.Mutex
	mounted   bool
	state     State
	directory []RecipientOption
}

func New(fetch DirectoryPage, opts Options) *Form {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 400 * time.Millisecond
	}
	if opts.MatchLimit <= 0 {
		opts.MatchLimit = 20
	}
	if opts.Validator == nil {
		opts.Validator = validator.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	life, cancel := context.WithCancel(context.Background())
	f := &Form{
		fetch:     fetch,
		opts:      opts,
		debouncer: debounce.New(opts.Debounce),
		life:      life,
		cancel:    cancel,
	}
	f.resetLocked(models.RecipientSingle)
	return f
}

// Mount starts loading the user directory in the background. Later calls are
// no-ops unless the last load failed, in which case the load runs again.
func (f *Form) Mount(ctx context.Context) {
	f.mu.Lock()
	if f.life.Err() != nil || (f.mounted && f.state.Directory.Error == "") {
		f.mu.Unlock()
		return
	}
	f.mounted = true
	f.mu.Unlock()

	lctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(f.life, cancel)
	go func() {
		defer stop()
		defer cancel()
		if err := f.LoadDirectory(lctx); err != nil && !errors.Is(err, ErrUnmounted) {
			f.opts.Logger.Warn("User directory load failed", "error", err)
		}
	}()
}

// LoadDirectory fetches the whole directory and caches it for local search
func (f *Form) LoadDirectory(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Directory.Loading {
		f.mu.Unlock()
		return nil
	}
	f.state.Directory.Loading = true
	f.state.Directory.Error = ""
	f.mu.Unlock()

	entries, err := loadDirectory(ctx, f.fetch, f.opts.BatchSize, f.isAlive)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Directory.Loading = false
	if err != nil {
		if !errors.Is(err, ErrUnmounted) {
			f.state.Directory.Error = client.UserMessage(err, "Could not load users")
		}
		return err
	}
	f.directory = entries
	f.state.Directory.Loaded = true
	f.state.Directory.Count = len(entries)
	f.state.Matches = filterDirectory(f.directory, f.state.Search, f.opts.MatchLimit)
	return nil
}

func (f *Form) isAlive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mounted && f.life.Err() == nil
}

// Search filters the cached directory once typing pauses. It never fetches.
func (f *Form) Search(text string) {
	f.mu.Lock()
	f.state.Search = text
	f.mu.Unlock()

	f.debouncer.Trigger(func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.state.Matches = filterDirectory(f.directory, text, f.opts.MatchLimit)
	})
}

// SetMode switches the recipient mode and clears every chosen recipient
func (f *Form) SetMode(mode models.RecipientMode) error {
	switch mode {
	case models.RecipientSingle, models.RecipientMultiple, models.RecipientAll:
	default:
		return fmt.Errorf("%w: %s", ErrInvalidMode, mode)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.RecipientMode = mode
	f.state.UserID = ""
	f.state.UserIDs = []string{}
	f.state.FieldErrors = nil
	return nil
}

// SelectUser picks the recipient in single mode
func (f *Form) SelectUser(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.RecipientMode != models.RecipientSingle {
		return ErrWrongMode
	}
	f.state.UserID = id
	return nil
}

// ToggleUser adds or removes a recipient in multiple mode
func (f *Form) ToggleUser(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state.RecipientMode != models.RecipientMultiple {
		return ErrWrongMode
	}
	if i := slices.Index(f.state.UserIDs, id); i >= 0 {
		f.state.UserIDs = slices.Delete(slices.Clone(f.state.UserIDs), i, i+1)
		return nil
	}
	f.state.UserIDs = append(slices.Clone(f.state.UserIDs), id)
	return nil
}

// Patch is a partial update of the message fields
type Patch struct {
	Title      *string                     `json:"title,omitempty"`
	Body       *string                     `json:"body,omitempty"`
	Data       *models.NotificationPayload `json:"data,omitempty"`
	Importance *models.Importance          `json:"importance,omitempty"`
}

func (f *Form) Apply(p Patch) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.Title != nil {
		f.state.Title = *p.Title
	}
	if p.Body != nil {
		f.state.Body = *p.Body
	}
	if p.Data != nil {
		f.state.Data = *p.Data
	}
	if p.Importance != nil {
		f.state.Importance = *p.Importance
	}
}

// Request builds the outgoing payload from the current state
func (f *Form) Request() *models.NotificationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requestLocked()
}

func (f *Form) requestLocked() *models.NotificationRequest {
	req := &models.NotificationRequest{
		Mode:       f.state.RecipientMode,
		Title:      f.state.Title,
		Body:       f.state.Body,
		Data:       f.state.Data,
		Importance: f.state.Importance,
	}
	switch f.state.RecipientMode {
	case models.RecipientSingle:
		req.UserID = f.state.UserID
	case models.RecipientMultiple:
		req.UserIDs = slices.Clone(f.state.UserIDs)
	}
	return req
}

// Submit validates and sends through the endpoint matching the recipient mode
func (f *Form) Submit(ctx context.Context, sender Sender) (*models.NotificationResult, error) {
	f.mu.Lock()
	if f.state.Submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	req := f.requestLocked()
	if errs := f.opts.Validator.ValidateNotification(req); len(errs) > 0 {
		f.state.FieldErrors = errs
		f.state.Error = errs[0].Message
		f.mu.Unlock()
		return nil, &ValidationError{Errors: errs}
	}
	f.state.Submitting = true
	f.state.Error = ""
	f.state.FieldErrors = nil
	f.mu.Unlock()

	var (
		result *models.NotificationResult
		err    error
	)
	switch req.Mode {
	case models.RecipientSingle:
		result, err = sender.SendToUser(ctx, req)
	case models.RecipientMultiple:
		result, err = sender.SendToMany(ctx, req)
	default:
		result, err = sender.SendToAll(ctx, req)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Submitting = false
	if err != nil {
		f.state.Error = client.UserMessage(err, "Failed to send notification")
		return nil, err
	}
	f.state.LastResult = result
	f.resetLocked(f.state.RecipientMode)
	return result, nil
}

// resetLocked clears the message and recipients but keeps the directory
func (f *Form) resetLocked(mode models.RecipientMode) {
	f.state.RecipientMode = mode
	f.state.UserID = ""
	f.state.UserIDs = []string{}
	f.state.Title = ""
	f.state.Body = ""
	f.state.Data = models.NotificationPayload{Type: models.PayloadSystem}
	f.state.Importance = models.ImportanceMedium
	f.state.FieldErrors = nil
	if f.state.Matches == nil {
		f.state.Matches = []RecipientOption{}
	}
}

func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.state
	out.UserIDs = slices.Clone(f.state.UserIDs)
	out.Matches = slices.Clone(f.state.Matches)
	return out
}

// Close cancels the directory load and the pending search
func (f *Form) Close() {
	f.mu.Lock()
	f.mounted = false
	f.mu.Unlock()
	f.debouncer.Stop()
	f.cancel()
}
