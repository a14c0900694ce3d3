// Package listing holds the server-side state of one paginated, filterable table.
package listing

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/debounce"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

var ErrPageOutOfRange = errors.New("page out of range")

// Query is what a fetch receives
type Query[F any] struct {
	Page    int
	Limit   int
	Filters F
}

type Result[T any] struct {
	Items      []T
	Pagination models.Pagination
}

type FetchFunc[T, F any] func(ctx context.Context, q Query[F]) (Result[T], error)

type Options[F any] struct {
	PageSize int
	Debounce time.Duration
	// ApplySearch merges the debounced search text into the filters
	ApplySearch func(f *F, text string)
	// ErrorMessage is shown when the backend gives no message
	ErrorMessage string
	Logger       *slog.Logger
}

// State is a snapshot of the controller
type State[T, F any] struct {
	Items         []T    `json:"items"`
	Page          int    `json:"page"`
	PageSize      int    `json:"pageSize"`
	TotalPages    int    `json:"totalPages"`
	TotalItems    int    `json:"totalItems"`
	Filters       F      `json:"filters"`
	Search        string `json:"search"`
	Loading       bool   `json:"loading"`
	SearchLoading bool   `json:"searchLoading"`
	Error         string `json:"error,omitempty"`
	Mounted       bool   `json:"mounted"`
}

type loadKind int

const (
	loadPrimary loadKind = iota
	loadSearch
)

type Controller[T, F any] struct {
	fetch FetchFunc[T, F]
	opts  Options[F]

	debouncer *debounce.Debouncer
	life      context.Context
	cancel    context.CancelFunc

	mu            sync.Mutex
	state         State[T, F]
	seq           uint64
	primaryFlight int
	searchFlight  int
}

func New[T, F any](fetch FetchFunc[T, F], initial F, opts Options[F]) *Controller[T, F] {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.Debounce <= 0 {
		opts.Debounce = 400 * time.Millisecond
	}
	if opts.ErrorMessage == "" {
		opts.ErrorMessage = "Could not load data"
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	life, cancel := context.WithCancel(context.Background())
	return &Controller[T, F]{
		fetch:     fetch,
		opts:      opts,
		debouncer: debounce.New(opts.Debounce),
		life:      life,
		cancel:    cancel,
		state: State[T, F]{
			Items:    []T{},
			Page:     1,
			PageSize: opts.PageSize,
			Filters:  initial,
		},
	}
}

// Mount issues the first fetch. Later calls are no-ops.
func (c *Controller[T, F]) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Mounted {
		c.mu.Unlock()
		return nil
	}
	c.state.Mounted = true
	c.mu.Unlock()

	return c.load(ctx, loadPrimary)
}

// SetSearch records the text immediately and fetches once typing pauses
func (c *Controller[T, F]) SetSearch(ctx context.Context, text string) {
	c.mu.Lock()
	c.state.Search = text
	c.mu.Unlock()

	c.debouncer.Trigger(func() {
		c.mu.Lock()
		if c.opts.ApplySearch != nil {
			c.opts.ApplySearch(&c.state.Filters, text)
		}
		c.state.Page = 1
		c.mu.Unlock()

		fctx, done := c.detach(ctx)
		defer done()
		if err := c.load(fctx, loadSearch); err != nil {
			c.opts.Logger.Debug("Debounced list fetch failed", "error", err)
		}
	})
}

// SetFilters applies a secondary filter right away and goes back to page 1
func (c *Controller[T, F]) SetFilters(ctx context.Context, mutate func(f *F)) error {
	c.mu.Lock()
	mutate(&c.state.Filters)
	c.state.Page = 1
	c.mu.Unlock()

	return c.load(ctx, loadSearch)
}

// GoTo moves to page, refusing pages outside [1, totalPages]
func (c *Controller[T, F]) GoTo(ctx context.Context, page int) error {
	c.mu.Lock()
	if page < 1 || page > max(c.state.TotalPages, 1) {
		c.mu.Unlock()
		return ErrPageOutOfRange
	}
	c.state.Page = page
	c.mu.Unlock()

	return c.load(ctx, loadPrimary)
}

func (c *Controller[T, F]) Next(ctx context.Context) error {
	c.mu.Lock()
	page := c.state.Page + 1
	c.mu.Unlock()
	return c.GoTo(ctx, page)
}

func (c *Controller[T, F]) Prev(ctx context.Context) error {
	c.mu.Lock()
	page := c.state.Page - 1
	c.mu.Unlock()
	return c.GoTo(ctx, page)
}

// Retry re-issues the current query
func (c *Controller[T, F]) Retry(ctx context.Context) error {
	return c.load(ctx, loadPrimary)
}

// Refresh reloads after a mutation. When the current page no longer exists it steps back to the last one.
func (c *Controller[T, F]) Refresh(ctx context.Context) error {
	if err := c.load(ctx, loadPrimary); err != nil {
		return err
	}

	c.mu.Lock()
	last := c.state.TotalPages
	overshoot := last > 0 && c.state.Page > last
	if overshoot {
		c.state.Page = last
	}
	c.mu.Unlock()

	if overshoot {
		return c.load(ctx, loadPrimary)
	}
	return nil
}

func (c *Controller[T, F]) Snapshot() State[T, F] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = slices.Clone(c.state.Items)
	return s
}

// Find returns the first loaded item matching
func (c *Controller[T, F]) Find(match func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *Controller[T, F]) Controls() Controls {
	c.mu.Lock()
	defer c.mu.Unlock()
	return NewControls(c.state.Page, c.state.TotalPages)
}

// Close cancels the pending search and any fetch started by it
func (c *Controller[T, F]) Close() {
	c.debouncer.Stop()
	c.cancel()
}

func (c *Controller[T, F]) load(ctx context.Context, kind loadKind) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	q := Query[F]{Page: c.state.Page, Limit: c.state.PageSize, Filters: c.state.Filters}
	c.begin(kind)
	c.mu.Unlock()

	res, err := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.end(kind)

	if seq != c.seq {
		// a newer request owns the table
		return nil
	}
	if err != nil {
		c.state.Error = client.UserMessage(err, c.opts.ErrorMessage)
		return err
	}

	c.state.Error = ""
	c.state.Items = res.Items
	if c.state.Items == nil {
		c.state.Items = []T{}
	}
	c.state.TotalItems = res.Pagination.Total
	if res.Pagination.Limit <= 0 {
		res.Pagination.Limit = q.Limit
	}
	c.state.TotalPages = res.Pagination.TotalPages()
	return nil
}

func (c *Controller[T, F]) begin(kind loadKind) {
	if kind == loadSearch {
		c.searchFlight++
	} else {
		c.primaryFlight++
	}
	c.syncFlags()
}

func (c *Controller[T, F]) end(kind loadKind) {
	if kind == loadSearch {
		c.searchFlight--
	} else {
		c.primaryFlight--
	}
	c.syncFlags()
}

func (c *Controller[T, F]) syncFlags() {
	c.state.Loading = c.primaryFlight > 0
	c.state.SearchLoading = c.searchFlight > 0
}

// detach keeps the values of ctx (access token, logger) but ties cancellation to the controller
func (c *Controller[T, F]) detach(ctx context.Context) (context.Context, func()) {
	dctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(c.life, cancel)
	return dctx, func() {
		stop()
		cancel()
	}
}
