package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/listing"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

var ErrInvalidFilters = errors.New("invalid filters")

// Screen is one list section as the console handlers drive it
type Screen interface {
	Mount(ctx context.Context) error
	Search(ctx context.Context, text string)
	// PatchFilters merges a JSON object into the current filters and reloads from page 1
	PatchFilters(ctx context.Context, patch []byte) error
	GoTo(ctx context.Context, page int) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Retry(ctx context.Context) error
	Refresh(ctx context.Context) error
	View() ScreenView
	Detail(ctx context.Context, id string) (any, error)
	Close()
}

// ScreenView is the payload a list screen renders from
type ScreenView struct {
	Section  Section          `json:"section"`
	State    any              `json:"state"`
	Controls listing.Controls `json:"controls"`
}

type listScreen[T, F any] struct {
	section    Section
	controller *listing.Controller[T, F]
	detail     func(ctx context.Context, id string) (any, error)
}

func (s *listScreen[T, F]) Mount(ctx context.Context) error { return s.controller.Mount(ctx) }

func (s *listScreen[T, F]) Search(ctx context.Context, text string) {
	s.controller.SetSearch(ctx, text)
}

func (s *listScreen[T, F]) PatchFilters(ctx context.Context, patch []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(patch, &probe); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilters, err)
	}

	var decodeErr error
	err := s.controller.SetFilters(ctx, func(f *F) {
		next := *f
		if decodeErr = json.Unmarshal(patch, &next); decodeErr == nil {
			*f = next
		}
	})
	if decodeErr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidFilters, decodeErr)
	}
	return err
}

func (s *listScreen[T, F]) GoTo(ctx context.Context, page int) error {
	return s.controller.GoTo(ctx, page)
}

func (s *listScreen[T, F]) Next(ctx context.Context) error    { return s.controller.Next(ctx) }
func (s *listScreen[T, F]) Prev(ctx context.Context) error    { return s.controller.Prev(ctx) }
func (s *listScreen[T, F]) Retry(ctx context.Context) error   { return s.controller.Retry(ctx) }
func (s *listScreen[T, F]) Refresh(ctx context.Context) error { return s.controller.Refresh(ctx) }

func (s *listScreen[T, F]) View() ScreenView {
	return ScreenView{
		Section:  s.section,
		State:    s.controller.Snapshot(),
		Controls: s.controller.Controls(),
	}
}

func (s *listScreen[T, F]) Detail(ctx context.Context, id string) (any, error) {
	return s.detail(ctx, id)
}

func (s *listScreen[T, F]) Close() { s.controller.Close() }

// pageFetch adapts a service list call into a listing fetch.
// paginate writes the requested page and size into the filters.
func pageFetch[T, F any](list func(ctx context.Context, f F) (*models.Page[T], error), paginate func(f *F, page, limit int)) listing.FetchFunc[T, F] {
	return func(ctx context.Context, q listing.Query[F]) (listing.Result[T], error) {
		filters := q.Filters
		paginate(&filters, q.Page, q.Limit)
		page, err := list(ctx, filters)
		if err != nil {
			return listing.Result[T]{}, err
		}
		return listing.Result[T]{Items: page.Items, Pagination: page.Pagination}, nil
	}
}
