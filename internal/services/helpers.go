package services

import (
	"errors"
	"net/http"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func newPage[T any](items []T, pagination models.Pagination) *models.Page[T] {
	if items == nil {
		items = []T{}
	}
	return &models.Page[T]{Items: items, Pagination: pagination}
}

// mapNotFound turns a backend 404 into ErrNotFound and keeps everything else
func mapNotFound(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return errors.Join(ErrNotFound, err)
	}
	return err
}
