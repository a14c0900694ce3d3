package edubot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/cache"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

type majorEdubot struct {
	api   *client.Client
	cache *cache.CacheManager
}

func NewMajorEdubot(api *client.Client, cm *cache.CacheManager) repositories.MajorRepository {
	return &majorEdubot{api: api, cache: cm}
}

func (r *majorEdubot) List(ctx context.Context, filters repositories.MajorFilters) ([]*models.Major, models.Pagination, error) {
	query := newQuery().
		int("page", filters.Page).
		int("limit", filters.Limit).
		str("search", filters.Search).
		str("department", filters.Department).
		str("sortBy", filters.SortBy).
		str("sortOrder", filters.SortOrder).
		build()

	var raw json.RawMessage
	if err := r.api.Do(ctx, http.MethodGet, "/majors/admin", query, nil, &raw); err != nil {
		return nil, models.Pagination{}, err
	}
	majors, pagination, err := listPage[models.Major](raw, "majors", filters.Page, filters.Limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("decode majors: %w", err)
	}
	return majors, pagination, nil
}

func (r *majorEdubot) GetByID(ctx context.Context, id string) (*models.Major, error) {
	var major models.Major
	err := r.cache.Majors.CacheOrExecute(ctx, "id:"+id, &major, cache.MajorCacheConfig.TTL, func() (interface{}, error) {
		var raw json.RawMessage
		if err := r.api.Do(ctx, http.MethodGet, "/majors/"+url.PathEscape(id), nil, nil, &raw); err != nil {
			return nil, err
		}
		var fetched models.Major
		if err := unwrap(raw, "major", &fetched); err != nil {
			return nil, fmt.Errorf("decode major: %w", err)
		}
		return &fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return &major, nil
}

func (r *majorEdubot) Create(ctx context.Context, major *models.Major, image *repositories.ImageUpload) (*models.Major, error) {
	created, err := r.write(ctx, http.MethodPost, "/majors", major, image)
	if err != nil {
		return nil, err
	}
	cache.InvalidateMajor(ctx, r.cache, "")
	return created, nil
}

func (r *majorEdubot) Update(ctx context.Context, id string, major *models.Major, image *repositories.ImageUpload) (*models.Major, error) {
	updated, err := r.write(ctx, http.MethodPut, "/majors/"+url.PathEscape(id), major, image)
	if err != nil {
		return nil, err
	}
	cache.InvalidateMajor(ctx, r.cache, id)
	return updated, nil
}

func (r *majorEdubot) Delete(ctx context.Context, id string) error {
	if err := r.api.Do(ctx, http.MethodDelete, "/majors/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return err
	}
	cache.InvalidateMajor(ctx, r.cache, id)
	return nil
}

func (r *majorEdubot) write(ctx context.Context, method, path string, major *models.Major, image *repositories.ImageUpload) (*models.Major, error) {
	form, err := EncodeMajor(major, image)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := r.api.DoMultipart(ctx, method, path, form, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		saved := major.Clone()
		return &saved, nil
	}
	var saved models.Major
	if err := unwrap(raw, "major", &saved); err != nil {
		return nil, fmt.Errorf("decode major: %w", err)
	}
	return &saved, nil
}
