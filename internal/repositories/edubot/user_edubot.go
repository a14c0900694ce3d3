package edubot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

type userEdubot struct {
	api *client.Client
}

func NewUserEdubot(api *client.Client) repositories.UserRepository {
	return &userEdubot{api: api}
}

func (r *userEdubot) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, models.Pagination, error) {
	query := newQuery().
		int("page", filters.Page).
		int("limit", filters.Limit).
		str("role", string(filters.Role)).
		str("search", filters.Search).
		str("sortBy", filters.SortBy).
		str("sortOrder", filters.SortOrder).
		build()

	var raw json.RawMessage
	if err := r.api.Do(ctx, http.MethodGet, "/admin/users", query, nil, &raw); err != nil {
		return nil, models.Pagination{}, err
	}
	users, pagination, err := listPage[models.User](raw, "users", filters.Page, filters.Limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("decode users: %w", err)
	}
	return users, pagination, nil
}

func (r *userEdubot) Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	return r.write(ctx, http.MethodPost, "/admin/users", req)
}

func (r *userEdubot) Update(ctx context.Context, id string, req *models.UserUpdateRequest) (*models.User, error) {
	return r.write(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id), req)
}

func (r *userEdubot) UpdateStatus(ctx context.Context, id string, isActive bool) (*models.User, error) {
	return r.write(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id)+"/status", models.UserStatusRequest{IsActive: isActive})
}

func (r *userEdubot) write(ctx context.Context, method, path string, body interface{}) (*models.User, error) {
	var raw json.RawMessage
	if err := r.api.Do(ctx, method, path, nil, body, &raw); err != nil {
		return nil, err
	}
	var user models.User
	if err := unwrap(raw, "user", &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}
