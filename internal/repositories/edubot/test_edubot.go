package edubot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/cache"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

type testEdubot struct {
	api   *client.Client
	cache *cache.CacheHelper
}

// NewTestEdubot reads tests through a redis cache; test content is read-only from the console
func NewTestEdubot(api *client.Client, cm *cache.CacheManager) repositories.TestRepository {
	return &testEdubot{api: api, cache: cm.Tests}
}

func (r *testEdubot) List(ctx context.Context, filters repositories.TestFilters) ([]*models.Test, models.Pagination, error) {
	query := newQuery().
		int("page", filters.Page).
		int("limit", filters.Limit).
		str("search", filters.Search).
		str("type", string(filters.Type)).
		build()

	var raw json.RawMessage
	if err := r.api.Do(ctx, http.MethodGet, "/tests", query, nil, &raw); err != nil {
		return nil, models.Pagination{}, err
	}

	// /tests may answer with the whole catalogue; narrow it here when it does
	if trimmed := strings.TrimSpace(string(raw)); strings.HasPrefix(trimmed, "[") {
		var all []*models.Test
		if err := json.Unmarshal(raw, &all); err != nil {
			return nil, models.Pagination{}, fmt.Errorf("decode tests: %w", err)
		}
		return paginate(filterTests(all, filters), filters.Page, filters.Limit)
	}

	tests, pagination, err := listPage[models.Test](raw, "tests", filters.Page, filters.Limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("decode tests: %w", err)
	}
	return tests, pagination, nil
}

func (r *testEdubot) GetByID(ctx context.Context, id string) (*models.Test, error) {
	var test models.Test
	err := r.cache.CacheOrExecute(ctx, "id:"+id, &test, cache.TestCacheConfig.TTL, func() (interface{}, error) {
		var raw json.RawMessage
		if err := r.api.Do(ctx, http.MethodGet, "/tests/"+url.PathEscape(id), nil, nil, &raw); err != nil {
			return nil, err
		}
		var fetched models.Test
		if err := unwrap(raw, "test", &fetched); err != nil {
			return nil, fmt.Errorf("decode test: %w", err)
		}
		return &fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return &test, nil
}

func filterTests(all []*models.Test, filters repositories.TestFilters) []*models.Test {
	search := strings.ToLower(strings.TrimSpace(filters.Search))
	out := make([]*models.Test, 0, len(all))
	for _, t := range all {
		if filters.Type != "" && t.Type != filters.Type {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}
