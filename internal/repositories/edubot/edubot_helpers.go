package edubot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

// queryBuilder skips empty values so the backend sees only the filters in use
type queryBuilder struct {
	values url.Values
}

func newQuery() *queryBuilder {
	return &queryBuilder{values: url.Values{}}
}

func (q *queryBuilder) str(key, value string) *queryBuilder {
	if value != "" {
		q.values.Set(key, value)
	}
	return q
}

func (q *queryBuilder) int(key string, value int) *queryBuilder {
	if value > 0 {
		q.values.Set(key, strconv.Itoa(value))
	}
	return q
}

func (q *queryBuilder) date(key string, value *time.Time) *queryBuilder {
	if value != nil && !value.IsZero() {
		q.values.Set(key, value.Format("2006-01-02"))
	}
	return q
}

func (q *queryBuilder) build() url.Values {
	return q.values
}

// unwrap decodes raw into out, looking first under key because the backend
// answers some routes with {key: entity} and others with the bare entity
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func unwrap(raw json.RawMessage, key string, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return fmt.Errorf("empty response")
	}

	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err == nil {
			for _, k := range []string{key, "data"} {
				if inner, ok := envelope[k]; ok && !isNull(inner) {
					return json.Unmarshal(inner, out)
				}
			}
		}
	}
	return json.Unmarshal(trimmed, out)
}

// listPage decodes {key: [...], pagination: {...}}. A bare array is accepted and paginated locally.
func listPage[T any](raw json.RawMessage, key string, page, limit int) ([]*T, models.Pagination, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var all []*T
		if err := json.Unmarshal(trimmed, &all); err != nil {
			return nil, models.Pagination{}, err
		}
		return paginate(all, page, limit)
	}

	var envelope struct {
		Pagination *models.Pagination `json:"pagination"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, models.Pagination{}, err
	}
	// {key: null, pagination: {...}} is an empty page
	if envelope.Pagination != nil {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err == nil {
			if inner, ok := fields[key]; ok && isNull(inner) {
				return []*T{}, *envelope.Pagination, nil
			}
		}
	}
	var items []*T
	if err := unwrap(trimmed, key, &items); err != nil {
		return nil, models.Pagination{}, err
	}
	if envelope.Pagination == nil {
		return paginate(items, page, limit)
	}
	if items == nil {
		items = []*T{}
	}
	return items, *envelope.Pagination, nil
}

func paginate[T any](all []*T, page, limit int) ([]*T, models.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = max(len(all), 1)
	}
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))

	p := models.Pagination{Total: len(all), Page: page, Limit: limit}
	p.Pages = p.TotalPages()
	items := all[start:end]
	if items == nil {
		items = []*T{}
	}
	return items, p, nil
}
