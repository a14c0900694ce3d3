package edubot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

type chatEdubot struct {
	api *client.Client
}

func NewChatEdubot(api *client.Client) repositories.ChatRepository {
	return &chatEdubot{api: api}
}

func (r *chatEdubot) List(ctx context.Context, filters repositories.ChatFilters) ([]*models.Conversation, models.Pagination, error) {
	query := newQuery().
		int("page", filters.Page).
		int("limit", filters.Limit).
		str("keyword", filters.Keyword).
		date("startDate", filters.StartDate).
		date("endDate", filters.EndDate).
		build()

	var raw json.RawMessage
	if err := r.api.Do(ctx, http.MethodGet, "/chat/all", query, nil, &raw); err != nil {
		return nil, models.Pagination{}, err
	}
	conversations, pagination, err := listPage[models.Conversation](raw, "conversations", filters.Page, filters.Limit)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("decode conversations: %w", err)
	}
	return conversations, pagination, nil
}
