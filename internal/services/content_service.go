package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

// ===== CHATS =====

type chatService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewChatService(repo repositories.Repository, logger *slog.Logger) ChatService {
	return &chatService{repo: repo, logger: logger}
}

func (s *chatService) List(ctx context.Context, filters repositories.ChatFilters) (*models.Page[*models.Conversation], error) {
	filters.Page, filters.Limit = normalizePage(filters.Page, filters.Limit)
	filters.Keyword = strings.TrimSpace(filters.Keyword)
	if filters.StartDate != nil && filters.EndDate != nil && filters.EndDate.Before(*filters.StartDate) {
		return nil, validationFailed(validator.ValidationErrors{{
			Field: "endDate", Message: "endDate must not be before startDate", Rule: "gtefield",
		}})
	}

	conversations, pagination, err := s.repo.Chat().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return newPage(conversations, pagination), nil
}

// ===== TESTS =====

type testService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewTestService(repo repositories.Repository, logger *slog.Logger) TestService {
	return &testService{repo: repo, logger: logger}
}

func (s *testService) List(ctx context.Context, filters repositories.TestFilters) (*models.Page[*models.Test], error) {
	filters.Page, filters.Limit = normalizePage(filters.Page, filters.Limit)

	tests, pagination, err := s.repo.Test().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	return newPage(tests, pagination), nil
}

func (s *testService) Get(ctx context.Context, id string) (*models.Test, error) {
	test, err := s.repo.Test().GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return test, nil
}
