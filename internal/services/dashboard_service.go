package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/cache"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

const overviewCacheKey = "overview"

type dashboardService struct {
	repo   repositories.Repository
	cache  *cache.CacheManager
	logger *slog.Logger
	now    func() time.Time
}

func NewDashboardService(repo repositories.Repository, cm *cache.CacheManager, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		cache:  cm,
		logger: logger,
		now:    time.Now,
	}
}

// Overview asks each backend list for its total using one-row pages, in parallel
func (s *dashboardService) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	var overview models.DashboardOverview
	err := s.cache.Stats.CacheOrExecute(ctx, overviewCacheKey, &overview, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.buildOverview(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

func (s *dashboardService) buildOverview(ctx context.Context) (*models.DashboardOverview, error) {
	s.logger.Info("Building dashboard overview")

	overview := &models.DashboardOverview{GeneratedAt: s.now().UTC()}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, p, err := s.repo.User().List(gctx, repositories.UserFilters{Page: 1, Limit: 1})
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		overview.TotalUsers = p.Total
		return nil
	})
	g.Go(func() error {
		_, p, err := s.repo.Chat().List(gctx, repositories.ChatFilters{Page: 1, Limit: 1})
		if err != nil {
			return fmt.Errorf("failed to count conversations: %w", err)
		}
		overview.TotalConversations = p.Total
		return nil
	})
	g.Go(func() error {
		_, p, err := s.repo.Test().List(gctx, repositories.TestFilters{Page: 1, Limit: 1})
		if err != nil {
			return fmt.Errorf("failed to count tests: %w", err)
		}
		overview.TotalTests = p.Total
		return nil
	})
	g.Go(func() error {
		_, p, err := s.repo.Major().List(gctx, repositories.MajorFilters{Page: 1, Limit: 1})
		if err != nil {
			return fmt.Errorf("failed to count majors: %w", err)
		}
		overview.TotalMajors = p.Total
		return nil
	})
	g.Go(func() error {
		recent, err := s.repo.Activity().Recent(gctx, 10)
		if err != nil {
			// the audit trail is optional on the dashboard
			s.logger.Warn("Failed to load recent activities", "error", err)
			recent = []*models.AdminActivity{}
		}
		overview.RecentActivities = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return overview, nil
}

func (s *dashboardService) RecentActivities(ctx context.Context, limit int) ([]*models.AdminActivity, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	activities, err := s.repo.Activity().Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent activities: %w", err)
	}
	return activities, nil
}

func (s *dashboardService) ActivitySummary(ctx context.Context, since time.Time) (map[models.ActivityAction]int64, error) {
	counts, err := s.repo.Activity().CountByAction(ctx, &since)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize activities: %w", err)
	}
	return counts, nil
}
