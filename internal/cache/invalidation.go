package cache

import (
	"context"
	"log/slog"
)

// SafeDelete deletes keys and only logs a failure
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// SafeInvalidatePattern invalidates a pattern and only logs a failure
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// InvalidateMajor drops the cached detail of one major and the dashboard counters
func InvalidateMajor(ctx context.Context, cm *CacheManager, majorID string) {
	if majorID != "" {
		SafeDelete(ctx, cm.Majors, "id:"+majorID)
	}
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}

// InvalidateUsers drops the dashboard counters after a user mutation
func InvalidateUsers(ctx context.Context, cm *CacheManager) {
	SafeInvalidatePattern(ctx, cm.Stats, "*")
}
