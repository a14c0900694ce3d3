package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

// ErrUnmounted stops a directory load whose form has gone away
var ErrUnmounted = errors.New("notification form is no longer mounted")

// DirectoryPage fetches one batch of the user directory
type DirectoryPage func(ctx context.Context, page, limit int) ([]*models.User, models.Pagination, error)

// RecipientOption is one entry offered by the recipient picker
type RecipientOption struct {
	ID       string `json:"_id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

type DirectoryState struct {
	Loaded  bool   `json:"loaded"`
	Loading bool   `json:"loading"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
}

// loadDirectory pages through the directory until a short batch arrives.
// alive is consulted before every continuation and before the result is returned.
func loadDirectory(ctx context.Context, fetch DirectoryPage, batchSize int, alive func() bool) ([]RecipientOption, error) {
	var entries []RecipientOption
	for page := 1; ; page++ {
		if !alive() {
			return nil, ErrUnmounted
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		users, pagination, err := fetch(ctx, page, batchSize)
		if err != nil {
			return nil, fmt.Errorf("failed to load user directory page %d: %w", page, err)
		}
		for _, u := range users {
			if u == nil {
				continue
			}
			entries = append(entries, RecipientOption{ID: u.ID, FullName: u.FullName, Email: u.Email})
		}

		if len(users) < batchSize || (pagination.Pages > 0 && page >= pagination.Pages) {
			break
		}
	}

	if !alive() {
		return nil, ErrUnmounted
	}
	return entries, nil
}

// filterDirectory matches name or email by case-insensitive substring
func filterDirectory(entries []RecipientOption, text string, limit int) []RecipientOption {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]RecipientOption, 0, min(limit, len(entries)))
	for _, e := range entries {
		if len(out) >= limit {
			break
		}
		if needle == "" ||
			strings.Contains(strings.ToLower(e.FullName), needle) ||
			strings.Contains(strings.ToLower(e.Email), needle) {
			out = append(out, e)
		}
	}
	return out
}
