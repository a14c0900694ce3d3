package console

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Registry maps session ids to their workspaces
type Registry struct {
	services Services
	opts     Options

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewRegistry(svc Services, opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Registry{
		services:   svc,
		opts:       opts,
		workspaces: make(map[string]*Workspace),
	}
}

// Get returns the workspace of sessionID, creating it on first use
func (r *Registry) Get(sessionID string) *Workspace {
	r.mu.Lock()
	defer r.mu.Unlock()

	if w, ok := r.workspaces[sessionID]; ok {
		return w
	}
	w := NewWorkspace(sessionID, r.services, r.opts)
	r.workspaces[sessionID] = w
	r.opts.Logger.Debug("Workspace opened", "session_id", sessionID, "open", len(r.workspaces))
	return w
}

// Remove closes and forgets the workspace of sessionID
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	w, ok := r.workspaces[sessionID]
	delete(r.workspaces, sessionID)
	r.mu.Unlock()

	if ok {
		w.Close()
	}
}

// Prune removes every workspace whose session alive no longer reports, and
// returns how many were removed
func (r *Registry) Prune(ctx context.Context, alive func(ctx context.Context, sessionID string) bool) int {
	r.mu.Lock()
	ids := make([]string, 0, len(r.workspaces))
	for id := range r.workspaces {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	removed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if alive(ctx, id) {
			continue
		}
		r.Remove(id)
		removed++
	}
	if removed > 0 {
		r.opts.Logger.Info("Pruned workspaces of ended sessions", "removed", removed, "open", r.Len())
	}
	return removed
}

// Sweep prunes on every tick until ctx is done. Sessions that expire in the
// store without a logout are only noticed here.
func (r *Registry) Sweep(ctx context.Context, interval time.Duration, alive func(ctx context.Context, sessionID string) bool) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Prune(ctx, alive)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}

// CloseAll closes every workspace, used on shutdown
func (r *Registry) CloseAll() {
	r.mu.Lock()
	workspaces := r.workspaces
	r.workspaces = make(map[string]*Workspace)
	r.mu.Unlock()

	for _, w := range workspaces {
		w.Close()
	}
}
