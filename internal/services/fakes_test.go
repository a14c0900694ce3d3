package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRepository wires in-memory fakes behind repositories.Repository
type fakeRepository struct {
	users         *fakeUsers
	chats         *fakeChats
	tests         *fakeTests
	majors        *fakeMajors
	notifications *fakeNotifications
	activities    *fakeActivities
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:         &fakeUsers{},
		chats:         &fakeChats{},
		tests:         &fakeTests{},
		majors:        &fakeMajors{},
		notifications: &fakeNotifications{},
		activities:    &fakeActivities{},
	}
}

func (r *fakeRepository) Auth() repositories.AuthRepository                 { return nil }
func (r *fakeRepository) User() repositories.UserRepository                 { return r.users }
func (r *fakeRepository) Chat() repositories.ChatRepository                 { return r.chats }
func (r *fakeRepository) Test() repositories.TestRepository                 { return r.tests }
func (r *fakeRepository) Major() repositories.MajorRepository               { return r.majors }
func (r *fakeRepository) Notification() repositories.NotificationRepository { return r.notifications }
func (r *fakeRepository) Activity() repositories.ActivityRepository         { return r.activities }
func (r *fakeRepository) Ping(ctx context.Context) error                    { return nil }
func (r *fakeRepository) Close() error                                      { return nil }

func pageOf[T any](all []T, page, limit int) ([]T, models.Pagination) {
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))
	p := models.Pagination{Total: len(all), Page: page, Limit: limit}
	p.Pages = p.TotalPages()
	return all[start:end], p
}

type fakeUsers struct {
	mu        sync.Mutex
	all       []*models.User
	listCalls int
	creates   []*models.UserCreateRequest
	updates   map[string]*models.UserUpdateRequest
	err       error
}

func (f *fakeUsers) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, models.Pagination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.err != nil {
		return nil, models.Pagination{}, f.err
	}
	items, p := pageOf(f.all, filters.Page, filters.Limit)
	return items, p, nil
}

func (f *fakeUsers) Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: "u-new", FullName: req.FullName, Email: req.Email, Role: req.Role, IsActive: true}, nil
}

func (f *fakeUsers) Update(ctx context.Context, id string, req *models.UserUpdateRequest) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updates == nil {
		f.updates = map[string]*models.UserUpdateRequest{}
	}
	f.updates[id] = req
	if f.err != nil {
		return nil, f.err
	}
	u := &models.User{ID: id, Email: id + "@edubot.vn"}
	if req.Role != nil {
		u.Role = *req.Role
	}
	return u, nil
}

func (f *fakeUsers) UpdateStatus(ctx context.Context, id string, isActive bool) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.User{ID: id, Email: id + "@edubot.vn", IsActive: isActive}, nil
}

type fakeChats struct {
	all       []*models.Conversation
	listCalls int
	last      repositories.ChatFilters
}

func (f *fakeChats) List(ctx context.Context, filters repositories.ChatFilters) ([]*models.Conversation, models.Pagination, error) {
	f.listCalls++
	f.last = filters
	items, p := pageOf(f.all, filters.Page, filters.Limit)
	return items, p, nil
}

type fakeTests struct {
	all []*models.Test
	err error
}

func (f *fakeTests) List(ctx context.Context, filters repositories.TestFilters) ([]*models.Test, models.Pagination, error) {
	items, p := pageOf(f.all, filters.Page, filters.Limit)
	return items, p, nil
}

func (f *fakeTests) GetByID(ctx context.Context, id string) (*models.Test, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.all {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

type fakeMajors struct {
	mu      sync.Mutex
	all     []*models.Major
	creates []*models.Major
	deletes []string
	err     error
}

func (f *fakeMajors) List(ctx context.Context, filters repositories.MajorFilters) ([]*models.Major, models.Pagination, error) {
	items, p := pageOf(f.all, filters.Page, filters.Limit)
	return items, p, nil
}

func (f *fakeMajors) GetByID(ctx context.Context, id string) (*models.Major, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range f.all {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeMajors) Create(ctx context.Context, major *models.Major, image *repositories.ImageUpload) (*models.Major, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, major)
	if f.err != nil {
		return nil, f.err
	}
	created := major.Clone()
	created.ID = "m-new"
	f.all = append(f.all, &created)
	return &created, nil
}

func (f *fakeMajors) Update(ctx context.Context, id string, major *models.Major, image *repositories.ImageUpload) (*models.Major, error) {
	if f.err != nil {
		return nil, f.err
	}
	updated := major.Clone()
	updated.ID = id
	return &updated, nil
}

func (f *fakeMajors) Delete(ctx context.Context, id string) error {
	f.deletes = append(f.deletes, id)
	return f.err
}

type fakeNotifications struct {
	calls []string
	reqs  []*models.NotificationRequest
}

func (f *fakeNotifications) record(endpoint string, req *models.NotificationRequest) (*models.NotificationResult, error) {
	f.calls = append(f.calls, endpoint)
	f.reqs = append(f.reqs, req)
	return &models.NotificationResult{Message: "Notification sent"}, nil
}

func (f *fakeNotifications) SendToUser(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return f.record("send-to-user", req)
}

func (f *fakeNotifications) SendToMany(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return f.record("send-to-many", req)
}

func (f *fakeNotifications) SendToAll(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return f.record("send-to-all", req)
}

type fakeActivities struct {
	mu      sync.Mutex
	created []*models.AdminActivity
	err     error
}

func (f *fakeActivities) Create(ctx context.Context, activity *models.AdminActivity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, activity)
	return nil
}

func (f *fakeActivities) List(ctx context.Context, filters repositories.ActivityFilters) ([]*models.AdminActivity, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created, int64(len(f.created)), nil
}

func (f *fakeActivities) Recent(ctx context.Context, limit int) ([]*models.AdminActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.created[:min(limit, len(f.created))], nil
}

func (f *fakeActivities) CountByAction(ctx context.Context, since *time.Time) (map[models.ActivityAction]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[models.ActivityAction]int64{}
	for _, a := range f.created {
		counts[a.Action]++
	}
	return counts, nil
}

func (f *fakeActivities) actions() []models.ActivityAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ActivityAction, len(f.created))
	for i, a := range f.created {
		out[i] = a.Action
	}
	return out
}
