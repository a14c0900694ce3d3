package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/cache"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/config"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/console"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/session"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/utils"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func discardLogger() utils.Logger {
	return utils.NewSlogLogger(discardSlog())
}

// ===== FAKE SERVICES =====

type stubAuth struct {
	users map[string]models.User
}

func (s *stubAuth) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	user, ok := s.users[email]
	if !ok || password != "secret" {
		return nil, fmt.Errorf("%w: invalid credentials", services.ErrUnauthorized)
	}
	return &models.AuthResult{User: user, AccessToken: "token-" + user.ID}, nil
}

type fakeUsers struct {
	mu        sync.Mutex
	users     []*models.User
	lastQuery repositories.UserFilters
	createErr error
	listErr   error
	created   []*models.UserCreateRequest
}

func (f *fakeUsers) List(ctx context.Context, filters repositories.UserFilters) (*models.Page[*models.User], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = filters
	if f.listErr != nil {
		return nil, f.listErr
	}
	var matched []*models.User
	for _, u := range f.users {
		if filters.Role != "" && u.Role != filters.Role {
			continue
		}
		matched = append(matched, u)
	}
	return page(matched, filters.Page, filters.Limit), nil
}

func (f *fakeUsers) Create(ctx context.Context, req *models.UserCreateRequest) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &models.User{ID: "new-user", FullName: req.FullName, Email: req.Email, Role: req.Role, IsActive: true}, nil
}

func (f *fakeUsers) Update(ctx context.Context, id string, req *models.UserUpdateRequest) (*models.User, error) {
	return nil, fmt.Errorf("user %s: %w", id, services.ErrNotFound)
}

func (f *fakeUsers) SetStatus(ctx context.Context, id string, isActive bool) (*models.User, error) {
	return &models.User{ID: id, IsActive: isActive}, nil
}

func (f *fakeUsers) ChangeRole(ctx context.Context, id string, role models.UserRole) (*models.User, error) {
	return &models.User{ID: id, Role: role}, nil
}

type fakeChats struct{}

func (fakeChats) List(ctx context.Context, filters repositories.ChatFilters) (*models.Page[*models.Conversation], error) {
	return page([]*models.Conversation{}, filters.Page, filters.Limit), nil
}

type fakeTests struct{}

func (fakeTests) List(ctx context.Context, filters repositories.TestFilters) (*models.Page[*models.Test], error) {
	return page([]*models.Test{{ID: "t-1", Name: "Holland", Type: models.TestCareer}}, filters.Page, filters.Limit), nil
}

func (fakeTests) Get(ctx context.Context, id string) (*models.Test, error) {
	if id != "t-1" {
		return nil, services.ErrNotFound
	}
	return &models.Test{ID: "t-1", Name: "Holland", Type: models.TestCareer}, nil
}

type fakeMajors struct {
	mu      sync.Mutex
	majors  map[string]*models.Major
	images  map[string]*repositories.ImageUpload
	nextID  int
	deleted []string
}

func newFakeMajors() *fakeMajors {
	return &fakeMajors{majors: map[string]*models.Major{}, images: map[string]*repositories.ImageUpload{}}
}

func (f *fakeMajors) List(ctx context.Context, filters repositories.MajorFilters) (*models.Page[*models.Major], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]*models.Major, 0, len(f.majors))
	for _, m := range f.majors {
		items = append(items, m)
	}
	return page(items, filters.Page, filters.Limit), nil
}

func (f *fakeMajors) Get(ctx context.Context, id string) (*models.Major, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.majors[id]
	if !ok {
		return nil, fmt.Errorf("major %s: %w", id, services.ErrNotFound)
	}
	return m, nil
}

func (f *fakeMajors) CreateMajor(ctx context.Context, major *models.Major, image *repositories.ImageUpload) (*models.Major, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	saved := major.Clone()
	saved.ID = fmt.Sprintf("m-%d", f.nextID)
	f.majors[saved.ID] = &saved
	f.images[saved.ID] = image
	return &saved, nil
}

func (f *fakeMajors) UpdateMajor(ctx context.Context, id string, major *models.Major, image *repositories.ImageUpload) (*models.Major, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.majors[id]; !ok {
		return nil, services.ErrNotFound
	}
	saved := major.Clone()
	saved.ID = id
	f.majors[id] = &saved
	return &saved, nil
}

func (f *fakeMajors) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.majors[id]; !ok {
		return services.ErrNotFound
	}
	delete(f.majors, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeNotifications struct {
	mu   sync.Mutex
	sent []*models.NotificationRequest
}

func (f *fakeNotifications) record(req *models.NotificationRequest, mode models.RecipientMode) (*models.NotificationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *req
	copied.Mode = mode
	f.sent = append(f.sent, &copied)
	return &models.NotificationResult{Message: "sent", Sent: len(copied.Recipients())}, nil
}

func (f *fakeNotifications) SendToUser(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return f.record(req, models.RecipientSingle)
}

func (f *fakeNotifications) SendToMany(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return f.record(req, models.RecipientMultiple)
}

func (f *fakeNotifications) SendToAll(ctx context.Context, req *models.NotificationRequest) (*models.NotificationResult, error) {
	return f.record(req, models.RecipientAll)
}

type fakeDashboard struct{}

func (fakeDashboard) Overview(ctx context.Context) (*models.DashboardOverview, error) {
	return &models.DashboardOverview{TotalUsers: 3}, nil
}

func (fakeDashboard) RecentActivities(ctx context.Context, limit int) ([]*models.AdminActivity, error) {
	return []*models.AdminActivity{}, nil
}

func (fakeDashboard) ActivitySummary(ctx context.Context, since time.Time) (map[models.ActivityAction]int64, error) {
	return map[models.ActivityAction]int64{models.ActionAdminLogin: 1}, nil
}

type fakeActivity struct {
	mu      sync.Mutex
	entries []services.ActivityEntry
	actors  []string
}

func (f *fakeActivity) Record(ctx context.Context, entry services.ActivityEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, entry)
	if actor := services.ActorFrom(ctx); actor.ID != "" {
		f.actors = append(f.actors, actor.ID)
	}
}

func (f *fakeActivity) List(ctx context.Context, filters repositories.ActivityFilters) ([]*models.AdminActivity, int64, error) {
	return []*models.AdminActivity{}, 0, nil
}

type fakeExport struct{}

func (fakeExport) ExportUsers(ctx context.Context, filters repositories.UserFilters) ([]byte, error) {
	return []byte("users-xlsx"), nil
}

func (fakeExport) ExportMajors(ctx context.Context, filters repositories.MajorFilters) ([]byte, error) {
	return []byte("majors-xlsx"), nil
}

func (fakeExport) ExportConversations(ctx context.Context, filters repositories.ChatFilters) ([]byte, error) {
	return []byte("chats-xlsx"), nil
}

type fakeServiceManager struct {
	users         *fakeUsers
	majors        *fakeMajors
	notifications *fakeNotifications
	activity      *fakeActivity
}

func (m *fakeServiceManager) User() services.UserService                 { return m.users }
func (m *fakeServiceManager) Chat() services.ChatService                 { return fakeChats{} }
func (m *fakeServiceManager) Test() services.TestService                 { return fakeTests{} }
func (m *fakeServiceManager) Major() services.MajorService               { return m.majors }
func (m *fakeServiceManager) Notification() services.NotificationService { return m.notifications }
func (m *fakeServiceManager) Dashboard() services.DashboardService       { return fakeDashboard{} }
func (m *fakeServiceManager) Activity() services.ActivityService         { return m.activity }
func (m *fakeServiceManager) Export() services.ExportService             { return fakeExport{} }
func (m *fakeServiceManager) Initialize(ctx context.Context) error       { return nil }
func (m *fakeServiceManager) HealthCheck(ctx context.Context) error      { return nil }
func (m *fakeServiceManager) Shutdown(ctx context.Context) error         { return nil }

func page[T any](items []T, pageNo, limit int) *models.Page[T] {
	if limit <= 0 {
		limit = 10
	}
	if pageNo <= 0 {
		pageNo = 1
	}
	start := min((pageNo-1)*limit, len(items))
	end := min(start+limit, len(items))
	return &models.Page[T]{
		Items:      items[start:end],
		Pagination: models.Pagination{Total: len(items), Page: pageNo, Limit: limit},
	}
}

// ===== FIXTURE =====

const testCookie = "edubot_admin_session"

type fixture struct {
	router   *gin.Engine
	sm       *fakeServiceManager
	sessions *session.Manager
	registry *console.Registry
	redis    *miniredis.Miniredis
	cookie   *http.Cookie
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	auth := &stubAuth{users: map[string]models.User{
		"admin@edubot.vn":   {ID: "admin-1", Email: "admin@edubot.vn", FullName: "Admin", Role: models.RoleAdmin},
		"student@edubot.vn": {ID: "s-1", Email: "student@edubot.vn", Role: models.RoleStudent},
	}}
	sessions := session.NewManager(auth, session.NewRedisStore(rdb), time.Hour, discardSlog())

	sm := &fakeServiceManager{
		users:         &fakeUsers{},
		majors:        newFakeMajors(),
		notifications: &fakeNotifications{},
		activity:      &fakeActivity{},
	}
	registry := console.NewRegistry(console.ServicesFrom(sm), console.Options{
		PageSize: 10,
		Debounce: 10 * time.Millisecond,
		Logger:   discardSlog(),
	})
	t.Cleanup(registry.CloseAll)

	logger := discardLogger()
	gate := NewSessionGate(sessions, registry, config.SessionConfig{CookieName: testCookie, TTL: time.Hour}, logger)

	router := gin.New()
	hm := NewHandlerManager(sm, sessions, registry, gate, validator.New(), logger, cache.NewCacheManager(rdb))
	hm.SetupRoutes(router)

	return &fixture{router: router, sm: sm, sessions: sessions, registry: registry, redis: mr}
}

// login signs the admin in and returns the session cookie
func (f *fixture) login(t *testing.T) *http.Cookie {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/auth/login", `{"email":"admin@edubot.vn","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func (f *fixture) do(t *testing.T, method, path, body string, cookie *http.Cookie, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fakeUsers) failList(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listErr = err
}
