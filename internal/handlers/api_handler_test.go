package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/repositories/edubot"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/services"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/validator"
)

func seedUsers(f *fixture, admins, students int) {
	for i := 0; i < admins; i++ {
		f.sm.users.users = append(f.sm.users.users, &models.User{ID: fmt.Sprintf("a-%d", i), Role: models.RoleAdmin})
	}
	for i := 0; i < students; i++ {
		f.sm.users.users = append(f.sm.users.users, &models.User{ID: fmt.Sprintf("s-%d", i), Role: models.RoleStudent})
	}
}

func TestListUsers_ForwardsQuery(t *testing.T) {
	f := newFixture(t)
	seedUsers(f, 18, 5)
	cookie := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/v1/users?page=2&limit=10&role=admin&search=an&sortBy=email&sortOrder=asc", "", cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	var page models.Page[*models.User]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Items, 8)
	assert.Equal(t, 18, page.Pagination.Total)
	assert.Equal(t, repositories.UserFilters{
		Page: 2, Limit: 10, Role: models.RoleAdmin, Search: "an", SortBy: "email", SortOrder: "asc",
	}, f.sm.users.lastQuery)
}

func TestCreateUser(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	rec := f.do(t, http.MethodPost, "/api/v1/users",
		`{"fullName":"Nguyen Van A","email":"a@edubot.vn","password":"secret1","role":"student"}`, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"_id":"new-user"`)

	f.sm.users.createErr = fmt.Errorf("%w: %w", services.ErrValidationFailed,
		validator.ValidationErrors{{Field: "role", Message: "role must be one of [student admin]"}})
	rec = f.do(t, http.MethodPost, "/api/v1/users",
		`{"fullName":"Nguyen Van B","email":"b@edubot.vn","password":"secret1","role":"guest"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"role"`)
}

func TestUpdateUser_NotFound(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	rec := f.do(t, http.MethodPut, "/api/v1/users/missing", `{"fullName":"X"}`, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportUsers_SendsWorkbook(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/v1/users/export", "", cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `attachment; filename="users-`)
	assert.Equal(t, "users-xlsx", rec.Body.String())
}

func validMajor() models.Major {
	m := models.NewMajor()
	m.Name = "Software Engineering"
	m.Code = "SE"
	m.Department = "Computing"
	m.TotalCredits = 145
	m.AdmissionCriteria = "High school diploma"
	m.AvailableAt = []string{"Ha Noi", "Can Tho"}
	m.Tuition = models.Tuition{FirstSem: "28000000", MidSem: "30000000", LastSem: "32000000"}
	m.CareerProspects = []models.CareerProspect{{Title: "Backend developer"}}
	return m
}

func TestCreateMajor_Multipart(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	major := validMajor()
	form, err := edubot.EncodeMajor(&major, &repositories.ImageUpload{
		Filename: "se.png", ContentType: "image/png", Data: []byte("png-bytes"),
	})
	require.NoError(t, err)
	body, contentType, err := form.Encode()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/majors", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := f.sm.majors.majors["m-1"]
	require.NotNil(t, saved)
	assert.Equal(t, "SE", saved.Code)
	assert.Equal(t, 145, saved.TotalCredits)
	assert.Equal(t, []string{"Ha Noi", "Can Tho"}, saved.AvailableAt)
	assert.Equal(t, "Backend developer", saved.CareerProspects[0].Title)

	image := f.sm.majors.images["m-1"]
	require.NotNil(t, image)
	assert.Equal(t, "se.png", image.Filename)
	assert.Equal(t, []byte("png-bytes"), image.Data)
}

func TestCreateMajor_RejectsMalformedParts(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	form := client.NewMultipartForm()
	form.AddText("name", "Software Engineering")
	form.AddText("totalCredits", "many")
	body, contentType, err := form.Encode()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/majors", bytes.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "totalCredits must be a number")
	assert.Empty(t, f.sm.majors.majors)
}

func TestMajor_JSONUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)
	major := validMajor()
	_, err := f.sm.majors.CreateMajor(context.Background(), &major, nil)
	require.NoError(t, err)

	major.Name = "Software Engineering (K19)"
	payload, err := json.Marshal(major)
	require.NoError(t, err)

	rec := f.do(t, http.MethodPut, "/api/v1/majors/m-1", string(payload), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Software Engineering (K19)", f.sm.majors.majors["m-1"].Name)

	rec = f.do(t, http.MethodDelete, "/api/v1/majors/m-1", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"m-1"}, f.sm.majors.deleted)

	rec = f.do(t, http.MethodDelete, "/api/v1/majors/m-1", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotifications_EndpointsPinMode(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	body := `{"userId":"s-1","userIds":["s-1","s-2"],"title":"Hi","body":"Welcome","data":{"type":"system"},"importance":"high"}`
	for _, path := range []string{"send-to-user", "send-to-many", "send-to-all"} {
		rec := f.do(t, http.MethodPost, "/api/v1/notifications/"+path, body, cookie)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}

	sent := f.sm.notifications.sent
	require.Len(t, sent, 3)
	assert.Equal(t, []string{"s-1"}, sent[0].Recipients())
	assert.Equal(t, []string{"s-1", "s-2"}, sent[1].Recipients())
	assert.Nil(t, sent[2].Recipients())
}

func TestDashboardAndContent(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	rec := f.do(t, http.MethodGet, "/api/v1/dashboard/overview", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalUsers":3`)

	rec = f.do(t, http.MethodGet, "/api/v1/dashboard/activity-summary?days=3", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"days":3`)
	assert.Contains(t, rec.Body.String(), `"admin.login":1`)

	rec = f.do(t, http.MethodGet, "/api/v1/tests/t-1", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Holland"`)

	rec = f.do(t, http.MethodGet, "/api/v1/tests/t-9", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/chats?startDate=yesterday", "", cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}
