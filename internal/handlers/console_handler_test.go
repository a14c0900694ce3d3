package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/client"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/listing"
	"github.com/duchuy188/SWD392-SU25-AdminDashboard-sub000/internal/models"
)

type listView struct {
	Section string `json:"section"`
	State   struct {
		Items      []json.RawMessage `json:"items"`
		Page       int               `json:"page"`
		TotalPages int               `json:"totalPages"`
		TotalItems int               `json:"totalItems"`
	} `json:"state"`
	Controls listing.Controls `json:"controls"`
}

func decodeView(t *testing.T, body []byte) listView {
	t.Helper()
	var v listView
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestConsole_ShellAndSection(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	rec := f.do(t, http.MethodGet, "/console", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active":"dashboard"`)
	assert.Contains(t, rec.Body.String(), `"href":"/console/majors"`)
	assert.Contains(t, rec.Body.String(), `"email":"admin@edubot.vn"`)

	rec = f.do(t, http.MethodPut, "/console/section", `{"section":"users"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active":"users"`)

	rec = f.do(t, http.MethodPut, "/console/section", `{"section":"grades"}`, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsole_FilterAndPageUsers(t *testing.T) {
	f := newFixture(t)
	seedUsers(f, 18, 5)
	cookie := f.login(t)

	rec := f.do(t, http.MethodGet, "/console/lists/users", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec.Body.Bytes())
	assert.Equal(t, "users", view.Section)
	assert.Len(t, view.State.Items, 10)
	assert.Equal(t, 3, view.State.TotalPages)

	rec = f.do(t, http.MethodPatch, "/console/lists/users/filters", `{"role":"admin"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec.Body.Bytes())
	assert.Equal(t, 1, view.State.Page)
	assert.Equal(t, 2, view.State.TotalPages)

	rec = f.do(t, http.MethodPut, "/console/lists/users/page", `{"page":2}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decodeView(t, rec.Body.Bytes())
	assert.Len(t, view.State.Items, 8)
	assert.False(t, view.Controls.HasNext)
	assert.True(t, view.Controls.HasPrev)
	assert.Equal(t, models.RoleAdmin, f.sm.users.lastQuery.Role)

	rec = f.do(t, http.MethodPost, "/console/lists/users/next", "", cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/console/lists/users/items/a-12", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/users/a-12/role")
}

func TestConsole_RejectedListRequests(t *testing.T) {
	f := newFixture(t)
	cookie := f.login(t)

	rec := f.do(t, http.MethodPatch, "/console/lists/users/filters", `[1,2]`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/console/lists/dashboard", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/console/lists/grades", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/console/lists/users/items/a-1", "", cookie)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func draftOp(t *testing.T, f *fixture, id, body string) {
	t.Helper()
	rec := f.do(t, http.MethodPatch, "/console/drafts/"+id, body, f.cookie)
	require.Equal(t, http.StatusOK, rec.Code, body+" -> "+rec.Body.String())
}

func TestConsole_DraftLifecycle(t *testing.T) {
	f := newFixture(t)
	f.cookie = f.login(t)

	rec := f.do(t, http.MethodPost, "/console/drafts", "", f.cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var opened struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opened))
	require.NotEmpty(t, opened.ID)

	rec = f.do(t, http.MethodPost, "/console/drafts/"+opened.ID+"/submit", "", f.cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fieldErrors"`)
	assert.Empty(t, f.sm.majors.majors)

	for _, op := range []string{
		`{"op":"set","field":"name","value":"Software Engineering"}`,
		`{"op":"set","field":"code","value":"SE"}`,
		`{"op":"set","field":"department","value":"Computing"}`,
		`{"op":"set","field":"totalCredits","value":"145"}`,
		`{"op":"set","field":"admissionCriteria","value":"High school diploma"}`,
		`{"op":"set","field":"tuition.firstSem","value":"28000000"}`,
		`{"op":"set","field":"tuition.midSem","value":"30000000"}`,
		`{"op":"set","field":"tuition.lastSem","value":"32000000"}`,
		`{"op":"append_item","field":"availableAt"}`,
		`{"op":"set_item","field":"availableAt","index":0,"value":"Ha Noi"}`,
		`{"op":"append_phase_item","phase":"basic","list":"courses"}`,
		`{"op":"set_phase_item","phase":"basic","list":"courses","index":0,"value":"PRF192"}`,
		`{"op":"append_prospect"}`,
		`{"op":"set_prospect","index":0,"value":{"title":"Backend developer","description":"APIs"}}`,
	} {
		draftOp(t, f, opened.ID, op)
	}

	rec = f.do(t, http.MethodPatch, "/console/drafts/"+opened.ID, `{"op":"explode"}`, f.cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodPatch, "/console/drafts/"+opened.ID, `{"op":"set_item","field":"availableAt","index":5,"value":"Hue"}`, f.cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodPut, "/console/drafts/"+opened.ID+"/tab", `{"tab":"career"}`, f.cookie)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/console/drafts/"+opened.ID+"/submit", "", f.cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	saved := f.sm.majors.majors["m-1"]
	require.NotNil(t, saved)
	assert.Equal(t, "Software Engineering", saved.Name)
	assert.Equal(t, 145, saved.TotalCredits)
	assert.Equal(t, []string{"PRF192"}, saved.ProgramStructure.Basic.Courses)
	assert.Equal(t, "Backend developer", saved.CareerProspects[0].Title)

	rec = f.do(t, http.MethodGet, "/console/drafts/"+opened.ID, "", f.cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsole_EditAndDeleteMajor(t *testing.T) {
	f := newFixture(t)
	f.cookie = f.login(t)
	major := validMajor()
	_, err := f.sm.majors.CreateMajor(context.Background(), &major, nil)
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/console/lists/majors/items/m-1/edit", "", f.cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var opened struct {
		ID    string `json:"id"`
		State struct {
			Major models.Major `json:"major"`
		} `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opened))
	assert.Equal(t, "SE", opened.State.Major.Code)

	draftOp(t, f, opened.ID, `{"op":"set","field":"code","value":"SE-K19"}`)
	rec = f.do(t, http.MethodPost, "/console/drafts/"+opened.ID+"/submit", "", f.cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "SE-K19", f.sm.majors.majors["m-1"].Code)

	rec = f.do(t, http.MethodDelete, "/console/lists/majors/items/m-1", "", f.cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"m-1"}, f.sm.majors.deleted)

	rec = f.do(t, http.MethodPost, "/console/lists/majors/items/m-1/edit", "", f.cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsole_DiscardDraft(t *testing.T) {
	f := newFixture(t)
	f.cookie = f.login(t)

	rec := f.do(t, http.MethodPost, "/console/drafts", "", f.cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	var opened struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opened))

	rec = f.do(t, http.MethodDelete, "/console/drafts/"+opened.ID, "", f.cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodDelete, "/console/drafts/"+opened.ID, "", f.cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConsole_NotificationForm(t *testing.T) {
	f := newFixture(t)
	f.cookie = f.login(t)

	rec := f.do(t, http.MethodGet, "/console/notifications", "", f.cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPatch, "/console/notifications", `{"mode":"multiple","selectUser":"s-1"}`, f.cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/console/notifications",
		`{"mode":"single","selectUser":"s-1","title":"Hi","body":"Welcome to EduBot","importance":"high"}`, f.cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodPost, "/console/notifications/submit", "", f.cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	require.Len(t, f.sm.notifications.sent, 1)
	sent := f.sm.notifications.sent[0]
	assert.Equal(t, []string{"s-1"}, sent.Recipients())
	assert.Equal(t, "Hi", sent.Title)
	assert.Equal(t, models.ImportanceHigh, sent.Importance)

	rec = f.do(t, http.MethodPost, "/console/notifications/submit", "", f.cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, f.sm.notifications.sent, 1)
}

func TestConsole_RetryRecipientDirectory(t *testing.T) {
	f := newFixture(t)
	f.cookie = f.login(t)
	f.sm.users.failList(&client.APIError{StatusCode: http.StatusServiceUnavailable, Message: "Users unavailable"})

	rec := f.do(t, http.MethodGet, "/console/notifications", "", f.cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	form := f.registry.Get(f.cookie.Value).Notifications()
	require.Eventually(t, func() bool { return form.Snapshot().Directory.Error != "" }, time.Second, 5*time.Millisecond)

	f.sm.users.failList(nil)
	rec = f.do(t, http.MethodPost, "/console/notifications/directory/retry", "", f.cookie)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool { return form.Snapshot().Directory.Loaded }, time.Second, 5*time.Millisecond)
	assert.Empty(t, form.Snapshot().Directory.Error)
}
