package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api/"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestDo_SendsTokenAndDecodes(t *testing.T) {
	var gotAuth, gotQuery, gotPath string
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"ok","value":7}`))
	})

	ctx := WithToken(context.Background(), "tok-123")
	var out struct {
		Value int `json:"value"`
	}
	err := c.Do(ctx, http.MethodPost, "/admin/users", url.Values{"page": {"2"}}, map[string]string{"fullName": "An"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "/api/admin/users", gotPath)
	assert.Equal(t, "page=2", gotQuery)
	assert.Equal(t, "An", gotBody["fullName"])
	assert.Equal(t, 7, out.Value)
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, c.Do(context.Background(), http.MethodDelete, "/majors/1", nil, nil, nil))
	assert.Empty(t, gotAuth)
}

func TestDo_APIErrorCarriesBackendMessage(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"message field", `{"message":"Email already exists"}`, "Email already exists"},
		{"error field", `{"error":"Invalid token"}`, "Invalid token"},
		{"no body", ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				_, _ = w.Write([]byte(tt.body))
			})

			err := c.Do(context.Background(), http.MethodGet, "/x", nil, nil, nil)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, http.StatusConflict, StatusCode(err))
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()
	c := New(Config{BaseURL: srv.URL}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := c.Do(context.Background(), http.MethodGet, "/tests", nil, nil, nil)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, "Could not load tests", UserMessage(err, "Could not load tests"))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil, "x"))
	assert.Equal(t, "Major code taken", UserMessage(&APIError{StatusCode: 400, Message: "Major code taken"}, "fallback"))
	assert.Equal(t, "fallback", UserMessage(&APIError{StatusCode: 500}, "fallback"))
	assert.Equal(t, genericMessage, UserMessage(errors.New("boom"), ""))
}

func TestDoMultipart_OrderedParts(t *testing.T) {
	type gotPart struct {
		name, filename, value string
	}
	var parts []gotPart
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if !assert.NoError(t, err) {
			return
		}
		for {
			p, err := mr.NextPart()
			if err != nil {
				break
			}
			data, _ := io.ReadAll(p)
			parts = append(parts, gotPart{p.FormName(), p.FileName(), string(data)})
		}
		_, _ = w.Write([]byte(`{}`))
	})

	form := NewMultipartForm()
	form.AddText("name", "Software Engineering")
	require.NoError(t, form.AddJSON("availableAt", []string{"Ha Noi"}))
	form.AddFile("image", "cover.png", "image/png", []byte{0x89, 0x50})

	require.NoError(t, c.DoMultipart(context.Background(), http.MethodPost, "/majors", form, nil))

	require.Len(t, parts, 3)
	assert.Equal(t, gotPart{"name", "", "Software Engineering"}, parts[0])
	assert.Equal(t, gotPart{"availableAt", "", `["Ha Noi"]`}, parts[1])
	assert.Equal(t, "image", parts[2].name)
	assert.Equal(t, "cover.png", parts[2].filename)
}
