package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	router   *gin.Engine
	projects *fakeProjectStore
	teams    *fakeTeamStore
	tickets  *fakeTicketStore
	activity *fakeActivityStore
	events   *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		projects: newFakeProjectStore(),
		teams:    newFakeTeamStore(),
		activity: &fakeActivityStore{},
		events:   &recordingPublisher{},
	}
	env.tickets = newFakeTicketStore(env.projects)
	logger := zap.NewNop()

	env.router = gin.New()
	api := env.router.Group("/api")
	NewProjectHandler(env.projects, env.events, logger).Register(api.Group("/projects"))
	NewTeamHandler(env.teams, logger).Register(api.Group("/teams"))
	NewTicketHandler(env.tickets, env.projects, env.teams, env.activity, env.events, logger).Register(api.Group("/tickets"))
	NewBoardHandler(env.tickets, nil, logger).Register(api.Group("/board"))
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func (env *testEnv) createProject(t *testing.T, name, prefix string) int64 {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/projects", map[string]any{
		"name":   name,
		"prefix": prefix,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &created)
	return created.ID
}

func TestCreateProjectDefaults(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/projects", map[string]any{
		"name":   "Website",
		"prefix": "WEB",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created map[string]any
	decode(t, w, &created)
	assert.Equal(t, "folder", created["icon"])
	assert.Equal(t, "#6366f1", created["color"])
	assert.Equal(t, "ACTIVE", created["status"])
	assert.Equal(t, float64(0), created["ticketCounter"])
}

func TestCreateProjectRejectsBadPrefix(t *testing.T) {
	env := newTestEnv(t)

	for _, prefix := range []string{"A", "lowercase", "TOOLONGPF", "AB1"} {
		w := env.do(t, http.MethodPost, "/api/projects", map[string]any{
			"name":   "Bad",
			"prefix": prefix,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code, "prefix %q", prefix)
	}
}

func TestCreateProjectDuplicatePrefix(t *testing.T) {
	env := newTestEnv(t)
	env.createProject(t, "First", "WEB")

	w := env.do(t, http.MethodPost, "/api/projects", map[string]any{
		"name":   "Second",
		"prefix": "WEB",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestProjectListEnvelope(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 45; i++ {
		env.createProject(t, fmt.Sprintf("P%d", i), fmt.Sprintf("P%c%c", 'A'+i/26, 'A'+i%26))
	}

	w := env.do(t, http.MethodGet, "/api/projects?limit=20&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Docs        []map[string]any `json:"docs"`
		TotalDocs   int              `json:"totalDocs"`
		TotalPages  int              `json:"totalPages"`
		Page        int              `json:"page"`
		HasNextPage bool             `json:"hasNextPage"`
		HasPrevPage bool             `json:"hasPrevPage"`
		NextPage    *int             `json:"nextPage"`
		PrevPage    *int             `json:"prevPage"`
	}
	decode(t, w, &page)

	assert.Len(t, page.Docs, 20)
	assert.Equal(t, 45, page.TotalDocs)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPrevPage)
	require.NotNil(t, page.NextPage)
	require.NotNil(t, page.PrevPage)
	assert.Equal(t, 3, *page.NextPage)
	assert.Equal(t, 1, *page.PrevPage)
}

func TestProjectPrefixImmutable(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, "Website", "WEB")

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/projects/%d", id), map[string]any{
		"name":   "Renamed",
		"prefix": "NEW",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated map[string]any
	decode(t, w, &updated)
	assert.Equal(t, "Renamed", updated["name"])
	assert.Equal(t, "WEB", updated["prefix"])
}

func TestProjectNotFound(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/projects/99", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPatch, "/api/projects/99", map[string]any{"name": "x"}).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/projects/99", nil).Code)
}

func TestDeleteProjectPublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, "Website", "WEB")

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.events.keys(), "project.deleted")
}

func TestDeleteProjectLeavesTicketsOrphaned(t *testing.T) {
	env := newTestEnv(t)
	id := env.createProject(t, "Website", "WEB")

	w := env.do(t, http.MethodPost, "/api/tickets", map[string]any{
		"title":   "Orphan me",
		"project": id,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), nil).Code)

	// no cascade at the API layer: the ticket survives with a dangling ref
	list := env.do(t, http.MethodGet, fmt.Sprintf("/api/tickets?where[project][equals]=%d", id), nil)
	require.Equal(t, http.StatusOK, list.Code)
	var page struct {
		TotalDocs int `json:"totalDocs"`
	}
	decode(t, list, &page)
	assert.Equal(t, 1, page.TotalDocs)
}

func TestTeamCRUD(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/teams", map[string]any{"name": "Platform"})
	require.Equal(t, http.StatusCreated, w.Code)
	var team map[string]any
	decode(t, w, &team)
	assert.Equal(t, "#6366f1", team["color"])

	id := int64(team["id"].(float64))
	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/teams/%d", id), map[string]any{"name": "Infra"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/teams/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, fmt.Sprintf("/api/teams/%d", id), nil).Code)
}

func TestListRejectsUnknownFilterField(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/projects?where[bogus][equals]=1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
