package handler

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (env *testEnv) createTicket(t *testing.T, project int64, title string, extra map[string]any) map[string]any {
	t.Helper()
	body := map[string]any{"title": title, "project": project}
	for k, v := range extra {
		body[k] = v
	}
	w := env.do(t, http.MethodPost, "/api/tickets", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]any
	decode(t, w, &created)
	return created
}

func TestTicketIDsSequential(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")

	for i := 1; i <= 10; i++ {
		created := env.createTicket(t, project, fmt.Sprintf("t%d", i), nil)
		assert.Equal(t, fmt.Sprintf("WEB-%d", i), created["ticketId"])
	}
}

func TestTicketIDsUniquePerProject(t *testing.T) {
	env := newTestEnv(t)
	web := env.createProject(t, "Website", "WEB")
	app := env.createProject(t, "App", "APP")

	first := env.createTicket(t, web, "a", nil)
	second := env.createTicket(t, app, "b", nil)
	assert.Equal(t, "WEB-1", first["ticketId"])
	assert.Equal(t, "APP-1", second["ticketId"])
}

func TestTicketIDsUniqueUnderConcurrentCreation(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")

	const n = 50
	results := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created := env.createTicket(t, project, fmt.Sprintf("t%d", i), nil)
			results <- created["ticketId"].(string)
		}(i)
	}
	wg.Wait()
	close(results)

	seen := map[string]bool{}
	for id := range results {
		assert.False(t, seen[id], "duplicate ticket id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestTicketCreateDefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")

	created := env.createTicket(t, project, "defaults", nil)
	assert.Equal(t, "TODO", created["status"])
	assert.Equal(t, "NO_PRIORITY", created["priority"])
	assert.Equal(t, []any{}, created["blockedBy"])
	assert.Equal(t, []any{}, created["labels"])
	assert.Equal(t, []any{}, created["subtasks"])

	w := env.do(t, http.MethodPost, "/api/tickets", map[string]any{
		"title":   "bad",
		"project": project,
		"status":  "BLOCKED",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/tickets", map[string]any{
		"title":   "missing project ref",
		"project": 999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPost, "/api/tickets", map[string]any{
		"title":   "bad date",
		"project": project,
		"dueDate": "not-a-date",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketDueDateFormats(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")

	dayOnly := env.createTicket(t, project, "day", map[string]any{"dueDate": "2026-09-15"})
	assert.NotNil(t, dayOnly["dueDate"])

	rfc := env.createTicket(t, project, "rfc", map[string]any{"dueDate": "2026-09-15T10:30:00Z"})
	assert.NotNil(t, rfc["dueDate"])
}

func TestStatusFilterIdempotent(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")
	env.createTicket(t, project, "a", map[string]any{"status": "TODO"})
	env.createTicket(t, project, "b", map[string]any{"status": "DONE"})
	env.createTicket(t, project, "c", map[string]any{"status": "DONE"})

	fetch := func() []any {
		w := env.do(t, http.MethodGet, "/api/tickets?where[status][equals]=DONE", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var page struct {
			Docs []any `json:"docs"`
		}
		decode(t, w, &page)
		return page.Docs
	}

	first := fetch()
	second := fetch()
	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
}

func TestTicketUpdateStatusPublishesMovedEvent(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")
	created := env.createTicket(t, project, "movable", nil)
	id := int64(created["id"].(float64))

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/tickets/%d", id), map[string]any{
		"status": "IN_PROGRESS",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.events.keys(), "ticket.moved")

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/tickets/%d", id), map[string]any{
		"title": "renamed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.events.keys(), "ticket.updated")
}

func TestTicketTeamUnassign(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")

	w := env.do(t, http.MethodPost, "/api/teams", map[string]any{"name": "Platform"})
	require.Equal(t, http.StatusCreated, w.Code)
	var team map[string]any
	decode(t, w, &team)
	teamID := int64(team["id"].(float64))

	created := env.createTicket(t, project, "assigned", map[string]any{"team": teamID})
	id := int64(created["id"].(float64))

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/tickets/%d", id), map[string]any{
		"team": nil,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]any
	decode(t, w, &updated)
	assert.Nil(t, updated["team"])
}

func TestTicketBlockedByReplace(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")
	blocker := env.createTicket(t, project, "blocker", nil)
	blocked := env.createTicket(t, project, "blocked", nil)

	blockerID := blocker["id"].(float64)
	id := int64(blocked["id"].(float64))

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/tickets/%d", id), map[string]any{
		"blockedBy": []any{blockerID},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated map[string]any
	decode(t, w, &updated)
	assert.Equal(t, []any{blockerID}, updated["blockedBy"])

	w = env.do(t, http.MethodPatch, fmt.Sprintf("/api/tickets/%d", id), map[string]any{
		"blockedBy": []any{},
	})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &updated)
	assert.Equal(t, []any{}, updated["blockedBy"])
}

func TestReorderPersistsWholeColumn(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")
	a := int64(env.createTicket(t, project, "a", nil)["id"].(float64))
	b := int64(env.createTicket(t, project, "b", nil)["id"].(float64))
	c := int64(env.createTicket(t, project, "c", nil)["id"].(float64))

	w := env.do(t, http.MethodPost, "/api/tickets/reorder", map[string]any{
		"status": "IN_PROGRESS",
		"ids":    []int64{c, a, b},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for pos, id := range []int64{c, a, b} {
		got := env.do(t, http.MethodGet, fmt.Sprintf("/api/tickets/%d", id), nil)
		require.Equal(t, http.StatusOK, got.Code)
		var ticket map[string]any
		decode(t, got, &ticket)
		assert.Equal(t, "IN_PROGRESS", ticket["status"])
		assert.Equal(t, float64(pos), ticket["sortOrder"])
	}
}

func TestReorderValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tickets/reorder", map[string]any{
		"status": "NOT_A_STATUS",
		"ids":    []int64{1},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/tickets/reorder", map[string]any{
		"status": "TODO",
		"ids":    []int64{999},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTicketDepthExpansion(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")
	created := env.createTicket(t, project, "expandable", nil)
	id := int64(created["id"].(float64))

	// depth=0 keeps the relation as an ID
	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/tickets/%d?depth=0", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var shallow map[string]any
	decode(t, w, &shallow)
	assert.Equal(t, float64(project), shallow["project"])

	// default depth embeds the project object
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/tickets/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deep map[string]any
	decode(t, w, &deep)
	embedded, ok := deep["project"].(map[string]any)
	require.True(t, ok, "project should be an object at depth 1, got %T", deep["project"])
	assert.Equal(t, "WEB", embedded["prefix"])
}

func TestBoardEndpointGroupsAndSummary(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")
	env.createTicket(t, project, "a", map[string]any{"status": "TODO"})
	env.createTicket(t, project, "b", map[string]any{"status": "IN_PROGRESS"})
	env.createTicket(t, project, "c", map[string]any{"status": "DONE"})
	env.createTicket(t, project, "d", map[string]any{"status": "DONE"})

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/board?projectId=%d", project), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var board struct {
		Todo       []any `json:"todo"`
		InProgress []any `json:"in_progress"`
		Done       []any `json:"done"`
		Summary    struct {
			Total      int `json:"total"`
			Todo       int `json:"todo"`
			InProgress int `json:"inProgress"`
			Done       int `json:"done"`
		} `json:"summary"`
	}
	decode(t, w, &board)

	assert.Equal(t, 4, board.Summary.Total)
	assert.Equal(t, len(board.Todo), board.Summary.Todo)
	assert.Equal(t, len(board.InProgress), board.Summary.InProgress)
	assert.Equal(t, len(board.Done), board.Summary.Done)
	assert.Equal(t, board.Summary.Total, board.Summary.Todo+board.Summary.InProgress+board.Summary.Done)
}

func TestTicketGraphEndpoint(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")
	blocker := env.createTicket(t, project, "blocker", nil)
	blocked := env.createTicket(t, project, "blocked", map[string]any{
		"blockedBy": []any{blocker["id"]},
	})
	id := int64(blocked["id"].(float64))

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/tickets/%d/graph", id), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var graph struct {
		Blockers []map[string]any `json:"blockers"`
		Ticket   map[string]any   `json:"ticket"`
		Blocked  []map[string]any `json:"blocked"`
	}
	decode(t, w, &graph)
	require.Len(t, graph.Blockers, 1)
	assert.Equal(t, blocker["id"], graph.Blockers[0]["id"])
	assert.Empty(t, graph.Blocked)
}

func TestTicketDeletePublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	project := env.createProject(t, "Website", "WEB")
	created := env.createTicket(t, project, "doomed", nil)
	id := int64(created["id"].(float64))

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/tickets/%d", id), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.events.keys(), "ticket.deleted")
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, fmt.Sprintf("/api/tickets/%d", id), nil).Code)
}
