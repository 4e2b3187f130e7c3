package handler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"localpm/internal/model"
	"localpm/internal/repository"
)

// In-memory stores backing the handler tests. They mirror the repository
// semantics, including the atomic per-project ticket counter.

type fakeProjectStore struct {
	mu       sync.Mutex
	nextID   int64
	projects map[int64]*model.Project
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: map[int64]*model.Project{}}
}

func (s *fakeProjectStore) Insert(_ context.Context, p *model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.projects {
		if existing.Prefix == p.Prefix {
			return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	s.nextID++
	p.ID = s.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	clone := *p
	s.projects[p.ID] = &clone
	return nil
}

func (s *fakeProjectStore) FindByID(_ context.Context, id int64) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *fakeProjectStore) FindByIDs(_ context.Context, ids []int64) (map[int64]*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int64]*model.Project{}
	for _, id := range ids {
		if p, ok := s.projects[id]; ok {
			clone := *p
			out[id] = &clone
		}
	}
	return out, nil
}

func (s *fakeProjectStore) List(_ context.Context, params repository.ListParams) ([]model.Project, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []model.Project
	for _, p := range s.projects {
		if status, ok := params.Filters["status"].(string); ok && p.Status != status {
			continue
		}
		if prefix, ok := params.Filters["prefix"].(string); ok && p.Prefix != prefix {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, params.Limit, params.Offset), int64(len(all)), nil
}

func (s *fakeProjectStore) Update(_ context.Context, id int64, fields map[string]any) (*model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			p.Name = value.(string)
		case "description":
			p.Description = value.(string)
		case "icon":
			p.Icon = value.(string)
		case "color":
			p.Color = value.(string)
		case "status":
			p.Status = value.(string)
		}
	}
	p.UpdatedAt = time.Now()
	clone := *p
	return &clone, nil
}

func (s *fakeProjectStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

type fakeTeamStore struct {
	mu     sync.Mutex
	nextID int64
	teams  map[int64]*model.Team
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{teams: map[int64]*model.Team{}}
}

func (s *fakeTeamStore) Insert(_ context.Context, t *model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	clone := *t
	s.teams[t.ID] = &clone
	return nil
}

func (s *fakeTeamStore) FindByID(_ context.Context, id int64) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *fakeTeamStore) FindByIDs(_ context.Context, ids []int64) (map[int64]*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := map[int64]*model.Team{}
	for _, id := range ids {
		if t, ok := s.teams[id]; ok {
			clone := *t
			out[id] = &clone
		}
	}
	return out, nil
}

func (s *fakeTeamStore) List(_ context.Context, params repository.ListParams) ([]model.Team, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []model.Team
	for _, t := range s.teams {
		if name, ok := params.Filters["name"].(string); ok && t.Name != name {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, params.Limit, params.Offset), int64(len(all)), nil
}

func (s *fakeTeamStore) Update(_ context.Context, id int64, fields map[string]any) (*model.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "name":
			t.Name = value.(string)
		case "description":
			t.Description = value.(string)
		case "color":
			t.Color = value.(string)
		}
	}
	t.UpdatedAt = time.Now()
	clone := *t
	return &clone, nil
}

func (s *fakeTeamStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.teams, id)
	return nil
}

type fakeTicketStore struct {
	mu       sync.Mutex
	nextID   int64
	tickets  map[int64]*model.Ticket
	projects *fakeProjectStore
}

func newFakeTicketStore(projects *fakeProjectStore) *fakeTicketStore {
	return &fakeTicketStore{tickets: map[int64]*model.Ticket{}, projects: projects}
}

func (s *fakeTicketStore) Insert(_ context.Context, t *model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects.mu.Lock()
	p, ok := s.projects.projects[t.ProjectID]
	if !ok {
		s.projects.mu.Unlock()
		return fmt.Errorf("project %d: %w", t.ProjectID, repository.ErrNotFound)
	}
	p.TicketCounter++
	t.TicketID = fmt.Sprintf("%s-%d", p.Prefix, p.TicketCounter)
	s.projects.mu.Unlock()

	s.nextID++
	t.ID = s.nextID
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	t.Project = t.ProjectID
	if t.TeamID != nil {
		t.Team = *t.TeamID
	}
	clone := *t
	s.tickets[t.ID] = &clone
	return nil
}

func (s *fakeTicketStore) FindByID(_ context.Context, id int64) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (s *fakeTicketStore) List(_ context.Context, params repository.ListParams) ([]model.Ticket, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []model.Ticket
	for _, t := range s.tickets {
		if status, ok := params.Filters["status"].(string); ok && t.Status != status {
			continue
		}
		if priority, ok := params.Filters["priority"].(string); ok && t.Priority != priority {
			continue
		}
		if projectID, ok := params.Filters["project_id"].(int64); ok && t.ProjectID != projectID {
			continue
		}
		if teamID, ok := params.Filters["team_id"].(int64); ok && (t.TeamID == nil || *t.TeamID != teamID) {
			continue
		}
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, params.Limit, params.Offset), int64(len(all)), nil
}

func (s *fakeTicketStore) Update(_ context.Context, id int64, fields map[string]any) (*model.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			t.Title = value.(string)
		case "description":
			t.Description = value.(string)
		case "status":
			t.Status = value.(string)
		case "priority":
			t.Priority = value.(string)
		case "team_id":
			if value == nil {
				t.TeamID = nil
				t.Team = nil
			} else {
				teamID := value.(int64)
				t.TeamID = &teamID
				t.Team = teamID
			}
		case "sort_order":
			t.SortOrder = value.(int)
		case "due_date":
			if value == nil {
				t.DueDate = nil
			} else {
				t.DueDate = value.(*time.Time)
			}
		case "blocked_by":
			t.BlockedBy = value.([]int64)
		case "labels":
			t.Labels = value.([]model.Label)
		case "subtasks":
			t.Subtasks = value.([]model.Subtask)
		}
	}
	t.UpdatedAt = time.Now()
	clone := *t
	return &clone, nil
}

func (s *fakeTicketStore) Reorder(_ context.Context, status string, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for pos, id := range ids {
		t, ok := s.tickets[id]
		if !ok {
			return fmt.Errorf("ticket %d: %w", id, repository.ErrNotFound)
		}
		t.Status = status
		t.SortOrder = pos
	}
	return nil
}

func (s *fakeTicketStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.tickets, id)
	return nil
}

type fakeActivityStore struct {
	entries []model.ActivityEntry
}

func (s *fakeActivityStore) ListByEntity(_ context.Context, entityType string, entityID int64) ([]model.ActivityEntry, error) {
	var out []model.ActivityEntry
	for _, e := range s.entries {
		if e.EntityType == entityType && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	key     string
	payload any
}

func (p *recordingPublisher) Publish(routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: routingKey, payload: payload})
	return nil
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.key)
	}
	return out
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
