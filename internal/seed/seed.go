package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"localpm/internal/model"
	"localpm/internal/repository"
)

const wipeFetchLimit = 1000

// Store interfaces cover the slice of the repository layer the seed needs.

type ProjectStore interface {
	Insert(ctx context.Context, p *model.Project) error
	List(ctx context.Context, params repository.ListParams) ([]model.Project, int64, error)
	Delete(ctx context.Context, id int64) error
}

type TeamStore interface {
	Insert(ctx context.Context, t *model.Team) error
	List(ctx context.Context, params repository.ListParams) ([]model.Team, int64, error)
	Delete(ctx context.Context, id int64) error
}

type TicketStore interface {
	Insert(ctx context.Context, t *model.Ticket) error
	List(ctx context.Context, params repository.ListParams) ([]model.Ticket, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*model.Ticket, error)
	Delete(ctx context.Context, id int64) error
}

type ticketFixture struct {
	title         string
	status        string
	priority      string
	projectPrefix string
	teamName      string
	labels        []model.Label
	blockedBy     []string // titles, linked in a second pass
}

var seedProjects = []model.Project{
	{Name: "Website Redesign", Prefix: "WEB", Color: "#6366f1", Icon: "rocket", Status: model.ProjectActive},
	{Name: "Mobile App v2", Prefix: "APP", Color: "#8b5cf6", Icon: "zap", Status: model.ProjectActive},
	{Name: "Backend API", Prefix: "API", Color: "#22c55e", Icon: "database", Status: model.ProjectActive},
	{Name: "Marketing Campaign 2024", Prefix: "MKT", Color: "#eab308", Icon: "flag", Status: model.ProjectActive},
	{Name: "Cloud Infrastructure", Prefix: "OPS", Color: "#06b6d4", Icon: "layers", Status: model.ProjectActive},
	{Name: "Customer Support Portal", Prefix: "CSP", Color: "#ec4899", Icon: "briefcase", Status: model.ProjectActive},
}

var seedTeams = []model.Team{
	{Name: "Frontend Engineering", Description: "Web and mobile client development", Color: "#3b82f6"},
	{Name: "Backend Engineering", Description: "API and Database management", Color: "#10b981"},
	{Name: "QA & Testing", Description: "Quality assurance and automated testing", Color: "#f97316"},
	{Name: "Design", Description: "UI/UX and Brand design", Color: "#ec4899"},
	{Name: "Product Management", Description: "Product strategy and roadmap", Color: "#8b5cf6"},
	{Name: "Marketing", Description: "Growth and branding", Color: "#f59e0b"},
	{Name: "DevOps", Description: "Infrastructure and CI/CD", Color: "#06b6d4"},
	{Name: "Customer Success", Description: "Support and user happiness", Color: "#14b8a6"},
}

var seedTickets = []ticketFixture{
	{
		title: "Finalize new brand guidelines", status: model.StatusDone, priority: model.PriorityHigh,
		projectPrefix: "WEB", teamName: "Design",
		labels: []model.Label{{Name: "design", Color: "#ec4899"}},
	},
	{
		title: "Design homepage wireframes", status: model.StatusDone, priority: model.PriorityHigh,
		projectPrefix: "WEB", teamName: "Design",
		labels:    []model.Label{{Name: "design", Color: "#ec4899"}},
		blockedBy: []string{"Finalize new brand guidelines"},
	},
	{
		title: "Implement responsive navigation", status: model.StatusInProgress, priority: model.PriorityMedium,
		projectPrefix: "WEB", teamName: "Frontend Engineering",
		labels:    []model.Label{{Name: "frontend", Color: "#3b82f6"}},
		blockedBy: []string{"Design homepage wireframes"},
	},
	{
		title: "Hero section implementation", status: model.StatusTodo, priority: model.PriorityMedium,
		projectPrefix: "WEB", teamName: "Frontend Engineering",
		labels:    []model.Label{{Name: "frontend", Color: "#3b82f6"}},
		blockedBy: []string{"Design homepage wireframes"},
	},
	{
		title: "Define API contract for Auth", status: model.StatusDone, priority: model.PriorityUrgent,
		projectPrefix: "APP", teamName: "Product Management",
		labels: []model.Label{{Name: "planning", Color: "#64748b"}},
	},
	{
		title: "Audit current React Native performance", status: model.StatusDone, priority: model.PriorityMedium,
		projectPrefix: "APP", teamName: "QA & Testing",
		labels: []model.Label{{Name: "qa", Color: "#f97316"}},
	},
	{
		title: "Implement OAuth logic", status: model.StatusInProgress, priority: model.PriorityHigh,
		projectPrefix: "APP", teamName: "Backend Engineering",
		labels:    []model.Label{{Name: "auth", Color: "#ef4444"}, {Name: "api", Color: "#10b981"}},
		blockedBy: []string{"Define API contract for Auth"},
	},
	{
		title: "Biometric authentication integration", status: model.StatusTodo, priority: model.PriorityMedium,
		projectPrefix: "APP", teamName: "Frontend Engineering",
		labels:    []model.Label{{Name: "mobile", Color: "#8b5cf6"}},
		blockedBy: []string{"Implement OAuth logic"},
	},
	{
		title: "Identify target audience for Q1", status: model.StatusDone, priority: model.PriorityHigh,
		projectPrefix: "MKT", teamName: "Marketing",
		labels: []model.Label{{Name: "strategy", Color: "#f59e0b"}},
	},
	{
		title: "Create social media assets", status: model.StatusInProgress, priority: model.PriorityMedium,
		projectPrefix: "MKT", teamName: "Design",
		labels:    []model.Label{{Name: "design", Color: "#ec4899"}},
		blockedBy: []string{"Identify target audience for Q1"},
	},
	{
		title: "Setup ad campaigns on LinkedIn", status: model.StatusTodo, priority: model.PriorityHigh,
		projectPrefix: "MKT", teamName: "Marketing",
		labels:    []model.Label{{Name: "ads", Color: "#3b82f6"}},
		blockedBy: []string{"Create social media assets"},
	},
	{
		title: "Migrate DB to new cluster", status: model.StatusInProgress, priority: model.PriorityUrgent,
		projectPrefix: "OPS", teamName: "DevOps",
		labels: []model.Label{{Name: "infrastructure", Color: "#06b6d4"}},
	},
	{
		title: "Optimize Docker build times", status: model.StatusTodo, priority: model.PriorityLow,
		projectPrefix: "OPS", teamName: "DevOps",
		labels: []model.Label{{Name: "ci/cd", Color: "#8b5cf6"}},
	},
	{
		title: "Implement auto-scaling for API", status: model.StatusTodo, priority: model.PriorityMedium,
		projectPrefix: "OPS", teamName: "DevOps",
		labels:    []model.Label{{Name: "reliability", Color: "#10b981"}},
		blockedBy: []string{"Migrate DB to new cluster"},
	},
}

// Run wipes the collections and loads the demo data set. Ticket dependencies
// reference each other by title, so they are linked in a second pass once
// every ticket has an ID.
func Run(ctx context.Context, projects ProjectStore, teams TeamStore, tickets TicketStore, log *zap.Logger) error {
	if err := wipe(ctx, projects, teams, tickets); err != nil {
		return err
	}

	teamIDs := make(map[string]int64, len(seedTeams))
	for _, fixture := range seedTeams {
		team := fixture
		if err := teams.Insert(ctx, &team); err != nil {
			return fmt.Errorf("insert team %q: %w", team.Name, err)
		}
		teamIDs[team.Name] = team.ID
	}

	projectIDs := make(map[string]int64, len(seedProjects))
	for _, fixture := range seedProjects {
		project := fixture
		if err := projects.Insert(ctx, &project); err != nil {
			return fmt.Errorf("insert project %q: %w", project.Prefix, err)
		}
		projectIDs[project.Prefix] = project.ID
	}

	ticketIDs := make(map[string]int64, len(seedTickets))
	for _, fixture := range seedTickets {
		projectID, ok := projectIDs[fixture.projectPrefix]
		if !ok {
			log.Warn("unknown project prefix, skipping ticket",
				zap.String("prefix", fixture.projectPrefix),
				zap.String("title", fixture.title))
			continue
		}
		ticket := model.Ticket{
			Title:     fixture.title,
			Status:    fixture.status,
			Priority:  fixture.priority,
			ProjectID: projectID,
			BlockedBy: []int64{},
			Labels:    fixture.labels,
			Subtasks:  []model.Subtask{},
		}
		if fixture.teamName != "" {
			if teamID, ok := teamIDs[fixture.teamName]; ok {
				ticket.TeamID = &teamID
			}
		}
		if err := tickets.Insert(ctx, &ticket); err != nil {
			return fmt.Errorf("insert ticket %q: %w", fixture.title, err)
		}
		ticketIDs[fixture.title] = ticket.ID
	}

	for _, fixture := range seedTickets {
		if len(fixture.blockedBy) == 0 {
			continue
		}
		id, ok := ticketIDs[fixture.title]
		if !ok {
			continue
		}
		var blockers []int64
		for _, title := range fixture.blockedBy {
			if blockerID, ok := ticketIDs[title]; ok {
				blockers = append(blockers, blockerID)
			}
		}
		if len(blockers) == 0 {
			continue
		}
		if _, err := tickets.Update(ctx, id, map[string]any{"blocked_by": blockers}); err != nil {
			return fmt.Errorf("link dependencies for %q: %w", fixture.title, err)
		}
	}

	log.Info("seed completed",
		zap.Int("teams", len(teamIDs)),
		zap.Int("projects", len(projectIDs)),
		zap.Int("tickets", len(ticketIDs)))
	return nil
}

func wipe(ctx context.Context, projects ProjectStore, teams TeamStore, tickets TicketStore) error {
	existingTickets, _, err := tickets.List(ctx, repository.ListParams{Limit: wipeFetchLimit})
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	for _, t := range existingTickets {
		if err := tickets.Delete(ctx, t.ID); err != nil {
			return fmt.Errorf("delete ticket %d: %w", t.ID, err)
		}
	}

	existingProjects, _, err := projects.List(ctx, repository.ListParams{Limit: wipeFetchLimit})
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}
	for _, p := range existingProjects {
		if err := projects.Delete(ctx, p.ID); err != nil {
			return fmt.Errorf("delete project %d: %w", p.ID, err)
		}
	}

	existingTeams, _, err := teams.List(ctx, repository.ListParams{Limit: wipeFetchLimit})
	if err != nil {
		return fmt.Errorf("list teams: %w", err)
	}
	for _, t := range existingTeams {
		if err := teams.Delete(ctx, t.ID); err != nil {
			return fmt.Errorf("delete team %d: %w", t.ID, err)
		}
	}
	return nil
}
