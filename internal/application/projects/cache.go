// Package projects maintains per-team buckets of projects plus a derived
// issue-to-project assignment view kept consistent with the workspace's
// issue list.
package projects

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/flowcraft/backend/internal/domain/shared"
	"github.com/flowcraft/backend/internal/domain/tracker"
)

// Workspace is the slice of the coordinator the cache depends on. The
// issue remains the single source of truth for its project assignment;
// the cache only derives a view and delegates field changes back.
type Workspace interface {
	SelectedTeamID() string
	Issues() []tracker.Issue
	EditIssue(ctx context.Context, id string, patch tracker.IssuePatch) (tracker.Issue, error)
}

// bucket is one team's cached slice of project data.
type bucket struct {
	projects    []tracker.Project
	assignments map[string]string // issue id -> project id
}

// Cache holds one bucket per team. All methods are safe for concurrent
// use.
type Cache struct {
	repo      tracker.ProjectRepository
	workspace Workspace
	logger    *zap.Logger

	mu      sync.RWMutex
	buckets map[string]*bucket
}

// NewCache creates an empty cache.
func NewCache(repo tracker.ProjectRepository, workspace Workspace, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{
		repo:      repo,
		workspace: workspace,
		logger:    logger,
		buckets:   make(map[string]*bucket),
	}
}

// ProjectInput carries the caller-supplied fields for a new project.
// A nil TeamID means "use the currently selected team"; a pointer to the
// empty string explicitly requests no team scope. A nil IsPrivate leaves
// the privacy default to scope resolution.
type ProjectInput struct {
	TeamID      *string
	Name        string
	Description string
	OwnerID     string
	OwnerName   string
	Status      tracker.ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
	IsPrivate   *bool
}

// LoadProjects fetches the team's projects visible to the viewer and
// replaces the bucket's project list. Errors are logged and swallowed;
// the caller sees stale or empty data rather than a failure. The
// assignment view is resynced from the current issue list afterwards.
func (c *Cache) LoadProjects(ctx context.Context, teamID, viewerID string) {
	if teamID == "" {
		return
	}

	fetched, err := c.repo.ListByTeam(ctx, teamID, viewerID)
	if err != nil {
		c.logger.Error("failed to load projects",
			zap.String("team_id", teamID),
			zap.Error(err))
		return
	}

	c.mu.Lock()
	b := c.bucketFor(teamID)
	b.projects = fetched
	c.mu.Unlock()

	c.SyncAssignments()
}

// ClearAll drops every bucket, used when the workspace deselects teams.
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets = make(map[string]*bucket)
}

// bucketFor returns the team's bucket, creating it if needed. Callers
// hold c.mu.
func (c *Cache) bucketFor(teamID string) *bucket {
	b, ok := c.buckets[teamID]
	if !ok {
		b = &bucket{assignments: make(map[string]string)}
		c.buckets[teamID] = b
	}
	return b
}

// Projects returns a copy of the current team's cached project list.
func (c *Cache) Projects() []tracker.Project {
	teamID := c.workspace.SelectedTeamID()

	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.buckets[teamID]
	if !ok {
		return nil
	}
	out := make([]tracker.Project, len(b.projects))
	copy(out, b.projects)
	return out
}

// Assignments returns a copy of the current team's issue-to-project view.
func (c *Cache) Assignments() map[string]string {
	teamID := c.workspace.SelectedTeamID()

	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.buckets[teamID]
	if !ok {
		return map[string]string{}
	}
	out := make(map[string]string, len(b.assignments))
	for k, v := range b.assignments {
		out[k] = v
	}
	return out
}

// CreateProject resolves the effective team scope and stores the
// project. With no team resolved the project must be explicitly marked
// private, otherwise shared.ErrNoScope is returned.
func (c *Cache) CreateProject(ctx context.Context, input ProjectInput) (tracker.Project, error) {
	teamID := c.workspace.SelectedTeamID()
	if input.TeamID != nil {
		teamID = *input.TeamID
	}

	private := input.IsPrivate != nil && *input.IsPrivate
	if teamID == "" && !private {
		return tracker.Project{}, shared.ErrNoScope
	}
	if input.IsPrivate == nil {
		private = teamID == ""
	}

	draft := tracker.ProjectDraft{
		TeamID:      teamID,
		Name:        input.Name,
		Description: input.Description,
		OwnerID:     input.OwnerID,
		OwnerName:   input.OwnerName,
		Status:      input.Status,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		IsPrivate:   private,
	}
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return tracker.Project{}, err
	}

	project, err := c.repo.Create(ctx, draft)
	if err != nil {
		return tracker.Project{}, err
	}

	if teamID != "" {
		c.mu.Lock()
		b := c.bucketFor(teamID)
		b.projects = append(b.projects, project)
		c.mu.Unlock()
	}

	c.logger.Info("project created",
		zap.String("project_id", project.ID),
		zap.String("team_id", teamID))
	return project, nil
}

// UpdateProject patches the project remotely and in whichever bucket
// currently holds it. A project found in no bucket is still updated
// remotely; the local miss is silent staleness resolved by the next
// reload.
func (c *Cache) UpdateProject(ctx context.Context, id string, patch tracker.ProjectPatch) (tracker.Project, error) {
	if id == "" {
		return tracker.Project{}, shared.ErrMissingID
	}
	if err := patch.Validate(); err != nil {
		return tracker.Project{}, err
	}

	project, err := c.repo.Update(ctx, id, patch)
	if err != nil {
		return tracker.Project{}, err
	}

	c.mu.Lock()
	if teamID, b := c.findBucket(id); teamID != "" {
		for i := range b.projects {
			if b.projects[i].ID == id {
				b.projects[i] = project
				break
			}
		}
	}
	c.mu.Unlock()
	return project, nil
}

// findBucket locates the bucket holding the project by linear scan.
// Callers hold c.mu.
func (c *Cache) findBucket(projectID string) (string, *bucket) {
	for teamID, b := range c.buckets {
		for _, p := range b.projects {
			if p.ID == projectID {
				return teamID, b
			}
		}
	}
	return "", nil
}

// DeleteProject deletes the project remotely, clears the project
// reference on every issue the cached view had assigned to it, and drops
// the project from its bucket.
func (c *Cache) DeleteProject(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrMissingID
	}
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	teamID, b := c.findBucket(id)
	var detach []string
	if b != nil {
		for issueID, projectID := range b.assignments {
			if projectID == id {
				detach = append(detach, issueID)
			}
		}
	}
	c.mu.Unlock()

	if b == nil {
		return nil
	}

	none := ""
	for _, issueID := range detach {
		if _, err := c.workspace.EditIssue(ctx, issueID, tracker.IssuePatch{ProjectID: &none}); err != nil {
			c.logger.Error("failed to detach issue from deleted project",
				zap.String("issue_id", issueID),
				zap.String("project_id", id),
				zap.Error(err))
		}
	}

	c.mu.Lock()
	for i := range b.projects {
		if b.projects[i].ID == id {
			b.projects = append(b.projects[:i], b.projects[i+1:]...)
			break
		}
	}
	for issueID, projectID := range b.assignments {
		if projectID == id {
			delete(b.assignments, issueID)
		}
	}
	c.mu.Unlock()

	c.logger.Info("project deleted",
		zap.String("project_id", id),
		zap.String("team_id", teamID),
		zap.Int("detached_issues", len(detach)))
	return nil
}

// AssignIssueToProject sets the issue's project reference after checking
// the target exists in the current team's bucket.
func (c *Cache) AssignIssueToProject(ctx context.Context, issueID, projectID string) error {
	teamID := c.workspace.SelectedTeamID()
	if teamID == "" {
		return shared.ErrNoTeamSelected
	}

	c.mu.RLock()
	b, ok := c.buckets[teamID]
	exists := false
	if ok {
		for _, p := range b.projects {
			if p.ID == projectID {
				exists = true
				break
			}
		}
	}
	c.mu.RUnlock()
	if !exists {
		return shared.ErrProjectNotFound
	}

	if _, err := c.workspace.EditIssue(ctx, issueID, tracker.IssuePatch{ProjectID: &projectID}); err != nil {
		return err
	}
	c.SyncAssignments()
	return nil
}

// RemoveIssueFromProject clears the issue's project reference.
func (c *Cache) RemoveIssueFromProject(ctx context.Context, issueID string) error {
	if c.workspace.SelectedTeamID() == "" {
		return shared.ErrNoTeamSelected
	}

	none := ""
	if _, err := c.workspace.EditIssue(ctx, issueID, tracker.IssuePatch{ProjectID: &none}); err != nil {
		return err
	}
	c.SyncAssignments()
	return nil
}

// SyncAssignments recomputes the current team's assignment view from the
// workspace's issue list. The map is only replaced when a key actually
// changed, so downstream consumers can compare by identity.
func (c *Cache) SyncAssignments() {
	teamID := c.workspace.SelectedTeamID()
	if teamID == "" {
		return
	}

	derived := make(map[string]string)
	for _, issue := range c.workspace.Issues() {
		if issue.ID != "" && issue.ProjectID != "" {
			derived[issue.ID] = issue.ProjectID
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buckets[teamID]
	if !ok {
		b = &bucket{assignments: make(map[string]string)}
		c.buckets[teamID] = b
	}

	if len(derived) == len(b.assignments) {
		changed := false
		for issueID, projectID := range derived {
			if b.assignments[issueID] != projectID {
				changed = true
				break
			}
		}
		if !changed {
			return
		}
	}
	b.assignments = derived
}

// ProjectByID returns the project from the current team's bucket, or
// false when the bucket does not hold it.
func (c *Cache) ProjectByID(projectID string) (tracker.Project, bool) {
	teamID := c.workspace.SelectedTeamID()

	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.buckets[teamID]
	if !ok {
		return tracker.Project{}, false
	}
	for _, p := range b.projects {
		if p.ID == projectID {
			return p, true
		}
	}
	return tracker.Project{}, false
}

// IssuesForProject returns the workspace issues belonging to the
// project, by the issue's own reference or the cached assignment view.
func (c *Cache) IssuesForProject(projectID string) []tracker.Issue {
	if projectID == "" {
		return nil
	}
	assignments := c.Assignments()

	var out []tracker.Issue
	for _, issue := range c.workspace.Issues() {
		if issue.ID == "" {
			continue
		}
		if issue.ProjectID == projectID || assignments[issue.ID] == projectID {
			out = append(out, issue)
		}
	}
	return out
}

// ProjectProgress returns the percentage of the project's issues that
// are done, rounded to the nearest integer. A project with no issues
// reports 0.
func (c *Cache) ProjectProgress(projectID string) int {
	issues := c.IssuesForProject(projectID)
	if len(issues) == 0 {
		return 0
	}

	completed := 0
	for _, issue := range issues {
		if issue.Completed() {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(len(issues)) * 100))
}
