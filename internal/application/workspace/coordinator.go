// Package workspace holds the per-process state of the active team: its
// issues, its sprints, and the sprint currently being tracked as active.
package workspace

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/flowcraft/backend/internal/domain/shared"
	"github.com/flowcraft/backend/internal/domain/tracker"
	"github.com/flowcraft/backend/internal/infrastructure/keyvalue"
)

// Coordinator is the single source of truth for the selected team's
// issues and sprints and for their mutation workflows. All methods are
// safe for concurrent use.
//
// Concurrency model: mutations go to the backend first and local state
// is overwritten with whatever the backend returned. Two racing edits to
// the same entity resolve last-write-wins; there is no version check.
// Team switches are guarded by a generation counter so a slow load for a
// previous team can never clobber the state of the current one.
type Coordinator struct {
	issueRepo  tracker.IssueRepository
	sprintRepo tracker.SprintRepository
	slot       keyvalue.Slot
	logger     *zap.Logger
	now        func() time.Time

	mu             sync.RWMutex
	selectedTeamID string
	issues         []tracker.Issue
	sprints        []tracker.Sprint
	activeSprintID string
	loading        bool
	generation     uint64
}

// NewCoordinator creates a coordinator with empty state.
func NewCoordinator(
	issueRepo tracker.IssueRepository,
	sprintRepo tracker.SprintRepository,
	slot keyvalue.Slot,
	logger *zap.Logger,
) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		issueRepo:  issueRepo,
		sprintRepo: sprintRepo,
		slot:       slot,
		logger:     logger,
		now:        time.Now,
	}
}

// Restore re-selects the team persisted in the slot, if any. Called once
// on startup; a missing or unreadable slot leaves the workspace empty.
func (c *Coordinator) Restore(ctx context.Context) error {
	teamID, err := c.slot.Get(ctx)
	if err != nil {
		c.logger.Warn("could not restore selected team", zap.Error(err))
		return nil
	}
	if teamID == "" {
		return nil
	}
	return c.SelectTeam(ctx, teamID)
}

// SelectTeam switches the workspace to the given team, reloading its
// issues and sprints in parallel. An empty teamID deselects and clears
// all state. The selection is persisted so it survives restarts.
//
// A fetch failure leaves the team selected with empty collections and
// returns the error; the next successful switch repopulates. Results of
// a load that was overtaken by a newer switch are discarded.
func (c *Coordinator) SelectTeam(ctx context.Context, teamID string) error {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.selectedTeamID = teamID
	c.issues = nil
	c.sprints = nil
	c.activeSprintID = ""
	c.loading = teamID != ""
	c.mu.Unlock()

	if err := c.persistSelection(ctx, teamID); err != nil {
		c.logger.Warn("could not persist selected team",
			zap.String("team_id", teamID),
			zap.Error(err))
	}

	if teamID == "" {
		return nil
	}

	var issues []tracker.Issue
	var sprints []tracker.Sprint

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		issues, err = c.issueRepo.ListByTeam(gctx, teamID)
		return err
	})
	g.Go(func() error {
		var err error
		sprints, err = c.sprintRepo.ListByTeam(gctx, teamID)
		return err
	})
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != generation {
		// A newer switch happened while this load was in flight.
		c.logger.Debug("discarding stale team load", zap.String("team_id", teamID))
		return nil
	}
	c.loading = false

	if err != nil {
		c.logger.Error("failed to load team data",
			zap.String("team_id", teamID),
			zap.Error(err))
		return err
	}

	c.issues = issues
	c.sprints = sprints
	for _, sprint := range sprints {
		if sprint.Status == tracker.SprintStatusActive {
			c.activeSprintID = sprint.ID
			break
		}
	}
	c.logger.Info("team selected",
		zap.String("team_id", teamID),
		zap.Int("issues", len(issues)),
		zap.Int("sprints", len(sprints)))
	return nil
}

func (c *Coordinator) persistSelection(ctx context.Context, teamID string) error {
	if teamID == "" {
		return c.slot.Clear(ctx)
	}
	return c.slot.Put(ctx, teamID)
}

// SelectedTeamID returns the id of the selected team, or "" when none.
func (c *Coordinator) SelectedTeamID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selectedTeamID
}

// Loading reports whether a team load is in flight.
func (c *Coordinator) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Issues returns a copy of the selected team's issues.
func (c *Coordinator) Issues() []tracker.Issue {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]tracker.Issue, len(c.issues))
	copy(out, c.issues)
	return out
}

// Sprints returns a copy of the selected team's sprints.
func (c *Coordinator) Sprints() []tracker.Sprint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]tracker.Sprint, len(c.sprints))
	copy(out, c.sprints)
	return out
}

// ActiveSprint returns the tracked active sprint, or nil when none.
func (c *Coordinator) ActiveSprint() *tracker.Sprint {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.activeSprintID == "" {
		return nil
	}
	for _, sprint := range c.sprints {
		if sprint.ID == c.activeSprintID {
			s := sprint
			return &s
		}
	}
	return nil
}

// CreateIssue validates the draft, stores it and appends the stored
// issue to local state. Fails with shared.ErrNoTeamSelected when no team
// is active and the draft names none.
func (c *Coordinator) CreateIssue(ctx context.Context, draft tracker.IssueDraft) (tracker.Issue, error) {
	c.mu.RLock()
	teamID := c.selectedTeamID
	generation := c.generation
	c.mu.RUnlock()

	if draft.TeamID == "" {
		if teamID == "" {
			return tracker.Issue{}, shared.ErrNoTeamSelected
		}
		draft.TeamID = teamID
	}
	draft.ApplyDefaults()
	if err := draft.Validate(); err != nil {
		return tracker.Issue{}, err
	}

	issue, err := c.issueRepo.Create(ctx, draft)
	if err != nil {
		return tracker.Issue{}, err
	}

	c.mu.Lock()
	if c.generation == generation && c.selectedTeamID == issue.TeamID {
		c.issues = append(c.issues, issue)
	}
	c.mu.Unlock()

	c.logger.Info("issue created",
		zap.String("issue_id", issue.ID),
		zap.String("team_id", issue.TeamID))
	return issue, nil
}

// EditIssue round-trips a partial update through the backend and
// replaces the matching local entry with the server's copy.
func (c *Coordinator) EditIssue(ctx context.Context, id string, patch tracker.IssuePatch) (tracker.Issue, error) {
	if id == "" {
		return tracker.Issue{}, shared.ErrMissingID
	}
	if err := patch.Validate(); err != nil {
		return tracker.Issue{}, err
	}

	issue, err := c.issueRepo.Update(ctx, id, patch)
	if err != nil {
		return tracker.Issue{}, err
	}

	c.mu.Lock()
	for i := range c.issues {
		if c.issues[i].ID == id {
			c.issues[i] = issue
			break
		}
	}
	c.mu.Unlock()
	return issue, nil
}

// DeleteIssue removes the issue from the backend and from local state.
// Project assignment cleanup is not cascaded here; deleting the issue
// removes the need.
func (c *Coordinator) DeleteIssue(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrMissingID
	}
	if err := c.issueRepo.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.issues {
		if c.issues[i].ID == id {
			c.issues = append(c.issues[:i], c.issues[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	c.logger.Info("issue deleted", zap.String("issue_id", id))
	return nil
}

// AssignToSprint moves an issue into a sprint; an empty sprintID moves
// it back to the backlog.
func (c *Coordinator) AssignToSprint(ctx context.Context, issueID, sprintID string) (tracker.Issue, error) {
	return c.EditIssue(ctx, issueID, tracker.IssuePatch{SprintID: &sprintID})
}

// CreateSprint validates the draft, stores it and appends the stored
// sprint to local state. Omitted dates default to the current instant,
// producing a zero-length sprint; callers should pass explicit dates.
func (c *Coordinator) CreateSprint(ctx context.Context, draft tracker.SprintDraft) (tracker.Sprint, error) {
	c.mu.RLock()
	teamID := c.selectedTeamID
	generation := c.generation
	c.mu.RUnlock()

	if draft.TeamID == "" {
		if teamID == "" {
			return tracker.Sprint{}, shared.ErrNoTeamSelected
		}
		draft.TeamID = teamID
	}
	draft.ApplyDefaults(c.now())
	if err := draft.Validate(); err != nil {
		return tracker.Sprint{}, err
	}

	sprint, err := c.sprintRepo.Create(ctx, draft)
	if err != nil {
		return tracker.Sprint{}, err
	}

	c.mu.Lock()
	if c.generation == generation && c.selectedTeamID == sprint.TeamID {
		c.sprints = append(c.sprints, sprint)
	}
	c.mu.Unlock()

	c.logger.Info("sprint created",
		zap.String("sprint_id", sprint.ID),
		zap.String("team_id", sprint.TeamID))
	return sprint, nil
}

// EditSprint round-trips a partial update through the backend and
// replaces the matching local entry.
func (c *Coordinator) EditSprint(ctx context.Context, id string, patch tracker.SprintPatch) (tracker.Sprint, error) {
	if id == "" {
		return tracker.Sprint{}, shared.ErrMissingID
	}
	if err := patch.Validate(); err != nil {
		return tracker.Sprint{}, err
	}

	sprint, err := c.sprintRepo.Update(ctx, id, patch)
	if err != nil {
		return tracker.Sprint{}, err
	}

	c.mu.Lock()
	for i := range c.sprints {
		if c.sprints[i].ID == id {
			c.sprints[i] = sprint
			break
		}
	}
	c.mu.Unlock()
	return sprint, nil
}

// DeleteSprint removes the sprint from the backend and from local state.
// Issues pointing at it keep their sprintId until separately reassigned.
func (c *Coordinator) DeleteSprint(ctx context.Context, id string) error {
	if id == "" {
		return shared.ErrMissingID
	}
	if err := c.sprintRepo.Delete(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.sprints {
		if c.sprints[i].ID == id {
			c.sprints = append(c.sprints[:i], c.sprints[i+1:]...)
			break
		}
	}
	if c.activeSprintID == id {
		c.activeSprintID = ""
	}
	c.mu.Unlock()

	c.logger.Info("sprint deleted", zap.String("sprint_id", id))
	return nil
}

// StartSprint marks the sprint Active and tracks it as the workspace's
// active sprint. The lifecycle is one-directional; only a Planned
// sprint can start. Nothing prevents a second sprint from also being
// started; the tracked one is simply the most recent.
func (c *Coordinator) StartSprint(ctx context.Context, id string) (tracker.Sprint, error) {
	if err := c.checkTransition(id, tracker.SprintStatusActive); err != nil {
		return tracker.Sprint{}, err
	}

	status := tracker.SprintStatusActive
	sprint, err := c.EditSprint(ctx, id, tracker.SprintPatch{Status: &status})
	if err != nil {
		return tracker.Sprint{}, err
	}

	c.mu.Lock()
	c.activeSprintID = sprint.ID
	c.mu.Unlock()

	c.logger.Info("sprint started", zap.String("sprint_id", id))
	return sprint, nil
}

// EndSprint marks the sprint Completed and, if it was the tracked active
// sprint, clears the tracking. Unfinished issues keep their sprint
// assignment; moving them back to the backlog is a separate caller
// decision.
func (c *Coordinator) EndSprint(ctx context.Context, id string) (tracker.Sprint, error) {
	if err := c.checkTransition(id, tracker.SprintStatusCompleted); err != nil {
		return tracker.Sprint{}, err
	}

	status := tracker.SprintStatusCompleted
	sprint, err := c.EditSprint(ctx, id, tracker.SprintPatch{Status: &status})
	if err != nil {
		return tracker.Sprint{}, err
	}

	c.mu.Lock()
	if c.activeSprintID == id {
		c.activeSprintID = ""
	}
	c.mu.Unlock()

	c.logger.Info("sprint ended", zap.String("sprint_id", id))
	return sprint, nil
}

// checkTransition validates the lifecycle move against the locally
// cached sprint. A sprint missing from the cache is not rejected here;
// the backend update will report it.
func (c *Coordinator) checkTransition(id string, target tracker.SprintStatus) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := range c.sprints {
		if c.sprints[i].ID != id {
			continue
		}
		if !c.sprints[i].Status.CanTransitionTo(target) {
			return shared.ErrInvalidState
		}
		return nil
	}
	return nil
}
