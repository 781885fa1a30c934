// Package memstore provides an in-memory document store with the same
// semantics as the remote gateway. It backs local development and tests
// where no backend project is available.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/flowcraft/backend/internal/domain/identity"
	"github.com/flowcraft/backend/internal/domain/shared"
	"github.com/flowcraft/backend/internal/domain/tracker"
)

// Store holds issues, sprints, projects and teams in process memory.
// All methods are safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	issues      map[string]tracker.Issue
	sprints     map[string]tracker.Sprint
	projects    map[string]tracker.Project
	teams       map[string]identity.Team
	memberships map[string]identity.Membership
	now         func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		issues:      make(map[string]tracker.Issue),
		sprints:     make(map[string]tracker.Sprint),
		projects:    make(map[string]tracker.Project),
		teams:       make(map[string]identity.Team),
		memberships: make(map[string]identity.Membership),
		now:         time.Now,
	}
}

// SetClock overrides the store's clock, for tests that need stable
// timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Issues returns a repository view over the store.
func (s *Store) Issues() tracker.IssueRepository { return (*issueStore)(s) }

// Sprints returns a repository view over the store.
func (s *Store) Sprints() tracker.SprintRepository { return (*sprintStore)(s) }

// Projects returns a repository view over the store.
func (s *Store) Projects() tracker.ProjectRepository { return (*projectStore)(s) }

// Teams returns a directory view over the store.
func (s *Store) Teams() identity.TeamDirectory { return (*teamStore)(s) }

type issueStore Store

func (s *issueStore) ListByTeam(ctx context.Context, teamID string) ([]tracker.Issue, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var issues []tracker.Issue
	for _, issue := range s.issues {
		if issue.TeamID == teamID {
			issues = append(issues, issue)
		}
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].CreatedAt.Before(issues[j].CreatedAt) })
	return issues, nil
}

func (s *issueStore) Create(ctx context.Context, draft tracker.IssueDraft) (tracker.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	issue := tracker.Issue{
		ID:             uuid.NewString(),
		Title:          draft.Title,
		Description:    draft.Description,
		Status:         draft.Status,
		Priority:       draft.Priority,
		TeamID:         draft.TeamID,
		SprintID:       draft.SprintID,
		AssignedUserID: draft.AssignedUserID,
		ProjectID:      draft.ProjectID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.issues[issue.ID] = issue
	return issue, nil
}

func (s *issueStore) Update(ctx context.Context, id string, patch tracker.IssuePatch) (tracker.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issue, ok := s.issues[id]
	if !ok {
		return tracker.Issue{}, shared.ErrRemoteNotFound
	}
	issue = patch.Apply(issue)
	issue.UpdatedAt = s.now()
	s.issues[id] = issue
	return issue, nil
}

func (s *issueStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.issues[id]; !ok {
		return shared.ErrRemoteNotFound
	}
	delete(s.issues, id)
	return nil
}

type sprintStore Store

func (s *sprintStore) ListByTeam(ctx context.Context, teamID string) ([]tracker.Sprint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sprints []tracker.Sprint
	for _, sprint := range s.sprints {
		if sprint.TeamID == teamID {
			sprints = append(sprints, sprint)
		}
	}
	sort.Slice(sprints, func(i, j int) bool { return sprints[i].CreatedAt.Before(sprints[j].CreatedAt) })
	return sprints, nil
}

func (s *sprintStore) Create(ctx context.Context, draft tracker.SprintDraft) (tracker.Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sprint := tracker.Sprint{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		StartDate:   draft.StartDate,
		EndDate:     draft.EndDate,
		TeamID:      draft.TeamID,
		Status:      draft.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.sprints[sprint.ID] = sprint
	return sprint, nil
}

func (s *sprintStore) Update(ctx context.Context, id string, patch tracker.SprintPatch) (tracker.Sprint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sprint, ok := s.sprints[id]
	if !ok {
		return tracker.Sprint{}, shared.ErrRemoteNotFound
	}
	sprint = patch.Apply(sprint)
	sprint.UpdatedAt = s.now()
	s.sprints[id] = sprint
	return sprint, nil
}

func (s *sprintStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sprints[id]; !ok {
		return shared.ErrRemoteNotFound
	}
	delete(s.sprints, id)
	return nil
}

type projectStore Store

func (s *projectStore) ListByTeam(ctx context.Context, teamID, viewerID string) ([]tracker.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var projects []tracker.Project
	for _, project := range s.projects {
		if project.TeamID == teamID && project.VisibleTo(viewerID) {
			projects = append(projects, project)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].CreatedAt.Before(projects[j].CreatedAt) })
	return projects, nil
}

func (s *projectStore) GetByID(ctx context.Context, id, viewerID string) (tracker.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, ok := s.projects[id]
	if !ok {
		return tracker.Project{}, shared.ErrRemoteNotFound
	}
	if !project.VisibleTo(viewerID) {
		return tracker.Project{}, shared.ErrForbidden
	}
	return project, nil
}

func (s *projectStore) Directory(ctx context.Context, query tracker.ProjectDirectoryQuery) (tracker.ProjectDirectoryResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []tracker.Project
	now := s.now()
	for _, project := range s.projects {
		if !directoryMatch(project, query, now) {
			continue
		}
		matched = append(matched, project)
	}

	// Due date ascending, projects without one last.
	sort.Slice(matched, func(i, j int) bool {
		di, dj := matched[i].DueDate, matched[j].DueDate
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})

	total := len(matched)
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	start := query.Page * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return tracker.ProjectDirectoryResult{Projects: matched[start:end], Total: total}, nil
}

func directoryMatch(project tracker.Project, query tracker.ProjectDirectoryQuery, now time.Time) bool {
	if query.Status != "" && project.Status != query.Status {
		return false
	}

	switch {
	case query.PrivateOnly:
		if !project.IsPrivate {
			return false
		}
		if query.ViewerID != "" && project.OwnerID != query.ViewerID {
			return false
		}
	case query.TeamID != "":
		if project.TeamID != query.TeamID || !project.VisibleTo(query.ViewerID) {
			return false
		}
	default:
		public := !project.IsPrivate && project.TeamID != ""
		mine := project.IsPrivate && query.ViewerID != "" && project.OwnerID == query.ViewerID
		if !public && !mine {
			return false
		}
	}

	if !query.PrivateOnly && query.OwnerID != "" && project.OwnerID != query.OwnerID {
		return false
	}

	switch query.DateFilter {
	case tracker.DateFilterOverdue:
		if project.DueDate == nil || !project.DueDate.Before(now) || project.Status == tracker.ProjectStatusCompleted {
			return false
		}
	case tracker.DateFilterThisQuarter:
		if project.DueDate == nil {
			return false
		}
		start, end := tracker.QuarterBounds(now)
		if project.DueDate.Before(start) || project.DueDate.After(end) {
			return false
		}
	}
	return true
}

func (s *projectStore) Create(ctx context.Context, draft tracker.ProjectDraft) (tracker.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	project := tracker.Project{
		ID:          uuid.NewString(),
		TeamID:      draft.TeamID,
		Name:        draft.Name,
		Description: draft.Description,
		OwnerID:     draft.OwnerID,
		OwnerName:   draft.OwnerName,
		Status:      draft.Status,
		StartDate:   draft.StartDate,
		DueDate:     draft.DueDate,
		IsPrivate:   draft.IsPrivate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.projects[project.ID] = project
	return project, nil
}

func (s *projectStore) Update(ctx context.Context, id string, patch tracker.ProjectPatch) (tracker.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.projects[id]
	if !ok {
		return tracker.Project{}, shared.ErrRemoteNotFound
	}
	project = patch.Apply(project)
	project.UpdatedAt = s.now()
	s.projects[id] = project
	return project, nil
}

func (s *projectStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return shared.ErrRemoteNotFound
	}
	delete(s.projects, id)
	return nil
}

type teamStore Store

func (s *teamStore) List(ctx context.Context) ([]identity.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var teams []identity.Team
	for _, team := range s.teams {
		teams = append(teams, team)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].CreatedAt.Before(teams[j].CreatedAt) })
	return teams, nil
}

func (s *teamStore) Get(ctx context.Context, teamID string) (identity.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team, ok := s.teams[teamID]
	if !ok {
		return identity.Team{}, shared.ErrRemoteNotFound
	}
	return team, nil
}

func (s *teamStore) Create(ctx context.Context, teamID, name string, roles []string) (identity.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if teamID == "" || teamID == "unique()" {
		teamID = uuid.NewString()
	}
	team := identity.Team{
		ID:        teamID,
		Name:      name,
		Total:     1,
		Prefs:     map[string]string{},
		CreatedAt: s.now(),
	}
	s.teams[team.ID] = team
	return team, nil
}

func (s *teamStore) UpdatePrefs(ctx context.Context, teamID string, prefs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[teamID]
	if !ok {
		return shared.ErrRemoteNotFound
	}
	if team.Prefs == nil {
		team.Prefs = map[string]string{}
	}
	for k, v := range prefs {
		team.Prefs[k] = v
	}
	s.teams[teamID] = team
	return nil
}

func (s *teamStore) Delete(ctx context.Context, teamID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.teams[teamID]; !ok {
		return shared.ErrRemoteNotFound
	}
	delete(s.teams, teamID)
	for id, m := range s.memberships {
		if m.TeamID == teamID {
			delete(s.memberships, id)
		}
	}
	return nil
}

func (s *teamStore) ListMemberships(ctx context.Context, teamID string) ([]identity.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var members []identity.Membership
	for _, m := range s.memberships {
		if m.TeamID == teamID {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].InvitedAt.Before(members[j].InvitedAt) })
	return members, nil
}

func (s *teamStore) CreateMembership(ctx context.Context, teamID string, invite identity.MembershipInvite) (identity.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[teamID]
	if !ok {
		return identity.Membership{}, shared.ErrRemoteNotFound
	}
	m := identity.Membership{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		TeamName:  team.Name,
		UserID:    uuid.NewString(),
		UserName:  invite.Name,
		UserEmail: strings.ToLower(invite.Email),
		Roles:     invite.Roles,
		Confirmed: false,
		InvitedAt: s.now(),
	}
	s.memberships[m.ID] = m
	return m, nil
}

func (s *teamStore) UpdateMembership(ctx context.Context, teamID, membershipID string, roles []string) (identity.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memberships[membershipID]
	if !ok || m.TeamID != teamID {
		return identity.Membership{}, shared.ErrRemoteNotFound
	}
	m.Roles = roles
	s.memberships[membershipID] = m
	return m, nil
}

func (s *teamStore) UpdateMembershipStatus(ctx context.Context, teamID, membershipID, userID, secret string) (identity.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memberships[membershipID]
	if !ok || m.TeamID != teamID {
		return identity.Membership{}, shared.ErrRemoteNotFound
	}
	m.Confirmed = true
	m.JoinedAt = s.now()
	if userID != "" {
		m.UserID = userID
	}
	s.memberships[membershipID] = m

	if team, ok := s.teams[teamID]; ok {
		team.Total++
		s.teams[teamID] = team
	}
	return m, nil
}

func (s *teamStore) DeleteMembership(ctx context.Context, teamID, membershipID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.memberships[membershipID]
	if !ok || m.TeamID != teamID {
		return shared.ErrRemoteNotFound
	}
	delete(s.memberships, membershipID)

	if team, ok := s.teams[teamID]; ok && m.Confirmed && team.Total > 0 {
		team.Total--
		s.teams[teamID] = team
	}
	return nil
}
