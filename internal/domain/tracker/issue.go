package tracker

import (
	"fmt"
	"time"

	"github.com/flowcraft/backend/internal/domain/shared"
)

// Priority bounds for issues. Lower numbers are more urgent.
const (
	MinPriority     = 1
	MaxPriority     = 5
	DefaultPriority = 3
)

// IssueStatus represents the workflow state of an issue
type IssueStatus string

const (
	IssueStatusTodo       IssueStatus = "Todo"
	IssueStatusInProgress IssueStatus = "In Progress"
	IssueStatusInReview   IssueStatus = "In Review"
	IssueStatusDone       IssueStatus = "Done"
)

// IssueStatuses lists all issue statuses in board order.
var IssueStatuses = []IssueStatus{
	IssueStatusTodo,
	IssueStatusInProgress,
	IssueStatusInReview,
	IssueStatusDone,
}

// Valid reports whether the status is one of the known workflow states.
// Issues move freely between states, so there is no transition check here.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusTodo, IssueStatusInProgress, IssueStatusInReview, IssueStatusDone:
		return true
	}
	return false
}

// Issue is a unit of trackable work owned by a team.
// Identity and timestamps are assigned by the remote store; local code
// mirrors but never mints them. Empty SprintID means the issue sits in
// the backlog, empty ProjectID means it belongs to no project.
type Issue struct {
	ID             string
	Title          string
	Description    string
	Status         IssueStatus
	Priority       int
	TeamID         string
	SprintID       string
	AssignedUserID string
	ProjectID      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InBacklog reports whether the issue has no sprint assignment.
func (i Issue) InBacklog() bool {
	return i.SprintID == ""
}

// Completed reports whether the issue reached the Done state.
func (i Issue) Completed() bool {
	return i.Status == IssueStatusDone
}

// InFlight reports whether the issue is being worked on or reviewed.
func (i Issue) InFlight() bool {
	return i.Status == IssueStatusInProgress || i.Status == IssueStatusInReview
}

// IssueDraft carries the caller-supplied fields for a new issue.
// System-managed fields (id, timestamps) are excluded; the remote store
// assigns them on create.
type IssueDraft struct {
	Title          string
	Description    string
	Status         IssueStatus
	Priority       int
	TeamID         string
	SprintID       string
	AssignedUserID string
	ProjectID      string
}

// ApplyDefaults fills the defaults for unspecified fields: status Todo,
// priority 3.
func (d *IssueDraft) ApplyDefaults() {
	if d.Status == "" {
		d.Status = IssueStatusTodo
	}
	if d.Priority == 0 {
		d.Priority = DefaultPriority
	}
}

// Validate checks the draft after defaults are applied.
func (d IssueDraft) Validate() error {
	if d.Title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Issue title cannot be empty")
	}
	if !d.Status.Valid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown issue status %q", d.Status))
	}
	if d.Priority < MinPriority || d.Priority > MaxPriority {
		return shared.NewDomainError("INVALID_PRIORITY", fmt.Sprintf("Priority must be between %d and %d", MinPriority, MaxPriority))
	}
	if d.TeamID == "" {
		return shared.NewDomainError("INVALID_TEAM", "Issue must belong to a team")
	}
	return nil
}

// IssuePatch describes a partial update. Nil fields are left untouched.
// For reference fields (SprintID, AssignedUserID, ProjectID) a pointer to
// the empty string clears the reference on the remote document.
type IssuePatch struct {
	Title          *string
	Description    *string
	Status         *IssueStatus
	Priority       *int
	SprintID       *string
	AssignedUserID *string
	ProjectID      *string
}

// Validate checks the provided fields of the patch.
func (p IssuePatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown issue status %q", *p.Status))
	}
	if p.Priority != nil && (*p.Priority < MinPriority || *p.Priority > MaxPriority) {
		return shared.NewDomainError("INVALID_PRIORITY", fmt.Sprintf("Priority must be between %d and %d", MinPriority, MaxPriority))
	}
	return nil
}

// Apply returns a copy of the issue with the patch's fields set.
// This mirrors the remote store's partial-update semantics and backs the
// in-memory store used in tests and local development.
func (p IssuePatch) Apply(issue Issue) Issue {
	if p.Title != nil {
		issue.Title = *p.Title
	}
	if p.Description != nil {
		issue.Description = *p.Description
	}
	if p.Status != nil {
		issue.Status = *p.Status
	}
	if p.Priority != nil {
		issue.Priority = *p.Priority
	}
	if p.SprintID != nil {
		issue.SprintID = *p.SprintID
	}
	if p.AssignedUserID != nil {
		issue.AssignedUserID = *p.AssignedUserID
	}
	if p.ProjectID != nil {
		issue.ProjectID = *p.ProjectID
	}
	return issue
}
