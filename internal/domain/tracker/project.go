package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/flowcraft/backend/internal/domain/shared"
)

// ProjectStatus represents the reported health of a project
type ProjectStatus string

const (
	ProjectStatusPlanned    ProjectStatus = "Planned"
	ProjectStatusInProgress ProjectStatus = "In Progress"
	ProjectStatusAtRisk     ProjectStatus = "At Risk"
	ProjectStatusCompleted  ProjectStatus = "Completed"
)

// Valid reports whether the status is a known project state.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanned, ProjectStatusInProgress, ProjectStatusAtRisk, ProjectStatusCompleted:
		return true
	}
	return false
}

// Project is a cross-sprint initiative, optionally scoped to a team.
// An empty TeamID means the project is private to its owner. The link
// from issues is a soft foreign key (Issue.ProjectID); referential
// integrity is application-level bookkeeping only.
type Project struct {
	ID          string
	TeamID      string
	Name        string
	Description string
	OwnerID     string
	OwnerName   string
	Status      ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
	IsPrivate   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VisibleTo reports whether the viewer may see the project: everyone sees
// non-private projects, only the owner sees private ones.
func (p Project) VisibleTo(viewerID string) bool {
	return !p.IsPrivate || p.OwnerID == viewerID
}

// Overdue reports whether the project's due date has passed without the
// project being completed.
func (p Project) Overdue(now time.Time) bool {
	return p.DueDate != nil && p.DueDate.Before(now) && p.Status != ProjectStatusCompleted
}

// ProjectDraft carries the caller-supplied fields for a new project.
type ProjectDraft struct {
	TeamID      string
	Name        string
	Description string
	OwnerID     string
	OwnerName   string
	Status      ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
	IsPrivate   bool
}

// Normalize trims the free-text fields.
func (d *ProjectDraft) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

// Validate checks the draft.
func (d ProjectDraft) Validate() error {
	if d.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if d.OwnerID == "" {
		return shared.NewDomainError("INVALID_OWNER", "Project must have an owner")
	}
	if !d.Status.Valid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown project status %q", d.Status))
	}
	return nil
}

// ProjectPatch describes a partial update to a project. Nil fields are
// left untouched; a pointer to the empty string clears TeamID.
type ProjectPatch struct {
	TeamID      *string
	Name        *string
	Description *string
	OwnerID     *string
	OwnerName   *string
	Status      *ProjectStatus
	StartDate   *time.Time
	DueDate     *time.Time
	IsPrivate   *bool
}

// Validate checks the provided fields of the patch.
func (p ProjectPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown project status %q", *p.Status))
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	return nil
}

// Apply returns a copy of the project with the patch's fields set.
func (p ProjectPatch) Apply(project Project) Project {
	if p.TeamID != nil {
		project.TeamID = *p.TeamID
	}
	if p.Name != nil {
		project.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		project.Description = strings.TrimSpace(*p.Description)
	}
	if p.OwnerID != nil {
		project.OwnerID = *p.OwnerID
	}
	if p.OwnerName != nil {
		project.OwnerName = *p.OwnerName
	}
	if p.Status != nil {
		project.Status = *p.Status
	}
	if p.StartDate != nil {
		project.StartDate = p.StartDate
	}
	if p.DueDate != nil {
		project.DueDate = p.DueDate
	}
	if p.IsPrivate != nil {
		project.IsPrivate = *p.IsPrivate
	}
	return project
}

// QuarterBounds returns the calendar-quarter window containing the given
// date: Q1 Jan-Mar, Q2 Apr-Jun, Q3 Jul-Sep, Q4 Oct-Dec. The end bound is
// inclusive through the last instant of the quarter's last day.
func QuarterBounds(date time.Time) (start, end time.Time) {
	quarter := (int(date.Month()) - 1) / 3
	start = time.Date(date.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, date.Location())
	end = start.AddDate(0, 3, 0).Add(-time.Millisecond)
	return start, end
}
