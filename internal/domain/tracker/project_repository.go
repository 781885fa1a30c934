package tracker

import "context"

// ProjectDateFilter selects a due-date bucket for directory queries.
type ProjectDateFilter string

const (
	DateFilterAll         ProjectDateFilter = "all"
	DateFilterOverdue     ProjectDateFilter = "overdue"
	DateFilterThisQuarter ProjectDateFilter = "this-quarter"
)

// Valid reports whether the filter is a known date bucket.
func (f ProjectDateFilter) Valid() bool {
	switch f {
	case DateFilterAll, DateFilterOverdue, DateFilterThisQuarter:
		return true
	}
	return false
}

// ProjectDirectoryQuery describes a paginated, filtered directory listing.
// Pages are zero-based. An empty TeamID selects the "all teams" view:
// non-private team projects plus the viewer's own private projects.
type ProjectDirectoryQuery struct {
	Page        int
	Limit       int
	Status      ProjectStatus
	OwnerID     string
	TeamID      string
	PrivateOnly bool
	DateFilter  ProjectDateFilter
	ViewerID    string
}

// ProjectDirectoryResult is one page of the directory plus the total
// match count across all pages.
type ProjectDirectoryResult struct {
	Projects []Project
	Total    int
}

// ProjectRepository provides access to project documents in the remote
// store. Reads enforce the privacy rule: a project is visible when it is
// not private, or when the viewer owns it.
type ProjectRepository interface {
	// ListByTeam returns the team's projects visible to the viewer.
	ListByTeam(ctx context.Context, teamID, viewerID string) ([]Project, error)

	// GetByID returns a single project. Private projects are only
	// returned to their owner; other viewers get shared.ErrForbidden.
	GetByID(ctx context.Context, id, viewerID string) (Project, error)

	// Directory returns a page of projects ordered by due date ascending,
	// applying the query's filters and the privacy rule.
	Directory(ctx context.Context, query ProjectDirectoryQuery) (ProjectDirectoryResult, error)

	Create(ctx context.Context, draft ProjectDraft) (Project, error)
	Update(ctx context.Context, id string, patch ProjectPatch) (Project, error)
	Delete(ctx context.Context, id string) error
}
