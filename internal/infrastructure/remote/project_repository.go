package remote

import (
	"context"
	"encoding/json"
	"time"

	"github.com/flowcraft/backend/internal/domain/shared"
	"github.com/flowcraft/backend/internal/domain/tracker"
)

// ProjectRepository implements tracker.ProjectRepository against the
// remote document store. Privacy filtering happens server-side through
// query composition so private projects of other users never reach this
// process.
type ProjectRepository struct {
	client *Client
	now    func() time.Time
}

// NewProjectRepository creates a project repository backed by the client.
func NewProjectRepository(client *Client) *ProjectRepository {
	return &ProjectRepository{client: client, now: time.Now}
}

// visibilityRule restricts results to non-private projects plus the
// viewer's own private ones. Without a viewer only public projects match.
func visibilityRule(viewerID string) Query {
	if viewerID == "" {
		return Equal("isPrivate", false)
	}
	return Or(
		Equal("isPrivate", false),
		And(
			Equal("isPrivate", true),
			Equal("ownerId", viewerID),
		),
	)
}

func (r *ProjectRepository) ListByTeam(ctx context.Context, teamID, viewerID string) ([]tracker.Project, error) {
	list, err := r.client.ListDocuments(ctx, CollectionProjects, []Query{
		Equal("teamId", teamID),
		visibilityRule(viewerID),
	})
	if err != nil {
		return nil, err
	}
	return decodeProjects(list.Documents)
}

func (r *ProjectRepository) GetByID(ctx context.Context, id, viewerID string) (tracker.Project, error) {
	var doc projectDocument
	if err := r.client.GetDocument(ctx, CollectionProjects, id, &doc); err != nil {
		return tracker.Project{}, err
	}
	project := doc.toDomain()
	if !project.VisibleTo(viewerID) {
		return tracker.Project{}, shared.ErrForbidden
	}
	return project, nil
}

func (r *ProjectRepository) Directory(ctx context.Context, query tracker.ProjectDirectoryQuery) (tracker.ProjectDirectoryResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}

	queries := []Query{
		Limit(limit),
		Offset(query.Page * limit),
		OrderAsc("dueDate"),
	}

	if query.Status != "" {
		queries = append(queries, Equal("status", string(query.Status)))
	}

	switch {
	case query.PrivateOnly:
		queries = append(queries, Equal("isPrivate", true))
		if query.ViewerID != "" {
			queries = append(queries, Equal("ownerId", query.ViewerID))
		}
	case query.TeamID != "":
		queries = append(queries,
			Equal("teamId", query.TeamID),
			visibilityRule(query.ViewerID))
	default:
		// All-teams view: public team projects plus the viewer's own
		// private projects.
		if query.ViewerID != "" {
			queries = append(queries, Or(
				And(
					Equal("isPrivate", false),
					IsNotNull("teamId"),
				),
				And(
					Equal("isPrivate", true),
					Equal("ownerId", query.ViewerID),
				),
			))
		} else {
			queries = append(queries,
				Equal("isPrivate", false),
				IsNotNull("teamId"))
		}
	}

	if !query.PrivateOnly && query.OwnerID != "" {
		queries = append(queries, Equal("ownerId", query.OwnerID))
	}

	switch query.DateFilter {
	case tracker.DateFilterOverdue:
		now := r.now().UTC().Format(time.RFC3339Nano)
		queries = append(queries,
			LessThan("dueDate", now),
			NotEqual("status", string(tracker.ProjectStatusCompleted)))
	case tracker.DateFilterThisQuarter:
		start, end := tracker.QuarterBounds(r.now())
		queries = append(queries,
			GreaterThanEqual("dueDate", start.UTC().Format(time.RFC3339Nano)),
			LessThanEqual("dueDate", end.UTC().Format(time.RFC3339Nano)))
	}

	list, err := r.client.ListDocuments(ctx, CollectionProjects, queries)
	if err != nil {
		return tracker.ProjectDirectoryResult{}, err
	}

	projects, err := decodeProjects(list.Documents)
	if err != nil {
		return tracker.ProjectDirectoryResult{}, err
	}
	return tracker.ProjectDirectoryResult{Projects: projects, Total: list.Total}, nil
}

func (r *ProjectRepository) Create(ctx context.Context, draft tracker.ProjectDraft) (tracker.Project, error) {
	var doc projectDocument
	if err := r.client.CreateDocument(ctx, CollectionProjects, projectCreateData(draft), &doc); err != nil {
		return tracker.Project{}, err
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) Update(ctx context.Context, id string, patch tracker.ProjectPatch) (tracker.Project, error) {
	var doc projectDocument
	if err := r.client.UpdateDocument(ctx, CollectionProjects, id, projectPatchData(patch), &doc); err != nil {
		return tracker.Project{}, err
	}
	return doc.toDomain(), nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	return r.client.DeleteDocument(ctx, CollectionProjects, id)
}

func decodeProjects(raw []json.RawMessage) ([]tracker.Project, error) {
	projects := make([]tracker.Project, 0, len(raw))
	for _, doc := range raw {
		var pd projectDocument
		if err := json.Unmarshal(doc, &pd); err != nil {
			return nil, shared.ErrRemoteFetch
		}
		projects = append(projects, pd.toDomain())
	}
	return projects, nil
}
