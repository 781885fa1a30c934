package remote

import (
	"context"
	"encoding/json"

	"github.com/flowcraft/backend/internal/domain/shared"
	"github.com/flowcraft/backend/internal/domain/tracker"
)

// IssueRepository implements tracker.IssueRepository against the remote
// document store.
type IssueRepository struct {
	client *Client
}

// NewIssueRepository creates an issue repository backed by the client.
func NewIssueRepository(client *Client) *IssueRepository {
	return &IssueRepository{client: client}
}

func (r *IssueRepository) ListByTeam(ctx context.Context, teamID string) ([]tracker.Issue, error) {
	list, err := r.client.ListDocuments(ctx, CollectionIssues, []Query{
		Equal("teamId", teamID),
	})
	if err != nil {
		return nil, err
	}

	issues := make([]tracker.Issue, 0, len(list.Documents))
	for _, raw := range list.Documents {
		var doc issueDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, shared.ErrRemoteFetch
		}
		issues = append(issues, doc.toDomain())
	}
	return issues, nil
}

func (r *IssueRepository) Create(ctx context.Context, draft tracker.IssueDraft) (tracker.Issue, error) {
	var doc issueDocument
	if err := r.client.CreateDocument(ctx, CollectionIssues, issueCreateData(draft), &doc); err != nil {
		return tracker.Issue{}, err
	}
	return doc.toDomain(), nil
}

func (r *IssueRepository) Update(ctx context.Context, id string, patch tracker.IssuePatch) (tracker.Issue, error) {
	var doc issueDocument
	if err := r.client.UpdateDocument(ctx, CollectionIssues, id, issuePatchData(patch), &doc); err != nil {
		return tracker.Issue{}, err
	}
	return doc.toDomain(), nil
}

func (r *IssueRepository) Delete(ctx context.Context, id string) error {
	return r.client.DeleteDocument(ctx, CollectionIssues, id)
}
