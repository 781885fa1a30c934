package tracker

import "context"

// IssueRepository provides access to issue documents in the remote store.
// List failures must surface as errors ("could not load"), never as an
// empty collection.
type IssueRepository interface {
	// ListByTeam returns all issues owned by the team.
	ListByTeam(ctx context.Context, teamID string) ([]Issue, error)

	// Create stores a new issue and returns it with its server-assigned
	// identity and timestamps.
	Create(ctx context.Context, draft IssueDraft) (Issue, error)

	// Update applies a partial update; fields not present in the patch
	// retain their prior server values.
	Update(ctx context.Context, id string, patch IssuePatch) (Issue, error)

	// Delete removes the issue. Deleting a nonexistent id fails with
	// shared.ErrRemoteNotFound.
	Delete(ctx context.Context, id string) error
}
