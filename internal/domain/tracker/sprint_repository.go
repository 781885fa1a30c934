package tracker

import "context"

// SprintRepository provides access to sprint documents in the remote store.
type SprintRepository interface {
	ListByTeam(ctx context.Context, teamID string) ([]Sprint, error)
	Create(ctx context.Context, draft SprintDraft) (Sprint, error)
	Update(ctx context.Context, id string, patch SprintPatch) (Sprint, error)
	Delete(ctx context.Context, id string) error
}
