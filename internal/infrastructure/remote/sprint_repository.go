package remote

import (
	"context"
	"encoding/json"

	"github.com/flowcraft/backend/internal/domain/shared"
	"github.com/flowcraft/backend/internal/domain/tracker"
)

// SprintRepository implements tracker.SprintRepository against the remote
// document store.
type SprintRepository struct {
	client *Client
}

// NewSprintRepository creates a sprint repository backed by the client.
func NewSprintRepository(client *Client) *SprintRepository {
	return &SprintRepository{client: client}
}

func (r *SprintRepository) ListByTeam(ctx context.Context, teamID string) ([]tracker.Sprint, error) {
	list, err := r.client.ListDocuments(ctx, CollectionSprints, []Query{
		Equal("teamId", teamID),
	})
	if err != nil {
		return nil, err
	}

	sprints := make([]tracker.Sprint, 0, len(list.Documents))
	for _, raw := range list.Documents {
		var doc sprintDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, shared.ErrRemoteFetch
		}
		sprints = append(sprints, doc.toDomain())
	}
	return sprints, nil
}

func (r *SprintRepository) Create(ctx context.Context, draft tracker.SprintDraft) (tracker.Sprint, error) {
	var doc sprintDocument
	if err := r.client.CreateDocument(ctx, CollectionSprints, sprintCreateData(draft), &doc); err != nil {
		return tracker.Sprint{}, err
	}
	return doc.toDomain(), nil
}

func (r *SprintRepository) Update(ctx context.Context, id string, patch tracker.SprintPatch) (tracker.Sprint, error) {
	var doc sprintDocument
	if err := r.client.UpdateDocument(ctx, CollectionSprints, id, sprintPatchData(patch), &doc); err != nil {
		return tracker.Sprint{}, err
	}
	return doc.toDomain(), nil
}

func (r *SprintRepository) Delete(ctx context.Context, id string) error {
	return r.client.DeleteDocument(ctx, CollectionSprints, id)
}
