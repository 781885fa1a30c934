package workspace

import (
	"context"
	"sync/atomic"

	"github.com/flowcraft/backend/internal/domain/shared"
	"github.com/flowcraft/backend/internal/domain/tracker"
)

// failingIssueRepo rejects every operation with a backend failure.
type failingIssueRepo struct{}

func (failingIssueRepo) ListByTeam(ctx context.Context, teamID string) ([]tracker.Issue, error) {
	return nil, shared.ErrRemoteFetch
}

func (failingIssueRepo) Create(ctx context.Context, draft tracker.IssueDraft) (tracker.Issue, error) {
	return tracker.Issue{}, shared.ErrRemoteWrite
}

func (failingIssueRepo) Update(ctx context.Context, id string, patch tracker.IssuePatch) (tracker.Issue, error) {
	return tracker.Issue{}, shared.ErrRemoteWrite
}

func (failingIssueRepo) Delete(ctx context.Context, id string) error {
	return shared.ErrRemoteWrite
}

// gatedIssueRepo blocks list calls for one team until the gate closes,
// simulating a slow backend response during a team switch.
type gatedIssueRepo struct {
	inner    tracker.IssueRepository
	gate     chan struct{}
	slowTeam string
	started  atomic.Bool
}

func (r *gatedIssueRepo) ListByTeam(ctx context.Context, teamID string) ([]tracker.Issue, error) {
	if teamID == r.slowTeam {
		r.started.Store(true)
		<-r.gate
	}
	return r.inner.ListByTeam(ctx, teamID)
}

func (r *gatedIssueRepo) Create(ctx context.Context, draft tracker.IssueDraft) (tracker.Issue, error) {
	return r.inner.Create(ctx, draft)
}

func (r *gatedIssueRepo) Update(ctx context.Context, id string, patch tracker.IssuePatch) (tracker.Issue, error) {
	return r.inner.Update(ctx, id, patch)
}

func (r *gatedIssueRepo) Delete(ctx context.Context, id string) error {
	return r.inner.Delete(ctx, id)
}
