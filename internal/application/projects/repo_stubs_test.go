package projects

import (
	"context"

	"github.com/flowcraft/backend/internal/domain/shared"
	"github.com/flowcraft/backend/internal/domain/tracker"
)

// failingProjectRepo fails every operation, simulating an unreachable
// backend.
type failingProjectRepo struct{}

func (failingProjectRepo) ListByTeam(context.Context, string, string) ([]tracker.Project, error) {
	return nil, shared.ErrRemoteFetch
}

func (failingProjectRepo) GetByID(context.Context, string, string) (tracker.Project, error) {
	return tracker.Project{}, shared.ErrRemoteFetch
}

func (failingProjectRepo) Directory(context.Context, tracker.ProjectDirectoryQuery) (tracker.ProjectDirectoryResult, error) {
	return tracker.ProjectDirectoryResult{}, shared.ErrRemoteFetch
}

func (failingProjectRepo) Create(context.Context, tracker.ProjectDraft) (tracker.Project, error) {
	return tracker.Project{}, shared.ErrRemoteWrite
}

func (failingProjectRepo) Update(context.Context, string, tracker.ProjectPatch) (tracker.Project, error) {
	return tracker.Project{}, shared.ErrRemoteWrite
}

func (failingProjectRepo) Delete(context.Context, string) error {
	return shared.ErrRemoteWrite
}
