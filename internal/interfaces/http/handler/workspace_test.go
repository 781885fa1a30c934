package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcraft/backend/internal/domain/tracker"
)

func TestWorkspaceGet(t *testing.T) {
	e := newEnv(t)

	w, resp := e.request(t, http.MethodGet, "/api/v1/workspace", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view WorkspaceResponse
	decodeData(t, resp, &view)
	assert.Empty(t, view.SelectedTeamID)
	assert.Zero(t, view.Issues)
	assert.Zero(t, view.Sprints)
	assert.Nil(t, view.ActiveSprint)
}

func TestWorkspaceSelectTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("loads the team's issues and sprints", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.store.Issues().Create(ctx, tracker.IssueDraft{Title: "Fix login", TeamID: "team-1"})
		require.NoError(t, err)
		_, err = e.store.Issues().Create(ctx, tracker.IssueDraft{Title: "Other team", TeamID: "team-2"})
		require.NoError(t, err)
		_, err = e.store.Sprints().Create(ctx, tracker.SprintDraft{
			Title:     "Sprint 1",
			TeamID:    "team-1",
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(0, 0, 14),
		})
		require.NoError(t, err)

		w, resp := e.request(t, http.MethodPut, "/api/v1/workspace/team", "user-1", SelectTeamRequest{TeamID: "team-1"})
		require.Equal(t, http.StatusOK, w.Code)

		var view WorkspaceResponse
		decodeData(t, resp, &view)
		assert.Equal(t, "team-1", view.SelectedTeamID)
		assert.Equal(t, 1, view.Issues)
		assert.Equal(t, 1, view.Sprints)
	})

	t.Run("empty team id deselects and clears state", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.store.Issues().Create(ctx, tracker.IssueDraft{Title: "Task", TeamID: "team-1"})
		require.NoError(t, err)
		e.selectTeam(t, "team-1")

		w, resp := e.request(t, http.MethodPut, "/api/v1/workspace/team", "user-1", SelectTeamRequest{})
		require.Equal(t, http.StatusOK, w.Code)

		var view WorkspaceResponse
		decodeData(t, resp, &view)
		assert.Empty(t, view.SelectedTeamID)
		assert.Zero(t, view.Issues)
	})

	t.Run("loads the project bucket for the new team", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.store.Projects().Create(ctx, tracker.ProjectDraft{
			TeamID: "team-1", Name: "Rollout", OwnerID: "user-1", Status: tracker.ProjectStatusPlanned,
		})
		require.NoError(t, err)

		w, _ := e.request(t, http.MethodPut, "/api/v1/workspace/team", "user-1", SelectTeamRequest{TeamID: "team-1"})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, e.cache.Projects(), 1)
	})

	t.Run("reports the active sprint after starting one", func(t *testing.T) {
		e := newEnv(t)
		sprint, err := e.store.Sprints().Create(ctx, tracker.SprintDraft{
			Title:     "Sprint 1",
			TeamID:    "team-1",
			StartDate: time.Now(),
			EndDate:   time.Now().AddDate(0, 0, 7),
		})
		require.NoError(t, err)
		e.selectTeam(t, "team-1")
		_, err = e.coord.StartSprint(ctx, sprint.ID)
		require.NoError(t, err)

		w, resp := e.request(t, http.MethodGet, "/api/v1/workspace", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var view WorkspaceResponse
		decodeData(t, resp, &view)
		require.NotNil(t, view.ActiveSprint)
		assert.Equal(t, sprint.ID, view.ActiveSprint.ID)
		assert.Equal(t, string(tracker.SprintStatusActive), view.ActiveSprint.Status)
	})
}
