package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowcraft/backend/internal/application/projects"
	"github.com/flowcraft/backend/internal/application/teams"
	"github.com/flowcraft/backend/internal/application/workspace"
	"github.com/flowcraft/backend/internal/infrastructure/keyvalue"
	"github.com/flowcraft/backend/internal/infrastructure/memstore"
	"github.com/flowcraft/backend/internal/interfaces/http/dto"
)

// env wires every handler over the in-memory store, mirroring the
// production composition in cmd/server.
type env struct {
	store  *memstore.Store
	coord  *workspace.Coordinator
	cache  *projects.Cache
	teams  *teams.Service
	router *gin.Engine
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memstore.New()
	coord := workspace.NewCoordinator(store.Issues(), store.Sprints(), keyvalue.NewMemorySlot(), zap.NewNop())
	cache := projects.NewCache(store.Projects(), coord, zap.NewNop())
	teamService := teams.NewService(store.Teams(), zap.NewNop())

	router := gin.New()
	api := router.Group("/api/v1")
	NewWorkspaceHandler(coord, cache).RegisterRoutes(api)
	NewIssueHandler(coord).RegisterRoutes(api)
	NewSprintHandler(coord).RegisterRoutes(api)
	NewProjectHandler(cache, store.Projects()).RegisterRoutes(api)
	NewTeamHandler(teamService).RegisterRoutes(api)
	NewAnalyticsHandler(coord, teamService, zap.NewNop()).RegisterRoutes(api)

	return &env{store: store, coord: coord, cache: cache, teams: teamService, router: router}
}

func (e *env) selectTeam(t *testing.T, teamID string) {
	t.Helper()
	require.NoError(t, e.coord.SelectTeam(context.Background(), teamID))
}

// request performs an API call as the given user and decodes the
// envelope. An empty userID sends no identity header.
func (e *env) request(t *testing.T, method, path, userID string, body interface{}) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var resp dto.Response
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func boolptr(b bool) *bool { return &b }

// decodeData remarshals the envelope's data field into out.
func decodeData(t *testing.T, resp dto.Response, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}
