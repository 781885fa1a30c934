package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowcraft/backend/internal/application/projects"
	"github.com/flowcraft/backend/internal/application/workspace"
	"github.com/flowcraft/backend/internal/domain/tracker"
	"github.com/flowcraft/backend/internal/interfaces/http/middleware"
)

// WorkspaceHandler exposes the active-team selection and the derived
// workspace view.
type WorkspaceHandler struct {
	BaseHandler
	coordinator *workspace.Coordinator
	projects    *projects.Cache
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(coordinator *workspace.Coordinator, cache *projects.Cache) *WorkspaceHandler {
	return &WorkspaceHandler{coordinator: coordinator, projects: cache}
}

// SelectTeamRequest selects the active team. An empty team id deselects.
type SelectTeamRequest struct {
	TeamID string `json:"team_id"`
}

// WorkspaceResponse is the current workspace snapshot
type WorkspaceResponse struct {
	SelectedTeamID string          `json:"selected_team_id"`
	Loading        bool            `json:"loading"`
	Issues         int             `json:"issue_count"`
	Sprints        int             `json:"sprint_count"`
	ActiveSprint   *SprintResponse `json:"active_sprint"`
}

// Get returns the workspace snapshot for the selected team
func (h *WorkspaceHandler) Get(c *gin.Context) {
	resp := WorkspaceResponse{
		SelectedTeamID: h.coordinator.SelectedTeamID(),
		Loading:        h.coordinator.Loading(),
		Issues:         len(h.coordinator.Issues()),
		Sprints:        len(h.coordinator.Sprints()),
	}
	if active := h.coordinator.ActiveSprint(); active != nil {
		view := toSprintResponse(*active)
		resp.ActiveSprint = &view
	}
	h.Success(c, resp)
}

// SelectTeam switches the active team, reloading issues and sprints
func (h *WorkspaceHandler) SelectTeam(c *gin.Context) {
	var req SelectTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if err := h.coordinator.SelectTeam(c.Request.Context(), req.TeamID); err != nil {
		h.HandleError(c, err)
		return
	}
	if req.TeamID != "" {
		h.projects.LoadProjects(c.Request.Context(), req.TeamID, getUserID(c))
	}
	h.Get(c)
}

// RegisterRoutes registers workspace routes
func (h *WorkspaceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ws := rg.Group("/workspace")
	{
		ws.GET("", h.Get)
		ws.PUT("/team", h.SelectTeam)
	}
}

// SprintResponse represents a sprint in API responses
type SprintResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	TeamID      string    `json:"team_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toSprintResponse(s tracker.Sprint) SprintResponse {
	return SprintResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		TeamID:      s.TeamID,
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// IssueResponse represents an issue in API responses
type IssueResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Status         string    `json:"status"`
	Priority       int       `json:"priority"`
	TeamID         string    `json:"team_id"`
	SprintID       string    `json:"sprint_id,omitempty"`
	AssignedUserID string    `json:"assigned_user_id,omitempty"`
	ProjectID      string    `json:"project_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toIssueResponse(i tracker.Issue) IssueResponse {
	return IssueResponse{
		ID:             i.ID,
		Title:          i.Title,
		Description:    i.Description,
		Status:         string(i.Status),
		Priority:       i.Priority,
		TeamID:         i.TeamID,
		SprintID:       i.SprintID,
		AssignedUserID: i.AssignedUserID,
		ProjectID:      i.ProjectID,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

func toIssueResponses(issues []tracker.Issue) []IssueResponse {
	out := make([]IssueResponse, 0, len(issues))
	for _, i := range issues {
		out = append(out, toIssueResponse(i))
	}
	return out
}
