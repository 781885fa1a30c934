package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/flowcraft/backend/internal/application/workspace"
	"github.com/flowcraft/backend/internal/domain/tracker"
	"github.com/flowcraft/backend/internal/interfaces/http/middleware"
)

// IssueHandler handles issue-related API endpoints
type IssueHandler struct {
	BaseHandler
	coordinator *workspace.Coordinator
}

// NewIssueHandler creates a new IssueHandler
func NewIssueHandler(coordinator *workspace.Coordinator) *IssueHandler {
	return &IssueHandler{coordinator: coordinator}
}

// CreateIssueRequest represents a request to create a new issue.
// Status defaults to Todo and priority to 3 when omitted; team id
// defaults to the selected team.
type CreateIssueRequest struct {
	Title          string `json:"title" binding:"required,min=1,max=500"`
	Description    string `json:"description" binding:"max=5000"`
	Status         string `json:"status"`
	Priority       int    `json:"priority" binding:"omitempty,min=1,max=5"`
	TeamID         string `json:"team_id"`
	SprintID       string `json:"sprint_id"`
	AssignedUserID string `json:"assigned_user_id"`
	ProjectID      string `json:"project_id"`
}

// UpdateIssueRequest represents a partial update. Omitted fields are
// left untouched; an explicit empty string on a reference field clears
// it on the remote document.
type UpdateIssueRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	Status         *string `json:"status"`
	Priority       *int    `json:"priority"`
	SprintID       *string `json:"sprint_id"`
	AssignedUserID *string `json:"assigned_user_id"`
	ProjectID      *string `json:"project_id"`
}

func (r UpdateIssueRequest) toPatch() tracker.IssuePatch {
	patch := tracker.IssuePatch{
		Title:          r.Title,
		Description:    r.Description,
		Priority:       r.Priority,
		SprintID:       r.SprintID,
		AssignedUserID: r.AssignedUserID,
		ProjectID:      r.ProjectID,
	}
	if r.Status != nil {
		status := tracker.IssueStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// AssignSprintRequest moves an issue into a sprint; an empty sprint id
// moves it back to the backlog.
type AssignSprintRequest struct {
	SprintID string `json:"sprint_id"`
}

// List returns the selected team's issues
func (h *IssueHandler) List(c *gin.Context) {
	h.Success(c, toIssueResponses(h.coordinator.Issues()))
}

// Create creates a new issue in the selected team
func (h *IssueHandler) Create(c *gin.Context) {
	var req CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	issue, err := h.coordinator.CreateIssue(c.Request.Context(), tracker.IssueDraft{
		Title:          req.Title,
		Description:    req.Description,
		Status:         tracker.IssueStatus(req.Status),
		Priority:       req.Priority,
		TeamID:         req.TeamID,
		SprintID:       req.SprintID,
		AssignedUserID: req.AssignedUserID,
		ProjectID:      req.ProjectID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toIssueResponse(issue))
}

// Update applies a partial update to an issue
func (h *IssueHandler) Update(c *gin.Context) {
	var req UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	issue, err := h.coordinator.EditIssue(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toIssueResponse(issue))
}

// Delete removes an issue
func (h *IssueHandler) Delete(c *gin.Context) {
	if err := h.coordinator.DeleteIssue(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AssignSprint moves an issue into or out of a sprint
func (h *IssueHandler) AssignSprint(c *gin.Context) {
	var req AssignSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	issue, err := h.coordinator.AssignToSprint(c.Request.Context(), c.Param("id"), req.SprintID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toIssueResponse(issue))
}

// RegisterRoutes registers all issue routes
func (h *IssueHandler) RegisterRoutes(rg *gin.RouterGroup) {
	issues := rg.Group("/issues")
	{
		issues.GET("", h.List)
		issues.POST("", h.Create)
		issues.PATCH("/:id", h.Update)
		issues.DELETE("/:id", h.Delete)
		issues.PUT("/:id/sprint", h.AssignSprint)
	}
}
