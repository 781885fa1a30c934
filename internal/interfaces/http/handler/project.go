package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowcraft/backend/internal/application/projects"
	"github.com/flowcraft/backend/internal/domain/tracker"
	"github.com/flowcraft/backend/internal/interfaces/http/middleware"
)

// ProjectHandler handles project-related API endpoints. Team-scoped
// reads go through the cache; the directory view queries the repository
// directly since it spans teams and pages.
type ProjectHandler struct {
	BaseHandler
	cache *projects.Cache
	repo  tracker.ProjectRepository
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(cache *projects.Cache, repo tracker.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{cache: cache, repo: repo}
}

// CreateProjectRequest represents a request to create a new project.
// With no team id the selected team is used; with neither a team nor an
// explicit private flag the request is rejected.
type CreateProjectRequest struct {
	TeamID      *string    `json:"team_id"`
	Name        string     `json:"name" binding:"required,min=1,max=500"`
	Description string     `json:"description" binding:"max=5000"`
	OwnerName   string     `json:"owner_name"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	IsPrivate   *bool      `json:"is_private"`
}

// UpdateProjectRequest represents a partial update to a project
type UpdateProjectRequest struct {
	TeamID      *string    `json:"team_id"`
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	OwnerName   *string    `json:"owner_name"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	IsPrivate   *bool      `json:"is_private"`
}

func (r UpdateProjectRequest) toPatch() tracker.ProjectPatch {
	patch := tracker.ProjectPatch{
		TeamID:      r.TeamID,
		Name:        r.Name,
		Description: r.Description,
		OwnerName:   r.OwnerName,
		StartDate:   r.StartDate,
		DueDate:     r.DueDate,
		IsPrivate:   r.IsPrivate,
	}
	if r.Status != nil {
		status := tracker.ProjectStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// DirectoryRequest holds the directory listing query parameters
type DirectoryRequest struct {
	Page        int    `form:"page" binding:"min=0"`
	Limit       int    `form:"limit" binding:"min=0,max=100"`
	Status      string `form:"status"`
	OwnerID     string `form:"owner_id"`
	TeamID      string `form:"team_id"`
	PrivateOnly bool   `form:"private_only"`
	DateFilter  string `form:"date_filter" binding:"omitempty,oneof=all overdue this-quarter"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          string     `json:"id"`
	TeamID      string     `json:"team_id,omitempty"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	OwnerID     string     `json:"owner_id"`
	OwnerName   string     `json:"owner_name,omitempty"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	IsPrivate   bool       `json:"is_private"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toProjectResponse(p tracker.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		TeamID:      p.TeamID,
		Name:        p.Name,
		Description: p.Description,
		OwnerID:     p.OwnerID,
		OwnerName:   p.OwnerName,
		Status:      string(p.Status),
		StartDate:   p.StartDate,
		DueDate:     p.DueDate,
		IsPrivate:   p.IsPrivate,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProjectResponses(list []tracker.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProjectResponse(p))
	}
	return out
}

// ProgressResponse reports the completion percentage of one project
type ProgressResponse struct {
	ProjectID string `json:"project_id"`
	Progress  int    `json:"progress"`
}

// AssignmentsResponse is the issue to project assignment view of the
// selected team's bucket
type AssignmentsResponse struct {
	Assignments map[string]string `json:"assignments"`
}

// List returns the selected team's cached projects
func (h *ProjectHandler) List(c *gin.Context) {
	h.Success(c, toProjectResponses(h.cache.Projects()))
}

// Directory returns a filtered, paginated page of visible projects
func (h *ProjectHandler) Directory(c *gin.Context) {
	req := DirectoryRequest{DateFilter: string(tracker.DateFilterAll)}
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.Limit == 0 {
		req.Limit = 10
	}

	result, err := h.repo.Directory(c.Request.Context(), tracker.ProjectDirectoryQuery{
		Page:        req.Page,
		Limit:       req.Limit,
		Status:      tracker.ProjectStatus(req.Status),
		OwnerID:     req.OwnerID,
		TeamID:      req.TeamID,
		PrivateOnly: req.PrivateOnly,
		DateFilter:  tracker.ProjectDateFilter(req.DateFilter),
		ViewerID:    getUserID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, toProjectResponses(result.Projects), result.Total, req.Page, req.Limit)
}

// GetByID returns a single project, honoring the privacy rule
func (h *ProjectHandler) GetByID(c *gin.Context) {
	project, err := h.repo.GetByID(c.Request.Context(), c.Param("id"), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProjectResponse(project))
}

// Create creates a new project owned by the caller
func (h *ProjectHandler) Create(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		h.Unauthorized(c, "A user id is required to own a project")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	project, err := h.cache.CreateProject(c.Request.Context(), projects.ProjectInput{
		TeamID:      req.TeamID,
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
		OwnerName:   req.OwnerName,
		Status:      tracker.ProjectStatus(req.Status),
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProjectResponse(project))
}

// Update applies a partial update to a project
func (h *ProjectHandler) Update(c *gin.Context) {
	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	project, err := h.cache.UpdateProject(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProjectResponse(project))
}

// Delete removes a project and detaches its issues
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.cache.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Progress reports the project's completion percentage
func (h *ProjectHandler) Progress(c *gin.Context) {
	h.Success(c, ProgressResponse{
		ProjectID: c.Param("id"),
		Progress:  h.cache.ProjectProgress(c.Param("id")),
	})
}

// Issues lists the issues currently associated with the project
func (h *ProjectHandler) Issues(c *gin.Context) {
	h.Success(c, toIssueResponses(h.cache.IssuesForProject(c.Param("id"))))
}

// Assignments returns the issue to project assignment map for the
// selected team
func (h *ProjectHandler) Assignments(c *gin.Context) {
	h.Success(c, AssignmentsResponse{Assignments: h.cache.Assignments()})
}

// AssignIssue links an issue to the project
func (h *ProjectHandler) AssignIssue(c *gin.Context) {
	err := h.cache.AssignIssueToProject(c.Request.Context(), c.Param("issue_id"), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UnassignIssue clears the issue's project reference
func (h *ProjectHandler) UnassignIssue(c *gin.Context) {
	err := h.cache.RemoveIssueFromProject(c.Request.Context(), c.Param("issue_id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers all project routes
func (h *ProjectHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/projects")
	{
		group.GET("", h.List)
		group.GET("/directory", h.Directory)
		group.GET("/assignments", h.Assignments)
		group.POST("", h.Create)
		group.GET("/:id", h.GetByID)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
		group.GET("/:id/progress", h.Progress)
		group.GET("/:id/issues", h.Issues)
		group.PUT("/:id/issues/:issue_id", h.AssignIssue)
		group.DELETE("/:id/issues/:issue_id", h.UnassignIssue)
	}
}
