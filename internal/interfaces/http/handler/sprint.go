package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowcraft/backend/internal/application/workspace"
	"github.com/flowcraft/backend/internal/domain/tracker"
	"github.com/flowcraft/backend/internal/interfaces/http/middleware"
)

// SprintHandler handles sprint-related API endpoints
type SprintHandler struct {
	BaseHandler
	coordinator *workspace.Coordinator
}

// NewSprintHandler creates a new SprintHandler
func NewSprintHandler(coordinator *workspace.Coordinator) *SprintHandler {
	return &SprintHandler{coordinator: coordinator}
}

// CreateSprintRequest represents a request to create a new sprint.
// Omitted dates default to now, which yields a zero-length sprint, so
// callers should always supply both.
type CreateSprintRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=500"`
	Description string     `json:"description" binding:"max=5000"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	TeamID      string     `json:"team_id"`
}

// UpdateSprintRequest represents a partial update to a sprint
type UpdateSprintRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Status      *string    `json:"status"`
}

func (r UpdateSprintRequest) toPatch() tracker.SprintPatch {
	patch := tracker.SprintPatch{
		Title:       r.Title,
		Description: r.Description,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
	if r.Status != nil {
		status := tracker.SprintStatus(*r.Status)
		patch.Status = &status
	}
	return patch
}

// List returns the selected team's sprints
func (h *SprintHandler) List(c *gin.Context) {
	sprints := h.coordinator.Sprints()
	out := make([]SprintResponse, 0, len(sprints))
	for _, s := range sprints {
		out = append(out, toSprintResponse(s))
	}
	h.Success(c, out)
}

// Create creates a new sprint in the selected team
func (h *SprintHandler) Create(c *gin.Context) {
	var req CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	draft := tracker.SprintDraft{
		Title:       req.Title,
		Description: req.Description,
		TeamID:      req.TeamID,
	}
	if req.StartDate != nil {
		draft.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		draft.EndDate = *req.EndDate
	}

	sprint, err := h.coordinator.CreateSprint(c.Request.Context(), draft)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toSprintResponse(sprint))
}

// Update applies a partial update to a sprint
func (h *SprintHandler) Update(c *gin.Context) {
	var req UpdateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sprint, err := h.coordinator.EditSprint(c.Request.Context(), c.Param("id"), req.toPatch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSprintResponse(sprint))
}

// Delete removes a sprint
func (h *SprintHandler) Delete(c *gin.Context) {
	if err := h.coordinator.DeleteSprint(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Start transitions a sprint to Active and tracks it as the active one
func (h *SprintHandler) Start(c *gin.Context) {
	sprint, err := h.coordinator.StartSprint(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSprintResponse(sprint))
}

// End transitions a sprint to Completed. Issues keep their sprint
// assignment; ending does not move them back to the backlog.
func (h *SprintHandler) End(c *gin.Context) {
	sprint, err := h.coordinator.EndSprint(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toSprintResponse(sprint))
}

// RegisterRoutes registers all sprint routes
func (h *SprintHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sprints := rg.Group("/sprints")
	{
		sprints.GET("", h.List)
		sprints.POST("", h.Create)
		sprints.PATCH("/:id", h.Update)
		sprints.DELETE("/:id", h.Delete)
		sprints.POST("/:id/start", h.Start)
		sprints.POST("/:id/end", h.End)
	}
}
