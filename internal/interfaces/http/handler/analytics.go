package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/flowcraft/backend/internal/application/analytics"
	"github.com/flowcraft/backend/internal/application/teams"
	"github.com/flowcraft/backend/internal/application/workspace"
)

// AnalyticsHandler serves the derived dashboard metrics for the
// selected team. All numbers are recomputed per request from the
// coordinator's in-memory collections.
type AnalyticsHandler struct {
	BaseHandler
	coordinator *workspace.Coordinator
	teams       *teams.Service
	logger      *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(coordinator *workspace.Coordinator, teamService *teams.Service, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{coordinator: coordinator, teams: teamService, logger: logger}
}

// DashboardResponse bundles every analytics view in one payload
type DashboardResponse struct {
	Overview             analytics.Overview            `json:"overview"`
	Engineers            []analytics.EngineerStats     `json:"engineers"`
	SprintPerformance    []analytics.SprintPerformance `json:"sprint_performance"`
	PriorityDistribution []analytics.DistributionEntry `json:"priority_distribution"`
	StatusDistribution   []analytics.DistributionEntry `json:"status_distribution"`
	KeyIndicators        analytics.KeyIndicators       `json:"key_indicators"`
}

// Dashboard returns the full analytics dashboard for the selected team.
// Member names label the per-engineer rows; a failed name lookup
// degrades to raw user ids rather than failing the request.
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	issues := h.coordinator.Issues()
	sprints := h.coordinator.Sprints()

	var names map[string]string
	if teamID := h.coordinator.SelectedTeamID(); teamID != "" {
		var err error
		if names, err = h.teams.MemberNames(c.Request.Context(), teamID); err != nil {
			h.logger.Warn("falling back to user ids for engineer names",
				zap.String("team_id", teamID),
				zap.Error(err))
			names = nil
		}
	}

	engineers := analytics.ComputeEngineerStats(issues, sprints, names)
	performance := analytics.ComputeSprintPerformance(issues, sprints)

	h.Success(c, DashboardResponse{
		Overview:             analytics.ComputeOverview(issues),
		Engineers:            engineers,
		SprintPerformance:    performance,
		PriorityDistribution: analytics.PriorityDistribution(issues),
		StatusDistribution:   analytics.StatusDistribution(issues),
		KeyIndicators:        analytics.ComputeKeyIndicators(performance, engineers),
	})
}

// Engineers returns only the per-engineer stats
func (h *AnalyticsHandler) Engineers(c *gin.Context) {
	issues := h.coordinator.Issues()
	sprints := h.coordinator.Sprints()
	h.Success(c, analytics.ComputeEngineerStats(issues, sprints, nil))
}

// Sprints returns only the per-sprint performance rows
func (h *AnalyticsHandler) Sprints(c *gin.Context) {
	h.Success(c, analytics.ComputeSprintPerformance(h.coordinator.Issues(), h.coordinator.Sprints()))
}

// RegisterRoutes registers all analytics routes
func (h *AnalyticsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/analytics")
	{
		group.GET("", h.Dashboard)
		group.GET("/engineers", h.Engineers)
		group.GET("/sprints", h.Sprints)
	}
}
