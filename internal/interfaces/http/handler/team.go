package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowcraft/backend/internal/application/teams"
	"github.com/flowcraft/backend/internal/domain/identity"
	"github.com/flowcraft/backend/internal/interfaces/http/middleware"
)

// TeamHandler handles team and membership API endpoints
type TeamHandler struct {
	BaseHandler
	service *teams.Service
}

// NewTeamHandler creates a new TeamHandler
func NewTeamHandler(service *teams.Service) *TeamHandler {
	return &TeamHandler{service: service}
}

// CreateTeamRequest represents a request to create a new team
type CreateTeamRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=128"`
	Description string   `json:"description" binding:"max=2000"`
	Roles       []string `json:"roles"`
}

// InviteRequest represents an email invitation to join a team
type InviteRequest struct {
	Email       string   `json:"email" binding:"required,email"`
	Name        string   `json:"name"`
	Roles       []string `json:"roles"`
	RedirectURL string   `json:"redirect_url" binding:"omitempty,url"`
}

// UpdateRolesRequest replaces a member's roles
type UpdateRolesRequest struct {
	Roles []string `json:"roles" binding:"required,min=1"`
}

// AcceptInvitationRequest confirms a pending membership with the secret
// from the invitation email
type AcceptInvitationRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Secret string `json:"secret" binding:"required"`
}

// TeamResponse represents a team in API responses
type TeamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Total       int       `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTeamResponse(t identity.Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description(),
		Total:       t.Total,
		CreatedAt:   t.CreatedAt,
	}
}

// MembershipResponse represents a membership in API responses
type MembershipResponse struct {
	ID        string    `json:"id"`
	TeamID    string    `json:"team_id"`
	TeamName  string    `json:"team_name,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	UserName  string    `json:"user_name,omitempty"`
	UserEmail string    `json:"user_email,omitempty"`
	Roles     []string  `json:"roles"`
	Confirmed bool      `json:"confirmed"`
	InvitedAt time.Time `json:"invited_at"`
	JoinedAt  time.Time `json:"joined_at,omitempty"`
}

func toMembershipResponse(m identity.Membership) MembershipResponse {
	return MembershipResponse{
		ID:        m.ID,
		TeamID:    m.TeamID,
		TeamName:  m.TeamName,
		UserID:    m.UserID,
		UserName:  m.UserName,
		UserEmail: m.UserEmail,
		Roles:     m.Roles,
		Confirmed: m.Confirmed,
		InvitedAt: m.InvitedAt,
		JoinedAt:  m.JoinedAt,
	}
}

func toMembershipResponses(list []identity.Membership) []MembershipResponse {
	out := make([]MembershipResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMembershipResponse(m))
	}
	return out
}

// List returns all teams the caller belongs to
func (h *TeamHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	out := make([]TeamResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTeamResponse(t))
	}
	h.Success(c, out)
}

// GetByID returns a single team
func (h *TeamHandler) GetByID(c *gin.Context) {
	team, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toTeamResponse(team))
}

// Create creates a new team owned by the caller
func (h *TeamHandler) Create(c *gin.Context) {
	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	team, err := h.service.Create(c.Request.Context(), req.Name, req.Description, req.Roles)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toTeamResponse(team))
}

// Delete removes a team and all of its memberships
func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Members lists the confirmed members of a team
func (h *TeamHandler) Members(c *gin.Context) {
	members, err := h.service.Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMembershipResponses(members))
}

// Memberships lists all memberships of a team, pending included
func (h *TeamHandler) Memberships(c *gin.Context) {
	memberships, err := h.service.Memberships(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMembershipResponses(memberships))
}

// Invite sends an email invitation to join the team
func (h *TeamHandler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	membership, err := h.service.Invite(c.Request.Context(), c.Param("id"), identity.MembershipInvite{
		Email:       req.Email,
		Name:        req.Name,
		Roles:       req.Roles,
		RedirectURL: req.RedirectURL,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toMembershipResponse(membership))
}

// UpdateRoles replaces a member's roles
func (h *TeamHandler) UpdateRoles(c *gin.Context) {
	var req UpdateRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	membership, err := h.service.UpdateMemberRoles(c.Request.Context(), c.Param("id"), c.Param("membership_id"), req.Roles)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMembershipResponse(membership))
}

// Accept confirms a pending invitation
func (h *TeamHandler) Accept(c *gin.Context) {
	var req AcceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	membership, err := h.service.AcceptInvitation(c.Request.Context(), c.Param("id"), c.Param("membership_id"), req.UserID, req.Secret)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMembershipResponse(membership))
}

// RemoveMember removes a member or declines a pending invitation
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	if err := h.service.RemoveMember(c.Request.Context(), c.Param("id"), c.Param("membership_id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PendingInvitations lists the caller's unconfirmed memberships
func (h *TeamHandler) PendingInvitations(c *gin.Context) {
	pending, err := h.service.PendingInvitations(c.Request.Context(), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMembershipResponses(pending))
}

// RegisterRoutes registers all team routes
func (h *TeamHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/teams")
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.GetByID)
		group.DELETE("/:id", h.Delete)
		group.GET("/:id/members", h.Members)
		group.GET("/:id/memberships", h.Memberships)
		group.POST("/:id/invitations", h.Invite)
		group.PATCH("/:id/memberships/:membership_id", h.UpdateRoles)
		group.POST("/:id/memberships/:membership_id/accept", h.Accept)
		group.DELETE("/:id/memberships/:membership_id", h.RemoveMember)
	}
	rg.GET("/invitations", h.PendingInvitations)
}
