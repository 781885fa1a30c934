package remote

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/flowcraft/backend/internal/domain/identity"
	"github.com/flowcraft/backend/internal/domain/shared"
)

// TeamDirectory implements identity.TeamDirectory against the remote
// membership service.
type TeamDirectory struct {
	client *Client
	logger *zap.Logger
}

// NewTeamDirectory creates a directory backed by the client.
func NewTeamDirectory(client *Client, logger *zap.Logger) *TeamDirectory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamDirectory{client: client, logger: logger}
}

type teamResource struct {
	ID        string            `json:"$id"`
	CreatedAt time.Time         `json:"$createdAt"`
	Name      string            `json:"name"`
	Total     int               `json:"total"`
	Prefs     map[string]string `json:"prefs"`
}

func (t teamResource) toDomain() identity.Team {
	return identity.Team{
		ID:        t.ID,
		Name:      t.Name,
		Total:     t.Total,
		Prefs:     t.Prefs,
		CreatedAt: t.CreatedAt,
	}
}

type membershipResource struct {
	ID        string    `json:"$id"`
	TeamID    string    `json:"teamId"`
	TeamName  string    `json:"teamName"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	Roles     []string  `json:"roles"`
	Confirm   bool      `json:"confirm"`
	Invited   time.Time `json:"invited"`
	Joined    time.Time `json:"joined"`
}

func (m membershipResource) toDomain() identity.Membership {
	return identity.Membership{
		ID:        m.ID,
		TeamID:    m.TeamID,
		TeamName:  m.TeamName,
		UserID:    m.UserID,
		UserName:  m.UserName,
		UserEmail: m.UserEmail,
		Roles:     m.Roles,
		Confirmed: m.Confirm,
		InvitedAt: m.Invited,
		JoinedAt:  m.Joined,
	}
}

func (d *TeamDirectory) teamsURL(parts ...string) string {
	u := d.client.cfg.Endpoint + "/v1/teams"
	for _, p := range parts {
		u += "/" + url.PathEscape(p)
	}
	return u
}

func (d *TeamDirectory) List(ctx context.Context) ([]identity.Team, error) {
	var resp struct {
		Total int            `json:"total"`
		Teams []teamResource `json:"teams"`
	}
	if err := d.client.do(ctx, "GET", d.teamsURL(), nil, &resp); err != nil {
		d.logger.Error("team list failed", zap.Error(err))
		return nil, asRemoteError(err, shared.ErrRemoteFetch)
	}
	teams := make([]identity.Team, 0, len(resp.Teams))
	for _, t := range resp.Teams {
		teams = append(teams, t.toDomain())
	}
	return teams, nil
}

func (d *TeamDirectory) Get(ctx context.Context, teamID string) (identity.Team, error) {
	var resource teamResource
	if err := d.client.do(ctx, "GET", d.teamsURL(teamID), nil, &resource); err != nil {
		d.logger.Error("team get failed", zap.String("team", teamID), zap.Error(err))
		return identity.Team{}, asRemoteError(err, shared.ErrRemoteFetch)
	}
	return resource.toDomain(), nil
}

func (d *TeamDirectory) Create(ctx context.Context, teamID, name string, roles []string) (identity.Team, error) {
	body := map[string]any{
		"teamId": teamID,
		"name":   name,
		"roles":  roles,
	}
	var resource teamResource
	if err := d.client.do(ctx, "POST", d.teamsURL(), body, &resource); err != nil {
		d.logger.Error("team create failed", zap.String("name", name), zap.Error(err))
		return identity.Team{}, asRemoteError(err, shared.ErrRemoteWrite)
	}
	return resource.toDomain(), nil
}

func (d *TeamDirectory) UpdatePrefs(ctx context.Context, teamID string, prefs map[string]string) error {
	body := map[string]any{"prefs": prefs}
	if err := d.client.do(ctx, "PUT", d.teamsURL(teamID, "prefs"), body, nil); err != nil {
		d.logger.Error("team prefs update failed", zap.String("team", teamID), zap.Error(err))
		return asRemoteError(err, shared.ErrRemoteWrite)
	}
	return nil
}

func (d *TeamDirectory) Delete(ctx context.Context, teamID string) error {
	if err := d.client.do(ctx, "DELETE", d.teamsURL(teamID), nil, nil); err != nil {
		d.logger.Error("team delete failed", zap.String("team", teamID), zap.Error(err))
		return asRemoteError(err, shared.ErrRemoteWrite)
	}
	return nil
}

func (d *TeamDirectory) ListMemberships(ctx context.Context, teamID string) ([]identity.Membership, error) {
	var resp struct {
		Total       int                  `json:"total"`
		Memberships []membershipResource `json:"memberships"`
	}
	if err := d.client.do(ctx, "GET", d.teamsURL(teamID, "memberships"), nil, &resp); err != nil {
		d.logger.Error("membership list failed", zap.String("team", teamID), zap.Error(err))
		return nil, asRemoteError(err, shared.ErrRemoteFetch)
	}
	members := make([]identity.Membership, 0, len(resp.Memberships))
	for _, m := range resp.Memberships {
		members = append(members, m.toDomain())
	}
	return members, nil
}

func (d *TeamDirectory) CreateMembership(ctx context.Context, teamID string, invite identity.MembershipInvite) (identity.Membership, error) {
	body := map[string]any{
		"email": invite.Email,
		"name":  invite.Name,
		"roles": invite.Roles,
		"url":   invite.RedirectURL,
	}
	var resource membershipResource
	if err := d.client.do(ctx, "POST", d.teamsURL(teamID, "memberships"), body, &resource); err != nil {
		d.logger.Error("membership create failed",
			zap.String("team", teamID),
			zap.Error(err))
		return identity.Membership{}, asRemoteError(err, shared.ErrRemoteWrite)
	}
	return resource.toDomain(), nil
}

func (d *TeamDirectory) UpdateMembership(ctx context.Context, teamID, membershipID string, roles []string) (identity.Membership, error) {
	body := map[string]any{"roles": roles}
	var resource membershipResource
	err := d.client.do(ctx, "PATCH", d.teamsURL(teamID, "memberships", membershipID), body, &resource)
	if err != nil {
		d.logger.Error("membership update failed",
			zap.String("team", teamID),
			zap.String("membership", membershipID),
			zap.Error(err))
		return identity.Membership{}, asRemoteError(err, shared.ErrRemoteWrite)
	}
	return resource.toDomain(), nil
}

func (d *TeamDirectory) UpdateMembershipStatus(ctx context.Context, teamID, membershipID, userID, secret string) (identity.Membership, error) {
	body := map[string]any{
		"userId": userID,
		"secret": secret,
	}
	var resource membershipResource
	endpoint := fmt.Sprintf("%s/status", d.teamsURL(teamID, "memberships", membershipID))
	if err := d.client.do(ctx, "PATCH", endpoint, body, &resource); err != nil {
		d.logger.Error("membership status update failed",
			zap.String("team", teamID),
			zap.String("membership", membershipID),
			zap.Error(err))
		return identity.Membership{}, asRemoteError(err, shared.ErrRemoteWrite)
	}
	return resource.toDomain(), nil
}

func (d *TeamDirectory) DeleteMembership(ctx context.Context, teamID, membershipID string) error {
	err := d.client.do(ctx, "DELETE", d.teamsURL(teamID, "memberships", membershipID), nil, nil)
	if err != nil {
		d.logger.Error("membership delete failed",
			zap.String("team", teamID),
			zap.String("membership", membershipID),
			zap.Error(err))
		return asRemoteError(err, shared.ErrRemoteWrite)
	}
	return nil
}
