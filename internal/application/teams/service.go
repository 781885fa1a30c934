// Package teams wraps the membership directory with the application's
// team workflows: creation with a description preference, invitations,
// role management and pending-invitation discovery.
package teams

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/flowcraft/backend/internal/domain/identity"
	"github.com/flowcraft/backend/internal/domain/shared"
)

// DefaultInviteRoles are used when an invitation names no roles.
var DefaultInviteRoles = []string{"member"}

// Service coordinates team and membership operations against the
// directory. It holds no mutable state of its own; the directory is the
// source of truth.
type Service struct {
	directory identity.TeamDirectory
	logger    *zap.Logger
}

func NewService(directory identity.TeamDirectory, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{directory: directory, logger: logger}
}

// List returns all teams the current credentials belong to. Pending
// invitations do not make a team visible here.
func (s *Service) List(ctx context.Context) ([]identity.Team, error) {
	teams, err := s.directory.List(ctx)
	if err != nil {
		s.logger.Error("failed to list teams", zap.Error(err))
		return nil, err
	}
	return teams, nil
}

// Get returns a single team by id.
func (s *Service) Get(ctx context.Context, teamID string) (identity.Team, error) {
	if teamID == "" {
		return identity.Team{}, shared.ErrMissingID
	}
	return s.directory.Get(ctx, teamID)
}

// Create registers a new team under a fresh id. The creator joins as
// owner. A non-empty description is stored in the team's preferences,
// which costs a second round trip to read the merged prefs back.
func (s *Service) Create(ctx context.Context, name, description string, roles []string) (identity.Team, error) {
	if err := identity.ValidateTeamName(name); err != nil {
		return identity.Team{}, err
	}
	if len(roles) == 0 {
		roles = identity.DefaultTeamRoles
	}

	teamID := uuid.NewString()
	team, err := s.directory.Create(ctx, teamID, name, roles)
	if err != nil {
		s.logger.Error("failed to create team", zap.String("name", name), zap.Error(err))
		return identity.Team{}, err
	}

	if description != "" {
		prefs := map[string]string{identity.PrefDescription: description}
		if err := s.directory.UpdatePrefs(ctx, team.ID, prefs); err != nil {
			return identity.Team{}, fmt.Errorf("storing team description: %w", err)
		}
		if team, err = s.directory.Get(ctx, team.ID); err != nil {
			return identity.Team{}, err
		}
	}

	s.logger.Info("team created", zap.String("team_id", team.ID), zap.String("name", team.Name))
	return team, nil
}

// Delete removes the team and all its memberships.
func (s *Service) Delete(ctx context.Context, teamID string) error {
	if teamID == "" {
		return shared.ErrMissingID
	}
	if err := s.directory.Delete(ctx, teamID); err != nil {
		s.logger.Error("failed to delete team", zap.String("team_id", teamID), zap.Error(err))
		return err
	}
	s.logger.Info("team deleted", zap.String("team_id", teamID))
	return nil
}

// Memberships returns all memberships of a team, confirmed and pending.
func (s *Service) Memberships(ctx context.Context, teamID string) ([]identity.Membership, error) {
	if teamID == "" {
		return nil, shared.ErrMissingID
	}
	return s.directory.ListMemberships(ctx, teamID)
}

// Members returns only the confirmed memberships of a team.
func (s *Service) Members(ctx context.Context, teamID string) ([]identity.Membership, error) {
	memberships, err := s.Memberships(ctx, teamID)
	if err != nil {
		return nil, err
	}
	members := memberships[:0:0]
	for _, m := range memberships {
		if m.Confirmed {
			members = append(members, m)
		}
	}
	return members, nil
}

// MemberNames builds a user id to display name lookup from a team's
// memberships, for labeling per-engineer analytics.
func (s *Service) MemberNames(ctx context.Context, teamID string) (map[string]string, error) {
	memberships, err := s.Memberships(ctx, teamID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(memberships))
	for _, m := range memberships {
		if m.UserID != "" {
			names[m.UserID] = m.DisplayName()
		}
	}
	return names, nil
}

// Invite sends an email invitation to join the team. The redirect URL
// is embedded in the invitation email; the invitee lands there with the
// membership id and secret to confirm.
func (s *Service) Invite(ctx context.Context, teamID string, invite identity.MembershipInvite) (identity.Membership, error) {
	if teamID == "" {
		return identity.Membership{}, shared.ErrMissingID
	}
	if invite.Email == "" {
		return identity.Membership{}, shared.NewDomainError("INVALID_EMAIL", "Invitation email cannot be empty")
	}
	if len(invite.Roles) == 0 {
		invite.Roles = DefaultInviteRoles
	}

	membership, err := s.directory.CreateMembership(ctx, teamID, invite)
	if err != nil {
		s.logger.Error("failed to invite user",
			zap.String("team_id", teamID),
			zap.String("email", invite.Email),
			zap.Error(err))
		return identity.Membership{}, err
	}
	s.logger.Info("invitation sent",
		zap.String("team_id", teamID),
		zap.String("membership_id", membership.ID))
	return membership, nil
}

// AcceptInvitation confirms a pending membership using the secret from
// the invitation email.
func (s *Service) AcceptInvitation(ctx context.Context, teamID, membershipID, userID, secret string) (identity.Membership, error) {
	if teamID == "" || membershipID == "" {
		return identity.Membership{}, shared.ErrMissingID
	}
	return s.directory.UpdateMembershipStatus(ctx, teamID, membershipID, userID, secret)
}

// DeclineInvitation removes a pending membership. The directory treats
// declining and removal identically.
func (s *Service) DeclineInvitation(ctx context.Context, teamID, membershipID string) error {
	return s.RemoveMember(ctx, teamID, membershipID)
}

// RemoveMember removes a member from the team.
func (s *Service) RemoveMember(ctx context.Context, teamID, membershipID string) error {
	if teamID == "" || membershipID == "" {
		return shared.ErrMissingID
	}
	return s.directory.DeleteMembership(ctx, teamID, membershipID)
}

// UpdateMemberRoles replaces a member's roles.
func (s *Service) UpdateMemberRoles(ctx context.Context, teamID, membershipID string, roles []string) (identity.Membership, error) {
	if teamID == "" || membershipID == "" {
		return identity.Membership{}, shared.ErrMissingID
	}
	return s.directory.UpdateMembership(ctx, teamID, membershipID, roles)
}

// PendingInvitations scans the caller's teams for unconfirmed
// memberships belonging to the given user. The directory only lists
// teams with an active membership, so fresh invitations to unknown
// teams will not surface here; the email link remains the primary
// acceptance path. Teams whose memberships cannot be read are skipped.
func (s *Service) PendingInvitations(ctx context.Context, userID string) ([]identity.Membership, error) {
	if userID == "" {
		return nil, nil
	}

	teams, err := s.directory.List(ctx)
	if err != nil {
		s.logger.Error("failed to list teams for pending invitations", zap.Error(err))
		return nil, nil
	}

	var pending []identity.Membership
	for _, team := range teams {
		memberships, err := s.directory.ListMemberships(ctx, team.ID)
		if err != nil {
			s.logger.Warn("skipping team while scanning invitations",
				zap.String("team_id", team.ID),
				zap.Error(err))
			continue
		}
		for _, m := range memberships {
			if m.UserID == userID && m.Pending() {
				pending = append(pending, m)
			}
		}
	}
	return pending, nil
}
