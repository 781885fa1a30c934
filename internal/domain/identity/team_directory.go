package identity

import "context"

// TeamDirectory provides access to the membership platform's team and
// membership service. The directory only returns teams where the caller
// holds an active membership; pending invitations are not listed.
type TeamDirectory interface {
	// List returns all teams the current credentials belong to.
	List(ctx context.Context) ([]Team, error)

	// Get returns a single team by id.
	Get(ctx context.Context, teamID string) (Team, error)

	// Create registers a new team under a caller-chosen id; the caller
	// becomes its owner.
	Create(ctx context.Context, teamID, name string, roles []string) (Team, error)

	// UpdatePrefs merges the given preferences into the team's prefs.
	UpdatePrefs(ctx context.Context, teamID string, prefs map[string]string) error

	// Delete removes the team and all its memberships.
	Delete(ctx context.Context, teamID string) error

	// ListMemberships returns all memberships of a team, confirmed and
	// pending.
	ListMemberships(ctx context.Context, teamID string) ([]Membership, error)

	// CreateMembership sends an email invitation to join the team.
	CreateMembership(ctx context.Context, teamID string, invite MembershipInvite) (Membership, error)

	// UpdateMembership replaces a member's roles.
	UpdateMembership(ctx context.Context, teamID, membershipID string, roles []string) (Membership, error)

	// UpdateMembershipStatus confirms a pending invitation using the
	// secret from the invitation email.
	UpdateMembershipStatus(ctx context.Context, teamID, membershipID, userID, secret string) (Membership, error)

	// DeleteMembership removes a member or declines a pending invitation.
	DeleteMembership(ctx context.Context, teamID, membershipID string) error
}
