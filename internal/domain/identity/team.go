package identity

import (
	"strings"
	"time"

	"github.com/flowcraft/backend/internal/domain/shared"
)

// DefaultTeamRoles are assigned to a team on creation; the creator joins
// with the owner role.
var DefaultTeamRoles = []string{"owner", "admin", "member"}

// PrefDescription is the team preference key holding the free-text
// description. The membership platform has no first-class description
// field, so it rides in prefs.
const PrefDescription = "description"

// Team is a collaboration scope owning sprints, issues and members.
// Teams live in the membership directory service, not the document
// collections.
type Team struct {
	ID        string
	Name      string
	Total     int
	Prefs     map[string]string
	CreatedAt time.Time
}

// Description returns the description stored in team prefs, if any.
func (t Team) Description() string {
	return t.Prefs[PrefDescription]
}

// ValidateTeamName checks a team name before creation.
func ValidateTeamName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Team name cannot be empty")
	}
	if len(name) > 128 {
		return shared.NewDomainError("INVALID_NAME", "Team name cannot exceed 128 characters")
	}
	return nil
}

// Membership links a user to a team. An unconfirmed membership is a
// pending invitation.
type Membership struct {
	ID        string
	TeamID    string
	TeamName  string
	UserID    string
	UserName  string
	UserEmail string
	Roles     []string
	Confirmed bool
	InvitedAt time.Time
	JoinedAt  time.Time
}

// Pending reports whether the membership is an invitation that has not
// been accepted yet.
func (m Membership) Pending() bool {
	return !m.Confirmed
}

// DisplayName returns the best human-readable name for the member.
func (m Membership) DisplayName() string {
	if m.UserName != "" {
		return m.UserName
	}
	if m.UserEmail != "" {
		return m.UserEmail
	}
	return m.UserID
}

// MembershipInvite carries the fields of an email invitation.
type MembershipInvite struct {
	Email       string
	Name        string
	Roles       []string
	RedirectURL string
}
