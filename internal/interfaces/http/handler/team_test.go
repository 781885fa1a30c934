package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTeam(t *testing.T, e *env, req CreateTeamRequest) TeamResponse {
	t.Helper()
	w, resp := e.request(t, http.MethodPost, "/api/v1/teams", "user-1", req)
	require.Equal(t, http.StatusCreated, w.Code)

	var team TeamResponse
	decodeData(t, resp, &team)
	return team
}

func inviteMember(t *testing.T, e *env, teamID string, req InviteRequest) MembershipResponse {
	t.Helper()
	w, resp := e.request(t, http.MethodPost, "/api/v1/teams/"+teamID+"/invitations", "user-1", req)
	require.Equal(t, http.StatusCreated, w.Code)

	var membership MembershipResponse
	decodeData(t, resp, &membership)
	return membership
}

func TestTeamCreate(t *testing.T) {
	t.Run("stores the description in prefs", func(t *testing.T) {
		e := newEnv(t)

		team := createTeam(t, e, CreateTeamRequest{Name: "Platform", Description: "Infra and tooling"})
		assert.NotEmpty(t, team.ID)
		assert.Equal(t, "Platform", team.Name)
		assert.Equal(t, "Infra and tooling", team.Description)
	})

	t.Run("rejects a missing name", func(t *testing.T) {
		e := newEnv(t)

		w, _ := e.request(t, http.MethodPost, "/api/v1/teams", "user-1", map[string]string{"description": "nameless"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestTeamListAndGet(t *testing.T) {
	e := newEnv(t)
	created := createTeam(t, e, CreateTeamRequest{Name: "Platform"})
	createTeam(t, e, CreateTeamRequest{Name: "Mobile"})

	w, resp := e.request(t, http.MethodGet, "/api/v1/teams", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []TeamResponse
	decodeData(t, resp, &list)
	assert.Len(t, list, 2)

	w, resp = e.request(t, http.MethodGet, "/api/v1/teams/"+created.ID, "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var team TeamResponse
	decodeData(t, resp, &team)
	assert.Equal(t, "Platform", team.Name)

	w, _ = e.request(t, http.MethodGet, "/api/v1/teams/missing", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamDelete(t *testing.T) {
	e := newEnv(t)
	team := createTeam(t, e, CreateTeamRequest{Name: "Disposable"})

	w, _ := e.request(t, http.MethodDelete, "/api/v1/teams/"+team.ID, "user-1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = e.request(t, http.MethodGet, "/api/v1/teams/"+team.ID, "user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamInvitations(t *testing.T) {
	t.Run("invite defaults to the member role", func(t *testing.T) {
		e := newEnv(t)
		team := createTeam(t, e, CreateTeamRequest{Name: "Platform"})

		membership := inviteMember(t, e, team.ID, InviteRequest{Email: "Dev@Example.com", Name: "Dev"})
		assert.Equal(t, []string{"member"}, membership.Roles)
		assert.Equal(t, "dev@example.com", membership.UserEmail)
		assert.False(t, membership.Confirmed)
	})

	t.Run("invite requires a valid email", func(t *testing.T) {
		e := newEnv(t)
		team := createTeam(t, e, CreateTeamRequest{Name: "Platform"})

		w, _ := e.request(t, http.MethodPost, "/api/v1/teams/"+team.ID+"/invitations", "user-1", map[string]string{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("accepting confirms the membership", func(t *testing.T) {
		e := newEnv(t)
		team := createTeam(t, e, CreateTeamRequest{Name: "Platform"})
		membership := inviteMember(t, e, team.ID, InviteRequest{Email: "dev@example.com"})

		w, resp := e.request(t, http.MethodPost,
			"/api/v1/teams/"+team.ID+"/memberships/"+membership.ID+"/accept", "",
			AcceptInvitationRequest{UserID: "user-2", Secret: "invite-secret"})
		require.Equal(t, http.StatusOK, w.Code)

		var accepted MembershipResponse
		decodeData(t, resp, &accepted)
		assert.True(t, accepted.Confirmed)
		assert.Equal(t, "user-2", accepted.UserID)

		w, resp = e.request(t, http.MethodGet, "/api/v1/teams/"+team.ID+"/members", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var members []MembershipResponse
		decodeData(t, resp, &members)
		require.Len(t, members, 1)
		assert.Equal(t, "user-2", members[0].UserID)
	})

	t.Run("declining removes the membership", func(t *testing.T) {
		e := newEnv(t)
		team := createTeam(t, e, CreateTeamRequest{Name: "Platform"})
		membership := inviteMember(t, e, team.ID, InviteRequest{Email: "dev@example.com"})

		w, _ := e.request(t, http.MethodDelete,
			"/api/v1/teams/"+team.ID+"/memberships/"+membership.ID, "user-1", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w, resp := e.request(t, http.MethodGet, "/api/v1/teams/"+team.ID+"/memberships", "user-1", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var memberships []MembershipResponse
		decodeData(t, resp, &memberships)
		assert.Empty(t, memberships)
	})
}

func TestTeamUpdateRoles(t *testing.T) {
	e := newEnv(t)
	team := createTeam(t, e, CreateTeamRequest{Name: "Platform"})
	membership := inviteMember(t, e, team.ID, InviteRequest{Email: "dev@example.com"})

	w, resp := e.request(t, http.MethodPatch,
		"/api/v1/teams/"+team.ID+"/memberships/"+membership.ID, "user-1",
		UpdateRolesRequest{Roles: []string{"admin", "member"}})
	require.Equal(t, http.StatusOK, w.Code)

	var updated MembershipResponse
	decodeData(t, resp, &updated)
	assert.Equal(t, []string{"admin", "member"}, updated.Roles)

	w, _ = e.request(t, http.MethodPatch,
		"/api/v1/teams/"+team.ID+"/memberships/missing", "user-1",
		UpdateRolesRequest{Roles: []string{"admin"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPendingInvitationsEndpoint(t *testing.T) {
	e := newEnv(t)
	team := createTeam(t, e, CreateTeamRequest{Name: "Platform"})
	membership := inviteMember(t, e, team.ID, InviteRequest{Email: "dev@example.com"})

	// The pending list is keyed by the invitee's platform user id.
	e.request(t, http.MethodPost,
		"/api/v1/teams/"+team.ID+"/memberships/"+membership.ID+"/accept", "",
		AcceptInvitationRequest{UserID: "user-2", Secret: "invite-secret"})

	w, resp := e.request(t, http.MethodGet, "/api/v1/invitations", "user-2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var pending []MembershipResponse
	decodeData(t, resp, &pending)
	assert.Empty(t, pending)

	inviteMember(t, e, team.ID, InviteRequest{Email: "other@example.com"})
	w, resp = e.request(t, http.MethodGet, "/api/v1/invitations", membershipUserID(t, e, team.ID, "other@example.com"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, resp, &pending)
	require.Len(t, pending, 1)
	assert.False(t, pending[0].Confirmed)
}

// membershipUserID looks up the placeholder user id the backend
// assigned to a pending invite.
func membershipUserID(t *testing.T, e *env, teamID, email string) string {
	t.Helper()
	w, resp := e.request(t, http.MethodGet, "/api/v1/teams/"+teamID+"/memberships", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var memberships []MembershipResponse
	decodeData(t, resp, &memberships)
	for _, m := range memberships {
		if m.UserEmail == email {
			return m.UserID
		}
	}
	t.Fatalf("no membership for %s", email)
	return ""
}
