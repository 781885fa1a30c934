package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueDraftApplyDefaults(t *testing.T) {
	t.Run("fills status and priority when unset", func(t *testing.T) {
		draft := IssueDraft{Title: "Fix login redirect", TeamID: "team-1"}
		draft.ApplyDefaults()

		assert.Equal(t, IssueStatusTodo, draft.Status)
		assert.Equal(t, DefaultPriority, draft.Priority)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		draft := IssueDraft{
			Title:    "Fix login redirect",
			TeamID:   "team-1",
			Status:   IssueStatusInReview,
			Priority: 1,
		}
		draft.ApplyDefaults()

		assert.Equal(t, IssueStatusInReview, draft.Status)
		assert.Equal(t, 1, draft.Priority)
	})
}

func TestIssueDraftValidate(t *testing.T) {
	valid := func() IssueDraft {
		return IssueDraft{
			Title:    "Fix login redirect",
			Status:   IssueStatusTodo,
			Priority: 3,
			TeamID:   "team-1",
		}
	}

	t.Run("accepts a complete draft", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("fails with empty title", func(t *testing.T) {
		draft := valid()
		draft.Title = ""
		err := draft.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "title cannot be empty")
	})

	t.Run("fails with unknown status", func(t *testing.T) {
		draft := valid()
		draft.Status = "Blocked"
		err := draft.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Unknown issue status")
	})

	t.Run("fails with priority out of range", func(t *testing.T) {
		for _, priority := range []int{0, 6, -1} {
			draft := valid()
			draft.Priority = priority
			require.Error(t, draft.Validate())
		}
	})

	t.Run("fails without team", func(t *testing.T) {
		draft := valid()
		draft.TeamID = ""
		err := draft.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must belong to a team")
	})
}

func TestIssuePredicates(t *testing.T) {
	t.Run("backlog means no sprint", func(t *testing.T) {
		assert.True(t, Issue{}.InBacklog())
		assert.False(t, Issue{SprintID: "sprint-1"}.InBacklog())
	})

	t.Run("in flight covers in progress and in review", func(t *testing.T) {
		assert.True(t, Issue{Status: IssueStatusInProgress}.InFlight())
		assert.True(t, Issue{Status: IssueStatusInReview}.InFlight())
		assert.False(t, Issue{Status: IssueStatusTodo}.InFlight())
		assert.False(t, Issue{Status: IssueStatusDone}.InFlight())
	})

	t.Run("completed only when done", func(t *testing.T) {
		assert.True(t, Issue{Status: IssueStatusDone}.Completed())
		assert.False(t, Issue{Status: IssueStatusInReview}.Completed())
	})
}

func TestIssuePatchApply(t *testing.T) {
	base := Issue{
		ID:             "issue-1",
		Title:          "Fix login redirect",
		Description:    "Users land on a blank page",
		Status:         IssueStatusTodo,
		Priority:       3,
		TeamID:         "team-1",
		SprintID:       "sprint-1",
		AssignedUserID: "user-1",
	}

	t.Run("nil fields leave the issue untouched", func(t *testing.T) {
		patched := IssuePatch{}.Apply(base)
		assert.Equal(t, base, patched)
	})

	t.Run("set fields overwrite", func(t *testing.T) {
		status := IssueStatusDone
		priority := 1
		patched := IssuePatch{Status: &status, Priority: &priority}.Apply(base)

		assert.Equal(t, IssueStatusDone, patched.Status)
		assert.Equal(t, 1, patched.Priority)
		assert.Equal(t, base.Title, patched.Title)
		assert.Equal(t, base.SprintID, patched.SprintID)
	})

	t.Run("empty string pointer clears references", func(t *testing.T) {
		none := ""
		patched := IssuePatch{SprintID: &none, AssignedUserID: &none}.Apply(base)

		assert.True(t, patched.InBacklog())
		assert.Empty(t, patched.AssignedUserID)
	})

	t.Run("does not mutate the original", func(t *testing.T) {
		title := "Renamed"
		IssuePatch{Title: &title}.Apply(base)
		assert.Equal(t, "Fix login redirect", base.Title)
	})
}

func TestIssuePatchValidate(t *testing.T) {
	t.Run("accepts an empty patch", func(t *testing.T) {
		require.NoError(t, IssuePatch{}.Validate())
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		status := IssueStatus("Archived")
		require.Error(t, IssuePatch{Status: &status}.Validate())
	})

	t.Run("rejects priority out of range", func(t *testing.T) {
		priority := 9
		require.Error(t, IssuePatch{Priority: &priority}.Validate())
	})
}
