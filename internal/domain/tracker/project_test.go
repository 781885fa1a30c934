package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectVisibleTo(t *testing.T) {
	t.Run("public project visible to anyone", func(t *testing.T) {
		project := Project{OwnerID: "user-1", IsPrivate: false}
		assert.True(t, project.VisibleTo("user-1"))
		assert.True(t, project.VisibleTo("user-2"))
	})

	t.Run("private project visible only to owner", func(t *testing.T) {
		project := Project{OwnerID: "user-1", IsPrivate: true}
		assert.True(t, project.VisibleTo("user-1"))
		assert.False(t, project.VisibleTo("user-2"))
	})
}

func TestProjectOverdue(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	t.Run("past due date and not completed", func(t *testing.T) {
		project := Project{DueDate: &past, Status: ProjectStatusInProgress}
		assert.True(t, project.Overdue(now))
	})

	t.Run("completed projects are never overdue", func(t *testing.T) {
		project := Project{DueDate: &past, Status: ProjectStatusCompleted}
		assert.False(t, project.Overdue(now))
	})

	t.Run("future due date", func(t *testing.T) {
		project := Project{DueDate: &future, Status: ProjectStatusAtRisk}
		assert.False(t, project.Overdue(now))
	})

	t.Run("no due date", func(t *testing.T) {
		project := Project{Status: ProjectStatusInProgress}
		assert.False(t, project.Overdue(now))
	})
}

func TestProjectDraftValidate(t *testing.T) {
	valid := func() ProjectDraft {
		return ProjectDraft{
			Name:    "Q3 Platform Revamp",
			OwnerID: "user-1",
			Status:  ProjectStatusPlanned,
		}
	}

	t.Run("accepts a complete draft", func(t *testing.T) {
		require.NoError(t, valid().Validate())
	})

	t.Run("fails with empty name", func(t *testing.T) {
		draft := valid()
		draft.Name = ""
		require.Error(t, draft.Validate())
	})

	t.Run("fails without owner", func(t *testing.T) {
		draft := valid()
		draft.OwnerID = ""
		require.Error(t, draft.Validate())
	})

	t.Run("fails with unknown status", func(t *testing.T) {
		draft := valid()
		draft.Status = "Archived"
		require.Error(t, draft.Validate())
	})

	t.Run("normalize trims free text", func(t *testing.T) {
		draft := ProjectDraft{Name: "  Q3 Platform Revamp  ", Description: " scope tbd "}
		draft.Normalize()
		assert.Equal(t, "Q3 Platform Revamp", draft.Name)
		assert.Equal(t, "scope tbd", draft.Description)
	})
}

func TestProjectPatchApply(t *testing.T) {
	base := Project{
		ID:        "project-1",
		TeamID:    "team-1",
		Name:      "Q3 Platform Revamp",
		OwnerID:   "user-1",
		Status:    ProjectStatusPlanned,
		IsPrivate: false,
	}

	t.Run("nil fields leave the project untouched", func(t *testing.T) {
		assert.Equal(t, base, ProjectPatch{}.Apply(base))
	})

	t.Run("empty team pointer moves project to private scope", func(t *testing.T) {
		none := ""
		private := true
		patched := ProjectPatch{TeamID: &none, IsPrivate: &private}.Apply(base)

		assert.Empty(t, patched.TeamID)
		assert.True(t, patched.IsPrivate)
	})

	t.Run("name is trimmed on apply", func(t *testing.T) {
		name := "  Renamed  "
		patched := ProjectPatch{Name: &name}.Apply(base)
		assert.Equal(t, "Renamed", patched.Name)
	})
}

func TestQuarterBounds(t *testing.T) {
	t.Run("mid quarter date", func(t *testing.T) {
		start, end := QuarterBounds(time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, 9, 30, 23, 59, 59, 999000000, time.UTC), end)
	})

	t.Run("first day of a quarter", func(t *testing.T) {
		start, end := QuarterBounds(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2026, 3, 31, 23, 59, 59, 999000000, time.UTC), end)
	})

	t.Run("fourth quarter ends inside the same year", func(t *testing.T) {
		start, end := QuarterBounds(time.Date(2026, 12, 31, 23, 0, 0, 0, time.UTC))
		assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, 2026, end.Year())
		assert.Equal(t, time.December, end.Month())
	})
}
