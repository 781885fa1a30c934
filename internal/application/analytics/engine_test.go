package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowcraft/backend/internal/domain/tracker"
)

func issue(id, assignee string, status tracker.IssueStatus, priority int, sprintID string) tracker.Issue {
	return tracker.Issue{
		ID:             id,
		Title:          "issue " + id,
		Status:         status,
		Priority:       priority,
		TeamID:         "team-1",
		SprintID:       sprintID,
		AssignedUserID: assignee,
	}
}

func sprint(id string, status tracker.SprintStatus, days int) tracker.Sprint {
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	return tracker.Sprint{
		ID:        id,
		Title:     "sprint " + id,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, days),
		TeamID:    "team-1",
		Status:    status,
	}
}

func TestComputeEngineerStats(t *testing.T) {
	t.Run("groups by assignee and skips unassigned", func(t *testing.T) {
		issues := []tracker.Issue{
			issue("1", "alice", tracker.IssueStatusDone, 1, ""),
			issue("2", "alice", tracker.IssueStatusInProgress, 3, ""),
			issue("3", "alice", tracker.IssueStatusInReview, 3, ""),
			issue("4", "alice", tracker.IssueStatusTodo, 5, ""),
			issue("5", "bob", tracker.IssueStatusDone, 2, ""),
			issue("6", "", tracker.IssueStatusTodo, 3, ""),
		}
		names := map[string]string{"alice": "Alice"}

		stats := ComputeEngineerStats(issues, nil, names)
		require.Len(t, stats, 2)

		alice := stats[0]
		assert.Equal(t, "alice", alice.UserID)
		assert.Equal(t, "Alice", alice.Name)
		assert.Equal(t, 4, alice.TotalTasks)
		assert.Equal(t, 1, alice.CompletedTasks)
		assert.Equal(t, 2, alice.InProgressTasks)
		assert.Equal(t, 1, alice.TodoTasks)
		assert.Equal(t, 25.0, alice.CompletionRate)
		assert.Equal(t, map[string]int{"P0": 0, "P1": 1, "P2": 0, "P3": 2, "P4": 0, "P5": 1}, alice.PriorityDistribution)

		bob := stats[1]
		assert.Equal(t, "bob", bob.Name)
		assert.Equal(t, 100.0, bob.CompletionRate)
	})

	t.Run("average tasks per sprint floors the denominator at one", func(t *testing.T) {
		issues := []tracker.Issue{
			issue("1", "alice", tracker.IssueStatusTodo, 3, ""),
			issue("2", "alice", tracker.IssueStatusTodo, 3, ""),
		}

		stats := ComputeEngineerStats(issues, nil, nil)
		require.Len(t, stats, 1)
		assert.Equal(t, 2.0, stats[0].AvgTasksPerSprint)

		sprints := []tracker.Sprint{
			sprint("s1", tracker.SprintStatusActive, 14),
			sprint("s2", tracker.SprintStatusCompleted, 14),
			sprint("s3", tracker.SprintStatusPlanned, 14),
		}
		stats = ComputeEngineerStats(issues, sprints, nil)
		require.Len(t, stats, 1)
		assert.Equal(t, 1.0, stats[0].AvgTasksPerSprint)
	})

	t.Run("empty input yields no rows", func(t *testing.T) {
		assert.Empty(t, ComputeEngineerStats(nil, nil, nil))
	})
}

func TestComputeSprintPerformance(t *testing.T) {
	sprints := []tracker.Sprint{
		sprint("s1", tracker.SprintStatusCompleted, 14),
		sprint("s2", tracker.SprintStatusActive, 10),
	}
	issues := []tracker.Issue{
		issue("1", "alice", tracker.IssueStatusDone, 3, "s1"),
		issue("2", "alice", tracker.IssueStatusDone, 3, "s1"),
		issue("3", "bob", tracker.IssueStatusTodo, 3, "s1"),
		issue("4", "bob", tracker.IssueStatusTodo, 3, ""),
	}

	performance := ComputeSprintPerformance(issues, sprints)
	require.Len(t, performance, 2)

	first := performance[0]
	assert.Equal(t, "s1", first.SprintID)
	assert.Equal(t, 3, first.TotalTasks)
	assert.Equal(t, 2, first.CompletedTasks)
	assert.InDelta(t, 66.7, first.CompletionRate, 0.05)
	assert.Equal(t, 14, first.DurationDays)

	second := performance[1]
	assert.Equal(t, 0, second.TotalTasks)
	assert.Equal(t, 0.0, second.CompletionRate)
	assert.Equal(t, 10, second.DurationDays)
}

func TestPriorityDistribution(t *testing.T) {
	t.Run("counts and formats percentages", func(t *testing.T) {
		issues := []tracker.Issue{
			issue("1", "", tracker.IssueStatusTodo, 1, ""),
			issue("2", "", tracker.IssueStatusTodo, 3, ""),
			issue("3", "", tracker.IssueStatusTodo, 3, ""),
		}

		entries := PriorityDistribution(issues)
		require.Len(t, entries, 6)
		assert.Equal(t, DistributionEntry{Name: "P1", Count: 1, Percentage: "33.3"}, entries[1])
		assert.Equal(t, DistributionEntry{Name: "P3", Count: 2, Percentage: "66.7"}, entries[3])
		assert.Equal(t, DistributionEntry{Name: "P5", Count: 0, Percentage: "0.0"}, entries[5])
	})

	t.Run("empty set reports zero percentages", func(t *testing.T) {
		for _, entry := range PriorityDistribution(nil) {
			assert.Zero(t, entry.Count)
			assert.Equal(t, "0.0", entry.Percentage)
		}
	})
}

func TestStatusDistribution(t *testing.T) {
	issues := []tracker.Issue{
		issue("1", "", tracker.IssueStatusTodo, 3, ""),
		issue("2", "", tracker.IssueStatusDone, 3, ""),
		issue("3", "", tracker.IssueStatusDone, 3, ""),
		issue("4", "", tracker.IssueStatusInReview, 3, ""),
	}

	entries := StatusDistribution(issues)
	require.Len(t, entries, 4)
	assert.Equal(t, DistributionEntry{Name: "Todo", Count: 1, Percentage: "25.0"}, entries[0])
	assert.Equal(t, DistributionEntry{Name: "In Progress", Count: 0, Percentage: "0.0"}, entries[1])
	assert.Equal(t, DistributionEntry{Name: "In Review", Count: 1, Percentage: "25.0"}, entries[2])
	assert.Equal(t, DistributionEntry{Name: "Done", Count: 2, Percentage: "50.0"}, entries[3])
}

func TestComputeOverview(t *testing.T) {
	t.Run("two of three done rounds to 66.7 for display", func(t *testing.T) {
		issues := []tracker.Issue{
			issue("1", "", tracker.IssueStatusTodo, 3, ""),
			issue("2", "", tracker.IssueStatusDone, 3, ""),
			issue("3", "", tracker.IssueStatusDone, 3, ""),
		}

		overview := ComputeOverview(issues)
		assert.Equal(t, 3, overview.TotalTasks)
		assert.Equal(t, 2, overview.CompletedTasks)
		assert.Equal(t, 0, overview.InProgressTasks)
		assert.Equal(t, float64(2)/3*100, overview.OverallCompletionRate)
		assert.Equal(t, "66.7", percentage(overview.CompletedTasks, overview.TotalTasks))
	})

	t.Run("empty set avoids division by zero", func(t *testing.T) {
		overview := ComputeOverview(nil)
		assert.Zero(t, overview.TotalTasks)
		assert.Zero(t, overview.OverallCompletionRate)
	})
}

func TestComputeKeyIndicators(t *testing.T) {
	t.Run("averages sprint metrics and picks the top engineer", func(t *testing.T) {
		performance := []SprintPerformance{
			{TotalTasks: 4, CompletionRate: 50},
			{TotalTasks: 2, CompletionRate: 100},
		}
		engineers := []EngineerStats{
			{Name: "Alice", CompletedTasks: 3},
			{Name: "Bob", CompletedTasks: 5},
		}

		indicators := ComputeKeyIndicators(performance, engineers)
		assert.Equal(t, 75.0, indicators.AverageCompletionRate)
		assert.Equal(t, 3.0, indicators.AverageTasksPerSprint)
		assert.Equal(t, "Bob", indicators.MostProductiveEngineer)
	})

	t.Run("empty inputs degrade to zero values", func(t *testing.T) {
		indicators := ComputeKeyIndicators(nil, nil)
		assert.Zero(t, indicators.AverageCompletionRate)
		assert.Zero(t, indicators.AverageTasksPerSprint)
		assert.Equal(t, "N/A", indicators.MostProductiveEngineer)
	})
}
