// Package analytics derives team performance metrics from the in-memory
// issue and sprint collections. Every function here is pure: the same
// inputs always produce the same output, and nothing is cached.
package analytics

import (
	"fmt"
	"sort"

	"github.com/flowcraft/backend/internal/domain/tracker"
)

// EngineerStats aggregates the issues assigned to one user.
type EngineerStats struct {
	UserID               string         `json:"userId"`
	Name                 string         `json:"name"`
	TotalTasks           int            `json:"totalTasks"`
	CompletedTasks       int            `json:"completedTasks"`
	InProgressTasks      int            `json:"inProgressTasks"`
	TodoTasks            int            `json:"todoTasks"`
	CompletionRate       float64        `json:"completionRate"`
	AvgTasksPerSprint    float64        `json:"avgTasksPerSprint"`
	PriorityDistribution map[string]int `json:"priorityDistribution"`
}

// SprintPerformance summarizes one sprint's issue throughput.
type SprintPerformance struct {
	SprintID       string  `json:"sprintId"`
	Name           string  `json:"sprintName"`
	TotalTasks     int     `json:"totalTasks"`
	CompletedTasks int     `json:"completedTasks"`
	CompletionRate float64 `json:"completionRate"`
	DurationDays   int     `json:"duration"`
}

// DistributionEntry is one slice of a priority or status breakdown. The
// percentage is pre-formatted to one decimal place for display.
type DistributionEntry struct {
	Name       string `json:"name"`
	Count      int    `json:"value"`
	Percentage string `json:"percentage"`
}

// Overview holds the headline counters across the whole issue set.
type Overview struct {
	TotalTasks            int     `json:"totalTasks"`
	CompletedTasks        int     `json:"completedTasks"`
	InProgressTasks       int     `json:"inProgressTasks"`
	OverallCompletionRate float64 `json:"overallCompletionRate"`
}

// KeyIndicators carries the dashboard KPI row. Averages are taken over
// the sprint performance list; MostProductiveEngineer is "N/A" when no
// issue has an assignee.
type KeyIndicators struct {
	AverageCompletionRate  float64 `json:"averageCompletionRate"`
	AverageTasksPerSprint  float64 `json:"averageTasksPerSprint"`
	MostProductiveEngineer string  `json:"mostProductiveEngineer"`
}

// priorityBuckets are the histogram keys. P0 never occurs with the
// current validation range but stays in the bucket set so chart shapes
// are stable.
var priorityBuckets = []string{"P0", "P1", "P2", "P3", "P4", "P5"}

var statusOrder = []tracker.IssueStatus{
	tracker.IssueStatusTodo,
	tracker.IssueStatusInProgress,
	tracker.IssueStatusInReview,
	tracker.IssueStatusDone,
}

func emptyPriorityDistribution() map[string]int {
	dist := make(map[string]int, len(priorityBuckets))
	for _, bucket := range priorityBuckets {
		dist[bucket] = 0
	}
	return dist
}

func rate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func percentage(count, total int) string {
	if total == 0 {
		return "0.0"
	}
	return fmt.Sprintf("%.1f", float64(count)/float64(total)*100)
}

// ComputeEngineerStats groups issues by assignee and derives per-user
// counters. Unassigned issues are skipped. Display names come from the
// names lookup, falling back to the raw user id. The average tasks per
// sprint divides by the number of active plus completed sprints, floored
// at one. Results are sorted by user id.
func ComputeEngineerStats(issues []tracker.Issue, sprints []tracker.Sprint, names map[string]string) []EngineerStats {
	byUser := make(map[string]*EngineerStats)

	for _, issue := range issues {
		if issue.AssignedUserID == "" {
			continue
		}
		stats, ok := byUser[issue.AssignedUserID]
		if !ok {
			name := names[issue.AssignedUserID]
			if name == "" {
				name = issue.AssignedUserID
			}
			stats = &EngineerStats{
				UserID:               issue.AssignedUserID,
				Name:                 name,
				PriorityDistribution: emptyPriorityDistribution(),
			}
			byUser[issue.AssignedUserID] = stats
		}

		stats.TotalTasks++
		bucket := fmt.Sprintf("P%d", issue.Priority)
		if _, ok := stats.PriorityDistribution[bucket]; ok {
			stats.PriorityDistribution[bucket]++
		}

		switch issue.Status {
		case tracker.IssueStatusDone:
			stats.CompletedTasks++
		case tracker.IssueStatusInProgress, tracker.IssueStatusInReview:
			stats.InProgressTasks++
		case tracker.IssueStatusTodo:
			stats.TodoTasks++
		}
	}

	runningSprints := 0
	for _, sprint := range sprints {
		if sprint.Status == tracker.SprintStatusActive || sprint.Status == tracker.SprintStatusCompleted {
			runningSprints++
		}
	}
	if runningSprints == 0 {
		runningSprints = 1
	}

	result := make([]EngineerStats, 0, len(byUser))
	for _, stats := range byUser {
		stats.CompletionRate = rate(stats.CompletedTasks, stats.TotalTasks)
		stats.AvgTasksPerSprint = float64(stats.TotalTasks) / float64(runningSprints)
		result = append(result, *stats)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result
}

// ComputeSprintPerformance reports issue throughput per sprint,
// preserving the input sprint order.
func ComputeSprintPerformance(issues []tracker.Issue, sprints []tracker.Sprint) []SprintPerformance {
	result := make([]SprintPerformance, 0, len(sprints))
	for _, sprint := range sprints {
		total, completed := 0, 0
		for _, issue := range issues {
			if issue.SprintID != sprint.ID {
				continue
			}
			total++
			if issue.Status == tracker.IssueStatusDone {
				completed++
			}
		}
		result = append(result, SprintPerformance{
			SprintID:       sprint.ID,
			Name:           sprint.Title,
			TotalTasks:     total,
			CompletedTasks: completed,
			CompletionRate: rate(completed, total),
			DurationDays:   sprint.DurationDays(),
		})
	}
	return result
}

// PriorityDistribution counts issues per priority bucket P0 through P5.
// Issues with a priority outside that range are ignored.
func PriorityDistribution(issues []tracker.Issue) []DistributionEntry {
	counts := emptyPriorityDistribution()
	for _, issue := range issues {
		bucket := fmt.Sprintf("P%d", issue.Priority)
		if _, ok := counts[bucket]; ok {
			counts[bucket]++
		}
	}

	entries := make([]DistributionEntry, 0, len(priorityBuckets))
	for _, bucket := range priorityBuckets {
		entries = append(entries, DistributionEntry{
			Name:       bucket,
			Count:      counts[bucket],
			Percentage: percentage(counts[bucket], len(issues)),
		})
	}
	return entries
}

// StatusDistribution counts issues per workflow status.
func StatusDistribution(issues []tracker.Issue) []DistributionEntry {
	counts := make(map[tracker.IssueStatus]int, len(statusOrder))
	for _, issue := range issues {
		counts[issue.Status]++
	}

	entries := make([]DistributionEntry, 0, len(statusOrder))
	for _, status := range statusOrder {
		entries = append(entries, DistributionEntry{
			Name:       string(status),
			Count:      counts[status],
			Percentage: percentage(counts[status], len(issues)),
		})
	}
	return entries
}

// ComputeOverview derives the headline counters for the whole issue set.
func ComputeOverview(issues []tracker.Issue) Overview {
	overview := Overview{TotalTasks: len(issues)}
	for _, issue := range issues {
		switch issue.Status {
		case tracker.IssueStatusDone:
			overview.CompletedTasks++
		case tracker.IssueStatusInProgress, tracker.IssueStatusInReview:
			overview.InProgressTasks++
		}
	}
	overview.OverallCompletionRate = rate(overview.CompletedTasks, overview.TotalTasks)
	return overview
}

// ComputeKeyIndicators averages completion rate and task counts over the
// sprint performance list and names the engineer with the most completed
// tasks. Later entries win ties.
func ComputeKeyIndicators(performance []SprintPerformance, engineers []EngineerStats) KeyIndicators {
	indicators := KeyIndicators{MostProductiveEngineer: "N/A"}

	if len(performance) > 0 {
		var rateSum, taskSum float64
		for _, sprint := range performance {
			rateSum += sprint.CompletionRate
			taskSum += float64(sprint.TotalTasks)
		}
		indicators.AverageCompletionRate = rateSum / float64(len(performance))
		indicators.AverageTasksPerSprint = taskSum / float64(len(performance))
	}

	if len(engineers) > 0 {
		best := engineers[0]
		for _, engineer := range engineers[1:] {
			if engineer.CompletedTasks >= best.CompletedTasks {
				best = engineer
			}
		}
		indicators.MostProductiveEngineer = best.Name
	}
	return indicators
}
