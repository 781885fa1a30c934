package remote

import (
	"time"

	"github.com/flowcraft/backend/internal/domain/tracker"
)

// Document envelopes mirror the backend's attribute names. System
// attributes carry a dollar prefix and are assigned server-side.

type issueDocument struct {
	ID             string      `json:"$id"`
	CreatedAt      time.Time   `json:"$createdAt"`
	UpdatedAt      time.Time   `json:"$updatedAt"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Status         string      `json:"status"`
	Priority       int         `json:"priority"`
	TeamID         string      `json:"teamId"`
	SprintID       string      `json:"sprintId"`
	AssignedUserID string      `json:"assignedUserId"`
	ProjectID      string      `json:"projectId"`
}

func (d issueDocument) toDomain() tracker.Issue {
	return tracker.Issue{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		Status:         tracker.IssueStatus(d.Status),
		Priority:       d.Priority,
		TeamID:         d.TeamID,
		SprintID:       d.SprintID,
		AssignedUserID: d.AssignedUserID,
		ProjectID:      d.ProjectID,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func issueCreateData(draft tracker.IssueDraft) map[string]any {
	return map[string]any{
		"title":          draft.Title,
		"description":    draft.Description,
		"status":         string(draft.Status),
		"priority":       draft.Priority,
		"teamId":         draft.TeamID,
		"sprintId":       draft.SprintID,
		"assignedUserId": draft.AssignedUserID,
		"projectId":      draft.ProjectID,
	}
}

// issuePatchData keeps only the fields present in the patch so the
// backend leaves the rest untouched.
func issuePatchData(patch tracker.IssuePatch) map[string]any {
	data := map[string]any{}
	if patch.Title != nil {
		data["title"] = *patch.Title
	}
	if patch.Description != nil {
		data["description"] = *patch.Description
	}
	if patch.Status != nil {
		data["status"] = string(*patch.Status)
	}
	if patch.Priority != nil {
		data["priority"] = *patch.Priority
	}
	if patch.SprintID != nil {
		data["sprintId"] = *patch.SprintID
	}
	if patch.AssignedUserID != nil {
		data["assignedUserId"] = *patch.AssignedUserID
	}
	if patch.ProjectID != nil {
		data["projectId"] = *patch.ProjectID
	}
	return data
}

type sprintDocument struct {
	ID          string    `json:"$id"`
	CreatedAt   time.Time `json:"$createdAt"`
	UpdatedAt   time.Time `json:"$updatedAt"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	TeamID      string    `json:"teamId"`
	Status      string    `json:"status"`
}

func (d sprintDocument) toDomain() tracker.Sprint {
	return tracker.Sprint{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		TeamID:      d.TeamID,
		Status:      tracker.SprintStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func sprintCreateData(draft tracker.SprintDraft) map[string]any {
	return map[string]any{
		"title":       draft.Title,
		"description": draft.Description,
		"startDate":   draft.StartDate.UTC().Format(time.RFC3339Nano),
		"endDate":     draft.EndDate.UTC().Format(time.RFC3339Nano),
		"teamId":      draft.TeamID,
		"status":      string(draft.Status),
	}
}

func sprintPatchData(patch tracker.SprintPatch) map[string]any {
	data := map[string]any{}
	if patch.Title != nil {
		data["title"] = *patch.Title
	}
	if patch.Description != nil {
		data["description"] = *patch.Description
	}
	if patch.StartDate != nil {
		data["startDate"] = patch.StartDate.UTC().Format(time.RFC3339Nano)
	}
	if patch.EndDate != nil {
		data["endDate"] = patch.EndDate.UTC().Format(time.RFC3339Nano)
	}
	if patch.Status != nil {
		data["status"] = string(*patch.Status)
	}
	return data
}

type projectDocument struct {
	ID          string     `json:"$id"`
	CreatedAt   time.Time  `json:"$createdAt"`
	UpdatedAt   time.Time  `json:"$updatedAt"`
	TeamID      string     `json:"teamId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OwnerID     string     `json:"ownerId"`
	OwnerName   string     `json:"ownerName"`
	Status      string     `json:"status"`
	StartDate   *time.Time `json:"startDate"`
	DueDate     *time.Time `json:"dueDate"`
	IsPrivate   bool       `json:"isPrivate"`
}

func (d projectDocument) toDomain() tracker.Project {
	return tracker.Project{
		ID:          d.ID,
		TeamID:      d.TeamID,
		Name:        d.Name,
		Description: d.Description,
		OwnerID:     d.OwnerID,
		OwnerName:   d.OwnerName,
		Status:      tracker.ProjectStatus(d.Status),
		StartDate:   d.StartDate,
		DueDate:     d.DueDate,
		IsPrivate:   d.IsPrivate,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func projectCreateData(draft tracker.ProjectDraft) map[string]any {
	data := map[string]any{
		"teamId":      draft.TeamID,
		"name":        draft.Name,
		"description": draft.Description,
		"ownerId":     draft.OwnerID,
		"ownerName":   draft.OwnerName,
		"status":      string(draft.Status),
		"isPrivate":   draft.IsPrivate,
	}
	if draft.StartDate != nil {
		data["startDate"] = draft.StartDate.UTC().Format(time.RFC3339Nano)
	}
	if draft.DueDate != nil {
		data["dueDate"] = draft.DueDate.UTC().Format(time.RFC3339Nano)
	}
	return data
}

func projectPatchData(patch tracker.ProjectPatch) map[string]any {
	data := map[string]any{}
	if patch.TeamID != nil {
		data["teamId"] = *patch.TeamID
	}
	if patch.Name != nil {
		data["name"] = *patch.Name
	}
	if patch.Description != nil {
		data["description"] = *patch.Description
	}
	if patch.OwnerID != nil {
		data["ownerId"] = *patch.OwnerID
	}
	if patch.OwnerName != nil {
		data["ownerName"] = *patch.OwnerName
	}
	if patch.Status != nil {
		data["status"] = string(*patch.Status)
	}
	if patch.StartDate != nil {
		data["startDate"] = patch.StartDate.UTC().Format(time.RFC3339Nano)
	}
	if patch.DueDate != nil {
		data["dueDate"] = patch.DueDate.UTC().Format(time.RFC3339Nano)
	}
	if patch.IsPrivate != nil {
		data["isPrivate"] = *patch.IsPrivate
	}
	return data
}
