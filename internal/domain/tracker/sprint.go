package tracker

import (
	"fmt"
	"math"
	"time"

	"github.com/flowcraft/backend/internal/domain/shared"
)

// SprintStatus represents the lifecycle state of a sprint
type SprintStatus string

const (
	SprintStatusPlanned   SprintStatus = "Planned"
	SprintStatusActive    SprintStatus = "Active"
	SprintStatusCompleted SprintStatus = "Completed"
)

// Valid reports whether the status is a known sprint state.
func (s SprintStatus) Valid() bool {
	switch s {
	case SprintStatusPlanned, SprintStatusActive, SprintStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the one-directional sprint lifecycle
// allows moving to the target state. Planned -> Active -> Completed,
// no reopening.
func (s SprintStatus) CanTransitionTo(target SprintStatus) bool {
	switch s {
	case SprintStatusPlanned:
		return target == SprintStatusActive
	case SprintStatusActive:
		return target == SprintStatusCompleted
	}
	return false
}

// Sprint is a fixed-date iteration bucket for issues within a team.
type Sprint struct {
	ID          string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	TeamID      string
	Status      SprintStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DurationDays returns the sprint length in whole days, rounding partial
// days up. A sprint with equal start and end dates has duration 0.
func (s Sprint) DurationDays() int {
	ms := s.EndDate.Sub(s.StartDate).Milliseconds()
	if ms <= 0 {
		return 0
	}
	return int(math.Ceil(float64(ms) / 86400000.0))
}

// SprintDraft carries the caller-supplied fields for a new sprint.
type SprintDraft struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	TeamID      string
	Status      SprintStatus
}

// ApplyDefaults fills unspecified fields: status Planned, and both dates
// default to now when omitted. Callers should supply explicit dates; an
// empty date pair silently becomes a zero-length sprint.
func (d *SprintDraft) ApplyDefaults(now time.Time) {
	if d.Status == "" {
		d.Status = SprintStatusPlanned
	}
	if d.StartDate.IsZero() {
		d.StartDate = now
	}
	if d.EndDate.IsZero() {
		d.EndDate = now
	}
}

// Validate checks the draft after defaults are applied.
func (d SprintDraft) Validate() error {
	if d.Title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Sprint title cannot be empty")
	}
	if !d.Status.Valid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown sprint status %q", d.Status))
	}
	if d.TeamID == "" {
		return shared.NewDomainError("INVALID_TEAM", "Sprint must belong to a team")
	}
	if d.EndDate.Before(d.StartDate) {
		return shared.NewDomainError("INVALID_DATES", "Sprint end date cannot be before its start date")
	}
	return nil
}

// SprintPatch describes a partial update to a sprint. Nil fields are left
// untouched.
type SprintPatch struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Status      *SprintStatus
}

// Validate checks the provided fields of the patch.
func (p SprintPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown sprint status %q", *p.Status))
	}
	return nil
}

// Apply returns a copy of the sprint with the patch's fields set.
func (p SprintPatch) Apply(sprint Sprint) Sprint {
	if p.Title != nil {
		sprint.Title = *p.Title
	}
	if p.Description != nil {
		sprint.Description = *p.Description
	}
	if p.StartDate != nil {
		sprint.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		sprint.EndDate = *p.EndDate
	}
	if p.Status != nil {
		sprint.Status = *p.Status
	}
	return sprint
}
