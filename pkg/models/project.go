package models

import (
	"slices"
	"strconv"
	"time"
)

type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on-hold"
)

var ProjectStatuses = []ProjectStatus{
	ProjectStatusPlanning,
	ProjectStatusInProgress,
	ProjectStatusCompleted,
	ProjectStatusOnHold,
}

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// Project tasks are not stored here; the store derives them from Task.ProjectID.
type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	StartDate   Date          `json:"start_date"`
	EndDate     Date          `json:"end_date"`
	Status      ProjectStatus `json:"status"`
	Priority    Priority      `json:"priority"`
	Progress    int           `json:"progress"`
	CreatedAt   time.Time     `json:"created_at"`
	MemberIDs   []string      `json:"member_ids"`
}

func (p *Project) Validate() error {
	if p.Title == "" {
		return &ValidationError{Entity: "project", ID: p.ID, Field: "title", Err: ErrMissingField}
	}
	if !p.Status.Valid() {
		return &ValidationError{Entity: "project", ID: p.ID, Field: "status", Value: string(p.Status), Err: ErrInvalidStatus}
	}
	if !p.Priority.Valid() {
		return &ValidationError{Entity: "project", ID: p.ID, Field: "priority", Value: string(p.Priority), Err: ErrInvalidPriority}
	}
	if p.Progress < 0 || p.Progress > 100 {
		return &ValidationError{Entity: "project", ID: p.ID, Field: "progress", Value: strconv.Itoa(p.Progress), Err: ErrInvalidProgress}
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return &ValidationError{Entity: "project", ID: p.ID, Field: "start_date/end_date", Err: ErrInvalidDate}
	}
	if p.EndDate.Before(p.StartDate.Time) {
		return &ValidationError{Entity: "project", ID: p.ID, Field: "end_date", Value: p.EndDate.String(), Err: ErrInvalidDate}
	}
	return nil
}

// HasMember reports whether memberID is part of the project team.
func (p *Project) HasMember(memberID string) bool {
	return slices.Contains(p.MemberIDs, memberID)
}

func (p *Project) Clone() *Project {
	c := *p
	c.MemberIDs = slices.Clone(p.MemberIDs)
	return &c
}
