package mcp

import (
	"time"

	"github.com/ldi/taskdeck/internal/resolve"
	"github.com/ldi/taskdeck/internal/stats"
	"github.com/ldi/taskdeck/internal/store"
	"github.com/ldi/taskdeck/pkg/models"
)

// taskView is a task with its references resolved for display. Names are
// left empty when the reference does not resolve.
type taskView struct {
	*models.Task
	StatusLabel  string `json:"status_label"`
	AssigneeName string `json:"assignee_name,omitempty"`
	ProjectTitle string `json:"project_title,omitempty"`
	Overdue      bool   `json:"overdue"`
	DueToday     bool   `json:"due_today"`
}

func newTaskView(t *models.Task, r *resolve.Resolver, now time.Time) taskView {
	v := taskView{
		Task:        t,
		StatusLabel: t.Status.Meta().Label,
		Overdue:     stats.TaskOverdue(t, now),
		DueToday:    stats.IsDueToday(t.DueDate.Time, now),
	}
	if m, ok := r.Assignee(t); ok {
		v.AssigneeName = m.Name
	}
	if p, ok := r.Project(t); ok {
		v.ProjectTitle = p.Title
	}
	return v
}

type projectView struct {
	*models.Project
	StatusLabel  string `json:"status_label"`
	TaskCount    int    `json:"task_count"`
	DaysUntilEnd int    `json:"days_until_end"`
}

func newProjectView(p *models.Project, snap *store.Snapshot, now time.Time) projectView {
	return projectView{
		Project:      p,
		StatusLabel:  p.Status.Meta().Label,
		TaskCount:    len(snap.TasksForProject(p.ID)),
		DaysUntilEnd: stats.DaysUntil(p.EndDate.Time, now),
	}
}

// Rates stay fractions; the *_percent fields carry the rounded display value.

type memberStatsView struct {
	stats.MemberStats
	CompletionPercent int `json:"completion_percent"`
}

type teamView struct {
	stats.Team
	CompletionPercent int `json:"completion_percent"`
}

type dashboardView struct {
	stats.Dashboard
	CompletionPercent int `json:"completion_percent"`
}
