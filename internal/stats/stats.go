// Package stats derives counts, rates and date classifications from the
// entity collections. Nothing here reads the wall clock: "now" is always
// passed in.
package stats

import (
	"math"
	"time"

	"github.com/ldi/taskdeck/pkg/models"
)

// IsOverdue reports whether a task due at due is late at now. Completed
// tasks are never overdue.
func IsOverdue(due, now time.Time, status models.TaskStatus) bool {
	return due.Before(now) && status != models.TaskStatusCompleted
}

// IsDueToday compares calendar dates, each in its own location.
func IsDueToday(due, now time.Time) bool {
	dy, dm, dd := due.Date()
	ny, nm, nd := now.Date()
	return dy == ny && dm == nm && dd == nd
}

// DaysUntil returns the number of days from now to date, rounded up.
// Negative when date has passed.
func DaysUntil(date, now time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}

// TaskOverdue applies IsOverdue to a task's due date and status.
func TaskOverdue(t *models.Task, now time.Time) bool {
	return IsOverdue(t.DueDate.Time, now, t.Status)
}

// Rate returns part/total, or 0 when total is 0.
func Rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

// Percent renders a rate as a whole percentage for display.
func Percent(rate float64) int {
	return int(math.Round(rate * 100))
}

type MemberStats struct {
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	ActiveTasks    int     `json:"active_tasks"`
	ProjectCount   int     `json:"project_count"`
	CompletionRate float64 `json:"completion_rate"`
}

// ForMember computes workload stats for memberID. Active tasks are the ones
// in progress; projects count when the member is on the team.
func ForMember(memberID string, tasks []*models.Task, projects []*models.Project) MemberStats {
	var st MemberStats
	for _, t := range tasks {
		if t.AssigneeID != memberID {
			continue
		}
		st.TotalTasks++
		switch t.Status {
		case models.TaskStatusCompleted:
			st.CompletedTasks++
		case models.TaskStatusInProgress:
			st.ActiveTasks++
		}
	}
	for _, p := range projects {
		if p.HasMember(memberID) {
			st.ProjectCount++
		}
	}
	st.CompletionRate = Rate(st.CompletedTasks, st.TotalTasks)
	return st
}
