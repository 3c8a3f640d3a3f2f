package stats

import (
	"slices"
	"time"

	"github.com/ldi/taskdeck/internal/store"
	"github.com/ldi/taskdeck/pkg/models"
)

const (
	recentProjectsLimit = 3
	upcomingTasksLimit  = 5
)

type ProjectSummary struct {
	Project        *models.Project `json:"project"`
	TotalTasks     int             `json:"total_tasks"`
	CompletedTasks int             `json:"completed_tasks"`
	OverdueTasks   int             `json:"overdue_tasks"`
	DaysUntilEnd   int             `json:"days_until_end"`
}

// SummarizeProject reports progress of p over its tasks.
func SummarizeProject(p *models.Project, tasks []*models.Task, now time.Time) ProjectSummary {
	sum := ProjectSummary{
		Project:      p,
		TotalTasks:   len(tasks),
		DaysUntilEnd: DaysUntil(p.EndDate.Time, now),
	}
	for _, t := range tasks {
		if t.Status == models.TaskStatusCompleted {
			sum.CompletedTasks++
		}
		if TaskOverdue(t, now) {
			sum.OverdueTasks++
		}
	}
	return sum
}

type Dashboard struct {
	TotalProjects      int               `json:"total_projects"`
	CompletedProjects  int               `json:"completed_projects"`
	InProgressProjects int               `json:"in_progress_projects"`
	TotalTasks         int               `json:"total_tasks"`
	CompletedTasks     int               `json:"completed_tasks"`
	OverdueTasks       int               `json:"overdue_tasks"`
	CompletionRate     float64           `json:"completion_rate"`
	RecentProjects     []*models.Project `json:"recent_projects"`
	UpcomingTasks      []*models.Task    `json:"upcoming_tasks"`
}

// BuildDashboard computes the overview page: totals, the most recently
// created projects and the open tasks due soonest.
func BuildDashboard(snap *store.Snapshot, now time.Time) Dashboard {
	projectCounts := ProjectStatusCounts(snap.Projects)
	taskCounts := TaskStatusCounts(snap.Tasks)

	d := Dashboard{
		TotalProjects:      len(snap.Projects),
		CompletedProjects:  projectCounts[models.ProjectStatusCompleted],
		InProgressProjects: projectCounts[models.ProjectStatusInProgress],
		TotalTasks:         len(snap.Tasks),
		CompletedTasks:     taskCounts[models.TaskStatusCompleted],
		CompletionRate:     Rate(taskCounts[models.TaskStatusCompleted], len(snap.Tasks)),
	}
	for _, t := range snap.Tasks {
		if TaskOverdue(t, now) {
			d.OverdueTasks++
		}
	}

	recent := slices.Clone(snap.Projects)
	slices.SortStableFunc(recent, func(a, b *models.Project) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	d.RecentProjects = recent[:min(recentProjectsLimit, len(recent))]

	var open []*models.Task
	for _, t := range snap.Tasks {
		if t.Status != models.TaskStatusCompleted {
			open = append(open, t)
		}
	}
	slices.SortStableFunc(open, func(a, b *models.Task) int {
		return a.DueDate.Compare(b.DueDate.Time)
	})
	d.UpcomingTasks = open[:min(upcomingTasksLimit, len(open))]

	return d
}

type MemberReport struct {
	Member *models.Member `json:"member"`
	Stats  MemberStats    `json:"stats"`
}

type Team struct {
	Members        []MemberReport      `json:"members"`
	Roles          map[models.Role]int `json:"roles"`
	CompletedTasks int                 `json:"completed_tasks"`
	CompletionRate float64             `json:"completion_rate"`
	ActiveProjects int                 `json:"active_projects"`
}

// BuildTeam computes per-member stats in member order plus team totals.
func BuildTeam(snap *store.Snapshot) Team {
	team := Team{
		Members: make([]MemberReport, 0, len(snap.Members)),
		Roles:   RoleCounts(snap.Members),
	}
	for _, m := range snap.Members {
		team.Members = append(team.Members, MemberReport{
			Member: m,
			Stats:  ForMember(m.ID, snap.Tasks, snap.Projects),
		})
	}
	for _, t := range snap.Tasks {
		if t.Status == models.TaskStatusCompleted {
			team.CompletedTasks++
		}
	}
	team.CompletionRate = Rate(team.CompletedTasks, len(snap.Tasks))
	team.ActiveProjects = ProjectStatusCounts(snap.Projects)[models.ProjectStatusInProgress]
	return team
}
