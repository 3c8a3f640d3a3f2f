package stats

import "github.com/ldi/taskdeck/pkg/models"

// Count tallies items by key. Every key in keys is present in the result,
// zero or not; items whose key is outside keys are still counted, so the
// values always sum to len(items).
func Count[T any, K comparable](items []T, keys []K, key func(T) K) map[K]int {
	counts := make(map[K]int, len(keys))
	for _, k := range keys {
		counts[k] = 0
	}
	for _, it := range items {
		counts[key(it)]++
	}
	return counts
}

func TaskStatusCounts(tasks []*models.Task) map[models.TaskStatus]int {
	return Count(tasks, models.TaskStatuses, func(t *models.Task) models.TaskStatus { return t.Status })
}

func ProjectStatusCounts(projects []*models.Project) map[models.ProjectStatus]int {
	return Count(projects, models.ProjectStatuses, func(p *models.Project) models.ProjectStatus { return p.Status })
}

func TaskPriorityCounts(tasks []*models.Task) map[models.Priority]int {
	return Count(tasks, models.Priorities, func(t *models.Task) models.Priority { return t.Priority })
}

func ProjectPriorityCounts(projects []*models.Project) map[models.Priority]int {
	return Count(projects, models.Priorities, func(p *models.Project) models.Priority { return p.Priority })
}

func RoleCounts(members []*models.Member) map[models.Role]int {
	return Count(members, models.Roles, func(m *models.Member) models.Role { return m.Role })
}
