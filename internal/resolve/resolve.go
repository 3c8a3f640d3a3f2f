// Package resolve follows the id references between entities.
package resolve

import (
	"github.com/ldi/taskdeck/internal/store"
	"github.com/ldi/taskdeck/pkg/models"
)

// Resolver looks up referenced entities in the current snapshot of its
// source. A reference that does not resolve is reported as absent, never
// replaced by a placeholder.
type Resolver struct {
	src store.Source
}

func New(src store.Source) *Resolver {
	return &Resolver{src: src}
}

func (r *Resolver) Assignee(t *models.Task) (*models.Member, bool) {
	return r.src.Snapshot().Member(t.AssigneeID)
}

func (r *Resolver) Project(t *models.Task) (*models.Project, bool) {
	return r.src.Snapshot().Project(t.ProjectID)
}

func (r *Resolver) Author(c models.Comment) (*models.Member, bool) {
	return r.src.Snapshot().Member(c.AuthorID)
}

// Members returns the project's team in recorded order, along with the ids
// that did not resolve.
func (r *Resolver) Members(p *models.Project) (members []*models.Member, missing []string) {
	snap := r.src.Snapshot()
	members = make([]*models.Member, 0, len(p.MemberIDs))
	for _, id := range p.MemberIDs {
		if m, ok := snap.Member(id); ok {
			members = append(members, m)
		} else {
			missing = append(missing, id)
		}
	}
	return members, missing
}

// TasksForProject returns the tasks currently assigned to projectID.
func (r *Resolver) TasksForProject(projectID string) []*models.Task {
	return r.src.Snapshot().TasksForProject(projectID)
}

// ProjectsForMember returns the projects whose team includes memberID.
func (r *Resolver) ProjectsForMember(memberID string) []*models.Project {
	var projects []*models.Project
	for _, p := range r.src.Snapshot().Projects {
		if p.HasMember(memberID) {
			projects = append(projects, p)
		}
	}
	return projects
}
