package store

import "github.com/ldi/taskdeck/pkg/models"

// Source is anything that can produce a Snapshot: a live *Store, or a fixed
// *Snapshot.
type Source interface {
	Snapshot() *Snapshot
}

// Snapshot is an immutable view of every collection at one instant.
// Entities reachable from a Snapshot are shared and must not be modified.
type Snapshot struct {
	Members  []*models.Member
	Projects []*models.Project
	Tasks    []*models.Task

	members      map[string]*models.Member
	projects     map[string]*models.Project
	tasks        map[string]*models.Task
	projectTasks map[string][]*models.Task
}

// NewSnapshot builds a Snapshot over the given collections, deriving the
// project/task association from Task.ProjectID. Ids are assumed unique.
func NewSnapshot(members []*models.Member, projects []*models.Project, tasks []*models.Task) *Snapshot {
	snap := newSnapshot(members, projects, tasks)
	for _, t := range snap.Tasks {
		snap.projectTasks[t.ProjectID] = append(snap.projectTasks[t.ProjectID], t)
	}
	return snap
}

func newSnapshot(members []*models.Member, projects []*models.Project, tasks []*models.Task) *Snapshot {
	snap := &Snapshot{
		Members:      members,
		Projects:     projects,
		Tasks:        tasks,
		members:      make(map[string]*models.Member, len(members)),
		projects:     make(map[string]*models.Project, len(projects)),
		tasks:        make(map[string]*models.Task, len(tasks)),
		projectTasks: make(map[string][]*models.Task, len(projects)),
	}
	for _, m := range members {
		snap.members[m.ID] = m
	}
	for _, p := range projects {
		snap.projects[p.ID] = p
	}
	for _, t := range tasks {
		snap.tasks[t.ID] = t
	}
	return snap
}

// Snapshot returns s itself, so a fixed Snapshot can stand in for a live Store.
func (s *Snapshot) Snapshot() *Snapshot {
	return s
}

func (s *Snapshot) Member(id string) (*models.Member, bool) {
	m, ok := s.members[id]
	return m, ok
}

func (s *Snapshot) Project(id string) (*models.Project, bool) {
	p, ok := s.projects[id]
	return p, ok
}

func (s *Snapshot) Task(id string) (*models.Task, bool) {
	t, ok := s.tasks[id]
	return t, ok
}

// TasksForProject returns the tasks whose ProjectID equals projectID, in
// store insertion order. The returned slice is a copy.
func (s *Snapshot) TasksForProject(projectID string) []*models.Task {
	return append([]*models.Task(nil), s.projectTasks[projectID]...)
}
