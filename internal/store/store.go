package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/ldi/taskdeck/pkg/models"
)

var (
	ErrUnknownProject = errors.New("unknown project")
	ErrUnknownMember  = errors.New("unknown member")
	ErrTaskNotFound   = errors.New("task not found")
)

// Store holds the canonical entity collections. Stored entities are never
// mutated in place: every write replaces the pointer, so a Snapshot taken
// before the write keeps seeing the old values.
type Store struct {
	mu sync.RWMutex

	members  []*models.Member
	projects []*models.Project
	tasks    []*models.Task

	memberIdx  map[string]int
	projectIdx map[string]int
	taskIdx    map[string]int

	// projectTasks is derived from tasks by Rebuild.
	projectTasks map[string][]string

	snap *Snapshot

	Staging    *StagingManager
	strictRefs bool
	logger     *log.Logger
	now        func() time.Time

	onChange         func(ctx context.Context)
	onChangeMu       sync.RWMutex
	onChangeDisabled bool
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStrictReferences controls whether upserts reject ids that point at
// members or projects the store does not hold. Enabled by default.
func WithStrictReferences(strict bool) Option {
	return func(s *Store) {
		s.strictRefs = strict
	}
}

// WithClock sets the clock used to stamp CreatedAt on new entities.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		memberIdx:    make(map[string]int),
		projectIdx:   make(map[string]int),
		taskIdx:      make(map[string]int),
		projectTasks: make(map[string][]string),
		Staging:      NewStagingManager(),
		strictRefs:   true,
		logger:       log.New(io.Discard),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) SetOnChange(fn func(ctx context.Context)) {
	s.onChangeMu.Lock()
	defer s.onChangeMu.Unlock()
	s.onChange = fn
}

func (s *Store) DisableOnChange() {
	s.onChangeMu.Lock()
	defer s.onChangeMu.Unlock()
	s.onChangeDisabled = true
}

func (s *Store) EnableOnChange() {
	s.onChangeMu.Lock()
	defer s.onChangeMu.Unlock()
	s.onChangeDisabled = false
}

func (s *Store) triggerChange(ctx context.Context) {
	s.onChangeMu.RLock()
	fn := s.onChange
	disabled := s.onChangeDisabled
	s.onChangeMu.RUnlock()

	if fn != nil && !disabled {
		fn(ctx)
	}
}

// UpsertMember inserts or replaces a member by id.
// If m.ID is empty, a new UUID is generated.
func (s *Store) UpsertMember(ctx context.Context, m *models.Member) error {
	s.mu.Lock()
	err := s.upsertMemberLocked(m)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Debug("member upserted", "id", m.ID, "role", m.Role)
	s.triggerChange(ctx)
	return nil
}

// UpsertProject inserts or replaces a project by id.
func (s *Store) UpsertProject(ctx context.Context, p *models.Project) error {
	s.mu.Lock()
	err := s.checkProjectRefs(p, nil)
	if err == nil {
		err = s.upsertProjectLocked(p)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Debug("project upserted", "id", p.ID, "status", p.Status)
	s.triggerChange(ctx)
	return nil
}

// UpsertTask inserts or replaces a task by id and rebuilds the
// project/task index before returning.
func (s *Store) UpsertTask(ctx context.Context, t *models.Task) error {
	s.mu.Lock()
	err := s.checkTaskRefs(t, nil)
	if err == nil {
		err = s.upsertTaskLocked(t)
	}
	if err == nil {
		s.rebuildLocked()
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.logger.Debug("task upserted", "id", t.ID, "project", t.ProjectID, "status", t.Status)
	s.triggerChange(ctx)
	return nil
}

// SetTaskStatus moves a task to any status. No transition rules apply.
func (s *Store) SetTaskStatus(ctx context.Context, id string, status models.TaskStatus) error {
	if !status.Valid() {
		return &models.ValidationError{Entity: "task", ID: id, Field: "status", Value: string(status), Err: models.ErrInvalidStatus}
	}

	s.mu.Lock()
	i, ok := s.taskIdx[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	updated := s.tasks[i].Clone()
	from := updated.Status
	updated.Status = status
	s.tasks[i] = updated
	s.snap = nil
	s.mu.Unlock()

	s.logger.Debug("task status changed", "id", id, "from", from, "to", status)
	s.triggerChange(ctx)
	return nil
}

// AddComment appends c to the task's comments. Once the comment is accepted,
// an empty c.ID gets a new UUID and a zero CreatedAt the store clock.
func (s *Store) AddComment(ctx context.Context, taskID string, c *models.Comment) error {
	if err := c.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	i, ok := s.taskIdx[taskID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if _, known := s.memberIdx[c.AuthorID]; s.strictRefs && !known {
		s.mu.Unlock()
		return fmt.Errorf("comment on task %s: author %s: %w", taskID, c.AuthorID, ErrUnknownMember)
	}
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}
	updated := s.tasks[i].Clone()
	updated.Comments = append(updated.Comments, *c)
	s.tasks[i] = updated
	s.snap = nil
	s.mu.Unlock()

	s.logger.Debug("comment added", "task", taskID, "comment", c.ID)
	s.triggerChange(ctx)
	return nil
}

// Members returns all members in insertion order.
func (s *Store) Members() []*models.Member {
	return s.Snapshot().Members
}

// Projects returns all projects in insertion order.
func (s *Store) Projects() []*models.Project {
	return s.Snapshot().Projects
}

// Tasks returns all tasks in insertion order.
func (s *Store) Tasks() []*models.Task {
	return s.Snapshot().Tasks
}

// TasksForProject returns the tasks currently assigned to projectID.
func (s *Store) TasksForProject(projectID string) []*models.Task {
	return s.Snapshot().TasksForProject(projectID)
}

// Rebuild recomputes the project/task index from the task collection.
// Calling it any number of times yields the same index.
func (s *Store) Rebuild() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rebuildLocked()
}

func (s *Store) rebuildLocked() {
	idx := make(map[string][]string, len(s.projects))
	for _, t := range s.tasks {
		idx[t.ProjectID] = append(idx[t.ProjectID], t.ID)
	}
	s.projectTasks = idx
	s.snap = nil
}

// Snapshot returns a consistent read-only view of the store. The same
// Snapshot is returned until the next write.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap != nil {
		return snap
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap == nil {
		s.snap = s.buildSnapshotLocked()
	}
	return s.snap
}

func (s *Store) buildSnapshotLocked() *Snapshot {
	snap := newSnapshot(
		append([]*models.Member(nil), s.members...),
		append([]*models.Project(nil), s.projects...),
		append([]*models.Task(nil), s.tasks...),
	)
	for projectID, ids := range s.projectTasks {
		tasks := make([]*models.Task, 0, len(ids))
		for _, id := range ids {
			tasks = append(tasks, s.tasks[s.taskIdx[id]])
		}
		snap.projectTasks[projectID] = tasks
	}
	return snap
}

func (s *Store) upsertMemberLocked(m *models.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	stored := m.Clone()
	if i, ok := s.memberIdx[m.ID]; ok {
		s.members[i] = stored
	} else {
		s.memberIdx[m.ID] = len(s.members)
		s.members = append(s.members, stored)
	}
	s.snap = nil
	return nil
}

func (s *Store) upsertProjectLocked(p *models.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.now().UTC()
	}
	stored := p.Clone()
	if i, ok := s.projectIdx[p.ID]; ok {
		s.projects[i] = stored
	} else {
		s.projectIdx[p.ID] = len(s.projects)
		s.projects = append(s.projects, stored)
	}
	s.snap = nil
	return nil
}

func (s *Store) upsertTaskLocked(t *models.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now().UTC()
	}
	stored := t.Clone()
	if i, ok := s.taskIdx[t.ID]; ok {
		s.tasks[i] = stored
	} else {
		s.taskIdx[t.ID] = len(s.tasks)
		s.tasks = append(s.tasks, stored)
	}
	s.snap = nil
	return nil
}

// checkProjectRefs verifies team members exist in the store or in pending.
func (s *Store) checkProjectRefs(p *models.Project, pending *refSet) error {
	if !s.strictRefs {
		return nil
	}
	for _, id := range p.MemberIDs {
		if !s.hasMember(id, pending) {
			return fmt.Errorf("project %s: member %s: %w", p.ID, id, ErrUnknownMember)
		}
	}
	return nil
}

func (s *Store) checkTaskRefs(t *models.Task, pending *refSet) error {
	if !s.strictRefs {
		return nil
	}
	if !s.hasProject(t.ProjectID, pending) {
		return fmt.Errorf("task %s: project %s: %w", t.ID, t.ProjectID, ErrUnknownProject)
	}
	if !s.hasMember(t.AssigneeID, pending) {
		return fmt.Errorf("task %s: assignee %s: %w", t.ID, t.AssigneeID, ErrUnknownMember)
	}
	for _, c := range t.Comments {
		if !s.hasMember(c.AuthorID, pending) {
			return fmt.Errorf("task %s: comment %s author %s: %w", t.ID, c.ID, c.AuthorID, ErrUnknownMember)
		}
	}
	return nil
}

func (s *Store) hasMember(id string, pending *refSet) bool {
	if _, ok := s.memberIdx[id]; ok {
		return true
	}
	return pending != nil && pending.members[id]
}

func (s *Store) hasProject(id string, pending *refSet) bool {
	if _, ok := s.projectIdx[id]; ok {
		return true
	}
	return pending != nil && pending.projects[id]
}

// refSet holds ids introduced by a batch that is not yet applied.
type refSet struct {
	members  map[string]bool
	projects map[string]bool
}
