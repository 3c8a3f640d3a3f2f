// Package query filters and groups the entity collections by user criteria.
package query

import (
	"fmt"
	"iter"
	"strings"

	"github.com/ldi/taskdeck/internal/store"
	"github.com/ldi/taskdeck/pkg/models"
	"golang.org/x/text/cases"
)

// All is accepted wherever a criterion can be left unconstrained.
const All = "all"

type TaskCriteria struct {
	SearchText string            `json:"search_text,omitempty"`
	Status     models.TaskStatus `json:"status,omitempty"`
	Priority   models.Priority   `json:"priority,omitempty"`
	ProjectID  string            `json:"project_id,omitempty"`
	AssigneeID string            `json:"assignee_id,omitempty"`
}

type ProjectCriteria struct {
	SearchText string               `json:"search_text,omitempty"`
	Status     models.ProjectStatus `json:"status,omitempty"`
	Priority   models.Priority      `json:"priority,omitempty"`
}

type MemberCriteria struct {
	SearchText string      `json:"search_text,omitempty"`
	Role       models.Role `json:"role,omitempty"`
}

// Engine evaluates criteria against the current snapshot of its source.
type Engine struct {
	src store.Source
}

func New(src store.Source) *Engine {
	return &Engine{src: src}
}

// FilterTasks yields the tasks matching c in insertion order. The snapshot
// is taken when iteration starts.
func (e *Engine) FilterTasks(c TaskCriteria) iter.Seq[*models.Task] {
	return func(yield func(*models.Task) bool) {
		s := newSearch(c.SearchText)
		for _, t := range e.src.Snapshot().Tasks {
			if matchTask(t, c, s) && !yield(t) {
				return
			}
		}
	}
}

func (e *Engine) FilterProjects(c ProjectCriteria) iter.Seq[*models.Project] {
	return func(yield func(*models.Project) bool) {
		s := newSearch(c.SearchText)
		for _, p := range e.src.Snapshot().Projects {
			if matchProject(p, c, s) && !yield(p) {
				return
			}
		}
	}
}

func (e *Engine) FilterMembers(c MemberCriteria) iter.Seq[*models.Member] {
	return func(yield func(*models.Member) bool) {
		s := newSearch(c.SearchText)
		for _, m := range e.src.Snapshot().Members {
			if matchMember(m, c, s) && !yield(m) {
				return
			}
		}
	}
}

// MatchTask reports whether t satisfies every constraint in c.
func MatchTask(t *models.Task, c TaskCriteria) bool {
	return matchTask(t, c, newSearch(c.SearchText))
}

func MatchProject(p *models.Project, c ProjectCriteria) bool {
	return matchProject(p, c, newSearch(c.SearchText))
}

func MatchMember(m *models.Member, c MemberCriteria) bool {
	return matchMember(m, c, newSearch(c.SearchText))
}

func matchTask(t *models.Task, c TaskCriteria, s *search) bool {
	return s.match(t.Title, t.Description) &&
		accepts(string(c.Status), string(t.Status)) &&
		accepts(string(c.Priority), string(t.Priority)) &&
		accepts(c.ProjectID, t.ProjectID) &&
		accepts(c.AssigneeID, t.AssigneeID)
}

func matchProject(p *models.Project, c ProjectCriteria, s *search) bool {
	return s.match(p.Title, p.Description) &&
		accepts(string(c.Status), string(p.Status)) &&
		accepts(string(c.Priority), string(p.Priority))
}

func matchMember(m *models.Member, c MemberCriteria, s *search) bool {
	return s.match(m.Name, m.Email) && accepts(string(c.Role), string(m.Role))
}

func accepts(want, got string) bool {
	return want == "" || want == All || want == got
}

// search is a case-insensitive substring matcher. A nil search matches
// everything. Not safe for concurrent use.
type search struct {
	caser  cases.Caser
	needle string
}

func newSearch(text string) *search {
	if text == "" {
		return nil
	}
	caser := cases.Fold()
	return &search{caser: caser, needle: caser.String(text)}
}

func (s *search) match(fields ...string) bool {
	if s == nil {
		return true
	}
	for _, f := range fields {
		if strings.Contains(s.caser.String(f), s.needle) {
			return true
		}
	}
	return false
}

// Board holds one column per task status. Every status is present, even
// when its column is empty.
type Board map[models.TaskStatus][]*models.Task

// GroupTasksByStatus partitions tasks into board columns, keeping their
// relative order. A task with an unknown status fails the whole grouping.
func GroupTasksByStatus(tasks iter.Seq[*models.Task]) (Board, error) {
	board := make(Board, len(models.TaskStatuses))
	for _, status := range models.TaskStatuses {
		board[status] = []*models.Task{}
	}
	for t := range tasks {
		if !t.Status.Valid() {
			return nil, fmt.Errorf("task %s: %w: %q", t.ID, models.ErrInvalidStatus, t.Status)
		}
		board[t.Status] = append(board[t.Status], t)
	}
	return board, nil
}

// Len returns the number of tasks on the board.
func (b Board) Len() int {
	n := 0
	for _, tasks := range b {
		n += len(tasks)
	}
	return n
}
