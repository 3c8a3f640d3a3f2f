package query

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/ldi/taskdeck/internal/seed"
	"github.com/ldi/taskdeck/internal/store"
	"github.com/ldi/taskdeck/pkg/models"
)

func taskIDs(tasks []*models.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func projectIDs(projects []*models.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.ID)
	}
	return out
}

func memberIDs(members []*models.Member) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.ID)
	}
	return out
}

func TestFilterTasks(t *testing.T) {
	e := New(seed.Snapshot())

	tests := []struct {
		name     string
		criteria TaskCriteria
		want     []string
	}{
		{"empty criteria", TaskCriteria{}, []string{"1", "2", "3", "4", "5"}},
		{"all everywhere", TaskCriteria{Status: All, Priority: All, ProjectID: All, AssigneeID: All}, []string{"1", "2", "3", "4", "5"}},
		{"high priority", TaskCriteria{Priority: models.PriorityHigh}, []string{"1", "2", "4"}},
		{"todo status", TaskCriteria{Status: models.TaskStatusTodo}, []string{"3", "4"}},
		{"project 2", TaskCriteria{ProjectID: "2"}, []string{"5"}},
		{"assignee 1 and high", TaskCriteria{AssigneeID: "1", Priority: models.PriorityHigh}, []string{"1", "4"}},
		{"search in title", TaskCriteria{SearchText: "AUTENTICAÇÃO"}, []string{"2"}},
		{"search in description", TaskCriteria{SearchText: "docker"}, []string{"1"}},
		{"search with status", TaskCriteria{SearchText: "criar", Status: models.TaskStatusTodo}, []string{"3"}},
		{"nonexistent project", TaskCriteria{ProjectID: "99"}, []string{}},
		{"nonexistent assignee", TaskCriteria{AssigneeID: "nobody"}, []string{}},
		{"blocked", TaskCriteria{Status: models.TaskStatusBlocked}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := taskIDs(slices.Collect(e.FilterTasks(tt.criteria)))
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterProjects(t *testing.T) {
	e := New(seed.Snapshot())

	tests := []struct {
		name     string
		criteria ProjectCriteria
		want     []string
	}{
		{"identity", ProjectCriteria{}, []string{"1", "2", "3", "4"}},
		{"all", ProjectCriteria{Status: All, Priority: All}, []string{"1", "2", "3", "4"}},
		{"in progress", ProjectCriteria{Status: models.ProjectStatusInProgress}, []string{"1", "2"}},
		{"medium", ProjectCriteria{Priority: models.PriorityMedium}, []string{"3", "4"}},
		{"search sistema", ProjectCriteria{SearchText: "sistema"}, []string{"1", "4"}},
		{"search accented description", ProjectCriteria{SearchText: "ANÁLISE"}, []string{"3"}},
		{"on hold", ProjectCriteria{Status: models.ProjectStatusOnHold}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := projectIDs(slices.Collect(e.FilterProjects(tt.criteria)))
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestFilterMembers(t *testing.T) {
	e := New(seed.Snapshot())

	tests := []struct {
		name     string
		criteria MemberCriteria
		want     []string
	}{
		{"identity", MemberCriteria{}, []string{"1", "2", "3", "4"}},
		{"role member", MemberCriteria{Role: models.RoleMember}, []string{"3", "4"}},
		{"search name", MemberCriteria{SearchText: "joão"}, []string{"2"}},
		{"search email", MemberCriteria{SearchText: "PEDRO@"}, []string{"4"}},
		{"role all", MemberCriteria{Role: All}, []string{"1", "2", "3", "4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := memberIDs(slices.Collect(e.FilterMembers(tt.criteria)))
			if !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSearchIsNotTrimmed(t *testing.T) {
	task := &models.Task{Title: "Design da interface", Description: ""}
	if !MatchTask(task, TaskCriteria{SearchText: " da "}) {
		t.Error("expected padded search to match inner words")
	}
	if MatchTask(task, TaskCriteria{SearchText: " design"}) {
		t.Error("expected leading space to be significant")
	}
}

func TestFilterIsLazyAndLive(t *testing.T) {
	ctx := context.Background()
	s := store.New()
	if err := seed.Load(ctx, s); err != nil {
		t.Fatalf("failed to load seed: %v", err)
	}
	e := New(s)

	seq := e.FilterTasks(TaskCriteria{Status: models.TaskStatusCompleted})
	if got := taskIDs(slices.Collect(seq)); !slices.Equal(got, []string{"1"}) {
		t.Fatalf("expected [1], got %v", got)
	}

	if err := s.SetTaskStatus(ctx, "3", models.TaskStatusCompleted); err != nil {
		t.Fatalf("failed to set status: %v", err)
	}
	if got := taskIDs(slices.Collect(seq)); !slices.Equal(got, []string{"1", "3"}) {
		t.Errorf("expected re-iteration to see [1 3], got %v", got)
	}

	count := 0
	for range e.FilterTasks(TaskCriteria{}) {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("expected early break to stop at 2, got %d", count)
	}
}

func TestGroupTasksByStatus(t *testing.T) {
	e := New(seed.Snapshot())

	board, err := GroupTasksByStatus(e.FilterTasks(TaskCriteria{}))
	if err != nil {
		t.Fatalf("GroupTasksByStatus failed: %v", err)
	}

	if len(board) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(board))
	}
	want := map[models.TaskStatus][]string{
		models.TaskStatusTodo:       {"3", "4"},
		models.TaskStatusInProgress: {"2", "5"},
		models.TaskStatusCompleted:  {"1"},
		models.TaskStatusBlocked:    {},
	}
	for status, ids := range want {
		if got := taskIDs(board[status]); !slices.Equal(got, ids) {
			t.Errorf("column %s: expected %v, got %v", status, ids, got)
		}
	}
	if board.Len() != 5 {
		t.Errorf("expected 5 tasks on board, got %d", board.Len())
	}
}

func TestGroupTasksByStatusRejectsUnknownStatus(t *testing.T) {
	tasks := []*models.Task{
		{ID: "a", Status: models.TaskStatusTodo},
		{ID: "b", Status: "archived"},
	}
	_, err := GroupTasksByStatus(slices.Values(tasks))
	if !errors.Is(err, models.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}
